package middleware

import (
	"context"
	"errors"
	"testing"

	"rentify/internal/app/commands"
	"rentify/internal/app/queries"
	"rentify/internal/app/uow"
)

var errBoom = errors.New("boom")

type fakeUnit struct {
	uow.UnitOfWork
	commits   int
	rollbacks int
	commitErr error
}

func (u *fakeUnit) Commit(ctx context.Context) error {
	u.commits++
	return u.commitErr
}

func (u *fakeUnit) Rollback(ctx context.Context) error {
	u.rollbacks++
	return nil
}

type fakeFactory struct {
	unit     *fakeUnit
	begins   int
	lastOpts uow.TxOptions
}

func (f *fakeFactory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	f.begins++
	f.lastOpts = opts
	return f.unit, nil
}

type fakeStore struct {
	items map[string]IdempotencyRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: make(map[string]IdempotencyRecord)}
}

func (s *fakeStore) Get(ctx context.Context, key string) (IdempotencyRecord, bool, error) {
	rec, ok := s.items[key]
	return rec, ok, nil
}

func (s *fakeStore) Save(ctx context.Context, rec IdempotencyRecord) error {
	s.items[rec.Key] = rec
	return nil
}

type txCommand struct{}

func (txCommand) Key() string { return "tx.test" }

type txQuery struct{}

func (txQuery) Key() string { return "tx.query" }

type echoResult struct {
	Value string
}

type idemCommand struct {
	IdemKey string
	Value   string
}

func (idemCommand) Key() string              { return "idem.test" }
func (c idemCommand) IdempotencyKey() string { return c.IdemKey }
func (c idemCommand) ResultPrototype() any   { return &echoResult{} }

func TestTransactionCommitsOnSuccess(t *testing.T) {
	factory := &fakeFactory{unit: &fakeUnit{}}
	bus := commands.NewInMemoryBus()
	var sawUnit bool
	commands.RegisterHandler(bus, txCommand{}.Key(), commands.HandlerFunc[txCommand, string](func(ctx context.Context, cmd txCommand) (string, error) {
		_, sawUnit = uow.FromContext(ctx)
		return "done", nil
	}))
	wrapped := ChainCommands(bus, Transaction(factory, nil))

	res, err := wrapped.Dispatch(context.Background(), txCommand{})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res != "done" {
		t.Errorf("Dispatch() = %v", res)
	}
	if !sawUnit {
		t.Error("handler did not find a unit of work in context")
	}
	if factory.unit.commits != 1 || factory.unit.rollbacks != 0 {
		t.Errorf("commits = %d, rollbacks = %d; want 1, 0", factory.unit.commits, factory.unit.rollbacks)
	}
}

func TestTransactionRollsBackOnHandlerError(t *testing.T) {
	factory := &fakeFactory{unit: &fakeUnit{}}
	bus := commands.NewInMemoryBus()
	commands.RegisterHandler(bus, txCommand{}.Key(), commands.HandlerFunc[txCommand, string](func(ctx context.Context, cmd txCommand) (string, error) {
		return "", errBoom
	}))
	wrapped := ChainCommands(bus, Transaction(factory, nil))

	if _, err := wrapped.Dispatch(context.Background(), txCommand{}); !errors.Is(err, errBoom) {
		t.Fatalf("Dispatch() error = %v, want %v", err, errBoom)
	}
	if factory.unit.commits != 0 || factory.unit.rollbacks != 1 {
		t.Errorf("commits = %d, rollbacks = %d; want 0, 1", factory.unit.commits, factory.unit.rollbacks)
	}
}

func TestTransactionRollsBackOnCommitError(t *testing.T) {
	factory := &fakeFactory{unit: &fakeUnit{commitErr: errBoom}}
	bus := commands.NewInMemoryBus()
	commands.RegisterHandler(bus, txCommand{}.Key(), commands.HandlerFunc[txCommand, string](func(ctx context.Context, cmd txCommand) (string, error) {
		return "done", nil
	}))
	wrapped := ChainCommands(bus, Transaction(factory, nil))

	if _, err := wrapped.Dispatch(context.Background(), txCommand{}); !errors.Is(err, errBoom) {
		t.Fatalf("Dispatch() error = %v, want %v", err, errBoom)
	}
	if factory.unit.rollbacks != 1 {
		t.Errorf("rollbacks = %d, want 1 after failed commit", factory.unit.rollbacks)
	}
}

func TestReadOnlyTransaction(t *testing.T) {
	factory := &fakeFactory{unit: &fakeUnit{}}
	bus := queries.NewInMemoryBus()
	var sawUnit bool
	queries.RegisterHandler(bus, txQuery{}.Key(), queries.HandlerFunc[txQuery, string](func(ctx context.Context, q txQuery) (string, error) {
		_, sawUnit = uow.FromContext(ctx)
		return "answer", nil
	}))
	wrapped := ChainQueries(bus, ReadOnlyTransaction(factory))

	res, err := wrapped.Ask(context.Background(), txQuery{})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if res != "answer" {
		t.Errorf("Ask() = %v", res)
	}
	if !sawUnit {
		t.Error("handler did not find a unit of work in context")
	}
	if !factory.lastOpts.ReadOnly {
		t.Error("unit opened without ReadOnly option")
	}
	if factory.unit.rollbacks != 1 || factory.unit.commits != 0 {
		t.Errorf("commits = %d, rollbacks = %d; want 0, 1", factory.unit.commits, factory.unit.rollbacks)
	}
}

func TestReadOnlyTransactionReusesContextUnit(t *testing.T) {
	factory := &fakeFactory{unit: &fakeUnit{}}
	existing := &fakeUnit{}
	bus := queries.NewInMemoryBus()
	queries.RegisterHandler(bus, txQuery{}.Key(), queries.HandlerFunc[txQuery, string](func(ctx context.Context, q txQuery) (string, error) {
		return "answer", nil
	}))
	wrapped := ChainQueries(bus, ReadOnlyTransaction(factory))

	ctx := uow.ContextWithUnitOfWork(context.Background(), existing)
	if _, err := wrapped.Ask(ctx, txQuery{}); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if factory.begins != 0 {
		t.Errorf("begins = %d, want the inherited unit reused", factory.begins)
	}
	if existing.rollbacks != 0 {
		t.Errorf("inherited unit rollbacks = %d, want untouched", existing.rollbacks)
	}
}

func TestIdempotencyReplaysResult(t *testing.T) {
	store := newFakeStore()
	bus := commands.NewInMemoryBus()
	calls := 0
	commands.RegisterHandler(bus, idemCommand{}.Key(), commands.HandlerFunc[idemCommand, *echoResult](func(ctx context.Context, cmd idemCommand) (*echoResult, error) {
		calls++
		return &echoResult{Value: cmd.Value}, nil
	}))
	wrapped := ChainCommands(bus, Idempotency(store, nil))
	ctx := context.Background()

	first, err := wrapped.Dispatch(ctx, idemCommand{IdemKey: "k1", Value: "v1"})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if got := first.(*echoResult); got.Value != "v1" {
		t.Errorf("first result = %+v", got)
	}

	// the second dispatch carries a different payload but the same key and
	// must return the stored outcome without invoking the handler again
	second, err := wrapped.Dispatch(ctx, idemCommand{IdemKey: "k1", Value: "v2"})
	if err != nil {
		t.Fatalf("Dispatch() replay error = %v", err)
	}
	if got := second.(*echoResult); got.Value != "v1" {
		t.Errorf("replayed result = %+v, want the original", got)
	}
	if calls != 1 {
		t.Errorf("handler calls = %d, want 1", calls)
	}
}

func TestIdempotencyReplaysError(t *testing.T) {
	store := newFakeStore()
	bus := commands.NewInMemoryBus()
	calls := 0
	commands.RegisterHandler(bus, idemCommand{}.Key(), commands.HandlerFunc[idemCommand, *echoResult](func(ctx context.Context, cmd idemCommand) (*echoResult, error) {
		calls++
		return nil, errBoom
	}))
	wrapped := ChainCommands(bus, Idempotency(store, nil))
	ctx := context.Background()

	if _, err := wrapped.Dispatch(ctx, idemCommand{IdemKey: "k1"}); !errors.Is(err, errBoom) {
		t.Fatalf("Dispatch() error = %v, want %v", err, errBoom)
	}
	_, err := wrapped.Dispatch(ctx, idemCommand{IdemKey: "k1"})
	if err == nil || err.Error() != errBoom.Error() {
		t.Fatalf("Dispatch() replayed error = %v, want %q", err, errBoom.Error())
	}
	if calls != 1 {
		t.Errorf("handler calls = %d, want 1", calls)
	}
}

func TestIdempotencySkipsBlankKey(t *testing.T) {
	store := newFakeStore()
	bus := commands.NewInMemoryBus()
	calls := 0
	commands.RegisterHandler(bus, idemCommand{}.Key(), commands.HandlerFunc[idemCommand, *echoResult](func(ctx context.Context, cmd idemCommand) (*echoResult, error) {
		calls++
		return &echoResult{Value: cmd.Value}, nil
	}))
	wrapped := ChainCommands(bus, Idempotency(store, nil))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := wrapped.Dispatch(ctx, idemCommand{Value: "v"}); err != nil {
			t.Fatalf("Dispatch() error = %v", err)
		}
	}
	if calls != 2 {
		t.Errorf("handler calls = %d, want every blank-key dispatch executed", calls)
	}
}

func TestIdempotencyIgnoresPlainCommands(t *testing.T) {
	store := newFakeStore()
	bus := commands.NewInMemoryBus()
	calls := 0
	commands.RegisterHandler(bus, txCommand{}.Key(), commands.HandlerFunc[txCommand, string](func(ctx context.Context, cmd txCommand) (string, error) {
		calls++
		return "done", nil
	}))
	wrapped := ChainCommands(bus, Idempotency(store, nil))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := wrapped.Dispatch(ctx, txCommand{}); err != nil {
			t.Fatalf("Dispatch() error = %v", err)
		}
	}
	if calls != 2 {
		t.Errorf("handler calls = %d, want 2", calls)
	}
}
