package memory

import (
	"context"
	"errors"
	"sync"

	"rentify/internal/app/uow"
	domainbooking "rentify/internal/domain/booking"
	domainpayment "rentify/internal/domain/payment"
	domainproperty "rentify/internal/domain/property"
	domainreview "rentify/internal/domain/review"
	domainuser "rentify/internal/domain/user"
)

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory wires in-memory repositories into a unit-of-work boundary. Writer
// units take a factory-wide lock held until Commit or Rollback, so the
// check-then-act sequences inside a command handler never interleave.
// Read-only units run lock-free against the mutex-guarded repositories.
type Factory struct {
	PropertyRepo domainproperty.Repository
	UserRepo     domainuser.Repository
	BookingRepo  domainbooking.Repository
	PaymentRepo  domainpayment.Repository
	ReviewRepo   domainreview.Repository

	writeMu sync.Mutex
}

// NewFactory builds a factory over fresh repositories.
func NewFactory() *Factory {
	return &Factory{
		PropertyRepo: NewPropertyRepository(),
		UserRepo:     NewUserRepository(),
		BookingRepo:  NewBookingRepository(),
		PaymentRepo:  NewPaymentRepository(),
		ReviewRepo:   NewReviewRepository(),
	}
}

func (f *Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.PropertyRepo == nil || f.UserRepo == nil || f.BookingRepo == nil || f.PaymentRepo == nil || f.ReviewRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	unit := &Unit{
		properties: f.PropertyRepo,
		users:      f.UserRepo,
		bookings:   f.BookingRepo,
		payments:   f.PaymentRepo,
		reviews:    f.ReviewRepo,
	}
	if !opts.ReadOnly {
		f.writeMu.Lock()
		unit.release = f.writeMu.Unlock
	}
	return unit, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores. There is
// no rollback of already-applied writes; the writer lock only guarantees that
// units do not interleave.
type Unit struct {
	properties domainproperty.Repository
	users      domainuser.Repository
	bookings   domainbooking.Repository
	payments   domainpayment.Repository
	reviews    domainreview.Repository

	releaseOnce sync.Once
	release     func()
}

func (u *Unit) Properties() domainproperty.Repository { return u.properties }

func (u *Unit) Users() domainuser.Repository { return u.users }

func (u *Unit) Bookings() domainbooking.Repository { return u.bookings }

func (u *Unit) Payments() domainpayment.Repository { return u.payments }

func (u *Unit) Reviews() domainreview.Repository { return u.reviews }

func (u *Unit) Commit(ctx context.Context) error {
	u.unlock()
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	u.unlock()
	return nil
}

func (u *Unit) unlock() {
	if u.release == nil {
		return
	}
	u.releaseOnce.Do(u.release)
}

var _ uow.UoWFactory = (*Factory)(nil)
var _ uow.UnitOfWork = (*Unit)(nil)
