package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"rentify/internal/app/uow"
	domainbooking "rentify/internal/domain/booking"
	domainpayment "rentify/internal/domain/payment"
	domainproperty "rentify/internal/domain/property"
	domainreview "rentify/internal/domain/review"
	domainuser "rentify/internal/domain/user"
)

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Factory wires Mongo transactions into the generic UnitOfWork interface.
type Factory struct {
	DB *mongo.Database

	PropertyRepo domainproperty.Repository
	UserRepo     domainuser.Repository
	BookingRepo  domainbooking.Repository
	PaymentRepo  domainpayment.Repository
	ReviewRepo   domainreview.Repository
}

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		db:         f.DB,
		session:    session,
		properties: f.PropertyRepo,
		users:      f.UserRepo,
		bookings:   f.BookingRepo,
		payments:   f.PaymentRepo,
		reviews:    f.ReviewRepo,
	}, nil
}

type Unit struct {
	db      *mongo.Database
	session mongo.Session

	properties domainproperty.Repository
	users      domainuser.Repository
	bookings   domainbooking.Repository
	payments   domainpayment.Repository
	reviews    domainreview.Repository
}

func (u *Unit) Properties() domainproperty.Repository { return u.properties }

func (u *Unit) Users() domainuser.Repository { return u.users }

func (u *Unit) Bookings() domainbooking.Repository { return u.bookings }

func (u *Unit) Payments() domainpayment.Repository { return u.payments }

func (u *Unit) Reviews() domainreview.Repository { return u.reviews }

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext ensures the Mongo session is available in context for downstream repos.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}

var _ uow.UoWFactory = Factory{}
var _ uow.UnitOfWork = (*Unit)(nil)
