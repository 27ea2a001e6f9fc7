package uow

import (
	"context"

	domainbooking "rentify/internal/domain/booking"
	domainpayment "rentify/internal/domain/payment"
	domainproperty "rentify/internal/domain/property"
	domainreview "rentify/internal/domain/review"
	domainuser "rentify/internal/domain/user"
)

// UnitOfWork coordinates repositories inside a transaction boundary. Every
// operation of the core runs against exactly one unit: the availability
// check, overlap check and insert of a booking share the same scope.
type UnitOfWork interface {
	Properties() domainproperty.Repository
	Users() domainuser.Repository
	Bookings() domainbooking.Repository
	Payments() domainpayment.Repository
	Reviews() domainreview.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
