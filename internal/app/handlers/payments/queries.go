package payments

import (
	"context"
	"errors"

	"rentify/internal/app/dto"
	"rentify/internal/app/handlers/support"
	"rentify/internal/app/queries"
	"rentify/internal/app/uow"
	domainbooking "rentify/internal/domain/booking"
	domainpayment "rentify/internal/domain/payment"
	domainproperty "rentify/internal/domain/property"
	domainuser "rentify/internal/domain/user"
)

const (
	paymentByBookingKey     = "payments.by_booking"
	listRenterPaymentsKey   = "payments.list_by_renter"
	isPaymentOwnerKey       = "payments.is_owner"
	totalPaidByRenterKey    = "payments.total_by_renter"
	totalPaidAllKey         = "payments.total_all"
	totalPaidForPropertyKey = "payments.total_for_property"
)

type PaymentByBookingQuery struct {
	BookingID string
}

func (q PaymentByBookingQuery) Key() string { return paymentByBookingKey }

type PaymentByBookingHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *PaymentByBookingHandler) Handle(ctx context.Context, q PaymentByBookingQuery) (dto.Payment, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Payment{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	pay, err := unit.Payments().ByBooking(execCtx, domainbooking.BookingID(q.BookingID))
	if err != nil {
		return dto.Payment{}, err
	}
	return dto.MapPayment(pay), nil
}

type ListRenterPaymentsQuery struct {
	RenterID string
}

func (q ListRenterPaymentsQuery) Key() string { return listRenterPaymentsKey }

type ListRenterPaymentsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListRenterPaymentsHandler) Handle(ctx context.Context, q ListRenterPaymentsQuery) (dto.PaymentCollection, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.PaymentCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	items, err := unit.Payments().ListByRenter(execCtx, q.RenterID)
	if err != nil {
		return dto.PaymentCollection{}, err
	}
	return dto.MapPaymentCollection(items), nil
}

type IsPaymentOwnerQuery struct {
	PaymentID string
	Username  string
}

func (q IsPaymentOwnerQuery) Key() string { return isPaymentOwnerKey }

type IsPaymentOwnerHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *IsPaymentOwnerHandler) Handle(ctx context.Context, q IsPaymentOwnerQuery) (bool, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return false, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	pay, err := unit.Payments().ByID(execCtx, domainpayment.PaymentID(q.PaymentID))
	if err != nil {
		return false, err
	}
	renter, err := unit.Users().ByUsername(execCtx, q.Username)
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return pay.IsOwner(string(renter.ID)), nil
}

// TotalPaidByRenterQuery sums a renter's payments. An empty collection yields
// a zero total rather than an error.
type TotalPaidByRenterQuery struct {
	RenterID string
}

func (q TotalPaidByRenterQuery) Key() string { return totalPaidByRenterKey }

type TotalPaidByRenterHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *TotalPaidByRenterHandler) Handle(ctx context.Context, q TotalPaidByRenterQuery) (dto.PaymentTotal, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.PaymentTotal{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	items, err := unit.Payments().ListByRenter(execCtx, q.RenterID)
	if err != nil {
		return dto.PaymentTotal{}, err
	}
	return sumPayments(items)
}

type TotalPaidAllQuery struct{}

func (q TotalPaidAllQuery) Key() string { return totalPaidAllKey }

type TotalPaidAllHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *TotalPaidAllHandler) Handle(ctx context.Context, q TotalPaidAllQuery) (dto.PaymentTotal, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.PaymentTotal{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	items, err := unit.Payments().ListAll(execCtx)
	if err != nil {
		return dto.PaymentTotal{}, err
	}
	return sumPayments(items)
}

// TotalPaidForPropertyQuery sums payments across all bookings of a property.
type TotalPaidForPropertyQuery struct {
	PropertyID string
}

func (q TotalPaidForPropertyQuery) Key() string { return totalPaidForPropertyKey }

type TotalPaidForPropertyHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *TotalPaidForPropertyHandler) Handle(ctx context.Context, q TotalPaidForPropertyQuery) (dto.PaymentTotal, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.PaymentTotal{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	if _, err := unit.Properties().ByID(execCtx, domainproperty.PropertyID(q.PropertyID)); err != nil {
		return dto.PaymentTotal{}, err
	}
	bookings, err := unit.Bookings().ListByProperty(execCtx, domainproperty.PropertyID(q.PropertyID))
	if err != nil {
		return dto.PaymentTotal{}, err
	}
	matched := make([]*domainpayment.Payment, 0, len(bookings))
	for _, b := range bookings {
		pay, err := unit.Payments().ByBooking(execCtx, b.ID)
		if err != nil {
			if errors.Is(err, domainpayment.ErrNotFound) {
				continue
			}
			return dto.PaymentTotal{}, err
		}
		matched = append(matched, pay)
	}
	return sumPayments(matched)
}

func sumPayments(items []*domainpayment.Payment) (dto.PaymentTotal, error) {
	if len(items) == 0 {
		return dto.PaymentTotal{}, nil
	}
	total := items[0].Amount
	for _, pay := range items[1:] {
		next, err := total.Add(pay.Amount)
		if err != nil {
			return dto.PaymentTotal{}, err
		}
		total = next
	}
	return dto.PaymentTotal{Total: dto.MapMoney(total), Count: len(items)}, nil
}

var _ queries.Handler[PaymentByBookingQuery, dto.Payment] = (*PaymentByBookingHandler)(nil)
var _ queries.Handler[ListRenterPaymentsQuery, dto.PaymentCollection] = (*ListRenterPaymentsHandler)(nil)
var _ queries.Handler[IsPaymentOwnerQuery, bool] = (*IsPaymentOwnerHandler)(nil)
var _ queries.Handler[TotalPaidByRenterQuery, dto.PaymentTotal] = (*TotalPaidByRenterHandler)(nil)
var _ queries.Handler[TotalPaidAllQuery, dto.PaymentTotal] = (*TotalPaidAllHandler)(nil)
var _ queries.Handler[TotalPaidForPropertyQuery, dto.PaymentTotal] = (*TotalPaidForPropertyHandler)(nil)
