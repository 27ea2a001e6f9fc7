package payments

import (
	"context"
	"log/slog"
	"time"

	"rentify/internal/app/commands"
	"rentify/internal/app/dto"
	"rentify/internal/app/handlers/support"
	"rentify/internal/app/outbox"
	"rentify/internal/app/uow"
	domainbooking "rentify/internal/domain/booking"
	domainpayment "rentify/internal/domain/payment"
	"rentify/internal/domain/shared/money"
)

const (
	updatePaymentStatusKey = "payments.update_status"
	updatePaymentMethodKey = "payments.update_method"
	updatePaymentKey       = "payments.update"
	deleteByBookingKey     = "payments.delete_by_booking"
)

// UpdatePaymentStatusCommand records a status change reported by the payment
// provider. No transition graph is enforced; sequencing is deployment policy.
type UpdatePaymentStatusCommand struct {
	PaymentID string
	Status    domainpayment.Status
}

func (c UpdatePaymentStatusCommand) Key() string { return updatePaymentStatusKey }

type UpdatePaymentStatusHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *UpdatePaymentStatusHandler) Handle(ctx context.Context, cmd UpdatePaymentStatusCommand) (dto.Payment, error) {
	unit, execCtx, done, err := support.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Payment{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = done(false)
		}
	}()

	pay, err := unit.Payments().ByID(execCtx, domainpayment.PaymentID(cmd.PaymentID))
	if err != nil {
		return dto.Payment{}, err
	}
	if err := pay.ChangeStatus(cmd.Status, time.Now()); err != nil {
		return dto.Payment{}, err
	}
	if err := unit.Payments().Save(execCtx, pay); err != nil {
		return dto.Payment{}, err
	}

	pending := pay.PendingEvents()
	pay.ClearEvents()
	if err := outbox.RecordDomainEvents(execCtx, h.Outbox, h.Encoder, pending); err != nil {
		return dto.Payment{}, err
	}

	if err := done(true); err != nil {
		return dto.Payment{}, err
	}
	committed = true

	if h.Logger != nil {
		h.Logger.Info("payment status updated", "payment_id", pay.ID, "status", pay.Status)
	}
	return dto.MapPayment(pay), nil
}

type UpdatePaymentMethodCommand struct {
	PaymentID string
	Method    domainpayment.Method
}

func (c UpdatePaymentMethodCommand) Key() string { return updatePaymentMethodKey }

type UpdatePaymentMethodHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *UpdatePaymentMethodHandler) Handle(ctx context.Context, cmd UpdatePaymentMethodCommand) (dto.Payment, error) {
	unit, execCtx, done, err := support.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Payment{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = done(false)
		}
	}()

	pay, err := unit.Payments().ByID(execCtx, domainpayment.PaymentID(cmd.PaymentID))
	if err != nil {
		return dto.Payment{}, err
	}
	if err := pay.ChangeMethod(cmd.Method, time.Now()); err != nil {
		return dto.Payment{}, err
	}
	if err := unit.Payments().Save(execCtx, pay); err != nil {
		return dto.Payment{}, err
	}

	if err := done(true); err != nil {
		return dto.Payment{}, err
	}
	committed = true
	return dto.MapPayment(pay), nil
}

// UpdatePaymentCommand replaces method, reference and amount together. The
// amount must still match the booking's total price.
type UpdatePaymentCommand struct {
	PaymentID      string
	Amount         money.Money
	Method         domainpayment.Method
	TransactionRef string
}

func (c UpdatePaymentCommand) Key() string { return updatePaymentKey }

type UpdatePaymentHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *UpdatePaymentHandler) Handle(ctx context.Context, cmd UpdatePaymentCommand) (dto.Payment, error) {
	unit, execCtx, done, err := support.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Payment{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = done(false)
		}
	}()

	pay, err := unit.Payments().ByID(execCtx, domainpayment.PaymentID(cmd.PaymentID))
	if err != nil {
		return dto.Payment{}, err
	}
	b, err := unit.Bookings().ByID(execCtx, pay.BookingID)
	if err != nil {
		return dto.Payment{}, err
	}
	if !cmd.Amount.Equal(b.TotalPrice) {
		return dto.Payment{}, domainpayment.ErrAmountMismatch
	}
	now := time.Now()
	if err := pay.ChangeMethod(cmd.Method, now); err != nil {
		return dto.Payment{}, err
	}
	pay.TransactionRef = cmd.TransactionRef
	if err := pay.ChangeStatus(domainpayment.StatusPending, now); err != nil {
		return dto.Payment{}, err
	}
	if err := unit.Payments().Save(execCtx, pay); err != nil {
		return dto.Payment{}, err
	}

	if err := done(true); err != nil {
		return dto.Payment{}, err
	}
	committed = true
	return dto.MapPayment(pay), nil
}

// DeletePaymentByBookingCommand removes the payment attached to a booking and
// clears the booking's back-reference.
type DeletePaymentByBookingCommand struct {
	BookingID string
}

func (c DeletePaymentByBookingCommand) Key() string { return deleteByBookingKey }

type DeletePaymentByBookingHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *DeletePaymentByBookingHandler) Handle(ctx context.Context, cmd DeletePaymentByBookingCommand) (struct{}, error) {
	unit, execCtx, done, err := support.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return struct{}{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = done(false)
		}
	}()

	pay, err := unit.Payments().ByBooking(execCtx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return struct{}{}, err
	}
	if err := unit.Payments().Delete(execCtx, pay.ID); err != nil {
		return struct{}{}, err
	}
	if b, err := unit.Bookings().ByID(execCtx, pay.BookingID); err == nil {
		b.ClearPayment(time.Now())
		if err := unit.Bookings().Save(execCtx, b); err != nil {
			return struct{}{}, err
		}
	}

	if err := done(true); err != nil {
		return struct{}{}, err
	}
	committed = true

	if h.Logger != nil {
		h.Logger.Info("payment deleted", "payment_id", pay.ID, "booking_id", pay.BookingID)
	}
	return struct{}{}, nil
}

var _ commands.Handler[UpdatePaymentStatusCommand, dto.Payment] = (*UpdatePaymentStatusHandler)(nil)
var _ commands.Handler[UpdatePaymentMethodCommand, dto.Payment] = (*UpdatePaymentMethodHandler)(nil)
var _ commands.Handler[UpdatePaymentCommand, dto.Payment] = (*UpdatePaymentHandler)(nil)
var _ commands.Handler[DeletePaymentByBookingCommand, struct{}] = (*DeletePaymentByBookingHandler)(nil)
