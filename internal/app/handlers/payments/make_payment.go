package payments

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"rentify/internal/app/commands"
	"rentify/internal/app/dto"
	"rentify/internal/app/middleware"
	"rentify/internal/app/outbox"
	"rentify/internal/app/uow"
	domainbooking "rentify/internal/domain/booking"
	domainpayment "rentify/internal/domain/payment"
	"rentify/internal/domain/shared/money"
)

const makePaymentKey = "payments.make"

// MakePaymentCommand settles a booking. The amount must equal the booking's
// total price exactly, currency included, and at most one payment may exist
// per booking.
type MakePaymentCommand struct {
	CommandID       string
	BookingID       string
	Amount          money.Money
	Method          domainpayment.Method
	TransactionRef  string
	IdempotencyKeyV string
}

func (c MakePaymentCommand) Key() string { return makePaymentKey }

func (c MakePaymentCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c MakePaymentCommand) ResultPrototype() any { return &dto.Payment{} }

type MakePaymentHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *MakePaymentHandler) Handle(ctx context.Context, cmd MakePaymentCommand) (*dto.Payment, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return nil, err
		}
		if injector, ok := unit.(interface {
			InjectContext(context.Context) context.Context
		}); ok {
			ctx = injector.InjectContext(ctx)
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		managed = true
	}
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return nil, err
	}

	if existing, err := unit.Payments().ByBooking(ctx, b.ID); err == nil && existing != nil {
		return nil, domainpayment.ErrDuplicate
	} else if err != nil && !errors.Is(err, domainpayment.ErrNotFound) {
		return nil, err
	}

	if !cmd.Amount.Equal(b.TotalPrice) {
		return nil, domainpayment.ErrAmountMismatch
	}

	now := time.Now().UTC()
	pay, err := domainpayment.New(domainpayment.CreateParams{
		ID:             domainpayment.PaymentID(cmd.CommandID),
		BookingID:      b.ID,
		RenterID:       b.RenterID,
		Amount:         b.TotalPrice,
		Method:         cmd.Method,
		TransactionRef: cmd.TransactionRef,
		PaidAt:         now,
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Payments().Save(ctx, pay); err != nil {
		return nil, err
	}
	b.AttachPayment(string(pay.ID), now)
	if err := unit.Bookings().Save(ctx, b); err != nil {
		return nil, err
	}

	pending := pay.PendingEvents()
	pay.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	if h.Logger != nil {
		h.Logger.Info("payment created", "payment_id", pay.ID, "booking_id", b.ID, "amount", pay.Amount.String(), "method", pay.Method)
	}

	result := dto.MapPayment(pay)
	return &result, nil
}

var _ commands.Handler[MakePaymentCommand, *dto.Payment] = (*MakePaymentHandler)(nil)
var _ middleware.IdempotentCommand = (*MakePaymentCommand)(nil)
