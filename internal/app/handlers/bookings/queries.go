package bookings

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"rentify/internal/app/dto"
	"rentify/internal/app/handlers/support"
	"rentify/internal/app/queries"
	"rentify/internal/app/uow"
	domainbooking "rentify/internal/domain/booking"
	domainproperty "rentify/internal/domain/property"
	domainuser "rentify/internal/domain/user"
)

const (
	listRenterBookingsKey   = "bookings.list_by_renter"
	listPropertyBookingsKey = "bookings.list_by_property"
	isBookingOwnerKey       = "bookings.is_owner"
)

// ListRenterBookingsQuery returns the renter's bookings newest first. An
// empty result is an empty collection, never an error.
type ListRenterBookingsQuery struct {
	RenterID string
}

func (q ListRenterBookingsQuery) Key() string { return listRenterBookingsKey }

type ListRenterBookingsHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *ListRenterBookingsHandler) Handle(ctx context.Context, q ListRenterBookingsQuery) (dto.BookingCollection, error) {
	renterID := strings.TrimSpace(q.RenterID)
	if renterID == "" {
		return dto.BookingCollection{}, errors.New("renter id is required")
	}
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	items, err := unit.Bookings().ListByRenter(execCtx, renterID)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	if h.Logger != nil {
		h.Logger.Debug("renter bookings listed", "renter_id", renterID, "count", len(items))
	}
	return dto.MapBookingCollection(items), nil
}

// ListPropertyBookingsQuery returns every booking of a property, the view an
// owner uses to inspect their calendar.
type ListPropertyBookingsQuery struct {
	PropertyID string
}

func (q ListPropertyBookingsQuery) Key() string { return listPropertyBookingsKey }

type ListPropertyBookingsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListPropertyBookingsHandler) Handle(ctx context.Context, q ListPropertyBookingsQuery) (dto.BookingCollection, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	if _, err := unit.Properties().ByID(execCtx, domainproperty.PropertyID(q.PropertyID)); err != nil {
		return dto.BookingCollection{}, err
	}
	items, err := unit.Bookings().ListByProperty(execCtx, domainproperty.PropertyID(q.PropertyID))
	if err != nil {
		return dto.BookingCollection{}, err
	}
	return dto.MapBookingCollection(items), nil
}

// IsBookingOwnerQuery answers the capability check the transport layer runs
// before letting a caller touch a booking.
type IsBookingOwnerQuery struct {
	BookingID string
	Username  string
}

func (q IsBookingOwnerQuery) Key() string { return isBookingOwnerKey }

type IsBookingOwnerHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *IsBookingOwnerHandler) Handle(ctx context.Context, q IsBookingOwnerQuery) (bool, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return false, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	b, err := unit.Bookings().ByID(execCtx, domainbooking.BookingID(q.BookingID))
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
	return b.IsOwner(string(renter.ID)), nil
}

var _ queries.Handler[ListRenterBookingsQuery, dto.BookingCollection] = (*ListRenterBookingsHandler)(nil)
var _ queries.Handler[ListPropertyBookingsQuery, dto.BookingCollection] = (*ListPropertyBookingsHandler)(nil)
var _ queries.Handler[IsBookingOwnerQuery, bool] = (*IsBookingOwnerHandler)(nil)
