package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	domainbooking "rentify/internal/domain/booking"
	domainpayment "rentify/internal/domain/payment"
	domainproperty "rentify/internal/domain/property"
	domainreview "rentify/internal/domain/review"
	"rentify/internal/domain/shared/daterange"
	"rentify/internal/domain/shared/money"
	domainuser "rentify/internal/domain/user"
)

// respondError maps domain sentinels onto HTTP statuses. Anything unmatched
// is a 500 with a generic message so internals never leak.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainproperty.ErrNotFound),
		errors.Is(err, domainbooking.ErrNotFound),
		errors.Is(err, domainpayment.ErrNotFound),
		errors.Is(err, domainreview.ErrNotFound),
		errors.Is(err, domainuser.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domainbooking.ErrDatesConflict),
		errors.Is(err, domainpayment.ErrDuplicate),
		errors.Is(err, domainreview.ErrDuplicate),
		errors.Is(err, domainproperty.ErrNotAvailable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domainreview.ErrNotAuthor):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, daterange.ErrEndBeforeStart),
		errors.Is(err, domainbooking.ErrUnknownStatus),
		errors.Is(err, domainpayment.ErrUnknownMethod),
		errors.Is(err, domainpayment.ErrUnknownStatus),
		errors.Is(err, domainproperty.ErrInvalidType),
		errors.Is(err, domainproperty.ErrNegativeRate),
		errors.Is(err, domainproperty.ErrTitleRequired),
		errors.Is(err, domainproperty.ErrOwnerRequired),
		errors.Is(err, domainbooking.ErrRenterRequired),
		errors.Is(err, domainuser.ErrIDRequired),
		errors.Is(err, domainuser.ErrUsernameRequired),
		errors.Is(err, domainuser.ErrEmailRequired),
		errors.Is(err, money.ErrInvalidCurrency):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domainpayment.ErrAmountMismatch),
		errors.Is(err, domainreview.ErrInvalidRating),
		errors.Is(err, domainreview.ErrBookingNotCompleted),
		errors.Is(err, domainbooking.ErrIllegalTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
