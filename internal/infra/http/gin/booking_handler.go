package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rentify/internal/app/commands"
	"rentify/internal/app/dto"
	bookingapp "rentify/internal/app/handlers/bookings"
	"rentify/internal/app/queries"
	domainbooking "rentify/internal/domain/booking"
)

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type createBookingRequest struct {
	PropertyID string    `json:"property_id" binding:"required"`
	RenterID   string    `json:"renter_id" binding:"required"`
	StartDate  time.Time `json:"start_date" binding:"required"`
	EndDate    time.Time `json:"end_date" binding:"required"`
}

func (h BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := bookingapp.CreateBookingCommand{
		CommandID:       generateCommandID(),
		PropertyID:      req.PropertyID,
		RenterID:        req.RenterID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookingapp.CreateBookingCommand, *dto.Booking](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type transitionBookingRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h BookingHandler) Transition(c *gin.Context) {
	var req transitionBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, err := domainbooking.ParseStatus(req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	cmd := bookingapp.TransitionBookingCommand{BookingID: c.Param("id"), Next: status}
	result, err := commands.Dispatch[bookingapp.TransitionBookingCommand, dto.Booking](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type updateBookingRequest struct {
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

func (h BookingHandler) Update(c *gin.Context) {
	var req updateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := bookingapp.UpdateBookingCommand{
		BookingID: c.Param("id"),
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	result, err := commands.Dispatch[bookingapp.UpdateBookingCommand, dto.Booking](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Delete(c *gin.Context) {
	cmd := bookingapp.DeleteBookingCommand{BookingID: c.Param("id")}
	if _, err := commands.Dispatch[bookingapp.DeleteBookingCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h BookingHandler) ListByRenter(c *gin.Context) {
	q := bookingapp.ListRenterBookingsQuery{RenterID: c.Param("id")}
	result, err := queries.Ask[bookingapp.ListRenterBookingsQuery, dto.BookingCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) ListByProperty(c *gin.Context) {
	q := bookingapp.ListPropertyBookingsQuery{PropertyID: c.Param("id")}
	result, err := queries.Ask[bookingapp.ListPropertyBookingsQuery, dto.BookingCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) IsOwner(c *gin.Context) {
	q := bookingapp.IsBookingOwnerQuery{BookingID: c.Param("id"), Username: c.Query("username")}
	owns, err := queries.Ask[bookingapp.IsBookingOwnerQuery, bool](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"owner": owns})
}

func generateCommandID() string {
	return uuid.NewString()
}

var _ BookingHTTP = BookingHandler{}
