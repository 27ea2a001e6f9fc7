package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"rentify/internal/app/commands"
	"rentify/internal/app/dto"
	reviewapp "rentify/internal/app/handlers/reviews"
	"rentify/internal/app/queries"
)

type ReviewHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type submitReviewRequest struct {
	BookingID string `json:"booking_id" binding:"required"`
	RenterID  string `json:"renter_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

func (h ReviewHandler) Submit(c *gin.Context) {
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := reviewapp.SubmitReviewCommand{
		CommandID:       generateCommandID(),
		BookingID:       req.BookingID,
		RenterID:        req.RenterID,
		Rating:          req.Rating,
		Comment:         req.Comment,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[reviewapp.SubmitReviewCommand, *dto.Review](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h ReviewHandler) ByBooking(c *gin.Context) {
	q := reviewapp.ReviewByBookingQuery{BookingID: c.Param("id")}
	result, err := queries.Ask[reviewapp.ReviewByBookingQuery, dto.Review](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type updateReviewRequest struct {
	RenterID string `json:"renter_id" binding:"required"`
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Comment  string `json:"comment"`
}

func (h ReviewHandler) Update(c *gin.Context) {
	var req updateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := reviewapp.UpdateReviewCommand{
		ReviewID: c.Param("id"),
		RenterID: req.RenterID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}
	result, err := commands.Dispatch[reviewapp.UpdateReviewCommand, dto.Review](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type updateRatingRequest struct {
	RenterID string `json:"renter_id" binding:"required"`
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
}

func (h ReviewHandler) UpdateRating(c *gin.Context) {
	var req updateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := reviewapp.UpdateReviewRatingCommand{ReviewID: c.Param("id"), RenterID: req.RenterID, Rating: req.Rating}
	result, err := commands.Dispatch[reviewapp.UpdateReviewRatingCommand, dto.Review](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type updateCommentRequest struct {
	RenterID string `json:"renter_id" binding:"required"`
	Comment  string `json:"comment"`
}

func (h ReviewHandler) UpdateComment(c *gin.Context) {
	var req updateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := reviewapp.UpdateReviewCommentCommand{ReviewID: c.Param("id"), RenterID: req.RenterID, Comment: req.Comment}
	result, err := commands.Dispatch[reviewapp.UpdateReviewCommentCommand, dto.Review](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ReviewHandler) Delete(c *gin.Context) {
	cmd := reviewapp.DeleteReviewCommand{ReviewID: c.Param("id"), RenterID: c.Query("renter_id")}
	if _, err := commands.Dispatch[reviewapp.DeleteReviewCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h ReviewHandler) ListByRenter(c *gin.Context) {
	q := reviewapp.ListRenterReviewsQuery{RenterID: c.Param("id")}
	result, err := queries.Ask[reviewapp.ListRenterReviewsQuery, dto.ReviewCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ReviewHandler) ListByProperty(c *gin.Context) {
	q := reviewapp.ListPropertyReviewsQuery{PropertyID: c.Param("id")}
	result, err := queries.Ask[reviewapp.ListPropertyReviewsQuery, dto.ReviewCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ReviewHandler) IsOwner(c *gin.Context) {
	q := reviewapp.IsReviewOwnerQuery{ReviewID: c.Param("id"), Username: c.Query("username")}
	owns, err := queries.Ask[reviewapp.IsReviewOwnerQuery, bool](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"owner": owns})
}

var _ ReviewHTTP = ReviewHandler{}
