package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"rentify/internal/app/commands"
	"rentify/internal/app/dto"
	propertyapp "rentify/internal/app/handlers/properties"
	"rentify/internal/app/queries"
	domainproperty "rentify/internal/domain/property"
)

type PropertyHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type createPropertyRequest struct {
	OwnerID     string       `json:"owner_id" binding:"required"`
	Title       string       `json:"title" binding:"required"`
	Description string       `json:"description"`
	Type        string       `json:"type" binding:"required"`
	RatePerDay  moneyRequest `json:"rate_per_day" binding:"required"`
	Available   *bool        `json:"available"`
}

func (h PropertyHandler) Create(c *gin.Context) {
	var req createPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rate, err := req.RatePerDay.toMoney()
	if err != nil {
		respondError(c, err)
		return
	}
	propType, err := domainproperty.ParseType(req.Type)
	if err != nil {
		respondError(c, err)
		return
	}
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	cmd := propertyapp.CreatePropertyCommand{
		CommandID:       generateCommandID(),
		OwnerID:         req.OwnerID,
		Title:           req.Title,
		Description:     req.Description,
		Type:            propType,
		RatePerDay:      rate,
		Available:       available,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[propertyapp.CreatePropertyCommand, *dto.Property](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h PropertyHandler) Get(c *gin.Context) {
	q := propertyapp.GetPropertyQuery{PropertyID: c.Param("id")}
	result, err := queries.Ask[propertyapp.GetPropertyQuery, dto.Property](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type updateRateRequest struct {
	RatePerDay moneyRequest `json:"rate_per_day" binding:"required"`
}

func (h PropertyHandler) UpdateRate(c *gin.Context) {
	var req updateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rate, err := req.RatePerDay.toMoney()
	if err != nil {
		respondError(c, err)
		return
	}
	cmd := propertyapp.UpdatePropertyRateCommand{PropertyID: c.Param("id"), RatePerDay: rate}
	result, err := commands.Dispatch[propertyapp.UpdatePropertyRateCommand, dto.Property](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type setAvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

func (h PropertyHandler) SetAvailability(c *gin.Context) {
	var req setAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := propertyapp.SetPropertyAvailabilityCommand{PropertyID: c.Param("id"), Available: *req.Available}
	result, err := commands.Dispatch[propertyapp.SetPropertyAvailabilityCommand, dto.Property](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type updateDescriptionRequest struct {
	Description string `json:"description"`
}

func (h PropertyHandler) UpdateDescription(c *gin.Context) {
	var req updateDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := propertyapp.UpdatePropertyDescriptionCommand{PropertyID: c.Param("id"), Description: req.Description}
	result, err := commands.Dispatch[propertyapp.UpdatePropertyDescriptionCommand, dto.Property](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PropertyHandler) Delete(c *gin.Context) {
	cmd := propertyapp.DeletePropertyCommand{PropertyID: c.Param("id")}
	if _, err := commands.Dispatch[propertyapp.DeletePropertyCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h PropertyHandler) ListByOwner(c *gin.Context) {
	q := propertyapp.ListOwnerPropertiesQuery{OwnerID: c.Param("id")}
	result, err := queries.Ask[propertyapp.ListOwnerPropertiesQuery, dto.PropertyCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PropertyHandler) IsOwner(c *gin.Context) {
	q := propertyapp.IsPropertyOwnerQuery{PropertyID: c.Param("id"), Username: c.Query("username")}
	owns, err := queries.Ask[propertyapp.IsPropertyOwnerQuery, bool](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"owner": owns})
}

func (h PropertyHandler) IsAvailable(c *gin.Context) {
	q := propertyapp.IsPropertyAvailableQuery{PropertyID: c.Param("id")}
	available, err := queries.Ask[propertyapp.IsPropertyAvailableQuery, bool](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": available})
}

var _ PropertyHTTP = PropertyHandler{}
