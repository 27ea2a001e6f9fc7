package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"rentify/internal/app/commands"
	"rentify/internal/app/dto"
	paymentapp "rentify/internal/app/handlers/payments"
	"rentify/internal/app/queries"
	domainpayment "rentify/internal/domain/payment"
	"rentify/internal/domain/shared/money"
)

type PaymentHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type moneyRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency" binding:"required,currency"`
}

func (r moneyRequest) toMoney() (money.Money, error) {
	return money.New(r.Amount, r.Currency)
}

type makePaymentRequest struct {
	BookingID      string       `json:"booking_id" binding:"required"`
	Amount         moneyRequest `json:"amount" binding:"required"`
	Method         string       `json:"method" binding:"required"`
	TransactionRef string       `json:"transaction_ref"`
}

func (h PaymentHandler) Make(c *gin.Context) {
	var req makePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, err := req.Amount.toMoney()
	if err != nil {
		respondError(c, err)
		return
	}
	method, err := domainpayment.ParseMethod(req.Method)
	if err != nil {
		respondError(c, err)
		return
	}
	cmd := paymentapp.MakePaymentCommand{
		CommandID:       generateCommandID(),
		BookingID:       req.BookingID,
		Amount:          amount,
		Method:          method,
		TransactionRef:  req.TransactionRef,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[paymentapp.MakePaymentCommand, *dto.Payment](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h PaymentHandler) ByBooking(c *gin.Context) {
	q := paymentapp.PaymentByBookingQuery{BookingID: c.Param("id")}
	result, err := queries.Ask[paymentapp.PaymentByBookingQuery, dto.Payment](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type updatePaymentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h PaymentHandler) UpdateStatus(c *gin.Context) {
	var req updatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, err := domainpayment.ParseStatus(req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	cmd := paymentapp.UpdatePaymentStatusCommand{PaymentID: c.Param("id"), Status: status}
	result, err := commands.Dispatch[paymentapp.UpdatePaymentStatusCommand, dto.Payment](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type updatePaymentMethodRequest struct {
	Method string `json:"method" binding:"required"`
}

func (h PaymentHandler) UpdateMethod(c *gin.Context) {
	var req updatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	method, err := domainpayment.ParseMethod(req.Method)
	if err != nil {
		respondError(c, err)
		return
	}
	cmd := paymentapp.UpdatePaymentMethodCommand{PaymentID: c.Param("id"), Method: method}
	result, err := commands.Dispatch[paymentapp.UpdatePaymentMethodCommand, dto.Payment](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type updatePaymentRequest struct {
	Amount         moneyRequest `json:"amount" binding:"required"`
	Method         string       `json:"method" binding:"required"`
	TransactionRef string       `json:"transaction_ref"`
}

func (h PaymentHandler) Update(c *gin.Context) {
	var req updatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, err := req.Amount.toMoney()
	if err != nil {
		respondError(c, err)
		return
	}
	method, err := domainpayment.ParseMethod(req.Method)
	if err != nil {
		respondError(c, err)
		return
	}
	cmd := paymentapp.UpdatePaymentCommand{
		PaymentID:      c.Param("id"),
		Amount:         amount,
		Method:         method,
		TransactionRef: req.TransactionRef,
	}
	result, err := commands.Dispatch[paymentapp.UpdatePaymentCommand, dto.Payment](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PaymentHandler) DeleteByBooking(c *gin.Context) {
	cmd := paymentapp.DeletePaymentByBookingCommand{BookingID: c.Param("id")}
	if _, err := commands.Dispatch[paymentapp.DeletePaymentByBookingCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h PaymentHandler) ListByRenter(c *gin.Context) {
	q := paymentapp.ListRenterPaymentsQuery{RenterID: c.Param("id")}
	result, err := queries.Ask[paymentapp.ListRenterPaymentsQuery, dto.PaymentCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PaymentHandler) TotalByRenter(c *gin.Context) {
	q := paymentapp.TotalPaidByRenterQuery{RenterID: c.Param("id")}
	result, err := queries.Ask[paymentapp.TotalPaidByRenterQuery, dto.PaymentTotal](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PaymentHandler) TotalAll(c *gin.Context) {
	result, err := queries.Ask[paymentapp.TotalPaidAllQuery, dto.PaymentTotal](c.Request.Context(), h.Queries, paymentapp.TotalPaidAllQuery{})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PaymentHandler) TotalForProperty(c *gin.Context) {
	q := paymentapp.TotalPaidForPropertyQuery{PropertyID: c.Param("id")}
	result, err := queries.Ask[paymentapp.TotalPaidForPropertyQuery, dto.PaymentTotal](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PaymentHandler) IsOwner(c *gin.Context) {
	q := paymentapp.IsPaymentOwnerQuery{PaymentID: c.Param("id"), Username: c.Query("username")}
	owns, err := queries.Ask[paymentapp.IsPaymentOwnerQuery, bool](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"owner": owns})
}

var _ PaymentHTTP = PaymentHandler{}
