package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"rentify/internal/infra/config"
	"rentify/internal/infra/obs"
)

type UserHTTP interface {
	Register(c *gin.Context)
	Get(c *gin.Context)
}

type PropertyHTTP interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	UpdateRate(c *gin.Context)
	SetAvailability(c *gin.Context)
	UpdateDescription(c *gin.Context)
	Delete(c *gin.Context)
	ListByOwner(c *gin.Context)
	IsOwner(c *gin.Context)
	IsAvailable(c *gin.Context)
}

type BookingHTTP interface {
	Create(c *gin.Context)
	Transition(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	ListByRenter(c *gin.Context)
	ListByProperty(c *gin.Context)
	IsOwner(c *gin.Context)
}

type PaymentHTTP interface {
	Make(c *gin.Context)
	ByBooking(c *gin.Context)
	UpdateStatus(c *gin.Context)
	UpdateMethod(c *gin.Context)
	Update(c *gin.Context)
	DeleteByBooking(c *gin.Context)
	ListByRenter(c *gin.Context)
	TotalByRenter(c *gin.Context)
	TotalAll(c *gin.Context)
	TotalForProperty(c *gin.Context)
	IsOwner(c *gin.Context)
}

type ReviewHTTP interface {
	Submit(c *gin.Context)
	ByBooking(c *gin.Context)
	Update(c *gin.Context)
	UpdateRating(c *gin.Context)
	UpdateComment(c *gin.Context)
	Delete(c *gin.Context)
	ListByRenter(c *gin.Context)
	ListByProperty(c *gin.Context)
	IsOwner(c *gin.Context)
}

type Handlers struct {
	User     UserHTTP
	Property PropertyHTTP
	Booking  BookingHTTP
	Payment  PaymentHTTP
	Review   ReviewHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}
	registerValidations()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.User != nil {
		api.POST("/users", h.User.Register)
		api.GET("/users/:username", h.User.Get)
	}
	if h.Property != nil {
		props := api.Group("/properties")
		props.POST("", h.Property.Create)
		props.GET("/:id", h.Property.Get)
		props.PUT("/:id/rate", h.Property.UpdateRate)
		props.PUT("/:id/availability", h.Property.SetAvailability)
		props.PUT("/:id/description", h.Property.UpdateDescription)
		props.DELETE("/:id", h.Property.Delete)
		props.GET("/:id/owner", h.Property.IsOwner)
		props.GET("/:id/available", h.Property.IsAvailable)
		api.GET("/owners/:id/properties", h.Property.ListByOwner)
	}
	if h.Booking != nil {
		bookings := api.Group("/bookings")
		bookings.POST("", h.Booking.Create)
		bookings.PUT("/:id", h.Booking.Update)
		bookings.PUT("/:id/status", h.Booking.Transition)
		bookings.DELETE("/:id", h.Booking.Delete)
		bookings.GET("/:id/owner", h.Booking.IsOwner)
		api.GET("/renters/:id/bookings", h.Booking.ListByRenter)
		api.GET("/properties/:id/bookings", h.Booking.ListByProperty)
	}
	if h.Payment != nil {
		payments := api.Group("/payments")
		payments.POST("", h.Payment.Make)
		payments.GET("/total", h.Payment.TotalAll)
		payments.PUT("/:id", h.Payment.Update)
		payments.PUT("/:id/status", h.Payment.UpdateStatus)
		payments.PUT("/:id/method", h.Payment.UpdateMethod)
		payments.GET("/:id/owner", h.Payment.IsOwner)
		api.GET("/bookings/:id/payment", h.Payment.ByBooking)
		api.DELETE("/bookings/:id/payment", h.Payment.DeleteByBooking)
		api.GET("/renters/:id/payments", h.Payment.ListByRenter)
		api.GET("/renters/:id/payments/total", h.Payment.TotalByRenter)
		api.GET("/properties/:id/payments/total", h.Payment.TotalForProperty)
	}
	if h.Review != nil {
		reviews := api.Group("/reviews")
		reviews.POST("", h.Review.Submit)
		reviews.PUT("/:id", h.Review.Update)
		reviews.PATCH("/:id/rating", h.Review.UpdateRating)
		reviews.PATCH("/:id/comment", h.Review.UpdateComment)
		reviews.DELETE("/:id", h.Review.Delete)
		reviews.GET("/:id/owner", h.Review.IsOwner)
		api.GET("/bookings/:id/review", h.Review.ByBooking)
		api.GET("/renters/:id/reviews", h.Review.ListByRenter)
		api.GET("/properties/:id/reviews", h.Review.ListByProperty)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

// registerValidations installs the currency tag used by money payloads.
func registerValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		code := fl.Field().String()
		if len(code) != 3 {
			return false
		}
		for _, r := range code {
			if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
				return false
			}
		}
		return true
	})
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
