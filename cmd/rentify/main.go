package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"rentify/internal/app/commands"
	bookingapp "rentify/internal/app/handlers/bookings"
	paymentapp "rentify/internal/app/handlers/payments"
	propertyapp "rentify/internal/app/handlers/properties"
	reviewapp "rentify/internal/app/handlers/reviews"
	userapp "rentify/internal/app/handlers/users"
	"rentify/internal/app/middleware"
	appoutbox "rentify/internal/app/outbox"
	"rentify/internal/app/queries"
	"rentify/internal/app/uow"
	"rentify/internal/infra/broker/kafka"
	"rentify/internal/infra/config"
	mongodb "rentify/internal/infra/db/mongo"
	ginserver "rentify/internal/infra/http/gin"
	"rentify/internal/infra/obs"
	infraoutbox "rentify/internal/infra/outbox"
	"rentify/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dotenvErr := godotenv.Load()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)
	if dotenvErr != nil && !errors.Is(dotenvErr, os.ErrNotExist) {
		logger.Warn("dotenv load failed", "error", dotenvErr)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration load failed", "error", err)
		os.Exit(1)
	}

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			logger.Error("kafka producer init failed", "error", err, "brokers", cfg.KafkaBrokers)
			os.Exit(1)
		}
		defer producer.Close()

		worker := &infraoutbox.Worker{
			Store:       app.outboxStore,
			Producer:    producer,
			Logger:      logger,
			Interval:    cfg.OutboxPollInterval,
			TopicPrefix: cfg.KafkaTopicPrefix,
			Backoff:     cfg.RetryBackoff,
		}
		go func() {
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
		logger.Info("outbox worker started", "brokers", cfg.KafkaBrokers, "topic_prefix", cfg.KafkaTopicPrefix)
	} else {
		logger.Info("kafka brokers not configured, events stay in the outbox")
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Checks: app.checks,
	}, app.handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers    ginserver.Handlers
	checks      map[string]obs.ReadinessCheck
	outboxStore infraoutbox.Store
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, error) {
	var (
		factory     uow.UoWFactory
		box         appoutbox.Outbox
		outboxStore infraoutbox.Store
		idStore     middleware.IdempotencyStore
		checks      = map[string]obs.ReadinessCheck{}
	)

	switch cfg.StorageMode {
	case config.StorageMongo:
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, err
		}
		payments := mongodb.NewPaymentRepository(client.DB)
		reviews := mongodb.NewReviewRepository(client.DB)
		idem := mongodb.NewIdempotencyStore(client.DB, cfg.IdempotencyTTL)

		indexCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		for _, ensure := range []func(context.Context) error{payments.EnsureIndexes, reviews.EnsureIndexes, idem.EnsureIndexes} {
			if err := ensure(indexCtx); err != nil {
				return application{}, err
			}
		}

		mongoBox := mongodb.NewOutboxStore(client.DB)
		factory = mongodb.Factory{
			DB:           client.DB,
			PropertyRepo: mongodb.NewPropertyRepository(client.DB),
			UserRepo:     mongodb.NewUserRepository(client.DB),
			BookingRepo:  mongodb.NewBookingRepository(client.DB),
			PaymentRepo:  payments,
			ReviewRepo:   reviews,
		}
		box = mongoBox
		outboxStore = mongoBox
		idStore = idem
		checks["mongo"] = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		logger.Info("mongo storage ready", "database", cfg.MongoDB)
	default:
		memBox := memory.NewOutboxStore()
		factory = memory.NewFactory()
		box = memBox
		outboxStore = memBox
		idStore = memory.NewIdempotencyStore()
		logger.Info("in-memory storage ready")
	}

	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, userapp.RegisterUserCommand{}.Key(), &userapp.RegisterUserHandler{UoWFactory: factory, Logger: logger})

	commands.RegisterHandler(commandBus, propertyapp.CreatePropertyCommand{}.Key(), &propertyapp.CreatePropertyHandler{UoWFactory: factory, Logger: logger})
	commands.RegisterHandler(commandBus, propertyapp.UpdatePropertyRateCommand{}.Key(), &propertyapp.UpdatePropertyRateHandler{UoWFactory: factory})
	commands.RegisterHandler(commandBus, propertyapp.SetPropertyAvailabilityCommand{}.Key(), &propertyapp.SetPropertyAvailabilityHandler{UoWFactory: factory, Logger: logger})
	commands.RegisterHandler(commandBus, propertyapp.UpdatePropertyDescriptionCommand{}.Key(), &propertyapp.UpdatePropertyDescriptionHandler{UoWFactory: factory})
	commands.RegisterHandler(commandBus, propertyapp.DeletePropertyCommand{}.Key(), &propertyapp.DeletePropertyHandler{UoWFactory: factory, Logger: logger})

	commands.RegisterHandler(commandBus, bookingapp.CreateBookingCommand{}.Key(), &bookingapp.CreateBookingHandler{UoWFactory: factory, Outbox: box, Encoder: encoder, Logger: logger})
	commands.RegisterHandler(commandBus, bookingapp.TransitionBookingCommand{}.Key(), &bookingapp.TransitionBookingHandler{UoWFactory: factory, Outbox: box, Encoder: encoder, Logger: logger})
	commands.RegisterHandler(commandBus, bookingapp.UpdateBookingCommand{}.Key(), &bookingapp.UpdateBookingHandler{UoWFactory: factory, Outbox: box, Encoder: encoder, Logger: logger})
	commands.RegisterHandler(commandBus, bookingapp.DeleteBookingCommand{}.Key(), &bookingapp.DeleteBookingHandler{UoWFactory: factory, Outbox: box, Encoder: encoder, Logger: logger})

	commands.RegisterHandler(commandBus, paymentapp.MakePaymentCommand{}.Key(), &paymentapp.MakePaymentHandler{UoWFactory: factory, Outbox: box, Encoder: encoder, Logger: logger})
	commands.RegisterHandler(commandBus, paymentapp.UpdatePaymentStatusCommand{}.Key(), &paymentapp.UpdatePaymentStatusHandler{UoWFactory: factory, Outbox: box, Encoder: encoder, Logger: logger})
	commands.RegisterHandler(commandBus, paymentapp.UpdatePaymentMethodCommand{}.Key(), &paymentapp.UpdatePaymentMethodHandler{UoWFactory: factory})
	commands.RegisterHandler(commandBus, paymentapp.UpdatePaymentCommand{}.Key(), &paymentapp.UpdatePaymentHandler{UoWFactory: factory})
	commands.RegisterHandler(commandBus, paymentapp.DeletePaymentByBookingCommand{}.Key(), &paymentapp.DeletePaymentByBookingHandler{UoWFactory: factory, Logger: logger})

	commands.RegisterHandler(commandBus, reviewapp.SubmitReviewCommand{}.Key(), &reviewapp.SubmitReviewHandler{UoWFactory: factory, Outbox: box, Encoder: encoder, Logger: logger})
	commands.RegisterHandler(commandBus, reviewapp.UpdateReviewCommand{}.Key(), &reviewapp.UpdateReviewHandler{UoWFactory: factory})
	commands.RegisterHandler(commandBus, reviewapp.UpdateReviewRatingCommand{}.Key(), &reviewapp.UpdateReviewRatingHandler{UoWFactory: factory})
	commands.RegisterHandler(commandBus, reviewapp.UpdateReviewCommentCommand{}.Key(), &reviewapp.UpdateReviewCommentHandler{UoWFactory: factory})
	commands.RegisterHandler(commandBus, reviewapp.DeleteReviewCommand{}.Key(), &reviewapp.DeleteReviewHandler{UoWFactory: factory, Outbox: box, Encoder: encoder, Logger: logger})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, userapp.UserByUsernameQuery{}.Key(), &userapp.UserByUsernameHandler{UoWFactory: factory})

	queries.RegisterHandler(queryBus, propertyapp.GetPropertyQuery{}.Key(), &propertyapp.GetPropertyHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, propertyapp.ListOwnerPropertiesQuery{}.Key(), &propertyapp.ListOwnerPropertiesHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, propertyapp.IsPropertyOwnerQuery{}.Key(), &propertyapp.IsPropertyOwnerHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, propertyapp.IsPropertyAvailableQuery{}.Key(), &propertyapp.IsPropertyAvailableHandler{UoWFactory: factory})

	queries.RegisterHandler(queryBus, bookingapp.ListRenterBookingsQuery{}.Key(), &bookingapp.ListRenterBookingsHandler{UoWFactory: factory, Logger: logger})
	queries.RegisterHandler(queryBus, bookingapp.ListPropertyBookingsQuery{}.Key(), &bookingapp.ListPropertyBookingsHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, bookingapp.IsBookingOwnerQuery{}.Key(), &bookingapp.IsBookingOwnerHandler{UoWFactory: factory})

	queries.RegisterHandler(queryBus, paymentapp.PaymentByBookingQuery{}.Key(), &paymentapp.PaymentByBookingHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, paymentapp.ListRenterPaymentsQuery{}.Key(), &paymentapp.ListRenterPaymentsHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, paymentapp.IsPaymentOwnerQuery{}.Key(), &paymentapp.IsPaymentOwnerHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, paymentapp.TotalPaidByRenterQuery{}.Key(), &paymentapp.TotalPaidByRenterHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, paymentapp.TotalPaidAllQuery{}.Key(), &paymentapp.TotalPaidAllHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, paymentapp.TotalPaidForPropertyQuery{}.Key(), &paymentapp.TotalPaidForPropertyHandler{UoWFactory: factory})

	queries.RegisterHandler(queryBus, reviewapp.ReviewByBookingQuery{}.Key(), &reviewapp.ReviewByBookingHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, reviewapp.ListRenterReviewsQuery{}.Key(), &reviewapp.ListRenterReviewsHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, reviewapp.ListPropertyReviewsQuery{}.Key(), &reviewapp.ListPropertyReviewsHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, reviewapp.IsReviewOwnerQuery{}.Key(), &reviewapp.IsReviewOwnerHandler{UoWFactory: factory})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(idStore, nil),
		middleware.Transaction(factory, nil),
	)
	queryBusWithMiddleware := middleware.ChainQueries(
		queryBus,
		middleware.ReadOnlyTransaction(factory),
	)

	return application{
		handlers: ginserver.Handlers{
			User:     ginserver.UserHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
			Property: ginserver.PropertyHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
			Booking:  ginserver.BookingHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
			Payment:  ginserver.PaymentHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
			Review:   ginserver.ReviewHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
		},
		checks:      checks,
		outboxStore: outboxStore,
	}, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
