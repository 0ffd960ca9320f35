package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/scheddesk/scheddesk/internal/audit"
	"github.com/scheddesk/scheddesk/internal/billing"
	"github.com/scheddesk/scheddesk/internal/handlers"
	"github.com/scheddesk/scheddesk/internal/outbox"
	"github.com/scheddesk/scheddesk/internal/schedule"
	"github.com/scheddesk/scheddesk/internal/storage"
	"github.com/scheddesk/scheddesk/libs/config"
	"github.com/scheddesk/scheddesk/libs/db"
	"github.com/scheddesk/scheddesk/libs/httpx"
	"github.com/scheddesk/scheddesk/libs/kafkax"
	otelx "github.com/scheddesk/scheddesk/libs/otel"
	"github.com/scheddesk/scheddesk/libs/runtime"
)

func main() {
	service := config.String("SERVICE_NAME", "scheddesk")
	port, err := config.Port("PORT", "8080")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}
	jwtSecret, err := config.RequiredString("AUTH_JWT_SECRET")
	if err != nil {
		panic(err)
	}

	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	normalizer, err := schedule.NewNormalizer()
	if err != nil {
		logger.Error("reference zone load failed", "err", err)
		panic(err)
	}
	validator := schedule.NewValidator(normalizer)

	outboxRepo := outbox.NewRepository(pool)
	appointments := storage.NewAppointmentRepository(pool, outboxRepo)
	customers := storage.NewCustomerRepository(pool, outboxRepo)
	contacts := storage.NewContactRepository(pool)
	users := storage.NewUserRepository(pool)
	locales := storage.NewLocaleRepository(pool)
	auditRepo := audit.NewRepository(pool, outboxRepo)

	kafkaBrokers := config.String("KAFKA_BROKERS", "")
	outboxPublisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   kafkaBrokers,
		PollEvery: 2 * time.Second,
		BatchSize: 50,
	})
	go outboxPublisher.Run(ctx)

	exporter := billing.NewStripeExporter(config.String("STRIPE_SECRET_KEY", ""))
	if !exporter.Enabled() {
		logger.Info("stripe export disabled; no STRIPE_SECRET_KEY set")
	}

	tokenTTL := time.Duration(config.Int("AUTH_TOKEN_TTL_MINUTES", 60)) * time.Minute
	authHandler := handlers.NewAuthHandler(users, auditRepo, appointments, logger, jwtSecret, tokenTTL)
	apptHandler := handlers.NewAppointmentHandler(appointments, validator, normalizer, logger)
	customerHandler := handlers.NewCustomerHandler(customers, logger)
	referenceHandler := handlers.NewReferenceHandler(contacts, locales)
	reportsHandler := handlers.NewReportsHandler(appointments, customers, exporter, logger)

	// Login attempts are rate limited per client; Redis keeps the window
	// across replicas, the in-memory limiter covers single-node setups.
	loginLimit := config.Int("LOGIN_RATE_LIMIT", 10)
	loginWindow := time.Duration(config.Int("LOGIN_RATE_WINDOW_SECONDS", 60)) * time.Second
	var loginLimiter httpx.Middleware
	if redisAddr := config.String("REDIS_ADDR", ""); redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		loginLimiter = httpx.NewRedisRateLimiter(rdb, loginLimit, loginWindow, "login").Middleware(logger, true)
	} else {
		loginLimiter = httpx.NewRateLimiter(loginLimit, loginWindow).Middleware()
	}

	readyChecks := []runtime.ReadyCheck{
		{Name: "db", Check: db.ReadyCheck(pool)},
	}
	if kafkaBrokers != "" {
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(kafkaBrokers)})
	}
	mux := runtime.NewBaseMuxWithReady(readyChecks...)

	mux.Handle("/v1/auth/login", httpx.Chain(http.HandlerFunc(authHandler.Login), loginLimiter))

	requireAuth := handlers.RequireAuth(jwtSecret)
	protect := func(h http.HandlerFunc) http.Handler {
		return requireAuth(h)
	}
	mux.Handle("/v1/appointments", protect(apptHandler.Collection))
	mux.Handle("/v1/appointments/", protect(apptHandler.Item))
	mux.Handle("/v1/customers", protect(customerHandler.Collection))
	mux.Handle("/v1/customers/", protect(customerHandler.Item))
	mux.Handle("/v1/contacts", protect(referenceHandler.Contacts))
	mux.Handle("/v1/countries", protect(referenceHandler.Countries))
	mux.Handle("/v1/countries/", protect(referenceHandler.Divisions))
	mux.Handle("/v1/reports/appointments-by-type-month", protect(reportsHandler.AppointmentsByTypeMonth))
	mux.Handle("/v1/reports/contact-schedule", protect(reportsHandler.ContactSchedule))
	mux.Handle("/v1/reports/billing", protect(reportsHandler.Billing))
	mux.Handle("/v1/reports/billing/export", protect(reportsHandler.BillingExport))

	corsOrigins := config.String("CORS_ALLOWED_ORIGINS", "")
	httpHandler := httpx.Chain(mux,
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: splitNonEmpty(corsOrigins),
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:         10 * time.Minute,
		}),
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(1<<20),
		httpx.WithTimeout(15*time.Second),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, service)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}

func splitNonEmpty(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
