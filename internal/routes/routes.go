package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	supa "github.com/supabase-community/supabase-go"

	"github.com/aid-portal/beneficiary_portal/internal/activity"
	"github.com/aid-portal/beneficiary_portal/internal/auth"
	"github.com/aid-portal/beneficiary_portal/internal/config"
	"github.com/aid-portal/beneficiary_portal/internal/credential"
	"github.com/aid-portal/beneficiary_portal/internal/dataupdate"
	"github.com/aid-portal/beneficiary_portal/internal/features"
	"github.com/aid-portal/beneficiary_portal/internal/logging"
	"github.com/aid-portal/beneficiary_portal/internal/metrics"
	"github.com/aid-portal/beneficiary_portal/internal/middleware"
	"github.com/aid-portal/beneficiary_portal/internal/notification"
	"github.com/aid-portal/beneficiary_portal/internal/otp"
	"github.com/aid-portal/beneficiary_portal/internal/portal"
	"github.com/aid-portal/beneficiary_portal/internal/staffsearch"
	"github.com/aid-portal/beneficiary_portal/internal/store"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg      config.Config
	DB       *pgxpool.Pool
	Cache    *redis.Client
	Supabase *supa.Client
	Backend  store.Backend
	Registry *prometheus.Registry
	Logger   *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Sessions and codes must survive restarts and be shared between instances outside of dev.
	if !d.Cfg.IsDevelopment() && d.Cache == nil {
		return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
	}
	if d.Backend.Beneficiaries == nil {
		return fmt.Errorf("record store backend is not configured")
	}
	if d.Registry == nil {
		d.Registry = metrics.NewRegistry()
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	if d.Cfg.IsDevelopment() {
		// Plain text access log in desired format: [HH:MM:SS] 200 -  145ms METHOD /path
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}
	app.Use(middleware.Audit(logging.Component(d.Logger, "http")))

	RegisterHealthRoutes(app, d)
	RegisterMetricsRoute(app, d.Registry)

	// Services and handlers
	m := metrics.New(d.Registry)
	portalLogger := logging.Component(d.Logger, "portal")

	var codes otp.Store = d.Backend.OTPCodes
	var sessions portal.SessionStore = portal.NewMemorySessionStore(d.Cfg.SessionTTL)
	var locker portal.Locker = portal.NewMemoryLocker()
	if d.Cache != nil {
		codes = otp.NewRedisStore(d.Cache)
		sessions = portal.NewRedisSessionStore(d.Cache, d.Cfg.SessionTTL)
		locker = portal.NewRedisLocker(d.Cache)
	}

	notifier := notification.NewLoggerNotifier(logging.Component(d.Logger, "notification"), d.Cfg.IsDevelopment())
	ctrl := portal.NewController(portal.Deps{
		Beneficiaries: d.Backend.Beneficiaries,
		Credentials:   credential.NewService(d.Backend.Credentials, 0),
		OTP:           otp.NewService(codes, notifier, d.Cfg.OTPTTL, []byte(d.Cfg.SessionSecret), logging.Component(d.Logger, "otp")),
		Packages:      d.Backend.Packages,
		Updates:       dataupdate.NewService(d.Backend.DataUpdates),
		Features:      features.NewLoader(d.Backend.Features, logging.Component(d.Logger, "features")),
		Activity:      activity.NewLogger(d.Backend.Activity, logging.Component(d.Logger, "activity"), m),
		Sessions:      sessions,
		Locker:        locker,
		Metrics:       m,
		Logger:        portalLogger,
	})
	tokens := auth.NewService(d.Cfg.SessionSecret, d.Cfg.SessionTTL)
	portalHandler := portal.NewHandler(ctrl, tokens, portalLogger)

	staffSvc := staffsearch.NewService(d.Backend.Beneficiaries, d.Backend.Packages, m, logging.Component(d.Logger, "staffsearch"))
	staffHandler := staffsearch.NewHandler(staffSvc)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID := middleware.RequestIDFrom(c)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	RegisterPortalRoutes(api, portalHandler, middleware.SessionAuth(tokens), middleware.LoginRateLimit(d.Cache, d.Cfg.LoginRateLimit))
	RegisterStaffRoutes(api, staffHandler)

	return nil
}
