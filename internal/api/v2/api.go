// internal/api/v2/api.go
package api

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/patrickmn/go-cache"

	"github.com/mediplant/mediplant-go/internal/classify"
	"github.com/mediplant/mediplant-go/internal/conf"
	"github.com/mediplant/mediplant-go/internal/datastore"
	"github.com/mediplant/mediplant-go/internal/i18n"
	"github.com/mediplant/mediplant-go/internal/logging"
	"github.com/mediplant/mediplant-go/internal/messaging"
	"github.com/mediplant/mediplant-go/internal/moderation"
	"github.com/mediplant/mediplant-go/internal/observability"
	"github.com/mediplant/mediplant-go/internal/tts"
)

// cache keys for listing endpoints
const (
	verifiedPlantsCacheKey = "plants:verified"
	plantCacheTTL          = 5 * time.Minute
)

// Controller manages the API routes and handlers.
type Controller struct {
	Echo       *echo.Echo
	Group      *echo.Group
	DS         datastore.Interface
	Settings   *conf.Settings
	Classifier *classify.Service
	Moderation *moderation.Service
	Speech     *tts.Service
	Messenger  *messaging.Dispatcher
	Catalog    *i18n.Catalog

	logger         *log.Logger
	plantCache     *cache.Cache // cache for the verified plant listing
	startTime      *time.Time
	apiLogger      *slog.Logger
	apiLevelVar    *slog.LevelVar
	apiLoggerClose func() error
	metrics        *observability.Metrics
}

// Option is a functional option for configuring the Controller.
type Option func(*Controller)

// WithClassifier sets the identification service.
func WithClassifier(svc *classify.Service) Option {
	return func(c *Controller) { c.Classifier = svc }
}

// WithSpeech sets the text-to-speech service.
func WithSpeech(svc *tts.Service) Option {
	return func(c *Controller) { c.Speech = svc }
}

// WithMessenger sets the outbound message dispatcher.
func WithMessenger(d *messaging.Dispatcher) Option {
	return func(c *Controller) { c.Messenger = d }
}

// New creates a new API controller and registers all routes.
func New(e *echo.Echo, ds datastore.Interface, settings *conf.Settings,
	logger *log.Logger, metrics *observability.Metrics, opts ...Option) (*Controller, error) {
	return NewWithOptions(e, ds, settings, logger, metrics, true, opts...)
}

// NewWithOptions creates a new API controller with optional route
// initialization. Set initializeRoutes to false in tests that register
// handlers selectively.
func NewWithOptions(e *echo.Echo, ds datastore.Interface, settings *conf.Settings,
	logger *log.Logger, metrics *observability.Metrics, initializeRoutes bool, opts ...Option) (*Controller, error) {

	if logger == nil {
		logger = log.Default()
	}

	catalog, err := i18n.NewCatalog(settings.I18n.DefaultLanguage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize message catalog: %w", err)
	}

	c := &Controller{
		Echo:       e,
		DS:         ds,
		Settings:   settings,
		Moderation: moderation.NewService(ds),
		Catalog:    catalog,
		logger:     logger,
		plantCache: cache.New(plantCacheTTL, 10*time.Minute),
		metrics:    metrics,
	}

	// Structured logger for API requests
	apiLogPath := "logs/web.log"
	c.apiLevelVar = new(slog.LevelVar)
	c.apiLevelVar.Set(slog.LevelInfo)
	if settings.WebServer.Debug {
		c.apiLevelVar.Set(slog.LevelDebug)
	}

	apiLogger, closeFunc, err := logging.NewFileLogger(apiLogPath, "api", c.apiLevelVar)
	if err != nil {
		logger.Printf("Warning: Failed to initialize API structured logger: %v", err)
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: c.apiLevelVar})
		c.apiLogger = slog.New(fbHandler).With("service", "api")
		c.apiLoggerClose = func() error { return nil }
	} else {
		c.apiLogger = apiLogger
		c.apiLoggerClose = closeFunc
	}

	for _, opt := range opts {
		opt(c)
	}

	// Create v2 API group
	c.Group = e.Group("/api/v2")

	c.Group.Use(middleware.Recover())
	c.Group.Use(middleware.CORS())
	c.Group.Use(middleware.BodyLimit("1M"))
	c.Group.Use(c.LoggingMiddleware())
	c.Group.Use(c.MetricsMiddleware())

	now := time.Now()
	c.startTime = &now

	if initializeRoutes {
		c.initRoutes()
	}

	return c, nil
}

// LoggingMiddleware creates a middleware function that logs API requests.
func (c *Controller) LoggingMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()

			err := next(ctx)

			if c.apiLogger == nil {
				return err
			}

			req := ctx.Request()
			res := ctx.Response()

			attrs := []slog.Attr{
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.String("query", req.URL.RawQuery),
				slog.Int("status", res.Status),
				slog.String("ip", ctx.RealIP()),
				slog.String("user_agent", req.UserAgent()),
				slog.Int64("latency_ms", time.Since(start).Milliseconds()),
			}
			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
			}

			c.apiLogger.LogAttrs(req.Context(), slog.LevelInfo, "API Request", attrs...)
			return err
		}
	}
}

// MetricsMiddleware records request counters and latency.
func (c *Controller) MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if c.metrics == nil {
				return next(ctx)
			}
			start := time.Now()
			err := next(ctx)

			path := ctx.Path() // route template, not raw URL, keeps cardinality bounded
			method := ctx.Request().Method
			status := fmt.Sprintf("%d", ctx.Response().Status)
			c.metrics.HTTP.RequestsTotal.WithLabelValues(method, path, status).Inc()
			c.metrics.HTTP.RequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// initRoutes registers all API endpoints.
func (c *Controller) initRoutes() {
	c.Group.GET("/health", c.HealthCheck)

	routeInitializers := []struct {
		name string
		fn   func()
	}{
		{"plant routes", c.initPlantRoutes},
		{"search routes", c.initSearchRoutes},
		{"contribution routes", c.initContributionRoutes},
		{"media routes", c.initMediaRoutes},
		{"identification routes", c.initIdentificationRoutes},
		{"user routes", c.initUserRoutes},
		{"notification routes", c.initNotificationRoutes},
	}

	for _, initializer := range routeInitializers {
		c.Debug("Initializing %s...", initializer.name)
		initializer.fn()
	}
}

// Shutdown performs cleanup of all resources used by the API controller.
func (c *Controller) Shutdown() {
	if c.apiLoggerClose != nil {
		if err := c.apiLoggerClose(); err != nil {
			c.logger.Printf("Error closing API log file: %v", err)
		}
	}
	if c.plantCache != nil {
		c.plantCache.Flush()
	}
	c.Debug("API Controller shutting down")
}

// invalidatePlantCache drops the cached verified listing after any write that
// can change it.
func (c *Controller) invalidatePlantCache() {
	c.plantCache.Delete(verifiedPlantsCacheKey)
}

// ErrorResponse is the error payload returned by all handlers.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Code          int    `json:"code"`
	CorrelationID string `json:"correlation_id"`
}

// NewErrorResponse creates a new API error response.
func NewErrorResponse(err error, message string, code int) *ErrorResponse {
	var errorStr string
	if err != nil {
		errorStr = err.Error()
	} else {
		errorStr = message
	}

	return &ErrorResponse{
		Error:         errorStr,
		Message:       message,
		Code:          code,
		CorrelationID: generateCorrelationID(),
	}
}

// generateCorrelationID creates a unique identifier for error tracking.
func generateCorrelationID() string {
	return uuid.NewString()[:8]
}

// HandleError constructs and returns an appropriate error response.
func (c *Controller) HandleError(ctx echo.Context, err error, message string, code int) error {
	errorResp := NewErrorResponse(err, message, code)
	ip := ctx.RealIP()

	c.logger.Printf("API Error [%s] from %s: %s: %v", errorResp.CorrelationID, ip, message, err)

	if c.apiLogger != nil {
		var errorStr string
		if err != nil {
			errorStr = err.Error()
		} else {
			errorStr = message
		}
		c.apiLogger.Error("API Error",
			"correlation_id", errorResp.CorrelationID,
			"message", message,
			"error", errorStr,
			"code", code,
			"path", ctx.Request().URL.Path,
			"method", ctx.Request().Method,
			"ip", ip,
		)
	}

	return ctx.JSON(code, errorResp)
}

// Debug logs debug messages when debug mode is enabled.
func (c *Controller) Debug(format string, v ...any) {
	if c.Settings.WebServer.Debug {
		msg := fmt.Sprintf(format, v...)
		c.logger.Printf("[DEBUG] %s", msg)
		if c.apiLogger != nil {
			c.apiLogger.Debug(msg)
		}
	}
}

// requestLanguage resolves the language for localized responses: lang query
// parameter first, then Accept-Language, then the configured default.
func (c *Controller) requestLanguage(ctx echo.Context) string {
	if lang := ctx.QueryParam("lang"); lang != "" {
		return lang
	}
	if header := ctx.Request().Header.Get("Accept-Language"); header != "" {
		return header
	}
	return c.Settings.I18n.DefaultLanguage
}

// statusCodeForStoreError maps store sentinel errors to HTTP status codes.
func statusCodeForStoreError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case isNotFound(err):
		return http.StatusNotFound
	case isInvalidTransition(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
