// Package httpserver assembles the HTTP API: it opens the datastore, builds
// the optional identification, speech and messaging services per the
// configuration, and runs the Echo server with graceful shutdown.
package httpserver

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	api "github.com/mediplant/mediplant-go/internal/api/v2"
	"github.com/mediplant/mediplant-go/internal/classify"
	"github.com/mediplant/mediplant-go/internal/conf"
	"github.com/mediplant/mediplant-go/internal/datastore"
	"github.com/mediplant/mediplant-go/internal/logging"
	"github.com/mediplant/mediplant-go/internal/messaging"
	"github.com/mediplant/mediplant-go/internal/moderation"
	"github.com/mediplant/mediplant-go/internal/observability"
	"github.com/mediplant/mediplant-go/internal/tts"
)

// shutdownTimeout bounds how long in-flight requests may run during shutdown.
const shutdownTimeout = 10 * time.Second

// Server owns the Echo instance and every service the API depends on.
type Server struct {
	Echo     *echo.Echo
	Settings *conf.Settings
	DS       datastore.Interface

	controller      *api.Controller
	metricsEndpoint *observability.Endpoint
	logger          *slog.Logger
}

// New opens the datastore and wires all services the configuration enables.
func New(settings *conf.Settings) (*Server, error) {
	logger := logging.ForService("httpserver")

	ds := datastore.New(settings)
	if err := ds.Open(); err != nil {
		return nil, fmt.Errorf("opening datastore: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	var metrics *observability.Metrics
	var metricsEndpoint *observability.Endpoint
	if settings.Metrics.Enabled {
		var err error
		metrics, err = observability.NewMetrics()
		if err != nil {
			return nil, fmt.Errorf("creating metrics: %w", err)
		}
		metricsEndpoint, err = observability.NewEndpoint(settings, metrics)
		if err != nil {
			return nil, fmt.Errorf("creating metrics endpoint: %w", err)
		}
	}

	opts, err := serviceOptions(settings, ds)
	if err != nil {
		return nil, err
	}

	controller, err := api.New(e, ds, settings, log.Default(), metrics, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating API controller: %w", err)
	}

	return &Server{
		Echo:            e,
		Settings:        settings,
		DS:              ds,
		controller:      controller,
		metricsEndpoint: metricsEndpoint,
		logger:          logger,
	}, nil
}

// serviceOptions builds the optional API services from configuration.
func serviceOptions(settings *conf.Settings, ds datastore.Interface) ([]api.Option, error) {
	var opts []api.Option

	identifyEnabled := settings.Identify.Vision.Enabled ||
		settings.Identify.LLM.Enabled ||
		settings.Identify.Fixture.Enabled
	if identifyEnabled {
		classifier, err := classify.NewService(settings, ds)
		if err != nil {
			return nil, fmt.Errorf("creating identification service: %w", err)
		}
		opts = append(opts, api.WithClassifier(classifier))
	}

	if settings.Speech.Enabled {
		speech, err := tts.NewService(context.Background(), settings)
		if err != nil {
			return nil, fmt.Errorf("creating speech service: %w", err)
		}
		opts = append(opts, api.WithSpeech(speech))
	}

	if settings.Messaging.Enabled {
		messenger, err := messaging.NewDispatcher(settings, ds)
		if err != nil {
			return nil, fmt.Errorf("creating message dispatcher: %w", err)
		}
		opts = append(opts, api.WithMessenger(messenger))
	}

	return opts, nil
}

// Moderation exposes the moderation service for non-HTTP callers.
func (s *Server) Moderation() *moderation.Service {
	return s.controller.Moderation
}

// Start runs the server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	if s.metricsEndpoint != nil {
		s.metricsEndpoint.Start()
	}

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + s.Settings.WebServer.Port
		s.logger.Info("web server listening", "addr", addr)
		if err := s.Echo.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("web server failed: %w", err)
	case <-ctx.Done():
	}

	return s.Shutdown()
}

// Shutdown stops the server and releases all resources.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var firstErr error
	if err := s.Echo.Shutdown(ctx); err != nil {
		s.logger.Error("web server shutdown failed", "error", err)
		firstErr = err
	}
	if s.metricsEndpoint != nil {
		if err := s.metricsEndpoint.Shutdown(ctx); err != nil {
			s.logger.Error("metrics endpoint shutdown failed", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	s.controller.Shutdown()
	if err := s.DS.Close(); err != nil {
		s.logger.Error("datastore close failed", "error", err)
		if firstErr == nil {
			firstErr = err
		}
	}
	s.logger.Info("web server stopped")
	return firstErr
}
