package observability

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mediplant/mediplant-go/internal/conf"
	"github.com/mediplant/mediplant-go/internal/logging"
)

// Endpoint serves the Prometheus metrics listener on its own address,
// separate from the public API server.
type Endpoint struct {
	server        *http.Server
	listenAddress string
	metrics       *Metrics
	logger        *slog.Logger
}

// NewEndpoint creates the metrics endpoint. Returns an error when the metrics
// listener is not enabled in settings.
func NewEndpoint(settings *conf.Settings, metrics *Metrics) (*Endpoint, error) {
	if !settings.Metrics.Enabled {
		return nil, fmt.Errorf("metrics endpoint not enabled in settings")
	}
	return &Endpoint{
		listenAddress: settings.Metrics.Listen,
		metrics:       metrics,
		logger:        logging.ForService("observability"),
	}, nil
}

// Start runs the metrics HTTP server in a goroutine.
func (e *Endpoint) Start() {
	mux := http.NewServeMux()
	e.metrics.RegisterHandlers(mux)

	e.server = &http.Server{
		Addr:              e.listenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		e.logger.Info("metrics endpoint starting", "address", e.listenAddress)
		if err := e.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			e.logger.Error("metrics server error", "error", err)
		}
	}()
}

// Shutdown stops the metrics server gracefully.
func (e *Endpoint) Shutdown(ctx context.Context) error {
	if e.server == nil {
		return nil
	}
	return e.server.Shutdown(ctx)
}
