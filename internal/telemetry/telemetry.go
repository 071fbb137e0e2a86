// Package telemetry reports application errors to Sentry. It implements the
// errors package Reporter interface, built errors flow here automatically
// once Init has attached the reporter.
package telemetry

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/mediplant/mediplant-go/internal/conf"
	"github.com/mediplant/mediplant-go/internal/errors"
	"github.com/mediplant/mediplant-go/internal/logging"
)

const flushTimeout = 2 * time.Second

// SentryReporter forwards enhanced errors to Sentry.
type SentryReporter struct {
	logger *slog.Logger
}

// Init initializes the Sentry SDK and attaches the reporter. A disabled
// Sentry section is not an error, error reporting then stays off.
func Init(settings *conf.Settings) error {
	if !settings.Sentry.Enabled {
		return nil
	}
	if settings.Sentry.DSN == "" {
		return fmt.Errorf("sentry enabled but no DSN configured")
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              settings.Sentry.DSN,
		SampleRate:       1.0,
		AttachStacktrace: false,
		ServerName:       "",
		Release:          fmt.Sprintf("mediplant-go@%s", settings.Version),
	})
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}

	errors.SetReporter(&SentryReporter{logger: logging.ForService("telemetry")})
	return nil
}

// Shutdown flushes buffered events and detaches the reporter.
func Shutdown() {
	errors.SetReporter(nil)
	sentry.Flush(flushTimeout)
}

// ReportError implements errors.Reporter.
func (r *SentryReporter) ReportError(ee *errors.EnhancedError) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("component", ee.GetComponent())
		scope.SetTag("category", ee.GetCategory())
		for key, value := range ee.GetContext() {
			scope.SetExtra(key, value)
		}
		sentry.CaptureException(ee)
	})
	r.logger.Debug("error reported",
		"component", ee.GetComponent(), "category", ee.GetCategory())
}
