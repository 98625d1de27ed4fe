package logging

import (
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/rollbar/rollbar-go"
)

// ReporterOptions configures Rollbar error reporting.
type ReporterOptions struct {
	Token       string
	Environment string
	CodeVersion string
}

var reporting atomic.Bool

// ConfigureReporter enables Rollbar reporting when a token is set. It
// returns whether reporting is enabled.
func ConfigureReporter(opts ReporterOptions) bool {
	if opts.Token == "" {
		rollbar.SetEnabled(false)
		reporting.Store(false)
		return false
	}

	host, _ := os.Hostname()
	rollbar.SetToken(opts.Token)
	rollbar.SetEnvironment(opts.Environment)
	rollbar.SetServerHost(host)
	if opts.CodeVersion != "" {
		rollbar.SetCodeVersion(opts.CodeVersion)
	}
	rollbar.SetEnabled(true)
	reporting.Store(true)
	return true
}

// ReportingEnabled reports whether errors are sent to Rollbar.
func ReportingEnabled() bool {
	return reporting.Load()
}

// Report logs err at error level and forwards it to Rollbar when enabled.
// Attributes are key/value pairs as accepted by slog.
func Report(msg string, err error, attrs ...any) {
	slog.Error(msg, append([]any{"error", err}, attrs...)...)
	if !reporting.Load() {
		return
	}

	extras := map[string]interface{}{"message": msg}
	for i := 0; i+1 < len(attrs); i += 2 {
		if key, ok := attrs[i].(string); ok {
			extras[key] = attrs[i+1]
		}
	}
	rollbar.Error(err, extras)
}

// Flush waits for queued reports to be sent.
func Flush() {
	if reporting.Load() {
		rollbar.Wait()
	}
}
