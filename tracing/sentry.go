package tracing

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/ncobase/composite/config"
)

// NewSentry initialises the Sentry client. It is a no-op without a DSN and
// reports whether Sentry is active.
func NewSentry(cfg *config.Sentry, name, release string) (bool, error) {
	if cfg == nil || cfg.Endpoint == "" {
		return false, nil
	}
	if cfg.Release != "" {
		release = cfg.Release
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Endpoint,
		AttachStacktrace: true,
		SampleRate:       cfg.SampleRate,
		ServerName:       name,
		Release:          release,
		Environment:      cfg.Environment,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// FlushSentry waits up to timeout for buffered events to be sent.
func FlushSentry(timeout time.Duration) {
	sentry.Flush(timeout)
}
