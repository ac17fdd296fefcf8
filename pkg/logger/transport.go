package logger

import (
	"log/slog"
	"net/http"
	"time"
)

// transport logs every outbound request made through it
type transport struct {
	next   http.RoundTripper
	logger *slog.Logger
}

// NewTransport wraps next (http.DefaultTransport when nil) with request logging.
// Successful calls are logged at debug, 5xx and transport failures at warn.
// Query strings are never logged since they may carry API keys.
func NewTransport(logger *slog.Logger, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &transport{next: next, logger: logger}
}

func (t *transport) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := t.next.RoundTrip(r)

	attrs := []slog.Attr{
		slog.String("method", r.Method),
		slog.String("host", r.URL.Host),
		slog.String("path", r.URL.Path),
		slog.Duration("duration", time.Since(start)),
	}

	level := slog.LevelDebug
	switch {
	case err != nil:
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("error", err.Error()))
	case resp.StatusCode >= http.StatusInternalServerError:
		level = slog.LevelWarn
		attrs = append(attrs, slog.Int("status", resp.StatusCode))
	default:
		attrs = append(attrs, slog.Int("status", resp.StatusCode))
	}

	t.logger.LogAttrs(r.Context(), level, "HTTP", attrs...)

	return resp, err
}
