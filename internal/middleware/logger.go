package middleware

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// LoggerConfig controls request logging.
type LoggerConfig struct {
	// SkipPrefixes lists path prefixes whose requests are not logged.
	// Static asset requests would otherwise drown out the listing
	// traffic the log exists for.
	SkipPrefixes []string
}

// Logger returns a gin middleware that logs each HTTP request using the
// provided slog.Logger with no paths skipped.
func Logger(logger *slog.Logger) gin.HandlerFunc {
	return LoggerWithConfig(logger, LoggerConfig{})
}

// LoggerWithConfig returns a gin middleware that logs each HTTP request using
// the provided slog.Logger. It records the method, path, status code, latency,
// and client IP, plus the raw query string when present (the query string
// carries the listing's search/sort/page state) and any errors handlers
// attached to the context.
//
// The log level is chosen based on the response status code:
//   - 2xx/3xx: Info
//   - 4xx: Warn
//   - 5xx: Error
//
// It passes the request context so that the ContextHandler automatically
// attaches the request_id.
func LoggerWithConfig(logger *slog.Logger, cfg LoggerConfig) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.Request.URL.Path
		for _, prefix := range cfg.SkipPrefixes {
			if strings.HasPrefix(path, prefix) {
				return
			}
		}

		latency := time.Since(start)
		status := c.Writer.Status()

		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.Duration("latency", latency),
			slog.String("client_ip", c.ClientIP()),
		}
		if query := c.Request.URL.RawQuery; query != "" {
			attrs = append(attrs, slog.String("query", query))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		ctx := c.Request.Context()
		msg := "request"

		switch {
		case status >= 500:
			logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
		case status >= 400:
			logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
		default:
			logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
		}
	}
}
