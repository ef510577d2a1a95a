package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/userdeck/userdeck/internal/pkg"
)

// Recovery returns a gin middleware that recovers from panics, logs the error
// with stack trace using slog, and returns an appropriate error response.
//
// For requests that accept HTML (Accept header contains "text/html"), it
// renders the errors/500.html template, passing the request id so the page
// can show a reference the user can report. For all other requests, it
// returns the standard response envelope:
//
//	{"code": 500, "message": "internal server error", "data": null}
//
// This middleware replaces gin.Recovery() so panics get structured logging
// and the same error surface as handler errors.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				stack := debug.Stack()

				attrs := []slog.Attr{
					slog.Any("panic", err),
					slog.String("method", c.Request.Method),
					slog.String("path", c.Request.URL.Path),
					slog.String("stack", string(stack)),
				}
				if id := GetRequestID(c); id != "" {
					attrs = append(attrs, slog.String("request_id", id))
				}
				logger.LogAttrs(c.Request.Context(), slog.LevelError, "panic recovered", attrs...)

				c.Abort()

				if acceptsHTML(c) {
					renderHTMLError(c)
				} else {
					c.JSON(http.StatusInternalServerError, pkg.Response{
						Code:    http.StatusInternalServerError,
						Message: "internal server error",
					})
				}
			}
		}()
		c.Next()
	}
}

// renderHTMLError attempts to render the errors/500.html template.
// If the HTML renderer is not configured or rendering fails, it falls back
// to a plain text 500 response.
func renderHTMLError(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			c.Data(http.StatusInternalServerError, "text/plain; charset=utf-8", []byte("500 Internal Server Error"))
		}
	}()
	c.HTML(http.StatusInternalServerError, "errors/500.html", gin.H{
		"requestID": GetRequestID(c),
	})
}

// acceptsHTML returns true if the request's Accept header contains "text/html".
func acceptsHTML(c *gin.Context) bool {
	accept := strings.ToLower(c.GetHeader("Accept"))
	return strings.Contains(accept, "text/html")
}
