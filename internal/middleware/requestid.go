package middleware

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"log/slog"
	"regexp"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"
)

// HeaderRequestID carries the request id on both requests and responses.
// The 500 error page surfaces the same id as a support reference, so it
// must stay stable for the whole request lifecycle.
const HeaderRequestID = "X-Request-ID"

const requestIDKey = "request_id"

// An upstream id is only reused when it looks like something a proxy
// would legitimately send.
var upstreamIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{1,64}$`)

var requestIDSeq atomic.Uint64

// RequestIDConfig controls whether an upstream X-Request-ID is reused.
type RequestIDConfig struct {
	// TrustUpstream reuses a valid incoming X-Request-ID instead of
	// generating a fresh one. It is wired from server.trust_request_id
	// and should only be enabled behind a proxy that sets the header
	// itself.
	TrustUpstream bool
}

// RequestID assigns a fresh id to every request, ignoring any upstream
// X-Request-ID header. See RequestIDWithConfig.
func RequestID() gin.HandlerFunc {
	return RequestIDWithConfig(RequestIDConfig{})
}

// RequestIDWithConfig tags each request with an id that is stored in the
// gin context, echoed in the X-Request-ID response header, and attached
// to the request context so every slog line for the request carries a
// request_id attribute.
func RequestIDWithConfig(cfg RequestIDConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var id string
		if cfg.TrustUpstream {
			if upstream := c.GetHeader(HeaderRequestID); validRequestID(upstream) {
				id = upstream
			}
		}
		if id == "" {
			id = newRequestID()
		}

		c.Set(requestIDKey, id)
		c.Header(HeaderRequestID, id)

		ctx := logger.WithContextAttrs(c.Request.Context(), slog.String(requestIDKey, id))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func validRequestID(id string) bool {
	return upstreamIDPattern.MatchString(id)
}

// GetRequestID returns the id assigned by RequestID, or an empty string
// when the middleware is not wired.
func GetRequestID(c *gin.Context) string {
	if v, ok := c.Get(requestIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// newRequestID returns 32 hex characters of randomness. If the system
// source fails it falls back to a timestamp plus a process-local counter,
// which is still unique enough for log correlation.
func newRequestID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		binary.BigEndian.PutUint64(b[:8], uint64(time.Now().UnixNano()))
		binary.BigEndian.PutUint64(b[8:], requestIDSeq.Add(1))
	}
	return hex.EncodeToString(b)
}
