package pkg

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	flashCookieName = "_flash"
	flashMaxAge     = 60 // seconds; a flash that is never read should not linger
)

// Flash is a one-shot status notification set by a mutation handler at
// redirect time and drained by the next page render. At most one level is
// populated.
type Flash struct {
	Success string `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
	Warning string `json:"warning,omitempty"`
}

// FlashSuccess queues a success message for the next page render.
func FlashSuccess(c *gin.Context, message string) {
	setFlash(c, Flash{Success: message})
}

// FlashError queues an error message for the next page render.
func FlashError(c *gin.Context, message string) {
	setFlash(c, Flash{Error: message})
}

// FlashWarning queues a warning message for the next page render.
func FlashWarning(c *gin.Context, message string) {
	setFlash(c, Flash{Warning: message})
}

// TakeFlash reads and clears the pending flash message. Returns nil when no
// flash is queued or the cookie is malformed. The cookie is expired either
// way, so a message is surfaced at most once.
func TakeFlash(c *gin.Context) *Flash {
	raw, err := c.Cookie(flashCookieName)
	if err != nil || raw == "" {
		return nil
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var flash Flash
	if err := json.Unmarshal(decoded, &flash); err != nil {
		return nil
	}
	if flash == (Flash{}) {
		return nil
	}
	return &flash
}

func setFlash(c *gin.Context, flash Flash) {
	payload, err := json.Marshal(flash)
	if err != nil {
		return
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		MaxAge:   flashMaxAge,
		HttpOnly: true,
		Secure:   gin.Mode() == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
}
