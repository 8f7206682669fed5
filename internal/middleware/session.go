package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// DefaultSessionCookie is used when no cookie name is configured.
	DefaultSessionCookie = "gema_session"
	// SessionHeader lets non-browser clients carry their session explicitly.
	SessionHeader = "X-Session-ID"

	sessionLocalsKey       = "session_id"
	sessionCookieLocalsKey = "session_cookie"
)

// SessionConfig customises the anonymous session middleware.
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Session binds every request to an anonymous session identifier, issuing a
// new one when the client presents none or an invalid one.
func Session(cfg SessionConfig) fiber.Handler {
	name := strings.TrimSpace(cfg.CookieName)
	if name == "" {
		name = DefaultSessionCookie
	}

	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Cookies(name))
		if id == "" {
			id = strings.TrimSpace(c.Get(SessionHeader))
		}
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		cookie := &fiber.Cookie{
			Name:     name,
			Value:    id,
			Path:     "/",
			HTTPOnly: true,
			Secure:   cfg.Secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		}
		if cfg.TTL > 0 {
			cookie.MaxAge = int(cfg.TTL.Seconds())
		}
		c.Cookie(cookie)
		c.Set(SessionHeader, id)
		c.Locals(sessionLocalsKey, id)
		c.Locals(sessionCookieLocalsKey, *cookie)

		return c.Next()
	}
}

// GetSessionID returns the session identifier bound to the active request.
func GetSessionID(c *fiber.Ctx) string {
	if c == nil {
		return ""
	}
	if value, ok := c.Locals(sessionLocalsKey).(string); ok {
		return value
	}
	return ""
}

// ExpireSession replaces the session cookie of the active request with an
// expired one so the browser drops it.
func ExpireSession(c *fiber.Ctx) {
	cookie, ok := c.Locals(sessionCookieLocalsKey).(fiber.Cookie)
	if !ok {
		return
	}
	cookie.Value = ""
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	c.Cookie(&cookie)
}
