package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/green_homes/internal/logging"
)

const (
	CookieName = "cartSession"
	ContextKey = "session_id"
)

func CreateCookie(name, value, path string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func DeleteCookie(name, path string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// Middleware resolves the session from its cookie, starting a new one when
// the cookie is missing or invalid.
func Middleware(iss *Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := logging.FromContext(c.Request().Context())

			if ck, err := c.Cookie(CookieName); err == nil && ck.Value != "" {
				id, err := iss.Parse(ck.Value)
				if err == nil {
					c.Set(ContextKey, id)
					return next(c)
				}
				l.Info("session_token_rejected", "error", err)
			}

			id, token, exp, err := iss.Issue()
			if err != nil {
				l.Error("session_issue_error", "status", 500, "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
			}
			c.SetCookie(CreateCookie(CookieName, token, "/", exp))
			c.Set(ContextKey, id)
			return next(c)
		}
	}
}

// ID returns the session id set by Middleware.
func ID(c echo.Context) (string, error) {
	id, ok := c.Get(ContextKey).(string)
	if !ok || id == "" {
		return "", errors.New("no session")
	}
	return id, nil
}

// Forget expires the session cookie.
func Forget(c echo.Context) {
	c.SetCookie(DeleteCookie(CookieName, "/"))
}
