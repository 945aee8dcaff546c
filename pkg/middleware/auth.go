package middleware

import (
	"errors"
	"net/http"

	"catalog-console/internal/usecase"
	"catalog-console/pkg/utils"

	"go.uber.org/zap"
)

// ClearCookie expires the console session cookie.
func ClearCookie(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionGuard lets a request through only when its cookie maps to a live
// backend session. Everything else, a backend failure included, ends on
// the login page.
func SessionGuard(authSvc usecase.AuthService, config utils.SessionConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var raw string
			if c, err := r.Cookie(config.CookieName); err == nil {
				raw = c.Value
			}

			session, err := authSvc.Authenticate(r.Context(), raw)
			if err != nil {
				if errors.Is(err, usecase.ErrNoSession) {
					logger.Debug("No session, redirecting to login", zap.String("path", r.URL.Path))
				} else {
					logger.Warn("Session check failed, redirecting to login",
						zap.Error(err),
						zap.String("path", r.URL.Path))
				}
				if raw != "" {
					ClearCookie(w, config.CookieName, config.Secure)
				}
				utils.Redirect(w, r, "/login")
				return
			}

			ctx := utils.SetTokenContext(r.Context(), session.AccessToken)
			ctx = utils.SetSessionContext(ctx, session.ID, session.Email)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
