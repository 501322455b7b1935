package middleware

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ubigeo_app_go/models"
	"ubigeo_app_go/services"
)

const (
	// ContextKeyUser is the context key for the authenticated user
	ContextKeyUser = "user"
	// Realm is announced in the WWW-Authenticate challenge
	Realm = "Mantenimiento"
)

// RequireAuth authenticates every request with HTTP basic credentials checked
// against the users table. A successful login refreshes last_login at most once
// per hour. IPs locked out by monitor are refused without checking credentials.
func RequireAuth(db *gorm.DB, log *zap.Logger, monitor *services.LoginMonitor) echo.MiddlewareFunc {
	return echomw.BasicAuthWithConfig(echomw.BasicAuthConfig{
		Realm: Realm,
		Validator: func(username, password string, c echo.Context) (bool, error) {
			ip := c.RealIP()
			if monitor != nil && monitor.Blocked(ip) {
				log.Warn("login blocked", zap.String("username", username), zap.String("ip", ip))
				return false, nil
			}

			user, err := services.Authenticate(db, username, password)
			if errors.Is(err, services.ErrInvalidCredentials) {
				log.Info("login refused", zap.String("username", username), zap.String("ip", ip))
				if monitor != nil {
					monitor.TrackFailedLogin(ip)
				}
				return false, nil
			}
			if err != nil {
				return false, err
			}
			if monitor != nil {
				monitor.Reset(ip)
			}

			ctx := services.WithEventContext(c.Request().Context(), requestEventContext(c, user))
			if err := services.TouchLastLogin(ctx, db, user, time.Now()); err != nil {
				log.Warn("failed to record last login", zap.String("user", user.ID), zap.Error(err))
			}

			c.Set(ContextKeyUser, user)
			return true, nil
		},
	})
}

// GetCurrentUser retrieves the current user from context
func GetCurrentUser(c echo.Context) *models.User {
	user, ok := c.Get(ContextKeyUser).(*models.User)
	if !ok {
		return nil
	}
	return user
}
