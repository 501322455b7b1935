package middleware

import (
	"github.com/labstack/echo/v4"

	"ubigeo_app_go/models"
	"ubigeo_app_go/services"
)

// EventContext records who is acting so every history event written during the
// request carries the actor, IP and user agent.
func EventContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ec := requestEventContext(c, GetCurrentUser(c))
			ctx := services.WithEventContext(c.Request().Context(), ec)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func requestEventContext(c echo.Context, user *models.User) models.EventContext {
	ec := models.EventContext{
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
	if user != nil {
		ec.User = user.ID
	}
	return ec
}
