package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/shopsmart/internal/model"
)

// RequireRole returns a middleware enforcing that the authenticated user
// holds at least the given role in the ordering USER < ADMIN < SUPERADMIN.
// It assumes JWTAuth already stored the role claim in the context under
// "role"; a missing or unknown role is treated as insufficient, which
// yields 403 rather than 401 because the token itself was valid.
func RequireRole(min model.Role) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            v := c.Get("role")
            s, ok := v.(string)
            if !ok {
                return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
            }
            role, ok := model.ParseRole(s)
            if !ok || !role.AtLeast(min) {
                return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
            }
            return next(c)
        }
    }
}
