package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/shopsmart/internal/handler"
    "github.com/iliyamo/shopsmart/internal/middleware"
    "github.com/iliyamo/shopsmart/internal/model"
)

// authMiddleware is the JWT + minimum-role chain shared by the
// authenticated route groups.
func authMiddleware(jwtSecret string) []echo.MiddlewareFunc {
    return []echo.MiddlewareFunc{
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleUser),
    }
}

// RegisterCustomer registers the cart and order endpoints available to
// any authenticated user.  Ownership scoping happens inside the
// handlers; the middleware only guarantees a valid identity.
func RegisterCustomer(e *echo.Echo, cart *handler.CartHandler, order *handler.OrderHandler, jwtSecret string) {
    g := e.Group("/api", authMiddleware(jwtSecret)...)

    g.GET("/cart", cart.List)
    g.POST("/cart", cart.Add)
    g.PUT("/cart/:id", cart.Update)
    g.DELETE("/cart/:id", cart.Remove)

    g.POST("/orders", order.Place)
    g.GET("/orders", order.ListMine)
}
