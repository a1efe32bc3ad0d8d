package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/shopsmart/internal/handler"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check;
// the public catalog lives in RegisterPublic so the Redis cache can be
// mounted on it selectively.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints and the protected
// /api/auth/me route.  Unauthenticated operations live under /api/auth;
// me requires a valid token but no particular role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    g := e.Group("/api/auth")
    g.POST("/signup", a.Signup)
    g.POST("/login", a.Login)

    me := e.Group("/api/auth", authMiddleware(jwtSecret)...)
    me.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated catalog endpoints.  The
// optional cache middleware (Redis-backed) is applied only here: these
// are the hot read paths and they carry no caller-specific data.
func RegisterPublic(e *echo.Echo, p *handler.ProductHandler, cache ...echo.MiddlewareFunc) {
    g := e.Group("/api/products", cache...)
    g.GET("", p.List)
    g.GET("/:id", p.Get)
}
