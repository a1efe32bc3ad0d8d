package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/shopsmart/internal/handler"
    "github.com/iliyamo/shopsmart/internal/middleware"
    "github.com/iliyamo/shopsmart/internal/model"
)

// RegisterAdmin registers the elevated endpoints.  Catalog writes, the
// global order listing and status updates require at least ADMIN; the
// account lifecycle endpoints require SUPERADMIN.
func RegisterAdmin(e *echo.Echo, product *handler.ProductHandler, order *handler.OrderHandler, users *handler.UserAdminHandler, jwtSecret string) {
    admin := e.Group("/api",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleAdmin),
    )
    admin.POST("/products", product.Create)
    admin.PUT("/products/:id", product.Update)
    admin.DELETE("/products/:id", product.Delete)
    admin.GET("/admin/orders", order.ListAll)
    admin.PUT("/orders/:id/status", order.UpdateStatus)

    super := e.Group("/api/users",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleSuperAdmin),
    )
    super.GET("", users.List)
    super.PUT("/:id/role", users.UpdateRole)
    super.DELETE("/:id", users.Delete)
}
