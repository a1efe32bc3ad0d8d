package handler

import (
    "database/sql"
    "errors"
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/shopsmart/internal/model"
    "github.com/iliyamo/shopsmart/internal/repository"
)

// ListAll handles GET /api/admin/orders.  It returns every order with
// items, product detail and the owning user's public summary.  The
// admin-only gate is enforced by route middleware.
func (h *OrderHandler) ListAll(c echo.Context) error {
    q := listQueryFrom(c)
    orders, total, err := h.Orders.ListAll(c.Request().Context(), q)
    if err != nil {
        c.Logger().Errorf("orders: admin list: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }
    q.Clamp()
    return c.JSON(http.StatusOK, echo.Map{
        "orders": orders,
        "page":   q.Page,
        "pages":  repository.Pages(total, q.Limit),
        "total":  total,
    })
}

// UpdateStatus handles PUT /api/orders/:id/status.  The new status must
// be a member of the status set; any member is accepted as a target, no
// transition graph is enforced.  There is no ownership check because
// the route is admin-only.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid order id"})
    }
    var body struct {
        Status string `json:"status"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
    }
    status := strings.ToUpper(strings.TrimSpace(body.Status))
    if !model.ValidOrderStatus(status) {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid status"})
    }

    order, err := h.Orders.UpdateStatus(c.Request().Context(), id, status)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "order not found"})
        }
        c.Logger().Errorf("orders: update status %d: %v", id, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }
    return c.JSON(http.StatusOK, order)
}
