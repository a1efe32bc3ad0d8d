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

// UserAdminHandler implements the superadmin account endpoints: the
// user listing with owned-record counts, role mutation, and the
// cascading account deletion.  The deletion composes repository ...Tx
// steps into one transaction so a failure at any step leaves every
// table untouched.
type UserAdminHandler struct {
    Users  *repository.UserRepo
    Carts  *repository.CartRepo
    Orders *repository.OrderRepo
}

func NewUserAdminHandler(users *repository.UserRepo, carts *repository.CartRepo, orders *repository.OrderRepo) *UserAdminHandler {
    if users == nil || carts == nil || orders == nil {
        panic("nil repository passed to NewUserAdminHandler")
    }
    return &UserAdminHandler{Users: users, Carts: carts, Orders: orders}
}

// List handles GET /api/users.  Supported query parameters: role
// (exact filter), sort, page, limit.  Password hashes never leave the
// repository.
func (h *UserAdminHandler) List(c echo.Context) error {
    q := listQueryFrom(c)
    users, total, err := h.Users.List(c.Request().Context(), q)
    if err != nil {
        c.Logger().Errorf("users: list: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }
    q.Clamp()
    return c.JSON(http.StatusOK, echo.Map{
        "users": users,
        "page":  q.Page,
        "pages": repository.Pages(total, q.Limit),
        "total": total,
    })
}

// UpdateRole handles PUT /api/users/:id/role.  The role must be one of
// USER, ADMIN, SUPERADMIN.  A superadmin may change any account's role,
// including their own — the only self-targeting guard is on deletion.
func (h *UserAdminHandler) UpdateRole(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid user id"})
    }
    var body struct {
        Role string `json:"role"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
    }
    role, ok := model.ParseRole(strings.ToUpper(strings.TrimSpace(body.Role)))
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid role"})
    }

    u, err := h.Users.UpdateRole(c.Request().Context(), id, role)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
        }
        c.Logger().Errorf("users: update role %d: %v", id, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "id":    u.ID,
        "name":  u.Name,
        "email": u.Email,
        "role":  u.Role,
    })
}

// Delete handles DELETE /api/users/:id.  Self-deletion is rejected so a
// superadmin cannot remove their own access.  Otherwise the target's
// cart lines, order items, orders and finally the user row are removed
// in one transaction — partial cleanup is never left behind.
func (h *UserAdminHandler) Delete(c echo.Context) error {
    callerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
    }
    targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || targetID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid user id"})
    }
    if targetID == callerID {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "cannot delete your own account"})
    }

    ctx := c.Request().Context()
    tx, err := h.Users.DB().BeginTx(ctx, nil)
    if err != nil {
        c.Logger().Errorf("users: begin tx: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    if _, err := h.Carts.DeleteByUserTx(ctx, tx, targetID); err != nil {
        c.Logger().Errorf("users: delete cart of %d: %v", targetID, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }
    orderIDs, err := h.Orders.OrderIDsByUserTx(ctx, tx, targetID)
    if err != nil {
        c.Logger().Errorf("users: list orders of %d: %v", targetID, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }
    if err := h.Orders.DeleteItemsByOrderIDsTx(ctx, tx, orderIDs); err != nil {
        c.Logger().Errorf("users: delete order items of %d: %v", targetID, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }
    if err := h.Orders.DeleteByUserTx(ctx, tx, targetID); err != nil {
        c.Logger().Errorf("users: delete orders of %d: %v", targetID, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }
    if err := h.Users.DeleteTx(ctx, tx, targetID); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
        }
        c.Logger().Errorf("users: delete user %d: %v", targetID, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }
    if err := tx.Commit(); err != nil {
        c.Logger().Errorf("users: commit delete of %d: %v", targetID, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }
    committed = true
    return c.JSON(http.StatusOK, echo.Map{"message": "user deleted successfully"})
}
