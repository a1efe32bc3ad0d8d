package handler

import (
    "database/sql"
    "errors"
    "math"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/shopsmart/internal/repository"
)

// validQuantity reports whether a requested line quantity fits the
// quantity column. Values past MaxUint32 would otherwise wrap to 0 or a
// tiny remainder in the uint32 conversion and corrupt the line.
func validQuantity(q int64) bool {
    return q >= 1 && q <= math.MaxUint32
}

// CartHandler serves the authenticated user's cart.  All methods assume
// JWT authentication has already run; the caller's identity comes from
// the request context, never from the payload.
type CartHandler struct {
    Carts    *repository.CartRepo
    Products *repository.ProductRepo
}

func NewCartHandler(carts *repository.CartRepo, products *repository.ProductRepo) *CartHandler {
    if carts == nil || products == nil {
        panic("nil repository passed to NewCartHandler")
    }
    return &CartHandler{Carts: carts, Products: products}
}

// List handles GET /api/cart.  It returns the user's cart lines joined
// with product detail, in insertion order.
func (h *CartHandler) List(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
    }
    items, err := h.Carts.ListByUser(c.Request().Context(), userID)
    if err != nil {
        c.Logger().Errorf("cart: list for user %d: %v", userID, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }
    return c.JSON(http.StatusOK, items)
}

// Add handles POST /api/cart.  When a line for this product already
// exists the quantities are merged; otherwise a new line is created.
// Quantity must be a positive integer.
func (h *CartHandler) Add(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
    }
    var body struct {
        ProductID uint64 `json:"productId"`
        Quantity  int64  `json:"quantity"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
    }
    if body.ProductID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "productId is required"})
    }
    if !validQuantity(body.Quantity) {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "quantity must be a positive integer"})
    }

    ctx := c.Request().Context()
    if _, err := h.Products.GetByID(ctx, body.ProductID); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "product not found"})
        }
        c.Logger().Errorf("cart: check product %d: %v", body.ProductID, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }

    detail, created, err := h.Carts.Add(ctx, userID, body.ProductID, uint32(body.Quantity))
    if err != nil {
        c.Logger().Errorf("cart: add for user %d: %v", userID, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }
    status := http.StatusOK
    if created {
        status = http.StatusCreated
    }
    return c.JSON(status, detail)
}

// Update handles PUT /api/cart/:id.  Existence is checked before
// ownership so a caller cannot tell a foreign line from a missing one
// by probing: absent ids are 404, someone else's ids are 403.
func (h *CartHandler) Update(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
    }
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid cart item id"})
    }
    var body struct {
        Quantity int64 `json:"quantity"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
    }
    if !validQuantity(body.Quantity) {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "quantity must be a positive integer"})
    }

    ctx := c.Request().Context()
    if _, err := h.Carts.GetOwned(ctx, id, userID); err != nil {
        switch {
        case errors.Is(err, sql.ErrNoRows):
            return c.JSON(http.StatusNotFound, echo.Map{"message": "item not found"})
        case errors.Is(err, repository.ErrForbidden):
            return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
        }
        c.Logger().Errorf("cart: fetch line %d: %v", id, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }

    detail, err := h.Carts.UpdateQuantity(ctx, id, uint32(body.Quantity))
    if err != nil {
        c.Logger().Errorf("cart: update line %d: %v", id, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }
    return c.JSON(http.StatusOK, detail)
}

// Remove handles DELETE /api/cart/:id with the same existence-then-
// ownership check order as Update.
func (h *CartHandler) Remove(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
    }
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid cart item id"})
    }

    ctx := c.Request().Context()
    if _, err := h.Carts.GetOwned(ctx, id, userID); err != nil {
        switch {
        case errors.Is(err, sql.ErrNoRows):
            return c.JSON(http.StatusNotFound, echo.Map{"message": "item not found"})
        case errors.Is(err, repository.ErrForbidden):
            return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
        }
        c.Logger().Errorf("cart: fetch line %d: %v", id, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }

    if err := h.Carts.Remove(ctx, id); err != nil {
        c.Logger().Errorf("cart: remove line %d: %v", id, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "item removed"})
}
