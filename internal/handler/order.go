package handler

import (
    "context"
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/shopsmart/internal/model"
    "github.com/iliyamo/shopsmart/internal/queue"
    "github.com/iliyamo/shopsmart/internal/repository"
    queue_publisher "github.com/iliyamo/shopsmart/internal/service"
)

// OrderHandler implements order placement and the order listings.  All
// methods assume JWT authentication and role validation has already
// been performed by middleware.  Placement runs its DB operations
// inside a transaction to guarantee atomicity: the order appears and
// the cart empties together, or neither happens.
type OrderHandler struct {
    Carts  *repository.CartRepo
    Orders *repository.OrderRepo
}

func NewOrderHandler(carts *repository.CartRepo, orders *repository.OrderRepo) *OrderHandler {
    if carts == nil || orders == nil {
        panic("nil repository passed to NewOrderHandler")
    }
    return &OrderHandler{Carts: carts, Orders: orders}
}

// placedItem is one frozen line echoed back from placement.
type placedItem struct {
    ProductID uint64  `json:"productId"`
    Quantity  uint32  `json:"quantity"`
    Price     float64 `json:"price"`
}

// placedOrderResp is the response body of a successful placement.
type placedOrderResp struct {
    ID          uint64       `json:"id"`
    UserID      uint64       `json:"userId"`
    TotalAmount float64      `json:"totalAmount"`
    Status      string       `json:"status"`
    CreatedAt   time.Time    `json:"createdAt"`
    Items       []placedItem `json:"items"`
}

// Place handles POST /api/orders.  It converts the caller's cart into
// an order: the cart lines are read with their current product prices,
// the total is computed, one order row plus its items are inserted with
// the prices frozen, and the cart is cleared — all inside a single
// transaction.  An empty cart aborts before any write.
func (h *OrderHandler) Place(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
    }

    ctx := c.Request().Context()
    tx, err := h.Orders.DB().BeginTx(ctx, nil)
    if err != nil {
        c.Logger().Errorf("orders: begin tx: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    lines, err := h.Carts.ListPricedTx(ctx, tx, userID)
    if err != nil {
        if errors.Is(err, repository.ErrEmptyCart) {
            return c.JSON(http.StatusBadRequest, echo.Map{"message": "cart is empty"})
        }
        c.Logger().Errorf("orders: read cart for user %d: %v", userID, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }

    // The only read of live prices; frozen into order_items below.
    total := 0.0
    for _, l := range lines {
        total += l.Price * float64(l.Quantity)
    }

    rec := &repository.OrderRecord{
        UserID:      userID,
        TotalAmount: total,
        Status:      model.OrderStatusPending,
    }
    if err := h.Orders.CreateTx(ctx, tx, rec); err != nil {
        c.Logger().Errorf("orders: create for user %d: %v", userID, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }

    items := make([]repository.OrderItemRecord, 0, len(lines))
    for _, l := range lines {
        items = append(items, repository.OrderItemRecord{
            OrderID:   rec.ID,
            ProductID: l.ProductID,
            Quantity:  l.Quantity,
            Price:     l.Price,
        })
    }
    if err := h.Orders.CreateItemsBulkTx(ctx, tx, items); err != nil {
        c.Logger().Errorf("orders: create items for order %d: %v", rec.ID, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }

    if _, err := h.Carts.DeleteByUserTx(ctx, tx, userID); err != nil {
        c.Logger().Errorf("orders: clear cart for user %d: %v", userID, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }

    if err := tx.Commit(); err != nil {
        c.Logger().Errorf("orders: commit for user %d: %v", userID, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }
    committed = true

    // Best-effort notification; a broker outage never fails the order.
    ev := queue.OrderPlacedEvent{
        OrderID:     rec.ID,
        UserID:      rec.UserID,
        TotalAmount: rec.TotalAmount,
        Status:      rec.Status,
        PlacedAt:    rec.CreatedAt.UTC().Format(time.RFC3339),
    }
    for _, it := range items {
        ev.Items = append(ev.Items, queue.OrderPlacedItem{
            ProductID: it.ProductID,
            Quantity:  it.Quantity,
            Price:     it.Price,
        })
    }
    go func() {
        pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()
        _ = queue_publisher.PublishOrderPlaced(pubCtx, ev)
    }()

    resp := placedOrderResp{
        ID:          rec.ID,
        UserID:      rec.UserID,
        TotalAmount: rec.TotalAmount,
        Status:      rec.Status,
        CreatedAt:   rec.CreatedAt,
        Items:       make([]placedItem, 0, len(items)),
    }
    for _, it := range items {
        resp.Items = append(resp.Items, placedItem{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price})
    }
    return c.JSON(http.StatusCreated, resp)
}

// ListMine handles GET /api/orders.  It returns the caller's orders
// with items and product detail, paginated and sorted through the
// shared query builder (newest first by default).
func (h *OrderHandler) ListMine(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
    }
    q := listQueryFrom(c)
    orders, total, err := h.Orders.ListByUser(c.Request().Context(), userID, q)
    if err != nil {
        c.Logger().Errorf("orders: list for user %d: %v", userID, err)
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
