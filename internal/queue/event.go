// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderPlacedItem is one frozen line of a placed order as carried in the
// event payload.
type OrderPlacedItem struct {
    ProductID uint64  `json:"product_id"`
    Quantity  uint32  `json:"quantity"`
    Price     float64 `json:"price"`
}

// OrderPlacedEvent is published when a cart is successfully converted
// into an order.  It contains enough information for downstream
// consumers to log, notify, or trigger analytics without querying the
// primary database.
type OrderPlacedEvent struct {
    OrderID     uint64            `json:"order_id"`
    UserID      uint64            `json:"user_id"`
    TotalAmount float64           `json:"total_amount"`
    Status      string            `json:"status"`
    Items       []OrderPlacedItem `json:"items"`
    PlacedAt    string            `json:"placed_at"`
}
