package model

import "time"

// Order statuses.  Creation always starts at PENDING; admins may move
// an order to any member of the set (no transition graph is enforced,
// matching the storefront's behaviour).  Unknown strings are rejected.
const (
    OrderStatusPending   = "PENDING"
    OrderStatusPaid      = "PAID"
    OrderStatusShipped   = "SHIPPED"
    OrderStatusCompleted = "COMPLETED"
    OrderStatusCancelled = "CANCELLED"
)

// ValidOrderStatus reports whether s is a member of the status set.
func ValidOrderStatus(s string) bool {
    switch s {
    case OrderStatusPending, OrderStatusPaid, OrderStatusShipped,
        OrderStatusCompleted, OrderStatusCancelled:
        return true
    }
    return false
}

// Order groups the items purchased in a single checkout.  Everything
// except Status is immutable after creation: TotalAmount is computed
// once from the cart at placement time and never recomputed.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – user who placed the order.
//  TotalAmount – sum of item price × quantity, frozen at placement.
//  Status      – state of the order (see constants above).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Order struct {
    ID          uint64    // orders.id
    UserID      uint64    // orders.user_id
    TotalAmount float64   // orders.total_amount (DECIMAL(10,2))
    Status      string    // orders.status
    CreatedAt   time.Time // orders.created_at
    UpdatedAt   time.Time // orders.updated_at
}

// OrderItem is an immutable, price-frozen record of a purchased
// quantity of one product.  Price is a copy of the product's price at
// the moment the order was placed; later catalog changes never touch
// it.  Rows are owned by their order and deleted with it.
//
// Fields:
//  ID        – primary key identifier.
//  OrderID   – owning order.
//  ProductID – product purchased.
//  Quantity  – purchased units.
//  Price     – unit price frozen at placement time.
//  CreatedAt – creation timestamp.
type OrderItem struct {
    ID        uint64    // order_items.id
    OrderID   uint64    // order_items.order_id
    ProductID uint64    // order_items.product_id
    Quantity  uint32    // order_items.quantity
    Price     float64   // order_items.price (DECIMAL(10,2))
    CreatedAt time.Time // order_items.created_at
}
