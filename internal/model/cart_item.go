package model

import "time"

// CartItem is a pending, price-unfrozen intent to purchase a quantity
// of one product.  The `cart_items` table holds a unique key on
// (user_id, product_id): adding a product twice merges quantities
// instead of creating a second row.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the cart line.
//  ProductID – product being purchased.
//  Quantity  – requested units, always >= 1.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type CartItem struct {
    ID        uint64    // cart_items.id
    UserID    uint64    // cart_items.user_id
    ProductID uint64    // cart_items.product_id
    Quantity  uint32    // cart_items.quantity
    CreatedAt time.Time // cart_items.created_at
    UpdatedAt time.Time // cart_items.updated_at
}
