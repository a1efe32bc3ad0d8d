package model

import "time"

// Product is a row of the `products` table.  The order and cart
// engines treat products as a read-only price/stock source; the
// catalog itself is maintained through the admin endpoints.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name.
//  Description – free-form description text.
//  Price       – current unit price.  Cart lines always reflect this
//                live value; order items freeze a copy of it.
//  Category    – coarse grouping used for filtering.
//  Stock       – units on hand.  Informational only: no reservation
//                or decrement happens at order time.
//  ImageURL    – optional image location (nullable).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Product struct {
    ID          uint64    // products.id
    Name        string    // products.name
    Description string    // products.description
    Price       float64   // products.price (DECIMAL(10,2))
    Category    string    // products.category
    Stock       uint32    // products.stock
    ImageURL    *string   // products.image_url (nullable)
    CreatedAt   time.Time // products.created_at
    UpdatedAt   time.Time // products.updated_at
}
