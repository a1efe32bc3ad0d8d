package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/shopsmart/internal/model"
)

// CartRepo provides CRUD operations for cart lines.  A cart is the set
// of cart_items rows belonging to one user; the table carries a unique
// key on (user_id, product_id) so a product appears at most once per
// cart.  Prices are never stored here: a line always reflects the
// product's live price until the order engine freezes it.
type CartRepo struct{ db *sql.DB }

func NewCartRepo(db *sql.DB) *CartRepo { return &CartRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *CartRepo) DB() *sql.DB { return r.db }

// CartProduct is the product detail embedded in a cart line response.
type CartProduct struct {
    ID          uint64  `json:"id"`
    Name        string  `json:"name"`
    Description string  `json:"description"`
    Price       float64 `json:"price"`
    Category    string  `json:"category"`
    Stock       uint32  `json:"stock"`
    ImageURL    *string `json:"imageUrl,omitempty"`
}

// CartLineDetail is a cart line joined with its product, as returned to
// the client.
type CartLineDetail struct {
    ID        uint64      `json:"id"`
    UserID    uint64      `json:"userId"`
    ProductID uint64      `json:"productId"`
    Quantity  uint32      `json:"quantity"`
    Product   CartProduct `json:"product"`
}

const cartDetailSelect = `SELECT ci.id, ci.user_id, ci.product_id, ci.quantity,
           p.id, p.name, p.description, p.price, p.category, p.stock, p.image_url
    FROM cart_items ci
    JOIN products p ON p.id = ci.product_id`

func scanCartDetail(row interface{ Scan(...any) error }) (CartLineDetail, error) {
    var d CartLineDetail
    var img sql.NullString
    err := row.Scan(&d.ID, &d.UserID, &d.ProductID, &d.Quantity,
        &d.Product.ID, &d.Product.Name, &d.Product.Description, &d.Product.Price,
        &d.Product.Category, &d.Product.Stock, &img)
    if err != nil {
        return CartLineDetail{}, err
    }
    if img.Valid {
        d.Product.ImageURL = &img.String
    }
    return d, nil
}

// ListByUser returns the user's cart lines joined with product detail,
// in insertion order.  An empty cart yields an empty slice.
func (r *CartRepo) ListByUser(ctx context.Context, userID uint64) ([]CartLineDetail, error) {
    rows, err := r.db.QueryContext(ctx, cartDetailSelect+" WHERE ci.user_id = ? ORDER BY ci.id", userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]CartLineDetail, 0)
    for rows.Next() {
        d, err := scanCartDetail(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// GetDetail returns a single cart line joined with its product.
func (r *CartRepo) GetDetail(ctx context.Context, id uint64) (CartLineDetail, error) {
    row := r.db.QueryRowContext(ctx, cartDetailSelect+" WHERE ci.id = ? LIMIT 1", id)
    return scanCartDetail(row)
}

// GetOwned fetches the raw cart line after verifying it belongs to the
// given user.  sql.ErrNoRows when the line is absent, ErrForbidden when
// it belongs to someone else.  Existence is resolved before ownership
// so callers translate absent ids to 404 and foreign ids to 403.
func (r *CartRepo) GetOwned(ctx context.Context, id, userID uint64) (model.CartItem, error) {
    var ci model.CartItem
    err := r.db.QueryRowContext(ctx,
        "SELECT id, user_id, product_id, quantity, created_at, updated_at FROM cart_items WHERE id=? LIMIT 1",
        id).Scan(&ci.ID, &ci.UserID, &ci.ProductID, &ci.Quantity, &ci.CreatedAt, &ci.UpdatedAt)
    if err != nil {
        return model.CartItem{}, err
    }
    if ci.UserID != userID {
        return model.CartItem{}, ErrForbidden
    }
    return ci, nil
}

// Add inserts a cart line or, when one already exists for this user and
// product, adds the requested quantity onto it.  The unique key on
// (user_id, product_id) makes the merge a single upsert statement; the
// LAST_INSERT_ID(id) trick surfaces the row id on the merge path too.
// The resulting line joined with its product is returned.
func (r *CartRepo) Add(ctx context.Context, userID, productID uint64, quantity uint32) (CartLineDetail, bool, error) {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO cart_items (user_id, product_id, quantity) VALUES (?,?,?)
         ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity), id = LAST_INSERT_ID(id)`,
        userID, productID, quantity)
    if err != nil {
        return CartLineDetail{}, false, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return CartLineDetail{}, false, err
    }
    // MySQL reports 1 affected row for an insert and 2 for an upsert merge.
    affected, err := res.RowsAffected()
    if err != nil {
        return CartLineDetail{}, false, err
    }
    created := affected == 1
    detail, err := r.GetDetail(ctx, uint64(id))
    if err != nil {
        return CartLineDetail{}, false, err
    }
    return detail, created, nil
}

// UpdateQuantity overwrites a line's quantity and returns the updated
// line with product detail.  Existence and ownership must already have
// been verified by the caller.
func (r *CartRepo) UpdateQuantity(ctx context.Context, id uint64, quantity uint32) (CartLineDetail, error) {
    if _, err := r.db.ExecContext(ctx, "UPDATE cart_items SET quantity=? WHERE id=?", quantity, id); err != nil {
        return CartLineDetail{}, err
    }
    return r.GetDetail(ctx, id)
}

// Remove deletes a single cart line.
func (r *CartRepo) Remove(ctx context.Context, id uint64) error {
    _, err := r.db.ExecContext(ctx, "DELETE FROM cart_items WHERE id=?", id)
    return err
}

// PricedLine is a cart line paired with the product's current price,
// read inside the order placement transaction.  This is the single
// point where live catalog prices enter an order; the values are frozen
// into order_items immediately afterwards.
type PricedLine struct {
    ProductID uint64
    Quantity  uint32
    Price     float64
}

// ListPricedTx reads the user's cart lines with current product prices
// within the given transaction, in insertion order.  ErrEmptyCart is
// returned when the user has no lines, so placement aborts before any
// write.
func (r *CartRepo) ListPricedTx(ctx context.Context, tx *sql.Tx, userID uint64) ([]PricedLine, error) {
    rows, err := tx.QueryContext(ctx,
        `SELECT ci.product_id, ci.quantity, p.price
         FROM cart_items ci
         JOIN products p ON p.id = ci.product_id
         WHERE ci.user_id = ?
         ORDER BY ci.id`, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []PricedLine
    for rows.Next() {
        var l PricedLine
        if err := rows.Scan(&l.ProductID, &l.Quantity, &l.Price); err != nil {
            return nil, err
        }
        out = append(out, l)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    if len(out) == 0 {
        return nil, ErrEmptyCart
    }
    return out, nil
}

// DeleteByUserTx removes every cart line owned by the user within the
// given transaction.  Used by order placement (clearing the cart) and
// by the account deletion cascade.
func (r *CartRepo) DeleteByUserTx(ctx context.Context, tx *sql.Tx, userID uint64) (int64, error) {
    res, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id=?", userID)
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}
