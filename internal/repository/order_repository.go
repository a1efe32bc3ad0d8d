package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"
)

// OrderRepo provides persistence for orders and their items.  An order
// groups the lines purchased in one checkout; its items carry the price
// frozen at placement time.  Creation always happens inside a caller
// transaction together with clearing the cart, so the write methods are
// exposed as ...Tx variants.  All timestamp fields are stored in UTC.
type OrderRepo struct{ db *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *OrderRepo) DB() *sql.DB { return r.db }

// OrderRecord mirrors the schema of the orders table.  It is used by
// the repository when constructing or scanning rows.
type OrderRecord struct {
    ID          uint64
    UserID      uint64
    TotalAmount float64
    Status      string
    CreatedAt   time.Time
    UpdatedAt   time.Time
}

// OrderItemRecord mirrors the order_items table.  Only the fields
// needed for insertion are exposed; Price is the frozen copy of the
// product price at placement time.
type OrderItemRecord struct {
    OrderID   uint64
    ProductID uint64
    Quantity  uint32
    Price     float64
}

// CreateTx inserts a new order within the scope of an existing
// transaction.  It populates the generated ID and timestamps on the
// provided record.  The caller must commit or rollback the transaction.
// Status should be a valid enumeration member; placement always passes
// PENDING.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, rec *OrderRecord) error {
    const q = `INSERT INTO orders (user_id, total_amount, status) VALUES (?, ?, ?)`
    result, err := tx.ExecContext(ctx, q, rec.UserID, rec.TotalAmount, rec.Status)
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    rec.ID = uint64(id)
    // Query back the full row to populate timestamps and defaults
    const sel = `SELECT id, user_id, total_amount, status, created_at, updated_at FROM orders WHERE id = ?`
    return tx.QueryRowContext(ctx, sel, rec.ID).Scan(
        &rec.ID, &rec.UserID, &rec.TotalAmount, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt,
    )
}

// CreateItemsBulkTx inserts multiple order_items rows in a single
// statement.  The caller must supply the order ID in each record.
// Passing an empty slice has no effect and returns nil.
func (r *OrderRepo) CreateItemsBulkTx(ctx context.Context, tx *sql.Tx, items []OrderItemRecord) error {
    if len(items) == 0 {
        return nil
    }
    query := `INSERT INTO order_items (order_id, product_id, quantity, price) VALUES `
    args := make([]any, 0, len(items)*4)
    for i, it := range items {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?, ?)"
        args = append(args, it.OrderID, it.ProductID, it.Quantity, it.Price)
    }
    _, err := tx.ExecContext(ctx, query, args...)
    return err
}

// OrderItemDetail is one line of an order response: the frozen purchase
// facts plus current product detail for display.
type OrderItemDetail struct {
    ProductID uint64      `json:"productId"`
    Quantity  uint32      `json:"quantity"`
    Price     float64     `json:"price"`
    Product   CartProduct `json:"product"`
}

// OrderUser is the owning user's public summary attached to orders in
// the admin listing.
type OrderUser struct {
    ID    uint64 `json:"id"`
    Name  string `json:"name"`
    Email string `json:"email"`
}

// OrderDetail encapsulates an order along with its items and, for the
// admin listing, the owning user's public summary.
type OrderDetail struct {
    ID          uint64            `json:"id"`
    UserID      uint64            `json:"userId"`
    TotalAmount float64           `json:"totalAmount"`
    Status      string            `json:"status"`
    CreatedAt   time.Time         `json:"createdAt"`
    Items       []OrderItemDetail `json:"items"`
    User        *OrderUser        `json:"user,omitempty"`
}

// orderSortFields is the whitelist shared by the owner and admin
// listings.  Sorting on anything else falls back to newest first.
var orderSortFields = map[string]string{
    "createdat":    "o.created_at",
    "created_at":   "o.created_at",
    "totalamount":  "o.total_amount",
    "total_amount": "o.total_amount",
    "status":       "o.status",
}

// ListByUser returns a page of the user's orders, newest first by
// default, with items and product detail populated.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64, q ListQuery) ([]OrderDetail, int64, error) {
    q.Clamp()

    var total int64
    if err := r.db.QueryRowContext(ctx,
        "SELECT COUNT(*) FROM orders o WHERE o.user_id = ?", userID).Scan(&total); err != nil {
        return nil, 0, err
    }

    order := sortClause(q.Sort, orderSortFields, "o.created_at DESC")
    dataSQL := `SELECT o.id, o.user_id, o.total_amount, o.status, o.created_at
        FROM orders o
        WHERE o.user_id = ?
        ORDER BY ` + order + `
        LIMIT ? OFFSET ?`

    rows, err := r.db.QueryContext(ctx, dataSQL, userID, q.Limit, q.Offset())
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()

    details := make([]OrderDetail, 0, q.Limit)
    for rows.Next() {
        var d OrderDetail
        if err := rows.Scan(&d.ID, &d.UserID, &d.TotalAmount, &d.Status, &d.CreatedAt); err != nil {
            return nil, 0, err
        }
        d.Items = []OrderItemDetail{}
        details = append(details, d)
    }
    if err := rows.Err(); err != nil {
        return nil, 0, err
    }
    if err := r.populateItems(ctx, details); err != nil {
        return nil, 0, err
    }
    return details, total, nil
}

// ListAll returns a page over every order for administrators, each with
// its items and the owning user's public summary.
func (r *OrderRepo) ListAll(ctx context.Context, q ListQuery) ([]OrderDetail, int64, error) {
    q.Clamp()

    var total int64
    if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders o").Scan(&total); err != nil {
        return nil, 0, err
    }

    order := sortClause(q.Sort, orderSortFields, "o.created_at DESC")
    dataSQL := `SELECT o.id, o.user_id, o.total_amount, o.status, o.created_at,
            u.id, u.name, u.email
        FROM orders o
        JOIN users u ON u.id = o.user_id
        ORDER BY ` + order + `
        LIMIT ? OFFSET ?`

    rows, err := r.db.QueryContext(ctx, dataSQL, q.Limit, q.Offset())
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()

    details := make([]OrderDetail, 0, q.Limit)
    for rows.Next() {
        var d OrderDetail
        var u OrderUser
        if err := rows.Scan(&d.ID, &d.UserID, &d.TotalAmount, &d.Status, &d.CreatedAt,
            &u.ID, &u.Name, &u.Email); err != nil {
            return nil, 0, err
        }
        d.User = &u
        d.Items = []OrderItemDetail{}
        details = append(details, d)
    }
    if err := rows.Err(); err != nil {
        return nil, 0, err
    }
    if err := r.populateItems(ctx, details); err != nil {
        return nil, 0, err
    }
    return details, total, nil
}

// populateItems fetches the items for all listed orders in a single
// query and appends them to the matching detail by index.
func (r *OrderRepo) populateItems(ctx context.Context, details []OrderDetail) error {
    if len(details) == 0 {
        return nil
    }
    index := make(map[uint64]int, len(details))
    ids := make([]any, 0, len(details))
    placeholders := make([]string, 0, len(details))
    for i, d := range details {
        index[d.ID] = i
        ids = append(ids, d.ID)
        placeholders = append(placeholders, "?")
    }
    itemSQL := `SELECT oi.order_id, oi.product_id, oi.quantity, oi.price,
            p.id, p.name, p.description, p.price, p.category, p.stock, p.image_url
        FROM order_items oi
        JOIN products p ON p.id = oi.product_id
        WHERE oi.order_id IN (` + strings.Join(placeholders, ",") + `)
        ORDER BY oi.order_id, oi.id`
    rows, err := r.db.QueryContext(ctx, itemSQL, ids...)
    if err != nil {
        return err
    }
    defer rows.Close()
    for rows.Next() {
        var orderID uint64
        var it OrderItemDetail
        var img sql.NullString
        if err := rows.Scan(&orderID, &it.ProductID, &it.Quantity, &it.Price,
            &it.Product.ID, &it.Product.Name, &it.Product.Description, &it.Product.Price,
            &it.Product.Category, &it.Product.Stock, &img); err != nil {
            return err
        }
        if img.Valid {
            it.Product.ImageURL = &img.String
        }
        i, ok := index[orderID]
        if !ok {
            continue
        }
        details[i].Items = append(details[i].Items, it)
    }
    return rows.Err()
}

// GetDetail returns one order with its items and product detail.
// sql.ErrNoRows is returned when the order does not exist.
func (r *OrderRepo) GetDetail(ctx context.Context, id uint64) (OrderDetail, error) {
    var d OrderDetail
    err := r.db.QueryRowContext(ctx,
        "SELECT o.id, o.user_id, o.total_amount, o.status, o.created_at FROM orders o WHERE o.id = ?",
        id).Scan(&d.ID, &d.UserID, &d.TotalAmount, &d.Status, &d.CreatedAt)
    if err != nil {
        return OrderDetail{}, err
    }
    d.Items = []OrderItemDetail{}
    slice := []OrderDetail{d}
    if err := r.populateItems(ctx, slice); err != nil {
        return OrderDetail{}, err
    }
    return slice[0], nil
}

// UpdateStatus overwrites an order's status unconditionally and returns
// the updated order with its items.  sql.ErrNoRows is returned when no
// such order exists.  Status membership is validated by the caller; no
// transition graph is enforced.  The existence check and the update run
// in one transaction with the row locked, so a concurrent delete
// surfaces as sql.ErrNoRows rather than a half-applied update.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id uint64, status string) (OrderDetail, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return OrderDetail{}, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    // RowsAffected cannot distinguish a missing row from a no-op update,
    // so absence is detected by a locking select instead.
    var exists uint64
    if err := tx.QueryRowContext(ctx, "SELECT id FROM orders WHERE id=? FOR UPDATE", id).Scan(&exists); err != nil {
        return OrderDetail{}, err
    }
    if _, err := tx.ExecContext(ctx, "UPDATE orders SET status=? WHERE id=?", status, id); err != nil {
        return OrderDetail{}, err
    }
    if err := tx.Commit(); err != nil {
        return OrderDetail{}, err
    }
    committed = true
    return r.GetDetail(ctx, id)
}

// OrderIDsByUserTx returns the ids of every order owned by the user,
// read within the caller's transaction.  Used by the account deletion
// cascade to scope the order_items delete.
func (r *OrderRepo) OrderIDsByUserTx(ctx context.Context, tx *sql.Tx, userID uint64) ([]uint64, error) {
    rows, err := tx.QueryContext(ctx, "SELECT id FROM orders WHERE user_id=?", userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var ids []uint64
    for rows.Next() {
        var id uint64
        if err := rows.Scan(&id); err != nil {
            return nil, err
        }
        ids = append(ids, id)
    }
    return ids, rows.Err()
}

// DeleteItemsByOrderIDsTx removes the order_items rows of the given
// orders within the caller's transaction.  An empty id set is a no-op.
func (r *OrderRepo) DeleteItemsByOrderIDsTx(ctx context.Context, tx *sql.Tx, orderIDs []uint64) error {
    if len(orderIDs) == 0 {
        return nil
    }
    placeholders := make([]string, 0, len(orderIDs))
    args := make([]any, 0, len(orderIDs))
    for _, id := range orderIDs {
        placeholders = append(placeholders, "?")
        args = append(args, id)
    }
    _, err := tx.ExecContext(ctx,
        "DELETE FROM order_items WHERE order_id IN ("+strings.Join(placeholders, ",")+")", args...)
    return err
}

// DeleteByUserTx removes every order owned by the user within the
// caller's transaction.  Items must have been removed first.
func (r *OrderRepo) DeleteByUserTx(ctx context.Context, tx *sql.Tx, userID uint64) error {
    _, err := tx.ExecContext(ctx, "DELETE FROM orders WHERE user_id=?", userID)
    return err
}
