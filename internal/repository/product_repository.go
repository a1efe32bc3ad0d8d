package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/shopsmart/internal/model"
)

// ProductRepo provides CRUD for the `products` table and the public
// catalog listing.  The order engine only ever reads from it; writes
// come from the admin endpoints.
type ProductRepo struct{ db *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{db: db} }

const productColumns = "id, name, description, price, category, stock, image_url, created_at, updated_at"

func scanProduct(row interface{ Scan(...any) error }) (model.Product, error) {
    var p model.Product
    var img sql.NullString
    err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Stock, &img, &p.CreatedAt, &p.UpdatedAt)
    if err != nil {
        return model.Product{}, err
    }
    if img.Valid {
        p.ImageURL = &img.String
    }
    return p, nil
}

// GetByID fetches one product.  sql.ErrNoRows is returned when absent.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (model.Product, error) {
    row := r.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id=? LIMIT 1", id)
    return scanProduct(row)
}

// Create inserts a product and returns the stored row.
func (r *ProductRepo) Create(ctx context.Context, p model.Product) (model.Product, error) {
    res, err := r.db.ExecContext(ctx,
        "INSERT INTO products (name, description, price, category, stock, image_url) VALUES (?,?,?,?,?,?)",
        p.Name, p.Description, p.Price, p.Category, p.Stock, p.ImageURL)
    if err != nil {
        return model.Product{}, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return model.Product{}, err
    }
    return r.GetByID(ctx, uint64(id))
}

// Update overwrites the mutable columns of a product and returns the
// stored row.  sql.ErrNoRows is returned when the product is absent.
func (r *ProductRepo) Update(ctx context.Context, id uint64, p model.Product) (model.Product, error) {
    if _, err := r.db.ExecContext(ctx,
        "UPDATE products SET name=?, description=?, price=?, category=?, stock=?, image_url=? WHERE id=?",
        p.Name, p.Description, p.Price, p.Category, p.Stock, p.ImageURL, id); err != nil {
        return model.Product{}, err
    }
    return r.GetByID(ctx, id)
}

// Delete removes a product.  sql.ErrNoRows is returned when absent.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id=?", id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return sql.ErrNoRows
    }
    return nil
}

// List returns a page of products.  Supported ListQuery fields: Search
// (name and description, case-insensitive), Category (exact), MinPrice /
// MaxPrice (inclusive range), Sort over price / name / createdAt, and
// pagination.  Default order is newest first.
func (r *ProductRepo) List(ctx context.Context, q ListQuery) ([]model.Product, int64, error) {
    q.Clamp()

    var cr criteria
    cr.addSearch(q.Search, "name", "description")
    if q.Category != "" {
        cr.add("category = ?", q.Category)
    }
    if q.MinPrice != nil {
        cr.add("price >= ?", *q.MinPrice)
    }
    if q.MaxPrice != nil {
        cr.add("price <= ?", *q.MaxPrice)
    }
    cond := cr.clause()

    var total int64
    if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products WHERE "+cond, cr.args...).Scan(&total); err != nil {
        return nil, 0, err
    }

    order := sortClause(q.Sort, map[string]string{
        "price":      "price",
        "name":       "name",
        "stock":      "stock",
        "category":   "category",
        "createdat":  "created_at",
        "created_at": "created_at",
    }, "created_at DESC")

    dataSQL := "SELECT " + productColumns + " FROM products WHERE " + cond +
        " ORDER BY " + order + " LIMIT ? OFFSET ?"
    args := append(append([]any{}, cr.args...), q.Limit, q.Offset())

    rows, err := r.db.QueryContext(ctx, dataSQL, args...)
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()

    out := make([]model.Product, 0, q.Limit)
    for rows.Next() {
        p, err := scanProduct(rows)
        if err != nil {
            return nil, 0, err
        }
        out = append(out, p)
    }
    if err := rows.Err(); err != nil {
        return nil, 0, err
    }
    return out, total, nil
}
