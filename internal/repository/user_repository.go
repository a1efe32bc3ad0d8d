package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/iliyamo/shopsmart/internal/model"
    "github.com/iliyamo/shopsmart/internal/utils"
)

// UserRepo provides persistence for the `users` table plus the admin
// listing and the account-deletion steps.  The destructive methods are
// exposed as ...Tx variants taking a *sql.Tx so the handler can compose
// the full cascade into one atomic unit.
type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *UserRepo) DB() *sql.DB { return r.db }

// Create inserts a user and returns its ID.  The email is normalized to
// lower case before insertion; a duplicate-key failure is mapped to
// ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, name, email, password string, role model.Role, cost int) (uint64, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    hash, err := utils.HashPassword(password, cost)
    if err != nil {
        return 0, err
    }
    res, err := r.db.ExecContext(ctx,
        "INSERT INTO users (name, email, password_hash, role) VALUES (?,?,?,?)",
        name, email, hash, string(role))
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return 0, ErrEmailExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    var u model.User
    err := r.db.QueryRowContext(ctx,
        "SELECT id,name,email,password_hash,role,created_at,updated_at FROM users WHERE email=? LIMIT 1",
        email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
    return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
    var u model.User
    err := r.db.QueryRowContext(ctx,
        "SELECT id,name,email,password_hash,role,created_at,updated_at FROM users WHERE id=? LIMIT 1",
        id).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
    return u, err
}

// UpdateRole overwrites a user's role and returns the updated public
// fields.  sql.ErrNoRows is returned when no such user exists.  Role
// validity is checked by the caller.
func (r *UserRepo) UpdateRole(ctx context.Context, id uint64, role model.Role) (model.User, error) {
    // RowsAffected is 0 both for a missing row and for a no-op update,
    // so absence is detected by the follow-up select instead.
    if _, err := r.db.ExecContext(ctx, "UPDATE users SET role=? WHERE id=?", string(role), id); err != nil {
        return model.User{}, err
    }
    return r.GetByID(ctx, id)
}

// UserSummary is a row of the admin user listing: the user's public
// fields annotated with how many orders and cart lines they own.  The
// password hash is never selected.
type UserSummary struct {
    ID         uint64    `json:"id"`
    Name       string    `json:"name"`
    Email      string    `json:"email"`
    Role       string    `json:"role"`
    CreatedAt  time.Time `json:"createdAt"`
    OrderCount int64     `json:"orderCount"`
    CartCount  int64     `json:"cartCount"`
}

// List returns a page of users with their order and cart-line counts.
// Supported ListQuery fields: Role (exact filter), Sort over created_at /
// name / email / role, pagination.  Default order is newest first.
func (r *UserRepo) List(ctx context.Context, q ListQuery) ([]UserSummary, int64, error) {
    q.Clamp()

    var cr criteria
    if q.Role != "" {
        cr.add("u.role = ?", q.Role)
    }
    cond := cr.clause()

    var total int64
    countSQL := `SELECT COUNT(*) FROM users u WHERE ` + cond
    if err := r.db.QueryRowContext(ctx, countSQL, cr.args...).Scan(&total); err != nil {
        return nil, 0, err
    }

    order := sortClause(q.Sort, map[string]string{
        "createdat":  "u.created_at",
        "created_at": "u.created_at",
        "name":       "u.name",
        "email":      "u.email",
        "role":       "u.role",
    }, "u.created_at DESC")

    dataSQL := `SELECT
            u.id, u.name, u.email, u.role, u.created_at,
            (SELECT COUNT(*) FROM orders o WHERE o.user_id = u.id)    AS order_count,
            (SELECT COUNT(*) FROM cart_items ci WHERE ci.user_id = u.id) AS cart_count
        FROM users u
        WHERE ` + cond + `
        ORDER BY ` + order + `
        LIMIT ? OFFSET ?`

    args := append(append([]any{}, cr.args...), q.Limit, q.Offset())
    rows, err := r.db.QueryContext(ctx, dataSQL, args...)
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()

    out := make([]UserSummary, 0, q.Limit)
    for rows.Next() {
        var s UserSummary
        if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Role, &s.CreatedAt, &s.OrderCount, &s.CartCount); err != nil {
            return nil, 0, err
        }
        out = append(out, s)
    }
    if err := rows.Err(); err != nil {
        return nil, 0, err
    }
    return out, total, nil
}

// DeleteTx removes the user row itself within the caller's transaction.
// It is the final step of the account deletion cascade; dependent cart
// and order rows must already have been removed in the same transaction.
// sql.ErrNoRows is returned when the user does not exist.
func (r *UserRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
    res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
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
