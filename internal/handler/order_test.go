package handler

import (
    "errors"
    "net/http"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/shopsmart/internal/repository"
)

func pricedRows() *sqlmock.Rows {
    return sqlmock.NewRows([]string{"product_id", "quantity", "price"})
}

func TestPlaceOrderFreezesPricesAndClearsCart(t *testing.T) {
    db, mock := newMockDB(t)
    now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT ci.product_id, ci.quantity, p.price").
        WithArgs(uint64(1)).
        WillReturnRows(pricedRows().AddRow(5, 2, 199.99))
    mock.ExpectExec("INSERT INTO orders").
        WithArgs(uint64(1), 399.98, "PENDING").
        WillReturnResult(sqlmock.NewResult(7, 1))
    mock.ExpectQuery("SELECT id, user_id, total_amount, status, created_at, updated_at FROM orders").
        WithArgs(uint64(7)).
        WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "total_amount", "status", "created_at", "updated_at"}).
            AddRow(7, 1, 399.98, "PENDING", now, now))
    mock.ExpectExec("INSERT INTO order_items").
        WithArgs(uint64(7), uint64(5), uint32(2), 199.99).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec("DELETE FROM cart_items WHERE user_id").
        WithArgs(uint64(1)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    h := NewOrderHandler(repository.NewCartRepo(db), repository.NewOrderRepo(db))
    c, rec := newJSONContext(t, http.MethodPost, "/api/orders", "")
    c.Set("user_id", float64(1))

    require.NoError(t, h.Place(c))
    assert.Equal(t, http.StatusCreated, rec.Code)

    body := decodeBody(t, rec)
    assert.Equal(t, float64(7), body["id"])
    assert.InDelta(t, 399.98, body["totalAmount"], 1e-9)
    assert.Equal(t, "PENDING", body["status"])
    items, ok := body["items"].([]any)
    require.True(t, ok)
    require.Len(t, items, 1)
    line := items[0].(map[string]any)
    assert.Equal(t, float64(5), line["productId"])
    assert.Equal(t, float64(2), line["quantity"])
    assert.InDelta(t, 199.99, line["price"], 1e-9)

    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrderEmptyCart(t *testing.T) {
    db, mock := newMockDB(t)

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT ci.product_id, ci.quantity, p.price").
        WithArgs(uint64(1)).
        WillReturnRows(pricedRows())
    mock.ExpectRollback()

    h := NewOrderHandler(repository.NewCartRepo(db), repository.NewOrderRepo(db))
    c, rec := newJSONContext(t, http.MethodPost, "/api/orders", "")
    c.Set("user_id", float64(1))

    require.NoError(t, h.Place(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.Equal(t, "cart is empty", decodeBody(t, rec)["message"])
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrderRollsBackWhenItemInsertFails(t *testing.T) {
    db, mock := newMockDB(t)
    now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT ci.product_id, ci.quantity, p.price").
        WithArgs(uint64(1)).
        WillReturnRows(pricedRows().AddRow(5, 2, 199.99))
    mock.ExpectExec("INSERT INTO orders").
        WithArgs(uint64(1), 399.98, "PENDING").
        WillReturnResult(sqlmock.NewResult(7, 1))
    mock.ExpectQuery("SELECT id, user_id, total_amount, status, created_at, updated_at FROM orders").
        WithArgs(uint64(7)).
        WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "total_amount", "status", "created_at", "updated_at"}).
            AddRow(7, 1, 399.98, "PENDING", now, now))
    mock.ExpectExec("INSERT INTO order_items").
        WillReturnError(errors.New("disk full"))
    // No cart delete and no commit may follow the failure; the deferred
    // rollback undoes the order insert so the cart stays intact.
    mock.ExpectRollback()

    h := NewOrderHandler(repository.NewCartRepo(db), repository.NewOrderRepo(db))
    c, rec := newJSONContext(t, http.MethodPost, "/api/orders", "")
    c.Set("user_id", float64(1))

    require.NoError(t, h.Place(c))
    assert.Equal(t, http.StatusInternalServerError, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrderRejectsMissingIdentity(t *testing.T) {
    db, _ := newMockDB(t)
    h := NewOrderHandler(repository.NewCartRepo(db), repository.NewOrderRepo(db))
    c, rec := newJSONContext(t, http.MethodPost, "/api/orders", "")

    require.NoError(t, h.Place(c))
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListMinePagination(t *testing.T) {
    db, mock := newMockDB(t)

    // 23 orders at the default limit of 10 means page 3 holds the tail.
    mock.ExpectQuery(`SELECT COUNT\(\*\) FROM orders o WHERE o.user_id`).
        WithArgs(uint64(1)).
        WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(23))
    now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
    rows := sqlmock.NewRows([]string{"id", "user_id", "total_amount", "status", "created_at"})
    for id := 3; id >= 1; id-- {
        rows.AddRow(id, 1, 10.0, "PENDING", now)
    }
    mock.ExpectQuery("SELECT o.id, o.user_id, o.total_amount, o.status, o.created_at").
        WithArgs(uint64(1), 10, 20).
        WillReturnRows(rows)
    mock.ExpectQuery("FROM order_items oi").
        WithArgs(uint64(3), uint64(2), uint64(1)).
        WillReturnRows(sqlmock.NewRows([]string{
            "order_id", "product_id", "quantity", "price",
            "p.id", "p.name", "p.description", "p.price", "p.category", "p.stock", "p.image_url",
        }))

    h := NewOrderHandler(repository.NewCartRepo(db), repository.NewOrderRepo(db))
    c, rec := newJSONContext(t, http.MethodGet, "/api/orders?page=3", "")
    c.Set("user_id", float64(1))

    require.NoError(t, h.ListMine(c))
    assert.Equal(t, http.StatusOK, rec.Code)

    body := decodeBody(t, rec)
    assert.Equal(t, float64(3), body["page"])
    assert.Equal(t, float64(3), body["pages"])
    assert.Equal(t, float64(23), body["total"])
    assert.Len(t, body["orders"].([]any), 3)
    assert.NoError(t, mock.ExpectationsWereMet())
}
