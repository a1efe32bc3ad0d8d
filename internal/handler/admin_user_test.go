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

func newUserAdminHandler(t *testing.T) (*UserAdminHandler, sqlmock.Sqlmock) {
    db, mock := newMockDB(t)
    h := NewUserAdminHandler(
        repository.NewUserRepo(db),
        repository.NewCartRepo(db),
        repository.NewOrderRepo(db),
    )
    return h, mock
}

func TestDeleteUserSelfGuard(t *testing.T) {
    h, mock := newUserAdminHandler(t)

    c, rec := newJSONContext(t, http.MethodDelete, "/api/users/1", "")
    c.SetParamNames("id")
    c.SetParamValues("1")
    c.Set("user_id", float64(1))

    require.NoError(t, h.Delete(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.Equal(t, "cannot delete your own account", decodeBody(t, rec)["message"])
    assert.NoError(t, mock.ExpectationsWereMet(), "self-deletion is rejected before any database work")
}

func TestDeleteUserCascades(t *testing.T) {
    h, mock := newUserAdminHandler(t)

    mock.ExpectBegin()
    mock.ExpectExec("DELETE FROM cart_items WHERE user_id").
        WithArgs(uint64(2)).
        WillReturnResult(sqlmock.NewResult(0, 3))
    mock.ExpectQuery("SELECT id FROM orders WHERE user_id").
        WithArgs(uint64(2)).
        WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10).AddRow(11))
    mock.ExpectExec(`DELETE FROM order_items WHERE order_id IN \(\?,\?\)`).
        WithArgs(uint64(10), uint64(11)).
        WillReturnResult(sqlmock.NewResult(0, 5))
    mock.ExpectExec("DELETE FROM orders WHERE user_id").
        WithArgs(uint64(2)).
        WillReturnResult(sqlmock.NewResult(0, 2))
    mock.ExpectExec("DELETE FROM users WHERE id").
        WithArgs(uint64(2)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    c, rec := newJSONContext(t, http.MethodDelete, "/api/users/2", "")
    c.SetParamNames("id")
    c.SetParamValues("2")
    c.Set("user_id", float64(1))

    require.NoError(t, h.Delete(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUserWithoutOrders(t *testing.T) {
    h, mock := newUserAdminHandler(t)

    // No orders means the order_items delete is skipped entirely.
    mock.ExpectBegin()
    mock.ExpectExec("DELETE FROM cart_items WHERE user_id").
        WithArgs(uint64(2)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectQuery("SELECT id FROM orders WHERE user_id").
        WithArgs(uint64(2)).
        WillReturnRows(sqlmock.NewRows([]string{"id"}))
    mock.ExpectExec("DELETE FROM orders WHERE user_id").
        WithArgs(uint64(2)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectExec("DELETE FROM users WHERE id").
        WithArgs(uint64(2)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    c, rec := newJSONContext(t, http.MethodDelete, "/api/users/2", "")
    c.SetParamNames("id")
    c.SetParamValues("2")
    c.Set("user_id", float64(1))

    require.NoError(t, h.Delete(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUserMissingIs404(t *testing.T) {
    h, mock := newUserAdminHandler(t)

    mock.ExpectBegin()
    mock.ExpectExec("DELETE FROM cart_items WHERE user_id").
        WithArgs(uint64(99)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectQuery("SELECT id FROM orders WHERE user_id").
        WithArgs(uint64(99)).
        WillReturnRows(sqlmock.NewRows([]string{"id"}))
    mock.ExpectExec("DELETE FROM orders WHERE user_id").
        WithArgs(uint64(99)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectExec("DELETE FROM users WHERE id").
        WithArgs(uint64(99)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectRollback()

    c, rec := newJSONContext(t, http.MethodDelete, "/api/users/99", "")
    c.SetParamNames("id")
    c.SetParamValues("99")
    c.Set("user_id", float64(1))

    require.NoError(t, h.Delete(c))
    assert.Equal(t, http.StatusNotFound, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUserRollsBackMidCascade(t *testing.T) {
    h, mock := newUserAdminHandler(t)

    mock.ExpectBegin()
    mock.ExpectExec("DELETE FROM cart_items WHERE user_id").
        WithArgs(uint64(2)).
        WillReturnResult(sqlmock.NewResult(0, 3))
    mock.ExpectQuery("SELECT id FROM orders WHERE user_id").
        WithArgs(uint64(2)).
        WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
    mock.ExpectExec("DELETE FROM order_items WHERE order_id IN").
        WillReturnError(errors.New("lock wait timeout"))
    mock.ExpectRollback()

    c, rec := newJSONContext(t, http.MethodDelete, "/api/users/2", "")
    c.SetParamNames("id")
    c.SetParamValues("2")
    c.Set("user_id", float64(1))

    require.NoError(t, h.Delete(c))
    assert.Equal(t, http.StatusInternalServerError, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRoleRejectsUnknownRole(t *testing.T) {
    h, mock := newUserAdminHandler(t)

    c, rec := newJSONContext(t, http.MethodPut, "/api/users/2/role", `{"role":"ROOT"}`)
    c.SetParamNames("id")
    c.SetParamValues("2")

    require.NoError(t, h.UpdateRole(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.Equal(t, "invalid role", decodeBody(t, rec)["message"])
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRoleNormalizesCase(t *testing.T) {
    h, mock := newUserAdminHandler(t)
    now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

    mock.ExpectExec("UPDATE users SET role").
        WithArgs("ADMIN", uint64(2)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectQuery("FROM users WHERE id").
        WithArgs(uint64(2)).
        WillReturnRows(sqlmock.NewRows([]string{
            "id", "name", "email", "password_hash", "role", "created_at", "updated_at",
        }).AddRow(2, "Bo", "bo@example.com", "x", "ADMIN", now, now))

    c, rec := newJSONContext(t, http.MethodPut, "/api/users/2/role", `{"role":" admin "}`)
    c.SetParamNames("id")
    c.SetParamValues("2")

    require.NoError(t, h.UpdateRole(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, "ADMIN", decodeBody(t, rec)["role"])
    assert.NoError(t, mock.ExpectationsWereMet())
}
