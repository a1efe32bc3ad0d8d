package repository

import (
    "context"
    "database/sql"
    "errors"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/shopsmart/internal/model"
)

func TestUserCreateNormalizesEmail(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectExec("INSERT INTO users").
        WithArgs("Ada", "ada@example.com", sqlmock.AnyArg(), "USER").
        WillReturnResult(sqlmock.NewResult(3, 1))

    repo := NewUserRepo(db)
    id, err := repo.Create(context.Background(), "Ada", "  Ada@Example.COM ", "s3cret", model.RoleUser, 4)
    require.NoError(t, err)
    assert.Equal(t, uint64(3), id)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateDuplicateEmail(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectExec("INSERT INTO users").
        WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'ada@example.com' for key 'users.email'"))

    repo := NewUserRepo(db)
    _, err = repo.Create(context.Background(), "Ada", "ada@example.com", "s3cret", model.RoleUser, 4)
    assert.ErrorIs(t, err, ErrEmailExists)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserListCountsAndRoleFilter(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

    mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users u WHERE u.role = \?`).
        WithArgs("ADMIN").
        WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
    mock.ExpectQuery("FROM users u").
        WithArgs("ADMIN", 10, 0).
        WillReturnRows(sqlmock.NewRows([]string{
            "id", "name", "email", "role", "created_at", "order_count", "cart_count",
        }).AddRow(2, "Bo", "bo@example.com", "ADMIN", now, 4, 1))

    repo := NewUserRepo(db)
    users, total, err := repo.List(context.Background(), ListQuery{Role: "ADMIN"})
    require.NoError(t, err)
    assert.Equal(t, int64(1), total)
    require.Len(t, users, 1)
    assert.Equal(t, int64(4), users[0].OrderCount)
    assert.Equal(t, int64(1), users[0].CartCount)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDeleteTxMissingRow(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectExec("DELETE FROM users WHERE id").
        WithArgs(uint64(99)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectRollback()

    repo := NewUserRepo(db)
    tx, err := db.Begin()
    require.NoError(t, err)
    err = repo.DeleteTx(context.Background(), tx, 99)
    assert.ErrorIs(t, err, sql.ErrNoRows)
    require.NoError(t, tx.Rollback())
    assert.NoError(t, mock.ExpectationsWereMet())
}
