package handler

import (
    "database/sql"
    "net/http"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/shopsmart/internal/config"
    "github.com/iliyamo/shopsmart/internal/repository"
    "github.com/iliyamo/shopsmart/internal/utils"
)

func testAuthConfig() config.Config {
    return config.Config{
        JWTSecret:    "test-secret",
        AccessTTLMin: 15,
        BcryptCost:   4, // minimum cost keeps the suite fast
    }
}

func userRow(id uint64, email, hash, role string) *sqlmock.Rows {
    now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
    return sqlmock.NewRows([]string{
        "id", "name", "email", "password_hash", "role", "created_at", "updated_at",
    }).AddRow(id, "Ada", email, hash, role, now, now)
}

func TestSignupDefaultsRoleToUser(t *testing.T) {
    db, mock := newMockDB(t)
    h := NewAuthHandler(testAuthConfig(), repository.NewUserRepo(db))

    mock.ExpectExec("INSERT INTO users").
        WithArgs("Ada", "ada@example.com", sqlmock.AnyArg(), "USER").
        WillReturnResult(sqlmock.NewResult(3, 1))

    c, rec := newJSONContext(t, http.MethodPost, "/api/auth/signup",
        `{"name":"Ada","email":"Ada@Example.com","password":"s3cret","role":"wizard"}`)
    require.NoError(t, h.Signup(c))

    assert.Equal(t, http.StatusCreated, rec.Code)
    body := decodeBody(t, rec)
    assert.Equal(t, "USER", body["role"])
    assert.Equal(t, "ada@example.com", body["email"])
    assert.NotEmpty(t, body["token"])
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignupDuplicateEmail(t *testing.T) {
    db, mock := newMockDB(t)
    h := NewAuthHandler(testAuthConfig(), repository.NewUserRepo(db))

    mock.ExpectExec("INSERT INTO users").
        WillReturnError(repository.ErrEmailExists)

    c, rec := newJSONContext(t, http.MethodPost, "/api/auth/signup",
        `{"name":"Ada","email":"ada@example.com","password":"s3cret"}`)
    require.NoError(t, h.Signup(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.Equal(t, "user already exists", decodeBody(t, rec)["message"])
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginWrongPassword(t *testing.T) {
    db, mock := newMockDB(t)
    h := NewAuthHandler(testAuthConfig(), repository.NewUserRepo(db))

    hash, err := utils.HashPassword("right-password", 4)
    require.NoError(t, err)
    mock.ExpectQuery("FROM users WHERE email").
        WithArgs("ada@example.com").
        WillReturnRows(userRow(3, "ada@example.com", hash, "USER"))

    c, rec := newJSONContext(t, http.MethodPost, "/api/auth/login",
        `{"email":"ada@example.com","password":"wrong-password"}`)
    require.NoError(t, h.Login(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.Equal(t, "invalid credentials", decodeBody(t, rec)["message"])
}

func TestLoginUnknownEmailLooksLikeWrongPassword(t *testing.T) {
    db, mock := newMockDB(t)
    h := NewAuthHandler(testAuthConfig(), repository.NewUserRepo(db))

    mock.ExpectQuery("FROM users WHERE email").
        WithArgs("ghost@example.com").
        WillReturnError(sql.ErrNoRows)

    c, rec := newJSONContext(t, http.MethodPost, "/api/auth/login",
        `{"email":"ghost@example.com","password":"whatever"}`)
    require.NoError(t, h.Login(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.Equal(t, "invalid credentials", decodeBody(t, rec)["message"])
}

func TestLoginSuccessIssuesToken(t *testing.T) {
    db, mock := newMockDB(t)
    h := NewAuthHandler(testAuthConfig(), repository.NewUserRepo(db))

    hash, err := utils.HashPassword("s3cret", 4)
    require.NoError(t, err)
    mock.ExpectQuery("FROM users WHERE email").
        WithArgs("ada@example.com").
        WillReturnRows(userRow(3, "ada@example.com", hash, "ADMIN"))

    c, rec := newJSONContext(t, http.MethodPost, "/api/auth/login",
        `{"email":"Ada@Example.com","password":"s3cret"}`)
    require.NoError(t, h.Login(c))

    assert.Equal(t, http.StatusOK, rec.Code)
    body := decodeBody(t, rec)
    assert.Equal(t, float64(3), body["id"])
    assert.Equal(t, "ADMIN", body["role"])
    assert.NotEmpty(t, body["token"])
}

func TestMeUnresolvableSubjectIs401(t *testing.T) {
    db, mock := newMockDB(t)
    h := NewAuthHandler(testAuthConfig(), repository.NewUserRepo(db))

    mock.ExpectQuery("FROM users WHERE id").
        WithArgs(uint64(3)).
        WillReturnError(sql.ErrNoRows)

    c, rec := newJSONContext(t, http.MethodGet, "/api/auth/me", "")
    c.Set("user_id", float64(3))
    require.NoError(t, h.Me(c))
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
