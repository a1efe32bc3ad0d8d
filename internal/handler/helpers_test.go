package handler

import (
    "database/sql"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/require"
)

// newMockDB returns a sqlmock-backed handle that tests close themselves.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { _ = db.Close() })
    return db, mock
}

// newJSONContext builds an echo context carrying a JSON body, the way
// requests arrive after the router and middleware have run.  The caller
// identity is injected via c.Set the same way the JWT middleware does.
func newJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
    t.Helper()
    var req *http.Request
    if body == "" {
        req = httptest.NewRequest(method, target, nil)
    } else {
        req = httptest.NewRequest(method, target, strings.NewReader(body))
        req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    }
    rec := httptest.NewRecorder()
    c := echo.New().NewContext(req, rec)
    return c, rec
}

// decodeBody unmarshals the recorded JSON response into a generic map.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
    t.Helper()
    var out map[string]any
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
    return out
}
