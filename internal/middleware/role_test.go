package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/shopsmart/internal/model"
)

func runWithRole(t *testing.T, role any, min model.Role) (*httptest.ResponseRecorder, bool) {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    if role != nil {
        c.Set("role", role)
    }

    reached := false
    h := RequireRole(min)(func(c echo.Context) error {
        reached = true
        return c.NoContent(http.StatusOK)
    })
    require.NoError(t, h(c))
    return rec, reached
}

func TestRequireRoleAllowsEqualAndHigher(t *testing.T) {
    for _, role := range []string{"ADMIN", "SUPERADMIN"} {
        rec, reached := runWithRole(t, role, model.RoleAdmin)
        assert.Equal(t, http.StatusOK, rec.Code, role)
        assert.True(t, reached, role)
    }
}

func TestRequireRoleBlocksLower(t *testing.T) {
    rec, reached := runWithRole(t, "USER", model.RoleAdmin)
    assert.Equal(t, http.StatusForbidden, rec.Code)
    assert.False(t, reached)
}

func TestRequireRoleBlocksMissingOrUnknown(t *testing.T) {
    for name, role := range map[string]any{
        "absent":     nil,
        "unknown":    "WIZARD",
        "lower case": "admin",
        "non-string": 42,
    } {
        rec, reached := runWithRole(t, role, model.RoleUser)
        assert.Equal(t, http.StatusForbidden, rec.Code, name)
        assert.False(t, reached, name)
    }
}
