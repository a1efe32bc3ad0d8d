package handler

import (
    "context"
    "database/sql"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/shopsmart/internal/config"
    "github.com/iliyamo/shopsmart/internal/model"
    "github.com/iliyamo/shopsmart/internal/repository"
    "github.com/iliyamo/shopsmart/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
    Cfg   config.Config
    Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
    return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type signupReq struct {
    Name     string `json:"name"`
    Email    string `json:"email"`
    Password string `json:"password"`
    Role     string `json:"role"` // optional; defaults to USER
}
type loginReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}

type authResp struct {
    ID    uint64 `json:"id"`
    Name  string `json:"name"`
    Email string `json:"email"`
    Role  string `json:"role"`
    Token string `json:"token"`
}

// Signup creates a user and returns a token immediately.  A role may be
// supplied but anything outside the known set falls back to USER.
func (h *AuthHandler) Signup(c echo.Context) error {
    var req signupReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    req.Name = strings.TrimSpace(req.Name)
    if req.Name == "" || req.Email == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "name/email/password required"})
    }
    role, ok := model.ParseRole(strings.ToUpper(strings.TrimSpace(req.Role)))
    if !ok {
        role = model.RoleUser
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    uid, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, role, h.Cfg.BcryptCost)
    if err != nil {
        if errors.Is(err, repository.ErrEmailExists) {
            return c.JSON(http.StatusBadRequest, echo.Map{"message": "user already exists"})
        }
        c.Logger().Errorf("signup: create user: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }

    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, uid, string(role), h.Cfg.AccessTTLMin)
    if err != nil {
        c.Logger().Errorf("signup: issue token: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }

    return c.JSON(http.StatusCreated, authResp{
        ID:    uid,
        Name:  req.Name,
        Email: req.Email,
        Role:  string(role),
        Token: access.Token,
    })
}

// Login verifies credentials and returns a token.  Both an unknown email
// and a wrong password yield the same 400 so the response never reveals
// which accounts exist.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Email == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "email/password required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.GetByEmail(ctx, req.Email)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid credentials"})
        }
        c.Logger().Errorf("login: fetch user: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }
    if !utils.VerifyPassword(u.PasswordHash, req.Password) {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid credentials"})
    }

    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, string(u.Role), h.Cfg.AccessTTLMin)
    if err != nil {
        c.Logger().Errorf("login: issue token: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }

    return c.JSON(http.StatusOK, authResp{
        ID:    u.ID,
        Name:  u.Name,
        Email: u.Email,
        Role:  string(u.Role),
        Token: access.Token,
    })
}

// Me returns the authenticated user's public fields.  A token whose
// subject no longer resolves to a user yields 401, not 403: the caller
// needs to log in again, they are not lacking a role.
func (h *AuthHandler) Me(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.GetByID(ctx, uid)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
        }
        c.Logger().Errorf("me: fetch user: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "id":        u.ID,
        "name":      u.Name,
        "email":     u.Email,
        "role":      u.Role,
        "createdAt": u.CreatedAt,
    })
}
