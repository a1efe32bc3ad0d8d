package handler

import (
    "database/sql"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/shopsmart/internal/model"
    "github.com/iliyamo/shopsmart/internal/repository"
)

// ProductHandler serves the public catalog listing plus the admin CRUD
// endpoints.  The listing is the main consumer of the shared query
// builder: search, category and price-range filters all flow through it.
type ProductHandler struct {
    Products *repository.ProductRepo
}

func NewProductHandler(p *repository.ProductRepo) *ProductHandler {
    if p == nil {
        panic("nil repository passed to NewProductHandler")
    }
    return &ProductHandler{Products: p}
}

type productReq struct {
    Name        string  `json:"name"`
    Description string  `json:"description"`
    Price       float64 `json:"price"`
    Category    string  `json:"category"`
    Stock       uint32  `json:"stock"`
    ImageURL    *string `json:"imageUrl"`
}

type productResp struct {
    ID          uint64  `json:"id"`
    Name        string  `json:"name"`
    Description string  `json:"description"`
    Price       float64 `json:"price"`
    Category    string  `json:"category"`
    Stock       uint32  `json:"stock"`
    ImageURL    *string `json:"imageUrl,omitempty"`
    CreatedAt   string  `json:"createdAt"`
}

func toProductResp(p model.Product) productResp {
    return productResp{
        ID:          p.ID,
        Name:        p.Name,
        Description: p.Description,
        Price:       p.Price,
        Category:    p.Category,
        Stock:       p.Stock,
        ImageURL:    p.ImageURL,
        CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
    }
}

// List handles GET /api/products.  Supported query parameters: search,
// category, minPrice, maxPrice, sort (field,direction), page, limit.
func (h *ProductHandler) List(c echo.Context) error {
    q := listQueryFrom(c)
    items, total, err := h.Products.List(c.Request().Context(), q)
    if err != nil {
        c.Logger().Errorf("products: list: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }
    q.Clamp()
    out := make([]productResp, 0, len(items))
    for _, p := range items {
        out = append(out, toProductResp(p))
    }
    return c.JSON(http.StatusOK, echo.Map{
        "products": out,
        "page":     q.Page,
        "pages":    repository.Pages(total, q.Limit),
        "total":    total,
    })
}

// Get handles GET /api/products/:id.
func (h *ProductHandler) Get(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid product id"})
    }
    p, err := h.Products.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "product not found"})
        }
        c.Logger().Errorf("products: get %d: %v", id, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }
    return c.JSON(http.StatusOK, toProductResp(p))
}

// Create handles POST /api/products (admin).
func (h *ProductHandler) Create(c echo.Context) error {
    var req productReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
    }
    if req.Name == "" || req.Price < 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "name required and price must be non-negative"})
    }
    p, err := h.Products.Create(c.Request().Context(), model.Product{
        Name:        req.Name,
        Description: req.Description,
        Price:       req.Price,
        Category:    req.Category,
        Stock:       req.Stock,
        ImageURL:    req.ImageURL,
    })
    if err != nil {
        c.Logger().Errorf("products: create: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }
    return c.JSON(http.StatusCreated, toProductResp(p))
}

// Update handles PUT /api/products/:id (admin).
func (h *ProductHandler) Update(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid product id"})
    }
    var req productReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
    }
    if req.Name == "" || req.Price < 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "name required and price must be non-negative"})
    }
    p, err := h.Products.Update(c.Request().Context(), id, model.Product{
        Name:        req.Name,
        Description: req.Description,
        Price:       req.Price,
        Category:    req.Category,
        Stock:       req.Stock,
        ImageURL:    req.ImageURL,
    })
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "product not found"})
        }
        c.Logger().Errorf("products: update %d: %v", id, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }
    return c.JSON(http.StatusOK, toProductResp(p))
}

// Delete handles DELETE /api/products/:id (admin).
func (h *ProductHandler) Delete(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid product id"})
    }
    if err := h.Products.Delete(c.Request().Context(), id); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "product not found"})
        }
        c.Logger().Errorf("products: delete %d: %v", id, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "product removed"})
}
