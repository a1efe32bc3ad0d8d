package handler // handler defines http handlers

import (
    "errors"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/shopsmart/internal/repository"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64.
// JWT claims round-trip through JSON, so the subject usually arrives as a
// float64; the other branches cover tests and middleware that set it directly.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// listQueryFrom builds a repository.ListQuery from the request's query
// string.  Unparseable numeric values are silently dropped and fall back
// to the repository defaults; pagination is a hint, not validated input.
func listQueryFrom(c echo.Context) repository.ListQuery {
    var q repository.ListQuery
    q.Search = c.QueryParam("search")
    q.Category = c.QueryParam("category")
    q.Role = c.QueryParam("role")
    q.Sort = c.QueryParam("sort")
    if n, err := strconv.Atoi(c.QueryParam("page")); err == nil {
        q.Page = n
    }
    if n, err := strconv.Atoi(c.QueryParam("limit")); err == nil {
        q.Limit = n
    }
    if f, err := strconv.ParseFloat(c.QueryParam("minPrice"), 64); err == nil {
        q.MinPrice = &f
    }
    if f, err := strconv.ParseFloat(c.QueryParam("maxPrice"), 64); err == nil {
        q.MaxPrice = &f
    }
    return q
}
