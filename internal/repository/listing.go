package repository

import (
    "strings"
)

// ListQuery carries the filter, sort and pagination parameters shared by
// catalog, order and user listings.  Handlers populate it straight from
// query-string values; Clamp() brings page/limit into a sane range so a
// caller can never request page 0 or a negative offset.
type ListQuery struct {
    Search   string   // case-insensitive match across a listing-specific set of text columns
    Category string   // exact category filter (products)
    MinPrice *float64 // inclusive lower bound on price (products)
    MaxPrice *float64 // inclusive upper bound on price (products)
    Role     string   // exact role filter (users)
    Sort     string   // "field,direction" token, direction defaults to asc
    Page     int      // 1-based page number
    Limit    int      // page size
}

const (
    defaultLimit = 10
    maxLimit     = 100
)

// Clamp coerces Page and Limit into valid values.  Non-positive input
// falls back to the defaults rather than being rejected; the storefront
// treats pagination parameters as hints, not as validated fields.
func (q *ListQuery) Clamp() {
    if q.Page < 1 {
        q.Page = 1
    }
    if q.Limit < 1 {
        q.Limit = defaultLimit
    }
    if q.Limit > maxLimit {
        q.Limit = maxLimit
    }
}

// Offset returns the number of rows to skip for the current page.
// Clamp must have been called first.
func (q ListQuery) Offset() int {
    return (q.Page - 1) * q.Limit
}

// Pages returns ceil(total/limit) for the response envelope.
func Pages(total int64, limit int) int {
    if limit < 1 {
        return 0
    }
    p := total / int64(limit)
    if total%int64(limit) != 0 {
        p++
    }
    return int(p)
}

// criteria accumulates WHERE fragments and their arguments while a
// repository translates a ListQuery into SQL.  Fragments are AND-joined;
// an OR group (e.g. a multi-column search) is appended as one fragment.
type criteria struct {
    where []string
    args  []any
}

// add appends a single condition with its arguments.
func (cr *criteria) add(cond string, args ...any) {
    cr.where = append(cr.where, cond)
    cr.args = append(cr.args, args...)
}

// addSearch appends a case-insensitive LIKE over the given columns,
// OR-combined so a row matches when any column contains the term.
func (cr *criteria) addSearch(term string, columns ...string) {
    if term == "" || len(columns) == 0 {
        return
    }
    like := "%" + strings.ToLower(term) + "%"
    parts := make([]string, 0, len(columns))
    for _, col := range columns {
        parts = append(parts, "LOWER("+col+") LIKE ?")
        cr.args = append(cr.args, like)
    }
    cr.where = append(cr.where, "("+strings.Join(parts, " OR ")+")")
}

// clause returns the assembled WHERE condition, or "1=1" when no
// filter applies so callers can always append it after WHERE.
func (cr *criteria) clause() string {
    if len(cr.where) == 0 {
        return "1=1"
    }
    return strings.Join(cr.where, " AND ")
}

// sortClause translates the "field,direction" token into an ORDER BY body.
// Only fields present in allowed may be sorted on; the map value is the
// qualified column expression.  An unknown field, or an empty token, falls
// back to def.  Direction defaults to ASC when omitted or unrecognized.
func sortClause(sort string, allowed map[string]string, def string) string {
    if sort == "" {
        return def
    }
    field := sort
    dir := "ASC"
    if i := strings.Index(sort, ","); i >= 0 {
        field = sort[:i]
        if strings.EqualFold(sort[i+1:], "desc") {
            dir = "DESC"
        }
    }
    col, ok := allowed[strings.ToLower(strings.TrimSpace(field))]
    if !ok {
        return def
    }
    return col + " " + dir
}
