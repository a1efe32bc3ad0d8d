// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by
// someone else, while ErrEmptyCart signals that an order cannot
// be placed because the cart holds no lines.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a cart line they do not own. Handlers translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrEmptyCart is returned by the priced cart read inside order
// placement when the user's cart contains no lines. No order row is
// created in that case. Handlers translate this into an HTTP 400
// response.
var ErrEmptyCart = errors.New("cart is empty")

// ErrEmailExists is returned when registering with an email address
// that is already taken.
var ErrEmailExists = errors.New("email already exists")
