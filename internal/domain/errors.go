package domain

import "fmt"

// Machine-checkable error codes surfaced by the services.
const (
	EINVALID      = "invalid"      // malformed or missing input
	ENOTFOUND     = "not_found"    // product, variant or cart line absent
	EOUTOFSTOCK   = "out_of_stock" // zero availability
	EINSUFFICIENT = "insufficient_stock"
	EINTERNAL     = "internal"
)

// Error carries a code for callers and a human-readable message for clients.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

func Errorf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ErrorCode returns the code of a *domain.Error, or EINTERNAL for anything
// else (store failures, driver errors) so internals never leak to clients.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return EINTERNAL
}

var (
	ErrCartLineNotFound = &Error{Code: ENOTFOUND, Message: "Item not found in cart"}
	ErrOrderNotFound    = &Error{Code: ENOTFOUND, Message: "Order not found"}
	ErrInvalidQuantity  = &Error{Code: EINVALID, Message: "Quantity must be greater than 0"}
)
