package services

import "errors"

// Error kinds. Every error a service returns on purpose wraps one of these;
// anything else is an unexpected failure.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrIntegrity    = errors.New("integrity violation")
)

// Error carries a caller-facing message and its kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func invalid(msg string) *Error   { return &Error{Kind: ErrInvalidInput, Msg: msg} }
func notFound(msg string) *Error  { return &Error{Kind: ErrNotFound, Msg: msg} }
func conflict(msg string) *Error  { return &Error{Kind: ErrConflict, Msg: msg} }
func integrity(msg string) *Error { return &Error{Kind: ErrIntegrity, Msg: msg} }

var (
	ErrNoSuchCart       = invalid("no such cart")
	ErrEmptyCart        = invalid("cart is empty")
	ErrCustomerNotFound = notFound("customer profile not found")

	ErrCartNotFound     = notFound("cart not found")
	ErrCartItemNotFound = notFound("cart item not found")
	ErrInvalidQuantity  = invalid("quantity must be a positive integer")
	ErrCartBusy         = conflict("cart was modified concurrently, retry the request")

	ErrProductNotFound     = notFound("product not found")
	ErrProductNameTooShort = invalid("product name must be at least 6 characters")
	ErrInvalidUnitPrice    = invalid("unit_price must be between 0.01 and 9999.99 with at most 2 decimal places")
	ErrInvalidInventory    = invalid("inventory must not be negative")
	ErrUnknownCategory     = invalid("category does not exist")
	ErrUnknownTopProduct   = invalid("top product does not exist")
	ErrProductInUse        = integrity("there is some order items including this product. please remove them first")

	ErrCategoryNotFound = notFound("category not found")
	ErrCategoryInUse    = integrity("there is some products including this category. please remove them first")

	ErrCommentNotFound = notFound("comment not found")

	ErrOrderNotFound      = notFound("order not found")
	ErrInvalidOrderStatus = invalid("status must be one of unpaid, complete, failed")

	ErrCustomerHasOrders = integrity("customer can not be deleted because it has orders")
	ErrEmailTaken        = conflict("email is already registered")
	ErrBadCredentials    = invalid("invalid email or password")
)
