package order

import "errors"

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrEmptyOrder         = errors.New("no items in order")
	ErrCODThreshold       = errors.New("cash on delivery is only available for orders under GHS 200")
	ErrTotalMismatch      = errors.New("order total does not match subtotal plus shipping")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrDuplicateReference = errors.New("order already exists for payment reference")
)
