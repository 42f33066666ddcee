package product

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrMissingFields     = errors.New("name, slug, and price are required")
	ErrInsufficientStock = errors.New("insufficient stock")
)
