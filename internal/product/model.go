package product

import "time"

type Product struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Description    *string   `json:"description,omitempty"`
	Price          float64   `json:"price"`
	CompareAtPrice *float64  `json:"compare_at_price,omitempty"`
	CostPrice      *float64  `json:"cost_price,omitempty"`
	SKU            *string   `json:"sku,omitempty"`
	Stock          int       `json:"stock"`
	Images         []string  `json:"images"`
	CategoryID     *string   `json:"category_id,omitempty"`
	CategoryName   *string   `json:"category_name,omitempty"`
	IsActive       bool      `json:"is_active"`
	IsFeatured     bool      `json:"is_featured"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type ProductQueryOptions struct {
	OnlyActive   bool
	CategoryID   *string
	FeaturedOnly bool
	Limit        int32
	Page         int32
}

type NewProduct struct {
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Description    *string  `json:"description"`
	Price          float64  `json:"price"`
	CompareAtPrice *float64 `json:"compareAtPrice"`
	CostPrice      *float64 `json:"costPrice"`
	SKU            *string  `json:"sku"`
	Stock          int      `json:"stock"`
	Images         []string `json:"images"`
	CategoryID     *string  `json:"categoryId"`
	IsActive       *bool    `json:"isActive"`
	IsFeatured     *bool    `json:"isFeatured"`
}

type UpdateProduct struct {
	Name           *string  `json:"name"`
	Slug           *string  `json:"slug"`
	Description    *string  `json:"description"`
	Price          *float64 `json:"price"`
	CompareAtPrice *float64 `json:"compareAtPrice"`
	CostPrice      *float64 `json:"costPrice"`
	SKU            *string  `json:"sku"`
	Stock          *int     `json:"stock"`
	Images         []string `json:"images"`
	CategoryID     *string  `json:"categoryId"`
	IsActive       *bool    `json:"isActive"`
	IsFeatured     *bool    `json:"isFeatured"`
}
