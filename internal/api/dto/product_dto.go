package dto

import (
	"time"

	"github.com/quocphungccq1911h/mobi/internal/domain"
)

// ProductRequest payload for creating or updating a catalog entry.
type ProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// ProductResponse is the serialized catalog entry.
type ProductResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProductResponse maps a domain product to its API view.
func NewProductResponse(product *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

// NewProductResponses maps a slice of domain products.
func NewProductResponses(products []*domain.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, product := range products {
		out[i] = NewProductResponse(product)
	}
	return out
}
