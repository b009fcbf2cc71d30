package products

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product mirrors the backend product resource.
type Product struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	URL              string          `json:"url"`
	Image            string          `json:"image"`
	ShortDescription string          `json:"shortDescription"`
	Content          string          `json:"content"`
	Price            decimal.Decimal `json:"price"`
	CategoryID       int64           `json:"categoryId"`
	Category         *CategoryRef    `json:"category,omitempty"`
	CreatedAt        *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt        *time.Time      `json:"updatedAt,omitempty"`
}

// CategoryRef is the category embedded in product responses.
type CategoryRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Payload is the create body. URL is filled from Name when left empty.
type Payload struct {
	Name             string          `json:"name" validate:"required,max=255"`
	URL              string          `json:"url" validate:"omitempty,max=255"`
	Image            string          `json:"image" validate:"omitempty,url"`
	ShortDescription string          `json:"shortDescription" validate:"omitempty,max=1000"`
	Content          string          `json:"content"`
	Price            decimal.Decimal `json:"price"`
	CategoryID       int64           `json:"categoryId" validate:"required,gt=0"`
}

// UpdatePayload is the partial update body.
type UpdatePayload struct {
	Name             *string          `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	URL              *string          `json:"url,omitempty" validate:"omitempty,max=255"`
	Image            *string          `json:"image,omitempty" validate:"omitempty,url"`
	ShortDescription *string          `json:"shortDescription,omitempty" validate:"omitempty,max=1000"`
	Content          *string          `json:"content,omitempty"`
	Price            *decimal.Decimal `json:"price,omitempty"`
	CategoryID       *int64           `json:"categoryId,omitempty" validate:"omitempty,gt=0"`
}

// ListParams filters the product list.
type ListParams struct {
	Page       int
	Limit      int
	Search     string
	CategoryID string
}
