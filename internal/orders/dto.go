package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the fulfilment stage of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipping  Status = "shipping"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var validStatuses = map[Status]struct{}{
	StatusPending:   {},
	StatusConfirmed: {},
	StatusShipping:  {},
	StatusCompleted: {},
	StatusCancelled: {},
}

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, bool) {
	s := Status(raw)
	_, ok := validStatuses[s]
	return s, ok
}

type Item struct {
	ID           int64           `json:"id"`
	OrderID      int64           `json:"orderId"`
	ProductID    int64           `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductImage string          `json:"productImage"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

type Order struct {
	ID            int64           `json:"id"`
	CustomerName  string          `json:"customerName"`
	CustomerPhone string          `json:"customerPhone"`
	CustomerEmail string          `json:"customerEmail"`
	Address       string          `json:"address"`
	Total         decimal.Decimal `json:"total"`
	Note          *string         `json:"note,omitempty"`
	Status        Status          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	UserID        int64           `json:"userId"`
	Items         []Item          `json:"items"`
}

type ItemPayload struct {
	ProductID    int64           `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductImage string          `json:"productImage"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
}

// CreatePayload is the body of POST /orders.
type CreatePayload struct {
	CustomerName  string        `json:"customerName"`
	CustomerPhone string        `json:"customerPhone"`
	CustomerEmail string        `json:"customerEmail"`
	Address       string        `json:"address"`
	Note          string        `json:"note,omitempty"`
	UserID        int64         `json:"userId"`
	Items         []ItemPayload `json:"items"`
}

type ListParams struct {
	Page   int
	Limit  int
	Search string
}
