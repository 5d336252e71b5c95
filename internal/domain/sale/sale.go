package sale

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("sale not found")

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

type Sale struct {
	ID        int64     `json:"id"`
	Date      time.Time `json:"date"`
	Total     float64   `json:"total"`
	Status    Status    `json:"status"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"createdAt"`
}

// Item is a sale line. Unit price is captured from the catalog at sale time,
// so later price changes never rewrite history.
type Item struct {
	ItemID   int64   `json:"itemId"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Total    float64 `json:"total"`
}

type CreateSaleRequest struct {
	Lines []Line `json:"items" binding:"required,min=1,dive"`
}

type Line struct {
	ItemID   int64 `json:"itemId" binding:"required,min=1"`
	Quantity int   `json:"quantity" binding:"required,min=1"`
}
