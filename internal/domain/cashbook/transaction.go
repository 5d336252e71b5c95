package cashbook

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("cash transaction not found")

type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

func (d Direction) IsValid() bool {
	switch d {
	case DirectionIn, DirectionOut:
		return true
	default:
		return false
	}
}

type Transaction struct {
	ID          int64     `json:"id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Type        Direction `json:"type"`
	Reference   string    `json:"reference,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CreateTransactionRequest struct {
	Description string  `json:"description" binding:"required,min=1,max=255"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Type        string  `json:"type" binding:"required,oneof=IN OUT"`
	Reference   string  `json:"reference" binding:"omitempty,max=80"`
}
