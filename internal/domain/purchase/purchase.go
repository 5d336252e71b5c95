package purchase

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("purchase not found")

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

type Purchase struct {
	ID           int64     `json:"id"`
	Date         time.Time `json:"date"`
	SupplierID   int64     `json:"supplierId"`
	SupplierName string    `json:"supplierName"`
	Total        float64   `json:"total"`
	Status       Status    `json:"status"`
	Items        []Item    `json:"items"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Item struct {
	ItemID   int64   `json:"itemId"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	UnitCost float64 `json:"unitCost"`
	Total    float64 `json:"total"`
}

type CreatePurchaseRequest struct {
	SupplierID int64  `json:"supplierId" binding:"required,min=1"`
	Lines      []Line `json:"items" binding:"required,min=1,dive"`
}

type Line struct {
	ItemID   int64   `json:"itemId" binding:"required,min=1"`
	Quantity int     `json:"quantity" binding:"required,min=1"`
	UnitCost float64 `json:"unitCost" binding:"required,gte=0"`
}
