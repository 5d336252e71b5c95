package catalog

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("item not found")
	ErrSKUTaken          = errors.New("sku already in use")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Item struct {
	ID          int64     `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Price       float64   `json:"price"`
	Cost        float64   `json:"cost"`
	Stock       int       `json:"stock"`
	MinStock    int       `json:"minStock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// LowStock reports whether the item sits at or below its reorder floor.
// Items with no floor configured never alert.
func (i Item) LowStock() bool {
	return i.MinStock > 0 && i.Stock <= i.MinStock
}

type CreateItemRequest struct {
	SKU         string  `json:"sku" binding:"required,min=1,max=60"`
	Name        string  `json:"name" binding:"required,min=1,max=160"`
	Description string  `json:"description" binding:"omitempty,max=1000"`
	Category    string  `json:"category" binding:"omitempty,max=80"`
	Price       float64 `json:"price" binding:"required,gte=0"`
	Cost        float64 `json:"cost" binding:"omitempty,gte=0"`
	Stock       int     `json:"stock" binding:"omitempty,gte=0"`
	MinStock    int     `json:"minStock" binding:"omitempty,gte=0"`
}

type UpdateItemRequest struct {
	SKU         string  `json:"sku" binding:"required,min=1,max=60"`
	Name        string  `json:"name" binding:"required,min=1,max=160"`
	Description string  `json:"description" binding:"omitempty,max=1000"`
	Category    string  `json:"category" binding:"omitempty,max=80"`
	Price       float64 `json:"price" binding:"required,gte=0"`
	Cost        float64 `json:"cost" binding:"omitempty,gte=0"`
	MinStock    int     `json:"minStock" binding:"omitempty,gte=0"`
}
