package supplier

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("supplier not found")

// optional contact fields stay pointers so absent and empty are distinct
type Supplier struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	Address   *string   `json:"address"`
	TaxID     *string   `json:"taxId"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateSupplierRequest struct {
	Name    string  `json:"name" binding:"required,min=1,max=160"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone" binding:"omitempty,max=40"`
	Address *string `json:"address" binding:"omitempty,max=255"`
	TaxID   *string `json:"taxId" binding:"omitempty,max=40"`
}

type UpdateSupplierRequest struct {
	Name    string  `json:"name" binding:"required,min=1,max=160"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone" binding:"omitempty,max=40"`
	Address *string `json:"address" binding:"omitempty,max=255"`
	TaxID   *string `json:"taxId" binding:"omitempty,max=40"`
}

// PATCH on a supplier is restricted to the active flag.
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}
