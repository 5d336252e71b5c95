package notifications

import "context"

type SendLowStockAlertInput struct {
	ItemID   int64
	SKU      string
	Name     string
	Stock    int
	MinStock int
}

type Notifier interface {
	SendLowStockAlert(ctx context.Context, input SendLowStockAlertInput) error
}
