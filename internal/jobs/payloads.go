package jobs

// LowStockAlertPayload describes an item that fell to or below its reorder
// floor. Stock figures are a snapshot from the sale that triggered the
// alert; the worker reports them as-is.
type LowStockAlertPayload struct {
	ItemID    int64  `json:"itemId"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	MinStock  int    `json:"minStock"`
	RequestID string `json:"requestId,omitempty"` // optional: correlation
}
