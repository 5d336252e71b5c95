package jobs

import "strings"

// ValidatePayload performs minimal validation on decoded payloads.
func ValidatePayload(t JobType, payload any) error {
	if !t.IsValid() {
		return ErrInvalidJobType
	}

	switch t {
	case JobLowStockAlert:
		var p LowStockAlertPayload
		switch v := payload.(type) {
		case LowStockAlertPayload:
			p = v
		case *LowStockAlertPayload:
			p = *v
		default:
			return ErrPayloadTypeMismatch
		}
		if p.ItemID < 1 || strings.TrimSpace(p.SKU) == "" {
			return ErrInvalidJobPayload
		}
		return nil

	default:
		return ErrInvalidJobType
	}
}
