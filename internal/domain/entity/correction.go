package entity

import "time"

// FieldType classifies which kind of invoice field a correction targets
type FieldType string

const (
	FieldTypeAmount    FieldType = "amount"
	FieldTypeQuantity  FieldType = "quantity"
	FieldTypeUnitPrice FieldType = "unit_price"
	FieldTypeOther     FieldType = "other"
)

// IsValid returns true if the field type is one of the defined constants
func (f FieldType) IsValid() bool {
	switch f {
	case FieldTypeAmount, FieldTypeQuantity, FieldTypeUnitPrice, FieldTypeOther:
		return true
	default:
		return false
	}
}

// Correction represents one field-level redline proposed by internal
// staff against a returned invoice. Corrections are created in batches;
// every entry of a batch shares the same BatchID and is written
// atomically with the return transition. Superseded batches keep their
// rows (SupersededAt set) to preserve audit history.
type Correction struct {
	ID                int64      `json:"id"`
	InvoiceID         string     `json:"invoice_id"`
	BatchID           string     `json:"batch_id"`
	FieldName         string     `json:"field_name"`
	FieldType         FieldType  `json:"field_type"`
	OriginalValue     string     `json:"original_value"`
	CorrectedValue    string     `json:"corrected_value"`
	Reason            string     `json:"reason"`
	CorrectedByUserID string     `json:"corrected_by_user_id"`
	ApprovedByPartner bool       `json:"approved_by_partner"`
	SupersededAt      *time.Time `json:"superseded_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}
