package domain

import "github.com/shopspring/decimal"

type Status string

const (
	StatusInStock Status = "In Stock"
	StatusOnOrder Status = "On Order"
)

// ParseStatus maps a raw form value to a Status. An empty value defaults
// to StatusInStock.
func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case "":
		return StatusInStock, true
	case StatusInStock, StatusOnOrder:
		return Status(raw), true
	}
	return "", false
}

type Record struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"price"`
	Valuation decimal.Decimal `json:"valuation"`
	Status    Status          `json:"status"`
}

// Revalue recomputes the derived valuation from the current quantity and
// unit price. Every mutation path goes through here so the stored
// valuation can never drift from its inputs.
func (r *Record) Revalue() {
	r.Valuation = r.UnitPrice.Mul(decimal.NewFromInt(int64(r.Quantity)))
}

// Validate checks the shape of a record loaded from storage. Foreign or
// hand-edited payloads are rejected here rather than trusted.
func (r Record) Validate() error {
	if r.ID == "" {
		return &ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if r.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if r.Quantity < 0 {
		return &ValidationError{Field: "quantity", Reason: "must not be negative"}
	}
	if r.UnitPrice.IsNegative() {
		return &ValidationError{Field: "unitPrice", Reason: "must not be negative"}
	}
	if _, ok := ParseStatus(string(r.Status)); !ok {
		return &ValidationError{Field: "status", Reason: "unknown status " + string(r.Status)}
	}
	return nil
}
