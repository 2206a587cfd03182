package domain

import "github.com/shopspring/decimal"

// CategoryTotal is one entry of the top-categories ranking: all records
// sharing a name, with their quantities summed.
type CategoryTotal struct {
	Name  string
	Units int
}

// Stats is the derived view over the full collection. It has no
// lifecycle of its own and is recomputed from the records and settings
// on every query.
type Stats struct {
	TotalUnits     int
	TotalValuation decimal.Decimal
	LowStockCount  int
	TopCategories  []CategoryTotal
}

// Alert is a user-facing low-stock notification derived from one record.
type Alert struct {
	RecordID string
	Message  string
}
