package service

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/kashif-khokhar/stockflow/internal/core/domain"
)

const maxTopCategories = 5

// ComputeStats derives the aggregate view from a collection snapshot and
// the active settings. It is pure: totals are summed from the per-record
// fields on every call, never carried over from a previous result, and
// the category ranking is stable (descending units, ties kept in first
// appearance order).
func ComputeStats(records []domain.Record, settings domain.Settings) domain.Stats {
	stats := domain.Stats{TotalValuation: decimal.Zero}

	for _, r := range records {
		stats.TotalUnits += r.Quantity
		stats.TotalValuation = stats.TotalValuation.Add(r.Valuation)
		if r.Quantity < settings.LowStockThreshold {
			stats.LowStockCount++
		}
	}

	index := make(map[string]int)
	var cats []domain.CategoryTotal
	for _, r := range records {
		if i, ok := index[r.Name]; ok {
			cats[i].Units += r.Quantity
			continue
		}
		index[r.Name] = len(cats)
		cats = append(cats, domain.CategoryTotal{Name: r.Name, Units: r.Quantity})
	}
	sort.SliceStable(cats, func(i, j int) bool { return cats[i].Units > cats[j].Units })
	if len(cats) > maxTopCategories {
		cats = cats[:maxTopCategories]
	}
	stats.TopCategories = cats

	return stats
}

// LowStockAlerts maps the low-stock subset to alert entries, one per
// record, in collection order.
func LowStockAlerts(records []domain.Record, threshold int) []domain.Alert {
	var alerts []domain.Alert
	for _, r := range records {
		if r.Quantity < threshold {
			alerts = append(alerts, domain.Alert{
				RecordID: r.ID,
				Message:  fmt.Sprintf("Low stock alert: %s (%d units left)", r.Name, r.Quantity),
			})
		}
	}
	return alerts
}

// Stats recomputes the derived view from the current collection.
func (s *InventoryService) Stats() domain.Stats {
	return ComputeStats(s.records, s.settings)
}

// Alerts recomputes the low-stock notifications from the current
// collection.
func (s *InventoryService) Alerts() []domain.Alert {
	return LowStockAlerts(s.records, s.settings.LowStockThreshold)
}
