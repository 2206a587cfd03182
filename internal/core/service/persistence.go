package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"github.com/kashif-khokhar/stockflow/internal/core/domain"
)

// Storage keys, kept from the original localStorage layout so existing
// exports load verbatim.
const (
	inventoryKey = "stockflow_v1"
	settingsKey  = "stockflow_settings"
)

// ExportDocument is the offline-backup shape: both snapshot keys in one
// JSON document. Import accepts exactly this shape.
type ExportDocument struct {
	Inventory []domain.Record `json:"inventory"`
	Settings  domain.Settings `json:"settings"`
}

// recordPayload is the tolerant read-side shape. Older payloads used
// quantity/unitPrice instead of qty/price; both are accepted. Valuation
// unmarshals from either a JSON number or an exact numeric string.
type recordPayload struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Qty       *int             `json:"qty"`
	Quantity  *int             `json:"quantity"`
	Price     *decimal.Decimal `json:"price"`
	UnitPrice *decimal.Decimal `json:"unitPrice"`
	Status    string           `json:"status"`
}

func decodeRecords(data []byte) ([]domain.Record, error) {
	var payloads []recordPayload
	if err := json.Unmarshal(data, &payloads); err != nil {
		return nil, fmt.Errorf("unmarshal inventory: %w", err)
	}

	records := make([]domain.Record, 0, len(payloads))
	for _, p := range payloads {
		status, ok := domain.ParseStatus(p.Status)
		if !ok {
			return nil, fmt.Errorf("record %s: unknown status %q", p.ID, p.Status)
		}
		rec := domain.Record{ID: p.ID, Name: p.Name, Status: status}
		switch {
		case p.Qty != nil:
			rec.Quantity = *p.Qty
		case p.Quantity != nil:
			rec.Quantity = *p.Quantity
		default:
			return nil, fmt.Errorf("record %s: missing quantity", p.ID)
		}
		switch {
		case p.Price != nil:
			rec.UnitPrice = *p.Price
		case p.UnitPrice != nil:
			rec.UnitPrice = *p.UnitPrice
		default:
			return nil, fmt.Errorf("record %s: missing unit price", p.ID)
		}
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("record %s: %w", p.ID, err)
		}
		rec.Revalue()
		records = append(records, rec)
	}
	return records, nil
}

func decodeSettings(data []byte) (domain.Settings, error) {
	settings := domain.DefaultSettings()
	if err := json.Unmarshal(data, &settings); err != nil {
		return domain.Settings{}, fmt.Errorf("unmarshal settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

// load reads both snapshot keys. Absent keys mean first run; corrupt or
// unreadable values degrade to defaults with a logged warning instead of
// failing startup.
func (s *InventoryService) load(ctx context.Context) {
	raw, ok, err := s.store.Get(ctx, inventoryKey)
	switch {
	case err != nil:
		log.Printf("inventory snapshot unreadable, starting empty: %v", err)
	case ok:
		records, err := decodeRecords([]byte(raw))
		if err != nil {
			log.Printf("inventory snapshot rejected, starting empty: %v", err)
		} else {
			s.records = records
		}
	}

	raw, ok, err = s.store.Get(ctx, settingsKey)
	switch {
	case err != nil:
		log.Printf("settings snapshot unreadable, using defaults: %v", err)
	case ok:
		settings, err := decodeSettings([]byte(raw))
		if err != nil {
			log.Printf("settings snapshot rejected, using defaults: %v", err)
		} else {
			s.settings = settings
		}
	}

	for _, r := range s.records {
		s.issued[r.ID] = struct{}{}
	}
}

// persist overwrites both snapshot keys with the current state. A write
// failure is returned as a PersistenceError because memory and storage
// have diverged at that point.
func (s *InventoryService) persist(ctx context.Context) error {
	records := s.records
	if records == nil {
		records = []domain.Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return &domain.PersistenceError{Op: "encode inventory", Err: err}
	}
	if err := s.store.Set(ctx, inventoryKey, string(data)); err != nil {
		return &domain.PersistenceError{Op: "save inventory", Err: err}
	}

	data, err = json.Marshal(s.settings)
	if err != nil {
		return &domain.PersistenceError{Op: "encode settings", Err: err}
	}
	if err := s.store.Set(ctx, settingsKey, string(data)); err != nil {
		return &domain.PersistenceError{Op: "save settings", Err: err}
	}
	return nil
}

// Export produces one backup document holding both the inventory and the
// settings, in the shape Import accepts.
func (s *InventoryService) Export() ([]byte, error) {
	doc := ExportDocument{Inventory: s.records, Settings: s.settings}
	if doc.Inventory == nil {
		doc.Inventory = []domain.Record{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, &domain.PersistenceError{Op: "encode export", Err: err}
	}
	return data, nil
}

// Import replaces the collection and settings from a backup document.
// A document that fails shape validation is rejected without mutating
// any state.
func (s *InventoryService) Import(ctx context.Context, data []byte) error {
	var doc struct {
		Inventory json.RawMessage `json:"inventory"`
		Settings  json.RawMessage `json:"settings"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return &domain.ValidationError{Field: "document", Reason: err.Error()}
	}
	records, err := decodeRecords(doc.Inventory)
	if err != nil {
		return &domain.ValidationError{Field: "inventory", Reason: err.Error()}
	}
	settings, err := decodeSettings(doc.Settings)
	if err != nil {
		return &domain.ValidationError{Field: "settings", Reason: err.Error()}
	}

	s.records = records
	s.settings = settings
	for _, r := range s.records {
		s.issued[r.ID] = struct{}{}
	}
	return s.persist(ctx)
}
