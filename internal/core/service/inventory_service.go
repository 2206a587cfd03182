package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kashif-khokhar/stockflow/internal/core/domain"
	"github.com/kashif-khokhar/stockflow/internal/port"
)

var ErrNotFound = errors.New("record not found")

// CreateInput carries raw form values; parsing and validation happen
// here, not in the caller.
type CreateInput struct {
	Name      string
	Quantity  string
	UnitPrice string
	Status    string
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	Name      *string
	Quantity  *string
	UnitPrice *string
	Status    *string
}

// InventoryService owns the record collection and the active settings.
// All mutations run to completion and persist before returning, so the
// derived views always see a consistent snapshot. Callers hold an
// explicit handle; there is no package-level instance.
type InventoryService struct {
	store    port.KeyValueStore
	records  []domain.Record
	settings domain.Settings
	issued   map[string]struct{}
}

// NewInventoryService loads the persisted snapshot from the store.
// A missing or unreadable snapshot degrades to an empty collection and
// default settings rather than failing startup.
func NewInventoryService(ctx context.Context, store port.KeyValueStore) *InventoryService {
	s := &InventoryService{
		store:    store,
		settings: domain.DefaultSettings(),
		issued:   make(map[string]struct{}),
	}
	s.load(ctx)
	return s
}

func (s *InventoryService) Create(ctx context.Context, in CreateInput) (domain.Record, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Record{}, &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	qty, err := parseQuantity(in.Quantity)
	if err != nil {
		return domain.Record{}, err
	}
	price, err := parsePrice(in.UnitPrice)
	if err != nil {
		return domain.Record{}, err
	}
	status, ok := domain.ParseStatus(in.Status)
	if !ok {
		return domain.Record{}, &domain.ValidationError{Field: "status", Reason: "unknown status " + in.Status}
	}

	rec := domain.Record{
		ID:        s.nextID(),
		Name:      name,
		Quantity:  qty,
		UnitPrice: price,
		Status:    status,
	}
	rec.Revalue()

	s.records = append(s.records, rec)
	if err := s.persist(ctx); err != nil {
		return rec, err
	}
	return rec, nil
}

func (s *InventoryService) Update(ctx context.Context, id string, p Patch) (domain.Record, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Record{}, ErrNotFound
	}

	// Work on a copy so a validation failure leaves the record untouched.
	rec := s.records[idx]

	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return domain.Record{}, &domain.ValidationError{Field: "name", Reason: "must not be empty"}
		}
		rec.Name = name
	}
	if p.Quantity != nil {
		qty, err := parseQuantity(*p.Quantity)
		if err != nil {
			return domain.Record{}, err
		}
		rec.Quantity = qty
	}
	if p.UnitPrice != nil {
		price, err := parsePrice(*p.UnitPrice)
		if err != nil {
			return domain.Record{}, err
		}
		rec.UnitPrice = price
	}
	if p.Status != nil {
		status, ok := domain.ParseStatus(*p.Status)
		if !ok {
			return domain.Record{}, &domain.ValidationError{Field: "status", Reason: "unknown status " + *p.Status}
		}
		rec.Status = status
	}

	rec.Revalue()
	s.records[idx] = rec
	if err := s.persist(ctx); err != nil {
		return rec, err
	}
	return rec, nil
}

func (s *InventoryService) Delete(ctx context.Context, id string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}
	s.records = append(s.records[:idx], s.records[idx+1:]...)
	return s.persist(ctx)
}

// List returns the collection in insertion order. The slice is a copy;
// mutating it does not touch the store.
func (s *InventoryService) List() []domain.Record {
	out := make([]domain.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Search matches query case-insensitively against record names and ids.
// An empty query returns the full collection.
func (s *InventoryService) Search(query string) []domain.Record {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.List()
	}
	var out []domain.Record
	for _, r := range s.records {
		if strings.Contains(strings.ToLower(r.Name), q) || strings.Contains(strings.ToLower(r.ID), q) {
			out = append(out, r)
		}
	}
	return out
}

// LowStock returns the records below the configured threshold, in
// collection order.
func (s *InventoryService) LowStock() []domain.Record {
	var out []domain.Record
	for _, r := range s.records {
		if r.Quantity < s.settings.LowStockThreshold {
			out = append(out, r)
		}
	}
	return out
}

// Recent returns up to n records, newest first.
func (s *InventoryService) Recent(n int) []domain.Record {
	if n > len(s.records) {
		n = len(s.records)
	}
	out := make([]domain.Record, 0, n)
	for i := len(s.records) - 1; i >= len(s.records)-n; i-- {
		out = append(out, s.records[i])
	}
	return out
}

func (s *InventoryService) Settings() domain.Settings {
	return s.settings
}

func (s *InventoryService) UpdateSettings(ctx context.Context, settings domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	s.settings = settings
	return s.persist(ctx)
}

// Purge drops the inventory key and empties the collection. Settings
// survive. The caller is responsible for having confirmed this with the
// user first.
func (s *InventoryService) Purge(ctx context.Context) error {
	s.records = nil
	if err := s.store.Delete(ctx, inventoryKey); err != nil {
		return &domain.PersistenceError{Op: "purge inventory", Err: err}
	}
	return nil
}

func (s *InventoryService) indexOf(id string) int {
	for i, r := range s.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// nextID issues a SKU code that has never been handed out by this
// service, so deleted ids are not reused. Collisions regenerate.
func (s *InventoryService) nextID() string {
	for {
		id := "SKU-" + strings.ToUpper(uuid.NewString()[:8])
		if _, taken := s.issued[id]; !taken {
			s.issued[id] = struct{}{}
			return id
		}
	}
}

func parseQuantity(raw string) (int, error) {
	qty, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &domain.ValidationError{Field: "quantity", Reason: "not a whole number: " + raw}
	}
	if qty < 0 {
		return 0, &domain.ValidationError{Field: "quantity", Reason: "must not be negative"}
	}
	return qty, nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, &domain.ValidationError{Field: "unitPrice", Reason: "not a number: " + raw}
	}
	if price.IsNegative() {
		return decimal.Zero, &domain.ValidationError{Field: "unitPrice", Reason: "must not be negative"}
	}
	return price, nil
}
