package storage

import (
	"context"
	"testing"
)

func TestFileAdapter_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	adapter, err := NewFileAdapter(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := adapter.Set(ctx, "stockflow_v1", `[{"id":"SKU-1"}]`); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, ok, err := adapter.Get(ctx, "stockflow_v1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok || val != `[{"id":"SKU-1"}]` {
		t.Errorf("expected stored value back, got ok=%v val=%q", ok, val)
	}
}

func TestFileAdapter_MissingKey(t *testing.T) {
	adapter, err := NewFileAdapter(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, ok, err := adapter.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("missing key must not be an error, got %v", err)
	}
	if ok {
		t.Error("expected ok=false for a key never written")
	}
}

func TestFileAdapter_SetOverwrites(t *testing.T) {
	adapter, err := NewFileAdapter(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	adapter.Set(ctx, "k", "first value, quite long")
	adapter.Set(ctx, "k", "short")

	val, _, err := adapter.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if val != "short" {
		t.Errorf("set must fully overwrite, got %q", val)
	}
}

func TestFileAdapter_Delete(t *testing.T) {
	adapter, err := NewFileAdapter(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	adapter.Set(ctx, "k", "v")
	if err := adapter.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok, _ := adapter.Get(ctx, "k"); ok {
		t.Error("expected key gone after delete")
	}

	// Deleting again is a no-op.
	if err := adapter.Delete(ctx, "k"); err != nil {
		t.Errorf("deleting an absent key must not fail: %v", err)
	}
}

func TestFileAdapter_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	adapter, err := NewFileAdapter(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	adapter.Set(ctx, "stockflow_settings", `{"currencyLabel":"USD"}`)

	reopened, err := NewFileAdapter(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	val, ok, err := reopened.Get(ctx, "stockflow_settings")
	if err != nil || !ok {
		t.Fatalf("expected value after reopen, got ok=%v err=%v", ok, err)
	}
	if val != `{"currencyLabel":"USD"}` {
		t.Errorf("unexpected value after reopen: %q", val)
	}
}
