package storage

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

func getSQLAdapter(t *testing.T) *SQLAdapter {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/stockflow?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		t.Skipf("MySQL not available: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	adapter, err := NewSQLAdapter(context.Background(), db)
	if err != nil {
		t.Fatalf("failed to initialize adapter: %v", err)
	}
	return adapter
}

func TestSQLAdapter_RoundTrip(t *testing.T) {
	adapter := getSQLAdapter(t)
	ctx := context.Background()

	// Setup
	adapter.Delete(ctx, "test-key")

	// Test
	if err := adapter.Set(ctx, "test-key", "payload"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	val, ok, err := adapter.Get(ctx, "test-key")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok || val != "payload" {
		t.Errorf("expected payload back, got ok=%v val=%q", ok, val)
	}

	// Upsert overwrites
	if err := adapter.Set(ctx, "test-key", "replaced"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	val, _, _ = adapter.Get(ctx, "test-key")
	if val != "replaced" {
		t.Errorf("expected replaced value, got %q", val)
	}

	// Delete
	if err := adapter.Delete(ctx, "test-key"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok, _ := adapter.Get(ctx, "test-key"); ok {
		t.Error("expected key gone after delete")
	}
}

func TestSQLAdapter_MissingKey(t *testing.T) {
	adapter := getSQLAdapter(t)

	_, ok, err := adapter.Get(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("missing key must not be an error, got %v", err)
	}
	if ok {
		t.Error("expected ok=false for nonexistent key")
	}
}
