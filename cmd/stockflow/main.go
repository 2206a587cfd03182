package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/kashif-khokhar/stockflow/internal/adapter/storage"
	"github.com/kashif-khokhar/stockflow/internal/core/service"
	"github.com/kashif-khokhar/stockflow/internal/port"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	ctx := context.Background()

	store, cleanup, err := openStore(ctx)
	if err != nil {
		log.Fatalf("failed to open storage backend: %v", err)
	}
	defer cleanup()

	svc := service.NewInventoryService(ctx, store)

	cli, err := NewCLI(svc)
	if err != nil {
		log.Fatalf("failed to initialize shell: %v", err)
	}
	defer cli.Close()

	if err := cli.Run(ctx); err != nil {
		log.Fatalf("shell error: %v", err)
	}
}

// openStore picks the key-value backend from STOCKFLOW_BACKEND. The
// file backend needs no external services and is the default.
func openStore(ctx context.Context) (port.KeyValueStore, func(), error) {
	backend := envOr("STOCKFLOW_BACKEND", "file")

	switch backend {
	case "file":
		dir := envOr("STOCKFLOW_DATA_DIR", defaultDataDir())
		adapter, err := storage.NewFileAdapter(dir)
		if err != nil {
			return nil, nil, err
		}
		return adapter, func() {}, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr: envOr("REDIS_ADDR", "localhost:6379"),
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		log.Println("connected to redis")
		return storage.NewRedisAdapter(client), func() { client.Close() }, nil

	case "mysql":
		dsn := envOr("MYSQL_DSN", "root:root@tcp(localhost:3306)/stockflow?parseTime=true")
		db, err := sql.Open("mysql", dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("open mysql: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ping mysql: %w", err)
		}
		log.Println("connected to mysql")
		adapter, err := storage.NewSQLAdapter(ctx, db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return adapter, func() { db.Close() }, nil
	}

	return nil, nil, fmt.Errorf("unknown backend %q", backend)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".stockflow")
}
