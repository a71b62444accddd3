//go:build integration
// +build integration

package catalog_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/prajjawal-kansara/AIdvisor/catalog"
)

// setupTestDB creates a PostgreSQL container with the tools table
func setupTestDB(t *testing.T) (*sql.DB, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "catalog_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	connStr := fmt.Sprintf("host=%s port=%s user=test password=test dbname=catalog_test sslmode=disable", host, port.Port())

	var db *sql.DB
	for i := 0; i < 30; i++ {
		db, err = sql.Open("postgres", connStr)
		if err == nil {
			if err = db.Ping(); err == nil {
				break
			}
		}
		time.Sleep(time.Second)
	}
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	migrationSQL, err := os.ReadFile(filepath.Join("..", "migrations", "000001_create_tools.up.sql"))
	if err != nil {
		t.Fatalf("Failed to read migration file: %v", err)
	}
	if _, err := db.Exec(string(migrationSQL)); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	cleanup := func() {
		db.Close()
		container.Terminate(ctx)
	}

	return db, cleanup
}

// TestPostgresStore_SeedAndLoad seeds the built-in catalog and loads it back in order
func TestPostgresStore_SeedAndLoad(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := catalog.NewPostgresStore(db)

	records, err := catalog.SeedRecords()
	if err != nil {
		t.Fatalf("SeedRecords() failed: %v", err)
	}

	inserted, err := catalog.Seed(ctx, store, records)
	if err != nil {
		t.Fatalf("Seed() failed: %v", err)
	}
	if inserted != len(records) {
		t.Errorf("Seed() inserted %d, want %d", inserted, len(records))
	}

	c, err := catalog.Load(ctx, store)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if c.Len() != len(records) {
		t.Fatalf("Len() = %d, want %d", c.Len(), len(records))
	}

	for i, tool := range c.All() {
		if tool.Name != records[i].Name {
			t.Errorf("tool %d = %q, want %q", i, tool.Name, records[i].Name)
		}
	}

	zapier, ok := c.ByName("Zapier AI")
	if !ok {
		t.Fatal("Zapier AI missing after round trip")
	}
	if len(zapier.Categories) != 3 || zapier.Pricing.PricingModel != catalog.PricingSubscription {
		t.Errorf("Zapier AI round trip mismatch: %+v", zapier)
	}
}

func TestPostgresStore_GetAndDuplicates(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := catalog.NewPostgresStore(db)

	records, _ := catalog.SeedRecords()
	tool := records[0]

	if err := store.Add(ctx, &tool); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if err := store.Add(ctx, &tool); err == nil {
		t.Error("Add() of a duplicate should fail")
	}

	got, err := store.Get(ctx, tool.ID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.Name != tool.Name || got.TechLevel != tool.TechLevel {
		t.Errorf("Get() = %+v, want %+v", got, tool)
	}

	if _, err := store.Get(ctx, 9999); err == nil {
		t.Error("Get() of missing ID should fail")
	}
}
