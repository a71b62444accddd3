package catalog

import (
	"context"
	"testing"
)

// TestStoreInterfaceExists verifies the stores implement Store
func TestStoreInterfaceExists(t *testing.T) {
	var _ Store = (*InMemoryStore)(nil)
	var _ Store = (*PostgresStore)(nil)
}

func TestInMemoryStoreAddGet(t *testing.T) {
	ctx := context.Background()
	store, err := NewInMemoryStore()
	if err != nil {
		t.Fatalf("NewInMemoryStore() failed: %v", err)
	}

	tool := testRecords()[0]
	if err := store.Add(ctx, &tool); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	got, err := store.Get(ctx, tool.ID)
	if err != nil {
		t.Fatalf("Get() failed after Add(): %v", err)
	}
	if got.Name != tool.Name {
		t.Errorf("Get().Name = %s, want %s", got.Name, tool.Name)
	}
}

func TestInMemoryStoreAddDuplicate(t *testing.T) {
	ctx := context.Background()
	store, _ := NewInMemoryStore()

	tool := testRecords()[0]
	if err := store.Add(ctx, &tool); err != nil {
		t.Fatalf("First Add() should succeed: %v", err)
	}
	if err := store.Add(ctx, &tool); err == nil {
		t.Error("Second Add() with same ID should fail")
	}
}

func TestInMemoryStoreGetMissing(t *testing.T) {
	store, _ := NewInMemoryStore()

	if _, err := store.Get(context.Background(), 42); err == nil {
		t.Error("Get() for missing ID should return error")
	}
}

func TestInMemoryStoreListOrder(t *testing.T) {
	records := testRecords()
	// Reverse the natural ID order; List must keep insertion order
	records[0], records[2] = records[2], records[0]

	store, err := NewInMemoryStore(records...)
	if err != nil {
		t.Fatalf("NewInMemoryStore() failed: %v", err)
	}

	listed, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	for i, tool := range listed {
		if tool.ID != records[i].ID {
			t.Errorf("List()[%d].ID = %d, want %d", i, tool.ID, records[i].ID)
		}
	}
}

func TestSeedSkipsExisting(t *testing.T) {
	ctx := context.Background()
	records := testRecords()

	store, _ := NewInMemoryStore(records[0])

	inserted, err := Seed(ctx, store, records)
	if err != nil {
		t.Fatalf("Seed() failed: %v", err)
	}
	if inserted != 2 {
		t.Errorf("Seed() inserted %d, want 2", inserted)
	}

	inserted, err = Seed(ctx, store, records)
	if err != nil {
		t.Fatalf("second Seed() failed: %v", err)
	}
	if inserted != 0 {
		t.Errorf("second Seed() inserted %d, want 0", inserted)
	}
}
