package catalog

import (
	"context"
	"fmt"
	"sync"
)

// Store is where catalog records are read from at startup
type Store interface {
	// Add a new record
	Add(ctx context.Context, tool *ToolRecord) error

	// Get a record by ID
	Get(ctx context.Context, id int) (*ToolRecord, error)

	// List all records in catalog order
	List(ctx context.Context) ([]ToolRecord, error)
}

// InMemoryStore implements Store on a slice, keeping insertion order
type InMemoryStore struct {
	tools []ToolRecord
	index map[int]int
	mu    sync.RWMutex
}

// NewInMemoryStore creates a store preloaded with records
func NewInMemoryStore(records ...ToolRecord) (*InMemoryStore, error) {
	s := &InMemoryStore{
		index: make(map[int]int),
	}
	for i := range records {
		if err := s.Add(context.Background(), &records[i]); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add appends a record; IDs must be unique
func (s *InMemoryStore) Add(_ context.Context, tool *ToolRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[tool.ID]; exists {
		return fmt.Errorf("tool with ID %d already exists", tool.ID)
	}

	s.index[tool.ID] = len(s.tools)
	s.tools = append(s.tools, tool.clone())
	return nil
}

// Get retrieves a record by ID
func (s *InMemoryStore) Get(_ context.Context, id int) (*ToolRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, exists := s.index[id]
	if !exists {
		return nil, fmt.Errorf("tool with ID %d not found", id)
	}
	t := s.tools[i].clone()
	return &t, nil
}

// List returns every record in insertion order
func (s *InMemoryStore) List(_ context.Context) ([]ToolRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ToolRecord, len(s.tools))
	for i, t := range s.tools {
		out[i] = t.clone()
	}
	return out, nil
}
