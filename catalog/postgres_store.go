package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// PostgresStore implements Store backed by the tools table
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed Store
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectTools = `
	SELECT id, name, vendor, description, categories, use_cases,
	       has_free_tier, starting_price, pricing_model,
	       features, limitations, api_available, rating, reviews_count,
	       average_response_time, tech_level
	FROM tools`

// Add inserts a record at the end of the catalog order
func (s *PostgresStore) Add(ctx context.Context, tool *ToolRecord) error {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM tools WHERE id = $1 OR name = $2)
	`, tool.ID, tool.Name).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check tool existence: %w", err)
	}
	if exists {
		return fmt.Errorf("tool with ID %d or name %q already exists", tool.ID, tool.Name)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tools (id, position, name, vendor, description, categories, use_cases,
		                   has_free_tier, starting_price, pricing_model,
		                   features, limitations, api_available, rating, reviews_count,
		                   average_response_time, tech_level)
		SELECT $1, COALESCE(MAX(position), 0) + 1, $2, $3, $4, $5, $6,
		       $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		FROM tools
	`, tool.ID, tool.Name, tool.Vendor, tool.Description,
		pq.Array(tool.Categories), pq.Array(tool.UseCases),
		tool.Pricing.HasFreeTier, tool.Pricing.StartingPrice, string(tool.Pricing.PricingModel),
		pq.Array(tool.Features), pq.Array(tool.Limitations),
		tool.APIAvailable, tool.Rating, tool.ReviewsCount,
		tool.AverageResponseTime, tool.TechLevel)
	if err != nil {
		return fmt.Errorf("failed to insert tool: %w", err)
	}

	return nil
}

// Get retrieves a record by ID
func (s *PostgresStore) Get(ctx context.Context, id int) (*ToolRecord, error) {
	row := s.db.QueryRowContext(ctx, selectTools+` WHERE id = $1`, id)

	tool, err := scanTool(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tool %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tool: %w", err)
	}

	return tool, nil
}

// List returns every record ordered by insertion position
func (s *PostgresStore) List(ctx context.Context) ([]ToolRecord, error) {
	rows, err := s.db.QueryContext(ctx, selectTools+` ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	defer rows.Close()

	tools := []ToolRecord{}
	for rows.Next() {
		tool, err := scanTool(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tool: %w", err)
		}
		tools = append(tools, *tool)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tools: %w", err)
	}

	return tools, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTool(row scanner) (*ToolRecord, error) {
	var t ToolRecord
	var pricingModel string
	err := row.Scan(
		&t.ID, &t.Name, &t.Vendor, &t.Description,
		pq.Array(&t.Categories), pq.Array(&t.UseCases),
		&t.Pricing.HasFreeTier, &t.Pricing.StartingPrice, &pricingModel,
		pq.Array(&t.Features), pq.Array(&t.Limitations),
		&t.APIAvailable, &t.Rating, &t.ReviewsCount,
		&t.AverageResponseTime, &t.TechLevel,
	)
	if err != nil {
		return nil, err
	}
	t.Pricing.PricingModel = PricingModel(pricingModel)
	return &t, nil
}

// Seed inserts every record not already present, in order. It returns the
// number of records inserted.
func Seed(ctx context.Context, store Store, records []ToolRecord) (int, error) {
	existing, err := store.List(ctx)
	if err != nil {
		return 0, err
	}
	have := make(map[int]bool, len(existing))
	for _, t := range existing {
		have[t.ID] = true
	}

	inserted := 0
	for i := range records {
		if have[records[i].ID] {
			continue
		}
		if err := store.Add(ctx, &records[i]); err != nil {
			return inserted, fmt.Errorf("failed to seed tool %q: %w", records[i].Name, err)
		}
		inserted++
	}
	return inserted, nil
}
