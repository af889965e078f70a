// Package repository defines the screening report store interface and errors.
package repository

import (
	"context"

	"github.com/okian/oculo/internal/domain/model"
)

// Store provides read/write access to completed and in-flight screening
// reports.
type Store interface {
	// Put inserts or replaces the report under its ID.
	Put(ctx context.Context, r *model.Report) error

	// Get returns the report with the given ID.
	// Returns ErrNotFound if the ID is unknown.
	Get(ctx context.Context, id string) (*model.Report, error)

	// Recent returns at most limit reports ordered from newest to oldest.
	Recent(ctx context.Context, limit int) ([]*model.Report, error)

	// Count returns the number of reports currently retained.
	Count(ctx context.Context) int
}
