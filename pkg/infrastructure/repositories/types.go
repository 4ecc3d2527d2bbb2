package repositories

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned by the single-row getters when no row matches
var ErrNotFound = errors.New("record not found")

// Repository is a generic DB handler that cares about default error handling
type Repository interface {
	GetAll(ctx context.Context, target any, orderBy string) error
	GetOneByField(ctx context.Context, target any, field string, value any) error
	GetOneByID(ctx context.Context, target any, id any) error

	Create(ctx context.Context, target any) error
	Save(ctx context.Context, target any) error
	// Upsert inserts target or, on conflict, applies onConflict
	Upsert(ctx context.Context, target any, onConflict clause.OnConflict) error
	// DeleteWhere returns the number of deleted rows
	DeleteWhere(ctx context.Context, target any, condition string, args ...any) (int64, error)

	DB() *gorm.DB
	HandleError(ctx context.Context, res *gorm.DB, span trace.Span) error
	HandleOneError(ctx context.Context, res *gorm.DB, span trace.Span) error
}
