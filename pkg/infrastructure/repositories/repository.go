package repositories

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

type gormRepository struct {
	logger *log.Logger
	db     *gorm.DB
	tracer trace.TracerProvider
}

func NewGormRepository(db *gorm.DB, logger *log.Logger, tracer trace.TracerProvider) Repository {
	return &gormRepository{
		logger: logger,
		db:     db,
		tracer: tracer,
	}
}

// OpenPostgres connects with duplicate-key errors translated to gorm.ErrDuplicatedKey
func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the tables owned by this package
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&UserEntity{}, &ProfileEntity{})
}

func (r *gormRepository) DB() *gorm.DB {
	return r.db
}

func (r *gormRepository) GetAll(ctx context.Context, target any, orderBy string) error {
	ctx, span := r.trace(ctx, "repository.get-all")
	if span != nil {
		defer span.End()
		span.SetAttributes(attribute.String("gorm.entity", fmt.Sprintf("%T", target)))
	}

	db := r.db.WithContext(ctx)
	if orderBy != "" {
		db = db.Order(orderBy)
	}
	return r.HandleError(ctx, db.Find(target), span)
}

func (r *gormRepository) GetOneByField(ctx context.Context, target any, field string, value any) error {
	ctx, span := r.trace(ctx, "repository.get-one-by-field")
	if span != nil {
		defer span.End()
		span.SetAttributes(
			attribute.String("gorm.entity", fmt.Sprintf("%T", target)),
			attribute.String("gorm.field", field),
		)
	}

	res := r.db.WithContext(ctx).
		Where(fmt.Sprintf("%v = ?", field), value).
		Limit(1).
		Find(target)

	return r.HandleOneError(ctx, res, span)
}

func (r *gormRepository) GetOneByID(ctx context.Context, target any, id any) error {
	return r.GetOneByField(ctx, target, "id", id)
}

func (r *gormRepository) Create(ctx context.Context, target any) error {
	ctx, span := r.trace(ctx, "repository.create")
	if span != nil {
		defer span.End()
		span.SetAttributes(attribute.String("gorm.entity", fmt.Sprintf("%T", target)))
	}

	return r.HandleError(ctx, r.db.WithContext(ctx).Create(target), span)
}

func (r *gormRepository) Save(ctx context.Context, target any) error {
	ctx, span := r.trace(ctx, "repository.save")
	if span != nil {
		defer span.End()
		span.SetAttributes(attribute.String("gorm.entity", fmt.Sprintf("%T", target)))
	}

	return r.HandleError(ctx, r.db.WithContext(ctx).Save(target), span)
}

func (r *gormRepository) Upsert(ctx context.Context, target any, onConflict clause.OnConflict) error {
	ctx, span := r.trace(ctx, "repository.upsert")
	if span != nil {
		defer span.End()
		span.SetAttributes(attribute.String("gorm.entity", fmt.Sprintf("%T", target)))
	}

	res := r.db.WithContext(ctx).Clauses(onConflict).Create(target)
	return r.HandleError(ctx, res, span)
}

func (r *gormRepository) DeleteWhere(ctx context.Context, target any, condition string, args ...any) (int64, error) {
	ctx, span := r.trace(ctx, "repository.delete-where")
	if span != nil {
		defer span.End()
		span.SetAttributes(
			attribute.String("gorm.entity", fmt.Sprintf("%T", target)),
			attribute.String("gorm.condition", condition),
		)
	}

	res := r.db.WithContext(ctx).Where(condition, args...).Delete(target)
	if err := r.HandleError(ctx, res, span); err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}

func (r *gormRepository) HandleError(ctx context.Context, res *gorm.DB, span trace.Span) error {
	if res.Error != nil && !errors.Is(res.Error, gorm.ErrRecordNotFound) {
		err := fmt.Errorf("error: %w", res.Error)
		if span != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		r.logger.WithContext(ctx).WithError(res.Error).Debug("gorm query failed")
		return err
	}

	return nil
}

func (r *gormRepository) HandleOneError(ctx context.Context, res *gorm.DB, span trace.Span) error {
	if err := r.HandleError(ctx, res, span); err != nil {
		return err
	}

	if res.RowsAffected != 1 {
		return ErrNotFound
	}

	return nil
}

func (r *gormRepository) trace(ctx context.Context, name string) (context.Context, trace.Span) {
	// Only create span if there's a parent span in context, so reads without a root span stay untraced
	parentSpan := trace.SpanFromContext(ctx)
	if !parentSpan.SpanContext().IsValid() {
		return ctx, nil
	}

	tracer := r.tracer.Tracer("gorm.repository")
	return tracer.Start(ctx, name)
}
