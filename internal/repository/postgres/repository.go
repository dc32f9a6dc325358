package postgres

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/prathmeshnaik91/skinet/internal/repository"
	"github.com/prathmeshnaik91/skinet/internal/repository/specification"
	apperrors "github.com/prathmeshnaik91/skinet/pkg/errors"
	"github.com/prathmeshnaik91/skinet/pkg/database"
)

var _ repository.Repository[struct{}] = (*Repository[struct{}])(nil)

// Repository is a GORM-backed generic repository for entity type T.
type Repository[T any] struct {
	db     *gorm.DB
	entity string
}

// NewRepository returns a repository for T. Spans and metrics are labelled
// with T's type name.
func NewRepository[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db, entity: reflect.TypeOf((*T)(nil)).Elem().Name()}
}

func (r *Repository[T]) op(name string) string {
	return r.entity + "." + name
}

func (r *Repository[T]) GetByID(ctx context.Context, id any) (_ *T, err error) {
	ctx, end := database.TraceQuery(ctx, r.op("GetByID"), "")
	defer func() { end(err) }()

	var entity T
	err = r.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.PrimaryColumn, Value: id}).
		Take(&entity).Error
	if err != nil {
		return nil, r.translate("get by id", err)
	}
	return &entity, nil
}

func (r *Repository[T]) ListAll(ctx context.Context) (_ []T, err error) {
	ctx, end := database.TraceQuery(ctx, r.op("ListAll"), "")
	defer func() { end(err) }()

	entities := []T{}
	if err = r.db.WithContext(ctx).Find(&entities).Error; err != nil {
		return nil, r.translate("list all", err)
	}
	return entities, nil
}

func (r *Repository[T]) GetEntityWithSpec(ctx context.Context, spec specification.Specification[T]) (_ *T, err error) {
	ctx, end := database.TraceQuery(ctx, r.op("GetEntityWithSpec"), "")
	defer func() { end(err) }()

	var entity T
	if err = Apply[T](r.db.WithContext(ctx), spec).Take(&entity).Error; err != nil {
		return nil, r.translate("get with spec", err)
	}
	return &entity, nil
}

func (r *Repository[T]) List(ctx context.Context, spec specification.Specification[T]) (_ []T, err error) {
	ctx, end := database.TraceQuery(ctx, r.op("List"), "")
	defer func() { end(err) }()

	entities := []T{}
	if err = Apply[T](r.db.WithContext(ctx), spec).Find(&entities).Error; err != nil {
		return nil, r.translate("list", err)
	}
	return entities, nil
}

func (r *Repository[T]) Count(ctx context.Context, spec specification.Specification[T]) (_ int64, err error) {
	ctx, end := database.TraceQuery(ctx, r.op("Count"), "")
	defer func() { end(err) }()

	var n int64
	if err = applyCriteria[T](r.db.WithContext(ctx).Model(spec.Model()), spec).Count(&n).Error; err != nil {
		return 0, r.translate("count", err)
	}
	return n, nil
}

func (r *Repository[T]) Add(ctx context.Context, entity *T) (err error) {
	ctx, end := database.TraceQuery(ctx, r.op("Add"), "")
	defer func() { end(err) }()

	if err = r.db.WithContext(ctx).Omit(clause.Associations).Create(entity).Error; err != nil {
		return r.translate("add", err)
	}
	return nil
}

// Update saves every column of entity. Associations are left untouched.
func (r *Repository[T]) Update(ctx context.Context, entity *T) (err error) {
	ctx, end := database.TraceQuery(ctx, r.op("Update"), "")
	defer func() { end(err) }()

	if err = r.db.WithContext(ctx).Omit(clause.Associations).Save(entity).Error; err != nil {
		return r.translate("update", err)
	}
	return nil
}

func (r *Repository[T]) translate(action string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s %s: %w: %w", action, r.entity, apperrors.ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s %s: %w: %w", action, r.entity, apperrors.ErrAlreadyExists, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s %s: %w: %w", action, r.entity, apperrors.ErrConflict, err)
	default:
		return fmt.Errorf("%s %s: %w", action, r.entity, err)
	}
}
