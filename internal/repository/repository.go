package repository

import (
	"context"
	"time"

	"github.com/prathmeshnaik91/skinet/internal/domain"
	"github.com/prathmeshnaik91/skinet/internal/repository/specification"
)

// Repository is the generic read/write contract over one entity type.
// Missing entities are reported with apperrors.ErrNotFound.
type Repository[T any] interface {
	// GetByID loads an entity by primary key without relations.
	GetByID(ctx context.Context, id any) (*T, error)

	// ListAll returns every row.
	ListAll(ctx context.Context) ([]T, error)

	// GetEntityWithSpec returns the first entity matching spec.
	GetEntityWithSpec(ctx context.Context, spec specification.Specification[T]) (*T, error)

	// List returns the entities matching spec, ordered and paged as it says.
	List(ctx context.Context, spec specification.Specification[T]) ([]T, error)

	// Count counts the rows matching the criteria of spec. Ordering, paging
	// and includes are ignored.
	Count(ctx context.Context, spec specification.Specification[T]) (int64, error)

	Add(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
}

// BasketRepository stores baskets by id.
type BasketRepository interface {
	// Get returns apperrors.ErrNotFound when the basket is absent or expired.
	Get(ctx context.Context, id string) (*domain.CustomerBasket, error)

	// Update replaces the stored basket, refreshes its TTL and returns it as
	// stored.
	Update(ctx context.Context, basket *domain.CustomerBasket) (*domain.CustomerBasket, error)

	// Delete reports whether a basket was removed.
	Delete(ctx context.Context, id string) (bool, error)
}

// ResponseCacheStore keeps serialized HTTP responses.
type ResponseCacheStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, body []byte, ttl time.Duration) error
}
