package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/prathmeshnaik91/skinet/internal/domain"
	"github.com/prathmeshnaik91/skinet/internal/repository"
	apperrors "github.com/prathmeshnaik91/skinet/pkg/errors"
)

// Basket ids come from clients, so baskets live under their own prefix and
// cannot overwrite response cache entries.
const basketKeyPrefix = "basket:"

var _ repository.BasketRepository = (*BasketRepository)(nil)

// BasketRepository stores each basket as a JSON string under basket:<id>.
type BasketRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewBasketRepository(client *redis.Client, ttl time.Duration) *BasketRepository {
	return &BasketRepository{client: client, ttl: ttl}
}

func (r *BasketRepository) Get(ctx context.Context, id string) (*domain.CustomerBasket, error) {
	data, err := r.client.Get(ctx, basketKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("basket", id)
		}
		return nil, fmt.Errorf("redis get basket: %w", err)
	}

	var basket domain.CustomerBasket
	if err := json.Unmarshal(data, &basket); err != nil {
		return nil, fmt.Errorf("unmarshal basket: %w", err)
	}
	if basket.Items == nil {
		basket.Items = []domain.BasketItem{}
	}
	return &basket, nil
}

// Update writes the basket with a fresh TTL and reads it back.
func (r *BasketRepository) Update(ctx context.Context, basket *domain.CustomerBasket) (*domain.CustomerBasket, error) {
	data, err := json.Marshal(basket)
	if err != nil {
		return nil, fmt.Errorf("marshal basket: %w", err)
	}

	if err := r.client.Set(ctx, basketKey(basket.ID), data, r.ttl).Err(); err != nil {
		return nil, fmt.Errorf("redis set basket: %w", err)
	}

	return r.Get(ctx, basket.ID)
}

func (r *BasketRepository) Delete(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Del(ctx, basketKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("redis del basket: %w", err)
	}
	return n > 0, nil
}

func basketKey(id string) string {
	return basketKeyPrefix + id
}
