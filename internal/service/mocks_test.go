package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/prathmeshnaik91/skinet/internal/domain"
	"github.com/prathmeshnaik91/skinet/internal/repository/specification"
)

// --- Mock generic repository ---

type mockRepository[T any] struct {
	mock.Mock
}

func (m *mockRepository[T]) GetByID(ctx context.Context, id any) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *mockRepository[T]) ListAll(ctx context.Context) ([]T, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *mockRepository[T]) GetEntityWithSpec(ctx context.Context, spec specification.Specification[T]) (*T, error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *mockRepository[T]) List(ctx context.Context, spec specification.Specification[T]) ([]T, error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *mockRepository[T]) Count(ctx context.Context, spec specification.Specification[T]) (int64, error) {
	args := m.Called(ctx, spec)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepository[T]) Add(ctx context.Context, entity *T) error {
	return m.Called(ctx, entity).Error(0)
}

func (m *mockRepository[T]) Update(ctx context.Context, entity *T) error {
	return m.Called(ctx, entity).Error(0)
}

// --- Mock basket repository ---

type mockBasketRepository struct {
	mock.Mock
}

func (m *mockBasketRepository) Get(ctx context.Context, id string) (*domain.CustomerBasket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerBasket), args.Error(1)
}

func (m *mockBasketRepository) Update(ctx context.Context, basket *domain.CustomerBasket) (*domain.CustomerBasket, error) {
	args := m.Called(ctx, basket)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerBasket), args.Error(1)
}

func (m *mockBasketRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// --- Mock event producer ---

type mockBasketEvents struct {
	mock.Mock
}

func (m *mockBasketEvents) PublishBasketUpdated(ctx context.Context, basket *domain.CustomerBasket) error {
	return m.Called(ctx, basket).Error(0)
}

func (m *mockBasketEvents) PublishBasketDeleted(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// --- Stub token issuer ---

type stubTokens struct{}

func (stubTokens) CreateToken(email, displayName string) (string, error) {
	return "token-for-" + email, nil
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
