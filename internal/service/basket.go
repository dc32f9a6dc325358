package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prathmeshnaik91/skinet/internal/domain"
	"github.com/prathmeshnaik91/skinet/internal/repository"
	apperrors "github.com/prathmeshnaik91/skinet/pkg/errors"
	"github.com/prathmeshnaik91/skinet/pkg/validator"
)

const MaxQuantityPerItem = domain.MaxItemQuantity

// CustomerBasketDto is the basket payload accepted from clients.
type CustomerBasketDto struct {
	ID    string          `json:"id" validate:"required"`
	Items []BasketItemDto `json:"items" validate:"max=50,dive"`
}

type BasketItemDto struct {
	ID          int    `json:"id" validate:"required,gt=0"`
	ProductName string `json:"productName" validate:"required"`
	Price       int64  `json:"price" validate:"gte=10"`
	Quantity    int    `json:"quantity" validate:"gte=1,lte=100"`
	PictureURL  string `json:"pictureUrl" validate:"required"`
	Brand       string `json:"brand" validate:"required"`
	Type        string `json:"type" validate:"required"`
}

// BasketEvents is the subset of the event producer the basket service uses.
type BasketEvents interface {
	PublishBasketUpdated(ctx context.Context, basket *domain.CustomerBasket) error
	PublishBasketDeleted(ctx context.Context, basketID string) error
}

// BasketService stores whole baskets; merging happens on the client.
type BasketService struct {
	repo     repository.BasketRepository
	producer BasketEvents
	logger   *slog.Logger
}

func NewBasketService(repo repository.BasketRepository, producer BasketEvents, logger *slog.Logger) *BasketService {
	return &BasketService{repo: repo, producer: producer, logger: logger}
}

// GetBasket returns the stored basket, or an empty basket with the same id
// when none is stored.
func (s *BasketService) GetBasket(ctx context.Context, id string) (*domain.CustomerBasket, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("basket id is required")
	}

	basket, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NewCustomerBasket(id), nil
		}
		return nil, fmt.Errorf("get basket: %w", err)
	}
	return basket, nil
}

// UpdateBasket replaces the stored basket with input.
func (s *BasketService) UpdateBasket(ctx context.Context, input CustomerBasketDto) (*domain.CustomerBasket, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	basket := domain.NewCustomerBasket(input.ID)
	for _, it := range input.Items {
		basket.AddOrUpdateItem(domain.BasketItem{
			ID:          it.ID,
			ProductName: it.ProductName,
			Price:       it.Price,
			PictureURL:  it.PictureURL,
			Brand:       it.Brand,
			Type:        it.Type,
		}, it.Quantity)
	}
	for _, it := range basket.Items {
		if it.Quantity > MaxQuantityPerItem {
			return nil, apperrors.Validation(fmt.Sprintf("quantity of product %d must not exceed %d", it.ID, MaxQuantityPerItem))
		}
	}

	saved, err := s.repo.Update(ctx, basket)
	if err != nil {
		return nil, fmt.Errorf("update basket: %w", err)
	}

	if err := s.producer.PublishBasketUpdated(ctx, saved); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish basket.updated event",
			slog.String("basket_id", saved.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "basket updated",
		slog.String("basket_id", saved.ID),
		slog.Int("item_count", saved.ItemCount()),
	)
	return saved, nil
}

// DeleteBasket removes the basket. Deleting an unknown basket is not an error.
func (s *BasketService) DeleteBasket(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("basket id is required")
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete basket: %w", err)
	}
	if !deleted {
		return nil
	}

	if err := s.producer.PublishBasketDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish basket.deleted event",
			slog.String("basket_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "basket deleted", slog.String("basket_id", id))
	return nil
}
