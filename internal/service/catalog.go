package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/prathmeshnaik91/skinet/internal/domain"
	"github.com/prathmeshnaik91/skinet/internal/repository"
	"github.com/prathmeshnaik91/skinet/internal/repository/specification"
	apperrors "github.com/prathmeshnaik91/skinet/pkg/errors"
	"github.com/prathmeshnaik91/skinet/pkg/pagination"
)

// ReferenceDataTTL is how long brand and type lists are kept in memory.
const ReferenceDataTTL = 10 * time.Minute

const (
	brandsKey = "brands"
	typesKey  = "types"
)

// ProductToReturn is the catalog representation of a product. Brand and
// type are flattened to their names and the picture URL is absolute.
type ProductToReturn struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Price        int64  `json:"price"`
	PictureURL   string `json:"pictureUrl"`
	ProductType  string `json:"productType"`
	ProductBrand string `json:"productBrand"`
}

// CatalogService serves the read-only product catalog.
type CatalogService struct {
	products repository.Repository[domain.Product]
	brands   repository.Repository[domain.ProductBrand]
	types    repository.Repository[domain.ProductType]
	apiURL   string
	refCache *cache.Cache
	logger   *slog.Logger
}

func NewCatalogService(
	products repository.Repository[domain.Product],
	brands repository.Repository[domain.ProductBrand],
	types repository.Repository[domain.ProductType],
	apiURL string,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		products: products,
		brands:   brands,
		types:    types,
		apiURL:   apiURL,
		refCache: cache.New(ReferenceDataTTL, 2*ReferenceDataTTL),
		logger:   logger,
	}
}

// ListProducts returns one page of products together with the total number
// of products matching the filter. Unknown sort values fall back to name.
func (s *CatalogService) ListProducts(ctx context.Context, params specification.ProductSpecParams) (pagination.Page[ProductToReturn], error) {
	params.Params = params.Params.Normalize()

	var (
		products []domain.Product
		count    int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.products.List(gctx, specification.ProductsWithTypesAndBrands(params))
		return err
	})
	g.Go(func() error {
		var err error
		count, err = s.products.Count(gctx, specification.ProductsWithFiltersForCount(params))
		return err
	})
	if err := g.Wait(); err != nil {
		return pagination.Page[ProductToReturn]{}, fmt.Errorf("list products: %w", err)
	}

	data := make([]ProductToReturn, len(products))
	for i := range products {
		data[i] = s.toReturn(&products[i])
	}
	return pagination.NewPage(params.Params, count, data), nil
}

// GetProduct returns a single product or a 404 error.
func (s *CatalogService) GetProduct(ctx context.Context, id int) (*ProductToReturn, error) {
	product, err := s.products.GetEntityWithSpec(ctx, specification.ProductsWithTypesAndBrandsByID(id))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("product", strconv.Itoa(id))
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	dto := s.toReturn(product)
	return &dto, nil
}

func (s *CatalogService) ListBrands(ctx context.Context) ([]domain.ProductBrand, error) {
	return cached(ctx, s, brandsKey, func(ctx context.Context) ([]domain.ProductBrand, error) {
		return s.brands.List(ctx, specification.BrandsByName())
	})
}

func (s *CatalogService) ListTypes(ctx context.Context) ([]domain.ProductType, error) {
	return cached(ctx, s, typesKey, func(ctx context.Context) ([]domain.ProductType, error) {
		return s.types.List(ctx, specification.TypesByName())
	})
}

func cached[T any](ctx context.Context, s *CatalogService, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	if v, ok := s.refCache.Get(key); ok {
		return v.([]T), nil
	}

	items, err := load(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", key, err)
	}
	if items == nil {
		items = []T{}
	}
	s.refCache.Set(key, items, cache.DefaultExpiration)
	s.logger.DebugContext(ctx, "reference data loaded", slog.String("key", key), slog.Int("count", len(items)))
	return items, nil
}

func (s *CatalogService) toReturn(p *domain.Product) ProductToReturn {
	dto := ProductToReturn{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		PictureURL:  pictureURL(s.apiURL, p.PictureURL),
	}
	if p.ProductBrand != nil {
		dto.ProductBrand = p.ProductBrand.Name
	}
	if p.ProductType != nil {
		dto.ProductType = p.ProductType.Name
	}
	return dto
}

func pictureURL(apiURL, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return apiURL + strings.TrimPrefix(path, "/")
}
