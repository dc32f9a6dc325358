package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/prathmeshnaik91/skinet/internal/domain"
	"github.com/prathmeshnaik91/skinet/internal/repository/specification"
	"github.com/prathmeshnaik91/skinet/internal/service"
	"github.com/prathmeshnaik91/skinet/pkg/health"
	"github.com/prathmeshnaik91/skinet/pkg/middleware"
	"github.com/prathmeshnaik91/skinet/pkg/pagination"
)

// ============================================================================
// Mock services
// ============================================================================

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) ListProducts(ctx context.Context, params specification.ProductSpecParams) (pagination.Page[service.ProductToReturn], error) {
	args := m.Called(ctx, params)
	return args.Get(0).(pagination.Page[service.ProductToReturn]), args.Error(1)
}

func (m *mockCatalog) GetProduct(ctx context.Context, id int) (*service.ProductToReturn, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProductToReturn), args.Error(1)
}

func (m *mockCatalog) ListBrands(ctx context.Context) ([]domain.ProductBrand, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProductBrand), args.Error(1)
}

func (m *mockCatalog) ListTypes(ctx context.Context) ([]domain.ProductType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProductType), args.Error(1)
}

type mockBaskets struct{ mock.Mock }

func (m *mockBaskets) GetBasket(ctx context.Context, id string) (*domain.CustomerBasket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerBasket), args.Error(1)
}

func (m *mockBaskets) UpdateBasket(ctx context.Context, input service.CustomerBasketDto) (*domain.CustomerBasket, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerBasket), args.Error(1)
}

func (m *mockBaskets) DeleteBasket(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockAccounts struct{ mock.Mock }

func (m *mockAccounts) Register(ctx context.Context, input service.RegisterDto) (*service.UserDto, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserDto), args.Error(1)
}

func (m *mockAccounts) Login(ctx context.Context, input service.LoginDto) (*service.UserDto, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserDto), args.Error(1)
}

func (m *mockAccounts) CurrentUser(ctx context.Context, email string) (*service.UserDto, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserDto), args.Error(1)
}

func (m *mockAccounts) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockAccounts) GetAddress(ctx context.Context, email string) (*service.AddressDto, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AddressDto), args.Error(1)
}

func (m *mockAccounts) UpdateAddress(ctx context.Context, email string, input service.AddressDto) (*service.AddressDto, error) {
	args := m.Called(ctx, email, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AddressDto), args.Error(1)
}

// ============================================================================
// Test helpers
// ============================================================================

type memoryStore struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.entries[key]
	return b, ok, nil
}

func (s *memoryStore) Set(_ context.Context, key string, body []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		s.entries = make(map[string][]byte)
	}
	s.entries[key] = append([]byte(nil), body...)
	return nil
}

const validToken = "good-token"

func testValidator(token string) (*middleware.Claims, error) {
	if token != validToken {
		return nil, errors.New("invalid token")
	}
	return &middleware.Claims{Email: "bob@test.com", DisplayName: "Bob"}, nil
}

type testEnv struct {
	catalog  *mockCatalog
	baskets  *mockBaskets
	accounts *mockAccounts
	cache    *memoryStore
	router   http.Handler
}

func newTestEnv(exposeDetails bool, opts ...func(*RouterConfig)) *testEnv {
	env := &testEnv{
		catalog:  new(mockCatalog),
		baskets:  new(mockBaskets),
		accounts: new(mockAccounts),
		cache:    &memoryStore{},
	}
	cfg := RouterConfig{
		ServiceName:        "skinet-test",
		Logger:             slog.New(slog.NewTextHandler(io.Discard, nil)),
		ExposeErrorDetails: exposeDetails,
		CORS:               middleware.DefaultCORSConfig(),
		ResponseCache:      env.cache,
		ResponseCacheTTL:   time.Minute,
		TokenValidator:     testValidator,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	env.router = NewRouter(
		Services{Catalog: env.catalog, Basket: env.baskets, Account: env.accounts},
		health.NewHandler(),
		cfg,
	)
	return env
}
