package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/prathmeshnaik91/skinet/internal/domain"
	"github.com/prathmeshnaik91/skinet/internal/repository/specification"
	"github.com/prathmeshnaik91/skinet/internal/service"
	"github.com/prathmeshnaik91/skinet/pkg/httputil"
	"github.com/prathmeshnaik91/skinet/pkg/pagination"
)

// CatalogService is implemented by *service.CatalogService.
type CatalogService interface {
	ListProducts(ctx context.Context, params specification.ProductSpecParams) (pagination.Page[service.ProductToReturn], error)
	GetProduct(ctx context.Context, id int) (*service.ProductToReturn, error)
	ListBrands(ctx context.Context) ([]domain.ProductBrand, error)
	ListTypes(ctx context.Context) ([]domain.ProductType, error)
}

// BasketService is implemented by *service.BasketService.
type BasketService interface {
	GetBasket(ctx context.Context, id string) (*domain.CustomerBasket, error)
	UpdateBasket(ctx context.Context, input service.CustomerBasketDto) (*domain.CustomerBasket, error)
	DeleteBasket(ctx context.Context, id string) error
}

// AccountService is implemented by *service.AccountService.
type AccountService interface {
	Register(ctx context.Context, input service.RegisterDto) (*service.UserDto, error)
	Login(ctx context.Context, input service.LoginDto) (*service.UserDto, error)
	CurrentUser(ctx context.Context, email string) (*service.UserDto, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	GetAddress(ctx context.Context, email string) (*service.AddressDto, error)
	UpdateAddress(ctx context.Context, email string, input service.AddressDto) (*service.AddressDto, error)
}

// invalidValue mirrors the message model binding produces for a value that
// cannot be converted to the parameter type.
func invalidValue(w http.ResponseWriter, value, name string) {
	httputil.WriteJSON(w, http.StatusBadRequest, httputil.NewValidationErrorResponse([]string{
		fmt.Sprintf("The value '%s' is not valid for %s.", value, name),
	}))
}

// optionalInt parses an optional integer query parameter. It writes a 400
// and returns false when the value is present but malformed.
func optionalInt(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		invalidValue(w, raw, name)
		return nil, false
	}
	return &v, true
}
