package specification

import (
	"strings"

	"github.com/prathmeshnaik91/skinet/internal/domain"
	"github.com/prathmeshnaik91/skinet/pkg/pagination"
)

// ProductSpecParams are the catalog query-string filters.
type ProductSpecParams struct {
	BrandID *int
	TypeID  *int
	Sort    string
	search  string
	pagination.Params
}

// NewProductSpecParams returns params for the first page of the default size.
func NewProductSpecParams() ProductSpecParams {
	return ProductSpecParams{Params: pagination.DefaultParams()}
}

// SetSearch stores the term trimmed and lower-cased.
func (p *ProductSpecParams) SetSearch(term string) {
	p.search = strings.ToLower(strings.TrimSpace(term))
}

func (p ProductSpecParams) Search() string {
	return p.search
}

func productFilter(p ProductSpecParams) Criterion {
	return And(
		When(p.search != "", ContainsFold("products.name", p.search)),
		When(p.BrandID != nil, Eq("products.product_brand_id", deref(p.BrandID))),
		When(p.TypeID != nil, Eq("products.product_type_id", deref(p.TypeID))),
	)
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// ProductsWithTypesAndBrands lists one page of products with their brand and
// type, filtered and sorted by p.
func ProductsWithTypesAndBrands(p ProductSpecParams) Specification[domain.Product] {
	s := NewBaseSpecification[domain.Product](productFilter(p))
	s.AddInclude("ProductType")
	s.AddInclude("ProductBrand")

	switch p.Sort {
	case domain.SortByPriceAsc:
		s.AddOrderBy("products.price")
	case domain.SortByPriceDesc:
		s.AddOrderByDescending("products.price")
	default:
		s.AddOrderBy("products.name")
	}

	params := p.Params.Normalize()
	s.ApplyPaging(params.Skip(), params.Take())
	return s
}

// ProductsWithTypesAndBrandsByID loads a single product with its brand and type.
func ProductsWithTypesAndBrandsByID(id int) Specification[domain.Product] {
	s := NewBaseSpecification[domain.Product](Eq("products.id", id))
	s.AddInclude("ProductType")
	s.AddInclude("ProductBrand")
	return s
}

// ProductsWithFiltersForCount applies the listing filter only.
func ProductsWithFiltersForCount(p ProductSpecParams) Specification[domain.Product] {
	return NewBaseSpecification[domain.Product](productFilter(p))
}

// BrandsByName lists all brands alphabetically.
func BrandsByName() Specification[domain.ProductBrand] {
	s := NewBaseSpecification[domain.ProductBrand]()
	s.AddOrderBy("name")
	return s
}

// TypesByName lists all types alphabetically.
func TypesByName() Specification[domain.ProductType] {
	s := NewBaseSpecification[domain.ProductType]()
	s.AddOrderBy("name")
	return s
}
