package domain

// Sort values accepted by the product listing.
const (
	SortByName      = "name"
	SortByPriceAsc  = "priceAsc"
	SortByPriceDesc = "priceDesc"
)

// Product is a catalog entry. Price is in cents.
type Product struct {
	ID             int           `gorm:"primaryKey" json:"id"`
	Name           string        `gorm:"size:100;not null" json:"name"`
	Description    string        `gorm:"size:180;not null" json:"description"`
	Price          int64         `gorm:"not null" json:"price"`
	PictureURL     string        `gorm:"column:picture_url;not null" json:"pictureUrl"`
	ProductTypeID  int           `gorm:"not null" json:"productTypeId"`
	ProductType    *ProductType  `json:"productType,omitempty"`
	ProductBrandID int           `gorm:"not null" json:"productBrandId"`
	ProductBrand   *ProductBrand `json:"productBrand,omitempty"`
}

// ProductBrand groups products by manufacturer.
type ProductBrand struct {
	ID   int    `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`
}

// ProductType groups products by kind.
type ProductType struct {
	ID   int    `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`
}

// ValidSortByValues returns the accepted sort values.
func ValidSortByValues() []string {
	return []string{SortByName, SortByPriceAsc, SortByPriceDesc}
}

// IsValidSortBy reports whether s is a known sort value. Empty means default.
func IsValidSortBy(s string) bool {
	if s == "" {
		return true
	}
	for _, v := range ValidSortByValues() {
		if v == s {
			return true
		}
	}
	return false
}
