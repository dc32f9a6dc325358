package domain

// MaxItemQuantity caps a line after lines for the same product are merged.
const MaxItemQuantity = 100

// CustomerBasket is the cart the storefront keeps under an opaque id.
// It is always replaced as a whole.
type CustomerBasket struct {
	ID    string       `json:"id"`
	Items []BasketItem `json:"items"`
}

// BasketItem is a product line. ID is the product id; Price is in cents.
type BasketItem struct {
	ID          int    `json:"id"`
	ProductName string `json:"productName"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
	PictureURL  string `json:"pictureUrl"`
	Brand       string `json:"brand"`
	Type        string `json:"type"`
}

// BasketTotals is computed from the items. Shipping is always zero.
type BasketTotals struct {
	Shipping int64 `json:"shipping"`
	Subtotal int64 `json:"subtotal"`
	Total    int64 `json:"total"`
}

// NewCustomerBasket returns an empty basket with non-nil items.
func NewCustomerBasket(id string) *CustomerBasket {
	return &CustomerBasket{ID: id, Items: []BasketItem{}}
}

func (b *CustomerBasket) indexOf(productID int) int {
	for i := range b.Items {
		if b.Items[i].ID == productID {
			return i
		}
	}
	return -1
}

// Item returns the line for productID.
func (b *CustomerBasket) Item(productID int) (BasketItem, bool) {
	if i := b.indexOf(productID); i >= 0 {
		return b.Items[i], true
	}
	return BasketItem{}, false
}

// AddOrUpdateItem appends item with quantity qty, or adds qty to the existing
// line for the same product.
func (b *CustomerBasket) AddOrUpdateItem(item BasketItem, qty int) {
	if i := b.indexOf(item.ID); i >= 0 {
		b.Items[i].Quantity += qty
		return
	}
	item.Quantity = qty
	b.Items = append(b.Items, item)
}

// IncrementItem adds one to the line. It reports false if the product is not
// in the basket.
func (b *CustomerBasket) IncrementItem(productID int) bool {
	i := b.indexOf(productID)
	if i < 0 {
		return false
	}
	b.Items[i].Quantity++
	return true
}

// DecrementItem takes one from the line, removing it once it would drop
// below one. removed reports that the line was dropped.
func (b *CustomerBasket) DecrementItem(productID int) (found, removed bool) {
	i := b.indexOf(productID)
	if i < 0 {
		return false, false
	}
	if b.Items[i].Quantity > 1 {
		b.Items[i].Quantity--
		return true, false
	}
	b.RemoveItem(productID)
	return true, true
}

// RemoveItem drops the line for productID. It reports whether a line was
// dropped.
func (b *CustomerBasket) RemoveItem(productID int) bool {
	i := b.indexOf(productID)
	if i < 0 {
		return false
	}
	b.Items = append(b.Items[:i], b.Items[i+1:]...)
	return true
}

func (b *CustomerBasket) IsEmpty() bool {
	return len(b.Items) == 0
}

// ItemCount is the sum of all quantities.
func (b *CustomerBasket) ItemCount() int {
	var n int
	for _, it := range b.Items {
		n += it.Quantity
	}
	return n
}

func (b *CustomerBasket) Totals() BasketTotals {
	var subtotal int64
	for _, it := range b.Items {
		subtotal += it.Price * int64(it.Quantity)
	}
	const shipping = 0
	return BasketTotals{Shipping: shipping, Subtotal: subtotal, Total: subtotal + shipping}
}
