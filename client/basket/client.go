// Package basket is a Go client for the store's basket endpoints. It keeps
// the shopper's current basket in memory, merges lines locally and replaces
// the server copy as a whole after every change.
package basket

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prathmeshnaik91/skinet/internal/domain"
	apperrors "github.com/prathmeshnaik91/skinet/pkg/errors"
	"github.com/prathmeshnaik91/skinet/pkg/httpclient"
)

const serviceName = "basket"

// ErrNoBasket is returned by line operations before a basket exists.
var ErrNoBasket = errors.New("no current basket")

// Product is a catalog product as returned by /api/products.
type Product struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Price        int64  `json:"price"`
	PictureURL   string `json:"pictureUrl"`
	ProductType  string `json:"productType"`
	ProductBrand string `json:"productBrand"`
}

func (p Product) basketItem() domain.BasketItem {
	return domain.BasketItem{
		ID:          p.ID,
		ProductName: p.Name,
		Price:       p.Price,
		PictureURL:  p.PictureURL,
		Brand:       p.ProductBrand,
		Type:        p.ProductType,
	}
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default resilient HTTP client.
func WithHTTPClient(hc *httpclient.CircuitBreakerClient) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithIDGenerator sets how ids for new baskets are minted.
func WithIDGenerator(fn func() string) Option {
	return func(c *Client) { c.newID = fn }
}

// Client is safe for concurrent use. Mutations are serialized and the
// in-memory basket only changes once the server accepted the new version.
type Client struct {
	baseURL string
	http    *httpclient.CircuitBreakerClient
	ids     IDStore
	logger  *slog.Logger
	newID   func() string

	mu     sync.Mutex
	basket *domain.CustomerBasket
}

// New returns a client for the API rooted at baseURL, e.g.
// "https://localhost:5001/api/".
func New(baseURL string, ids IDStore, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		ids:     ids,
		logger:  slog.Default(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		cfg := httpclient.DefaultConfig()
		cfg.Timeout = 10 * time.Second
		c.http = httpclient.NewCircuitBreakerClient(
			httpclient.New(cfg),
			httpclient.DefaultCircuitBreakerConfig("basket-client"),
			c.logger,
		)
	}
	return c
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// Load fetches the basket whose id was saved by a previous session. It is a
// no-op when no id is stored. A saved id the server rejects with a 4xx is
// forgotten so the next AddItem starts a fresh basket.
func (c *Client) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, err := c.ids.Load()
	if err != nil {
		return fmt.Errorf("load basket id: %w", err)
	}
	if id == "" {
		c.basket = nil
		return nil
	}

	u, err := c.endpoint(id)
	if err != nil {
		return err
	}
	resp, err := c.http.Get(ctx, u)
	if err != nil {
		return httpclient.AsAppError(err, serviceName)
	}
	if httpclient.IsClientError(resp.StatusCode) && resp.StatusCode != http.StatusTooManyRequests {
		_ = resp.Body.Close()
		c.logger.WarnContext(ctx, "saved basket id rejected, forgetting it",
			slog.String("basket_id", id),
			slog.Int("status", resp.StatusCode),
		)
		c.basket = nil
		if err := c.ids.Clear(); err != nil {
			return fmt.Errorf("clear basket id: %w", err)
		}
		return nil
	}
	b, err := decodeBasket(resp)
	if err != nil {
		return err
	}
	c.basket = b
	return nil
}

// Basket returns a copy of the current basket, or nil when there is none.
func (c *Client) Basket() *domain.CustomerBasket {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.basket == nil {
		return nil
	}
	return clone(c.basket)
}

// Totals reports the totals of the current basket. ok is false when there is
// no basket.
func (c *Client) Totals() (totals domain.BasketTotals, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.basket == nil {
		return domain.BasketTotals{}, false
	}
	return c.basket.Totals(), true
}

// AddItem adds qty of p, creating the basket on first use.
func (c *Client) AddItem(ctx context.Context, p Product, qty int) error {
	if qty < 1 {
		return apperrors.InvalidInput("quantity must be at least 1")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.basket
	created := next == nil
	if created {
		next = domain.NewCustomerBasket(c.newID())
	} else {
		next = clone(next)
	}
	next.AddOrUpdateItem(p.basketItem(), qty)

	if err := c.set(ctx, next); err != nil {
		return err
	}
	if created {
		if err := c.ids.Save(next.ID); err != nil {
			return fmt.Errorf("save basket id: %w", err)
		}
	}
	return nil
}

func (c *Client) IncrementItem(ctx context.Context, productID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := c.current()
	if err != nil {
		return err
	}
	it, ok := next.Item(productID)
	if !ok {
		return missingItem(productID)
	}
	if it.Quantity >= domain.MaxItemQuantity {
		return apperrors.Validation(fmt.Sprintf("quantity of product %d must not exceed %d", productID, domain.MaxItemQuantity))
	}
	next.IncrementItem(productID)
	return c.set(ctx, next)
}

// DecrementItem takes one off the line, removing it at one. Removing the last
// line deletes the basket.
func (c *Client) DecrementItem(ctx context.Context, productID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := c.current()
	if err != nil {
		return err
	}
	found, _ := next.DecrementItem(productID)
	if !found {
		return missingItem(productID)
	}
	return c.setOrDelete(ctx, next)
}

// RemoveItem drops the line. Removing a product that is not in the basket is
// a no-op.
func (c *Client) RemoveItem(ctx context.Context, productID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := c.current()
	if err != nil {
		return err
	}
	if !next.RemoveItem(productID) {
		return nil
	}
	return c.setOrDelete(ctx, next)
}

// Delete removes the basket on the server and forgets its id.
func (c *Client) Delete(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.basket == nil {
		return nil
	}
	return c.delete(ctx, c.basket.ID)
}

func (c *Client) current() (*domain.CustomerBasket, error) {
	if c.basket == nil {
		return nil, ErrNoBasket
	}
	return clone(c.basket), nil
}

func (c *Client) setOrDelete(ctx context.Context, b *domain.CustomerBasket) error {
	if b.IsEmpty() {
		return c.delete(ctx, b.ID)
	}
	return c.set(ctx, b)
}

// set replaces the server copy and adopts the server's answer.
func (c *Client) set(ctx context.Context, b *domain.CustomerBasket) error {
	u, err := url.JoinPath(c.baseURL, "basket")
	if err != nil {
		return fmt.Errorf("build basket url: %w", err)
	}
	body, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode basket: %w", err)
	}

	resp, err := c.http.Post(ctx, u, "application/json", bytes.NewReader(body))
	if err != nil {
		return httpclient.AsAppError(err, serviceName)
	}
	saved, err := decodeBasket(resp)
	if err != nil {
		return err
	}
	c.basket = saved
	c.logger.DebugContext(ctx, "basket updated",
		slog.String("basket_id", saved.ID),
		slog.Int("item_count", saved.ItemCount()),
	)
	return nil
}

func (c *Client) delete(ctx context.Context, id string) error {
	u, err := c.endpoint(id)
	if err != nil {
		return err
	}
	resp, err := c.http.Delete(ctx, u)
	if err != nil {
		return httpclient.AsAppError(err, serviceName)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return httpclient.ParseResponseError(resp, serviceName)
	}
	_ = resp.Body.Close()

	c.basket = nil
	if err := c.ids.Clear(); err != nil {
		return fmt.Errorf("clear basket id: %w", err)
	}
	c.logger.DebugContext(ctx, "basket deleted", slog.String("basket_id", id))
	return nil
}

func (c *Client) endpoint(id string) (string, error) {
	u, err := url.JoinPath(c.baseURL, "basket")
	if err != nil {
		return "", fmt.Errorf("build basket url: %w", err)
	}
	return u + "?" + url.Values{"id": {id}}.Encode(), nil
}

func decodeBasket(resp *http.Response) (*domain.CustomerBasket, error) {
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, httpclient.ParseResponseError(resp, serviceName)
	}
	defer func() { _ = resp.Body.Close() }()

	var b domain.CustomerBasket
	if err := json.NewDecoder(resp.Body).Decode(&b); err != nil {
		return nil, fmt.Errorf("decode basket: %w", err)
	}
	if b.Items == nil {
		b.Items = []domain.BasketItem{}
	}
	return &b, nil
}

func clone(b *domain.CustomerBasket) *domain.CustomerBasket {
	items := make([]domain.BasketItem, len(b.Items))
	copy(items, b.Items)
	return &domain.CustomerBasket{ID: b.ID, Items: items}
}

func missingItem(productID int) error {
	return apperrors.NotFound("basket item", fmt.Sprint(productID))
}
