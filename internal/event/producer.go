package event

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/prathmeshnaik91/skinet/internal/domain"
	pkgkafka "github.com/prathmeshnaik91/skinet/pkg/kafka"
	"github.com/prathmeshnaik91/skinet/pkg/logger"
)

const AggregateTypeBasket = "basket"

const SourceStoreAPI = "skinet-api"

// MetadataTraceID lets consumers that ignore message headers still join the
// event to the request trace.
const MetadataTraceID = "trace_id"

var (
	TopicBasketUpdated = pkgkafka.Topic(AggregateTypeBasket, "updated")
	TopicBasketDeleted = pkgkafka.Topic(AggregateTypeBasket, "deleted")
)

// BasketUpdatedData is the payload of store.basket.updated.
type BasketUpdatedData struct {
	BasketID  string           `json:"basket_id"`
	Items     []BasketItemData `json:"items"`
	ItemCount int              `json:"item_count"`
	Subtotal  int64            `json:"subtotal"`
}

type BasketItemData struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// BasketDeletedData is the payload of store.basket.deleted.
type BasketDeletedData struct {
	BasketID string `json:"basket_id"`
}

// Producer publishes basket events. Errors are returned unlogged; the basket
// service logs them once and carries on.
type Producer struct {
	publisher pkgkafka.Publisher
	logger    *slog.Logger
}

// NewProducer wraps publisher. A nil publisher is replaced with a no-op.
func NewProducer(publisher pkgkafka.Publisher, logger *slog.Logger) *Producer {
	if publisher == nil {
		publisher = pkgkafka.NoopPublisher{}
	}
	return &Producer{publisher: publisher, logger: logger}
}

func (p *Producer) PublishBasketUpdated(ctx context.Context, basket *domain.CustomerBasket) error {
	items := make([]BasketItemData, len(basket.Items))
	for i, it := range basket.Items {
		items[i] = BasketItemData{
			ProductID: it.ID,
			Name:      it.ProductName,
			Price:     it.Price,
			Quantity:  it.Quantity,
		}
	}

	data := BasketUpdatedData{
		BasketID:  basket.ID,
		Items:     items,
		ItemCount: basket.ItemCount(),
		Subtotal:  basket.Totals().Subtotal,
	}

	if err := p.publish(ctx, TopicBasketUpdated, basket.ID, data); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "published basket.updated event",
		slog.String("basket_id", basket.ID),
		slog.Int("item_count", data.ItemCount),
	)
	return nil
}

func (p *Producer) PublishBasketDeleted(ctx context.Context, basketID string) error {
	if err := p.publish(ctx, TopicBasketDeleted, basketID, BasketDeletedData{BasketID: basketID}); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "published basket.deleted event", slog.String("basket_id", basketID))
	return nil
}

func (p *Producer) publish(ctx context.Context, topic, basketID string, data any) error {
	evt, err := pkgkafka.NewEvent(topic, basketID, AggregateTypeBasket, SourceStoreAPI, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.WithCorrelationID(id)
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		evt.WithMetadata(MetadataTraceID, sc.TraceID().String())
	}

	if err := p.publisher.Publish(ctx, topic, evt); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}
	return nil
}
