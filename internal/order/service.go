package order

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"clothingshop/internal/eventbus"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var (
	// ErrItemOutOfStock means the requested quantity exceeded the stock
	// reported by the catalog at check time.
	ErrItemOutOfStock = errors.New("order: item out of stock")

	// ErrCatalogUnavailable means the synchronous stock check failed; no
	// order was created and no event was published.
	ErrCatalogUnavailable = errors.New("order: catalog service unavailable")
)

// Service is the order coordinator: synchronous stock check, optimistic
// local commit, asynchronous notification.
type Service struct {
	store     *Store
	publisher eventbus.Publisher
	catalog   StockClient
	logger    *zap.Logger
	tracer    trace.Tracer
	source    string
}

func NewService(store *Store, publisher eventbus.Publisher, catalog StockClient, logger *zap.Logger, source string) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		catalog:   catalog,
		logger:    logger,
		tracer:    otel.Tracer("order-service"),
		source:    source,
	}
}

// PlaceOrder runs the reservation protocol for one request.
//
// The stock check is a live network query; its failure aborts the order with
// ErrCatalogUnavailable. A quantity above the returned stock aborts with
// ErrItemOutOfStock. Otherwise the order is committed locally and an
// order_placed envelope is published keyed by item id. The commit is the
// consistency boundary: a failed publish is logged and swallowed, and the
// order still counts as placed — stock reconciliation is eventual with no
// compensating transaction if the event is lost.
//
// Two concurrent orders for the same item can both pass the stock check
// against the same stale snapshot, so committed quantities may sum to more
// than available stock. That is the documented behavior of this protocol,
// not a defect to fix here.
func (s *Service) PlaceOrder(ctx context.Context, req Request) (Order, error) {
	ctx, span := s.tracer.Start(ctx, "place_order")
	defer span.End()
	span.SetAttributes(
		attribute.Int("item.id", int(req.ItemID)),
		attribute.Int("order.quantity", int(req.Quantity)),
	)

	s.logger.Info("handling a request to place an order",
		zap.Uint32("item_id", req.ItemID),
		zap.Uint32("quantity", req.Quantity),
	)

	stock, err := s.catalog.GetStock(ctx, req.ItemID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "catalog query failed")
		s.logger.Error("an error occurred whilst contacting catalog", zap.Error(err))
		return Order{}, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	if req.Quantity > stock {
		span.SetStatus(codes.Error, "item out of stock")
		return Order{}, ErrItemOutOfStock
	}

	committed := s.store.AddOrder(req)

	env := eventbus.NewEnvelope(
		eventbus.EventOrderPlaced,
		eventbus.OrderPlaced{ItemID: req.ItemID, Quantity: req.Quantity},
		s.source,
		uuid.NewString(),
		nil,
	)
	key := strconv.FormatUint(uint64(req.ItemID), 10)
	if err := s.publisher.Publish(ctx, env, eventbus.TopicOrderPlaced, key); err != nil {
		// Notification loss is tolerated: the order is already committed.
		span.RecordError(err)
		s.logger.Error("could not send order_placed event",
			zap.Uint32("order_id", committed.OrderID),
			zap.Error(err),
		)
	}

	span.SetStatus(codes.Ok, "order placed")
	s.logger.Info("order placed",
		zap.Uint32("order_id", committed.OrderID),
		zap.Uint32("item_id", committed.ItemID),
	)
	return committed, nil
}
