package catalog

import (
	"context"
	"errors"

	"clothingshop/internal/eventbus"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const consumerGroupID = "catalog-service-group"

// ItemDTO is the catalog listing shape sent to clients. It deliberately
// omits stock so callers have no knowledge of inventory levels.
type ItemDTO struct {
	ID          uint32   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Sizes       []string `json:"sizes"`
	Price       float32  `json:"price"`
	Images      []string `json:"images"`
	Video       string   `json:"video"`
}

func newItemDTO(item Item) ItemDTO {
	return ItemDTO{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Sizes:       item.Sizes,
		Price:       item.Price,
		Images:      item.Images,
		Video:       item.Video,
	}
}

// Service owns catalog queries and the event callback that keeps the
// authoritative stock in sync with placed orders.
type Service struct {
	store  *Store
	logger *zap.Logger
	tracer trace.Tracer
}

func NewService(store *Store, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		tracer: otel.Tracer("catalog-service"),
	}
}

// Items returns the purchasable catalog: items with zero stock are omitted.
func (s *Service) Items() []ItemDTO {
	s.logger.Info("handling a request to view the catalog")

	items := s.store.Items()
	dtos := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		if item.Stock > 0 {
			dtos = append(dtos, newItemDTO(item))
		}
	}
	return dtos
}

// Stock returns the current stock level of one item, or ErrItemNotFound.
func (s *Service) Stock(itemID uint32) (uint32, error) {
	s.logger.Info("handling a request for item stock", zap.Uint32("item_id", itemID))

	item, ok := s.store.GetItem(itemID)
	if !ok {
		return 0, ErrItemNotFound
	}
	return item.Stock, nil
}

// StartListener subscribes to the order-placed topic and spawns the
// goroutine that applies decrements as notifications arrive. It returns an
// error only if the broker subscription itself cannot be created; the
// receive loop runs until ctx is cancelled or the listener halts.
func (s *Service) StartListener(ctx context.Context, bus *eventbus.Bus) error {
	listener, err := eventbus.Subscribe[eventbus.OrderPlaced](ctx, bus, consumerGroupID, eventbus.TopicOrderPlaced)
	if err != nil {
		return err
	}

	receiver := listener.NewReceiver()
	go func() {
		for {
			env, err := receiver.Recv(ctx)
			if err != nil {
				if errors.Is(err, eventbus.ErrListenerClosed) || errors.Is(err, context.Canceled) {
					s.logger.Info("order-placed listener stopped")
				} else {
					s.logger.Error("order-placed listener halted", zap.Error(err))
				}
				return
			}
			s.ApplyOrderPlaced(ctx, env)
		}
	}()
	return nil
}

// ApplyOrderPlaced decrements stock for one order-placed notification.
// Unknown items are ignored. A quantity exceeding current stock is not
// applied: the reconciliation error is logged and the store is left as it
// was — there is no rollback, retry, or escalation, so the catalog may stay
// inconsistent with an order already committed on the other side.
func (s *Service) ApplyOrderPlaced(ctx context.Context, env eventbus.Envelope[eventbus.OrderPlaced]) {
	_, span := s.tracer.Start(ctx, "apply_order_placed")
	defer span.End()
	span.SetAttributes(
		attribute.Int("item.id", int(env.Payload.ItemID)),
		attribute.Int("order.quantity", int(env.Payload.Quantity)),
		attribute.String("event.source", env.Source),
	)

	newStock, err := s.store.DecrementStock(env.Payload.ItemID, env.Payload.Quantity)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			span.SetStatus(codes.Error, "unknown item")
			s.logger.Warn("order-placed event for unknown item",
				zap.Uint32("item_id", env.Payload.ItemID),
				zap.String("source", env.Source),
			)
			return
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "stock reconciliation failed")
		s.logger.Error("event to change stock levels has failed",
			zap.String("source", env.Source),
			zap.Uint32("item_id", env.Payload.ItemID),
			zap.Uint32("quantity", env.Payload.Quantity),
			zap.Uint32("current_stock", newStock),
			zap.Error(err),
		)
		return
	}

	span.SetStatus(codes.Ok, "stock updated")
	s.logger.Info("stock level updated",
		zap.Uint32("item_id", env.Payload.ItemID),
		zap.Uint32("stock", newStock),
	)
}
