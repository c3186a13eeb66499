package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"clothingshop/internal/eventbus"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func orderPlacedEnvelope(itemID, qty uint32) eventbus.Envelope[eventbus.OrderPlaced] {
	return eventbus.NewEnvelope(eventbus.EventOrderPlaced,
		eventbus.OrderPlaced{ItemID: itemID, Quantity: qty},
		"order-service", "test-corr", nil)
}

func TestItemsOmitsZeroStock(t *testing.T) {
	store := NewStore()
	store.AddItem(Item{ID: 1, Name: "In stock", Stock: 3})
	store.AddItem(Item{ID: 2, Name: "Sold out", Stock: 0})
	service := NewService(store, zaptest.NewLogger(t))

	items := service.Items()
	require.Len(t, items, 1)
	assert.Equal(t, uint32(1), items[0].ID)
}

func TestStockLookup(t *testing.T) {
	store := NewStore()
	store.AddItem(Item{ID: 1, Stock: 42})
	service := NewService(store, zaptest.NewLogger(t))

	stock, err := service.Stock(1)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), stock)

	_, err = service.Stock(2)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestApplyOrderPlacedDecrements(t *testing.T) {
	store := NewStore()
	store.AddItem(Item{ID: 1, Stock: 10})
	service := NewService(store, zaptest.NewLogger(t))

	service.ApplyOrderPlaced(context.Background(), orderPlacedEnvelope(1, 3))

	item, _ := store.GetItem(1)
	assert.Equal(t, uint32(7), item.Stock)
}

func TestApplyOrderPlacedInsufficientStockNotApplied(t *testing.T) {
	store := NewStore()
	store.AddItem(Item{ID: 1, Stock: 2})
	service := NewService(store, zaptest.NewLogger(t))

	service.ApplyOrderPlaced(context.Background(), orderPlacedEnvelope(1, 5))

	item, _ := store.GetItem(1)
	assert.Equal(t, uint32(2), item.Stock, "oversold decrement must leave stock unchanged")
}

func TestApplyOrderPlacedUnknownItemIgnored(t *testing.T) {
	store := NewStore()
	service := NewService(store, zaptest.NewLogger(t))

	// Must not panic or create the item.
	service.ApplyOrderPlaced(context.Background(), orderPlacedEnvelope(404, 1))
	assert.Empty(t, store.Items())
}

// scriptedConsumer replays a fixed sequence of broker messages, then blocks
// until the pump's context is cancelled.
type scriptedConsumer struct {
	messages []kafka.Message
	next     int
}

func (c *scriptedConsumer) ReadMessage(ctx context.Context) (*kafka.Message, error) {
	if c.next >= len(c.messages) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	msg := c.messages[c.next]
	c.next++
	return &msg, nil
}

func (c *scriptedConsumer) Close() error { return nil }

func TestStartListenerAppliesOrderEvents(t *testing.T) {
	env := orderPlacedEnvelope(1, 4)
	body, err := json.Marshal(env)
	require.NoError(t, err)

	consumer := &scriptedConsumer{messages: []kafka.Message{
		{Topic: eventbus.TopicOrderPlaced, Value: body},
	}}
	factory := func(groupID string, topics []string) (eventbus.Consumer, error) {
		assert.Equal(t, consumerGroupID, groupID)
		assert.Equal(t, []string{eventbus.TopicOrderPlaced}, topics)
		return consumer, nil
	}
	bus := eventbus.NewWithBroker(nil, factory, zaptest.NewLogger(t))

	store := NewStore()
	store.AddItem(Item{ID: 1, Stock: 10})
	service := NewService(store, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, service.StartListener(ctx, bus))

	require.Eventually(t, func() bool {
		item, _ := store.GetItem(1)
		return item.Stock == 6
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStartListenerSubscriptionFailure(t *testing.T) {
	factory := func(groupID string, topics []string) (eventbus.Consumer, error) {
		return nil, io.ErrUnexpectedEOF
	}
	bus := eventbus.NewWithBroker(nil, factory, zaptest.NewLogger(t))

	service := NewService(NewStore(), zaptest.NewLogger(t))
	err := service.StartListener(context.Background(), bus)
	assert.True(t, errors.Is(err, eventbus.ErrListenerCreation))
}
