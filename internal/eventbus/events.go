package eventbus

// TopicOrderPlaced carries order-placement notifications from the order
// service to the catalog service. Messages are keyed by item id so that
// notifications for the same item land on the same partition in order.
const TopicOrderPlaced = "order_placed"

// EventOrderPlaced is the event_type stamped on order-placement envelopes.
const EventOrderPlaced = "order_placed"

// OrderPlaced is the payload of an order-placement notification.
type OrderPlaced struct {
	ItemID   uint32 `json:"item_id"`
	Quantity uint32 `json:"quantity"`
}
