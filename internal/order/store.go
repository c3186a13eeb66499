package order

import "sync"

// Request is an incoming order submission.
type Request struct {
	ItemID   uint32 `json:"item_id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Address  string `json:"address" binding:"required"`
	Quantity uint32 `json:"quantity" binding:"required,min=1"`
}

// Order is a committed order. Orders are created once and never mutated or
// deleted.
type Order struct {
	OrderID  uint32 `json:"order_id"`
	ItemID   uint32 `json:"item_id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Quantity uint32 `json:"quantity"`
}

// Store is the in-memory order store. One mutex covers id assignment and
// insertion as a single atomic unit, so no two orders can receive the same
// id.
type Store struct {
	mu     sync.Mutex
	lastID uint32
	orders map[uint32]Order
}

func NewStore() *Store {
	return &Store{orders: make(map[uint32]Order)}
}

// AddOrder assigns the next monotonic id and inserts the order under one
// lock hold, returning the committed record.
func (s *Store) AddOrder(req Request) Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	o := Order{
		OrderID:  s.lastID,
		ItemID:   req.ItemID,
		Name:     req.Name,
		Address:  req.Address,
		Quantity: req.Quantity,
	}
	s.orders[o.OrderID] = o
	return o
}

// GetOrder returns the order with the given id.
func (s *Store) GetOrder(id uint32) (Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	return o, ok
}

// Count reports how many orders have been committed.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}
