package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrItemNotFound means the requested item id is not in the catalog.
	ErrItemNotFound = errors.New("catalog: item not found")

	// ErrInsufficientStock is the reconciliation error: an asynchronous
	// decrement asked for more than the current stock. The decrement is not
	// applied and stock is left unchanged, never negative.
	ErrInsufficientStock = errors.New("catalog: insufficient stock for decrement")
)

// Item is a catalog entry. Stock is the only field that changes after
// insertion, and only through DecrementStock.
type Item struct {
	ID          uint32   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Sizes       []string `json:"sizes"`
	Price       float32  `json:"price"`
	Stock       uint32   `json:"stock"`
	Images      []string `json:"images"`
	Video       string   `json:"video"`
}

// Store is the authoritative in-memory item store. Reads take the shared
// lock and may run in parallel; a decrement takes the exclusive lock and
// blocks new reads until released.
type Store struct {
	mu    sync.RWMutex
	items map[uint32]Item
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{items: make(map[uint32]Item)}
}

// AddItem inserts or replaces an item.
func (s *Store) AddItem(item Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item
}

// GetItem returns the item with the given id.
func (s *Store) GetItem(id uint32) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	return item, ok
}

// Items returns every item, ordered by id.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// DecrementStock subtracts qty from the item's stock under the exclusive
// lock and returns the new stock level. If qty exceeds current stock the
// decrement is not applied and ErrInsufficientStock is returned; stock
// never goes negative.
func (s *Store) DecrementStock(id, qty uint32) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return 0, fmt.Errorf("%w: id %d", ErrItemNotFound, id)
	}
	if qty > item.Stock {
		return item.Stock, fmt.Errorf("%w: item %d has %d, requested %d",
			ErrInsufficientStock, id, item.Stock, qty)
	}

	item.Stock -= qty
	s.items[id] = item
	return item.Stock, nil
}

// SeededStore returns a store preloaded with the shop's demo catalog.
func SeededStore() *Store {
	s := NewStore()
	s.AddItem(Item{
		ID:          1,
		Name:        "T-Shirt",
		Description: "Comfortable cotton t-shirt, perfect for everyday wear.",
		Sizes:       []string{"S", "M", "L", "XL"},
		Price:       20.00,
		Stock:       100,
		Images: []string{
			"https://example.com/t-shirt-front.jpg",
			"https://example.com/t-shirt-back.jpg",
		},
		Video: "https://example.com/t-shirt-video.mp4",
	})
	s.AddItem(Item{
		ID:          2,
		Name:        "Jeans",
		Description: "Classic blue denim jeans, versatile and durable.",
		Sizes:       []string{"30", "32", "34"},
		Price:       40.00,
		Stock:       50,
		Images: []string{
			"https://example.com/jeans-front.jpg",
			"https://example.com/jeans-back.jpg",
		},
		Video: "https://example.com/jeans-video.mp4",
	})
	s.AddItem(Item{
		ID:          3,
		Name:        "Jacket",
		Description: "Stylish and warm jacket, suitable for cold weather.",
		Sizes:       []string{"M", "L", "XL"},
		Price:       60.00,
		Stock:       30,
		Images: []string{
			"https://example.com/jacket-front.jpg",
			"https://example.com/jacket-back.jpg",
		},
		Video: "https://example.com/jacket-video.mp4",
	})
	s.AddItem(Item{
		ID:          4,
		Name:        "Sneakers",
		Description: "Trendy and comfortable sneakers for casual outings.",
		Sizes:       []string{"8", "9", "10", "11"},
		Price:       50.00,
		Stock:       75,
		Images: []string{
			"https://example.com/sneakers-front.jpg",
			"https://example.com/sneakers-side.jpg",
		},
		Video: "https://example.com/sneakers-video.mp4",
	})
	s.AddItem(Item{
		ID:          5,
		Name:        "Cap",
		Description: "Cool and stylish baseball cap, great for sunny days.",
		Sizes:       []string{"One Size"},
		Price:       15.00,
		Stock:       1,
		Images: []string{
			"https://example.com/cap-front.jpg",
			"https://example.com/cap-back.jpg",
		},
		Video: "https://example.com/cap-video.mp4",
	})
	return s
}
