package cart

import (
	"slices"
	"sync"
)

// Store is one client's cart and favorites. Listeners are notified after
// every change, outside the lock.
type Store struct {
	mu        sync.Mutex
	items     []CartItem
	favorites []Product
	listeners map[int]func()
	nextID    int
}

func NewStore() *Store {
	return &Store{listeners: make(map[int]func())}
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// mutate runs fn under the lock and notifies listeners if fn reports a
// change.
func (s *Store) mutate(fn func() bool) {
	s.mu.Lock()
	changed := fn()
	var fns []func()
	if changed {
		fns = make([]func(), 0, len(s.listeners))
		for _, l := range s.listeners {
			fns = append(fns, l)
		}
	}
	s.mu.Unlock()

	for _, l := range fns {
		l()
	}
}

// Add puts qty of p in the cart, merging with an existing line.
func (s *Store) Add(p Product, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if p.ID == 0 && p.Name == "" {
		return ErrInvalidProduct
	}
	s.mutate(func() bool {
		if i := s.index(p.ID); i >= 0 {
			s.items[i].Quantity += qty
			return true
		}
		s.items = append(s.items, CartItem{Product: p, Quantity: qty})
		return true
	})
	return nil
}

// UpdateQty sets the quantity of a line. A quantity of zero or less removes
// it.
func (s *Store) UpdateQty(productID, qty int) error {
	var err error
	s.mutate(func() bool {
		i := s.index(productID)
		if i < 0 {
			err = ErrCartItemNotFound
			return false
		}
		if qty <= 0 {
			s.items = slices.Delete(s.items, i, i+1)
			return true
		}
		s.items[i].Quantity = qty
		return true
	})
	return err
}

func (s *Store) Remove(productID int) {
	s.mutate(func() bool {
		i := s.index(productID)
		if i < 0 {
			return false
		}
		s.items = slices.Delete(s.items, i, i+1)
		return true
	})
}

// ToggleFavorite adds p to favorites, or removes it if already there. It
// reports whether p is now a favorite.
func (s *Store) ToggleFavorite(p Product) bool {
	var fav bool
	s.mutate(func() bool {
		i := slices.IndexFunc(s.favorites, func(f Product) bool { return f.ID == p.ID })
		if i >= 0 {
			s.favorites = slices.Delete(s.favorites, i, i+1)
			return true
		}
		s.favorites = append(s.favorites, p)
		fav = true
		return true
	})
	return fav
}

func (s *Store) IsFavorite(productID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.ContainsFunc(s.favorites, func(f Product) bool { return f.ID == productID })
}

// Clear empties the cart. Favorites are kept.
func (s *Store) Clear() {
	s.mutate(func() bool {
		if len(s.items) == 0 {
			return false
		}
		s.items = nil
		return true
	})
}

// Drain empties the cart and returns the lines it held, in one step.
func (s *Store) Drain() []CartItem {
	var items []CartItem
	s.mutate(func() bool {
		items, s.items = s.items, nil
		return len(items) > 0
	})
	return items
}

func (s *Store) Items() []CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

func (s *Store) Favorites() []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.favorites)
}

func (s *Store) Totals() Totals {
	return ComputeTotals(s.Items())
}

func (s *Store) index(productID int) int {
	return slices.IndexFunc(s.items, func(it CartItem) bool { return it.Product.ID == productID })
}
