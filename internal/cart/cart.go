// Package cart holds the in-memory shopping cart shared by every view for
// the lifetime of the app session. It is the single source of truth for what
// the user intends to buy; nothing is persisted across restarts.
package cart

import (
	"sync"

	"github.com/SamadheeSadeesha/ShopEase/internal/catalog"
)

// Entry is one line item: a product paired with a positive quantity.
type Entry struct {
	Product  catalog.Product
	Quantity int
}

// Subscriber receives a copy of the cart contents after every mutation.
// Subscribers are invoked synchronously, in the order mutations were issued.
type Subscriber func(entries []Entry)

// Store maintains cart entries keyed by product ID, preserving insertion
// order for stable list rendering. Mutations never fail: invalid input is
// normalized to a no-op or a removal. All operations are safe for concurrent
// use and never block on I/O.
type Store struct {
	mu      sync.RWMutex
	entries []Entry
	subs    []Subscriber
}

func NewStore() *Store {
	return &Store{}
}

// Subscribe registers fn for change notifications.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Add inserts p with quantity 1, or increments the existing entry's quantity.
// Stock limits are advisory and enforced by callers, not here.
func (s *Store) Add(p catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].Product.ID == p.ID {
			s.entries[i].Quantity++
			s.notify()
			return
		}
	}
	s.entries = append(s.entries, Entry{Product: p, Quantity: 1})
	s.notify()
}

// Remove deletes the entry for productID. Absent IDs are a no-op.
func (s *Store) Remove(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(productID)
}

// SetQuantity sets the entry's quantity exactly. Quantity <= 0 removes the
// entry; an unknown productID is a no-op (nothing is created).
func (s *Store) SetQuantity(productID int64, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if quantity <= 0 {
		s.removeLocked(productID)
		return
	}
	for i := range s.entries {
		if s.entries[i].Product.ID == productID {
			s.entries[i].Quantity = quantity
			s.notify()
			return
		}
	}
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		return
	}
	s.entries = nil
	s.notify()
}

// Total is the sum of price × quantity over all entries. No rounding happens
// here; that is presentation's job.
func (s *Store) Total() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total float64
	for _, e := range s.entries {
		total += e.Product.Price * float64(e.Quantity)
	}
	return total
}

// ItemCount is the sum of quantities across entries (the badge count), not
// the number of distinct entries.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int
	for _, e := range s.entries {
		n += e.Quantity
	}
	return n
}

// Items returns the entries in insertion order. The slice is a copy; mutating
// it does not affect the store.
func (s *Store) Items() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

// Len is the number of distinct entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) removeLocked(productID int64) {
	for i, e := range s.entries {
		if e.Product.ID == productID {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			s.notify()
			return
		}
	}
}

// notify runs under the write lock so subscribers observe mutations in the
// exact order they were issued.
func (s *Store) notify() {
	if len(s.subs) == 0 {
		return
	}
	snapshot := s.copyLocked()
	for _, fn := range s.subs {
		fn(snapshot)
	}
}

func (s *Store) copyLocked() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
