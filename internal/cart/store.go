// Package cart implements the shopping cart: a pure transition function over
// serializable actions and a per-session Store that persists every state.
package cart

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/Skotchmaster/green_homes/internal/models"
	"github.com/Skotchmaster/green_homes/internal/storage"
)

// StorageKey is the persisted cart key. Service sessions append their id.
const StorageKey = "greenHomes-cart"

func SessionKey(sessionID string) string {
	return StorageKey + ":" + sessionID
}

// Event is delivered to subscribers after every transition.
type Event struct {
	Action Action      `json:"action"`
	Cart   models.Cart `json:"cart"`
}

type subscriber struct {
	id int
	fn func(Event)
}

// Store owns one cart. It is not safe for concurrent use; callers keep a
// single writer per store.
type Store struct {
	state models.Cart
	key   string
	log   *slog.Logger

	w      *writer
	closed bool

	subs   []subscriber
	nextID int
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// Open reads the cart saved under key and returns a store seeded with it.
// A missing or unreadable entry yields an empty cart. A nil st disables
// persistence.
func Open(ctx context.Context, st storage.Storage, key string, opts ...Option) *Store {
	s := &Store{
		state: models.EmptyCart(),
		key:   key,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("cart_key", key)

	if st == nil {
		return s
	}
	s.w = newWriter(st, key, s.log)

	data, err := st.Get(ctx, key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return s
	case err != nil:
		s.log.Warn("cart_load_error", "error", err)
		return s
	}

	saved, err := Decode(data)
	if err != nil {
		s.log.Warn("cart_load_error", "error", err)
		return s
	}
	s.Dispatch(Load(saved))
	return s
}

// Dispatch applies a, schedules the result for persistence and notifies
// subscribers. The new cart is returned immediately.
func (s *Store) Dispatch(a Action) models.Cart {
	s.state = Reduce(s.state, a)

	if s.w != nil && !s.closed {
		if data, err := Encode(s.state); err != nil {
			s.log.Error("cart_encode_error", "error", err)
		} else {
			s.w.enqueue(data)
		}
	}

	if len(s.subs) > 0 {
		ev := Event{Action: a, Cart: s.Cart()}
		for _, sub := range slices.Clone(s.subs) {
			sub.fn(ev)
		}
	}
	return s.Cart()
}

func (s *Store) Add(p models.Plant, quantity int, opts Options) models.Cart {
	return s.Dispatch(Add(p, quantity, opts))
}

func (s *Store) Remove(plantID string) models.Cart {
	return s.Dispatch(Remove(plantID))
}

func (s *Store) UpdateQuantity(plantID string, quantity int) models.Cart {
	return s.Dispatch(UpdateQuantity(plantID, quantity))
}

func (s *Store) Clear() models.Cart {
	return s.Dispatch(Clear())
}

// Cart returns a copy of the current state.
func (s *Store) Cart() models.Cart {
	c := s.state
	c.Items = slices.Clone(s.state.Items)
	return c
}

func (s *Store) Total() float64 {
	return s.state.Total
}

func (s *Store) ItemCount() int {
	return s.state.ItemCount
}

// LineQuantity is the quantity of the line with the given merge key, 0 if absent.
func (s *Store) LineQuantity(plantID string, opts Options) int {
	for _, it := range s.state.Items {
		if it.Matches(plantID, opts.Size, opts.PotOption) {
			return it.Quantity
		}
	}
	return 0
}

func (s *Store) Key() string {
	return s.key
}

// Subscribe registers fn to run synchronously after each transition. The
// returned function removes it.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		s.subs = slices.DeleteFunc(s.subs, func(sub subscriber) bool { return sub.id == id })
	}
}

// Close flushes the pending write and stops persistence. Transitions after
// Close still apply in memory.
func (s *Store) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.subs = nil
	if s.w == nil {
		return nil
	}
	return s.w.close(ctx)
}
