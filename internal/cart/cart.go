package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/sneaker-shop/internal/catalog"
	"github.com/example/sneaker-shop/internal/pricing"
)

// SchemaVersion tags the persisted cart payload. A payload with any other
// version loads as an empty cart.
const SchemaVersion = 1

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrMissingSize     = errors.New("a size must be selected")
)

// Line is one (product, size) entry in the cart. Display fields and prices
// are snapshotted at add time; later catalog edits never touch them.
type Line struct {
	ProductID       string          `json:"product_id"`
	Name            string          `json:"name"`
	Size            string          `json:"size"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	RegularPrice    decimal.Decimal `json:"regular_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Category        string          `json:"category"`
	ImageURL        string          `json:"image_url,omitempty"`
	AddedAt         time.Time       `json:"added_at"`
}

// Subtotal is the line's contribution to the cart total.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type envelope struct {
	Version int    `json:"version"`
	Items   []Line `json:"items"`
}

// Store holds the line items of one shopping session. Every successful
// mutation re-serializes the whole collection to the backing slot. There is
// no ambient singleton: callers construct a Store and pass it around.
type Store struct {
	mu    sync.Mutex
	slot  Slot
	lines []Line
}

// NewStore builds a cart rehydrated from its slot. A missing, corrupt or
// version-mismatched payload yields an empty cart, never an error.
func NewStore(ctx context.Context, slot Slot) *Store {
	s := &Store{slot: slot}

	data, err := slot.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrSlotEmpty) {
			log.Printf("[Cart] Discarding unreadable cart: %v", err)
		}
		return s
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Printf("[Cart] Discarding corrupt cart payload: %v", err)
		return s
	}
	if env.Version != SchemaVersion {
		log.Printf("[Cart] Discarding cart with schema version %d", env.Version)
		return s
	}

	s.lines = env.Items
	return s
}

// Add puts quantity units of a product/size combination into the cart. When
// the pair is already present its quantity grows; otherwise a new line
// snapshots the effective price via the pricing calculator.
func (s *Store) Add(ctx context.Context, p catalog.Product, quantity int, size string) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if size == "" {
		return ErrMissingSize
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.find(p.ID, size); i >= 0 {
		s.lines[i].Quantity += quantity
		return s.persist(ctx)
	}

	details := pricing.Describe(p.Price, p.Discount)
	s.lines = append(s.lines, Line{
		ProductID:       p.ID,
		Name:            p.DisplayName(),
		Size:            size,
		Quantity:        quantity,
		UnitPrice:       details.FinalPrice,
		RegularPrice:    details.RegularPrice,
		DiscountPercent: details.DiscountPercent,
		Category:        p.Category,
		ImageURL:        p.ImageURL,
		AddedAt:         time.Now(),
	})
	return s.persist(ctx)
}

// Remove deletes the matching line. Removing an absent pair is a no-op.
func (s *Store) Remove(ctx context.Context, productID, size string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(productID, size)
	if i < 0 {
		return nil
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	return s.persist(ctx)
}

// UpdateQuantity applies a delta to the matching line, clamped so the
// quantity never drops below 1. Removal stays a separate, explicit call.
func (s *Store) UpdateQuantity(ctx context.Context, productID, size string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(productID, size)
	if i < 0 {
		return nil
	}
	q := s.lines[i].Quantity + delta
	if q < 1 {
		q = 1
	}
	s.lines[i].Quantity = q
	return s.persist(ctx)
}

// Clear drops every line and erases the slot. Used on logout and after a
// successful cart checkout.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	return s.slot.Clear(ctx)
}

// ItemCount sums quantities across all lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, l := range s.lines {
		count += l.Quantity
	}
	return count
}

// Total sums unitPrice*quantity over all lines using the snapshotted
// effective prices.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Lines returns a copy of the current line items in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) find(productID, size string) int {
	for i, l := range s.lines {
		if l.ProductID == productID && l.Size == size {
			return i
		}
	}
	return -1
}

// persist writes the whole collection; callers hold the lock.
func (s *Store) persist(ctx context.Context) error {
	data, err := json.Marshal(envelope{Version: SchemaVersion, Items: s.lines})
	if err != nil {
		return err
	}
	return s.slot.Store(ctx, data)
}
