package cart

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/sneaker-shop/internal/catalog"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sneaker() catalog.Product {
	return catalog.Product{
		ID:       "prod-1",
		Brand:    "Nike",
		Model:    "Air Max 90",
		Price:    dec("100"),
		Discount: dec("20"),
		Category: "sneakers",
		Sizes:    []string{"40", "41", "42"},
		ImageURL: "https://img.example.com/airmax90.jpg",
	}
}

func newTestStore(t *testing.T) (*Store, *MemorySlot) {
	t.Helper()
	slot := NewMemorySlot()
	return NewStore(context.Background(), slot), slot
}

func TestStore_AddSnapshotsEffectivePrice(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, sneaker(), 2, "42"))

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "Nike Air Max 90", lines[0].Name)
	assert.True(t, lines[0].UnitPrice.Equal(dec("80")))
	assert.True(t, lines[0].RegularPrice.Equal(dec("100")))
	assert.True(t, lines[0].DiscountPercent.Equal(dec("20")))

	// Scenario from the storefront: 2x $100 at 20% off.
	assert.True(t, store.Total().Equal(dec("160")))
	assert.Equal(t, 2, store.ItemCount())
}

func TestStore_AddSameProductAndSizeMerges(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, sneaker(), 1, "42"))
	require.NoError(t, store.Add(ctx, sneaker(), 3, "42"))

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 4, lines[0].Quantity)
}

func TestStore_AddSameProductDifferentSizes(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, sneaker(), 1, "41"))
	require.NoError(t, store.Add(ctx, sneaker(), 1, "42"))

	assert.Len(t, store.Lines(), 2)
	assert.Equal(t, 2, store.ItemCount())
}

func TestStore_AddValidation(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, store.Add(ctx, sneaker(), 0, "42"), ErrInvalidQuantity)
	assert.ErrorIs(t, store.Add(ctx, sneaker(), -1, "42"), ErrInvalidQuantity)
	assert.ErrorIs(t, store.Add(ctx, sneaker(), 1, ""), ErrMissingSize)
	assert.Empty(t, store.Lines())
}

func TestStore_MergePreservesOriginalSnapshot(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, sneaker(), 1, "42"))

	// Catalog price changed between adds; the line keeps its add-time price.
	repriced := sneaker()
	repriced.Price = dec("200")
	repriced.Discount = decimal.Zero
	require.NoError(t, store.Add(ctx, repriced, 1, "42"))

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.True(t, lines[0].UnitPrice.Equal(dec("80")))
}

func TestStore_UpdateQuantityClampsAtOne(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, sneaker(), 2, "42"))
	require.NoError(t, store.UpdateQuantity(ctx, "prod-1", "42", -5))

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestStore_UpdateQuantityMissingLineIsNoop(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, sneaker(), 2, "42"))
	require.NoError(t, store.UpdateQuantity(ctx, "prod-1", "39", 1))
	require.NoError(t, store.UpdateQuantity(ctx, "other", "42", 1))

	assert.Equal(t, 2, store.ItemCount())
}

func TestStore_RemoveMissingLineIsNoop(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, sneaker(), 1, "42"))
	require.NoError(t, store.Remove(ctx, "prod-1", "40"))
	require.NoError(t, store.Remove(ctx, "nope", "42"))

	assert.Len(t, store.Lines(), 1)

	require.NoError(t, store.Remove(ctx, "prod-1", "42"))
	assert.Empty(t, store.Lines())
}

func TestStore_TotalIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, sneaker(), 3, "41"))

	first := store.Total()
	second := store.Total()
	assert.True(t, first.Equal(second))
}

func TestStore_RoundTripThroughSlot(t *testing.T) {
	slot := NewMemorySlot()
	ctx := context.Background()

	original := NewStore(ctx, slot)
	require.NoError(t, original.Add(ctx, sneaker(), 2, "42"))
	require.NoError(t, original.Add(ctx, sneaker(), 1, "40"))

	rehydrated := NewStore(ctx, slot)

	// Decimals and timestamps compare by value, not representation: the JSON
	// trip changes exponents and drops the monotonic clock reading.
	want := original.Lines()
	got := rehydrated.Lines()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ProductID, got[i].ProductID)
		assert.Equal(t, want[i].Name, got[i].Name)
		assert.Equal(t, want[i].Size, got[i].Size)
		assert.Equal(t, want[i].Quantity, got[i].Quantity)
		assert.Equal(t, want[i].Category, got[i].Category)
		assert.Equal(t, want[i].ImageURL, got[i].ImageURL)
		assert.True(t, got[i].UnitPrice.Equal(want[i].UnitPrice))
		assert.True(t, got[i].RegularPrice.Equal(want[i].RegularPrice))
		assert.True(t, got[i].DiscountPercent.Equal(want[i].DiscountPercent))
		assert.True(t, got[i].AddedAt.Equal(want[i].AddedAt))
	}
	assert.True(t, original.Total().Equal(rehydrated.Total()))
	assert.Equal(t, original.ItemCount(), rehydrated.ItemCount())
}

func TestNewStore_EmptySlot(t *testing.T) {
	store, _ := newTestStore(t)
	assert.Empty(t, store.Lines())
	assert.True(t, store.Total().IsZero())
}

func TestNewStore_CorruptPayloadFallsBackToEmpty(t *testing.T) {
	slot := NewMemorySlot()
	ctx := context.Background()
	require.NoError(t, slot.Store(ctx, []byte("{not json")))

	store := NewStore(ctx, slot)
	assert.Empty(t, store.Lines())
}

func TestNewStore_UnknownSchemaVersionFallsBackToEmpty(t *testing.T) {
	slot := NewMemorySlot()
	ctx := context.Background()
	payload, err := json.Marshal(map[string]any{
		"version": 99,
		"items":   []map[string]any{{"product_id": "prod-1", "quantity": 1}},
	})
	require.NoError(t, err)
	require.NoError(t, slot.Store(ctx, payload))

	store := NewStore(ctx, slot)
	assert.Empty(t, store.Lines())
}

func TestStore_PersistsOnEveryMutation(t *testing.T) {
	slot := NewMemorySlot()
	ctx := context.Background()
	store := NewStore(ctx, slot)

	require.NoError(t, store.Add(ctx, sneaker(), 1, "42"))
	data, err := slot.Load(ctx)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, SchemaVersion, env.Version)
	require.Len(t, env.Items, 1)

	require.NoError(t, store.UpdateQuantity(ctx, "prod-1", "42", 2))
	data, err = slot.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, 3, env.Items[0].Quantity)
}

func TestStore_ClearErasesSlot(t *testing.T) {
	slot := NewMemorySlot()
	ctx := context.Background()
	store := NewStore(ctx, slot)

	require.NoError(t, store.Add(ctx, sneaker(), 1, "42"))
	require.NoError(t, store.Clear(ctx))

	assert.Empty(t, store.Lines())
	_, err := slot.Load(ctx)
	assert.ErrorIs(t, err, ErrSlotEmpty)
}

type failingSlot struct{}

func (failingSlot) Load(context.Context) ([]byte, error) { return nil, ErrSlotEmpty }
func (failingSlot) Store(context.Context, []byte) error  { return errors.New("slot down") }
func (failingSlot) Clear(context.Context) error          { return errors.New("slot down") }

func TestStore_SurfacesPersistenceErrors(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, failingSlot{})

	err := store.Add(ctx, sneaker(), 1, "42")
	assert.Error(t, err)
}

func TestManager_ReusesAndRehydrates(t *testing.T) {
	ctx := context.Background()
	slots := make(map[string]*MemorySlot)
	manager := NewManager(func(sessionID string) Slot {
		if s, ok := slots[sessionID]; ok {
			return s
		}
		s := NewMemorySlot()
		slots[sessionID] = s
		return s
	})

	a := manager.Cart(ctx, "sess-a")
	require.NoError(t, a.Add(ctx, sneaker(), 1, "42"))

	// Same session, same store.
	assert.Same(t, a, manager.Cart(ctx, "sess-a"))

	// Different session, independent cart.
	b := manager.Cart(ctx, "sess-b")
	assert.Empty(t, b.Lines())

	// Drop clears both the cache and the slot.
	require.NoError(t, manager.Drop(ctx, "sess-a"))
	again := manager.Cart(ctx, "sess-a")
	assert.Empty(t, again.Lines())
}
