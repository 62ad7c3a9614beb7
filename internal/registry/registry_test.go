package registry

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"ordergen/internal/domain"
)

func order(owner, id string, price int64) domain.GeneratedOrderData {
	return domain.GeneratedOrderData{
		OwnerID:  owner,
		OrderID:  id,
		Side:     domain.Buy,
		Price:    decimal.NewFromInt(price),
		Quantity: decimal.NewFromInt(1),
	}
}

func TestRegistryAddRejectsDuplicateOwnerOrIdentity(t *testing.T) {
	r := New()
	require.True(t, r.Add(order("CP1", "ORD1", 100)))
	require.False(t, r.Add(order("CP1", "ORD2", 100)), "duplicate owner must be rejected")
	require.False(t, r.Add(order("CP2", "ORD1", 100)), "duplicate order id must be rejected")
	require.True(t, r.Add(order("CP2", "ORD2", 100)))
}

func TestRegistryFindByOwnerAndIdentifier(t *testing.T) {
	r := New()
	r.Add(order("CP1", "ORD1", 100))

	byOwner, ok := r.FindByOwner("CP1")
	require.True(t, ok)
	require.Equal(t, "ORD1", byOwner.OrderID)

	byID, ok := r.FindByIdentifier("ORD1")
	require.True(t, ok)
	require.Equal(t, "CP1", byID.OwnerID)

	_, ok = r.FindByOwner("unknown")
	require.False(t, ok)
}

func TestRegistryUpdateByOwnerReKeysOnIDChange(t *testing.T) {
	r := New()
	r.Add(order("CP1", "ORD1", 100))

	newID := "ORD2"
	newPrice := decimal.NewFromInt(105)
	require.True(t, r.UpdateByOwner("CP1", domain.Patch{NewOrderID: &newID, NewPrice: &newPrice}))

	_, ok := r.FindByIdentifier("ORD1")
	require.False(t, ok, "old identifier must no longer resolve")

	updated, ok := r.FindByIdentifier("ORD2")
	require.True(t, ok)
	require.Equal(t, "ORD1", updated.OrigOrderID)
	require.True(t, updated.Price.Equal(newPrice))

	require.False(t, r.UpdateByOwner("unknown-owner", domain.Patch{}))
}

func TestRegistryRemoveByOwnerAndIdentifier(t *testing.T) {
	r := New()
	r.Add(order("CP1", "ORD1", 100))
	r.Add(order("CP2", "ORD2", 100))

	require.True(t, r.RemoveByOwner("CP1"))
	_, ok := r.FindByOwner("CP1")
	require.False(t, ok)

	require.True(t, r.RemoveByIdentifier("ORD2"))
	_, ok = r.FindByIdentifier("ORD2")
	require.False(t, ok)

	require.False(t, r.RemoveByOwner("CP1"), "removing twice must report false")
}

func TestRegistryForEachAndSelectBy(t *testing.T) {
	r := New()
	r.Add(order("CP1", "ORD1", 100))
	r.Add(order("CP2", "ORD2", 200))
	r.Add(order("CP3", "ORD3", 300))

	var seen []string
	r.ForEach(func(o domain.GeneratedOrderData) { seen = append(seen, o.OrderID) })
	require.Equal(t, []string{"ORD1", "ORD2", "ORD3"}, seen)

	above150 := r.SelectBy(func(o domain.GeneratedOrderData) bool {
		return o.Price.GreaterThan(decimal.NewFromInt(150))
	})
	require.Len(t, above150, 2)
}
