package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/dinein-backend/models"
)

// spiceAddon links a single-select "Spice Level" addon to the fixture product.
func spiceAddon(t *testing.T, f *fixture) models.Addon {
	t.Helper()
	ctx := context.Background()
	name := "Spice Level"
	addon, err := f.svc.Catalog.CreateAddon(ctx, f.restaurant.ID, 1, AddonInput{
		Name: &name,
		SubAddons: []SubAddonInput{
			{Name: "Mild", Price: decimal.Zero},
			{Name: "Hot", Price: decimal.NewFromInt(10)},
		},
	})
	require.NoError(t, err)
	_, err = f.svc.Catalog.UpdateProduct(ctx, f.restaurant.ID, f.product.ID, ProductInput{AddonIDs: []uint{addon.ID}})
	require.NoError(t, err)
	return *addon
}

func TestAddItem_RequiresActiveSession(t *testing.T) {
	f := newFixture(t)
	id := f.login(t, "+910000000000")

	_, err := f.svc.Carts.AddItem(context.Background(), id, AddCartItem{ProductID: f.product.ID, Quantity: 1})
	requireKind(t, KindPrecondition, err)
}

func TestAddItem_TotalsIncludeAddons(t *testing.T) {
	f := newFixture(t)
	addon := spiceAddon(t, f)
	id := f.seat(t, "+910000000000", "abc123")

	view, err := f.svc.Carts.AddItem(context.Background(), id, AddCartItem{
		ProductID: f.product.ID,
		Quantity:  2,
		Addons:    []AddonChoice{{AddonID: addon.ID, SubAddonName: "Hot"}},
	})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.True(t, decimal.NewFromInt(220).Equal(view.TotalAmount), "total %s", view.TotalAmount)

	line := view.Items[0]
	require.Len(t, line.SelectedAddons, 1)
	assert.Equal(t, "Spice Level", line.SelectedAddons[0].AddonName)
	assert.Equal(t, "Hot", line.SelectedAddons[0].SubAddon.Name)
}

func TestAddItem_SameProductAccumulates(t *testing.T) {
	f := newFixture(t)
	id := f.seat(t, "+910000000000", "abc123")
	ctx := context.Background()

	_, err := f.svc.Carts.AddItem(ctx, id, AddCartItem{ProductID: f.product.ID, Quantity: 1})
	require.NoError(t, err)
	view, err := f.svc.Carts.AddItem(ctx, id, AddCartItem{ProductID: f.product.ID})
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(200).Equal(view.TotalAmount))
}

func TestAddItem_Rejections(t *testing.T) {
	f := newFixture(t)
	addon := spiceAddon(t, f)
	id := f.seat(t, "+910000000000", "abc123")
	ctx := context.Background()

	_, err := f.svc.Carts.AddItem(ctx, id, AddCartItem{
		ProductID: f.product.ID,
		Quantity:  1,
		Addons: []AddonChoice{
			{AddonID: addon.ID, SubAddonName: "Mild"},
			{AddonID: addon.ID, SubAddonName: "Hot"},
		},
	})
	requireKind(t, KindValidation, err)

	_, err = f.svc.Carts.AddItem(ctx, id, AddCartItem{
		ProductID: f.product.ID,
		Addons:    []AddonChoice{{AddonID: addon.ID, SubAddonName: "Nuclear"}},
	})
	requireKind(t, KindValidation, err)

	_, err = f.svc.Carts.AddItem(ctx, id, AddCartItem{ProductID: f.product.ID, Quantity: -1})
	requireKind(t, KindValidation, err)

	other := models.Restaurant{Name: "Elsewhere", Status: models.RestaurantActive}
	require.NoError(t, f.db.Create(&other).Error)
	foreign := f.createProduct(t, other.ID, "Sate", 50)
	_, err = f.svc.Carts.AddItem(ctx, id, AddCartItem{ProductID: foreign.ID, Quantity: 1})
	requireKind(t, KindNotFound, err)

	soldOut := f.createProduct(t, f.restaurant.ID, "Es Teh", 20)
	require.NoError(t, f.db.Model(&soldOut).Update("is_available", false).Error)
	_, err = f.svc.Carts.AddItem(ctx, id, AddCartItem{ProductID: soldOut.ID, Quantity: 1})
	requireKind(t, KindPrecondition, err)

	view, err := f.svc.Carts.GetCart(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestUpdateAndRemoveItem(t *testing.T) {
	f := newFixture(t)
	id := f.seat(t, "+910000000000", "abc123")
	ctx := context.Background()
	extra := f.createProduct(t, f.restaurant.ID, "Kerupuk", 5)

	view, err := f.svc.Carts.AddItem(ctx, id, AddCartItem{ProductID: f.product.ID, Quantity: 1})
	require.NoError(t, err)
	first := view.Items[0].ID
	view, err = f.svc.Carts.AddItem(ctx, id, AddCartItem{ProductID: extra.ID, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	second := view.Items[1].ID

	qty := 3
	note := "no onions"
	view, err = f.svc.Carts.UpdateItem(ctx, id, first, UpdateCartItem{Quantity: &qty, SpecialInstructions: &note})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(310).Equal(view.TotalAmount), "total %s", view.TotalAmount)
	assert.Equal(t, "no onions", view.Items[0].SpecialInstructions)

	zero := 0
	view, err = f.svc.Carts.UpdateItem(ctx, id, second, UpdateCartItem{Quantity: &zero})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)

	requireKind(t, KindNotFound, f.svc.Carts.RemoveItem(ctx, id, second))
	require.NoError(t, f.svc.Carts.RemoveItem(ctx, id, first))

	view, err = f.svc.Carts.GetCart(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.True(t, view.TotalAmount.IsZero())
}

func TestClearCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seat(t, "+910000000000", "abc123")

	// no cart yet
	require.NoError(t, f.svc.Carts.Clear(ctx, id))

	_, err := f.svc.Carts.AddItem(ctx, id, AddCartItem{ProductID: f.product.ID, Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, f.svc.Carts.Clear(ctx, id))

	view, err := f.svc.Carts.GetCart(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}
