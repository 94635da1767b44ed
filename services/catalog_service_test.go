package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/dinein-backend/models"
)

func strPtr(s string) *string { return &s }

func TestCatalogProductsAndMenu(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rid := f.restaurant.ID

	drinks, err := f.svc.Catalog.CreateCategory(ctx, rid, CategoryInput{Name: strPtr("Drinks")})
	require.NoError(t, err)
	mains, err := f.svc.Catalog.CreateCategory(ctx, rid, CategoryInput{Name: strPtr("Mains")})
	require.NoError(t, err)
	order := -1
	_, err = f.svc.Catalog.UpdateCategory(ctx, rid, mains.ID, CategoryInput{SortOrder: &order})
	require.NoError(t, err)

	ice, err := f.svc.Catalog.CreateAddon(ctx, rid, 1, AddonInput{
		Name:      strPtr("Ice"),
		SubAddons: []SubAddonInput{{Name: "Less"}, {Name: "Extra", Price: decimal.NewFromInt(2)}},
	})
	require.NoError(t, err)
	require.Len(t, ice.SubAddons, 2)

	price := decimal.NewFromInt(15)
	tea, err := f.svc.Catalog.CreateProduct(ctx, rid, ProductInput{
		CategoryID: &drinks.ID,
		Name:       strPtr("Es Teh"),
		Price:      &price,
		AddonIDs:   []uint{ice.ID},
	})
	require.NoError(t, err)
	require.Len(t, tea.Addons, 1)
	assert.True(t, tea.IsAvailable)

	unavailable := false
	_, err = f.svc.Catalog.CreateProduct(ctx, rid, ProductInput{
		CategoryID:  &mains.ID,
		Name:        strPtr("Rendang"),
		Price:       &price,
		IsAvailable: &unavailable,
	})
	require.NoError(t, err)
	_, err = f.svc.Catalog.UpdateProduct(ctx, rid, f.product.ID, ProductInput{CategoryID: &mains.ID})
	require.NoError(t, err)

	menu, err := f.svc.Catalog.Menu(ctx, rid)
	require.NoError(t, err)
	require.Len(t, menu, 2)
	assert.Equal(t, "Mains", menu[0].Category.Name)
	require.Len(t, menu[0].Products, 1)
	assert.Equal(t, "Nasi Goreng", menu[0].Products[0].Name)
	assert.Equal(t, "Drinks", menu[1].Category.Name)
	require.Len(t, menu[1].Products, 1)
	require.Len(t, menu[1].Products[0].Addons, 1)
	assert.Len(t, menu[1].Products[0].Addons[0].SubAddons, 2)

	list, err := f.svc.Catalog.ListProducts(ctx, rid, ProductFilter{CategoryID: &drinks.ID})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCatalogRejectsForeignReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other := models.Restaurant{Name: "Elsewhere", Status: models.RestaurantActive}
	require.NoError(t, f.db.Create(&other).Error)
	foreign, err := f.svc.Catalog.CreateAddon(ctx, other.ID, 1, AddonInput{Name: strPtr("Sauce")})
	require.NoError(t, err)

	price := decimal.NewFromInt(10)
	_, err = f.svc.Catalog.CreateProduct(ctx, f.restaurant.ID, ProductInput{
		Name:     strPtr("Bakso"),
		Price:    &price,
		AddonIDs: []uint{foreign.ID},
	})
	requireKind(t, KindNotFound, err)

	negative := decimal.NewFromInt(-1)
	_, err = f.svc.Catalog.CreateProduct(ctx, f.restaurant.ID, ProductInput{Name: strPtr("Bakso"), Price: &negative})
	requireKind(t, KindValidation, err)

	_, err = f.svc.Catalog.GetProduct(ctx, other.ID, f.product.ID)
	requireKind(t, KindNotFound, err)

	_, err = f.svc.Catalog.CreateAddon(ctx, f.restaurant.ID, 1, AddonInput{
		Name:      strPtr("Size"),
		SubAddons: []SubAddonInput{{Name: "L"}, {Name: "L"}},
	})
	requireKind(t, KindValidation, err)
}

func TestUpdateAddon_CartKeepsFrozenPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	addon := spiceAddon(t, f)
	id := f.seat(t, "+910000000000", "abc123")

	_, err := f.svc.Carts.AddItem(ctx, id, AddCartItem{
		ProductID: f.product.ID,
		Quantity:  1,
		Addons:    []AddonChoice{{AddonID: addon.ID, SubAddonName: "Hot"}},
	})
	require.NoError(t, err)

	updated, err := f.svc.Catalog.UpdateAddon(ctx, f.restaurant.ID, addon.ID, AddonInput{
		SubAddons: []SubAddonInput{{Name: "Hot", Price: decimal.NewFromInt(50)}},
	})
	require.NoError(t, err)
	require.Len(t, updated.SubAddons, 1)

	view, err := f.svc.Carts.GetCart(ctx, id)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(110).Equal(view.TotalAmount), "total %s", view.TotalAmount)
}

func TestDeleteCatalogEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rid := f.restaurant.ID
	addon := spiceAddon(t, f)

	cat, err := f.svc.Catalog.CreateCategory(ctx, rid, CategoryInput{Name: strPtr("Mains")})
	require.NoError(t, err)
	_, err = f.svc.Catalog.UpdateProduct(ctx, rid, f.product.ID, ProductInput{CategoryID: &cat.ID})
	require.NoError(t, err)

	require.NoError(t, f.svc.Catalog.DeleteCategory(ctx, rid, cat.ID))
	p, err := f.svc.Catalog.GetProduct(ctx, rid, f.product.ID)
	require.NoError(t, err)
	assert.Nil(t, p.CategoryID)

	require.NoError(t, f.svc.Catalog.DeleteAddon(ctx, rid, addon.ID))
	p, err = f.svc.Catalog.GetProduct(ctx, rid, f.product.ID)
	require.NoError(t, err)
	assert.Empty(t, p.Addons)

	require.NoError(t, f.svc.Catalog.DeleteProduct(ctx, rid, f.product.ID))
	_, err = f.svc.Catalog.GetProduct(ctx, rid, f.product.ID)
	requireKind(t, KindNotFound, err)
}

func TestCustomerMenu(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.login(t, "+910000000000")
	_, err := f.svc.Catalog.CustomerMenu(ctx, id)
	requireKind(t, KindPrecondition, err)

	_, err = f.svc.Sessions.ScanTable(ctx, id, "abc123")
	require.NoError(t, err)
	menu, err := f.svc.Catalog.CustomerMenu(ctx, id)
	require.NoError(t, err)
	require.Len(t, menu, 1)
	assert.Nil(t, menu[0].Category)
	assert.Len(t, menu[0].Products, 1)
}

func TestCatalogTags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rid := f.restaurant.ID

	spicy, err := f.svc.Catalog.CreateTag(ctx, rid, 1, TagInput{Name: strPtr("  Spicy ")})
	require.NoError(t, err)
	assert.Equal(t, "Spicy", spicy.Name)
	_, err = f.svc.Catalog.CreateTag(ctx, rid, 1, TagInput{Name: strPtr("spicy")})
	requireKind(t, KindConflict, err)
	_, err = f.svc.Catalog.CreateTag(ctx, rid, 1, TagInput{Name: strPtr(" ")})
	requireKind(t, KindValidation, err)

	veg, err := f.svc.Catalog.CreateTag(ctx, rid, 1, TagInput{Name: strPtr("Vegetarian")})
	require.NoError(t, err)
	_, err = f.svc.Catalog.UpdateTag(ctx, rid, veg.ID, TagInput{Name: strPtr("SPICY")})
	requireKind(t, KindConflict, err)
	renamed, err := f.svc.Catalog.UpdateTag(ctx, rid, veg.ID, TagInput{Name: strPtr("Vegan")})
	require.NoError(t, err)
	assert.Equal(t, "Vegan", renamed.Name)

	// a tag of another restaurant stays invisible
	other := models.Restaurant{Name: "Elsewhere", Status: models.RestaurantActive}
	require.NoError(t, f.db.Create(&other).Error)
	_, err = f.svc.Catalog.CreateTag(ctx, other.ID, 1, TagInput{Name: strPtr("Spicy")})
	require.NoError(t, err)

	tags, err := f.svc.Catalog.ListTags(ctx, rid)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "Spicy", tags[0].Name)
	assert.Equal(t, "Vegan", tags[1].Name)

	p, err := f.svc.Catalog.UpdateProduct(ctx, rid, f.product.ID, ProductInput{TagIDs: []uint{spicy.ID}})
	require.NoError(t, err)
	require.Len(t, p.Tags, 1)
	assert.Equal(t, "Spicy", p.Tags[0].Name)

	err = f.svc.Catalog.DeleteTag(ctx, rid, spicy.ID)
	requireKind(t, KindPrecondition, err)
	assert.Contains(t, err.Error(), "used by 1 products")

	require.NoError(t, f.svc.Catalog.DeleteTag(ctx, rid, veg.ID))
	requireKind(t, KindNotFound, f.svc.Catalog.DeleteTag(ctx, rid, veg.ID))

	_, err = f.svc.Catalog.UpdateProduct(ctx, rid, f.product.ID, ProductInput{TagIDs: []uint{}})
	require.NoError(t, err)
	require.NoError(t, f.svc.Catalog.DeleteTag(ctx, rid, spicy.ID))
}

func TestListProductsFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rid := f.restaurant.ID

	drinks, err := f.svc.Catalog.CreateCategory(ctx, rid, CategoryInput{Name: strPtr("Drinks")})
	require.NoError(t, err)
	cold, err := f.svc.Catalog.CreateTag(ctx, rid, 1, TagInput{Name: strPtr("Cold")})
	require.NoError(t, err)

	create := func(name string, price int64, category *uint, tags ...uint) {
		t.Helper()
		p := decimal.NewFromInt(price)
		_, err := f.svc.Catalog.CreateProduct(ctx, rid, ProductInput{
			CategoryID: category,
			Name:       strPtr(name),
			Price:      &p,
			TagIDs:     tags,
		})
		require.NoError(t, err)
	}
	create("Es Teh", 15, &drinks.ID, cold.ID)
	create("Es Jeruk", 20, &drinks.ID, cold.ID)
	create("Teh Panas", 12, &drinks.ID)

	names := func(filter ProductFilter) []string {
		t.Helper()
		list, err := f.svc.Catalog.ListProducts(ctx, rid, filter)
		require.NoError(t, err)
		out := make([]string, 0, len(list))
		for _, p := range list {
			out = append(out, p.Name)
		}
		return out
	}
	dec := func(n int64) *decimal.Decimal {
		d := decimal.NewFromInt(n)
		return &d
	}

	assert.Equal(t, []string{"Es Jeruk", "Es Teh", "Nasi Goreng", "Teh Panas"}, names(ProductFilter{}))
	assert.Equal(t, []string{"Es Jeruk", "Es Teh"}, names(ProductFilter{TagID: &cold.ID}))
	assert.Equal(t, []string{"Es Teh", "Teh Panas"}, names(ProductFilter{Search: "TEH"}))
	assert.Equal(t, []string{"Es Teh", "Teh Panas"}, names(ProductFilter{CategoryID: &drinks.ID, MaxPrice: dec(15)}))
	assert.Equal(t, []string{"Es Jeruk", "Nasi Goreng"}, names(ProductFilter{MinPrice: dec(16)}))
	assert.Equal(t, []string{"Es Teh"}, names(ProductFilter{TagID: &cold.ID, Search: "teh", MinPrice: dec(10), MaxPrice: dec(15)}))

	_, err = f.svc.Catalog.ListProducts(ctx, rid, ProductFilter{MinPrice: dec(20), MaxPrice: dec(10)})
	requireKind(t, KindValidation, err)

	missing := uint(9999)
	_, err = f.svc.Catalog.CreateProduct(ctx, rid, ProductInput{Name: strPtr("Kopi"), Price: dec(10), TagIDs: []uint{missing}})
	requireKind(t, KindNotFound, err)
}
