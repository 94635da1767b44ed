package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/dinein-backend/database"
	"github.com/yeremiapane/dinein-backend/models"
	"github.com/yeremiapane/dinein-backend/utils"
)

func TestUserLoginAndCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, database.SeedSuperAdmin(f.db, "root@dinein.test", "rootpass"))

	_, err := f.svc.Users.Login(ctx, "root@dinein.test", "wrong")
	requireKind(t, KindUnauthorized, err)
	_, err = f.svc.Users.Login(ctx, "nobody@dinein.test", "rootpass")
	requireKind(t, KindUnauthorized, err)

	login, err := f.svc.Users.Login(ctx, " ROOT@dinein.test ", "rootpass")
	require.NoError(t, err)
	claims, err := utils.NewTokenIssuer("test-secret", 0, 0).ParseToken(login.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperadmin, claims.Role)
	assert.Equal(t, utils.TokenTypeUser, claims.Type)

	root := Actor{UserID: login.User.ID, Role: models.RoleSuperadmin}
	manager, err := f.svc.Users.Create(ctx, root, UserInput{
		FirstName:    "Maya",
		Email:        "maya@dinein.test",
		Password:     "secret1",
		Role:         models.RoleManager,
		RestaurantID: &f.restaurant.ID,
	})
	require.NoError(t, err)

	_, err = f.svc.Users.Create(ctx, root, UserInput{
		FirstName: "Dup", Email: "maya@dinein.test", Password: "secret1",
		Role: models.RoleStaff, RestaurantID: &f.restaurant.ID,
	})
	requireKind(t, KindConflict, err)

	_, err = f.svc.Users.Create(ctx, root, UserInput{
		FirstName: "Lost", Email: "lost@dinein.test", Password: "secret1", Role: models.RoleStaff,
	})
	requireKind(t, KindValidation, err)

	asManager := Actor{UserID: manager.ID, Role: models.RoleManager, RestaurantID: &f.restaurant.ID}
	_, err = f.svc.Users.Create(ctx, asManager, UserInput{
		FirstName: "Adi", Email: "adi@dinein.test", Password: "secret1", Role: models.RoleAdmin,
	})
	requireKind(t, KindForbidden, err)

	other := uint(999)
	staff, err := f.svc.Users.Create(ctx, asManager, UserInput{
		FirstName: "Rina", Email: "rina@dinein.test", Password: "secret1",
		Role: models.RoleStaff, RestaurantID: &other,
	})
	require.NoError(t, err)
	require.NotNil(t, staff.RestaurantID)
	assert.Equal(t, f.restaurant.ID, *staff.RestaurantID)

	users, err := f.svc.Users.List(ctx, asManager)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	all, err := f.svc.Users.List(ctx, root)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	me, err := f.svc.Users.Me(ctx, staff.ID)
	require.NoError(t, err)
	require.NotNil(t, me.Restaurant)
	assert.Equal(t, "Warung Test", me.Restaurant.Name)
}

func TestRestaurantAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := Actor{UserID: 1, Role: models.RoleAdmin}
	manager := Actor{UserID: 2, Role: models.RoleManager, RestaurantID: &f.restaurant.ID}
	staff := Actor{UserID: 3, Role: models.RoleStaff, RestaurantID: &f.restaurant.ID}

	created, err := f.svc.Restaurants.Create(ctx, admin, RestaurantInput{Name: strPtr("Kedai Baru"), City: strPtr("Bandung")})
	require.NoError(t, err)
	assert.Equal(t, models.RestaurantDraft, created.Status)

	_, err = f.svc.Restaurants.Create(ctx, manager, RestaurantInput{Name: strPtr("Nope")})
	requireKind(t, KindForbidden, err)
	_, err = f.svc.Restaurants.Create(ctx, admin, RestaurantInput{})
	requireKind(t, KindValidation, err)

	_, err = f.svc.Restaurants.Get(ctx, manager, created.ID)
	requireKind(t, KindForbidden, err)

	updated, err := f.svc.Restaurants.Update(ctx, manager, f.restaurant.ID, RestaurantInput{Phone: strPtr("0221234")})
	require.NoError(t, err)
	assert.Equal(t, "0221234", updated.Phone)

	_, err = f.svc.Restaurants.Update(ctx, staff, f.restaurant.ID, RestaurantInput{Phone: strPtr("1")})
	requireKind(t, KindForbidden, err)
	_, err = f.svc.Restaurants.Update(ctx, admin, created.ID, RestaurantInput{Status: strPtr("closed")})
	requireKind(t, KindValidation, err)

	list, err := f.svc.Restaurants.List(ctx, manager)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = f.svc.Restaurants.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
