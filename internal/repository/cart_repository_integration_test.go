//go:build integration

package repository

import (
	"context"
	"net/http"
	"testing"

	"github.com/guttosm/storefront-cart/internal/cartapi"
	"github.com/guttosm/storefront-cart/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func setupCartRepository(t *testing.T) (*CartRepository, *MongoDB) {
	t.Helper()
	ctx := context.Background()
	db := setupTestDBFromSharedContainer(t)
	t.Cleanup(func() {
		_ = db.Close(ctx)
	})

	menus := NewMenuRepository(db)
	seeded, err := SeedMenus(ctx, menus)
	require.NoError(t, err)
	require.True(t, seeded)

	return NewCartRepository(db, menus), db
}

func requireAPIStatus(t *testing.T, err error, status int) {
	t.Helper()
	var apiErr *cartapi.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, status, apiErr.StatusCode)
}

func TestCartRepository_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, _ := setupCartRepository(t)

	t.Run("new user has an empty cart", func(t *testing.T) {
		cart, err := repo.FetchCart(ctx, "nobody")
		require.NoError(t, err)
		assert.Equal(t, model.EmptySnapshot(), cart)
	})

	t.Run("add, merge, update, remove, clear", func(t *testing.T) {
		user := "user-flow"

		require.NoError(t, repo.AddItem(ctx, user, cartapi.AddItemInput{RestaurantID: "rest-bangkok", MenuID: "menu-pad-thai", Quantity: 2}))
		require.NoError(t, repo.AddItem(ctx, user, cartapi.AddItemInput{RestaurantID: "rest-napoli", MenuID: "menu-margherita", Quantity: 1}))
		require.NoError(t, repo.AddItem(ctx, user, cartapi.AddItemInput{RestaurantID: "rest-bangkok", MenuID: "menu-pad-thai", Quantity: 1}))

		cart, err := repo.FetchCart(ctx, user)
		require.NoError(t, err)
		require.Len(t, cart.Groups, 2)
		assert.Equal(t, "rest-bangkok", cart.Groups[0].Restaurant.ID)
		require.Len(t, cart.Groups[0].Items, 1)
		padThai := cart.Groups[0].Items[0]
		assert.Equal(t, 3, padThai.Quantity)
		assert.Equal(t, int64(60000), padThai.ItemTotal)
		assert.Equal(t, model.CartSummary{TotalItems: 4, TotalPrice: 75000, RestaurantCount: 2}, cart.Summary)

		require.NoError(t, repo.UpdateItemQuantity(ctx, user, padThai.ID, 1))
		cart, err = repo.FetchCart(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, int64(20000), cart.Groups[0].Subtotal)

		require.NoError(t, repo.RemoveItem(ctx, user, padThai.ID))
		cart, err = repo.FetchCart(ctx, user)
		require.NoError(t, err)
		require.Len(t, cart.Groups, 1)
		assert.Equal(t, "rest-napoli", cart.Groups[0].Restaurant.ID)

		require.NoError(t, repo.ClearCart(ctx, user))
		cart, err = repo.FetchCart(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, model.EmptySnapshot(), cart)
	})

	t.Run("rejections", func(t *testing.T) {
		user := "user-rejections"

		requireAPIStatus(t, repo.AddItem(ctx, user, cartapi.AddItemInput{RestaurantID: "rest-bangkok", MenuID: "menu-missing", Quantity: 1}), http.StatusNotFound)
		requireAPIStatus(t, repo.AddItem(ctx, user, cartapi.AddItemInput{RestaurantID: "rest-bangkok", MenuID: "menu-mango-rice", Quantity: 1}), http.StatusConflict)
		requireAPIStatus(t, repo.AddItem(ctx, user, cartapi.AddItemInput{RestaurantID: "rest-napoli", MenuID: "menu-pad-thai", Quantity: 1}), http.StatusBadRequest)
		requireAPIStatus(t, repo.AddItem(ctx, user, cartapi.AddItemInput{RestaurantID: "rest-bangkok", MenuID: "menu-pad-thai", Quantity: 0}), http.StatusBadRequest)
		requireAPIStatus(t, repo.UpdateItemQuantity(ctx, user, "missing", 2), http.StatusNotFound)
		requireAPIStatus(t, repo.UpdateItemQuantity(ctx, user, "missing", 0), http.StatusBadRequest)
		requireAPIStatus(t, repo.RemoveItem(ctx, user, "missing"), http.StatusNotFound)

		assert.NoError(t, repo.ClearCart(ctx, user))
	})

	t.Run("concurrent first adds of one menu merge into one line", func(t *testing.T) {
		user := "user-race-same-menu"
		const adders = 8

		var g errgroup.Group
		for range adders {
			g.Go(func() error {
				return repo.AddItem(ctx, user, cartapi.AddItemInput{RestaurantID: "rest-bangkok", MenuID: "menu-pad-thai", Quantity: 1})
			})
		}
		require.NoError(t, g.Wait())

		cart, err := repo.FetchCart(ctx, user)
		require.NoError(t, err)
		require.Len(t, cart.Groups, 1)
		require.Len(t, cart.Groups[0].Items, 1)
		assert.Equal(t, adders, cart.Groups[0].Items[0].Quantity)
	})

	t.Run("concurrent first adds of different menus keep both lines", func(t *testing.T) {
		user := "user-race-two-menus"

		var g errgroup.Group
		g.Go(func() error {
			return repo.AddItem(ctx, user, cartapi.AddItemInput{RestaurantID: "rest-bangkok", MenuID: "menu-pad-thai", Quantity: 1})
		})
		g.Go(func() error {
			return repo.AddItem(ctx, user, cartapi.AddItemInput{RestaurantID: "rest-napoli", MenuID: "menu-margherita", Quantity: 2})
		})
		require.NoError(t, g.Wait())

		cart, err := repo.FetchCart(ctx, user)
		require.NoError(t, err)
		require.Len(t, cart.Groups, 2)
		assert.Equal(t, 3, cart.Summary.TotalItems)
	})

	t.Run("carts are isolated per user", func(t *testing.T) {
		require.NoError(t, repo.AddItem(ctx, "alice", cartapi.AddItemInput{RestaurantID: "rest-napoli", MenuID: "menu-diavola", Quantity: 1}))

		cart, err := repo.FetchCart(ctx, "bob")
		require.NoError(t, err)
		assert.Empty(t, cart.Groups)
	})
}

func TestSeedMenus_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()
	menus := NewMenuRepository(db)

	seeded, err := SeedMenus(ctx, menus)
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = SeedMenus(ctx, menus)
	require.NoError(t, err)
	assert.False(t, seeded)

	count, err := menus.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(DemoMenus())), count)

	menu, err := menus.FindByID(ctx, "menu-margherita")
	require.NoError(t, err)
	assert.Equal(t, "rest-napoli", menu.Restaurant.ID)

	_, err = menus.FindByID(ctx, "nope")
	assert.ErrorIs(t, err, ErrMenuNotFound)
}
