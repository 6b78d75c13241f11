package repository

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/storefront-cart/internal/cartapi"
	"github.com/guttosm/storefront-cart/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrItemNotFound is returned when a cart line does not exist.
	ErrItemNotFound = errors.New("cart item not found")
	// ErrMenuUnavailable is returned when a menu entry cannot be ordered.
	ErrMenuUnavailable = errors.New("menu not available")
	// ErrMenuRestaurantMismatch is returned when a menu belongs to another restaurant.
	ErrMenuRestaurantMismatch = errors.New("menu not in this restaurant")
)

// CartDocument is the cart of one user in MongoDB.
type CartDocument struct {
	UserID    string             `bson:"user_id"`
	Items     []CartItemDocument `bson:"items"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// CartItemDocument is a single cart line. Menu data is captured when the line is added.
type CartItemDocument struct {
	ItemID     string              `bson:"item_id"`
	Restaurant model.RestaurantRef `bson:"restaurant"`
	Menu       model.MenuRef       `bson:"menu"`
	Quantity   int                 `bson:"quantity"`
	Note       string              `bson:"note,omitempty"`
	AddedAt    time.Time           `bson:"added_at"`
}

// MenuFinder looks up catalogue entries.
type MenuFinder interface {
	FindByID(ctx context.Context, id string) (*MenuDocument, error)
}

// addItemAttempts bounds the retries of AddItem after losing an upsert race.
const addItemAttempts = 3

// CartRepository is a MongoDB-backed cart store implementing cartapi.CartAPI.
type CartRepository struct {
	collection *mongo.Collection
	menus      MenuFinder
	newID      func() string
	now        func() time.Time
}

var _ cartapi.CartAPI = (*CartRepository)(nil)

// NewCartRepository creates a new cart repository.
func NewCartRepository(db *MongoDB, menus MenuFinder) *CartRepository {
	return &CartRepository{
		collection: db.Carts,
		menus:      menus,
		newID:      uuid.NewString,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// FetchCart returns the cart of the user grouped by restaurant.
// A user without a cart document has an empty cart.
func (r *CartRepository) FetchCart(ctx context.Context, userID string) (model.CartSnapshot, error) {
	var doc CartDocument
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.EmptySnapshot(), nil
	}
	if err != nil {
		return model.CartSnapshot{}, err
	}
	return doc.Snapshot(), nil
}

// AddItem adds a menu entry to the cart. Adding a menu already in the cart
// increases the quantity of the existing line. Concurrent adds never create
// two lines for one menu: the loser of an upsert race hits the unique user_id
// index and retries, merging into the winner's line.
func (r *CartRepository) AddItem(ctx context.Context, userID string, input cartapi.AddItemInput) error {
	if input.Quantity < 1 {
		return toAPIError(errInvalidQuantity)
	}

	menu, err := r.menus.FindByID(ctx, input.MenuID)
	if err != nil {
		return toAPIError(err)
	}
	if menu.Restaurant.ID != input.RestaurantID {
		return toAPIError(ErrMenuRestaurantMismatch)
	}
	if !menu.Available {
		return toAPIError(ErrMenuUnavailable)
	}

	for attempt := 1; ; attempt++ {
		err = r.mergeOrPush(ctx, userID, menu, input)
		if err == nil || !mongo.IsDuplicateKeyError(err) || attempt == addItemAttempts {
			return err
		}
	}
}

// mergeOrPush increments the line of menu or appends a new one. The push
// only matches a cart without that menu, so a racing push of the same menu
// turns into an insert that fails on the unique user_id index.
func (r *CartRepository) mergeOrPush(ctx context.Context, userID string, menu *MenuDocument, input cartapi.AddItemInput) error {
	now := r.now()
	merged, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": userID, "items.menu.id": menu.ID},
		bson.M{
			"$inc": bson.M{"items.$.quantity": input.Quantity},
			"$set": bson.M{"updated_at": now},
		})
	if err != nil {
		return err
	}
	if merged.MatchedCount > 0 {
		return nil
	}

	line := CartItemDocument{
		ItemID:     r.newID(),
		Restaurant: menu.Restaurant,
		Menu:       menu.Ref(),
		Quantity:   input.Quantity,
		Note:       input.Note,
		AddedAt:    now,
	}
	_, err = r.collection.UpdateOne(ctx,
		bson.M{"user_id": userID, "items.menu.id": bson.M{"$ne": menu.ID}},
		bson.M{
			"$push": bson.M{"items": line},
			"$set":  bson.M{"updated_at": now},
		},
		options.Update().SetUpsert(true))
	return err
}

// UpdateItemQuantity sets the quantity of a cart line.
func (r *CartRepository) UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	if quantity < 1 {
		return toAPIError(errInvalidQuantity)
	}
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": userID, "items.item_id": itemID},
		bson.M{"$set": bson.M{"items.$.quantity": quantity, "updated_at": r.now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return toAPIError(ErrItemNotFound)
	}
	return nil
}

// RemoveItem removes a cart line.
func (r *CartRepository) RemoveItem(ctx context.Context, userID, itemID string) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": userID, "items.item_id": itemID},
		bson.M{
			"$pull": bson.M{"items": bson.M{"item_id": itemID}},
			"$set":  bson.M{"updated_at": r.now()},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return toAPIError(ErrItemNotFound)
	}
	return nil
}

// ClearCart removes every line from the cart. Clearing a missing cart succeeds.
func (r *CartRepository) ClearCart(ctx context.Context, userID string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"items": bson.A{}, "updated_at": r.now()}})
	return err
}

// Snapshot groups the cart lines by restaurant in the order restaurants were first added.
func (d *CartDocument) Snapshot() model.CartSnapshot {
	order := make([]string, 0)
	restaurants := make(map[string]model.RestaurantRef)
	lines := make(map[string][]model.CartItem)

	for _, it := range d.Items {
		rid := it.Restaurant.ID
		if _, seen := restaurants[rid]; !seen {
			order = append(order, rid)
			restaurants[rid] = it.Restaurant
		}
		lines[rid] = append(lines[rid], model.NewCartItem(it.ItemID, it.Menu, it.Quantity))
	}

	groups := make([]model.CartRestaurantGroup, 0, len(order))
	for _, rid := range order {
		groups = append(groups, model.NewRestaurantGroup(restaurants[rid], lines[rid]))
	}
	return model.NewSnapshot(groups)
}

var errInvalidQuantity = errors.New("quantity must be at least 1")

// toAPIError maps store rejections to the structured errors of the cart API.
func toAPIError(err error) error {
	switch {
	case errors.Is(err, ErrItemNotFound):
		return cartapi.NewAPIError(http.StatusNotFound, "This item is no longer in your cart.")
	case errors.Is(err, ErrMenuNotFound):
		return cartapi.NewAPIError(http.StatusNotFound, "This dish could not be found.",
			cartapi.FieldError{Field: "menu_id", Message: "not found"})
	case errors.Is(err, ErrMenuUnavailable):
		return cartapi.NewAPIError(http.StatusConflict, "This dish is currently unavailable.",
			cartapi.FieldError{Field: "menu_id", Message: "not available"})
	case errors.Is(err, ErrMenuRestaurantMismatch):
		return cartapi.NewAPIError(http.StatusBadRequest, "This dish is not served by the selected restaurant.",
			cartapi.FieldError{Field: "restaurant_id", Message: "does not match the menu"})
	case errors.Is(err, errInvalidQuantity):
		return cartapi.NewAPIError(http.StatusBadRequest, "Quantity must be at least 1.",
			cartapi.FieldError{Field: "quantity", Message: "must be at least 1"})
	default:
		return err
	}
}
