package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/guttosm/storefront-cart/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrMenuNotFound is returned when a menu entry does not exist.
var ErrMenuNotFound = errors.New("menu not found")

// MenuDocument is a catalogue entry in MongoDB.
type MenuDocument struct {
	ID         string              `bson:"_id"`
	Restaurant model.RestaurantRef `bson:"restaurant"`
	Name       string              `bson:"name"`
	Price      int64               `bson:"price"`
	Image      string              `bson:"image,omitempty"`
	Available  bool                `bson:"available"`
}

// Ref returns the menu reference stored on cart lines.
func (d *MenuDocument) Ref() model.MenuRef {
	return model.MenuRef{ID: d.ID, Name: d.Name, Price: d.Price, Image: d.Image}
}

// MenuRepository provides read access to the menu catalogue.
type MenuRepository struct {
	collection *mongo.Collection
}

// NewMenuRepository creates a new menu repository.
func NewMenuRepository(db *MongoDB) *MenuRepository {
	return &MenuRepository{collection: db.Menus}
}

// FindByID returns the menu entry with the given id.
func (r *MenuRepository) FindByID(ctx context.Context, id string) (*MenuDocument, error) {
	var doc MenuDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrMenuNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Upsert inserts or replaces menu entries.
func (r *MenuRepository) Upsert(ctx context.Context, menus []MenuDocument) error {
	if len(menus) == 0 {
		return nil
	}
	writes := make([]mongo.WriteModel, 0, len(menus))
	for _, m := range menus {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": m.ID}).
			SetReplacement(m).
			SetUpsert(true))
	}
	_, err := r.collection.BulkWrite(ctx, writes)
	return err
}

// Count returns the number of catalogue entries.
func (r *MenuRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// DemoMenus is the catalogue inserted by SeedMenus.
func DemoMenus() []MenuDocument {
	bangkok := model.RestaurantRef{ID: "rest-bangkok", Name: "Bangkok Street"}
	napoli := model.RestaurantRef{ID: "rest-napoli", Name: "Napoli Forno"}
	return []MenuDocument{
		{ID: "menu-pad-thai", Restaurant: bangkok, Name: "Pad Thai", Price: 20000, Available: true},
		{ID: "menu-green-curry", Restaurant: bangkok, Name: "Green Curry", Price: 18000, Available: true},
		{ID: "menu-spring-rolls", Restaurant: bangkok, Name: "Spring Rolls", Price: 6000, Available: true},
		{ID: "menu-mango-rice", Restaurant: bangkok, Name: "Mango Sticky Rice", Price: 9000, Available: false},
		{ID: "menu-margherita", Restaurant: napoli, Name: "Margherita", Price: 15000, Available: true},
		{ID: "menu-diavola", Restaurant: napoli, Name: "Diavola", Price: 17500, Available: true},
		{ID: "menu-tiramisu", Restaurant: napoli, Name: "Tiramisu", Price: 7000, Available: true},
	}
}

// SeedMenus inserts the demo catalogue when the menus collection is empty.
// It reports whether anything was inserted.
func SeedMenus(ctx context.Context, repo *MenuRepository) (bool, error) {
	count, err := repo.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count menus: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	if err := repo.Upsert(ctx, DemoMenus()); err != nil {
		return false, fmt.Errorf("seed menus: %w", err)
	}
	return true, nil
}
