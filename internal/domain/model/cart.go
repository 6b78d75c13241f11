// Package model defines the core domain entities for the cart service.
package model

// MenuRef is the menu entry a cart line refers to.
//
// @Description Menu entry referenced by a cart item
type MenuRef struct {
	ID   string `json:"id" bson:"id" example:"menu-42"`
	Name string `json:"name" bson:"name" example:"Pad Thai"`
	// Price is the unit price in minor currency units
	Price int64  `json:"price" bson:"price" example:"20000"`
	Image string `json:"image,omitempty" bson:"image,omitempty"`
}

// RestaurantRef identifies the restaurant owning a group of cart items.
//
// @Description Restaurant owning a cart group
type RestaurantRef struct {
	ID   string `json:"id" bson:"id" example:"rest-7"`
	Name string `json:"name" bson:"name" example:"Bangkok Street"`
	Logo string `json:"logo,omitempty" bson:"logo,omitempty"`
}

// CartItem is a single line of the cart.
// ItemTotal always equals Menu.Price * Quantity; build items with
// NewCartItem or WithQuantity so the two never drift apart.
//
// @Description Cart line item
type CartItem struct {
	ID        string  `json:"id" example:"b7c1e0c2-0d5e-4a55-8a43-5b0d8f1f3c11"`
	Menu      MenuRef `json:"menu"`
	Quantity  int     `json:"quantity" example:"2"`
	ItemTotal int64   `json:"item_total" example:"40000"`
}

// NewCartItem creates a cart item with a derived ItemTotal.
func NewCartItem(id string, menu MenuRef, quantity int) CartItem {
	return CartItem{
		ID:        id,
		Menu:      menu,
		Quantity:  quantity,
		ItemTotal: menu.Price * int64(quantity),
	}
}

// WithQuantity returns a copy of the item with the quantity replaced and the total recomputed.
func (i CartItem) WithQuantity(quantity int) CartItem {
	return NewCartItem(i.ID, i.Menu, quantity)
}

// CartRestaurantGroup aggregates the items of one restaurant.
//
// @Description Items of one restaurant with their subtotal
type CartRestaurantGroup struct {
	Restaurant RestaurantRef `json:"restaurant"`
	Items      []CartItem    `json:"items"`
	Subtotal   int64         `json:"subtotal" example:"40000"`
}

// NewRestaurantGroup creates a group whose subtotal is derived from items.
func NewRestaurantGroup(restaurant RestaurantRef, items []CartItem) CartRestaurantGroup {
	return CartRestaurantGroup{
		Restaurant: restaurant,
		Items:      items,
		Subtotal:   subtotal(items),
	}
}

func subtotal(items []CartItem) int64 {
	var sum int64
	for _, it := range items {
		sum += it.ItemTotal
	}
	return sum
}

// CartSummary holds the totals across all groups.
//
// @Description Cart totals
type CartSummary struct {
	TotalItems      int   `json:"total_items" example:"3"`
	TotalPrice      int64 `json:"total_price" example:"60000"`
	RestaurantCount int   `json:"restaurant_count" example:"1"`
}

// CartSnapshot is the full cart value held in the query cache.
//
// @Description Cart groups with their summary
type CartSnapshot struct {
	Groups  []CartRestaurantGroup `json:"groups"`
	Summary CartSummary           `json:"summary"`
}

// EmptySnapshot returns the canonical empty cart.
func EmptySnapshot() CartSnapshot {
	return CartSnapshot{Groups: []CartRestaurantGroup{}}
}

// NewSnapshot builds a snapshot from groups, deriving the summary.
func NewSnapshot(groups []CartRestaurantGroup) CartSnapshot {
	if groups == nil {
		groups = []CartRestaurantGroup{}
	}
	return CartSnapshot{Groups: groups, Summary: Recompute(groups)}
}

// Recompute derives the cart summary from its groups.
// It is total over its input: nil or empty groups yield the zero summary.
func Recompute(groups []CartRestaurantGroup) CartSummary {
	summary := CartSummary{RestaurantCount: len(groups)}
	for _, g := range groups {
		for _, it := range g.Items {
			summary.TotalItems += it.Quantity
		}
		summary.TotalPrice += g.Subtotal
	}
	return summary
}

// Clone returns a deep copy of the snapshot.
func (s CartSnapshot) Clone() CartSnapshot {
	if s.Groups == nil {
		return CartSnapshot{Summary: s.Summary}
	}
	groups := make([]CartRestaurantGroup, len(s.Groups))
	for i, g := range s.Groups {
		groups[i] = g
		if g.Items != nil {
			groups[i].Items = append(make([]CartItem, 0, len(g.Items)), g.Items...)
		}
	}
	return CartSnapshot{Groups: groups, Summary: s.Summary}
}

// locate returns the group and item indexes of itemID, or -1, -1.
func (s CartSnapshot) locate(itemID string) (int, int) {
	for gi, g := range s.Groups {
		for ii, it := range g.Items {
			if it.ID == itemID {
				return gi, ii
			}
		}
	}
	return -1, -1
}

// UpdateItemQuantity projects a quantity change onto the snapshot.
// The receiver is left untouched. Unknown ids return the snapshot unchanged.
// Quantities below 1 must be rejected by the caller.
func (s CartSnapshot) UpdateItemQuantity(itemID string, quantity int) CartSnapshot {
	gi, ii := s.locate(itemID)
	if gi < 0 {
		return s
	}

	groups := make([]CartRestaurantGroup, len(s.Groups))
	copy(groups, s.Groups)

	owner := s.Groups[gi]
	items := make([]CartItem, len(owner.Items))
	copy(items, owner.Items)
	items[ii] = items[ii].WithQuantity(quantity)
	groups[gi] = NewRestaurantGroup(owner.Restaurant, items)

	return NewSnapshot(groups)
}

// RemoveItem projects the removal of an item onto the snapshot.
// A group left without items is dropped. Unknown ids return the snapshot unchanged.
func (s CartSnapshot) RemoveItem(itemID string) CartSnapshot {
	gi, ii := s.locate(itemID)
	if gi < 0 {
		return s
	}

	owner := s.Groups[gi]
	items := make([]CartItem, 0, len(owner.Items)-1)
	items = append(items, owner.Items[:ii]...)
	items = append(items, owner.Items[ii+1:]...)

	groups := make([]CartRestaurantGroup, 0, len(s.Groups))
	groups = append(groups, s.Groups[:gi]...)
	if len(items) > 0 {
		groups = append(groups, NewRestaurantGroup(owner.Restaurant, items))
	}
	groups = append(groups, s.Groups[gi+1:]...)

	return NewSnapshot(groups)
}
