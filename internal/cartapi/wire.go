package cartapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/guttosm/storefront-cart/internal/domain/model"
)

// cartPayload is the cart document returned by GET /cart.
// Subtotals and the summary sent by the backend are ignored and derived locally.
type cartPayload struct {
	Groups  []groupPayload  `json:"groups" validate:"required,dive"`
	Summary json.RawMessage `json:"summary"`
}

var cartPayloadFields = map[string]bool{"groups": true, "summary": true}

// UnmarshalJSON rejects documents without a groups list and documents
// carrying top-level fields this client does not know.
func (p *cartPayload) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return &DecodeError{Reason: err.Error(), Err: err}
	}
	groups, ok := fields["groups"]
	if !ok || string(groups) == "null" {
		return &DecodeError{Field: "groups", Reason: "is required"}
	}
	for name := range fields {
		if !cartPayloadFields[name] {
			return &DecodeError{Field: name, Reason: "unknown field"}
		}
	}

	type plain cartPayload
	if err := json.Unmarshal(data, (*plain)(p)); err != nil {
		return &DecodeError{Reason: err.Error(), Err: err}
	}
	return nil
}

type groupPayload struct {
	Restaurant restaurantPayload `json:"restaurant"`
	Items      []itemPayload     `json:"items" validate:"required,min=1,dive"`
}

type restaurantPayload struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
	Logo string `json:"logo"`
}

type itemPayload struct {
	ID        string      `json:"id" validate:"required"`
	Menu      menuPayload `json:"menu"`
	Quantity  int         `json:"quantity" validate:"min=1"`
	ItemTotal *int64      `json:"item_total" validate:"required"`
}

type menuPayload struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Price *int64 `json:"price" validate:"required,min=0"`
	Image string `json:"image"`
}

// errorPayload is the structured error body of a rejected request.
type errorPayload struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// toSnapshot validates the payload and converts it to a cart snapshot.
func (p *cartPayload) toSnapshot(v *validator.Validate) (model.CartSnapshot, error) {
	if err := v.Struct(p); err != nil {
		return model.CartSnapshot{}, decodeErrorFromValidation(err)
	}

	groups := make([]model.CartRestaurantGroup, 0, len(p.Groups))
	for gi, g := range p.Groups {
		items := make([]model.CartItem, 0, len(g.Items))
		for ii, it := range g.Items {
			menu := model.MenuRef{
				ID:    it.Menu.ID,
				Name:  it.Menu.Name,
				Price: *it.Menu.Price,
				Image: it.Menu.Image,
			}
			item := model.NewCartItem(it.ID, menu, it.Quantity)
			if *it.ItemTotal != item.ItemTotal {
				return model.CartSnapshot{}, &DecodeError{
					Field:  fmt.Sprintf("groups[%d].items[%d].item_total", gi, ii),
					Reason: fmt.Sprintf("got %d, want price*quantity=%d", *it.ItemTotal, item.ItemTotal),
				}
			}
			items = append(items, item)
		}
		restaurant := model.RestaurantRef{ID: g.Restaurant.ID, Name: g.Restaurant.Name, Logo: g.Restaurant.Logo}
		groups = append(groups, model.NewRestaurantGroup(restaurant, items))
	}
	return model.NewSnapshot(groups), nil
}

func decodeErrorFromValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &DecodeError{Reason: err.Error(), Err: err}
	}
	first := verrs[0]
	field := first.Namespace()
	// Drop the root struct name.
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	reason := first.Tag()
	if first.Param() != "" {
		reason += "=" + first.Param()
	}
	return &DecodeError{Field: field, Reason: "failed " + reason, Err: err}
}
