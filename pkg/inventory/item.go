package inventory

import (
	"errors"
	"fmt"
	"strings"
)

// Color is an optional display color for an item.
type Color struct {
	Name  string  `json:"name"`
	Red   float64 `json:"red"`
	Green float64 `json:"green"`
	Blue  float64 `json:"blue"`
}

// Palette lists the colors a form can pick from.
var Palette = []Color{
	{Name: "Red", Red: 1},
	{Name: "Green", Green: 1},
	{Name: "Blue", Blue: 1},
	{Name: "Black"},
	{Name: "Yellow", Red: 1, Green: 1},
	{Name: "White", Red: 1, Green: 1, Blue: 1},
}

// ColorNamed looks a palette color up by name, ignoring case.
func ColorNamed(name string) (Color, bool) {
	for _, c := range Palette {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Color{}, false
}

// Status is the stock variant of an item: in stock with a quantity, or out
// of stock with a back-order flag. Use InStock and OutOfStock to build one.
type Status struct {
	InStock       bool `json:"in_stock"`
	Quantity      int  `json:"quantity,omitempty"`
	IsOnBackOrder bool `json:"is_on_back_order,omitempty"`
}

// InStock returns an in-stock status holding quantity units.
func InStock(quantity int) Status {
	return Status{InStock: true, Quantity: quantity}
}

// OutOfStock returns an out-of-stock status.
func OutOfStock(isOnBackOrder bool) Status {
	return Status{IsOnBackOrder: isOnBackOrder}
}

func (s Status) String() string {
	if s.InStock {
		return fmt.Sprintf("in stock: %d", s.Quantity)
	}
	if s.IsOnBackOrder {
		return "out of stock (on back order)"
	}
	return "out of stock"
}

// Item is an inventory entry. ID is its stable identity.
type Item struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Color  *Color `json:"color,omitempty"`
	Status Status `json:"status"`
}

// Identity implements identified.Identifiable.
func (i Item) Identity() string { return i.ID }

var (
	ErrMissingID        = errors.New("item has no id")
	ErrNegativeQuantity = errors.New("in-stock quantity must not be negative")
	ErrMixedStatus      = errors.New("status mixes in-stock and out-of-stock fields")
)

// Validate reports violations of the item invariants.
func (i Item) Validate() error {
	var errs []error
	if i.ID == "" {
		errs = append(errs, ErrMissingID)
	}
	if i.Status.InStock {
		if i.Status.Quantity < 0 {
			errs = append(errs, ErrNegativeQuantity)
		}
		if i.Status.IsOnBackOrder {
			errs = append(errs, ErrMixedStatus)
		}
	} else if i.Status.Quantity != 0 {
		errs = append(errs, ErrMixedStatus)
	}
	return errors.Join(errs...)
}

// clone returns a deep copy so the color pointer is never shared.
func (i Item) clone() Item {
	if i.Color != nil {
		c := *i.Color
		i.Color = &c
	}
	return i
}
