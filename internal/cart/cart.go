// Package cart holds the shopping cart slice: line items keyed by product id
// with merge-on-add semantics and derived totals.
package cart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ItemID is a product identifier in canonical string form. The backend sends
// numeric ids; older snapshots may carry strings. Both decode to the same key.
type ItemID string

func (id *ItemID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ItemID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("cart item id: %w", err)
	}
	*id = ItemID(n.String())
	return nil
}

func (id ItemID) String() string { return string(id) }

// Item is one cart line. Price is the unit price captured when the product
// was added; later catalog changes do not touch it.
type Item struct {
	ID       ItemID          `json:"id"`
	URL      string          `json:"url"`
	Name     string          `json:"name"`
	Image    string          `json:"image"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Subtotal is price times quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// State is the ordered list of lines; order is insertion order.
type State struct {
	Items []Item `json:"items"`
}

// Empty returns a cart with no lines.
func Empty() State {
	return State{Items: []Item{}}
}

// Add merges item into the cart. An existing line with the same id gains
// quantity; otherwise the item is appended. Quantities below 1 count as 1.
func Add(s State, item Item, quantity int) State {
	quantity = clamp(quantity)
	items := clone(s.Items)
	for i := range items {
		if items[i].ID == item.ID {
			items[i].Quantity = clamp(items[i].Quantity + quantity)
			return State{Items: items}
		}
	}
	item.Quantity = quantity
	return State{Items: append(items, item)}
}

// SetQuantity sets the quantity of id to max(1, quantity). Unknown ids
// leave the cart untouched.
func SetQuantity(s State, id ItemID, quantity int) State {
	idx := indexOf(s.Items, id)
	if idx < 0 {
		return s
	}
	items := clone(s.Items)
	items[idx].Quantity = clamp(quantity)
	return State{Items: items}
}

// Remove deletes the line for id, if any.
func Remove(s State, id ItemID) State {
	idx := indexOf(s.Items, id)
	if idx < 0 {
		return s
	}
	items := make([]Item, 0, len(s.Items)-1)
	items = append(items, s.Items[:idx]...)
	items = append(items, s.Items[idx+1:]...)
	return State{Items: items}
}

// Subtract takes the ordered quantities off the matching lines and drops
// the lines that reach zero. Lines added after the order was taken stay.
func Subtract(s State, ordered []Item) State {
	taken := make(map[ItemID]int, len(ordered))
	for _, it := range ordered {
		taken[it.ID] += it.Quantity
	}
	items := make([]Item, 0, len(s.Items))
	changed := false
	for _, it := range s.Items {
		q, ok := taken[it.ID]
		if !ok {
			items = append(items, it)
			continue
		}
		changed = true
		if it.Quantity > q {
			it.Quantity -= q
			items = append(items, it)
		}
	}
	if !changed {
		return s
	}
	return State{Items: items}
}

// Clear empties the cart.
func Clear(State) State {
	return Empty()
}

// Total is the exact sum of price*quantity over all lines.
func Total(s State) decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Count is the sum of quantities.
func Count(s State) int {
	n := 0
	for _, item := range s.Items {
		n += item.Quantity
	}
	return n
}

// Find returns the line for id.
func Find(s State, id ItemID) (Item, bool) {
	idx := indexOf(s.Items, id)
	if idx < 0 {
		return Item{}, false
	}
	return s.Items[idx], true
}

// Normalize repairs a decoded cart: drops lines without an id, merges
// duplicate ids in first-seen order, and clamps quantities.
func Normalize(s State) State {
	out := Empty()
	for _, item := range s.Items {
		if item.ID == "" {
			continue
		}
		q := item.Quantity
		out = Add(out, item, q)
	}
	return out
}

func clamp(q int) int {
	if q < 1 {
		return 1
	}
	return q
}

func indexOf(items []Item, id ItemID) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func clone(items []Item) []Item {
	out := make([]Item, len(items), len(items)+1)
	copy(out, items)
	return out
}
