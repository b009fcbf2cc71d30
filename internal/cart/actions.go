package cart

// Action is a cart mutation intent.
type Action interface {
	Type() string
}

type AddItem struct {
	Item     Item
	Quantity int
}

type UpdateQuantity struct {
	ID       ItemID
	Quantity int
}

type RemoveItem struct {
	ID ItemID
}

type ClearCart struct{}

// RemoveOrdered drops the lines of a placed order.
type RemoveOrdered struct {
	Items []Item
}

func (AddItem) Type() string        { return "cart/addToCart" }
func (UpdateQuantity) Type() string { return "cart/updateQuantity" }
func (RemoveItem) Type() string     { return "cart/removeFromCart" }
func (ClearCart) Type() string      { return "cart/clearCart" }
func (RemoveOrdered) Type() string  { return "cart/removeOrdered" }

// Reduce applies a to s. Actions from other slices return s unchanged.
func Reduce(s State, a any) State {
	switch act := a.(type) {
	case AddItem:
		return Add(s, act.Item, act.Quantity)
	case UpdateQuantity:
		return SetQuantity(s, act.ID, act.Quantity)
	case RemoveItem:
		return Remove(s, act.ID)
	case ClearCart:
		return Clear(s)
	case RemoveOrdered:
		return Subtract(s, act.Items)
	default:
		return s
	}
}
