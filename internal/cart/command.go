package cart

import "context"

// Command is the tagged-variant mutation set accepted by Dispatch. It
// decouples the manager from any particular event source: an HTTP handler,
// a CLI, or a test submits the same commands.
type Command interface {
	isCommand()
}

// AddItem puts one unit of a product into the cart.
type AddItem struct {
	ID        string
	Name      string
	UnitPrice float64
}

// SetQuantity sets a line's quantity exactly; below one removes the line.
type SetQuantity struct {
	ID       string
	Quantity int
}

// RemoveItem deletes a line by product ID.
type RemoveItem struct {
	ID string
}

// Clear empties the cart.
type Clear struct{}

func (AddItem) isCommand()     {}
func (SetQuantity) isCommand() {}
func (RemoveItem) isCommand()  {}
func (Clear) isCommand()       {}

// Dispatch applies cmd to the cart and reports the resulting event.
func (m *Manager) Dispatch(ctx context.Context, cmd Command) Event {
	switch c := cmd.(type) {
	case AddItem:
		return m.AddItem(ctx, c.ID, c.Name, c.UnitPrice)
	case SetQuantity:
		return m.SetQuantity(ctx, c.ID, c.Quantity)
	case RemoveItem:
		return m.RemoveItem(ctx, c.ID)
	case Clear:
		return m.Clear(ctx)
	default:
		return Event{Key: m.key, Op: "unknown", Count: m.ItemCount()}
	}
}
