package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jcmexdev/storefront/internal/store"
)

// Event describes a completed mutation. It is delivered synchronously to the
// manager's listener exactly once per state-changing call, and returned to
// the caller so the presentation layer can re-render from fresh state.
type Event struct {
	// Key is the persistence key of the cart that changed.
	Key string

	// Op names the mutation: "add", "set_quantity", "remove" or "clear".
	Op string

	// Count is the total item quantity after the mutation.
	Count int

	// SaveErr is the snapshot write failure, if any. The in-memory state
	// stands regardless; callers should surface this as a warning, never
	// as a request failure.
	SaveErr error
}

// Listener receives change notifications from a Manager.
type Listener func(Event)

// Option configures a Manager at construction time.
type Option func(*Manager)

// WithPricing overrides the default tax rate and flat shipping amount.
func WithPricing(p Pricing) Option {
	return func(m *Manager) { m.pricing = p }
}

// WithListener registers the presentation-layer notification hook.
func WithListener(l Listener) Option {
	return func(m *Manager) { m.listener = l }
}

// Manager owns one cart. All reads and writes of cart data go through it;
// every mutation writes the full snapshot back to the store before returning,
// so a subsequent load never observes a partial state.
//
// Mutations never fail: unknown IDs are no-ops and out-of-range quantities
// are coerced (a quantity below one removes the line), matching the
// storefront's forgiving contract.
type Manager struct {
	mu       sync.Mutex
	lines    []Line
	store    store.Store
	key      string
	pricing  Pricing
	listener Listener
}

// New loads the snapshot stored under key and returns a live manager.
// A missing or unreadable snapshot yields an empty cart; loading never fails.
func New(ctx context.Context, st store.Store, key string, opts ...Option) *Manager {
	m := &Manager{store: st, key: key, pricing: DefaultPricing}
	for _, opt := range opts {
		opt(m)
	}

	raw, ok, err := st.Load(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "cart snapshot load failed, starting empty", "key", key, "error", err)
		return m
	}
	if !ok {
		return m
	}

	lines, err := decodeSnapshot(raw)
	if err != nil {
		slog.WarnContext(ctx, "cart snapshot unreadable, starting empty", "key", key, "error", err)
		return m
	}
	m.lines = lines
	return m
}

// AddItem puts one unit of a product into the cart. If a line with the same
// ID exists its quantity is incremented; otherwise a new line with quantity
// one is appended, preserving insertion order.
func (m *Manager) AddItem(ctx context.Context, id, name string, unitPrice float64) Event {
	m.mu.Lock()
	if i := m.indexLocked(id); i >= 0 {
		m.lines[i].Quantity++
	} else {
		m.lines = append(m.lines, Line{ID: id, Name: name, UnitPrice: unitPrice, Quantity: 1})
	}
	return m.commitLocked(ctx, "add")
}

// SetQuantity sets a line's quantity exactly. An unknown ID is a no-op; a
// quantity below one removes the line, same as RemoveItem.
func (m *Manager) SetQuantity(ctx context.Context, id string, quantity int) Event {
	m.mu.Lock()
	i := m.indexLocked(id)
	if i < 0 {
		return m.noopLocked("set_quantity")
	}
	if quantity < 1 {
		m.lines = append(m.lines[:i], m.lines[i+1:]...)
	} else {
		m.lines[i].Quantity = quantity
	}
	return m.commitLocked(ctx, "set_quantity")
}

// RemoveItem deletes the line with the given ID. An absent ID is a no-op.
func (m *Manager) RemoveItem(ctx context.Context, id string) Event {
	m.mu.Lock()
	i := m.indexLocked(id)
	if i < 0 {
		return m.noopLocked("remove")
	}
	m.lines = append(m.lines[:i], m.lines[i+1:]...)
	return m.commitLocked(ctx, "remove")
}

// Clear empties the cart unconditionally. Clearing an already empty cart is
// a valid mutation: it persists and notifies like any other.
func (m *Manager) Clear(ctx context.Context) Event {
	m.mu.Lock()
	m.lines = nil
	return m.commitLocked(ctx, "clear")
}

// Lines returns a copy of the ordered cart lines. Mutating the returned
// slice does not affect the manager.
func (m *Manager) Lines() []Line {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Line(nil), m.lines...)
}

// ItemCount returns the sum of all line quantities; zero for an empty cart.
func (m *Manager) ItemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return countItems(m.lines)
}

// DerivedTotals computes the money breakdown for the current cart state.
// An empty cart yields all-zero totals: flat shipping is only charged once
// there is something to ship.
func (m *Manager) DerivedTotals() Totals {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.lines) == 0 {
		return Totals{}
	}

	var subtotal float64
	for _, l := range m.lines {
		subtotal += l.Subtotal()
	}
	tax := subtotal * m.pricing.TaxRate
	shipping := m.pricing.FlatShipping

	return Totals{
		Subtotal: roundCents(subtotal),
		Tax:      roundCents(tax),
		Shipping: roundCents(shipping),
		Total:    roundCents(subtotal + tax + shipping),
	}
}

// indexLocked returns the position of the line with the given ID, or -1.
func (m *Manager) indexLocked(id string) int {
	for i, l := range m.lines {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// commitLocked persists the snapshot and emits the change notification.
// The caller must hold mu; commitLocked releases it before invoking the
// listener so listeners can call the read accessors.
func (m *Manager) commitLocked(ctx context.Context, op string) Event {
	ev := Event{Key: m.key, Op: op, Count: countItems(m.lines)}

	raw, err := encodeSnapshot(m.lines)
	if err == nil {
		err = m.store.Save(ctx, m.key, raw)
	}
	ev.SaveErr = err
	listener := m.listener
	m.mu.Unlock()

	if err != nil {
		slog.WarnContext(ctx, "cart snapshot write failed, in-memory state kept",
			"key", m.key, "op", op, "error", err)
	}
	if listener != nil {
		listener(ev)
	}
	return ev
}

// noopLocked releases mu and reports an unchanged cart. Nothing was mutated,
// so nothing is persisted and no notification is sent.
func (m *Manager) noopLocked(op string) Event {
	ev := Event{Key: m.key, Op: op, Count: countItems(m.lines)}
	m.mu.Unlock()
	return ev
}

func countItems(lines []Line) int {
	total := 0
	for _, l := range lines {
		total += l.Quantity
	}
	return total
}
