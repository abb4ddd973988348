// Package cart implements the storefront's cart state manager: an in-memory
// shopping cart that keeps lines unique by product ID, keeps every quantity
// at one or above, computes derived totals on demand, and persists a full
// snapshot through a key-value store after every mutation.
package cart

import (
	"encoding/json"
	"fmt"
	"math"
)

// Line is one distinct product in the cart. Lines are keyed by product ID;
// the display name and unit price are locked in when the product is first
// added, so later catalog price changes do not touch carts already holding
// the product.
type Line struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Subtotal returns the line total: unit price times quantity.
func (l Line) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Pricing holds the rates applied when computing derived totals.
type Pricing struct {
	// TaxRate is applied to the subtotal (0.10 = 10%).
	TaxRate float64

	// FlatShipping is charged once per non-empty cart.
	FlatShipping float64
}

// DefaultPricing matches the storefront's published rates.
var DefaultPricing = Pricing{TaxRate: 0.10, FlatShipping: 5.00}

// Totals is the computed money breakdown for a cart state. It is derived on
// demand and never persisted. Amounts are rounded to cents.
type Totals struct {
	Subtotal float64
	Tax      float64
	Shipping float64
	Total    float64
}

// encodeSnapshot serialises the cart lines as a JSON array in insertion
// order. The snapshot schema is unversioned: {id, name, price, quantity}.
func encodeSnapshot(lines []Line) (string, error) {
	if lines == nil {
		lines = []Line{}
	}
	b, err := json.Marshal(lines)
	if err != nil {
		return "", fmt.Errorf("cart: encode snapshot: %w", err)
	}
	return string(b), nil
}

// decodeSnapshot parses a stored snapshot back into cart lines. Unknown
// fields are ignored. Lines that violate the cart invariants (empty id,
// quantity below one) are dropped rather than failing the whole snapshot.
func decodeSnapshot(raw string) ([]Line, error) {
	var parsed []Line
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("cart: decode snapshot: %w", err)
	}

	lines := make([]Line, 0, len(parsed))
	seen := make(map[string]struct{}, len(parsed))
	for _, l := range parsed {
		if l.ID == "" || l.Quantity < 1 {
			continue
		}
		if _, dup := seen[l.ID]; dup {
			continue
		}
		seen[l.ID] = struct{}{}
		lines = append(lines, l)
	}
	return lines, nil
}

// roundCents rounds a currency amount to two decimal places.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
