// Package catalog holds the product listing and the category/price-range
// filter behind the storefront's products page. The listing is read-only:
// cart lines lock in their own copy of the price at add time, so catalog
// updates never rewrite carts.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Product is one card in the product listing.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Image    string  `json:"image,omitempty"`
}

// All matches every category or price range in Filter.
const All = "all"

// Catalog is an ordered product list.
type Catalog struct {
	products []Product
}

func New(products []Product) *Catalog {
	return &Catalog{products: append([]Product(nil), products...)}
}

// FromJSON reads a JSON array of products, e.g. a seed file named in config.
func FromJSON(r io.Reader) (*Catalog, error) {
	var products []Product
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, fmt.Errorf("catalog: decode products: %w", err)
	}
	return New(products), nil
}

// Products returns the full listing in catalog order.
func (c *Catalog) Products() []Product {
	return append([]Product(nil), c.products...)
}

// Filter returns the products matching category and priceRange, preserving
// catalog order. Category "all" or empty matches everything. priceRange is
// "all" or "min-max" with inclusive bounds; a malformed range matches
// everything rather than hiding the whole listing.
func (c *Catalog) Filter(category, priceRange string) []Product {
	lo, hi, bounded := parsePriceRange(priceRange)

	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if category != "" && category != All && p.Category != category {
			continue
		}
		if bounded && (p.Price < lo || p.Price > hi) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// parsePriceRange parses "min-max". bounded is false for "all", empty, or
// malformed input.
func parsePriceRange(s string) (lo, hi float64, bounded bool) {
	if s == "" || s == All {
		return 0, 0, false
	}
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	lo, errLo := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	hi, errHi := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLo != nil || errHi != nil || lo > hi {
		return 0, 0, false
	}
	return lo, hi, true
}

// DefaultProducts is the built-in seed used when no catalog file is
// configured. Mirrors the demo storefront's product cards.
func DefaultProducts() []Product {
	return []Product{
		{ID: "1", Name: "Wireless Headphones", Category: "electronics", Price: 59.99, Image: "images/product1.jpg"},
		{ID: "2", Name: "Smart Watch", Category: "electronics", Price: 129.99, Image: "images/product2.jpg"},
		{ID: "3", Name: "Denim Jacket", Category: "clothing", Price: 49.50, Image: "images/product3.jpg"},
		{ID: "4", Name: "Running Shoes", Category: "clothing", Price: 89.00, Image: "images/product4.jpg"},
		{ID: "5", Name: "Ceramic Mug Set", Category: "home", Price: 24.99, Image: "images/product5.jpg"},
		{ID: "6", Name: "Table Lamp", Category: "home", Price: 39.95, Image: "images/product6.jpg"},
	}
}
