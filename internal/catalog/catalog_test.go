package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProducts() []Product {
	return []Product{
		{ID: "1", Name: "Headphones", Category: "electronics", Price: 59.99},
		{ID: "2", Name: "Smart Watch", Category: "electronics", Price: 129.99},
		{ID: "3", Name: "Jacket", Category: "clothing", Price: 49.50},
		{ID: "4", Name: "Mug Set", Category: "home", Price: 24.99},
	}
}

func ids(products []Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestFilterByCategory(t *testing.T) {
	c := New(testProducts())

	got := c.Filter("electronics", All)
	assert.Equal(t, []string{"1", "2"}, ids(got))
}

func TestFilterByPriceRange(t *testing.T) {
	c := New(testProducts())

	got := c.Filter(All, "0-50")
	assert.Equal(t, []string{"3", "4"}, ids(got))
}

func TestFilterPriceBoundsInclusive(t *testing.T) {
	c := New(testProducts())

	got := c.Filter(All, "24.99-59.99")
	assert.Equal(t, []string{"1", "3", "4"}, ids(got))
}

func TestFilterCombined(t *testing.T) {
	c := New(testProducts())

	got := c.Filter("electronics", "100-200")
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
}

func TestFilterAllMatchesEverything(t *testing.T) {
	c := New(testProducts())

	assert.Len(t, c.Filter(All, All), 4)
	assert.Len(t, c.Filter("", ""), 4)
}

func TestFilterMalformedRangeMatchesEverything(t *testing.T) {
	c := New(testProducts())

	for _, bad := range []string{"cheap", "10-", "-", "50-10", "a-b"} {
		assert.Len(t, c.Filter(All, bad), 4, "range %q must not hide the listing", bad)
	}
}

func TestFilterPreservesCatalogOrder(t *testing.T) {
	c := New(testProducts())

	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(c.Filter(All, All)))
}

func TestFromJSON(t *testing.T) {
	seed := `[{"id":"9","name":"Lamp","category":"home","price":39.95}]`

	c, err := FromJSON(strings.NewReader(seed))
	require.NoError(t, err)
	require.Len(t, c.Products(), 1)
	assert.Equal(t, "Lamp", c.Products()[0].Name)
}

func TestFromJSONRejectsGarbage(t *testing.T) {
	_, err := FromJSON(strings.NewReader("not json"))
	assert.Error(t, err)
}

func TestProductsReturnsCopy(t *testing.T) {
	c := New(testProducts())

	got := c.Products()
	got[0].Name = "mutated"

	assert.Equal(t, "Headphones", c.Products()[0].Name)
}
