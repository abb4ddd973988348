package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/storefront/internal/cart"
	"github.com/jcmexdev/storefront/internal/catalog"
	"github.com/jcmexdev/storefront/internal/contact"
	"github.com/jcmexdev/storefront/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()

	handler := NewHandler(
		cart.NewRegistry(store.NewMemory()),
		catalog.New([]catalog.Product{
			{ID: "1", Name: "Headphones", Category: "electronics", Price: 59.99},
			{ID: "2", Name: "Jacket", Category: "clothing", Price: 49.50},
		}),
		contact.NewService(),
	)

	srv := httptest.NewServer(NewRouter(handler))
	t.Cleanup(srv.Close)

	// The jar carries the session cookie, so requests in one test hit the
	// same cart.
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return srv, &http.Client{Jar: jar}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any, out any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestGetCartStartsEmpty(t *testing.T) {
	srv, client := newTestServer(t)

	var got CartResponse
	resp := doJSON(t, client, http.MethodGet, srv.URL+"/cart", nil, &got)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, got.Items)
	assert.Equal(t, 0, got.Count)
	assert.Zero(t, got.Totals.Total)
}

func TestSessionCookieAssignedOnFirstVisit(t *testing.T) {
	srv, client := newTestServer(t)

	resp := doJSON(t, client, http.MethodGet, srv.URL+"/cart", nil, nil)

	var found bool
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookie && c.Value != "" {
			found = true
		}
	}
	assert.True(t, found, "first response must set the session cookie")
}

func TestAddItemThenGetCart(t *testing.T) {
	srv, client := newTestServer(t)

	var got CartResponse
	resp := doJSON(t, client, http.MethodPost, srv.URL+"/cart/items",
		AddItemRequest{ID: "1", Name: "Headphones", Price: 59.99}, &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, got.Count)

	// The same session sees the item on a later read.
	doJSON(t, client, http.MethodGet, srv.URL+"/cart", nil, &got)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Headphones", got.Items[0].Name)
	assert.InDelta(t, 59.99, got.Items[0].LineTotal, 1e-9)
}

func TestAddSameItemTwiceBumpsQuantity(t *testing.T) {
	srv, client := newTestServer(t)
	req := AddItemRequest{ID: "1", Name: "Headphones", Price: 59.99}

	var got CartResponse
	doJSON(t, client, http.MethodPost, srv.URL+"/cart/items", req, &got)
	doJSON(t, client, http.MethodPost, srv.URL+"/cart/items", req, &got)

	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, 2, got.Count)
}

func TestAddItemValidation(t *testing.T) {
	srv, client := newTestServer(t)

	resp := doJSON(t, client, http.MethodPost, srv.URL+"/cart/items",
		AddItemRequest{Name: "no id", Price: 1}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, client, http.MethodPost, srv.URL+"/cart/items",
		AddItemRequest{ID: "1", Name: "Headphones", Price: -5}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSetQuantity(t *testing.T) {
	srv, client := newTestServer(t)
	doJSON(t, client, http.MethodPost, srv.URL+"/cart/items",
		AddItemRequest{ID: "1", Name: "Headphones", Price: 59.99}, nil)

	var got CartResponse
	resp := doJSON(t, client, http.MethodPut, srv.URL+"/cart/items/1",
		SetQuantityRequest{Quantity: 4}, &got)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 4, got.Count)
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	srv, client := newTestServer(t)
	doJSON(t, client, http.MethodPost, srv.URL+"/cart/items",
		AddItemRequest{ID: "1", Name: "Headphones", Price: 59.99}, nil)

	var got CartResponse
	doJSON(t, client, http.MethodPut, srv.URL+"/cart/items/1",
		SetQuantityRequest{Quantity: 0}, &got)

	assert.Empty(t, got.Items)
	assert.Equal(t, 0, got.Count)
}

func TestSetQuantityRejectsMalformedBody(t *testing.T) {
	srv, client := newTestServer(t)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/cart/items/1",
		bytes.NewReader([]byte(`{"quantity":"three"}`)))
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRemoveItem(t *testing.T) {
	srv, client := newTestServer(t)
	doJSON(t, client, http.MethodPost, srv.URL+"/cart/items",
		AddItemRequest{ID: "1", Name: "Headphones", Price: 59.99}, nil)

	var got CartResponse
	resp := doJSON(t, client, http.MethodDelete, srv.URL+"/cart/items/1", nil, &got)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, got.Items)
}

func TestRemoveAbsentItemIsNotAnError(t *testing.T) {
	srv, client := newTestServer(t)

	resp := doJSON(t, client, http.MethodDelete, srv.URL+"/cart/items/ghost", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClearCart(t *testing.T) {
	srv, client := newTestServer(t)
	doJSON(t, client, http.MethodPost, srv.URL+"/cart/items",
		AddItemRequest{ID: "1", Name: "Headphones", Price: 59.99}, nil)

	var got CartResponse
	doJSON(t, client, http.MethodDelete, srv.URL+"/cart", nil, &got)
	assert.Empty(t, got.Items)

	// Clearing again is fine.
	resp := doJSON(t, client, http.MethodDelete, srv.URL+"/cart", nil, &got)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCartTotals(t *testing.T) {
	srv, client := newTestServer(t)

	doJSON(t, client, http.MethodPost, srv.URL+"/cart/items",
		AddItemRequest{ID: "A", Name: "Widget", Price: 10.00}, nil)
	doJSON(t, client, http.MethodPut, srv.URL+"/cart/items/A",
		SetQuantityRequest{Quantity: 2}, nil)

	var got CartResponse
	doJSON(t, client, http.MethodPost, srv.URL+"/cart/items",
		AddItemRequest{ID: "B", Name: "Gadget", Price: 5.50}, &got)

	assert.InDelta(t, 25.50, got.Totals.Subtotal, 1e-9)
	assert.InDelta(t, 2.55, got.Totals.Tax, 1e-9)
	assert.InDelta(t, 5.00, got.Totals.Shipping, 1e-9)
	assert.InDelta(t, 33.05, got.Totals.Total, 1e-9)
}

func TestSessionsHaveSeparateCarts(t *testing.T) {
	srv, clientA := newTestServer(t)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	clientB := &http.Client{Jar: jar}

	doJSON(t, clientA, http.MethodPost, srv.URL+"/cart/items",
		AddItemRequest{ID: "1", Name: "Headphones", Price: 59.99}, nil)

	var got CartResponse
	doJSON(t, clientB, http.MethodGet, srv.URL+"/cart", nil, &got)
	assert.Empty(t, got.Items, "another visitor must not see this cart")
}

func TestListProducts(t *testing.T) {
	srv, client := newTestServer(t)

	var got []ProductResponse
	resp := doJSON(t, client, http.MethodGet, srv.URL+"/products", nil, &got)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, got, 2)
}

func TestListProductsFiltered(t *testing.T) {
	srv, client := newTestServer(t)

	var got []ProductResponse
	doJSON(t, client, http.MethodGet, srv.URL+"/products?category=clothing", nil, &got)
	require.Len(t, got, 1)
	assert.Equal(t, "Jacket", got[0].Name)

	doJSON(t, client, http.MethodGet, srv.URL+"/products?price=50-100", nil, &got)
	require.Len(t, got, 1)
	assert.Equal(t, "Headphones", got[0].Name)
}

func TestSubmitContact(t *testing.T) {
	srv, client := newTestServer(t)

	var got ContactResponse
	resp := doJSON(t, client, http.MethodPost, srv.URL+"/contact", ContactRequest{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Subject: "Hello",
		Message: "Just saying hi.",
	}, &got)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, got.ID)
	assert.Contains(t, got.Message, "Thank you")
}

func TestSubmitContactInvalid(t *testing.T) {
	srv, client := newTestServer(t)

	var got ErrorResponse
	resp := doJSON(t, client, http.MethodPost, srv.URL+"/contact",
		ContactRequest{Name: "Ada Lovelace"}, &got)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_form", got.Error)
}
