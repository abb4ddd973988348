package httpx

type AddItemRequest struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CartLineResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

type TotalsResponse struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

type CartResponse struct {
	Items  []CartLineResponse `json:"items"`
	Count  int                `json:"count"`
	Totals TotalsResponse     `json:"totals"`

	// Warning is set when the cart changed in memory but the snapshot
	// write failed; the mutation itself still succeeded.
	Warning string `json:"warning,omitempty"`
}

type ProductResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Image    string  `json:"image,omitempty"`
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type ContactResponse struct {
	ID         string `json:"id"`
	ReceivedAt string `json:"received_at"`
	Message    string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
