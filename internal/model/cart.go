package model

type CartLineCost struct {
	TotalAmount Money `json:"totalAmount"`
}

type CartLine struct {
	ID          string         `json:"id"`
	Quantity    int            `json:"quantity"`
	Merchandise ProductVariant `json:"merchandise"`
	Cost        CartLineCost   `json:"cost"`
}

type CartCost struct {
	SubtotalAmount Money  `json:"subtotalAmount"`
	TotalAmount    Money  `json:"totalAmount"`
	TotalTaxAmount *Money `json:"totalTaxAmount,omitempty"`
}

// Cart is owned by the remote API. The ID may change after any mutation.
type Cart struct {
	ID            string               `json:"id"`
	CheckoutURL   string               `json:"checkoutUrl,omitempty"`
	TotalQuantity int                  `json:"totalQuantity"`
	Lines         Connection[CartLine] `json:"lines"`
	Cost          CartCost             `json:"cost"`
}

// Line looks up a line by id.
func (c *Cart) Line(id string) (CartLine, bool) {
	for _, l := range c.Lines.Flatten() {
		if l.ID == id {
			return l, true
		}
	}
	return CartLine{}, false
}

// CartUserError is a business-rule rejection reported by the remote API.
type CartUserError struct {
	Message string   `json:"message"`
	Field   []string `json:"field,omitempty"`
	Code    string   `json:"code,omitempty"`
}

// CartResult is the payload of every cart mutation: the mutated cart and the
// remote user errors, both passed to the caller unchanged.
type CartResult struct {
	Cart   *Cart           `json:"cart"`
	Errors []CartUserError `json:"errors"`
}

type CartLineInput struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

type BuyerIdentity struct {
	CountryCode string `json:"countryCode,omitempty"`
}

type CartInput struct {
	Lines         []CartLineInput `json:"lines"`
	BuyerIdentity *BuyerIdentity  `json:"buyerIdentity,omitempty"`
}
