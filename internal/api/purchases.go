package api

import (
	"fmt"
	"strings"
)

// --- Purchase Methods ---

// ListPurchases returns every recorded purchase.
func (c *Client) ListPurchases() ([]Purchase, error) {
	data, err := c.get("/v1/api/entradas")
	if err != nil {
		return nil, err
	}
	return decodeList[Purchase](data)
}

// CreatePurchase records goods received from a supplier.
func (c *Client) CreatePurchase(input PurchaseInput) (*Purchase, error) {
	if strings.TrimSpace(input.Observacao) == "" {
		input.Observacao = DefaultPurchaseNote
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	data, err := c.post("/v1/api/entradas", input)
	if err != nil {
		return nil, err
	}
	return decodeOne[Purchase](data)
}

// UpdatePurchase replaces a purchase.
func (c *Client) UpdatePurchase(id int64, input PurchaseInput) (*Purchase, error) {
	if id <= 0 {
		return nil, ValidationError{Field: "id", Message: "purchase id is required"}
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	data, err := c.put(fmt.Sprintf("/v1/api/entradas/%d", id), input)
	if err != nil {
		return nil, err
	}
	return decodeOne[Purchase](data)
}
