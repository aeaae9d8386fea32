package api

import (
	"fmt"
	"strconv"
)

// --- Supplier Methods ---

// CreateSupplier registers a new supplier.
func (c *Client) CreateSupplier(input SupplierInput) (*Supplier, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	data, err := c.post("/v1/api/suppliers", input)
	if err != nil {
		return nil, err
	}
	return decodeOne[Supplier](data)
}

// GetSupplier retrieves a supplier by id.
func (c *Client) GetSupplier(id int64) (*Supplier, error) {
	data, err := c.get(fmt.Sprintf("/v1/api/suppliers/%d", id))
	if err != nil {
		return nil, err
	}
	return decodeOne[Supplier](data)
}

// ListSuppliersPage returns one server-side filtered page. page is 0-based.
func (c *Client) ListSuppliersPage(page, pageSize int, filter SupplierFilter) (*Page[Supplier], error) {
	path := buildQuery("/v1/api/suppliers", QueryParams{
		"pageSize":     strconv.Itoa(pageSize),
		"pageNumber":   strconv.Itoa(page),
		"nomeFantasia": filter.NomeFantasia,
		"email":        filter.Email,
	})
	data, err := c.get(path)
	if err != nil {
		return nil, err
	}
	return decodePage[Supplier](data)
}

// ListSuppliers returns every supplier by walking the pages.
func (c *Client) ListSuppliers() ([]Supplier, error) {
	const pageSize = 100
	var all []Supplier
	for page := 0; ; page++ {
		p, err := c.ListSuppliersPage(page, pageSize, SupplierFilter{})
		if err != nil {
			return nil, err
		}
		all = append(all, p.Items...)
		if len(p.Items) == 0 || page+1 >= p.TotalPages {
			break
		}
	}
	if all == nil {
		all = []Supplier{}
	}
	return all, nil
}

// UpdateSupplier replaces a supplier.
func (c *Client) UpdateSupplier(id int64, input SupplierInput) (*Supplier, error) {
	if id <= 0 {
		return nil, ValidationError{Field: "id", Message: "supplier id is required"}
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	data, err := c.put(fmt.Sprintf("/v1/api/suppliers/%d", id), input)
	if err != nil {
		return nil, err
	}
	return decodeOne[Supplier](data)
}

// DeleteSupplier removes a supplier.
func (c *Client) DeleteSupplier(id int64) error {
	if id <= 0 {
		return ValidationError{Field: "id", Message: "supplier id is required"}
	}
	_, err := c.del(fmt.Sprintf("/v1/api/suppliers/%d", id))
	return err
}
