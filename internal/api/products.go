package api

import (
	"fmt"
	"strconv"
)

// --- Product Methods ---

// CreateProduct registers a new product.
func (c *Client) CreateProduct(input ProductInput) (*Product, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	data, err := c.post("/v1/api/produtos", input)
	if err != nil {
		return nil, err
	}
	return decodeOne[Product](data)
}

// GetProduct retrieves a product by id.
func (c *Client) GetProduct(id int64) (*Product, error) {
	data, err := c.get(productPath(id))
	if err != nil {
		return nil, err
	}
	return decodeOne[Product](data)
}

// UpdateProduct replaces the editable fields of a product.
func (c *Client) UpdateProduct(id int64, input ProductInput) (*Product, error) {
	if id <= 0 {
		return nil, ValidationError{Field: "id", Message: "product id is required"}
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	data, err := c.patch(productPath(id), input)
	if err != nil {
		return nil, err
	}
	return decodeOne[Product](data)
}

// UpdateStock sets the stock level of a product.
func (c *Client) UpdateStock(id int64, input StockInput) (*Product, error) {
	if id <= 0 {
		return nil, ValidationError{Field: "id", Message: "product id is required"}
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	data, err := c.patch(productPath(id), input)
	if err != nil {
		return nil, err
	}
	return decodeOne[Product](data)
}

// ListProducts returns every product.
func (c *Client) ListProducts() ([]Product, error) {
	data, err := c.get("/v1/api/produtos/produtos")
	if err != nil {
		return nil, err
	}
	return decodeList[Product](data)
}

// ListProductsPage returns one server-side filtered page. page is 0-based.
func (c *Client) ListProductsPage(page, pageSize int, filter ProductFilter) (*Page[Product], error) {
	categoria := filter.Categoria
	if categoria == "" {
		categoria = AllCategories
	}
	path := buildQuery("/v1/api/produtos/filters/all", QueryParams{
		"pageSize":   strconv.Itoa(pageSize),
		"pageNumber": strconv.Itoa(page),
		"nome":       filter.Nome,
		"categoria":  categoria,
	})
	data, err := c.get(path)
	if err != nil {
		return nil, err
	}
	return decodePage[Product](data)
}

func productPath(id int64) string {
	return fmt.Sprintf("/v1/api/produtos?id=%d", id)
}
