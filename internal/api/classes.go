package api

import "fmt"

// --- Class Methods ---

// ListClasses returns every class.
func (c *Client) ListClasses() ([]Class, error) {
	data, err := c.get("/v1/api/aulas")
	if err != nil {
		return nil, err
	}
	return decodeList[Class](data)
}

// CreateClass schedules a class.
func (c *Client) CreateClass(input ClassInput) (*Class, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	data, err := c.post("/v1/api/aulas", input)
	if err != nil {
		return nil, err
	}
	return decodeOne[Class](data)
}

// UpdateClass replaces a class.
func (c *Client) UpdateClass(id int64, input ClassInput) (*Class, error) {
	if id <= 0 {
		return nil, ValidationError{Field: "id", Message: "class id is required"}
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	data, err := c.put(fmt.Sprintf("/v1/api/aulas/%d", id), input)
	if err != nil {
		return nil, err
	}
	return decodeOne[Class](data)
}
