package api

import "fmt"

// --- Recipe Methods ---

// ListRecipes returns every recipe.
func (c *Client) ListRecipes() ([]Recipe, error) {
	data, err := c.get("/v1/api/receitas")
	if err != nil {
		return nil, err
	}
	return decodeList[Recipe](data)
}

// CreateRecipe registers a recipe with its ingredients.
func (c *Client) CreateRecipe(input RecipeInput) (*Recipe, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	data, err := c.post("/v1/api/receitas", input)
	if err != nil {
		return nil, err
	}
	return decodeOne[Recipe](data)
}

// UpdateRecipe replaces a recipe.
func (c *Client) UpdateRecipe(id int64, input RecipeInput) (*Recipe, error) {
	if id <= 0 {
		return nil, ValidationError{Field: "id", Message: "recipe id is required"}
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	data, err := c.put(fmt.Sprintf("/v1/api/receitas/%d", id), input)
	if err != nil {
		return nil, err
	}
	return decodeOne[Recipe](data)
}
