package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gastroflow/gastroflow-cli/internal/api"
	"github.com/gastroflow/gastroflow-cli/internal/listing"
)

func TestUpsertReplacesExistingLine(t *testing.T) {
	items := upsertPurchaseItem(nil, api.PurchaseItem{ProdutoID: 1, Quantidade: 1, Preco: 2})
	items = upsertPurchaseItem(items, api.PurchaseItem{ProdutoID: 2, Quantidade: 1, Preco: 1})
	items = upsertPurchaseItem(items, api.PurchaseItem{ProdutoID: 1, Quantidade: 5, Preco: 2})
	assert.Equal(t, []api.PurchaseItem{{ProdutoID: 1, Quantidade: 5, Preco: 2}, {ProdutoID: 2, Quantidade: 1, Preco: 1}}, items)

	recipes := upsertClassRecipe(nil, api.ClassRecipe{ReceitaID: 3, Quantidade: 1})
	recipes = upsertClassRecipe(recipes, api.ClassRecipe{ReceitaID: 3, Quantidade: 4})
	assert.Equal(t, []api.ClassRecipe{{ReceitaID: 3, Quantidade: 4}}, recipes)

	ingredients := upsertRecipeItem(nil, api.RecipeItem{ProdutoID: 9, Quantidade: 1})
	assert.Len(t, upsertRecipeItem(ingredients, api.RecipeItem{ProdutoID: 8, Quantidade: 1}), 2)
}

func TestDropLast(t *testing.T) {
	assert.Equal(t, []int{1}, dropLast([]int{1, 2}))
	assert.Empty(t, dropLast([]int(nil)))
}

func TestItemSummaries(t *testing.T) {
	products := map[int64]api.Product{1: {ID: 1, Nome: "Farinha", UnidadeMedida: "g"}}

	assert.Empty(t, recipeItemsSummary(nil, products))
	assert.Equal(t, "2 selected: Farinha 500 g, #7 1",
		recipeItemsSummary([]api.RecipeItem{{ProdutoID: 1, Quantidade: 500}, {ProdutoID: 7, Quantidade: 1}}, products))

	assert.Equal(t, "1 selected: Pão x2", classRecipesSummary([]api.ClassRecipe{{ReceitaID: 1, Quantidade: 2, Nome: "Pão"}}))

	assert.Equal(t, "1 selected (R$ 9): Farinha 3 g @ R$ 3",
		purchaseItemsSummary([]api.PurchaseItem{{ProdutoID: 1, Quantidade: 3, Preco: 3}}, products))
}

func TestMatchProductTreatsAllCategoriesAsEmpty(t *testing.T) {
	p := api.Product{Nome: "Leite integral", Categoria: api.CategoryDairy}
	assert.True(t, matchProduct(p, listing.Filters{filterPickName: "leite", filterPickCategory: api.AllCategories}))
	assert.False(t, matchProduct(p, listing.Filters{filterPickCategory: api.CategoryProduce}))
}

func TestMatchSupplierUsesBothNames(t *testing.T) {
	s := api.Supplier{RazaoSocial: "Moinho Sul LTDA", NomeFantasia: "Trigo Bom"}
	assert.True(t, matchSupplier(s, listing.Filters{filterPickName: "moinho"}))
	assert.True(t, matchSupplier(s, listing.Filters{filterPickName: "trigo"}))
	assert.False(t, matchSupplier(s, listing.Filters{filterPickName: "leite"}))
}
