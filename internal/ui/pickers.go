package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gastroflow/gastroflow-cli/internal/api"
	"github.com/gastroflow/gastroflow-cli/internal/listing"
)

const (
	filterPickName     = "nome"
	filterPickCategory = "categoria"
)

func matchProduct(p api.Product, f listing.Filters) bool {
	category := f.Get(filterPickCategory)
	if category == api.AllCategories {
		category = ""
	}
	return listing.Contains(p.Nome, f.Get(filterPickName)) && listing.Is(p.Categoria, category)
}

func matchSupplier(s api.Supplier, f listing.Filters) bool {
	needle := f.Get(filterPickName)
	return listing.Contains(s.DisplayName(), needle) || listing.Contains(s.RazaoSocial, needle)
}

func matchRecipe(r api.Recipe, f listing.Filters) bool {
	return listing.Contains(r.Nome, f.Get(filterPickName))
}

// newProductPicker lists every product, filtered locally by name and category.
func newProductPicker(client *api.Client, name string, pageSize int, prompt pickerPrompt) *Picker[api.Product] {
	ctrl := listing.NewClient(name, pageSize, func() ([]api.Product, error) {
		return client.ListProducts()
	}, matchProduct).WithLogger(loggerFor(client))
	list := NewListView("Pick Product", ctrl, []Column[api.Product]{
		{Header: "Name", Width: 26, Value: func(p api.Product) string { return p.Nome }},
		{Header: "Category", Width: 14, Value: func(p api.Product) string { return api.CategoryLabel(p.Categoria) }},
		{Header: "Unit", Width: 9, Value: func(p api.Product) string { return p.UnidadeMedida }},
		{Header: "Stock", Width: 10, Align: lipgloss.Right, Value: func(p api.Product) string { return formatQty(p.Quantidade, "") }},
	}).
		WithTextFilter(filterPickName, "Name").
		WithChoiceFilter(filterPickCategory, "Category", append([]string{""}, api.Categories...), api.CategoryLabel)
	return newPicker(list, prompt, func(p api.Product) string { return p.Nome })
}

// newSupplierPicker lists every supplier for the purchase form.
func newSupplierPicker(client *api.Client, name string, pageSize int) *Picker[api.Supplier] {
	ctrl := listing.NewClient(name, pageSize, func() ([]api.Supplier, error) {
		return client.ListSuppliers()
	}, matchSupplier).WithLogger(loggerFor(client))
	list := NewListView("Pick Supplier", ctrl, []Column[api.Supplier]{
		{Header: "Trade name", Width: 24, Value: func(s api.Supplier) string { return s.DisplayName() }},
		{Header: "Phone", Width: 15, Value: func(s api.Supplier) string { return s.Telefone }},
		{Header: "Email", Width: 24, Value: func(s api.Supplier) string { return s.Email }},
	}).WithTextFilter(filterPickName, "Name")
	return newPicker(list, promptNone, func(s api.Supplier) string { return s.DisplayName() })
}

// newRecipePicker lists every recipe for the class form.
func newRecipePicker(client *api.Client, name string, pageSize int) *Picker[api.Recipe] {
	ctrl := listing.NewClient(name, pageSize, func() ([]api.Recipe, error) {
		return client.ListRecipes()
	}, matchRecipe).WithLogger(loggerFor(client))
	list := NewListView("Pick Recipe", ctrl, []Column[api.Recipe]{
		{Header: "Name", Width: 26, Value: func(r api.Recipe) string { return r.Nome }},
		{Header: "Type", Width: 14, Value: func(r api.Recipe) string { return r.Tipo }},
		{Header: "Yield", Width: 12, Value: func(r api.Recipe) string { return r.Rendimento }},
	}).WithTextFilter(filterPickName, "Name")
	return newPicker(list, promptWholeQuantity, func(r api.Recipe) string { return r.Nome })
}

// --- Item line helpers ---

// upsertRecipeItem replaces the quantity of an existing ingredient or appends it.
func upsertRecipeItem(items []api.RecipeItem, item api.RecipeItem) []api.RecipeItem {
	for i := range items {
		if items[i].ProdutoID == item.ProdutoID {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

func upsertClassRecipe(items []api.ClassRecipe, item api.ClassRecipe) []api.ClassRecipe {
	for i := range items {
		if items[i].ReceitaID == item.ReceitaID {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

func upsertPurchaseItem(items []api.PurchaseItem, item api.PurchaseItem) []api.PurchaseItem {
	for i := range items {
		if items[i].ProdutoID == item.ProdutoID {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

func dropLast[T any](items []T) []T {
	if len(items) == 0 {
		return items
	}
	return items[:len(items)-1]
}

// productNames indexes the names a picker has loaded so far.
func productNames(p *Picker[api.Product]) map[int64]api.Product {
	out := make(map[int64]api.Product)
	if p == nil {
		return out
	}
	for _, prod := range p.List().Controller().All() {
		out[prod.ID] = prod
	}
	return out
}

func recipeItemsSummary(items []api.RecipeItem, products map[int64]api.Product) string {
	if len(items) == 0 {
		return ""
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		name := item.NomeProduto
		unit := ""
		if p, ok := products[item.ProdutoID]; ok {
			if name == "" {
				name = p.Nome
			}
			unit = p.UnidadeMedida
		}
		if name == "" {
			name = idLabel(item.ProdutoID)
		}
		parts = append(parts, fmt.Sprintf("%s %s", name, formatQty(item.Quantidade, unit)))
	}
	return fmt.Sprintf("%d selected: %s", len(items), strings.Join(parts, ", "))
}

func classRecipesSummary(items []api.ClassRecipe) string {
	if len(items) == 0 {
		return ""
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		name := item.Nome
		if name == "" {
			name = idLabel(item.ReceitaID)
		}
		parts = append(parts, fmt.Sprintf("%s x%d", name, item.Quantidade))
	}
	return fmt.Sprintf("%d selected: %s", len(items), strings.Join(parts, ", "))
}

func purchaseItemsSummary(items []api.PurchaseItem, products map[int64]api.Product) string {
	if len(items) == 0 {
		return ""
	}
	parts := make([]string, 0, len(items))
	var total float64
	for _, item := range items {
		name := idLabel(item.ProdutoID)
		unit := ""
		if p, ok := products[item.ProdutoID]; ok {
			name = p.Nome
			unit = p.UnidadeMedida
		}
		total += item.Quantidade * item.Preco
		parts = append(parts, fmt.Sprintf("%s %s @ %s", name, formatQty(item.Quantidade, unit), formatMoney(item.Preco)))
	}
	return fmt.Sprintf("%d selected (%s): %s", len(items), formatMoney(total), strings.Join(parts, ", "))
}
