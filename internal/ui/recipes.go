package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gastroflow/gastroflow-cli/internal/api"
	"github.com/gastroflow/gastroflow-cli/internal/listing"
	"github.com/gastroflow/gastroflow-cli/internal/ui/components"
)

// --- Messages ---

type recipeCreatedMsg struct{ recipe *api.Recipe }
type recipeUpdatedMsg struct{ recipe *api.Recipe }
type recipesErrMsg struct {
	action string
	err    error
}

type recipesView int

const (
	recipesViewList recipesView = iota
	recipesViewAdd
	recipesViewDetail
	recipesViewEdit
)

var recipesModes = []string{"List", "Add"}

const (
	recipeFieldName = iota
	recipeFieldDescription
	recipeFieldPrepTime
	recipeFieldYield
	recipeFieldType
	recipeFieldAuthor
	recipeFieldIngredients
)

const (
	actCreateRecipe = "create the recipe"
	actUpdateRecipe = "update the recipe"
)

const filterRecipeName = "nome"

// --- Recipes Model ---

type RecipesModel struct {
	client    *api.Client
	list      *ListView[api.Recipe]
	view      recipesView
	modeFocus bool

	add      *Form
	addItems []api.RecipeItem

	edit      *Form
	editItems []api.RecipeItem

	picker *Picker[api.Product]

	width  int
	height int
}

func recipeForm(title string) *Form {
	return newForm(title,
		textField("Name"),
		textField("Description"),
		textField("Preparation time"),
		textField("Yield"),
		textField("Type"),
		textField("Author"),
		actionField("Ingredients"),
	)
}

// NewRecipesModel builds the recipes tab.
func NewRecipesModel(client *api.Client, pageSize int) RecipesModel {
	ctrl := listing.NewClient("recipes", pageSize, func() ([]api.Recipe, error) {
		return client.ListRecipes()
	}, func(r api.Recipe, f listing.Filters) bool {
		return listing.Contains(r.Nome, f.Get(filterRecipeName))
	}).WithLogger(loggerFor(client))

	list := NewListView("Recipes", ctrl, []Column[api.Recipe]{
		{Header: "Name", Width: 24, Value: func(r api.Recipe) string { return r.Nome }},
		{Header: "Type", Width: 12, Value: func(r api.Recipe) string { return r.Tipo }},
		{Header: "Time", Width: 10, Value: func(r api.Recipe) string { return r.TempoPreparo }},
		{Header: "Yield", Width: 10, Value: func(r api.Recipe) string { return r.Rendimento }},
		{Header: "Items", Width: 5, Align: lipgloss.Right, Value: func(r api.Recipe) string { return fmt.Sprintf("%d", len(r.Produtos)) }},
	}).WithTextFilter(filterRecipeName, "Name")

	return RecipesModel{
		client: client,
		list:   list,
		add:    recipeForm("Add Recipe"),
		picker: newProductPicker(client, "recipes.ingredients", pageSize, promptQuantity),
	}
}

func (m RecipesModel) Init() tea.Cmd {
	return tea.Batch(m.list.Load(), m.picker.List().Load())
}

func (m *RecipesModel) setSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetWidth(width)
	m.picker.SetWidth(width)
}

func (m RecipesModel) Update(msg tea.Msg) (RecipesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case listLoadedMsg[api.Recipe]:
		_, cmd := m.list.Loaded(msg)
		return m, cmd
	case listLoadedMsg[api.Product]:
		_, cmd := m.picker.Loaded(msg)
		m.refreshItemSummaries()
		return m, cmd
	case recipeCreatedMsg:
		m.add.Reset()
		m.addItems = nil
		return m, m.list.Load()
	case recipeUpdatedMsg:
		m.list.Controller().UpdateSelected(*msg.recipe)
		m.edit = nil
		m.editItems = nil
		m.view = recipesViewDetail
		return m, nil
	case recipesErrMsg:
		form := m.add
		if msg.action == actUpdateRecipe {
			form = m.edit
		}
		if form != nil {
			form.saving = false
			form.err = describeError(msg.action, msg.err)
		}
		return m, nil
	case tea.KeyMsg:
		if m.picker.IsOpen() {
			return m.handlePickerKeys(msg)
		}
		if m.modeFocus {
			return m.handleModeKeys(msg)
		}
		switch m.view {
		case recipesViewAdd, recipesViewEdit:
			return m.handleFormKeys(msg)
		case recipesViewDetail:
			return m.handleDetailKeys(msg)
		default:
			return m.handleListKeys(msg)
		}
	}
	return m, nil
}

func (m RecipesModel) handleModeKeys(msg tea.KeyMsg) (RecipesModel, tea.Cmd) {
	switch {
	case isDown(msg), isEnter(msg), isBack(msg):
		m.modeFocus = false
	case isKey(msg, "left"), isKey(msg, "right"), isSpace(msg):
		if m.view == recipesViewAdd {
			m.view = recipesViewList
		} else {
			m.view = recipesViewAdd
		}
	}
	return m, nil
}

// --- List ---

func (m RecipesModel) handleListKeys(msg tea.KeyMsg) (RecipesModel, tea.Cmd) {
	if handled, cmd := m.list.HandleKey(msg); handled {
		return m, cmd
	}
	switch {
	case isUp(msg):
		m.modeFocus = true
	case isEnter(msg), isSpace(msg):
		if _, ok := m.list.Open(); ok {
			m.view = recipesViewDetail
		}
	case isKey(msg, "n"):
		m.view = recipesViewAdd
	}
	return m, nil
}

// --- Detail ---

func (m RecipesModel) handleDetailKeys(msg tea.KeyMsg) (RecipesModel, tea.Cmd) {
	switch {
	case isBack(msg):
		m.view = recipesViewList
		return m, m.list.Close()
	case isKey(msg, "e"):
		return m.startEdit()
	}
	return m, nil
}

func recipeRows(r api.Recipe) []components.TableRow {
	return []components.TableRow{
		{Label: "ID", Value: idLabel(r.ID)},
		{Label: "Name", Value: r.Nome},
		{Label: "Description", Value: r.Descricao},
		{Label: "Preparation", Value: orDash(r.TempoPreparo)},
		{Label: "Yield", Value: orDash(r.Rendimento)},
		{Label: "Type", Value: orDash(r.Tipo)},
		{Label: "Author", Value: orDash(r.ProfessorReceita)},
	}
}

func (m RecipesModel) renderDetail() string {
	r, ok := m.list.Controller().Selected()
	if !ok {
		return MutedStyle.Render("No recipe selected.")
	}
	out := components.Table("Recipe", recipeRows(r), m.width)
	if len(r.Produtos) == 0 {
		return out
	}
	products := productNames(m.picker)
	cols := []components.TableColumn{
		{Header: "Ingredient", Width: 30},
		{Header: "Quantity", Width: 14, Align: lipgloss.Right},
	}
	rows := make([][]string, 0, len(r.Produtos))
	for _, item := range r.Produtos {
		name, unit := item.NomeProduto, ""
		if p, ok := products[item.ProdutoID]; ok {
			if name == "" {
				name = p.Nome
			}
			unit = p.UnidadeMedida
		}
		if name == "" {
			name = idLabel(item.ProdutoID)
		}
		rows = append(rows, []string{name, formatQty(item.Quantidade, unit)})
	}
	grid := components.TableGrid(cols, rows, components.BoxContentWidth(m.width))
	return out + "\n\n" + components.TitledBox("Ingredients", grid, m.width)
}

// --- Add / Edit ---

func (m RecipesModel) startEdit() (RecipesModel, tea.Cmd) {
	r, ok := m.list.Controller().Selected()
	if !ok {
		return m, nil
	}
	m.edit = recipeForm("Edit Recipe")
	m.edit.Set(recipeFieldName, r.Nome)
	m.edit.Set(recipeFieldDescription, r.Descricao)
	m.edit.Set(recipeFieldPrepTime, r.TempoPreparo)
	m.edit.Set(recipeFieldYield, r.Rendimento)
	m.edit.Set(recipeFieldType, r.Tipo)
	m.edit.Set(recipeFieldAuthor, r.ProfessorReceita)
	m.editItems = append([]api.RecipeItem(nil), r.Produtos...)
	m.view = recipesViewEdit
	m.refreshItemSummaries()
	return m, nil
}

func (m RecipesModel) handleFormKeys(msg tea.KeyMsg) (RecipesModel, tea.Cmd) {
	editing := m.view == recipesViewEdit
	form := m.add
	if editing {
		form = m.edit
	}
	if form.Focus() == recipeFieldIngredients && isKey(msg, "backspace") {
		if editing {
			m.editItems = dropLast(m.editItems)
		} else {
			m.addItems = dropLast(m.addItems)
		}
		m.refreshItemSummaries()
		return m, nil
	}
	switch form.Update(msg) {
	case formLeaveTop:
		if !editing {
			m.modeFocus = true
		}
	case formCancel:
		if editing {
			m.edit = nil
			m.editItems = nil
			m.view = recipesViewDetail
			return m, nil
		}
		form.Reset()
		m.addItems = nil
	case formActivate:
		return m, m.picker.Open()
	case formSubmit:
		if editing {
			return m.save(form, m.editItems)
		}
		return m.save(form, m.addItems)
	}
	return m, nil
}

func (m RecipesModel) handlePickerKeys(msg tea.KeyMsg) (RecipesModel, tea.Cmd) {
	action, cmd := m.picker.HandleKey(msg)
	if action == pickerDone {
		product, qty, _ := m.picker.Result()
		item := api.RecipeItem{ProdutoID: product.ID, Quantidade: qty, NomeProduto: product.Nome}
		if m.view == recipesViewEdit {
			m.editItems = upsertRecipeItem(m.editItems, item)
		} else {
			m.addItems = upsertRecipeItem(m.addItems, item)
		}
		m.refreshItemSummaries()
	}
	return m, cmd
}

func (m *RecipesModel) refreshItemSummaries() {
	products := productNames(m.picker)
	m.add.Set(recipeFieldIngredients, recipeItemsSummary(m.addItems, products))
	if m.edit != nil {
		m.edit.Set(recipeFieldIngredients, recipeItemsSummary(m.editItems, products))
	}
}

func recipeInputFromForm(f *Form, items []api.RecipeItem) api.RecipeInput {
	return api.RecipeInput{
		Nome:             f.Value(recipeFieldName),
		Descricao:        f.Value(recipeFieldDescription),
		TempoPreparo:     f.Value(recipeFieldPrepTime),
		Rendimento:       f.Value(recipeFieldYield),
		Tipo:             f.Value(recipeFieldType),
		ProfessorReceita: f.Value(recipeFieldAuthor),
		Produtos:         items,
	}
}

func (m RecipesModel) save(form *Form, items []api.RecipeItem) (RecipesModel, tea.Cmd) {
	action := actCreateRecipe
	if m.view == recipesViewEdit {
		action = actUpdateRecipe
	}
	input := recipeInputFromForm(form, items)
	if err := input.Validate(); err != nil {
		form.err = describeError(action, err)
		return m, nil
	}
	form.err = ""
	form.saving = true
	client := m.client

	if action == actCreateRecipe {
		return m, func() tea.Msg {
			created, err := client.CreateRecipe(input)
			if err != nil {
				return recipesErrMsg{action: action, err: err}
			}
			return recipeCreatedMsg{recipe: created}
		}
	}

	r, _ := m.list.Controller().Selected()
	return m, func() tea.Msg {
		updated, err := client.UpdateRecipe(r.ID, input)
		if err != nil {
			return recipesErrMsg{action: action, err: err}
		}
		if updated == nil {
			updated = &api.Recipe{
				ID:               r.ID,
				Nome:             input.Nome,
				Descricao:        input.Descricao,
				TempoPreparo:     input.TempoPreparo,
				Rendimento:       input.Rendimento,
				Tipo:             input.Tipo,
				ProfessorReceita: input.ProfessorReceita,
				Produtos:         input.Produtos,
			}
		}
		return recipeUpdatedMsg{recipe: updated}
	}
}

// --- View ---

func (m RecipesModel) View() string {
	if m.picker.IsOpen() {
		return components.Indent(m.picker.View(m.width), 1)
	}
	var body string
	switch m.view {
	case recipesViewAdd:
		body = m.add.View(m.width)
	case recipesViewDetail:
		body = m.renderDetail()
	case recipesViewEdit:
		body = m.edit.View(m.width)
	default:
		body = m.list.View()
	}
	if m.view <= recipesViewAdd {
		mode := renderModeLine(recipesModes, int(m.view), m.modeFocus)
		body = components.CenterLine(mode, m.width) + "\n\n" + body
	}
	return components.Indent(body, 1)
}

func (m RecipesModel) capturesText() bool {
	if m.picker.IsOpen() {
		return true
	}
	switch m.view {
	case recipesViewAdd, recipesViewEdit:
		return !m.modeFocus
	}
	return m.list.Filtering()
}

func (m RecipesModel) hasUnsaved() bool {
	switch m.view {
	case recipesViewAdd:
		return m.add.HasInput() || len(m.addItems) > 0
	case recipesViewEdit:
		return true
	}
	return false
}

func (m RecipesModel) atTop() bool {
	return m.modeFocus && !m.picker.IsOpen() && m.view <= recipesViewAdd
}

func (m RecipesModel) hints() []string {
	if m.picker.IsOpen() {
		return m.picker.Hints()
	}
	if m.modeFocus {
		return []string{components.Hint("←/→", "Mode"), components.Hint("↓", "Enter")}
	}
	switch m.view {
	case recipesViewAdd:
		return formHints(m.add)
	case recipesViewEdit:
		return formHints(m.edit)
	case recipesViewDetail:
		return []string{components.Hint("e", "Edit"), components.Hint("esc", "Back")}
	}
	return append(listHints(m.list), components.Hint("n", "New"))
}
