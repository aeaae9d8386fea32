package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gastroflow/gastroflow-cli/internal/api"
	"github.com/gastroflow/gastroflow-cli/internal/listing"
	"github.com/gastroflow/gastroflow-cli/internal/ui/components"
)

// --- Messages ---

type productCreatedMsg struct{ product *api.Product }
type productUpdatedMsg struct{ product *api.Product }
type stockUpdatedMsg struct{ product *api.Product }
type productsImportedMsg struct {
	file   string
	result *api.ImportResult
}
type stockErrMsg struct {
	action string
	err    error
}

type stockView int

const (
	stockViewList stockView = iota
	stockViewAdd
	stockViewImport
	stockViewDetail
	stockViewEdit
)

var stockModes = []string{"List", "Add", "Import CSV"}

const (
	productFieldName = iota
	productFieldUnit
	productFieldCategory
	productFieldStock
)

const (
	actCreateProduct = "create the product"
	actUpdateProduct = "update the product"
	actUpdateStock   = "update the stock"
	actImportCSV     = "import the file"
)

const (
	filterProductName     = "nome"
	filterProductCategory = "categoria"
)

// --- Stock Model ---

// StockModel lists products with server-side paging and hosts the product
// form, the product editor and the CSV import.
type StockModel struct {
	client    *api.Client
	list      *ListView[api.Product]
	view      stockView
	modeFocus bool

	add  *Form
	edit *Form

	stockInput bool
	stockBuf   string
	stockErr   string

	importBuf    string
	importing    bool
	importErr    string
	importFile   string
	importResult *api.ImportResult

	width  int
	height int
}

func productForm(title string) *Form {
	return newForm(title,
		textField("Name"),
		choiceField("Unit", api.Units, nil),
		choiceField("Category", api.Categories, api.CategoryLabel),
		textField("Stock"),
	)
}

// NewStockModel builds the stock tab.
func NewStockModel(client *api.Client, pageSize int) StockModel {
	ctrl := listing.NewServer("products", pageSize, func(q listing.Query) (listing.Page[api.Product], error) {
		page, err := client.ListProductsPage(q.Page, q.PageSize, api.ProductFilter{
			Nome:      q.Filters.Get(filterProductName),
			Categoria: q.Filters.Get(filterProductCategory),
		})
		if err != nil {
			return listing.Page[api.Product]{}, err
		}
		return toListingPage(page), nil
	}).WithLogger(loggerFor(client))

	list := NewListView("Stock", ctrl, productColumns()).
		WithTextFilter(filterProductName, "Name").
		WithChoiceFilter(filterProductCategory, "Category", append([]string{""}, api.Categories...), api.CategoryLabel).
		WithAlert(outOfStock)

	return StockModel{
		client: client,
		list:   list,
		view:   stockViewList,
		add:    productForm("Add Product"),
	}
}

func productColumns() []Column[api.Product] {
	return []Column[api.Product]{
		{Header: "Name", Width: 26, Value: func(p api.Product) string { return p.Nome }},
		{Header: "Category", Width: 14, Value: func(p api.Product) string { return api.CategoryLabel(p.Categoria) }},
		{Header: "Unit", Width: 9, Value: func(p api.Product) string { return p.UnidadeMedida }},
		{Header: "Stock", Width: 10, Align: lipgloss.Right, Value: func(p api.Product) string { return formatQty(p.Quantidade, "") }},
	}
}

func (m StockModel) Init() tea.Cmd {
	return m.list.Load()
}

func (m *StockModel) setSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetWidth(width)
}

func (m StockModel) Update(msg tea.Msg) (StockModel, tea.Cmd) {
	switch msg := msg.(type) {
	case listLoadedMsg[api.Product]:
		_, cmd := m.list.Loaded(msg)
		return m, cmd
	case productCreatedMsg:
		m.add.Reset()
		return m, m.list.Load()
	case productUpdatedMsg:
		m.list.Controller().UpdateSelected(*msg.product)
		m.edit = nil
		m.view = stockViewDetail
		return m, nil
	case stockUpdatedMsg:
		m.list.Controller().UpdateSelected(*msg.product)
		m.stockInput = false
		m.stockBuf = ""
		m.stockErr = ""
		return m, nil
	case productsImportedMsg:
		m.importing = false
		m.importErr = ""
		m.importFile = msg.file
		m.importResult = msg.result
		m.importBuf = ""
		return m, m.list.Load()
	case stockErrMsg:
		text := describeError(msg.action, msg.err)
		switch msg.action {
		case actCreateProduct:
			m.add.saving = false
			m.add.err = text
		case actUpdateProduct:
			if m.edit != nil {
				m.edit.saving = false
				m.edit.err = text
			}
		case actUpdateStock:
			m.stockErr = text
		case actImportCSV:
			m.importing = false
			m.importErr = text
		}
		return m, nil
	case tea.KeyMsg:
		if m.modeFocus {
			return m.handleModeKeys(msg)
		}
		switch m.view {
		case stockViewAdd:
			return m.handleAddKeys(msg)
		case stockViewImport:
			return m.handleImportKeys(msg)
		case stockViewDetail:
			if m.stockInput {
				return m.handleStockKeys(msg)
			}
			return m.handleDetailKeys(msg)
		case stockViewEdit:
			return m.handleEditKeys(msg)
		default:
			return m.handleListKeys(msg)
		}
	}
	return m, nil
}

// --- Mode Line ---

func (m StockModel) handleModeKeys(msg tea.KeyMsg) (StockModel, tea.Cmd) {
	switch {
	case isDown(msg), isEnter(msg), isBack(msg):
		m.modeFocus = false
	case isKey(msg, "left"):
		m.view = stockView((int(m.view) - 1 + len(stockModes)) % len(stockModes))
	case isKey(msg, "right"), isSpace(msg):
		m.view = stockView((int(m.view) + 1) % len(stockModes))
	}
	return m, nil
}

// --- List ---

func (m StockModel) handleListKeys(msg tea.KeyMsg) (StockModel, tea.Cmd) {
	if handled, cmd := m.list.HandleKey(msg); handled {
		return m, cmd
	}
	switch {
	case isUp(msg):
		m.modeFocus = true
	case isEnter(msg), isSpace(msg):
		if _, ok := m.list.Open(); ok {
			m.view = stockViewDetail
		}
	case isKey(msg, "n"):
		m.view = stockViewAdd
	case isKey(msg, "i"):
		m.view = stockViewImport
	}
	return m, nil
}

// --- Detail ---

func (m StockModel) handleDetailKeys(msg tea.KeyMsg) (StockModel, tea.Cmd) {
	switch {
	case isBack(msg):
		m.view = stockViewList
		return m, m.list.Close()
	case isKey(msg, "e"):
		m.startEdit()
	case isKey(msg, "s"):
		if p, ok := m.list.Controller().Selected(); ok {
			m.stockInput = true
			m.stockBuf = formatNumber(p.Quantidade)
			m.stockErr = ""
		}
	}
	return m, nil
}

func (m StockModel) handleStockKeys(msg tea.KeyMsg) (StockModel, tea.Cmd) {
	switch {
	case isBack(msg):
		m.stockInput = false
		m.stockBuf = ""
		m.stockErr = ""
	case isEnter(msg):
		return m.saveStock()
	case isKey(msg, "backspace"):
		m.stockBuf = dropLastRune(m.stockBuf)
	default:
		if text, ok := typedText(msg); ok {
			m.stockBuf += text
		}
	}
	return m, nil
}

func (m StockModel) saveStock() (StockModel, tea.Cmd) {
	p, ok := m.list.Controller().Selected()
	if !ok {
		return m, nil
	}
	qty, err := parseNumber(m.stockBuf)
	if err != nil {
		m.stockErr = "Stock must be a number."
		return m, nil
	}
	input := api.StockInput{Quantidade: qty}
	if err := input.Validate(); err != nil {
		m.stockErr = describeError(actUpdateStock, err)
		return m, nil
	}
	client := m.client
	return m, func() tea.Msg {
		updated, err := client.UpdateStock(p.ID, input)
		if err != nil {
			return stockErrMsg{action: actUpdateStock, err: err}
		}
		if updated == nil {
			p.Quantidade = qty
			updated = &p
		}
		return stockUpdatedMsg{product: updated}
	}
}

func productRows(p api.Product) []components.TableRow {
	return []components.TableRow{
		{Label: "ID", Value: idLabel(p.ID)},
		{Label: "Name", Value: p.Nome},
		{Label: "Category", Value: api.CategoryLabel(p.Categoria)},
		{Label: "Unit", Value: p.UnidadeMedida},
		{Label: "Stock", Value: formatQty(p.Quantidade, p.UnidadeMedida), ValueColor: stockColor(p.Quantidade)},
	}
}

func (m StockModel) renderDetail() string {
	p, ok := m.list.Controller().Selected()
	if !ok {
		return MutedStyle.Render("No product selected.")
	}
	out := components.Table("Product", productRows(p), m.width)
	if m.stockInput {
		out += "\n\n" + components.InputDialog("New stock level", m.stockBuf, m.stockErr)
	}
	return out
}

// --- Edit ---

func (m *StockModel) startEdit() {
	p, ok := m.list.Controller().Selected()
	if !ok {
		return
	}
	m.edit = productForm("Edit Product")
	m.edit.Set(productFieldName, p.Nome)
	m.edit.Set(productFieldUnit, p.UnidadeMedida)
	m.edit.Set(productFieldCategory, p.Categoria)
	m.edit.Set(productFieldStock, formatNumber(p.Quantidade))
	m.view = stockViewEdit
}

func (m StockModel) handleEditKeys(msg tea.KeyMsg) (StockModel, tea.Cmd) {
	switch m.edit.Update(msg) {
	case formCancel:
		m.edit = nil
		m.view = stockViewDetail
	case formSubmit:
		return m.saveEdit()
	}
	return m, nil
}

func (m StockModel) saveEdit() (StockModel, tea.Cmd) {
	p, ok := m.list.Controller().Selected()
	if !ok {
		return m, nil
	}
	input, err := productInputFromForm(m.edit)
	if err != nil {
		m.edit.err = describeError(actUpdateProduct, err)
		return m, nil
	}
	m.edit.saving = true
	client := m.client
	return m, func() tea.Msg {
		updated, err := client.UpdateProduct(p.ID, input)
		if err != nil {
			return stockErrMsg{action: actUpdateProduct, err: err}
		}
		if updated == nil {
			updated = &api.Product{ID: p.ID, Nome: input.Nome, UnidadeMedida: input.UnidadeMedida, Categoria: input.Categoria, Quantidade: input.Quantidade}
		}
		return productUpdatedMsg{product: updated}
	}
}

func (m StockModel) renderEdit() string {
	out := m.edit.View(m.width)
	p, ok := m.list.Controller().Selected()
	if !ok {
		return out
	}
	input, err := productInputFromForm(m.edit)
	if err != nil {
		return out
	}
	after := api.Product{ID: p.ID, Nome: input.Nome, UnidadeMedida: input.UnidadeMedida, Categoria: input.Categoria, Quantidade: input.Quantidade}
	if diff := components.Diff(productRows(p), productRows(after)); len(diff) > 0 {
		out += "\n\n" + components.DiffTable("Changes", diff, m.width)
	}
	return out
}

func productInputFromForm(f *Form) (api.ProductInput, error) {
	qty, err := parseNumber(f.Value(productFieldStock))
	if err != nil {
		return api.ProductInput{}, api.ValidationError{Field: "quantidadeEstoque", Message: "stock must be a number"}
	}
	input := api.ProductInput{
		Nome:          f.Value(productFieldName),
		UnidadeMedida: f.Value(productFieldUnit),
		Categoria:     f.Value(productFieldCategory),
		Quantidade:    qty,
	}
	if err := input.Validate(); err != nil {
		return api.ProductInput{}, err
	}
	return input, nil
}

// --- Add ---

func (m StockModel) handleAddKeys(msg tea.KeyMsg) (StockModel, tea.Cmd) {
	switch m.add.Update(msg) {
	case formLeaveTop:
		m.modeFocus = true
	case formCancel:
		m.add.Reset()
	case formSubmit:
		return m.saveAdd()
	}
	return m, nil
}

func (m StockModel) saveAdd() (StockModel, tea.Cmd) {
	input, err := productInputFromForm(m.add)
	if err != nil {
		m.add.err = describeError(actCreateProduct, err)
		return m, nil
	}
	m.add.err = ""
	m.add.saving = true
	client := m.client
	return m, func() tea.Msg {
		created, err := client.CreateProduct(input)
		if err != nil {
			return stockErrMsg{action: actCreateProduct, err: err}
		}
		return productCreatedMsg{product: created}
	}
}

// --- Import ---

func (m StockModel) handleImportKeys(msg tea.KeyMsg) (StockModel, tea.Cmd) {
	if m.importing {
		return m, nil
	}
	switch {
	case isUp(msg):
		m.modeFocus = true
	case isBack(msg):
		if m.importBuf != "" || m.importErr != "" {
			m.importBuf = ""
			m.importErr = ""
			return m, nil
		}
		m.view = stockViewList
	case isEnter(msg):
		return m.startImport()
	case isKey(msg, "backspace"):
		m.importBuf = dropLastRune(m.importBuf)
	case isKey(msg, "ctrl+u"):
		m.importBuf = ""
	default:
		if text, ok := typedText(msg); ok {
			m.importBuf += text
		}
	}
	return m, nil
}

func (m StockModel) startImport() (StockModel, tea.Cmd) {
	path := strings.TrimSpace(m.importBuf)
	if path == "" {
		m.importErr = "Type the path of a .csv file."
		return m, nil
	}
	file, err := api.ReadCSVFile(path)
	if err != nil {
		m.importErr = describeError(actImportCSV, err)
		return m, nil
	}
	m.importErr = ""
	m.importResult = nil
	m.importing = true
	client := m.client
	return m, func() tea.Msg {
		result, err := client.ImportProductsCSV(file)
		if err != nil {
			return stockErrMsg{action: actImportCSV, err: err}
		}
		return productsImportedMsg{file: file.Name, result: result}
	}
}

func (m StockModel) renderImport() string {
	if m.importing {
		return components.TitledBox("Import CSV", MutedStyle.Render("Uploading..."), m.width)
	}
	var b strings.Builder
	b.WriteString(MutedStyle.Render("Path to a .csv file with a header row."))
	b.WriteString("\n\n")
	b.WriteString(SelectedStyle.Render("> File: "))
	b.WriteString(NormalStyle.Render(components.SanitizeOneLine(m.importBuf)))
	b.WriteString(AccentStyle.Render("█"))
	if m.importErr != "" {
		b.WriteString("\n\n")
		b.WriteString(ErrorStyle.Render(components.SanitizeOneLine(m.importErr)))
	}
	out := components.TitledBox("Import CSV", b.String(), m.width)
	if m.importResult != nil {
		out += "\n\n" + components.Table("Last import", importRows(m.importFile, m.importResult), m.width)
	}
	return out
}

func importRows(file string, res *api.ImportResult) []components.TableRow {
	rows := []components.TableRow{{Label: "File", Value: file}}
	if res.Imported > 0 || res.Failed > 0 {
		rows = append(rows,
			components.TableRow{Label: "Imported", Value: fmt.Sprintf("%d", res.Imported), ValueColor: string(ColorSuccess)},
			components.TableRow{Label: "Failed", Value: fmt.Sprintf("%d", res.Failed)},
		)
	}
	if strings.TrimSpace(res.Message) != "" {
		rows = append(rows, components.TableRow{Label: "Message", Value: res.Message})
	}
	return rows
}

// --- View ---

func (m StockModel) View() string {
	var body string
	switch m.view {
	case stockViewAdd:
		body = m.add.View(m.width)
	case stockViewImport:
		body = m.renderImport()
	case stockViewDetail:
		body = m.renderDetail()
	case stockViewEdit:
		body = m.renderEdit()
	default:
		body = m.list.View()
	}
	if m.view <= stockViewImport {
		mode := renderModeLine(stockModes, int(m.view), m.modeFocus)
		body = components.CenterLine(mode, m.width) + "\n\n" + body
	}
	return components.Indent(body, 1)
}

func (m StockModel) capturesText() bool {
	switch m.view {
	case stockViewAdd, stockViewEdit, stockViewImport:
		return !m.modeFocus
	case stockViewDetail:
		return m.stockInput
	}
	return m.list.Filtering()
}

func (m StockModel) hasUnsaved() bool {
	switch m.view {
	case stockViewAdd:
		return m.add.HasInput()
	case stockViewEdit:
		return true
	case stockViewDetail:
		return m.stockInput
	}
	return false
}

func (m StockModel) atTop() bool {
	return m.modeFocus && m.view <= stockViewImport
}

func (m StockModel) hints() []string {
	if m.modeFocus {
		return []string{components.Hint("←/→", "Mode"), components.Hint("↓", "Enter")}
	}
	switch m.view {
	case stockViewAdd:
		return formHints(m.add)
	case stockViewEdit:
		return formHints(m.edit)
	case stockViewImport:
		return []string{components.Hint("enter", "Upload"), components.Hint("esc", "Clear")}
	case stockViewDetail:
		if m.stockInput {
			return []string{components.Hint("enter", "Save"), components.Hint("esc", "Cancel")}
		}
		return []string{components.Hint("e", "Edit"), components.Hint("s", "Set stock"), components.Hint("esc", "Back")}
	}
	return append(listHints(m.list), components.Hint("n", "New"), components.Hint("i", "Import"))
}

func outOfStock(p api.Product) bool {
	return p.Quantidade <= 0
}
