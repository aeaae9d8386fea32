package ui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/gastroflow/gastroflow-cli/internal/api"
	"github.com/gastroflow/gastroflow-cli/internal/listing"
	"github.com/gastroflow/gastroflow-cli/internal/ui/components"
)

// --- Messages ---

type purchaseCreatedMsg struct{ purchase *api.Purchase }
type purchaseUpdatedMsg struct{ purchase *api.Purchase }
type purchasesErrMsg struct {
	action string
	err    error
}

type purchasesView int

const (
	purchasesViewList purchasesView = iota
	purchasesViewAdd
	purchasesViewDetail
	purchasesViewEdit
)

var purchasesModes = []string{"History", "Add"}

const (
	purchaseFieldDate = iota
	purchaseFieldNote
	purchaseFieldSupplier
	purchaseFieldProducts
)

const (
	actCreatePurchase = "register the purchase"
	actUpdatePurchase = "update the purchase"
)

const (
	filterPurchaseFrom     = "from"
	filterPurchaseTo       = "to"
	filterPurchaseSupplier = "fornecedor"
)

// purchaseLine is a purchase item with its product resolved.
type purchaseLine struct {
	api.PurchaseItem
	Name string
	Unit string
}

// purchaseRow is a purchase with supplier and product names resolved.
type purchaseRow struct {
	Purchase api.Purchase
	Supplier string
	Lines    []purchaseLine
}

// loadPurchaseRows fetches purchases, products and suppliers concurrently
// and joins them. Rows are ordered newest first.
func loadPurchaseRows(client *api.Client) ([]purchaseRow, error) {
	var (
		purchases []api.Purchase
		products  []api.Product
		suppliers []api.Supplier
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		purchases, err = client.ListPurchases()
		return err
	})
	g.Go(func() error {
		var err error
		products, err = client.ListProducts()
		return err
	})
	g.Go(func() error {
		var err error
		suppliers, err = client.ListSuppliers()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	productByID := make(map[int64]api.Product, len(products))
	for _, p := range products {
		productByID[p.ID] = p
	}
	supplierByID := make(map[int64]api.Supplier, len(suppliers))
	for _, s := range suppliers {
		supplierByID[s.ID] = s
	}

	rows := make([]purchaseRow, 0, len(purchases))
	for _, p := range purchases {
		rows = append(rows, resolvePurchase(p, supplierByID, productByID))
	}
	slices.SortStableFunc(rows, func(a, b purchaseRow) int {
		return cmp.Compare(b.Purchase.DataEntrada, a.Purchase.DataEntrada)
	})
	return rows, nil
}

func resolvePurchase(p api.Purchase, suppliers map[int64]api.Supplier, products map[int64]api.Product) purchaseRow {
	row := purchaseRow{Purchase: p, Supplier: idLabel(p.FornecedorID)}
	if s, ok := suppliers[p.FornecedorID]; ok {
		row.Supplier = s.DisplayName()
	}
	for _, item := range p.Produtos {
		line := purchaseLine{PurchaseItem: item, Name: idLabel(item.ProdutoID)}
		if prod, ok := products[item.ProdutoID]; ok {
			line.Name = prod.Nome
			line.Unit = prod.UnidadeMedida
		}
		row.Lines = append(row.Lines, line)
	}
	return row
}

func matchPurchase(r purchaseRow, f listing.Filters) bool {
	return listing.InDateRange(r.Purchase.Date(), f.Get(filterPurchaseFrom), f.Get(filterPurchaseTo)) &&
		listing.Contains(r.Supplier, f.Get(filterPurchaseSupplier))
}

// --- Purchases Model ---

type PurchasesModel struct {
	client    *api.Client
	list      *ListView[purchaseRow]
	view      purchasesView
	modeFocus bool
	now       func() time.Time

	add         *Form
	addSupplier api.Supplier
	addItems    []api.PurchaseItem

	edit *Form

	suppliers *Picker[api.Supplier]
	products  *Picker[api.Product]

	width  int
	height int
}

func purchaseForm(now time.Time) *Form {
	f := newForm("Register Purchase",
		textField("Date (YYYY-MM-DD)"),
		textField("Note"),
		actionField("Supplier"),
		actionField("Products"),
	)
	f.Set(purchaseFieldDate, now.Format(time.DateOnly))
	return f
}

func purchaseEditForm(p api.Purchase) *Form {
	f := newForm("Edit Purchase",
		textField("Date (YYYY-MM-DD)"),
		textField("Note"),
	)
	f.Set(purchaseFieldDate, p.Date())
	f.Set(purchaseFieldNote, p.Observacao)
	return f
}

// NewPurchasesModel builds the purchase history tab.
func NewPurchasesModel(client *api.Client, pageSize int) PurchasesModel {
	m := PurchasesModel{client: client, now: time.Now}

	ctrl := listing.NewClient("purchases", pageSize, func() ([]purchaseRow, error) {
		return loadPurchaseRows(client)
	}, matchPurchase).WithLogger(loggerFor(client))

	now := m.now
	m.list = NewListView("Purchase History", ctrl, []Column[purchaseRow]{
		{Header: "Date", Width: 10, Value: func(r purchaseRow) string { return orDash(r.Purchase.Date()) }},
		{Header: "When", Width: 13, Value: func(r purchaseRow) string { return relativeDate(r.Purchase.DataEntrada, now()) }},
		{Header: "Supplier", Width: 22, Value: func(r purchaseRow) string { return r.Supplier }},
		{Header: "Items", Width: 5, Align: lipgloss.Right, Value: func(r purchaseRow) string { return fmt.Sprintf("%d", len(r.Lines)) }},
		{Header: "Total", Width: 14, Align: lipgloss.Right, Value: func(r purchaseRow) string { return formatMoney(r.Purchase.Total()) }},
	}).
		WithTextFilter(filterPurchaseFrom, "From").
		WithTextFilter(filterPurchaseTo, "To").
		WithTextFilter(filterPurchaseSupplier, "Supplier")

	m.add = purchaseForm(m.now())
	m.suppliers = newSupplierPicker(client, "purchases.suppliers", pageSize)
	m.products = newProductPicker(client, "purchases.products", pageSize, promptQuantityPrice)
	return m
}

func (m PurchasesModel) Init() tea.Cmd {
	return m.list.Load()
}

func (m *PurchasesModel) setSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetWidth(width)
	m.suppliers.SetWidth(width)
	m.products.SetWidth(width)
}

func (m PurchasesModel) Update(msg tea.Msg) (PurchasesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case listLoadedMsg[purchaseRow]:
		_, cmd := m.list.Loaded(msg)
		return m, cmd
	case listLoadedMsg[api.Supplier]:
		_, cmd := m.suppliers.Loaded(msg)
		return m, cmd
	case listLoadedMsg[api.Product]:
		_, cmd := m.products.Loaded(msg)
		m.refreshAddSummaries()
		return m, cmd
	case purchaseCreatedMsg:
		m.resetAdd()
		return m, m.list.Load()
	case purchaseUpdatedMsg:
		if row, ok := m.list.Controller().Selected(); ok {
			row.Purchase = *msg.purchase
			m.list.Controller().UpdateSelected(row)
		}
		m.edit = nil
		m.view = purchasesViewDetail
		return m, nil
	case purchasesErrMsg:
		form := m.add
		if msg.action == actUpdatePurchase {
			form = m.edit
		}
		if form != nil {
			form.saving = false
			form.err = describeError(msg.action, msg.err)
		}
		return m, nil
	case tea.KeyMsg:
		if m.suppliers.IsOpen() || m.products.IsOpen() {
			return m.handlePickerKeys(msg)
		}
		if m.modeFocus {
			return m.handleModeKeys(msg)
		}
		switch m.view {
		case purchasesViewAdd:
			return m.handleAddKeys(msg)
		case purchasesViewEdit:
			return m.handleEditKeys(msg)
		case purchasesViewDetail:
			return m.handleDetailKeys(msg)
		default:
			return m.handleListKeys(msg)
		}
	}
	return m, nil
}

func (m PurchasesModel) handleModeKeys(msg tea.KeyMsg) (PurchasesModel, tea.Cmd) {
	switch {
	case isDown(msg), isEnter(msg), isBack(msg):
		m.modeFocus = false
	case isKey(msg, "left"), isKey(msg, "right"), isSpace(msg):
		if m.view == purchasesViewAdd {
			m.view = purchasesViewList
		} else {
			m.view = purchasesViewAdd
		}
	}
	return m, nil
}

func (m PurchasesModel) handleListKeys(msg tea.KeyMsg) (PurchasesModel, tea.Cmd) {
	if handled, cmd := m.list.HandleKey(msg); handled {
		return m, cmd
	}
	switch {
	case isUp(msg):
		m.modeFocus = true
	case isEnter(msg), isSpace(msg):
		if _, ok := m.list.Open(); ok {
			m.view = purchasesViewDetail
		}
	case isKey(msg, "n"):
		m.view = purchasesViewAdd
	}
	return m, nil
}

// --- Detail ---

func (m PurchasesModel) handleDetailKeys(msg tea.KeyMsg) (PurchasesModel, tea.Cmd) {
	switch {
	case isBack(msg):
		m.view = purchasesViewList
		return m, m.list.Close()
	case isKey(msg, "e"):
		row, ok := m.list.Controller().Selected()
		if !ok {
			return m, nil
		}
		m.edit = purchaseEditForm(row.Purchase)
		m.view = purchasesViewEdit
	}
	return m, nil
}

func purchaseRows(r purchaseRow, now time.Time) []components.TableRow {
	date := orDash(r.Purchase.Date())
	if r.Purchase.Date() != "" {
		date += " (" + relativeDate(r.Purchase.DataEntrada, now) + ")"
	}
	return []components.TableRow{
		{Label: "ID", Value: idLabel(r.Purchase.ID)},
		{Label: "Date", Value: date},
		{Label: "Supplier", Value: r.Supplier},
		{Label: "Note", Value: orDash(r.Purchase.Observacao)},
		{Label: "Total", Value: formatMoney(r.Purchase.Total()), ValueColor: string(ColorAccent)},
	}
}

func (m PurchasesModel) renderDetail() string {
	row, ok := m.list.Controller().Selected()
	if !ok {
		return MutedStyle.Render("No purchase selected.")
	}
	out := components.Table("Purchase", purchaseRows(row, m.now()), m.width)
	if len(row.Lines) == 0 {
		return out
	}
	cols := []components.TableColumn{
		{Header: "Product", Width: 24},
		{Header: "Quantity", Width: 14, Align: lipgloss.Right},
		{Header: "Unit price", Width: 14, Align: lipgloss.Right},
		{Header: "Subtotal", Width: 14, Align: lipgloss.Right},
	}
	cells := make([][]string, 0, len(row.Lines))
	for _, line := range row.Lines {
		cells = append(cells, []string{
			line.Name,
			formatQty(line.Quantidade, line.Unit),
			formatMoney(line.Preco),
			formatMoney(line.Quantidade * line.Preco),
		})
	}
	grid := components.TableGrid(cols, cells, components.BoxContentWidth(m.width))
	return out + "\n\n" + components.TitledBox("Items", grid, m.width)
}

// --- Edit ---

func (m PurchasesModel) handleEditKeys(msg tea.KeyMsg) (PurchasesModel, tea.Cmd) {
	switch m.edit.Update(msg) {
	case formCancel:
		m.edit = nil
		m.view = purchasesViewDetail
	case formSubmit:
		return m.saveEdit()
	}
	return m, nil
}

func (m PurchasesModel) saveEdit() (PurchasesModel, tea.Cmd) {
	row, ok := m.list.Controller().Selected()
	if !ok {
		return m, nil
	}
	input := api.PurchaseInput{
		DataEntrada:  m.edit.Value(purchaseFieldDate),
		Observacao:   m.edit.Value(purchaseFieldNote),
		FornecedorID: row.Purchase.FornecedorID,
		Produtos:     row.Purchase.Produtos,
	}
	if err := input.Validate(); err != nil {
		m.edit.err = describeError(actUpdatePurchase, err)
		return m, nil
	}
	m.edit.err = ""
	m.edit.saving = true
	client := m.client
	id := row.Purchase.ID
	return m, func() tea.Msg {
		updated, err := client.UpdatePurchase(id, input)
		if err != nil {
			return purchasesErrMsg{action: actUpdatePurchase, err: err}
		}
		if updated == nil {
			updated = &api.Purchase{
				ID:           id,
				DataEntrada:  input.DataEntrada,
				FornecedorID: input.FornecedorID,
				Observacao:   input.Observacao,
				Produtos:     input.Produtos,
			}
		}
		return purchaseUpdatedMsg{purchase: updated}
	}
}

// --- Add ---

func (m PurchasesModel) handleAddKeys(msg tea.KeyMsg) (PurchasesModel, tea.Cmd) {
	if m.add.Focus() == purchaseFieldProducts && isKey(msg, "backspace") {
		m.addItems = dropLast(m.addItems)
		m.refreshAddSummaries()
		return m, nil
	}
	switch m.add.Update(msg) {
	case formLeaveTop:
		m.modeFocus = true
	case formCancel:
		m.resetAdd()
	case formActivate:
		if m.add.Focus() == purchaseFieldSupplier {
			return m, m.suppliers.Open()
		}
		return m, m.products.Open()
	case formSubmit:
		return m.saveAdd()
	}
	return m, nil
}

func (m PurchasesModel) handlePickerKeys(msg tea.KeyMsg) (PurchasesModel, tea.Cmd) {
	if m.suppliers.IsOpen() {
		action, cmd := m.suppliers.HandleKey(msg)
		if action == pickerDone {
			m.addSupplier, _, _ = m.suppliers.Result()
			m.refreshAddSummaries()
		}
		return m, cmd
	}
	action, cmd := m.products.HandleKey(msg)
	if action == pickerDone {
		product, qty, price := m.products.Result()
		m.addItems = upsertPurchaseItem(m.addItems, api.PurchaseItem{ProdutoID: product.ID, Quantidade: qty, Preco: price})
		m.refreshAddSummaries()
	}
	return m, cmd
}

func (m *PurchasesModel) refreshAddSummaries() {
	m.add.Set(purchaseFieldSupplier, m.addSupplier.DisplayName())
	m.add.Set(purchaseFieldProducts, purchaseItemsSummary(m.addItems, productNames(m.products)))
}

func (m *PurchasesModel) resetAdd() {
	m.add = purchaseForm(m.now())
	m.addSupplier = api.Supplier{}
	m.addItems = nil
}

func (m PurchasesModel) saveAdd() (PurchasesModel, tea.Cmd) {
	input := api.PurchaseInput{
		DataEntrada:  m.add.Value(purchaseFieldDate),
		Observacao:   m.add.Value(purchaseFieldNote),
		FornecedorID: m.addSupplier.ID,
		Produtos:     append([]api.PurchaseItem(nil), m.addItems...),
	}
	if err := input.Validate(); err != nil {
		m.add.err = describeError(actCreatePurchase, err)
		return m, nil
	}
	m.add.err = ""
	m.add.saving = true
	client := m.client
	return m, func() tea.Msg {
		created, err := client.CreatePurchase(input)
		if err != nil {
			return purchasesErrMsg{action: actCreatePurchase, err: err}
		}
		return purchaseCreatedMsg{purchase: created}
	}
}

// --- View ---

func (m PurchasesModel) View() string {
	switch {
	case m.suppliers.IsOpen():
		return components.Indent(m.suppliers.View(m.width), 1)
	case m.products.IsOpen():
		return components.Indent(m.products.View(m.width), 1)
	}
	var body string
	switch m.view {
	case purchasesViewAdd:
		body = m.add.View(m.width)
	case purchasesViewDetail:
		body = m.renderDetail()
	case purchasesViewEdit:
		body = m.edit.View(m.width)
	default:
		body = m.list.View()
	}
	if m.view <= purchasesViewAdd {
		mode := renderModeLine(purchasesModes, int(m.view), m.modeFocus)
		body = components.CenterLine(mode, m.width) + "\n\n" + body
	}
	return components.Indent(body, 1)
}

func (m PurchasesModel) capturesText() bool {
	if m.suppliers.IsOpen() || m.products.IsOpen() {
		return true
	}
	switch m.view {
	case purchasesViewAdd, purchasesViewEdit:
		return !m.modeFocus
	}
	return m.list.Filtering()
}

func (m PurchasesModel) hasUnsaved() bool {
	switch m.view {
	case purchasesViewAdd:
		return m.addSupplier.ID != 0 || len(m.addItems) > 0 ||
			strings.TrimSpace(m.add.Raw(purchaseFieldNote)) != ""
	case purchasesViewEdit:
		return true
	}
	return false
}

func (m PurchasesModel) atTop() bool {
	return m.modeFocus && !m.suppliers.IsOpen() && !m.products.IsOpen() && m.view <= purchasesViewAdd
}

func (m PurchasesModel) hints() []string {
	switch {
	case m.suppliers.IsOpen():
		return m.suppliers.Hints()
	case m.products.IsOpen():
		return m.products.Hints()
	case m.modeFocus:
		return []string{components.Hint("←/→", "Mode"), components.Hint("↓", "Enter")}
	}
	switch m.view {
	case purchasesViewAdd:
		return formHints(m.add)
	case purchasesViewEdit:
		return formHints(m.edit)
	case purchasesViewDetail:
		return []string{components.Hint("e", "Edit"), components.Hint("esc", "Back")}
	}
	return append(listHints(m.list), components.Hint("n", "New"))
}
