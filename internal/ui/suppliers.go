package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gastroflow/gastroflow-cli/internal/api"
	"github.com/gastroflow/gastroflow-cli/internal/listing"
	"github.com/gastroflow/gastroflow-cli/internal/ui/components"
)

// --- Messages ---

type supplierCreatedMsg struct{ supplier *api.Supplier }
type supplierUpdatedMsg struct{ supplier *api.Supplier }
type supplierDeletedMsg struct{ id int64 }
type suppliersErrMsg struct {
	action string
	err    error
}

type suppliersView int

const (
	suppliersViewList suppliersView = iota
	suppliersViewAdd
	suppliersViewDetail
	suppliersViewEdit
)

var suppliersModes = []string{"List", "Add"}

const (
	supplierFieldLegalName = iota
	supplierFieldTradeName
	supplierFieldPhone
	supplierFieldEmail
	supplierFieldAddress
)

const (
	actCreateSupplier = "create the supplier"
	actUpdateSupplier = "update the supplier"
	actDeleteSupplier = "delete the supplier"
)

const (
	filterSupplierName  = "nomeFantasia"
	filterSupplierEmail = "email"
)

// --- Suppliers Model ---

type SuppliersModel struct {
	client    *api.Client
	list      *ListView[api.Supplier]
	view      suppliersView
	modeFocus bool

	add  *Form
	edit *Form

	confirmDelete bool
	deleting      bool
	detailErr     string

	width  int
	height int
}

func supplierForm(title string) *Form {
	return newForm(title,
		textField("Legal name"),
		textField("Trade name"),
		textField("Phone"),
		textField("Email"),
		textField("Address"),
	)
}

// NewSuppliersModel builds the suppliers tab.
func NewSuppliersModel(client *api.Client, pageSize int) SuppliersModel {
	ctrl := listing.NewServer("suppliers", pageSize, func(q listing.Query) (listing.Page[api.Supplier], error) {
		page, err := client.ListSuppliersPage(q.Page, q.PageSize, api.SupplierFilter{
			NomeFantasia: q.Filters.Get(filterSupplierName),
			Email:        q.Filters.Get(filterSupplierEmail),
		})
		if err != nil {
			return listing.Page[api.Supplier]{}, err
		}
		return toListingPage(page), nil
	}).WithLogger(loggerFor(client))

	list := NewListView("Suppliers", ctrl, supplierColumns()).
		WithTextFilter(filterSupplierName, "Trade name").
		WithTextFilter(filterSupplierEmail, "Email")

	return SuppliersModel{
		client: client,
		list:   list,
		add:    supplierForm("Add Supplier"),
	}
}

func supplierColumns() []Column[api.Supplier] {
	return []Column[api.Supplier]{
		{Header: "Trade name", Width: 20, Value: func(s api.Supplier) string { return s.DisplayName() }},
		{Header: "Legal name", Width: 20, Value: func(s api.Supplier) string { return s.RazaoSocial }},
		{Header: "Phone", Width: 15, Value: func(s api.Supplier) string { return s.Telefone }},
		{Header: "Email", Width: 22, Value: func(s api.Supplier) string { return s.Email }},
	}
}

func (m SuppliersModel) Init() tea.Cmd {
	return m.list.Load()
}

func (m *SuppliersModel) setSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetWidth(width)
}

func (m SuppliersModel) Update(msg tea.Msg) (SuppliersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case listLoadedMsg[api.Supplier]:
		_, cmd := m.list.Loaded(msg)
		return m, cmd
	case supplierCreatedMsg:
		m.add.Reset()
		return m, m.list.Load()
	case supplierUpdatedMsg:
		m.list.Controller().UpdateSelected(*msg.supplier)
		m.edit = nil
		m.view = suppliersViewDetail
		return m, nil
	case supplierDeletedMsg:
		m.deleting = false
		m.confirmDelete = false
		m.view = suppliersViewList
		return m, m.list.Close()
	case suppliersErrMsg:
		text := describeError(msg.action, msg.err)
		switch msg.action {
		case actCreateSupplier:
			m.add.saving = false
			m.add.err = text
		case actUpdateSupplier:
			if m.edit != nil {
				m.edit.saving = false
				m.edit.err = text
			}
		case actDeleteSupplier:
			m.deleting = false
			m.confirmDelete = false
			m.detailErr = text
		}
		return m, nil
	case tea.KeyMsg:
		if m.modeFocus {
			return m.handleModeKeys(msg)
		}
		switch m.view {
		case suppliersViewAdd:
			return m.handleAddKeys(msg)
		case suppliersViewDetail:
			if m.confirmDelete {
				return m.handleDeleteKeys(msg)
			}
			return m.handleDetailKeys(msg)
		case suppliersViewEdit:
			return m.handleEditKeys(msg)
		default:
			return m.handleListKeys(msg)
		}
	}
	return m, nil
}

func (m SuppliersModel) handleModeKeys(msg tea.KeyMsg) (SuppliersModel, tea.Cmd) {
	switch {
	case isDown(msg), isEnter(msg), isBack(msg):
		m.modeFocus = false
	case isKey(msg, "left"), isKey(msg, "right"), isSpace(msg):
		if m.view == suppliersViewAdd {
			m.view = suppliersViewList
		} else {
			m.view = suppliersViewAdd
		}
	}
	return m, nil
}

// --- List ---

func (m SuppliersModel) handleListKeys(msg tea.KeyMsg) (SuppliersModel, tea.Cmd) {
	if handled, cmd := m.list.HandleKey(msg); handled {
		return m, cmd
	}
	switch {
	case isUp(msg):
		m.modeFocus = true
	case isEnter(msg), isSpace(msg):
		if _, ok := m.list.Open(); ok {
			m.detailErr = ""
			m.view = suppliersViewDetail
		}
	case isKey(msg, "n"):
		m.view = suppliersViewAdd
	}
	return m, nil
}

// --- Detail ---

func supplierRows(s api.Supplier) []components.TableRow {
	return []components.TableRow{
		{Label: "ID", Value: idLabel(s.ID)},
		{Label: "Legal name", Value: s.RazaoSocial},
		{Label: "Trade name", Value: orDash(s.NomeFantasia)},
		{Label: "Phone", Value: s.Telefone},
		{Label: "Email", Value: s.Email},
		{Label: "Address", Value: s.Endereco},
	}
}

func (m SuppliersModel) handleDetailKeys(msg tea.KeyMsg) (SuppliersModel, tea.Cmd) {
	switch {
	case isBack(msg):
		m.view = suppliersViewList
		m.detailErr = ""
		return m, m.list.Close()
	case isKey(msg, "e"):
		m.startEdit()
	case isKey(msg, "d"):
		m.confirmDelete = true
		m.detailErr = ""
	}
	return m, nil
}

func (m SuppliersModel) handleDeleteKeys(msg tea.KeyMsg) (SuppliersModel, tea.Cmd) {
	if m.deleting {
		return m, nil
	}
	switch {
	case isKey(msg, "y"):
		s, ok := m.list.Controller().Selected()
		if !ok {
			m.confirmDelete = false
			return m, nil
		}
		m.deleting = true
		client := m.client
		return m, func() tea.Msg {
			if err := client.DeleteSupplier(s.ID); err != nil {
				return suppliersErrMsg{action: actDeleteSupplier, err: err}
			}
			return supplierDeletedMsg{id: s.ID}
		}
	case isKey(msg, "n"), isBack(msg):
		m.confirmDelete = false
	}
	return m, nil
}

func (m SuppliersModel) renderDetail() string {
	s, ok := m.list.Controller().Selected()
	if !ok {
		return MutedStyle.Render("No supplier selected.")
	}
	if m.confirmDelete {
		if m.deleting {
			return components.TitledBox("Delete Supplier", MutedStyle.Render("Deleting..."), m.width)
		}
		return components.ConfirmRecordDialog("Delete Supplier", supplierRows(s), m.width)
	}
	out := components.Table("Supplier", supplierRows(s), m.width)
	if m.detailErr != "" {
		out += "\n\n" + components.ErrorBox("Error", m.detailErr, m.width)
	}
	return out
}

// --- Edit ---

func (m *SuppliersModel) startEdit() {
	s, ok := m.list.Controller().Selected()
	if !ok {
		return
	}
	m.edit = supplierForm("Edit Supplier")
	m.edit.Set(supplierFieldLegalName, s.RazaoSocial)
	m.edit.Set(supplierFieldTradeName, s.NomeFantasia)
	m.edit.Set(supplierFieldPhone, s.Telefone)
	m.edit.Set(supplierFieldEmail, s.Email)
	m.edit.Set(supplierFieldAddress, s.Endereco)
	m.view = suppliersViewEdit
}

func supplierInputFromForm(f *Form) api.SupplierInput {
	return api.SupplierInput{
		RazaoSocial:  f.Value(supplierFieldLegalName),
		NomeFantasia: f.Value(supplierFieldTradeName),
		Telefone:     f.Value(supplierFieldPhone),
		Email:        f.Value(supplierFieldEmail),
		Endereco:     f.Value(supplierFieldAddress),
	}
}

func (m SuppliersModel) handleEditKeys(msg tea.KeyMsg) (SuppliersModel, tea.Cmd) {
	switch m.edit.Update(msg) {
	case formCancel:
		m.edit = nil
		m.view = suppliersViewDetail
	case formSubmit:
		return m.saveEdit()
	}
	return m, nil
}

func (m SuppliersModel) saveEdit() (SuppliersModel, tea.Cmd) {
	s, ok := m.list.Controller().Selected()
	if !ok {
		return m, nil
	}
	input := supplierInputFromForm(m.edit)
	if err := input.Validate(); err != nil {
		m.edit.err = describeError(actUpdateSupplier, err)
		return m, nil
	}
	m.edit.saving = true
	client := m.client
	return m, func() tea.Msg {
		updated, err := client.UpdateSupplier(s.ID, input)
		if err != nil {
			return suppliersErrMsg{action: actUpdateSupplier, err: err}
		}
		if updated == nil {
			updated = &api.Supplier{
				ID:           s.ID,
				RazaoSocial:  input.RazaoSocial,
				NomeFantasia: input.NomeFantasia,
				Telefone:     input.Telefone,
				Email:        input.Email,
				Endereco:     input.Endereco,
			}
		}
		return supplierUpdatedMsg{supplier: updated}
	}
}

func (m SuppliersModel) renderEdit() string {
	out := m.edit.View(m.width)
	s, ok := m.list.Controller().Selected()
	if !ok {
		return out
	}
	in := supplierInputFromForm(m.edit)
	after := api.Supplier{ID: s.ID, RazaoSocial: in.RazaoSocial, NomeFantasia: in.NomeFantasia, Telefone: in.Telefone, Email: in.Email, Endereco: in.Endereco}
	if diff := components.Diff(supplierRows(s), supplierRows(after)); len(diff) > 0 {
		out += "\n\n" + components.DiffTable("Changes", diff, m.width)
	}
	return out
}

// --- Add ---

func (m SuppliersModel) handleAddKeys(msg tea.KeyMsg) (SuppliersModel, tea.Cmd) {
	switch m.add.Update(msg) {
	case formLeaveTop:
		m.modeFocus = true
	case formCancel:
		m.add.Reset()
	case formSubmit:
		input := supplierInputFromForm(m.add)
		if err := input.Validate(); err != nil {
			m.add.err = describeError(actCreateSupplier, err)
			return m, nil
		}
		m.add.err = ""
		m.add.saving = true
		client := m.client
		return m, func() tea.Msg {
			created, err := client.CreateSupplier(input)
			if err != nil {
				return suppliersErrMsg{action: actCreateSupplier, err: err}
			}
			return supplierCreatedMsg{supplier: created}
		}
	}
	return m, nil
}

// --- View ---

func (m SuppliersModel) View() string {
	var body string
	switch m.view {
	case suppliersViewAdd:
		body = m.add.View(m.width)
	case suppliersViewDetail:
		body = m.renderDetail()
	case suppliersViewEdit:
		body = m.renderEdit()
	default:
		body = m.list.View()
	}
	if m.view <= suppliersViewAdd {
		mode := renderModeLine(suppliersModes, int(m.view), m.modeFocus)
		body = components.CenterLine(mode, m.width) + "\n\n" + body
	}
	return components.Indent(body, 1)
}

func (m SuppliersModel) capturesText() bool {
	switch m.view {
	case suppliersViewAdd, suppliersViewEdit:
		return !m.modeFocus
	case suppliersViewDetail:
		return m.confirmDelete
	}
	return m.list.Filtering()
}

func (m SuppliersModel) hasUnsaved() bool {
	switch m.view {
	case suppliersViewAdd:
		return m.add.HasInput()
	case suppliersViewEdit:
		return true
	}
	return false
}

func (m SuppliersModel) atTop() bool {
	return m.modeFocus && m.view <= suppliersViewAdd
}

func (m SuppliersModel) hints() []string {
	if m.modeFocus {
		return []string{components.Hint("←/→", "Mode"), components.Hint("↓", "Enter")}
	}
	switch m.view {
	case suppliersViewAdd:
		return formHints(m.add)
	case suppliersViewEdit:
		return formHints(m.edit)
	case suppliersViewDetail:
		if m.confirmDelete {
			return []string{components.Hint("y", "Delete"), components.Hint("n", "Cancel")}
		}
		return []string{components.Hint("e", "Edit"), components.Hint("d", "Delete"), components.Hint("esc", "Back")}
	}
	return append(listHints(m.list), components.Hint("n", "New"))
}
