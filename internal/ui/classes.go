package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gastroflow/gastroflow-cli/internal/api"
	"github.com/gastroflow/gastroflow-cli/internal/listing"
	"github.com/gastroflow/gastroflow-cli/internal/ui/components"
)

// --- Messages ---

type classCreatedMsg struct{ class *api.Class }
type classUpdatedMsg struct{ class *api.Class }
type classesErrMsg struct {
	action string
	err    error
}

type classesView int

const (
	classesViewList classesView = iota
	classesViewAdd
	classesViewDetail
	classesViewEdit
)

var classesModes = []string{"List", "Add"}

const (
	classFieldName = iota
	classFieldDescription
	classFieldDate
	classFieldInstructor
	classFieldSubject
	classFieldSemester
	classFieldModule
	classFieldPeriod
	classFieldRecipes
)

const (
	actCreateClass = "create the class"
	actUpdateClass = "update the class"
)

const (
	filterClassName   = "nome"
	filterClassPeriod = "periodo"
)

var (
	semesterOptions = []string{"1", "2"}
	moduleOptions   = []string{"1", "2", "3"}
)

// --- Classes Model ---

type ClassesModel struct {
	client    *api.Client
	list      *ListView[api.Class]
	view      classesView
	modeFocus bool

	add      *Form
	addItems []api.ClassRecipe

	edit      *Form
	editItems []api.ClassRecipe

	picker *Picker[api.Recipe]

	width  int
	height int
}

func classForm(title string) *Form {
	return newForm(title,
		textField("Name"),
		textField("Description"),
		textField("Date (YYYY-MM-DD)"),
		textField("Instructor"),
		textField("Subject"),
		choiceField("Semester", semesterOptions, nil),
		choiceField("Module", moduleOptions, nil),
		choiceField("Period", api.Periods, nil),
		actionField("Recipes"),
	)
}

func periodLabel(p string) string {
	if p == "" {
		return "All periods"
	}
	return p
}

// NewClassesModel builds the classes tab.
func NewClassesModel(client *api.Client, pageSize int) ClassesModel {
	ctrl := listing.NewClient("classes", pageSize, func() ([]api.Class, error) {
		return client.ListClasses()
	}, func(c api.Class, f listing.Filters) bool {
		return listing.Contains(c.Nome, f.Get(filterClassName)) && listing.Is(c.Periodo, f.Get(filterClassPeriod))
	}).WithLogger(loggerFor(client))

	list := NewListView("Classes", ctrl, []Column[api.Class]{
		{Header: "Name", Width: 22, Value: func(c api.Class) string { return c.Nome }},
		{Header: "Date", Width: 10, Value: func(c api.Class) string { return orDash(api.DatePart(c.Data)) }},
		{Header: "Instructor", Width: 16, Value: func(c api.Class) string { return c.Instrutor }},
		{Header: "Period", Width: 10, Value: func(c api.Class) string { return c.Periodo }},
		{Header: "S/M", Width: 5, Align: lipgloss.Center, Value: func(c api.Class) string { return fmt.Sprintf("%d/%d", c.Semestre, c.Modulo) }},
	}).
		WithTextFilter(filterClassName, "Name").
		WithChoiceFilter(filterClassPeriod, "Period", append([]string{""}, api.Periods...), periodLabel)

	return ClassesModel{
		client: client,
		list:   list,
		add:    classForm("Add Class"),
		picker: newRecipePicker(client, "classes.recipes", pageSize),
	}
}

func (m ClassesModel) Init() tea.Cmd {
	return tea.Batch(m.list.Load(), m.picker.List().Load())
}

func (m *ClassesModel) setSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetWidth(width)
	m.picker.SetWidth(width)
}

func (m ClassesModel) Update(msg tea.Msg) (ClassesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case listLoadedMsg[api.Class]:
		_, cmd := m.list.Loaded(msg)
		return m, cmd
	case listLoadedMsg[api.Recipe]:
		_, cmd := m.picker.Loaded(msg)
		return m, cmd
	case classCreatedMsg:
		m.add.Reset()
		m.addItems = nil
		m.refreshItemSummaries()
		return m, m.list.Load()
	case classUpdatedMsg:
		m.list.Controller().UpdateSelected(*msg.class)
		m.edit = nil
		m.editItems = nil
		m.view = classesViewDetail
		return m, nil
	case classesErrMsg:
		form := m.add
		if msg.action == actUpdateClass {
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
		case classesViewAdd, classesViewEdit:
			return m.handleFormKeys(msg)
		case classesViewDetail:
			return m.handleDetailKeys(msg)
		default:
			return m.handleListKeys(msg)
		}
	}
	return m, nil
}

func (m ClassesModel) handleModeKeys(msg tea.KeyMsg) (ClassesModel, tea.Cmd) {
	switch {
	case isDown(msg), isEnter(msg), isBack(msg):
		m.modeFocus = false
	case isKey(msg, "left"), isKey(msg, "right"), isSpace(msg):
		if m.view == classesViewAdd {
			m.view = classesViewList
		} else {
			m.view = classesViewAdd
		}
	}
	return m, nil
}

func (m ClassesModel) handleListKeys(msg tea.KeyMsg) (ClassesModel, tea.Cmd) {
	if handled, cmd := m.list.HandleKey(msg); handled {
		return m, cmd
	}
	switch {
	case isUp(msg):
		m.modeFocus = true
	case isEnter(msg), isSpace(msg):
		if _, ok := m.list.Open(); ok {
			m.view = classesViewDetail
		}
	case isKey(msg, "n"):
		m.view = classesViewAdd
	}
	return m, nil
}

// --- Detail ---

func (m ClassesModel) handleDetailKeys(msg tea.KeyMsg) (ClassesModel, tea.Cmd) {
	switch {
	case isBack(msg):
		m.view = classesViewList
		return m, m.list.Close()
	case isKey(msg, "e"):
		return m.startEdit()
	}
	return m, nil
}

func classRows(c api.Class) []components.TableRow {
	return []components.TableRow{
		{Label: "ID", Value: idLabel(c.ID)},
		{Label: "Name", Value: c.Nome},
		{Label: "Description", Value: c.Descricao},
		{Label: "Date", Value: orDash(api.DatePart(c.Data))},
		{Label: "Instructor", Value: c.Instrutor},
		{Label: "Subject", Value: c.Materia},
		{Label: "Semester", Value: strconv.Itoa(c.Semestre)},
		{Label: "Module", Value: strconv.Itoa(c.Modulo)},
		{Label: "Period", Value: c.Periodo},
	}
}

func (m ClassesModel) renderDetail() string {
	c, ok := m.list.Controller().Selected()
	if !ok {
		return MutedStyle.Render("No class selected.")
	}
	out := components.Table("Class", classRows(c), m.width)
	if len(c.Receitas) == 0 {
		return out
	}
	names := m.recipeNames()
	lines := make([]string, 0, len(c.Receitas))
	for _, r := range c.Receitas {
		name := r.Nome
		if name == "" {
			name = names[r.ReceitaID]
		}
		if name == "" {
			name = idLabel(r.ReceitaID)
		}
		lines = append(lines, NormalStyle.Render(fmt.Sprintf("  %s", name))+MutedStyle.Render(fmt.Sprintf("  x%d", r.Quantidade)))
	}
	return out + "\n\n" + components.TitledBox("Recipes", strings.Join(lines, "\n"), m.width)
}

func (m ClassesModel) recipeNames() map[int64]string {
	out := make(map[int64]string)
	for _, r := range m.picker.List().Controller().All() {
		out[r.ID] = r.Nome
	}
	return out
}

// --- Add / Edit ---

func (m ClassesModel) startEdit() (ClassesModel, tea.Cmd) {
	c, ok := m.list.Controller().Selected()
	if !ok {
		return m, nil
	}
	m.edit = classForm("Edit Class")
	m.edit.Set(classFieldName, c.Nome)
	m.edit.Set(classFieldDescription, c.Descricao)
	m.edit.Set(classFieldDate, api.DatePart(c.Data))
	m.edit.Set(classFieldInstructor, c.Instrutor)
	m.edit.Set(classFieldSubject, c.Materia)
	m.edit.Set(classFieldSemester, strconv.Itoa(c.Semestre))
	m.edit.Set(classFieldModule, strconv.Itoa(c.Modulo))
	m.edit.Set(classFieldPeriod, c.Periodo)
	m.editItems = append([]api.ClassRecipe(nil), c.Receitas...)
	m.view = classesViewEdit
	m.refreshItemSummaries()
	return m, nil
}

func (m ClassesModel) handleFormKeys(msg tea.KeyMsg) (ClassesModel, tea.Cmd) {
	editing := m.view == classesViewEdit
	form := m.add
	if editing {
		form = m.edit
	}
	if form.Focus() == classFieldRecipes && isKey(msg, "backspace") {
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
			m.view = classesViewDetail
			return m, nil
		}
		form.Reset()
		m.addItems = nil
		m.refreshItemSummaries()
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

func (m ClassesModel) handlePickerKeys(msg tea.KeyMsg) (ClassesModel, tea.Cmd) {
	action, cmd := m.picker.HandleKey(msg)
	if action == pickerDone {
		recipe, qty, _ := m.picker.Result()
		item := api.ClassRecipe{ReceitaID: recipe.ID, Quantidade: int(qty), Nome: recipe.Nome}
		if m.view == classesViewEdit {
			m.editItems = upsertClassRecipe(m.editItems, item)
		} else {
			m.addItems = upsertClassRecipe(m.addItems, item)
		}
		m.refreshItemSummaries()
	}
	return m, cmd
}

func (m *ClassesModel) refreshItemSummaries() {
	m.add.Set(classFieldRecipes, classRecipesSummary(m.addItems))
	if m.edit != nil {
		m.edit.Set(classFieldRecipes, classRecipesSummary(m.editItems))
	}
}

func classInputFromForm(f *Form, items []api.ClassRecipe) api.ClassInput {
	semester, _ := strconv.Atoi(f.Value(classFieldSemester))
	module, _ := strconv.Atoi(f.Value(classFieldModule))
	return api.ClassInput{
		Nome:      f.Value(classFieldName),
		Descricao: f.Value(classFieldDescription),
		Data:      f.Value(classFieldDate),
		Instrutor: f.Value(classFieldInstructor),
		Materia:   f.Value(classFieldSubject),
		Semestre:  semester,
		Modulo:    module,
		Periodo:   f.Value(classFieldPeriod),
		Receitas:  items,
	}
}

func (m ClassesModel) save(form *Form, items []api.ClassRecipe) (ClassesModel, tea.Cmd) {
	action := actCreateClass
	if m.view == classesViewEdit {
		action = actUpdateClass
	}
	input := classInputFromForm(form, items)
	if err := input.Validate(); err != nil {
		form.err = describeError(action, err)
		return m, nil
	}
	form.err = ""
	form.saving = true
	client := m.client

	if action == actCreateClass {
		return m, func() tea.Msg {
			created, err := client.CreateClass(input)
			if err != nil {
				return classesErrMsg{action: action, err: err}
			}
			return classCreatedMsg{class: created}
		}
	}

	c, _ := m.list.Controller().Selected()
	return m, func() tea.Msg {
		updated, err := client.UpdateClass(c.ID, input)
		if err != nil {
			return classesErrMsg{action: action, err: err}
		}
		if updated == nil {
			updated = &api.Class{
				ID:        c.ID,
				Nome:      input.Nome,
				Descricao: input.Descricao,
				Data:      input.Data,
				Instrutor: input.Instrutor,
				Materia:   input.Materia,
				Semestre:  input.Semestre,
				Modulo:    input.Modulo,
				Periodo:   input.Periodo,
				Receitas:  input.Receitas,
			}
		}
		return classUpdatedMsg{class: updated}
	}
}

// --- View ---

func (m ClassesModel) View() string {
	if m.picker.IsOpen() {
		return components.Indent(m.picker.View(m.width), 1)
	}
	var body string
	switch m.view {
	case classesViewAdd:
		body = m.add.View(m.width)
	case classesViewDetail:
		body = m.renderDetail()
	case classesViewEdit:
		body = m.edit.View(m.width)
	default:
		body = m.list.View()
	}
	if m.view <= classesViewAdd {
		mode := renderModeLine(classesModes, int(m.view), m.modeFocus)
		body = components.CenterLine(mode, m.width) + "\n\n" + body
	}
	return components.Indent(body, 1)
}

func (m ClassesModel) capturesText() bool {
	if m.picker.IsOpen() {
		return true
	}
	switch m.view {
	case classesViewAdd, classesViewEdit:
		return !m.modeFocus
	}
	return m.list.Filtering()
}

func (m ClassesModel) hasUnsaved() bool {
	switch m.view {
	case classesViewAdd:
		return m.add.HasInput() || len(m.addItems) > 0
	case classesViewEdit:
		return true
	}
	return false
}

func (m ClassesModel) atTop() bool {
	return m.modeFocus && !m.picker.IsOpen() && m.view <= classesViewAdd
}

func (m ClassesModel) hints() []string {
	if m.picker.IsOpen() {
		return m.picker.Hints()
	}
	if m.modeFocus {
		return []string{components.Hint("←/→", "Mode"), components.Hint("↓", "Enter")}
	}
	switch m.view {
	case classesViewAdd:
		return formHints(m.add)
	case classesViewEdit:
		return formHints(m.edit)
	case classesViewDetail:
		return []string{components.Hint("e", "Edit"), components.Hint("esc", "Back")}
	}
	return append(listHints(m.list), components.Hint("n", "New"))
}
