package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gastroflow/gastroflow-cli/internal/api"
	"github.com/gastroflow/gastroflow-cli/internal/config"
	"github.com/gastroflow/gastroflow-cli/internal/session"
	"github.com/gastroflow/gastroflow-cli/internal/ui/components"
)

// --- Tab Constants ---

const (
	tabStock     = 0
	tabRecipes   = 1
	tabClasses   = 2
	tabSuppliers = 3
	tabPurchases = 4
	tabCount     = 5
)

var tabNames = []string{"Stock", "Recipes", "Classes", "Suppliers", "Purchases"}

// --- Messages ---

type clearToastMsg struct{}
type noticeMsg struct{ notice session.Notice }

type paletteAction struct {
	ID    string
	Label string
	Desc  string
}

type appToast struct {
	level string
	text  string
}

// --- App Model ---

// App is the root TUI model that routes between the login screen and tabs.
type App struct {
	client      *api.Client
	sess        *session.Session
	config      *config.Config
	pageSize    int
	tab         int
	tabNav      bool
	width       int
	height      int
	helpOpen    bool
	quitConfirm bool
	toast       *appToast

	paletteOpen     bool
	paletteQuery    string
	palette         components.Cursor
	paletteActions  []paletteAction
	paletteFiltered []paletteAction

	loggedIn bool
	login    LoginModel

	stock     StockModel
	recipes   RecipesModel
	classes   ClassesModel
	suppliers SuppliersModel
	purchases PurchasesModel
}

// NewApp creates the root application model. The session is taken from the
// client; a nil client falls back to the default backend with no token.
func NewApp(client *api.Client, cfg *config.Config) App {
	if client == nil {
		client = api.NewDefaultClient(nil)
	}
	if cfg == nil {
		cfg = &config.Config{}
	}
	a := App{
		client:         client,
		sess:           client.Session(),
		config:         cfg,
		pageSize:       cfg.EffectivePageSize(),
		tab:            tabStock,
		tabNav:         true,
		palette:        components.NewCursor(paletteRows),
		paletteActions: defaultPaletteActions(),
		login:          NewLoginModel(client, cfg.Email),
	}
	a.loggedIn = a.sess.LoggedIn()
	a.resetTabs()
	return a
}

// resetTabs drops all tab state, used at startup and after a logout.
func (a *App) resetTabs() {
	a.stock = NewStockModel(a.client, a.pageSize)
	a.recipes = NewRecipesModel(a.client, a.pageSize)
	a.classes = NewClassesModel(a.client, a.pageSize)
	a.suppliers = NewSuppliersModel(a.client, a.pageSize)
	a.purchases = NewPurchasesModel(a.client, a.pageSize)
	a.applySize()
}

func (a *App) applySize() {
	a.login.setSize(a.width, a.height)
	a.stock.setSize(a.width, a.height)
	a.recipes.setSize(a.width, a.height)
	a.classes.setSize(a.width, a.height)
	a.suppliers.setSize(a.width, a.height)
	a.purchases.setSize(a.width, a.height)
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForNotice(a.sess.Notices())}
	if a.loggedIn {
		cmds = append(cmds, a.initTab(a.tab))
	}
	return tea.Batch(cmds...)
}

// waitForNotice blocks on the session notice stream and delivers one notice.
func waitForNotice(notices *session.Notices) tea.Cmd {
	if notices == nil {
		return nil
	}
	return func() tea.Msg {
		return noticeMsg{notice: <-notices.C()}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.applySize()
		return a, nil

	case clearToastMsg:
		a.toast = nil
		return a, nil

	case noticeMsg:
		next := waitForNotice(a.sess.Notices())
		if msg.notice.Level == session.LevelError && a.loggedIn {
			a.signOut()
		}
		return a, tea.Batch(next, a.setToast(string(msg.notice.Level), msg.notice.Text))

	case loginDoneMsg:
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		if msg.err != nil {
			return a, cmd
		}
		return a.signedIn(msg)

	case registerDoneMsg:
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		if msg.err != nil {
			return a, cmd
		}
		return a, tea.Batch(cmd, a.setToast("success", "Account created. Log in to continue."))

	case tea.KeyMsg:
		if a.quitConfirm {
			switch {
			case isKey(msg, "y"):
				return a, tea.Quit
			case isKey(msg, "n"), isBack(msg):
				a.quitConfirm = false
			}
			return a, nil
		}
		if !a.loggedIn {
			return a.handleLoginKeys(msg)
		}
		if a.helpOpen {
			if isBack(msg) || isKey(msg, "?") {
				a.helpOpen = false
			}
			return a, nil
		}
		if a.paletteOpen {
			return a.handlePaletteKeys(msg)
		}

		// Global keys. Letters and digits belong to the tab while it is
		// taking text input.
		typing := !a.tabNav && a.activeCapturesText()
		if isKey(msg, "ctrl+c") || (!typing && isQuit(msg)) {
			return a.requestQuit()
		}
		if !typing {
			if isKey(msg, "?") {
				a.helpOpen = true
				return a, nil
			}
			if isKey(msg, "/") {
				a.openPalette()
				return a, nil
			}
			if idx, ok := tabIndexForKey(msg.String()); ok {
				return a.switchTab(idx)
			}
		}

		// Arrow tab navigation until user enters content with Down
		if a.tabNav {
			if isKey(msg, "left") {
				return a.switchTab((a.tab - 1 + tabCount) % tabCount)
			}
			if isKey(msg, "right") {
				return a.switchTab((a.tab + 1) % tabCount)
			}
			if isDown(msg) {
				a.tabNav = false
				return a, nil
			}

			// Any other key exits tab nav so the active tab can handle it.
			a.tabNav = false
		} else if isUp(msg) && a.canExitToTabNav() {
			a.tabNav = true
			return a, nil
		}
		return a.updateActive(msg)
	}

	// Results of background commands go to every tab: a list may finish
	// loading after the user has moved elsewhere.
	cmd := a.broadcast(msg)
	toastCmd := a.toastCmdForMsg(msg)
	if toastCmd != nil && cmd != nil {
		return a, tea.Batch(cmd, toastCmd)
	}
	if toastCmd != nil {
		return a, toastCmd
	}
	return a, cmd
}

func (a App) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if isKey(msg, "ctrl+c") {
		return a.requestQuit()
	}
	var cmd tea.Cmd
	a.login, cmd = a.login.Update(msg)
	return a, cmd
}

func (a App) requestQuit() (tea.Model, tea.Cmd) {
	if a.hasUnsaved() {
		a.quitConfirm = true
		return a, nil
	}
	return a, tea.Quit
}

// signedIn records the account in the config and opens the first tab.
func (a App) signedIn(msg loginDoneMsg) (tea.Model, tea.Cmd) {
	a.loggedIn = true
	a.tab = tabStock
	a.tabNav = true
	a.resetTabs()

	name := msg.email
	if msg.user != nil && msg.user.DisplayName() != "" {
		name = msg.user.DisplayName()
	}
	a.config.Email = msg.email
	a.config.UserName = name
	toast := a.setToast("success", "Signed in as "+name+".")
	if err := a.config.Save(); err != nil {
		a.sess.Logger().Warn("save config after login", "err", err)
		toast = a.setToast("warning", fmt.Sprintf("Signed in, but the config could not be saved: %v", err))
	}
	return a, tea.Batch(a.initTab(a.tab), toast)
}

// signOut returns to the login screen and forgets all tab data.
func (a *App) signOut() {
	a.loggedIn = false
	a.helpOpen = false
	a.paletteOpen = false
	a.quitConfirm = false
	a.tabNav = true
	a.login = NewLoginModel(a.client, a.config.Email)
	a.resetTabs()
}

func (a App) logout() (tea.Model, tea.Cmd) {
	if err := a.sess.Logout(); err != nil {
		a.sess.Logger().Error("logout", "err", err)
		return a, a.setToast("error", fmt.Sprintf("Logout failed: %v", err))
	}
	a.signOut()
	return a, a.setToast("info", "Logged out.")
}

func (a App) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.tab {
	case tabStock:
		a.stock, cmd = a.stock.Update(msg)
	case tabRecipes:
		a.recipes, cmd = a.recipes.Update(msg)
	case tabClasses:
		a.classes, cmd = a.classes.Update(msg)
	case tabSuppliers:
		a.suppliers, cmd = a.suppliers.Update(msg)
	case tabPurchases:
		a.purchases, cmd = a.purchases.Update(msg)
	}
	return a, cmd
}

func (a *App) broadcast(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 0, tabCount)
	var cmd tea.Cmd
	a.stock, cmd = a.stock.Update(msg)
	cmds = append(cmds, cmd)
	a.recipes, cmd = a.recipes.Update(msg)
	cmds = append(cmds, cmd)
	a.classes, cmd = a.classes.Update(msg)
	cmds = append(cmds, cmd)
	a.suppliers, cmd = a.suppliers.Update(msg)
	cmds = append(cmds, cmd)
	a.purchases, cmd = a.purchases.Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

func (a App) View() string {
	banner := centerBlockUniform(RenderBanner(), a.width)

	if !a.loggedIn {
		content := centerBlockUniform(a.login.View(), a.width)
		if a.quitConfirm {
			content = centerBlockUniform(a.renderQuitConfirm(), a.width)
		}
		hints := components.StatusBar(a.statusHints(), a.width)
		return fmt.Sprintf("%s\n\n%s\n\n\n%s%s", banner, content, hints, a.renderFeedback())
	}

	tabs := centerBlockUniform(a.renderTabs(), a.width)
	user := centerBlock(MutedStyle.Render(a.signedInLine()), a.width)

	var content string
	switch a.tab {
	case tabStock:
		content = a.stock.View()
	case tabRecipes:
		content = a.recipes.View()
	case tabClasses:
		content = a.classes.View()
	case tabSuppliers:
		content = a.suppliers.View()
	case tabPurchases:
		content = a.purchases.View()
	}
	content = centerBlockUniform(content, a.width)

	if a.quitConfirm {
		content = centerBlockUniform(a.renderQuitConfirm(), a.width)
	} else if a.helpOpen {
		content = centerBlockUniform(a.renderHelp(), a.width)
	} else if a.paletteOpen {
		content = centerBlockUniform(a.renderPalette(), a.width)
	}

	hints := components.StatusBar(a.statusHints(), a.width)
	return fmt.Sprintf("%s\n%s\n%s\n\n%s\n\n\n%s%s", banner, tabs, user, content, hints, a.renderFeedback())
}

func (a App) signedInLine() string {
	name := a.config.UserName
	if u := a.sess.User(); u != nil && u.DisplayName() != "" {
		name = u.DisplayName()
	}
	if name == "" {
		return "Signed in"
	}
	return "Signed in as " + components.SanitizeOneLine(name)
}

func (a App) renderFeedback() string {
	if a.toast == nil {
		return ""
	}
	return "\n\n" + centerBlockUniform(a.renderToast(), a.width)
}

func (a *App) switchTab(newTab int) (App, tea.Cmd) {
	oldTab := a.tab
	a.tab = newTab
	if oldTab != newTab {
		return *a, a.initTab(newTab)
	}
	return *a, nil
}

func (a App) renderTabs() string {
	segments := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if i == a.tab {
			segments = append(segments, TabActiveStyle.Render(label))
		} else {
			segments = append(segments, TabInactiveStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, segments...)
}

// initTab reloads the tab's list so switching tabs always shows fresh data.
func (a App) initTab(tab int) tea.Cmd {
	switch tab {
	case tabStock:
		return a.stock.Init()
	case tabRecipes:
		return a.recipes.Init()
	case tabClasses:
		return a.classes.Init()
	case tabSuppliers:
		return a.suppliers.Init()
	case tabPurchases:
		return a.purchases.Init()
	}
	return nil
}

func (a App) activeCapturesText() bool {
	switch a.tab {
	case tabStock:
		return a.stock.capturesText()
	case tabRecipes:
		return a.recipes.capturesText()
	case tabClasses:
		return a.classes.capturesText()
	case tabSuppliers:
		return a.suppliers.capturesText()
	case tabPurchases:
		return a.purchases.capturesText()
	}
	return false
}

func (a App) statusHints() []string {
	if a.quitConfirm {
		return []string{
			components.Hint("y", "Confirm"),
			components.Hint("n", "Cancel"),
		}
	}
	if !a.loggedIn {
		return a.login.hints()
	}
	if a.helpOpen {
		return []string{
			components.Hint("esc", "Back"),
		}
	}
	if a.paletteOpen {
		return []string{
			components.Hint("↑/↓", "Move"),
			components.Hint("enter", "Run"),
			components.Hint("esc", "Close"),
		}
	}
	if a.tabNav {
		return []string{
			components.Hint("←/→", "Tabs"),
			components.Hint("↓", "Enter"),
			components.Hint("/", "Command"),
			components.Hint("?", "Help"),
			components.Hint("q", "Quit"),
		}
	}
	return a.statusHintsForTab()
}

func (a App) statusHintsForTab() []string {
	base := []string{
		components.Hint("1-5", "Tabs"),
		components.Hint("/", "Command"),
		components.Hint("?", "Help"),
		components.Hint("q", "Quit"),
	}
	if a.activeCapturesText() {
		base = []string{components.Hint("ctrl+c", "Quit")}
	}
	switch a.tab {
	case tabStock:
		return append(a.stock.hints(), base...)
	case tabRecipes:
		return append(a.recipes.hints(), base...)
	case tabClasses:
		return append(a.classes.hints(), base...)
	case tabSuppliers:
		return append(a.suppliers.hints(), base...)
	case tabPurchases:
		return append(a.purchases.hints(), base...)
	}
	return base
}

func (a App) renderHelp() string {
	hints := a.statusHintsForTab()
	lines := make([]string, 0, len(hints)+2)
	lines = append(lines, MutedStyle.Render("esc to close"))
	lines = append(lines, "")
	for _, hint := range hints {
		lines = append(lines, "  "+hint)
	}
	body := strings.Join(lines, "\n")
	return components.Indent(components.TitledBox("Help", body, a.width), 1)
}

func (a App) renderQuitConfirm() string {
	body := "You have unsaved changes. Quit anyway?"
	return components.Indent(components.ConfirmDialog("Quit", body), 1)
}

func (a *App) setToast(level, text string) tea.Cmd {
	a.toast = &appToast{
		level: level,
		text:  components.SanitizeOneLine(text),
	}
	return tea.Tick(2500*time.Millisecond, func(time.Time) tea.Msg {
		return clearToastMsg{}
	})
}

func (a App) renderToast() string {
	if a.toast == nil {
		return ""
	}
	title := "Info"
	switch a.toast.level {
	case string(session.LevelSuccess):
		title = "Success"
	case string(session.LevelWarning):
		title = "Warning"
	case string(session.LevelError):
		return components.ErrorBox("Error", a.toast.text, a.width)
	}
	return components.TitledBox(title, a.toast.text, a.width)
}

func (a *App) toastCmdForMsg(msg tea.Msg) tea.Cmd {
	var level, text string
	switch msg := msg.(type) {
	case productCreatedMsg:
		level, text = "success", "Product created."
	case productUpdatedMsg:
		level, text = "success", "Product updated."
	case stockUpdatedMsg:
		level, text = "success", "Stock updated."
	case productsImportedMsg:
		if msg.result != nil {
			level, text = "success", fmt.Sprintf("Imported %d products.", msg.result.Imported)
		}
	case supplierCreatedMsg:
		level, text = "success", "Supplier created."
	case supplierUpdatedMsg:
		level, text = "success", "Supplier updated."
	case supplierDeletedMsg:
		level, text = "success", "Supplier deleted."
	case recipeCreatedMsg:
		level, text = "success", "Recipe created."
	case recipeUpdatedMsg:
		level, text = "success", "Recipe updated."
	case classCreatedMsg:
		level, text = "success", "Class scheduled."
	case classUpdatedMsg:
		level, text = "success", "Class updated."
	case purchaseCreatedMsg:
		level, text = "success", "Purchase registered."
	case purchaseUpdatedMsg:
		level, text = "success", "Purchase updated."
	}
	if text == "" {
		return nil
	}
	return a.setToast(level, text)
}

// --- Command Palette ---

const paletteRows = 8

func (a *App) openPalette() {
	a.paletteOpen = true
	a.paletteQuery = ""
	a.refreshPalette()
}

func (a *App) refreshPalette() {
	a.paletteFiltered = filterPalette(a.paletteActions, a.paletteQuery)
	a.palette.Reset(len(a.paletteFiltered))
}

func (a App) renderPalette() string {
	var b strings.Builder
	b.WriteString("  > " + components.SanitizeOneLine(a.paletteQuery))
	b.WriteString(AccentStyle.Render("█"))
	b.WriteString("\n\n")

	start, end := a.palette.Window()
	if start == end {
		b.WriteString(MutedStyle.Render("No matches."))
	} else {
		for i := start; i < end; i++ {
			item := a.paletteFiltered[i]
			line := fmt.Sprintf("%s  %s", item.Label, MutedStyle.Render(item.Desc))
			if i == a.palette.Pos() {
				b.WriteString(SelectedStyle.Render("  > " + line))
			} else {
				b.WriteString(NormalStyle.Render("    " + line))
			}
			if i < end-1 {
				b.WriteString("\n")
			}
		}
	}
	return components.TitledBox("Command Palette", b.String(), a.width)
}

func (a App) handlePaletteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case isBack(msg):
		a.paletteOpen = false
		return a, nil
	case isEnter(msg):
		if len(a.paletteFiltered) == 0 {
			return a, nil
		}
		action := a.paletteFiltered[a.palette.Pos()]
		a.paletteOpen = false
		a.paletteQuery = ""
		return a.runPaletteAction(action)
	case isUp(msg):
		a.palette.Up()
	case isDown(msg):
		a.palette.Down()
	case isKey(msg, "backspace"):
		if a.paletteQuery != "" {
			a.paletteQuery = dropLastRune(a.paletteQuery)
			a.refreshPalette()
		}
	default:
		if text, ok := typedText(msg); ok {
			a.paletteQuery += text
			a.refreshPalette()
		}
	}
	return a, nil
}

func (a *App) runPaletteAction(action paletteAction) (tea.Model, tea.Cmd) {
	a.tabNav = true
	switch action.ID {
	case "tab:stock":
		return a.switchTab(tabStock)
	case "tab:recipes":
		return a.switchTab(tabRecipes)
	case "tab:classes":
		return a.switchTab(tabClasses)
	case "tab:suppliers":
		return a.switchTab(tabSuppliers)
	case "tab:purchases":
		return a.switchTab(tabPurchases)
	case "stock:add", "stock:import":
		app, cmd := a.switchTab(tabStock)
		app.tabNav = false
		app.stock.modeFocus = false
		app.stock.view = stockViewAdd
		if action.ID == "stock:import" {
			app.stock.view = stockViewImport
		}
		return app, cmd
	case "purchases:add":
		app, cmd := a.switchTab(tabPurchases)
		app.tabNav = false
		app.purchases.modeFocus = false
		app.purchases.view = purchasesViewAdd
		return app, cmd
	case "logout":
		return a.logout()
	case "quit":
		return a.requestQuit()
	}
	return *a, nil
}

func (a App) hasUnsaved() bool {
	if !a.loggedIn {
		return a.login.hasUnsaved()
	}
	return a.stock.hasUnsaved() ||
		a.recipes.hasUnsaved() ||
		a.classes.hasUnsaved() ||
		a.suppliers.hasUnsaved() ||
		a.purchases.hasUnsaved()
}

func defaultPaletteActions() []paletteAction {
	return []paletteAction{
		{ID: "tab:stock", Label: "Stock", Desc: "Browse products"},
		{ID: "tab:recipes", Label: "Recipes", Desc: "Browse recipes"},
		{ID: "tab:classes", Label: "Classes", Desc: "Browse classes"},
		{ID: "tab:suppliers", Label: "Suppliers", Desc: "Browse suppliers"},
		{ID: "tab:purchases", Label: "Purchases", Desc: "Purchase history"},
		{ID: "stock:add", Label: "Add product", Desc: "Register a product"},
		{ID: "stock:import", Label: "Import products", Desc: "Upload a CSV file"},
		{ID: "purchases:add", Label: "Register purchase", Desc: "Record goods received"},
		{ID: "logout", Label: "Log out", Desc: "Forget the stored token"},
		{ID: "quit", Label: "Quit", Desc: "Exit CLI"},
	}
}

func filterPalette(items []paletteAction, query string) []paletteAction {
	if query == "" {
		return items
	}
	q := strings.ToLower(strings.TrimSpace(query))
	filtered := make([]paletteAction, 0, len(items))
	for _, item := range items {
		label := strings.ToLower(item.Label)
		desc := strings.ToLower(item.Desc)
		if strings.Contains(label, q) || strings.Contains(desc, q) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func centerBlock(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lineWidth := lipgloss.Width(line)
		if lineWidth >= width {
			continue
		}
		pad := (width - lineWidth) / 2
		lines[i] = strings.Repeat(" ", pad) + line
	}
	return strings.Join(lines, "\n")
}

func centerBlockUniform(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	maxWidth := 0
	for _, line := range lines {
		w := lipgloss.Width(line)
		if w > maxWidth {
			maxWidth = w
		}
	}
	if maxWidth <= 0 || maxWidth >= width {
		return s
	}
	pad := (width - maxWidth) / 2
	if pad <= 0 {
		return s
	}
	prefix := strings.Repeat(" ", pad)
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

// canExitToTabNav reports whether Up should move focus back to the tab bar.
func (a App) canExitToTabNav() bool {
	switch a.tab {
	case tabStock:
		return a.stock.atTop()
	case tabRecipes:
		return a.recipes.atTop()
	case tabClasses:
		return a.classes.atTop()
	case tabSuppliers:
		return a.suppliers.atTop()
	case tabPurchases:
		return a.purchases.atTop()
	}
	return false
}

func tabIndexForKey(key string) (int, bool) {
	switch key {
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(key[0] - '1')
		if idx >= 0 && idx < tabCount {
			return idx, true
		}
	}
	return 0, false
}
