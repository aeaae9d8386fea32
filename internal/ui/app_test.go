package ui

import (
	"net/http"
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gastroflow/gastroflow-cli/internal/config"
	"github.com/gastroflow/gastroflow-cli/internal/session"
)

func loggedInApp(t *testing.T) App {
	t.Helper()
	_, client := testClient(t, http.NotFound)
	app := NewApp(client, &config.Config{UserName: "Ana"})
	model, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return model.(App)
}

// press feeds keys to the app without running the commands they return.
func press(app App, keys ...tea.KeyMsg) (App, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var model tea.Model
		model, cmd = app.Update(k)
		app = model.(App)
	}
	return app, cmd
}

func TestAppWithoutSessionShowsLogin(t *testing.T) {
	app := NewApp(nil, &config.Config{Email: "ana@gastroflow.dev"})
	require.False(t, app.loggedIn)

	view := app.View()
	assert.Contains(t, view, "Log in")
	assert.NotContains(t, view, "1 Stock")

	app, _ = press(app, runeKey('2'))
	assert.Equal(t, tabStock, app.tab, "digits are typed into the login form")
}

func TestAppWithSessionShowsTabs(t *testing.T) {
	app := loggedInApp(t)
	require.True(t, app.loggedIn)

	view := app.View()
	assert.Contains(t, view, "1 Stock")
	assert.Contains(t, view, "5 Purchases")
	assert.Contains(t, view, "Signed in as Ana")
}

func TestAppDigitSwitchesTab(t *testing.T) {
	app := loggedInApp(t)

	app, cmd := press(app, runeKey('3'))
	assert.Equal(t, tabClasses, app.tab)
	assert.NotNil(t, cmd, "switching loads the tab")

	app, _ = press(app, keyRight)
	assert.Equal(t, tabSuppliers, app.tab)
}

func TestAppTypingInFormKeepsTab(t *testing.T) {
	app := loggedInApp(t)
	app.tabNav = false
	app.stock.view = stockViewAdd

	app, _ = press(app, runeKey('3'), runeKey('q'))
	assert.Equal(t, tabStock, app.tab)
	assert.False(t, app.quitConfirm)
	assert.Equal(t, "3q", app.stock.add.Value(productFieldName))
}

func TestAppHelpToggles(t *testing.T) {
	app := loggedInApp(t)

	app, _ = press(app, runeKey('?'))
	require.True(t, app.helpOpen)
	assert.Contains(t, app.View(), "Help")

	app, _ = press(app, keyEsc)
	assert.False(t, app.helpOpen)
}

func TestAppQuit(t *testing.T) {
	app := loggedInApp(t)

	_, cmd := press(app, runeKey('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestAppQuitAsksWhenUnsaved(t *testing.T) {
	app := loggedInApp(t)
	app.tabNav = false
	app.stock.view = stockViewAdd
	app, _ = press(app, typeKeys("Farinha")...)

	app, cmd := press(app, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Nil(t, cmd)
	require.True(t, app.quitConfirm)
	assert.Contains(t, app.View(), "unsaved changes")

	app, _ = press(app, runeKey('n'))
	assert.False(t, app.quitConfirm)
	assert.Equal(t, "Farinha", app.stock.add.Value(productFieldName))
}

func TestAppPaletteRunsAction(t *testing.T) {
	app := loggedInApp(t)

	app, _ = press(app, runeKey('/'))
	require.True(t, app.paletteOpen)

	app, _ = press(app, typeKeys("purch")...)
	require.Len(t, app.paletteFiltered, 2)
	assert.Equal(t, "tab:purchases", app.paletteFiltered[0].ID)

	app, _ = press(app, keyDown, keyEnter)
	assert.False(t, app.paletteOpen)
	assert.Equal(t, tabPurchases, app.tab)
	assert.Equal(t, purchasesViewAdd, app.purchases.view)
	assert.False(t, app.tabNav)
}

func TestFilterPalette(t *testing.T) {
	filtered := filterPalette(defaultPaletteActions(), "CSV")
	require.Len(t, filtered, 1)
	assert.Equal(t, "stock:import", filtered[0].ID)

	assert.Len(t, filterPalette(defaultPaletteActions(), ""), len(defaultPaletteActions()))
	assert.Empty(t, filterPalette(defaultPaletteActions(), "zzz"))
}

func TestAppLoginStoresAccount(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	app := NewApp(nil, &config.Config{})

	model, cmd := app.Update(loginDoneMsg{
		email: "ana@gastroflow.dev",
		user:  &session.User{ID: "5", Name: "Ana"},
	})
	app = model.(App)
	assert.NotNil(t, cmd)
	require.True(t, app.loggedIn)
	assert.Equal(t, tabStock, app.tab)
	require.NotNil(t, app.toast)
	assert.Equal(t, "Signed in as Ana.", app.toast.text)

	_, err := os.Stat(config.Path())
	require.NoError(t, err)
	saved, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "ana@gastroflow.dev", saved.Email)
	assert.Equal(t, "Ana", saved.UserName)
}

func TestAppExpiredNoticeSignsOut(t *testing.T) {
	app := loggedInApp(t)
	app.tab = tabSuppliers

	model, cmd := app.Update(noticeMsg{notice: session.Notice{Level: session.LevelError, Text: session.ExpiredMessage}})
	app = model.(App)
	assert.NotNil(t, cmd)
	assert.False(t, app.loggedIn)
	require.NotNil(t, app.toast)
	assert.Equal(t, session.ExpiredMessage, app.toast.text)
	assert.Contains(t, app.View(), "Log in")
}

func TestAppInfoNoticeKeepsSession(t *testing.T) {
	app := loggedInApp(t)

	model, _ := app.Update(noticeMsg{notice: session.Notice{Level: session.LevelInfo, Text: "hello"}})
	app = model.(App)
	assert.True(t, app.loggedIn)
	assert.Equal(t, "hello", app.toast.text)
}

func TestAppRegisterShowsToast(t *testing.T) {
	app := NewApp(nil, &config.Config{})

	model, _ := app.Update(registerDoneMsg{email: "ana@gastroflow.dev"})
	app = model.(App)
	require.NotNil(t, app.toast)
	assert.Equal(t, "Account created. Log in to continue.", app.toast.text)
	assert.Equal(t, "ana@gastroflow.dev", app.login.login.Value(loginFieldEmail))
}

func TestAppToastsOnSave(t *testing.T) {
	app := loggedInApp(t)

	model, _ := app.Update(supplierDeletedMsg{id: 1})
	app = model.(App)
	require.NotNil(t, app.toast)
	assert.Equal(t, "Supplier deleted.", app.toast.text)

	model, _ = app.Update(clearToastMsg{})
	assert.Nil(t, model.(App).toast)
}
