package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gastroflow/gastroflow-cli/internal/api"
	"github.com/gastroflow/gastroflow-cli/internal/session"
)

const testToken = "gf_testtoken"

func testClient(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *api.Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	sess := session.New(session.NewMemoryStore(testToken), session.NewNotices(4), nil)
	_ = sess.Restore()
	return srv, api.NewClient(srv.URL, sess)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func typeKeys(text string) []tea.KeyMsg {
	keys := make([]tea.KeyMsg, 0, len(text))
	for _, r := range text {
		if r == ' ' {
			keys = append(keys, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		keys = append(keys, runeKey(r))
	}
	return keys
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyCtrlS = tea.KeyMsg{Type: tea.KeyCtrlS}
	keyBack  = tea.KeyMsg{Type: tea.KeyBackspace}
)

// collect runs cmd and flattens batches into the messages they produce.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// updater is satisfied by every tab model through a method value.
type updater[M any] func(M, tea.Msg) (M, tea.Cmd)

// settle feeds msgs into m, then the messages their commands produce,
// until nothing is left.
func settle[M any](m M, update updater[M], msgs ...tea.Msg) M {
	queue := append([]tea.Msg(nil), msgs...)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		var cmd tea.Cmd
		m, cmd = update(m, msg)
		queue = append(queue, collect(cmd)...)
	}
	return m
}

func stockUpdate(m StockModel, msg tea.Msg) (StockModel, tea.Cmd)             { return m.Update(msg) }
func suppliersUpdate(m SuppliersModel, msg tea.Msg) (SuppliersModel, tea.Cmd) { return m.Update(msg) }
func recipesUpdate(m RecipesModel, msg tea.Msg) (RecipesModel, tea.Cmd)       { return m.Update(msg) }
func classesUpdate(m ClassesModel, msg tea.Msg) (ClassesModel, tea.Cmd)       { return m.Update(msg) }
func purchasesUpdate(m PurchasesModel, msg tea.Msg) (PurchasesModel, tea.Cmd) { return m.Update(msg) }
func loginUpdate(m LoginModel, msg tea.Msg) (LoginModel, tea.Cmd)             { return m.Update(msg) }

func pressKeys[M any](m M, update updater[M], keys ...tea.KeyMsg) M {
	msgs := make([]tea.Msg, len(keys))
	for i, k := range keys {
		msgs[i] = k
	}
	return settle(m, update, msgs...)
}
