package ui

import (
	"net/http"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gastroflow/gastroflow-cli/internal/api"
)

func authHandler(t *testing.T, loginStatus, registerStatus int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case api.PathLogin:
			if loginStatus != http.StatusOK {
				w.WriteHeader(loginStatus)
				return
			}
			writeJSON(w, map[string]string{"token": "fresh"})
		case api.PathRegister:
			w.WriteHeader(registerStatus)
			if registerStatus < 300 {
				writeJSON(w, map[string]any{"id": 5, "name": "Ana", "email": "ana@gastroflow.dev"})
			}
		case "/v1/api/users/me":
			writeJSON(w, map[string]any{"id": 5, "name": "Ana", "email": "ana@gastroflow.dev"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}
}

func newTestLogin(t *testing.T, loginStatus, registerStatus int, email string) LoginModel {
	t.Helper()
	_, client := testClient(t, authHandler(t, loginStatus, registerStatus))
	m := NewLoginModel(client, email)
	m.setSize(80, 30)
	return m
}

// submitLogin submits the login form and returns the message it produces.
func submitLogin(t *testing.T, m LoginModel, keys ...tea.KeyMsg) (LoginModel, loginDoneMsg) {
	t.Helper()
	for _, k := range keys {
		m, _ = m.Update(k)
	}
	m, cmd := m.Update(keyCtrlS)
	msgs := collect(cmd)
	require.Len(t, msgs, 1)
	done, ok := msgs[0].(loginDoneMsg)
	require.True(t, ok, "unexpected message %T", msgs[0])
	m, _ = m.Update(done)
	return m, done
}

func TestLoginPrefillsEmailAndFocusesPassword(t *testing.T) {
	m := newTestLogin(t, http.StatusOK, http.StatusCreated, "ana@gastroflow.dev")
	assert.Equal(t, "ana@gastroflow.dev", m.login.Value(loginFieldEmail))
	assert.Equal(t, loginFieldPassword, m.login.Focus())
}

func TestLoginRequiresFields(t *testing.T) {
	m := newTestLogin(t, http.StatusOK, http.StatusCreated, "")
	m = pressKeys(m, loginUpdate, keyCtrlS)
	assert.Contains(t, m.View(), "Email is required.")
}

func TestLoginSucceeds(t *testing.T) {
	m := newTestLogin(t, http.StatusOK, http.StatusCreated, "ana@gastroflow.dev")

	m, done := submitLogin(t, m, typeKeys("secret1")...)
	require.NoError(t, done.err)
	require.NotNil(t, done.user)
	assert.Equal(t, "Ana", done.user.Name)
	assert.Equal(t, "ana@gastroflow.dev", done.email)
	assert.Empty(t, m.login.Raw(loginFieldPassword))
	assert.False(t, m.login.saving)
}

func TestLoginBadCredentials(t *testing.T) {
	m := newTestLogin(t, http.StatusUnauthorized, http.StatusCreated, "ana@gastroflow.dev")

	m, done := submitLogin(t, m, typeKeys("wrong")...)
	require.Error(t, done.err)
	assert.Contains(t, m.View(), "Wrong email or password.")
	assert.Empty(t, m.login.Raw(loginFieldPassword))
}

func registerKeys(name, email, password, confirm string) []tea.KeyMsg {
	keys := []tea.KeyMsg{keyUp, keyRight, keyDown}
	for _, v := range []string{name, email, password} {
		keys = append(keys, typeKeys(v)...)
		keys = append(keys, keyDown)
	}
	keys = append(keys, typeKeys(confirm)...)
	return append(keys, keyCtrlS)
}

func TestRegisterValidatesPasswords(t *testing.T) {
	m := newTestLogin(t, http.StatusOK, http.StatusCreated, "")

	m = pressKeys(m, loginUpdate, registerKeys("Ana", "ana@gastroflow.dev", "secret1", "secret2")...)
	require.Equal(t, loginViewRegister, m.view)
	assert.Contains(t, m.View(), "Passwords do not match.")

	m = NewLoginModel(m.client, "")
	m = pressKeys(m, loginUpdate, registerKeys("Ana", "ana@gastroflow.dev", "abc", "abc")...)
	assert.Contains(t, m.View(), "Password must have at least 6 characters.")
}

func TestRegisterEmailTaken(t *testing.T) {
	m := newTestLogin(t, http.StatusOK, http.StatusConflict, "")

	m = pressKeys(m, loginUpdate, registerKeys("Ana", "ana@gastroflow.dev", "secret1", "secret1")...)
	assert.Equal(t, loginViewRegister, m.view)
	assert.Contains(t, m.View(), "This email is already registered.")
	assert.False(t, m.register.saving)
}

func TestRegisterSwitchesToLogin(t *testing.T) {
	m := newTestLogin(t, http.StatusOK, http.StatusCreated, "")

	m = pressKeys(m, loginUpdate, registerKeys("Ana", "ana@gastroflow.dev", "secret1", "secret1")...)
	assert.Equal(t, loginViewLogin, m.view)
	assert.Equal(t, "ana@gastroflow.dev", m.login.Value(loginFieldEmail))
	assert.Equal(t, loginFieldPassword, m.login.Focus())
	assert.False(t, m.register.HasInput())
}
