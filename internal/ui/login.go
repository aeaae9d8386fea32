package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gastroflow/gastroflow-cli/internal/api"
	"github.com/gastroflow/gastroflow-cli/internal/session"
	"github.com/gastroflow/gastroflow-cli/internal/ui/components"
)

// --- Messages ---

type loginDoneMsg struct {
	email string
	user  *session.User
	err   error
}

type registerDoneMsg struct {
	email string
	err   error
}

type loginView int

const (
	loginViewLogin loginView = iota
	loginViewRegister
)

var loginModes = []string{"Log in", "Register"}

const (
	loginFieldEmail = iota
	loginFieldPassword
)

const (
	registerFieldName = iota
	registerFieldEmail
	registerFieldPassword
	registerFieldConfirm
)

// --- Login Model ---

// LoginModel is the screen shown while no session is held.
type LoginModel struct {
	client    *api.Client
	view      loginView
	modeFocus bool

	login    *Form
	register *Form

	width int
}

func newLoginForm() *Form {
	return newForm("Log in", textField("Email"), secretField("Password"))
}

func newRegisterForm() *Form {
	return newForm("Create account",
		textField("Name"),
		textField("Email"),
		secretField("Password"),
		secretField("Confirm password"),
	)
}

// NewLoginModel builds the login screen with email prefilled.
func NewLoginModel(client *api.Client, email string) LoginModel {
	m := LoginModel{
		client:   client,
		login:    newLoginForm(),
		register: newRegisterForm(),
	}
	m.login.Set(loginFieldEmail, email)
	if email != "" {
		m.login.focus = loginFieldPassword
	}
	return m
}

func (m *LoginModel) setSize(width, _ int) {
	m.width = width
}

func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		m.login.saving = false
		if msg.err != nil {
			m.login.err = describeLoginError(msg.err)
			m.login.Set(loginFieldPassword, "")
			return m, nil
		}
		m.login.err = ""
		m.login.Set(loginFieldPassword, "")
		return m, nil
	case registerDoneMsg:
		m.register.saving = false
		if msg.err != nil {
			m.register.err = describeRegisterError(msg.err)
			return m, nil
		}
		m.register.Reset()
		m.view = loginViewLogin
		m.login.Set(loginFieldEmail, msg.email)
		m.login.Set(loginFieldPassword, "")
		m.login.err = ""
		m.login.focus = loginFieldPassword
		return m, nil
	case tea.KeyMsg:
		if m.modeFocus {
			return m.handleModeKeys(msg)
		}
		if m.view == loginViewRegister {
			return m.handleRegisterKeys(msg)
		}
		return m.handleLoginKeys(msg)
	}
	return m, nil
}

func (m LoginModel) handleModeKeys(msg tea.KeyMsg) (LoginModel, tea.Cmd) {
	switch {
	case isDown(msg), isEnter(msg), isBack(msg):
		m.modeFocus = false
	case isKey(msg, "left"), isKey(msg, "right"), isSpace(msg):
		if m.view == loginViewLogin {
			m.view = loginViewRegister
		} else {
			m.view = loginViewLogin
		}
	}
	return m, nil
}

func (m LoginModel) handleLoginKeys(msg tea.KeyMsg) (LoginModel, tea.Cmd) {
	if m.login.saving {
		return m, nil
	}
	switch m.login.Update(msg) {
	case formLeaveTop:
		m.modeFocus = true
	case formCancel:
		m.login.err = ""
	case formSubmit:
		input := api.LoginInput{
			Email:    m.login.Value(loginFieldEmail),
			Password: m.login.Raw(loginFieldPassword),
		}
		if err := input.Validate(); err != nil {
			m.login.err = describeLoginError(err)
			return m, nil
		}
		m.login.err = ""
		m.login.saving = true
		client := m.client
		return m, func() tea.Msg {
			user, err := client.SignIn(input)
			return loginDoneMsg{email: input.Email, user: user, err: err}
		}
	}
	return m, nil
}

func (m LoginModel) handleRegisterKeys(msg tea.KeyMsg) (LoginModel, tea.Cmd) {
	if m.register.saving {
		return m, nil
	}
	switch m.register.Update(msg) {
	case formLeaveTop:
		m.modeFocus = true
	case formCancel:
		m.register.err = ""
	case formSubmit:
		input := api.RegisterInput{
			Name:     m.register.Value(registerFieldName),
			Email:    m.register.Value(registerFieldEmail),
			Password: m.register.Raw(registerFieldPassword),
			Confirm:  m.register.Raw(registerFieldConfirm),
		}
		if err := input.Validate(); err != nil {
			m.register.err = describeRegisterError(err)
			return m, nil
		}
		m.register.err = ""
		m.register.saving = true
		client := m.client
		return m, func() tea.Msg {
			_, err := client.Register(input)
			return registerDoneMsg{email: input.Email, err: err}
		}
	}
	return m, nil
}

func (m LoginModel) View() string {
	form := m.login
	if m.view == loginViewRegister {
		form = m.register
	}
	mode := renderModeLine(loginModes, int(m.view), m.modeFocus)
	body := components.CenterLine(mode, m.width) + "\n\n" + form.View(m.width)
	return components.Indent(body, 1)
}

func (m LoginModel) capturesText() bool {
	return !m.modeFocus
}

func (m LoginModel) hasUnsaved() bool {
	return m.view == loginViewRegister && m.register.HasInput()
}

func (m LoginModel) hints() []string {
	if m.modeFocus {
		return []string{components.Hint("←/→", "Log in/Register"), components.Hint("↓", "Enter")}
	}
	form := m.login
	if m.view == loginViewRegister {
		form = m.register
	}
	return append(formHints(form), components.Hint("ctrl+c", "Quit"))
}
