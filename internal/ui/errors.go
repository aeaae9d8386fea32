package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gastroflow/gastroflow-cli/internal/api"
	"github.com/gastroflow/gastroflow-cli/internal/session"
)

const (
	msgForbidden      = "Access denied. Check your credentials."
	msgEmailTaken     = "This email is already registered."
	msgBadCredentials = "Wrong email or password."
)

// describeError turns an action failure into the line shown to the user.
func describeError(action string, err error) string {
	if err == nil {
		return ""
	}
	var verr api.ValidationError
	if errors.As(err, &verr) {
		return capitalize(verr.Message) + "."
	}
	switch {
	case api.IsUnauthorized(err):
		return session.ExpiredMessage
	case api.IsForbidden(err):
		return msgForbidden
	}
	base := fmt.Sprintf("Failed to %s.", action)
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		if detail := strings.TrimSpace(apiErr.Message); detail != "" {
			return base + " " + detail
		}
		return base
	}
	return base + " " + err.Error()
}

// describeLoginError maps login failures; a 401 there means bad credentials.
func describeLoginError(err error) string {
	if api.IsUnauthorized(err) {
		return msgBadCredentials
	}
	return describeError("log in", err)
}

// describeRegisterError maps registration failures.
func describeRegisterError(err error) string {
	if api.IsConflict(err) {
		return msgEmailTaken
	}
	return describeError("create the account", err)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
