package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/gastroflow/gastroflow-cli/internal/session"
)

// Endpoints reachable without a bearer token.
const (
	PathRegister   = "/v1/api/auth/register"
	PathLogin      = "/v1/api/auth/login"
	PathAdminUsers = "/v1/api/users/admin"
)

// RequestIDHeader carries a per-request UUID for backend log correlation.
const RequestIDHeader = "X-Request-ID"

var publicPaths = map[string]bool{
	PathRegister:   true,
	PathLogin:      true,
	PathAdminUsers: true,
}

// IsPublicPath reports whether path is on the unauthenticated allow-list.
// Matching is exact on the URL path; query strings are ignored.
func IsPublicPath(path string) bool {
	return publicPaths[path]
}

// authTransport attaches the session token to outgoing requests and expires
// the session when the backend rejects it.
type authTransport struct {
	base    http.RoundTripper
	session *session.Session
}

func newAuthTransport(base http.RoundTripper, sess *session.Session) *authTransport {
	return &authTransport{base: base, session: sess}
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request.
	out := req.Clone(req.Context())
	if out.Header.Get(RequestIDHeader) == "" {
		out.Header.Set(RequestIDHeader, uuid.NewString())
	}

	var sent string
	public := IsPublicPath(out.URL.Path)
	if public {
		out.Header.Del("Authorization")
	} else if sent = t.session.Token(); sent != "" {
		out.Header.Set("Authorization", "Bearer "+sent)
	}

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(out)
	if err != nil {
		return nil, err
	}

	// A 401 on a public path is a rejected login, not a dead session. A 401
	// for a token already replaced by a new login leaves that login alone.
	if resp.StatusCode == http.StatusUnauthorized && !public && sent != "" {
		if t.session.Expire(sent) {
			t.session.Logger().Warn("session invalidated by backend",
				"path", out.URL.Path,
				"request_id", out.Header.Get(RequestIDHeader),
			)
		}
	}
	return resp, nil
}
