package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is the signed-in account as described by the token claims.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      string
	ExpiresAt time.Time
}

// Expired reports whether the token expiry is known and before now.
func (u *User) Expired(now time.Time) bool {
	if u == nil || u.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(u.ExpiresAt)
}

// DisplayName prefers the name claim, then the email.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	return u.Email
}

// ParseToken reads the claims of a JWT without verifying its signature.
// The backend is the authority; the client only uses claims for display
// and early expiry warnings.
func ParseToken(token string) (*User, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	user := &User{
		ID:    claimString(claims, "id"),
		Name:  claimString(claims, "name"),
		Email: claimString(claims, "email"),
		Role:  claimString(claims, "role"),
	}
	sub, _ := claims.GetSubject()
	if user.Email == "" && strings.Contains(sub, "@") {
		user.Email = sub
	}
	if user.ID == "" {
		user.ID = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		user.ExpiresAt = exp.Time
	}
	return user, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	switch v := claims[key].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	}
	return ""
}
