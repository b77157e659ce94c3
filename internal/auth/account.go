package auth

import (
	"strings"
	"time"
)

// Account is a persisted user identity, local and/or linked to an
// external provider.
type Account struct {
	ID           string
	Username     string // case-folded; empty for federation-only accounts
	PasswordHash string // empty for federation-only accounts
	Roles        []string
	External     *ExternalIdentity
	CreatedAt    time.Time
}

// ExternalIdentity is the provider identity linked to an account.
type ExternalIdentity struct {
	Provider       string
	ProviderUserID string
	Token          string
	DisplayName    string
}

// HasPassword reports whether the account can log in locally.
func (a *Account) HasPassword() bool {
	return a != nil && a.PasswordHash != ""
}

// PublicProfile is the only account representation sent to clients.
type PublicProfile struct {
	ID       string           `json:"id"`
	Username string           `json:"username,omitempty"`
	Roles    []string         `json:"roles"`
	Provider *ProviderProfile `json:"provider,omitempty"`
}

type ProviderProfile struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
}

// Profile strips credentials and provider tokens.
func (a *Account) Profile() PublicProfile {
	roles := a.Roles
	if roles == nil {
		roles = []string{}
	}
	p := PublicProfile{
		ID:       a.ID,
		Username: a.Username,
		Roles:    append([]string(nil), roles...),
	}
	if a.External != nil {
		p.Provider = &ProviderProfile{
			Name:        a.External.Provider,
			DisplayName: a.External.DisplayName,
		}
	}
	return p
}

// NormalizeUsername case-folds and trims a username for lookup and storage.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// ValidRole reports whether role can be stored. Roles are persisted as a
// comma-separated list, so a role may not contain a comma.
func ValidRole(role string) bool {
	return strings.TrimSpace(role) != "" && !strings.Contains(role, ",")
}
