package auth

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileOmitsSecrets(t *testing.T) {
	acct := &Account{
		ID:           "a-1",
		Username:     "alice",
		PasswordHash: "$2a$10$secret",
		Roles:        []string{"student"},
		External: &ExternalIdentity{
			Provider:       "facebook",
			ProviderUserID: "fb-1",
			Token:          "provider-token",
			DisplayName:    "Alice",
		},
	}

	raw, err := json.Marshal(acct.Profile())
	require.NoError(t, err)

	body := string(raw)
	assert.NotContains(t, body, "secret")
	assert.NotContains(t, body, "provider-token")
	assert.Contains(t, body, `"display_name":"Alice"`)
}

func TestProfileRolesNeverNull(t *testing.T) {
	raw, err := json.Marshal((&Account{ID: "a-2"}).Profile())
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a-2","roles":[]}`, string(raw))
}

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "alice", NormalizeUsername("  Alice "))
	assert.Equal(t, "", NormalizeUsername("   "))
}

func TestErrorTaxonomy(t *testing.T) {
	assert.True(t, errors.Is(ErrUsernameTaken, ErrConflict))
	assert.True(t, errors.Is(ErrIdentityTaken, ErrConflict))

	cause := errors.New("connection refused")
	err := Infra("find account", cause)
	assert.True(t, IsInfrastructure(err))
	assert.ErrorIs(t, err, cause)
	assert.Same(t, err, Infra("outer", err))
	assert.Nil(t, Infra("noop", nil))

	fed := &FederationError{Reason: "state mismatch"}
	assert.Equal(t, "federation: state mismatch", fed.Error())
}
