package auth

// Identity represents a normalized external authentication identity
// returned by an OAuth provider. It contains facts only, no decisions.
type Identity struct {
	Provider       string // e.g. "google", "facebook"
	ProviderUserID string // provider-scoped unique user identifier (sub, id)
	DisplayName    string // name as reported by the provider
	Email          string // optional, only when the provider asserts one
	Token          string // provider access token
}
