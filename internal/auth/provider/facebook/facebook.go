package facebook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"auth-gateway/internal/auth"
	"auth-gateway/internal/logger"

	"golang.org/x/oauth2"
	fbendpoint "golang.org/x/oauth2/facebook"
)

const (
	providerName = "facebook"
	graphMeURL   = "https://graph.facebook.com/v19.0/me?fields=id,name"
)

// Provider authenticates against Facebook Login. Facebook does not speak
// OIDC for web logins, so the identity comes from the Graph /me profile
// fetched with the access token.
type Provider struct {
	oauthConfig *oauth2.Config
	profileURL  string
}

func New(clientID, clientSecret, redirectURL string) (*Provider, error) {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("facebook oauth config missing required fields")
	}

	return &Provider{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     fbendpoint.Endpoint,
			Scopes:       []string{"public_profile"},
		},
		profileURL: graphMeURL,
	}, nil
}

func (p *Provider) Name() string {
	return providerName
}

func (p *Provider) AuthCodeURL(state string, verifier string) string {
	return p.oauthConfig.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

func (p *Provider) ExchangeCode(
	ctx context.Context,
	code string,
	verifier string,
) (*auth.Identity, error) {

	token, err := p.oauthConfig.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("facebook token exchange failed: %w", err)
	}

	profile, err := p.fetchProfile(ctx, token)
	if err != nil {
		return nil, err
	}

	logger.Info("facebook profile fetched", map[string]any{
		"name_present": profile.Name != "",
	})

	return &auth.Identity{
		Provider:       providerName,
		ProviderUserID: profile.ID,
		DisplayName:    profile.Name,
		Token:          token.AccessToken,
	}, nil
}

type graphProfile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (p *Provider) fetchProfile(ctx context.Context, token *oauth2.Token) (*graphProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.profileURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.oauthConfig.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("facebook profile request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("facebook profile request: status %d: %s", resp.StatusCode, body)
	}

	var profile graphProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("facebook profile decode failed: %w", err)
	}
	if profile.ID == "" {
		return nil, errors.New("facebook profile missing id")
	}
	return &profile, nil
}
