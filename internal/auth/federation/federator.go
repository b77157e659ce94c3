package federation

import (
	"context"
	"crypto/subtle"
	"fmt"

	"auth-gateway/internal/auth"
	"auth-gateway/internal/auth/provider"
	"auth-gateway/internal/auth/resolver"
	"auth-gateway/internal/logger"
	"auth-gateway/internal/session"
	"auth-gateway/internal/utils"

	"golang.org/x/oauth2"
)

const stateBytes = 32

// CallbackParams are the query parameters of a provider callback.
type CallbackParams struct {
	Code             string
	State            string
	Error            string
	ErrorDescription string
}

// Outcome tells the caller where to send the browser. Account and
// SessionID are set only when the session was bound.
type Outcome struct {
	Account   *auth.Account
	SessionID string
	Redirect  string
}

type Options struct {
	DefaultRedirect string
	Allowlist       []string
}

// Federator runs the redirect/callback handshake. All per-attempt state
// lives in the session's handshake record.
type Federator struct {
	providers       *provider.Registry
	sessions        *session.Manager
	resolver        resolver.Resolver
	defaultRedirect string
	allowlist       map[string]struct{}
}

func New(
	providers *provider.Registry,
	sessions *session.Manager,
	resolver resolver.Resolver,
	opts Options,
) *Federator {
	allow := make(map[string]struct{}, len(opts.Allowlist))
	for _, u := range opts.Allowlist {
		allow[u] = struct{}{}
	}
	def := opts.DefaultRedirect
	if def == "" {
		def = "/"
	}
	return &Federator{
		providers:       providers,
		sessions:        sessions,
		resolver:        resolver,
		defaultRedirect: def,
		allowlist:       allow,
	}
}

func (f *Federator) DefaultRedirect() string { return f.defaultRedirect }

// Initiate starts a handshake for sessionID and returns the provider's
// authorization URL. A previous pending handshake is replaced.
func (f *Federator) Initiate(ctx context.Context, sessionID, providerName, returnTo string) (string, error) {
	p, err := f.providers.Get(providerName)
	if err != nil {
		return "", err
	}

	state, err := utils.RandomToken(stateBytes)
	if err != nil {
		return "", auth.Infra("generate state", err)
	}
	verifier := oauth2.GenerateVerifier()

	err = f.sessions.BeginHandshake(ctx, sessionID, session.Handshake{
		Provider: p.Name(),
		State:    state,
		Verifier: verifier,
		ReturnTo: f.SanitizeReturnTo(returnTo),
	})
	if err != nil {
		return "", err
	}

	return p.AuthCodeURL(state, verifier), nil
}

// Callback completes the handshake. The returned Outcome always carries a
// redirect; on error it is the default destination and the session is
// left as it was.
func (f *Federator) Callback(
	ctx context.Context,
	sessionID string,
	providerName string,
	params CallbackParams,
) (Outcome, error) {

	out := Outcome{Redirect: f.defaultRedirect}

	acct, newID, err := f.complete(ctx, sessionID, providerName, params)
	if err != nil {
		if cerr := f.sessions.ClearHandshake(ctx, sessionID); cerr != nil {
			logger.Warn("clear handshake failed", map[string]any{
				"error": cerr.Error(),
			})
		}
		return out, err
	}

	out.Account = acct
	out.SessionID = newID

	// the handshake record is keyed by the pre-login id
	dest, ok, err := f.sessions.TakeReturnDestination(ctx, sessionID)
	if err != nil {
		logger.Warn("take return destination failed", map[string]any{
			"error": err.Error(),
		})
	} else if ok && dest != "" {
		out.Redirect = dest
	}
	if err := f.sessions.ClearHandshake(ctx, sessionID); err != nil {
		logger.Warn("clear handshake failed", map[string]any{
			"error": err.Error(),
		})
	}

	return out, nil
}

func (f *Federator) complete(
	ctx context.Context,
	sessionID string,
	providerName string,
	params CallbackParams,
) (*auth.Account, string, error) {

	hs, err := f.sessions.TakeAntiForgery(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}
	if hs == nil {
		return nil, "", &auth.FederationError{Reason: "no pending handshake"}
	}
	if hs.Provider != providerName {
		return nil, "", &auth.FederationError{
			Reason: fmt.Sprintf("handshake started for %q", hs.Provider),
		}
	}
	if params.Error != "" {
		return nil, "", &auth.FederationError{
			Reason: "provider denied: " + params.Error,
		}
	}
	if params.State == "" || subtle.ConstantTimeCompare([]byte(params.State), []byte(hs.State)) != 1 {
		return nil, "", &auth.FederationError{Reason: "state mismatch"}
	}

	p, err := f.providers.Get(providerName)
	if err != nil {
		return nil, "", &auth.FederationError{Reason: "provider unavailable", Err: err}
	}

	acct, err := Federated(p, f.resolver).Authenticate(ctx, auth.Proof{
		Code:         params.Code,
		CodeVerifier: hs.Verifier,
	})
	if err != nil {
		return nil, "", err
	}

	newID, err := f.sessions.Bind(ctx, sessionID, acct)
	if err != nil {
		return nil, "", err
	}
	return acct, newID, nil
}
