package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auth-gateway/internal/auth"
	"auth-gateway/internal/logger"
)

const (
	fieldReturnTo = "return_to"
	fieldState    = "state"
	fieldVerifier = "verifier"
	fieldProvider = "provider"
)

// Handshake is the transient state of one in-flight federation attempt.
type Handshake struct {
	Provider string
	State    string // anti-forgery token echoed by the provider
	Verifier string // PKCE code verifier
	ReturnTo string
}

// Manager binds sessions to accounts and owns the handshake record. It
// keeps no state of its own; everything lives in the Store.
type Manager struct {
	store        Store
	accounts     auth.AccountStore
	ttl          time.Duration
	handshakeTTL time.Duration
}

func NewManager(
	store Store,
	accounts auth.AccountStore,
	ttl time.Duration,
	handshakeTTL time.Duration,
) *Manager {
	return &Manager{
		store:        store,
		accounts:     accounts,
		ttl:          ttl,
		handshakeTTL: handshakeTTL,
	}
}

// TTL is the lifetime of a bound session.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Bind associates a fresh session id with account and drops the binding
// held by sessionID, if any, in the same store operation. The caller must
// hand the returned id to the client.
func (m *Manager) Bind(ctx context.Context, sessionID string, account *auth.Account) (string, error) {
	if account == nil || account.ID == "" {
		return "", errors.New("session: bind requires an account")
	}

	newID, err := GenerateID()
	if err != nil {
		return "", auth.Infra("generate session id", err)
	}

	now := time.Now()
	err = m.store.Bind(ctx, Session{
		SessionID: newID,
		AccountID: account.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}, sessionID)
	if err != nil {
		return "", auth.Infra("bind session", err)
	}
	return newID, nil
}

// CurrentAccount resolves the account bound to sessionID. Missing ids,
// missing or expired bindings, dangling account references and store
// failures all read as anonymous (nil). It never writes.
func (m *Manager) CurrentAccount(ctx context.Context, sessionID string) *auth.Account {
	if sessionID == "" {
		return nil
	}

	sess, err := m.store.Get(ctx, sessionID)
	if err != nil {
		logger.Warn("session lookup failed", map[string]any{
			"error": err.Error(),
		})
		return nil
	}
	if sess == nil {
		return nil
	}
	if !sess.ExpiresAt.IsZero() && time.Now().After(sess.ExpiresAt) {
		return nil
	}

	acct, err := m.accounts.FindByID(ctx, sess.AccountID)
	if err != nil {
		if !errors.Is(err, auth.ErrAccountNotFound) {
			logger.Warn("session account lookup failed", map[string]any{
				"error": err.Error(),
			})
		}
		return nil
	}
	return acct
}

// Unbind clears the binding. Unbinding an anonymous session succeeds.
func (m *Manager) Unbind(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := m.store.Unbind(ctx, sessionID); err != nil {
		return auth.Infra("unbind session", err)
	}
	return nil
}

func (m *Manager) SetReturnDestination(ctx context.Context, sessionID string, url string) error {
	if sessionID == "" {
		return errors.New("session: missing session id")
	}
	err := m.store.SetHandshakeFields(ctx, sessionID, map[string]string{
		fieldReturnTo: url,
	}, m.handshakeTTL)
	return auth.Infra("set return destination", err)
}

// TakeReturnDestination consumes the stored destination; a second call
// finds nothing.
func (m *Manager) TakeReturnDestination(ctx context.Context, sessionID string) (string, bool, error) {
	if sessionID == "" {
		return "", false, nil
	}
	fields, err := m.store.TakeHandshakeFields(ctx, sessionID, fieldReturnTo)
	if err != nil {
		return "", false, auth.Infra("take return destination", err)
	}
	url, ok := fields[fieldReturnTo]
	return url, ok, nil
}

// BeginHandshake replaces any previous handshake for the session.
func (m *Manager) BeginHandshake(ctx context.Context, sessionID string, h Handshake) error {
	if sessionID == "" {
		return errors.New("session: missing session id")
	}
	if h.State == "" {
		return errors.New("session: handshake requires a state token")
	}
	err := m.store.ResetHandshake(ctx, sessionID, map[string]string{
		fieldProvider: h.Provider,
		fieldState:    h.State,
		fieldVerifier: h.Verifier,
		fieldReturnTo: h.ReturnTo,
	}, m.handshakeTTL)
	return auth.Infra("begin handshake", err)
}

// TakeAntiForgery consumes the state token, PKCE verifier and provider.
// The return destination stays until TakeReturnDestination or
// ClearHandshake. It returns nil when no handshake is pending.
func (m *Manager) TakeAntiForgery(ctx context.Context, sessionID string) (*Handshake, error) {
	if sessionID == "" {
		return nil, nil
	}
	fields, err := m.store.TakeHandshakeFields(ctx, sessionID, fieldState, fieldVerifier, fieldProvider)
	if err != nil {
		return nil, auth.Infra("take handshake", err)
	}
	if fields[fieldState] == "" {
		return nil, nil
	}
	return &Handshake{
		Provider: fields[fieldProvider],
		State:    fields[fieldState],
		Verifier: fields[fieldVerifier],
	}, nil
}

func (m *Manager) ClearHandshake(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := m.store.ClearHandshake(ctx, sessionID); err != nil {
		return fmt.Errorf("session: clear handshake: %w", err)
	}
	return nil
}
