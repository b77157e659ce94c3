package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"auth-gateway/internal/auth"
	"auth-gateway/internal/db"

	"github.com/google/uuid"
)

// SQLStore implements auth.AccountStore on Postgres or SQLite.
type SQLStore struct {
	db *db.DB
}

func NewSQLStore(db *db.DB) *SQLStore {
	return &SQLStore{db: db}
}

const selectAccount = `
	SELECT a.id, a.username, a.password_hash, a.roles, a.created_at,
	       i.provider, i.provider_user_id, i.token, i.display_name
	FROM accounts a
	LEFT JOIN identities i ON i.account_id = a.id
`

func (s *SQLStore) FindByID(ctx context.Context, id string) (*auth.Account, error) {
	return s.findOne(ctx, selectAccount+` WHERE a.id = ?`, id)
}

func (s *SQLStore) FindByUsername(ctx context.Context, username string) (*auth.Account, error) {
	username = auth.NormalizeUsername(username)
	if username == "" {
		return nil, auth.ErrAccountNotFound
	}
	return s.findOne(ctx, selectAccount+` WHERE a.username = ?`, username)
}

func (s *SQLStore) FindByIdentity(
	ctx context.Context,
	provider string,
	providerUserID string,
) (*auth.Account, error) {
	return s.findOne(ctx,
		selectAccount+` WHERE i.provider = ? AND i.provider_user_id = ?`,
		provider,
		providerUserID,
	)
}

// Create inserts the account and its identity in one transaction. The
// unique constraints decide concurrent races; the loser gets
// auth.ErrUsernameTaken or auth.ErrIdentityTaken.
func (s *SQLStore) Create(ctx context.Context, account *auth.Account) error {
	if account == nil {
		return errors.New("accounts: nil account")
	}
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	account.Username = auth.NormalizeUsername(account.Username)
	for _, role := range account.Roles {
		if !auth.ValidRole(role) {
			return fmt.Errorf("accounts: invalid role %q", role)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("accounts: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO accounts (id, username, password_hash, roles, created_at)
		VALUES (?, ?, ?, ?, ?)
	`),
		account.ID,
		nullable(account.Username),
		account.PasswordHash,
		strings.Join(account.Roles, ","),
		account.CreatedAt,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return auth.ErrUsernameTaken
		}
		return fmt.Errorf("accounts: insert account: %w", err)
	}

	if ext := account.External; ext != nil {
		_, err = tx.ExecContext(ctx, s.db.Rebind(`
			INSERT INTO identities (account_id, provider, provider_user_id, token, display_name)
			VALUES (?, ?, ?, ?, ?)
		`),
			account.ID,
			ext.Provider,
			ext.ProviderUserID,
			ext.Token,
			ext.DisplayName,
		)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return auth.ErrIdentityTaken
			}
			return fmt.Errorf("accounts: insert identity: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		if db.IsUniqueViolation(err) {
			return auth.ErrUsernameTaken
		}
		return fmt.Errorf("accounts: commit: %w", err)
	}
	return nil
}

func (s *SQLStore) List(ctx context.Context) ([]auth.Account, error) {
	rows, err := s.db.QueryContext(ctx, selectAccount+` ORDER BY a.created_at, a.id`)
	if err != nil {
		return nil, fmt.Errorf("accounts: list: %w", err)
	}
	defer rows.Close()

	var out []auth.Account
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *acct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("accounts: list: %w", err)
	}
	return out, nil
}

func (s *SQLStore) findOne(ctx context.Context, query string, args ...any) (*auth.Account, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind(query), args...)
	acct, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return acct, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*auth.Account, error) {
	var (
		acct           auth.Account
		username       sql.NullString
		roles          string
		provider       sql.NullString
		providerUserID sql.NullString
		token          sql.NullString
		displayName    sql.NullString
	)
	err := row.Scan(
		&acct.ID,
		&username,
		&acct.PasswordHash,
		&roles,
		&acct.CreatedAt,
		&provider,
		&providerUserID,
		&token,
		&displayName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("accounts: scan: %w", err)
	}

	acct.Username = username.String
	acct.Roles = splitRoles(roles)
	if provider.Valid {
		acct.External = &auth.ExternalIdentity{
			Provider:       provider.String,
			ProviderUserID: providerUserID.String,
			Token:          token.String,
			DisplayName:    displayName.String,
		}
	}
	return &acct, nil
}

// splitRoles reverses the comma join done by Create.
func splitRoles(raw string) []string {
	if raw == "" {
		return []string{}
	}
	return strings.Split(raw, ",")
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ auth.AccountStore = (*SQLStore)(nil)
