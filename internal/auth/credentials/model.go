package credentials

import (
	"unicode/utf8"

	"auth-gateway/internal/auth"
)

const (
	// bcrypt ignores everything past 72 bytes
	maxPasswordBytes  = 72
	maxUsernameLength = 64
)

// Credentials is a submitted username/password pair.
type Credentials struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// ValidateLogin only checks presence; strength rules would leak policy.
func (c Credentials) ValidateLogin() error {
	if auth.NormalizeUsername(c.Username) == "" {
		return &auth.ValidationError{Field: "username", Message: "username is required"}
	}
	if c.Password == "" {
		return &auth.ValidationError{Field: "password", Message: "password is required"}
	}
	return nil
}

func (c Credentials) ValidateSignup() error {
	if err := c.ValidateLogin(); err != nil {
		return err
	}
	if utf8.RuneCountInString(auth.NormalizeUsername(c.Username)) > maxUsernameLength {
		return &auth.ValidationError{Field: "username", Message: "username is too long"}
	}
	if len(c.Password) > maxPasswordBytes {
		return &auth.ValidationError{Field: "password", Message: "password is too long"}
	}
	return nil
}
