package usecase

import (
	"crypto/subtle"

	"member-directory/pkg/utils"
)

// CredentialProvider checks the administrator credential.
type CredentialProvider interface {
	Verify(username, password string) bool
}

// ConfigCredentialProvider holds a username and bcrypt hash loaded from
// configuration.
type ConfigCredentialProvider struct {
	username     string
	passwordHash string
}

func NewConfigCredentialProvider(config utils.AdminConfig) *ConfigCredentialProvider {
	return &ConfigCredentialProvider{
		username:     config.Username,
		passwordHash: config.PasswordHash,
	}
}

// Configured reports whether both the username and hash are set. An
// unconfigured provider rejects every login.
func (p *ConfigCredentialProvider) Configured() bool {
	return p.username != "" && p.passwordHash != ""
}

// Verify runs the bcrypt comparison even when the username is wrong so
// both failures take the same time.
func (p *ConfigCredentialProvider) Verify(username, password string) bool {
	if !p.Configured() {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(p.username)) == 1
	passOK := utils.CheckPasswordHash(password, p.passwordHash)
	return userOK && passOK
}
