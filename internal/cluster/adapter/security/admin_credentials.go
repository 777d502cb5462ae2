package security

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// AdminCredentials checks the Basic-auth credential pair for the admin
// surface. The configured password may be a bcrypt hash; a plaintext value
// is compared in constant time.
type AdminCredentials struct {
	username string
	password string
	hashed   bool
}

// NewAdminCredentials creates a credential checker from the configured pair.
func NewAdminCredentials(username, password string) *AdminCredentials {
	return &AdminCredentials{
		username: username,
		password: password,
		hashed:   strings.HasPrefix(password, "$2a$") || strings.HasPrefix(password, "$2b$") || strings.HasPrefix(password, "$2y$"),
	}
}

// Authorize reports whether the presented pair matches the configured one.
func (a *AdminCredentials) Authorize(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1

	var passOK bool
	if a.hashed {
		passOK = bcrypt.CompareHashAndPassword([]byte(a.password), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	}
	return userOK && passOK
}
