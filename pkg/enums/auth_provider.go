package enums

import "fmt"

// AuthProvider identifies how a user authenticates.
type AuthProvider string

const (
	AuthProviderEmail  AuthProvider = "EMAIL"
	AuthProviderGoogle AuthProvider = "GOOGLE"
	AuthProviderApple  AuthProvider = "APPLE"
)

func (p AuthProvider) IsValid() bool {
	switch p {
	case AuthProviderEmail, AuthProviderGoogle, AuthProviderApple:
		return true
	}
	return false
}

// ParseAuthProvider validates and converts a raw provider string.
func ParseAuthProvider(value string) (AuthProvider, error) {
	provider := AuthProvider(value)
	if !provider.IsValid() {
		return "", fmt.Errorf("invalid auth provider %q", value)
	}
	return provider, nil
}
