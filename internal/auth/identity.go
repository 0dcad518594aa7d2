package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/chatterboxhq/chatterbox-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is the profile extracted from a provider-issued identity token.
type Identity struct {
	Subject     string
	Email       string
	DisplayName string
	AvatarURL   *string
}

// IdentityVerifier resolves a provider token into a stable identity. The
// production deployment is expected to swap in verifiers that check the
// provider's signing keys; the default implementation only decodes the token.
type IdentityVerifier interface {
	Verify(ctx context.Context, provider enums.AuthProvider, idToken string) (*Identity, error)
}

// TokenClaimsVerifier extracts identity claims from the token payload without
// verifying the provider signature.
type TokenClaimsVerifier struct{}

// NewTokenClaimsVerifier constructs the default claims-only verifier.
func NewTokenClaimsVerifier() *TokenClaimsVerifier {
	return &TokenClaimsVerifier{}
}

func (v *TokenClaimsVerifier) Verify(_ context.Context, provider enums.AuthProvider, idToken string) (*Identity, error) {
	if provider != enums.AuthProviderGoogle && provider != enums.AuthProviderApple {
		return nil, fmt.Errorf("unsupported identity provider %q", provider)
	}
	if strings.TrimSpace(idToken) == "" {
		return nil, fmt.Errorf("identity token is required")
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return nil, fmt.Errorf("decoding identity token: %w", err)
	}

	subject, _ := claims["sub"].(string)
	if subject == "" {
		return nil, fmt.Errorf("identity token missing subject")
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("identity token missing email")
	}

	identity := &Identity{
		Subject:     subject,
		Email:       strings.ToLower(strings.TrimSpace(email)),
		DisplayName: email,
	}
	if name, ok := claims["name"].(string); ok && name != "" {
		identity.DisplayName = name
	}
	if picture, ok := claims["picture"].(string); ok && picture != "" {
		identity.AvatarURL = &picture
	}
	return identity, nil
}
