package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chatterboxhq/chatterbox-backend/internal/users"
	pkgAuth "github.com/chatterboxhq/chatterbox-backend/pkg/auth"
	"github.com/chatterboxhq/chatterbox-backend/pkg/auth/session"
	"github.com/chatterboxhq/chatterbox-backend/pkg/config"
	"github.com/chatterboxhq/chatterbox-backend/pkg/db"
	"github.com/chatterboxhq/chatterbox-backend/pkg/db/models"
	"github.com/chatterboxhq/chatterbox-backend/pkg/enums"
	pkgerrors "github.com/chatterboxhq/chatterbox-backend/pkg/errors"
	"github.com/chatterboxhq/chatterbox-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	OAuthLogin(ctx context.Context, provider enums.AuthProvider, req OAuthLoginRequest) (*AuthResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (*AuthResponse, error)
	Logout(ctx context.Context, accessID string) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	users       usersRepo
	session     sessionManager
	verifier    IdentityVerifier
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
}

// usersRepo is the persistence surface the auth flows need.
type usersRepo interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByProviderIdentity(ctx context.Context, provider enums.AuthProvider, providerID string) (*models.User, error)
	UpdateProviderIdentity(ctx context.Context, id uuid.UUID, provider enums.AuthProvider, providerID string) (*models.User, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       usersRepo
	SessionManager sessionManager
	Verifier       IdentityVerifier
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.Verifier == nil {
		return nil, fmt.Errorf("identity verifier is required")
	}
	return &service{
		users:       params.UserRepo,
		session:     params.SessionManager,
		verifier:    params.Verifier,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check user email")
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Email:        email,
		DisplayName:  req.DisplayName,
		AvatarURL:    req.AvatarURL,
		AuthProvider: enums.AuthProviderEmail,
		PasswordHash: &hash,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "idx_users_email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	return s.issueTokens(ctx, user)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	// third-party accounts have no password to check
	if user.AuthProvider != enums.AuthProviderEmail || user.PasswordHash == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	valid, err := security.VerifyPassword(req.Password, *user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	return s.issueTokens(ctx, user)
}

func (s *service) OAuthLogin(ctx context.Context, provider enums.AuthProvider, req OAuthLoginRequest) (*AuthResponse, error) {
	if provider != enums.AuthProviderGoogle && provider != enums.AuthProviderApple {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported auth provider")
	}

	identity, err := s.verifier.Verify(ctx, provider, req.IDToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, invalidCredentialsMessage)
	}

	user, err := s.users.FindByProviderIdentity(ctx, provider, identity.Subject)
	if err == nil {
		return s.issueTokens(ctx, user)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup provider identity")
	}

	// A known email with a different provider gets relinked to this identity
	// and signed in, so users who started with password auth can switch.
	existing, err := s.users.FindByEmail(ctx, identity.Email)
	if err == nil {
		relinked, err := s.users.UpdateProviderIdentity(ctx, existing.ID, provider, identity.Subject)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "relink provider identity")
		}
		return s.issueTokens(ctx, relinked)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check user email")
	}

	subject := identity.Subject
	user, err = s.users.Create(ctx, users.CreateUserDTO{
		Email:          identity.Email,
		DisplayName:    identity.DisplayName,
		AvatarURL:      identity.AvatarURL,
		AuthProvider:   provider,
		AuthProviderID: &subject,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "idx_users_provider_identity") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "account already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	return s.issueTokens(ctx, user)
}

func (s *service) Refresh(ctx context.Context, req RefreshRequest) (*AuthResponse, error) {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, req.AccessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	newAccessID, newRefresh, err := s.session.Rotate(ctx, claims.ID, req.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: claims.UserID,
		Role:   claims.Role,
		JTI:    newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
	}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	if err := s.session.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) issueTokens(ctx context.Context, user *models.User) (*AuthResponse, error) {
	accessID := session.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh token")
	}

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         users.FromModel(user),
	}, nil
}
