package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/basketwise/basketwise-backend/internal/stores"
	"github.com/basketwise/basketwise-backend/internal/users"
	pkgauth "github.com/basketwise/basketwise-backend/pkg/auth"
	"github.com/basketwise/basketwise-backend/pkg/auth/session"
	"github.com/basketwise/basketwise-backend/pkg/config"
	"github.com/basketwise/basketwise-backend/pkg/db/models"
	"github.com/basketwise/basketwise-backend/pkg/enums"
	pkgerrors "github.com/basketwise/basketwise-backend/pkg/errors"
	"github.com/basketwise/basketwise-backend/pkg/security"
)

// ServiceParams groups dependencies for the auth service.
type ServiceParams struct {
	UserRepo  *users.Repository
	StoreRepo *stores.Repository
	Sessions  *session.Manager
	JWT       config.JWTConfig
	Password  config.PasswordConfig
}

// Service exposes registration, login, and session lifecycle.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (SessionDTO, error)
	Login(ctx context.Context, input LoginInput) (SessionDTO, error)
	Refresh(ctx context.Context, input RefreshInput) (TokenPairDTO, error)
	Logout(ctx context.Context, accessID string) error
}

type service struct {
	userRepo  *users.Repository
	storeRepo *stores.Repository
	sessions  *session.Manager
	jwt       config.JWTConfig
	password  config.PasswordConfig
	now       func() time.Time
}

// NewService builds an auth service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	if params.StoreRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store repo is required")
	}
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session manager is required")
	}
	return &service{
		userRepo:  params.UserRepo,
		storeRepo: params.StoreRepo,
		sessions:  params.Sessions,
		jwt:       params.JWT,
		password:  params.Password,
		now:       time.Now,
	}, nil
}

// Register creates a shopper account and issues a first session.
func (s *service) Register(ctx context.Context, input RegisterInput) (SessionDTO, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
	}
	if exists {
		return SessionDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Role:         enums.UserRoleShopper,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return SessionDTO{}, err
	}
	return SessionDTO{User: users.ToDTO(user), Tokens: tokens}, nil
}

// Login authenticates any role and issues a session.
func (s *service) Login(ctx context.Context, input LoginInput) (SessionDTO, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SessionDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if !user.IsActive {
		return SessionDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "account disabled")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return SessionDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID, s.now().UTC()); err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stamp login")
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return SessionDTO{}, err
	}
	return SessionDTO{User: users.ToDTO(user), Tokens: tokens}, nil
}

// Refresh rotates the refresh session and mints a fresh token pair.
func (s *service) Refresh(ctx context.Context, input RefreshInput) (TokenPairDTO, error) {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwt, input.AccessToken)
	if err != nil {
		return TokenPairDTO{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return TokenPairDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, input.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return TokenPairDTO{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid refresh token")
		}
		return TokenPairDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	access, err := pkgauth.MintAccessToken(s.jwt, s.now(), pkgauth.AccessTokenPayload{
		UserID:        claims.UserID,
		ActiveStoreID: claims.ActiveStoreID,
		Role:          claims.Role,
		JTI:           newAccessID,
	})
	if err != nil {
		return TokenPairDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	return TokenPairDTO{AccessToken: access, RefreshToken: newRefresh}, nil
}

// Logout revokes the refresh session behind the presented access ID.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "access id is required")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) issueTokens(ctx context.Context, user *models.User) (TokenPairDTO, error) {
	accessID := session.NewAccessID()

	var activeStoreID *uuid.UUID
	if user.Role == enums.UserRoleMerchant {
		owned, err := s.storeRepo.FindByOwner(ctx, user.ID)
		if err != nil {
			return TokenPairDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load owned stores")
		}
		if len(owned) > 0 {
			activeStoreID = &owned[0].ID
		}
	}

	access, err := pkgauth.MintAccessToken(s.jwt, s.now(), pkgauth.AccessTokenPayload{
		UserID:        user.ID,
		ActiveStoreID: activeStoreID,
		Role:          user.Role,
		JTI:           accessID,
	})
	if err != nil {
		return TokenPairDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	refresh, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return TokenPairDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}

	return TokenPairDTO{AccessToken: access, RefreshToken: refresh}, nil
}
