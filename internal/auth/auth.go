// Package auth implements login, logout and the current-user lookup.
package auth

import (
	"context"
	stdErrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/loosihong/RAiD-Backend/pkg/auth"
	"github.com/loosihong/RAiD-Backend/pkg/config"
	"github.com/loosihong/RAiD-Backend/pkg/db/models"
	pkgerrors "github.com/loosihong/RAiD-Backend/pkg/errors"
	"github.com/loosihong/RAiD-Backend/pkg/logger"
)

// LoginInput carries the login request body.
type LoginInput struct {
	LoginName string `json:"loginName" validate:"required,max=100"`
}

// LoginResult bundles the minted token with the authenticated user.
type LoginResult struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

// UserView is the profile read model.
type UserView struct {
	ID        uuid.UUID `json:"id"`
	LoginName string    `json:"loginName"`
	UserName  string    `json:"userName"`
}

// Repository is the persistence surface for accounts.
type Repository interface {
	FindByLoginName(ctx context.Context, loginName string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a user repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByLoginName(ctx context.Context, loginName string) (*models.User, error) {
	var row models.User
	err := r.db.WithContext(ctx).
		Where("login_name = ? AND is_deleted = ?", loginName, false).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var row models.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

type sessionManager interface {
	Create(ctx context.Context, userID uuid.UUID) (string, error)
	Revoke(ctx context.Context, sessionID string) error
}

// Service authenticates callers and manages their sessions.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	Me(ctx context.Context, userID uuid.UUID) (*UserView, error)
}

type service struct {
	repo     Repository
	sessions sessionManager
	cfg      config.SessionConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService wires the auth service.
func NewService(repo Repository, sessions sessionManager, cfg config.SessionConfig, logg *logger.Logger) Service {
	return &service{repo: repo, sessions: sessions, cfg: cfg, logg: logg, now: time.Now}
}

func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	loginName := strings.TrimSpace(input.LoginName)
	if loginName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "login name is required")
	}

	user, err := s.repo.FindByLoginName(ctx, loginName)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown login name")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}

	sessionID, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating session")
	}

	token, err := pkgauth.MintSessionToken(s.cfg, s.now(), pkgauth.SessionTokenPayload{
		UserID:    user.ID,
		SessionID: sessionID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting session token")
	}

	s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "user logged in")
	return &LoginResult{
		Token: token,
		User:  UserView{ID: user.ID, LoginName: user.LoginName, UserName: user.UserName},
	}, nil
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoking session")
	}
	return nil
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*UserView, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}
	return &UserView{ID: user.ID, LoginName: user.LoginName, UserName: user.UserName}, nil
}
