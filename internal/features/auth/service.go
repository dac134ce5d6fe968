package auth

import (
	"context"
	"errors"
	"time"

	common_models "go-fitstaff/internal/common/models"
	"go-fitstaff/internal/config"
	"go-fitstaff/internal/features/audit"
	"go-fitstaff/internal/features/staff"
	"go-fitstaff/internal/session"
	"go-fitstaff/pkg/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactive           = errors.New("account is inactive")
)

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	Staff     *staff.Staff `json:"staff"`
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, claims *utils.SessionClaims) error
	Me(ctx context.Context, staffID string) (*staff.Staff, error)
}

type AuthServiceImpl struct {
	StaffRepo    staff.StaffRepository
	Sessions     session.Store
	AuditService audit.AuditService
	TTL          time.Duration
}

func NewAuthService(cfg *config.Config, staffRepo staff.StaffRepository, sessions session.Store, auditService audit.AuditService) AuthService {
	return &AuthServiceImpl{
		StaffRepo:    staffRepo,
		Sessions:     sessions,
		AuditService: auditService,
		TTL:          time.Duration(cfg.JWTTTLHours) * time.Hour,
	}
}

// Login checks the credentials and issues a token carrying a fresh subject snapshot
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	member, err := s.StaffRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPassword(member.Password, password) {
		return nil, ErrInvalidCredentials
	}
	if member.Status == staff.StatusInactive {
		return nil, ErrInactive
	}

	token, claims, err := utils.GenerateToken(member.Subject(), s.TTL)
	if err != nil {
		return nil, err
	}

	actorCtx := common_models.WithActor(ctx, member.ID.Hex())
	_ = s.AuditService.LogChange(actorCtx, common_models.AuditActionLogin, "auth", member.ID.Hex(), nil)

	return &LoginResult{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		Staff:     member,
	}, nil
}

// Logout revokes the token until it would have expired anyway
func (s *AuthServiceImpl) Logout(ctx context.Context, claims *utils.SessionClaims) error {
	if claims == nil {
		return nil
	}
	if err := s.Sessions.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		return err
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionLogout, "auth", claims.StaffID, nil)
	return nil
}

func (s *AuthServiceImpl) Me(ctx context.Context, staffID string) (*staff.Staff, error) {
	member, err := s.StaffRepo.FindByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, staff.ErrNotFound
		}
		return nil, err
	}
	return member, nil
}
