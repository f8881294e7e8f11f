package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"agency-ledger/internal/dto"
	"agency-ledger/internal/models"
	"agency-ledger/internal/repository"
	"agency-ledger/pkg/auth"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidInput       = errors.New("username, email and password are required")
)

type userStore interface {
	CreateTenantWithAdmin(ctx context.Context, tenant *models.Tenant, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.User, error)
}

type AuthService struct {
	userRepo   userStore
	jwtManager *auth.JWTManager
	logger     *zap.Logger
}

func NewAuthService(userRepo *repository.UserRepository, jwtManager *auth.JWTManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// Register opens a new tenant with the registering user as its admin.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if strings.TrimSpace(req.Username) == "" || email == "" || req.Password == "" {
		return nil, ErrInvalidInput
	}

	existingUser, _ := s.userRepo.GetByEmail(ctx, email)
	if existingUser != nil {
		return nil, ErrUserExists
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	tenantName := strings.TrimSpace(req.TenantName)
	if tenantName == "" {
		tenantName = req.Username
	}

	now := time.Now()
	tenant := &models.Tenant{
		ID:        uuid.New(),
		Name:      tenantName,
		CreatedAt: now,
	}
	user := &models.User{
		ID:        uuid.New(),
		TenantID:  tenant.ID,
		Username:  strings.TrimSpace(req.Username),
		Email:     email,
		Password:  hashedPassword,
		Role:      auth.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.userRepo.CreateTenantWithAdmin(ctx, tenant, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	s.logger.Info("Tenant registered",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("user_id", user.ID.String()),
	)

	return s.issueTokens(user)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !auth.CheckPasswordHash(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	return s.issueTokens(user)
}

// ListUsers returns the tenant's members, used to pick rule and row assignees.
func (s *AuthService) ListUsers(ctx context.Context, tenantID uuid.UUID) ([]dto.UserSummaryResponse, error) {
	users, err := s.userRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.UserSummaryResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.UserSummaryResponse{
			ID:       u.ID.String(),
			Username: u.Username,
			Role:     u.Role,
		})
	}
	return out, nil
}

func (s *AuthService) issueTokens(user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateToken(user.ID.String(), user.TenantID.String(), user.Username, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID.String())
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.jwtManager.GetTokenDuration().Seconds()),
		User: dto.UserResponse{
			ID:       user.ID.String(),
			TenantID: user.TenantID.String(),
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
		},
	}, nil
}
