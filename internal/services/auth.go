package services

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/lexalyze/legal-docs-api/internal/auth"
	"github.com/lexalyze/legal-docs-api/internal/models"
	"github.com/lexalyze/legal-docs-api/internal/repository"
	"github.com/lexalyze/legal-docs-api/internal/utils"
)

type AuthService interface {
	Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error)
	Signin(ctx context.Context, req *models.SigninRequest) (*models.AuthResponse, error)
	Me(ctx context.Context, userID string) (*models.AuthUser, error)
}

type authService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
	logger *utils.Logger
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, logger *utils.Logger) AuthService {
	return &authService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

func (s *authService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if name == "" || email == "" || req.Password == "" {
		return nil, utils.NewBadRequestError("Name, email, and password are required.")
	}
	if len(req.Password) < 6 {
		return nil, utils.NewBadRequestError("Password must be at least 6 characters.")
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Error("Failed to check existing user", "error", err, "email", email)
		return nil, utils.NewInternalError("Signup failed")
	}
	if existing != nil {
		return nil, utils.NewBadRequestError("Email is already registered.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.NewInternalError("Signup failed")
	}

	user := &models.User{
		ID:           utils.GenerateID(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", "error", err, "email", email)
		return nil, utils.NewInternalError("Signup failed")
	}

	return s.withToken(user)
}

func (s *authService) Signin(ctx context.Context, req *models.SigninRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, utils.NewBadRequestError("Email and password are required.")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Error("Failed to look up user", "error", err, "email", email)
		return nil, utils.NewInternalError("Signin failed")
	}
	if user == nil {
		return nil, utils.NewUnauthorizedError("Invalid credentials.")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, utils.NewUnauthorizedError("Invalid credentials.")
	}

	return s.withToken(user)
}

func (s *authService) Me(ctx context.Context, userID string) (*models.AuthUser, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load user", "error", err, "user_id", userID)
		return nil, utils.NewInternalError("Failed to load user")
	}
	if user == nil {
		return nil, utils.NewUnauthorizedError("Unauthorized")
	}

	return &models.AuthUser{ID: user.ID, Name: user.Name, Email: user.Email}, nil
}

func (s *authService) withToken(user *models.User) (*models.AuthResponse, error) {
	token, err := s.tokens.Sign(user)
	if err != nil {
		s.logger.Error("Failed to sign token", "error", err, "user_id", user.ID)
		return nil, utils.NewInternalError("Failed to issue token")
	}

	return &models.AuthResponse{
		Token: token,
		User:  models.AuthUser{ID: user.ID, Name: user.Name, Email: user.Email},
	}, nil
}
