package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/baharkarakas/kuota-backend/internal/auth"
	"github.com/baharkarakas/kuota-backend/internal/models"
	repo "github.com/baharkarakas/kuota-backend/internal/repository"
)

const minPasswordLen = 6

type UserService struct {
	users     repo.Users
	customers repo.Customers
	tm        *auth.TokenManager
	revoker   auth.Revoker
	log       *slog.Logger
}

func NewUserService(users repo.Users, customers repo.Customers, tm *auth.TokenManager, revoker auth.Revoker, log *slog.Logger) *UserService {
	return &UserService{users: users, customers: customers, tm: tm, revoker: revoker, log: log}
}

type CreateUserInput struct {
	Username   string
	Password   string
	Role       models.Role
	Name       string
	CustomerID *models.CustomerID
}

func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (models.User, error) {
	u := models.User{
		Username:   strings.TrimSpace(in.Username),
		Role:       in.Role,
		Name:       strings.TrimSpace(in.Name),
		CustomerID: in.CustomerID,
	}
	if err := u.Validate(); err != nil {
		return models.User{}, validationErr(err)
	}
	if len(in.Password) < minPasswordLen {
		return models.User{}, validationErr(fmt.Errorf("password must be at least %d characters", minPasswordLen))
	}
	if u.CustomerID != nil {
		if _, err := s.customers.GetByID(ctx, *u.CustomerID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return models.User{}, ErrCustomerNotFound
			}
			return models.User{}, fmt.Errorf("get customer: %w", err)
		}
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash
	created, err := s.users.Create(ctx, u)
	if err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// Login checks the credentials and issues a fresh token pair.
func (s *UserService) Login(ctx context.Context, username, password string) (auth.TokenPair, models.User, error) {
	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return auth.TokenPair{}, models.User{}, ErrInvalidCredentials
		}
		return auth.TokenPair{}, models.User{}, fmt.Errorf("get user: %w", err)
	}
	if err := auth.VerifyPassword(password, u.PasswordHash); err != nil {
		return auth.TokenPair{}, models.User{}, ErrInvalidCredentials
	}
	pair, err := s.tm.GeneratePair(u)
	if err != nil {
		return auth.TokenPair{}, models.User{}, fmt.Errorf("issue tokens: %w", err)
	}
	s.log.Info("login", "user_id", u.ID, "role", u.Role)
	return pair, u, nil
}

// Refresh rotates a refresh token. The old one is revoked and the new pair
// carries the user's current role, not the one in the presented token.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	claims, err := s.tm.ParseRefresh(refreshToken)
	if err != nil {
		return auth.TokenPair{}, ErrInvalidCredentials
	}
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return auth.TokenPair{}, ErrInvalidCredentials
	}
	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return auth.TokenPair{}, ErrInvalidCredentials
		}
		return auth.TokenPair{}, fmt.Errorf("get user: %w", err)
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return auth.TokenPair{}, fmt.Errorf("revoke refresh token: %w", err)
	}
	return s.tm.GeneratePair(u)
}

// Logout revokes the access token id and, when given, the refresh token.
func (s *UserService) Logout(ctx context.Context, accessID string, accessExp time.Time, refreshToken string) error {
	if err := s.revoker.Revoke(ctx, accessID, accessExp); err != nil {
		return fmt.Errorf("revoke access token: %w", err)
	}
	if refreshToken == "" {
		return nil
	}
	claims, err := s.tm.ParseRefresh(refreshToken)
	if err != nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func (s *UserService) Get(ctx context.Context, id models.UserID) (models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.User{}, ErrUserNotFound
	}
	return u, err
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.revoker.IsRevoked(ctx, tokenID)
}
