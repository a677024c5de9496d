package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sokosmart/backend/internal/hash"
	"github.com/sokosmart/backend/internal/logging"
	"github.com/sokosmart/backend/internal/models"
	"github.com/sokosmart/backend/internal/repo"
	"github.com/sokosmart/backend/internal/tokens"
	"github.com/sokosmart/backend/internal/transport"
)

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	TokenTTL  time.Duration
}

type LoginResult struct {
	Token string
	Role  string
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.Account, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if req.Name == "" || req.Email == "" || req.Phone == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: name, email, phone and password are required", ErrValidation)
	}
	role := strings.ToLower(req.Role)
	if role != models.RoleFarmer && role != models.RoleBuyer {
		return nil, fmt.Errorf("%w: role must be farmer or buyer", ErrValidation)
	}

	taken, err := s.Repo.EmailTaken(ctx, req.Email)
	if err != nil {
		l.Error("register_error", "reason", "email lookup failed", "error", err)
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	account := &models.Account{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: pwHash,
		Role:         role,
	}
	return s.Repo.CreateAccount(ctx, account)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	account, err := s.Repo.GetAccountByEmail(ctx, email)
	if err != nil {
		// Same answer for unknown email and wrong password.
		if errIsNotFound(err) {
			return nil, fmt.Errorf("%w: invalid email or password", ErrForbidden)
		}
		l.Error("login_error", "reason", "account lookup failed", "error", err)
		return nil, err
	}
	if !hash.CheckPassword(account.PasswordHash, password) {
		return nil, fmt.Errorf("%w: invalid email or password", ErrForbidden)
	}

	token, err := tokens.Issue(account.ID, account.Role, s.TokenTTL, s.JWTSecret)
	if err != nil {
		l.Error("login_error", "reason", "cannot sign token", "error", err)
		return nil, err
	}

	return &LoginResult{Token: token, Role: account.Role}, nil
}

func (s *AuthService) Me(ctx context.Context, accountID uuid.UUID) (*models.Account, error) {
	account, err := s.Repo.GetAccount(ctx, accountID)
	if err != nil {
		if errIsNotFound(err) {
			return nil, fmt.Errorf("%w: account", ErrNotFound)
		}
		return nil, err
	}
	return account, nil
}

func (s *AuthService) UpdateMe(ctx context.Context, accountID uuid.UUID, req transport.UpdateAccountRequest) (*models.Account, error) {
	account, err := s.Repo.GetAccount(ctx, accountID)
	if err != nil {
		if errIsNotFound(err) {
			return nil, fmt.Errorf("%w: account", ErrNotFound)
		}
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
		}
		account.Name = *req.Name
	}
	if req.Phone != nil {
		if *req.Phone == "" {
			return nil, fmt.Errorf("%w: phone cannot be empty", ErrValidation)
		}
		account.Phone = *req.Phone
	}
	if req.Password != nil {
		if *req.Password == "" {
			return nil, fmt.Errorf("%w: password cannot be empty", ErrValidation)
		}
		pwHash, err := hash.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		account.PasswordHash = pwHash
	}

	if err := s.Repo.SaveAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AuthService) DeleteMe(ctx context.Context, accountID uuid.UUID) error {
	if err := s.Repo.DeleteAccount(ctx, accountID); err != nil {
		if errIsNotFound(err) {
			return fmt.Errorf("%w: account", ErrNotFound)
		}
		return err
	}
	return nil
}

func errIsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
