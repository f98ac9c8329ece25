package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Service contains the registration/login/refresh business logic.
type Service struct {
	users      UserRepository
	tokens     *TokenManager
	bcryptCost int
}

type RegisterResult struct {
	User   *User
	Tokens *TokenPair
}

func NewService(users UserRepository, tokens *TokenManager, bcryptCost int) *Service {
	return &Service{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		Email:     email,
		Password:  string(hash),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Age:       req.Age,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	pair, err := s.tokens.Rotate(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	user.Password = ""
	return &RegisterResult{User: user, Tokens: pair}, nil
}

// Login never reveals whether the email exists: unknown email and wrong
// password both come back as ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.tokens.Rotate(ctx, user.ID)
}

// Refresh validates the presented refresh token and rotates the pair.
// The old token stops validating as soon as rotation lands.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return s.tokens.Rotate(ctx, claims.UserID)
}

func (s *Service) Logout(ctx context.Context, userID int64) error {
	return s.tokens.Revoke(ctx, userID)
}
