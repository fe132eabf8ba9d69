package service

import (
	"errors"
	"fmt"
	"time"

	"backend/internal/models"
	"backend/internal/repository"
	"backend/internal/token"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both "unknown username" and "wrong password".
// The two cases must stay externally indistinguishable.
var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService interface {
	Signup(username, email, password string) (*models.User, string, time.Time, error)
	Login(username, password string) (*models.User, string, time.Time, error)
	ResolveUser(tokenString string) (*models.User, error)
}

type authService struct {
	repo   repository.UserRepository
	tokens *token.Manager
	logger *zap.Logger
	// dummyHash is verified against when the username is unknown, so a
	// failed login takes the same time either way.
	dummyHash []byte
}

func NewAuthService(repo repository.UserRepository, tokens *token.Manager, logger *zap.Logger) AuthService {
	dummyHash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		// bcrypt only fails on an out-of-range cost.
		panic(err)
	}
	return &authService{
		repo:      repo,
		tokens:    tokens,
		logger:    logger,
		dummyHash: dummyHash,
	}
}

func (s *authService) Signup(username, email, password string) (*models.User, string, time.Time, error) {
	passwordHash, err := hashPassword(password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, "", time.Time{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}

	// Uniqueness is enforced by the store's unique indexes; the insert is
	// atomic and conflicts come back as ErrDuplicateUsername/Email.
	if err := s.repo.CreateUser(user); err != nil {
		return nil, "", time.Time{}, err
	}

	tokenString, expiresAt, err := s.tokens.Issue(user.Username)
	if err != nil {
		s.logger.Error("Failed to issue token", zap.Error(err))
		return nil, "", time.Time{}, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("User signed up", zap.String("username", user.Username))
	return user, tokenString, expiresAt, nil
}

func (s *authService) Login(username, password string) (*models.User, string, time.Time, error) {
	user, err := s.repo.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Burn a bcrypt compare so the response time does not reveal
			// whether the username exists.
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		s.logger.Error("Failed to get user by username", zap.Error(err))
		return nil, "", time.Time{}, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if !verifyPassword(user.PasswordHash, password) {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	tokenString, expiresAt, err := s.tokens.Issue(user.Username)
	if err != nil {
		s.logger.Error("Failed to issue token", zap.Error(err))
		return nil, "", time.Time{}, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("User logged in", zap.String("username", user.Username))
	return user, tokenString, expiresAt, nil
}

// ResolveUser maps a bearer token to the identity record it was issued for.
// Every failure mode collapses into token.ErrInvalidToken; the caller
// responds with a uniform unauthenticated error.
func (s *authService) ResolveUser(tokenString string) (*models.User, error) {
	subject, err := s.tokens.Validate(tokenString)
	if err != nil {
		return nil, token.ErrInvalidToken
	}

	user, err := s.repo.GetUserByUsername(subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, token.ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

// hashPassword produces a salted bcrypt digest of the password.
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// verifyPassword compares a plaintext password with a stored hash. Malformed
// hashes simply fail verification.
func verifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
