package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yukikurage/task-tracker/internal/constants"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/repository"
	"gorm.io/gorm"
)

// AuthService handles registration, credential checks and user lookups.
type AuthService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, hasher PasswordHasher) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register creates a new user. Exactly one row is written on success.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	if input.Password != input.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" || email == "" || input.Password == "" {
		return nil, ErrIdentityRequired
	}
	if utf8.RuneCountInString(username) > constants.MaxUsernameLength ||
		utf8.RuneCountInString(email) > constants.MaxEmailLength {
		return nil, ErrIdentityTooLong
	}

	taken, err := s.userRepo.ExistsByUsernameOrEmail(username, email)
	if err != nil {
		return nil, storageError("check identity", err)
	}
	if taken {
		return nil, ErrDuplicateIdentity
	}

	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToHashPassword, err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
	}

	// The unique indexes settle registrations racing past the check above.
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateIdentity
		}
		// Not every driver translates constraint errors.
		if taken, checkErr := s.userRepo.ExistsByUsernameOrEmail(username, email); checkErr == nil && taken {
			return nil, ErrDuplicateIdentity
		}
		return nil, storageError("create user", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Authenticate verifies credentials and returns the authenticated user.
func (s *AuthService) Authenticate(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storageError("find user", err)
	}

	if !s.hasher.Verify(user.PasswordHash, input.Password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storageError("find user", err)
	}

	return user, nil
}

// ListUsers returns every registered user.
func (s *AuthService) ListUsers() ([]models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, storageError("list users", err)
	}
	return users, nil
}
