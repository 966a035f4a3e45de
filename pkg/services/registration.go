package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"feuerwehr-web/pkg/models"
	"feuerwehr-web/pkg/store"
)

// bcrypt ignores input beyond this many bytes.
const maxPasswordBytes = 72

type RegistrationInput struct {
	Email    string `json:"email" form:"email" validate:"required,sitemail,max=254"`
	Password string `json:"password" form:"password" validate:"required,min=8"`
	Name     string `json:"name" form:"name" validate:"max=200"`
}

type RegistrationService interface {
	// Register creates a user with the default role and returns its id. A
	// taken email, compared case-insensitively, yields ErrEmailTaken.
	Register(ctx context.Context, in RegistrationInput) (string, error)
}

type registrationService struct {
	users store.UserRepository
	cost  int
}

// NewRegistrationService hashes with the given bcrypt cost; zero means
// bcrypt.DefaultCost.
func NewRegistrationService(users store.UserRepository, cost int) RegistrationService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &registrationService{users: users, cost: cost}
}

func (s *registrationService) Register(ctx context.Context, in RegistrationInput) (string, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := checkStruct(&in); err != nil {
		return "", err
	}
	u, err := createUser(ctx, s.users, s.cost, in.Email, in.Password, in.Name, models.RoleUser)
	if err != nil {
		return "", err
	}
	return u.ID, nil
}

// createUser is shared by registration and admin provisioning.
func createUser(ctx context.Context, users store.UserRepository, cost int, email, password, name, role string) (*models.User, error) {
	if len(password) > maxPasswordBytes {
		return nil, &ValidationError{Field: "password", Key: "validation.too_long"}
	}

	_, err := users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{Email: email, PasswordHash: string(hash), Name: name, Role: role}
	if err := users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}
