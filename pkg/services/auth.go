package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	"feuerwehr-web/pkg/logger"
	"feuerwehr-web/pkg/models"
	"feuerwehr-web/pkg/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrForbidden means the account exists but may not use the admin panel.
	ErrForbidden = errors.New("account has no admin access")
)

const githubEmailsURL = "https://api.github.com/user/emails"

type AuthService interface {
	// Login checks an email and password for an admin or editor account.
	Login(ctx context.Context, email, password string) (*models.User, error)
	// LoginGitHub maps the verified emails of a GitHub account to an existing
	// admin or editor.
	LoginGitHub(ctx context.Context, token *oauth2.Token) (*models.User, error)
	User(ctx context.Context, id string) (*models.User, error)
	// CreateAdmin provisions an account with role admin or editor.
	CreateAdmin(ctx context.Context, email, password, name, role string) (*models.User, error)
}

type authService struct {
	users     store.UserRepository
	oauth     *oauth2.Config
	cost      int
	emailsURL string
}

// NewAuthService builds the admin login service. oauth may be nil when
// GitHub login is not configured.
func NewAuthService(users store.UserRepository, oauth *oauth2.Config, cost int) AuthService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &authService{users: users, oauth: oauth, cost: cost, emailsURL: githubEmailsURL}
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.CanEdit() {
		return nil, ErrForbidden
	}
	return u, nil
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (s *authService) LoginGitHub(ctx context.Context, token *oauth2.Token) (*models.User, error) {
	if s.oauth == nil {
		return nil, errors.New("github login not configured")
	}
	emails, err := s.githubEmails(ctx, token)
	if err != nil {
		return nil, err
	}
	found := false
	for _, e := range emails {
		if !e.Verified {
			continue
		}
		u, err := s.users.FindByEmail(ctx, e.Email)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		found = true
		if u.CanEdit() {
			return u, nil
		}
	}
	if found {
		return nil, ErrForbidden
	}
	logger.Warn("github login without matching account", zap.Int("emails", len(emails)))
	return nil, ErrInvalidCredentials
}

func (s *authService) githubEmails(ctx context.Context, token *oauth2.Token) ([]githubEmail, error) {
	client := s.oauth.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.emailsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github emails: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github emails: status %d", resp.StatusCode)
	}
	var emails []githubEmail
	if err := json.NewDecoder(resp.Body).Decode(&emails); err != nil {
		return nil, fmt.Errorf("github emails: %w", err)
	}
	return emails, nil
}

func (s *authService) User(ctx context.Context, id string) (*models.User, error) {
	return s.users.Get(ctx, id)
}

func (s *authService) CreateAdmin(ctx context.Context, email, password, name, role string) (*models.User, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		role = models.RoleAdmin
	}
	if role != models.RoleAdmin && role != models.RoleEditor {
		return nil, &ValidationError{Field: "role", Key: "validation.invalid"}
	}
	in := RegistrationInput{Email: strings.TrimSpace(email), Password: password, Name: strings.TrimSpace(name)}
	if err := checkStruct(&in); err != nil {
		return nil, err
	}
	return createUser(ctx, s.users, s.cost, in.Email, in.Password, in.Name, role)
}
