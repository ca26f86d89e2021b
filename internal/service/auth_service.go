package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/idtoken"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/domain"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/repository/ports"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/util"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyUsed   = errors.New("email already registered")
	ErrPasswordTooWeak    = fmt.Errorf("%w: password too weak", ErrBadRequest)
	ErrInvalidGoogleToken = errors.New("invalid google token")
	ErrUnauthorized       = errors.New("invalid or expired session")
)

// GoogleTokenValidator verifies a Google ID token for audience.
type GoogleTokenValidator func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

type AuthServiceConfig struct {
	GoogleAudience string
	// AdminEmails are granted the admin role whenever they sign in.
	AdminEmails    []string
	PasswordPolicy util.PasswordPolicy
	Logger         logrus.FieldLogger
}

type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

type AuthService struct {
	users    ports.UserRepository
	roles    ports.RoleRepository
	sessions ports.SessionRepository
	jwt      *util.JWTManager

	googleAudience string
	validateGoogle GoogleTokenValidator
	adminEmails    map[string]struct{}
	policy         util.PasswordPolicy
	log            logrus.FieldLogger
}

func NewAuthService(users ports.UserRepository, roles ports.RoleRepository, sessions ports.SessionRepository, jwt *util.JWTManager, cfg AuthServiceConfig) *AuthService {
	admins := make(map[string]struct{}, len(cfg.AdminEmails))
	for _, email := range cfg.AdminEmails {
		if e := normalizeEmail(email); e != "" {
			admins[e] = struct{}{}
		}
	}
	policy := cfg.PasswordPolicy
	if policy.MinLength == 0 {
		policy = util.DefaultPasswordPolicy
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AuthService{
		users:          users,
		roles:          roles,
		sessions:       sessions,
		jwt:            jwt,
		googleAudience: cfg.GoogleAudience,
		validateGoogle: idtoken.Validate,
		adminEmails:    admins,
		policy:         policy,
		log:            logger.WithField("component", "auth"),
	}
}

func (s *AuthService) SetGoogleValidator(v GoogleTokenValidator) {
	s.validateGoogle = v
}

func (s *AuthService) RegisterWithEmail(ctx context.Context, email, username, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	var problems []string
	if email == "" || !strings.Contains(email, "@") {
		problems = append(problems, "valid email is required")
	}
	if password == "" {
		problems = append(problems, "password is required")
	}
	if len(problems) > 0 {
		return nil, validationError(problems)
	}
	if err := s.policy.Validate(password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPasswordTooWeak, err)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailAlreadyUsed
	} else if !isNotFound(err) {
		return nil, storageErr("find user", err)
	}

	hash, salt, err := util.DerivePassword(password)
	if err != nil {
		return nil, err
	}
	var namePtr *string
	if u := strings.TrimSpace(username); u != "" {
		namePtr = &u
	}
	user, err := s.users.CreateEmailUser(ctx, email, namePtr, hash, salt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailAlreadyUsed
		}
		return nil, storageErr("create user", err)
	}
	return s.startSession(ctx, user)
}

func (s *AuthService) LoginWithEmail(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, storageErr("find user", err)
	}
	if !util.VerifyPassword(password, user.PasswordSalt, user.PasswordHash) {
		s.log.WithField("user_id", user.ID).Warn("failed password login")
		return nil, ErrInvalidCredentials
	}
	return s.startSession(ctx, user)
}

func (s *AuthService) LoginWithGoogle(ctx context.Context, idToken string) (*AuthResult, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, ErrInvalidGoogleToken
	}
	payload, err := s.validateGoogle(ctx, idToken, s.googleAudience)
	if err != nil {
		return nil, ErrInvalidGoogleToken
	}
	email, _ := payload.Claims["email"].(string)
	if normalizeEmail(email) == "" {
		return nil, ErrInvalidGoogleToken
	}
	var fullName, picture *string
	if v, ok := payload.Claims["name"].(string); ok && v != "" {
		fullName = &v
	}
	if v, ok := payload.Claims["picture"].(string); ok && v != "" {
		picture = &v
	}
	user, err := s.users.UpsertGoogleUser(ctx, normalizeEmail(email), fullName, picture)
	if err != nil {
		return nil, storageErr("upsert google user", err)
	}
	return s.startSession(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.RevokeSession(ctx, token); err != nil {
		return storageErr("revoke session", err)
	}
	return nil
}

// Authenticate resolves a bearer token to its user, roles included.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	session, err := s.sessions.FindActiveSession(ctx, token)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUnauthorized
		}
		return nil, storageErr("find session", err)
	}
	if session.UserID != claims.UserID {
		return nil, ErrUnauthorized
	}
	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUnauthorized
		}
		return nil, storageErr("find user", err)
	}
	if err := s.loadRoles(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) IsAdmin(ctx context.Context, user *domain.User) (bool, error) {
	if user == nil {
		return false, nil
	}
	if user.Roles == nil {
		if err := s.loadRoles(ctx, user); err != nil {
			return false, err
		}
	}
	return user.IsAdmin(), nil
}

func (s *AuthService) startSession(ctx context.Context, user *domain.User) (*AuthResult, error) {
	if err := s.grantRoles(ctx, user); err != nil {
		return nil, err
	}
	if err := s.loadRoles(ctx, user); err != nil {
		return nil, err
	}
	token, expiresAt, err := s.jwt.Generate(user.ID, user.Email, user.RoleNames())
	if err != nil {
		return nil, err
	}
	if _, err := s.sessions.CreateSession(ctx, user.ID, token, expiresAt); err != nil {
		return nil, storageErr("create session", err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) grantRoles(ctx context.Context, user *domain.User) error {
	names := []string{domain.RoleUser}
	if _, ok := s.adminEmails[normalizeEmail(user.Email)]; ok {
		names = append(names, domain.RoleAdmin)
	}
	for _, name := range names {
		role, err := s.roles.GetOrCreateRole(ctx, name, name+" role")
		if err != nil {
			return storageErr("get role", err)
		}
		if err := s.roles.AssignUserRole(ctx, user.ID, role.ID); err != nil {
			return storageErr("assign role", err)
		}
	}
	return nil
}

func (s *AuthService) loadRoles(ctx context.Context, user *domain.User) error {
	roles, err := s.roles.ListByUser(ctx, user.ID)
	if err != nil {
		return storageErr("list roles", err)
	}
	if roles == nil {
		roles = []domain.Role{}
	}
	user.Roles = roles
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

