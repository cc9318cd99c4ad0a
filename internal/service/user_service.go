// Package service holds the business rules of the API: validation,
// authorization and orchestration of the repositories.
package service

import (
	"context"
	"errors"
	"strings"

	"socialapp/internal/auth"
	"socialapp/internal/models"
	"socialapp/internal/observability"
	"socialapp/internal/repository"
	"socialapp/internal/validation"
)

// Validation messages shown to clients.
const (
	msgNameRequired     = "Name is required"
	msgValidEmail       = "Please include a valid email"
	msgPasswordLength   = "Please enter a password with 6 or more characters"
	msgPasswordRequired = "Password is required"
	msgPasswordTooLong  = "Please enter a password with 72 or fewer bytes"
	msgTextRequired     = "Text is required"

	minPasswordLength = 6
)

// TokenIssuer signs session tokens for a user id.
type TokenIssuer interface {
	Issue(userID uint) (string, error)
}

type UserService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
}

// UpdateEmailInput carries a request to change a user's email.
type UpdateEmailInput struct {
	CallerID uint
	UserID   uint
	Payload  validation.Payload
}

func NewUserService(userRepo repository.UserRepository, tokens TokenIssuer) *UserService {
	return &UserService{userRepo: userRepo, tokens: tokens}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account from a name/email/password payload and returns
// a session token for it.
func (s *UserService) Register(ctx context.Context, p validation.Payload) (token string, err error) {
	ctx, span := observability.StartSpan(ctx, "UserService", "Register")
	defer func() { observability.EndSpan(span, err) }()

	if errs := validation.Validate(p,
		validation.Required("name", msgNameRequired),
		validation.Email("email", msgValidEmail),
		validation.MinLength("password", minPasswordLength, msgPasswordLength),
		validation.MaxBytes("password", auth.MaxPasswordBytes, msgPasswordTooLong),
	); len(errs) > 0 {
		return "", models.NewValidationError(errs)
	}

	email := normalizeEmail(validation.String(p, "email"))
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", models.NewDuplicateEmailError()
	}

	password := validation.String(p, "password")
	hash, err := auth.HashPassword(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return "", models.NewValidationError(validation.Errors{{
			Msg: msgPasswordTooLong, Param: "password", Value: password, Location: "body",
		}})
	}
	if err != nil {
		return "", models.NewInternalError(err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(validation.String(p, "name")),
		Email:    email,
		Password: hash,
		Avatar:   auth.GravatarURL(email),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", err
	}
	observability.UsersRegistered.Inc()

	return s.issue(user.ID)
}

// Login checks an email/password payload and returns a session token.
func (s *UserService) Login(ctx context.Context, p validation.Payload) (token string, err error) {
	ctx, span := observability.StartSpan(ctx, "UserService", "Login")
	defer func() { observability.EndSpan(span, err) }()

	if errs := validation.Validate(p,
		validation.Email("email", msgValidEmail),
		validation.Exists("password", msgPasswordRequired),
	); len(errs) > 0 {
		return "", models.NewValidationError(errs)
	}

	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(validation.String(p, "email")))
	if err != nil {
		return "", err
	}
	if user == nil {
		observability.AuthFailures.WithLabelValues("unknown_email").Inc()
		return "", models.NewInvalidCredentialsError()
	}
	if !auth.CheckPassword(user.Password, validation.String(p, "password")) {
		observability.AuthFailures.WithLabelValues("bad_password").Inc()
		return "", models.NewInvalidCredentialsError()
	}

	return s.issue(user.ID)
}

func (s *UserService) issue(userID uint) (string, error) {
	token, err := s.tokens.Issue(userID)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return token, nil
}

// Me returns the authenticated caller's own record.
func (s *UserService) Me(ctx context.Context, callerID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, callerID)
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateEmail changes a user's email. Only the user themself may do so.
func (s *UserService) UpdateEmail(ctx context.Context, in UpdateEmailInput) (*models.User, error) {
	if errs := validation.Validate(in.Payload, validation.Email("email", msgValidEmail)); len(errs) > 0 {
		return nil, models.NewValidationError(errs)
	}
	if in.CallerID != in.UserID {
		return nil, models.NewForbiddenError()
	}

	email := normalizeEmail(validation.String(in.Payload, "email"))
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != in.UserID {
		return nil, models.NewDuplicateEmailError()
	}

	return s.userRepo.UpdateEmail(ctx, in.UserID, email)
}

// DeleteSelf removes the caller's account together with their profile.
func (s *UserService) DeleteSelf(ctx context.Context, callerID uint) error {
	return s.userRepo.DeleteWithProfile(ctx, callerID)
}

func (s *UserService) ListAll(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}
