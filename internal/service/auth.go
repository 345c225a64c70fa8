package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/joyroute/backend/internal/auth"
	"github.com/joyroute/backend/internal/domain"
	"github.com/joyroute/backend/internal/mailer"
	"github.com/joyroute/backend/internal/repo"
)

// AuthService implements registration, login, email verification, and
// password reset. Mail is dispatched by explicit calls from the operation
// that owns the transaction — never by save hooks. Delivery is best-effort:
// a failed send is logged, not returned, so a flaky relay cannot fail a
// registration.
type AuthService struct {
	tx     repo.Transactor
	tokens *auth.Manager
	mail   mailer.Mailer
	log    *slog.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(tx repo.Transactor, tokens *auth.Manager, mail mailer.Mailer, log *slog.Logger) *AuthService {
	return &AuthService{tx: tx, tokens: tokens, mail: mail, log: log}
}

// RegisterInput carries the caller-supplied registration fields.
type RegisterInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// Register creates the account and sends the welcome and verification
// mails. Returns domain.ErrConflict if the email is already registered.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	user := domain.User{
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}
	user.Normalize()

	if _, err := mail.ParseAddress(user.Email); err != nil {
		return domain.User{}, fmt.Errorf("%w: invalid email address", domain.ErrValidation)
	}
	if user.FirstName == "" || user.LastName == "" {
		return domain.User{}, fmt.Errorf("%w: first_name and last_name are required", domain.ErrValidation)
	}
	if len(input.Password) < 8 {
		return domain.User{}, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	var created domain.User
	err = s.tx.InTx(ctx, func(r repo.Repos) error {
		created, err = r.Users.Create(ctx, user)
		return err
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}

	s.sendWelcome(ctx, created)
	s.sendVerification(ctx, created)

	return created, nil
}

// Login checks the credentials and returns the user plus a signed session
// token. Wrong email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user domain.User
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		var err error
		user, err = r.Users.GetByEmail(ctx, email)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", domain.ErrUnauthorized)
		}
		return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", domain.ErrUnauthorized)
	}

	token, err := s.tokens.Generate(user.ID, user.Email, auth.PurposeAccess)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", err)
	}
	return user, token, nil
}

// GetUser returns the user by ID.
func (s *AuthService) GetUser(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	var user domain.User
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		var err error
		user, err = r.Users.GetByID(ctx, userID)
		return err
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.GetUser: %w", err)
	}
	return user, nil
}

// VerifyEmail consumes a verification token and marks the account verified.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token, auth.PurposeVerifyEmail)
	if err != nil {
		return fmt.Errorf("service.AuthService.VerifyEmail: %w: %w", domain.ErrUnauthorized, err)
	}

	err = s.tx.InTx(ctx, func(r repo.Repos) error {
		return r.Users.MarkEmailVerified(ctx, claims.UserID)
	})
	if err != nil {
		return fmt.Errorf("service.AuthService.VerifyEmail: %w", err)
	}
	return nil
}

// ResendVerification issues a fresh verification mail for an unverified
// account. Already-verified accounts get no mail and no error.
func (s *AuthService) ResendVerification(ctx context.Context, userID uuid.UUID) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("service.AuthService.ResendVerification: %w", err)
	}
	if user.EmailVerified {
		return nil
	}
	s.sendVerification(ctx, user)
	return nil
}

// RequestPasswordReset sends a reset link when the email belongs to an
// account. An unknown email is silently accepted so the endpoint cannot be
// used to probe which addresses are registered.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	var user domain.User
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		var err error
		user, err = r.Users.GetByEmail(ctx, email)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("service.AuthService.RequestPasswordReset: %w", err)
	}

	token, err := s.tokens.Generate(user.ID, user.Email, auth.PurposePasswordReset)
	if err != nil {
		return fmt.Errorf("service.AuthService.RequestPasswordReset: %w", err)
	}
	s.trySend(ctx, user.Email, "Reset your JoyRoute password",
		"Hi "+user.FirstName+",\n\n"+
			"Use this token to reset your password: "+token+"\n\n"+
			"If you did not request a reset, ignore this mail.\n\n"+
			"JoyRoute Team")
	return nil
}

// ConfirmPasswordReset consumes a reset token and stores the new password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, password string) error {
	claims, err := s.tokens.Parse(token, auth.PurposePasswordReset)
	if err != nil {
		return fmt.Errorf("service.AuthService.ConfirmPasswordReset: %w: %w", domain.ErrUnauthorized, err)
	}
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("service.AuthService.ConfirmPasswordReset: hash password: %w", err)
	}

	err = s.tx.InTx(ctx, func(r repo.Repos) error {
		return r.Users.UpdatePasswordHash(ctx, claims.UserID, string(hash))
	})
	if err != nil {
		return fmt.Errorf("service.AuthService.ConfirmPasswordReset: %w", err)
	}
	return nil
}

func (s *AuthService) sendWelcome(ctx context.Context, user domain.User) {
	s.trySend(ctx, user.Email, "Welcome to JoyRoute",
		"Hi "+user.FirstName+",\n\n"+
			"Thank you for joining JoyRoute! We're excited to have you on board.\n\n"+
			"Best regards,\nJoyRoute Team")
}

func (s *AuthService) sendVerification(ctx context.Context, user domain.User) {
	token, err := s.tokens.Generate(user.ID, user.Email, auth.PurposeVerifyEmail)
	if err != nil {
		s.log.ErrorContext(ctx, "generate verification token", "error", err, "user_id", user.ID)
		return
	}
	s.trySend(ctx, user.Email, "Verify your JoyRoute email",
		"Hi "+user.FirstName+",\n\n"+
			"Use this token to verify your email address: "+token+"\n\n"+
			"JoyRoute Team")
}

// trySend delivers best-effort: failures are logged, never returned.
func (s *AuthService) trySend(ctx context.Context, to, subject, body string) {
	if err := s.mail.Send(ctx, to, subject, body); err != nil {
		s.log.ErrorContext(ctx, "send mail failed", "error", err, "to", to, "subject", subject)
	}
}
