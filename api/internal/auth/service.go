// Package auth implements email/password and Google sign-in with JWT
// session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"promptify/api/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
)

// InputError is a malformed auth request.
type InputError struct{ Message string }

func (e *InputError) Error() string { return e.Message }

type UserStore interface {
	Create(ctx context.Context, u *store.User) error
	FindByEmail(ctx context.Context, email string) (*store.User, error)
	FindByID(ctx context.Context, id int64) (*store.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*store.User, error)
	LinkGoogleID(ctx context.Context, id int64, googleID string) error
}

// Session is a signed token plus the user it belongs to.
type Session struct {
	Token string      `json:"token"`
	User  *store.User `json:"user"`
}

type Service struct {
	users  UserStore
	tokens *Tokens
	google GoogleVerifier
	log    *zap.Logger
}

func NewService(users UserStore, tokens *Tokens, google GoogleVerifier, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{users: users, tokens: tokens, google: google, log: log}
}

func (s *Service) Signup(ctx context.Context, email, username, password string) (*Session, error) {
	email = store.NormalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return nil, &InputError{Message: "a valid email is required."}
	}
	if len(password) < minPasswordLen {
		return nil, &InputError{Message: fmt.Sprintf("password must be at least %d characters.", minPasswordLen)}
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &store.User{Email: email, Username: strings.TrimSpace(username), PasswordHash: hash}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.Info("user signed up", zap.Int64("user_id", u.ID))
	return s.session(u)
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.session(u)
}

// Google signs in with a Google ID token. Unknown identities are matched
// to an existing account by email, or a new account is created.
func (s *Service) Google(ctx context.Context, idToken string) (*Session, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, &InputError{Message: "idToken is required."}
	}
	if s.google == nil {
		return nil, ErrInvalidCredentials
	}
	id, err := s.google.Verify(ctx, idToken)
	if err != nil {
		s.log.Warn("google token rejected", zap.Error(err))
		return nil, ErrInvalidCredentials
	}

	u, err := s.users.FindByGoogleID(ctx, id.Subject)
	switch {
	case err == nil:
		return s.session(u)
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("find google user: %w", err)
	}

	// Matching or claiming an account by email needs Google to vouch for it.
	if id.Email == "" || !id.EmailVerified {
		s.log.Warn("google email not verified", zap.String("subject", id.Subject))
		return nil, ErrInvalidCredentials
	}
	u, err = s.users.FindByEmail(ctx, id.Email)
	switch {
	case err == nil:
		if err := s.users.LinkGoogleID(ctx, u.ID, id.Subject); err != nil {
			return nil, fmt.Errorf("link google id: %w", err)
		}
		u.GoogleID = id.Subject
	case errors.Is(err, store.ErrNotFound):
		u = &store.User{Email: id.Email, Username: id.Name, GoogleID: id.Subject}
		if err := s.users.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("create google user: %w", err)
		}
		s.log.Info("user signed up with google", zap.Int64("user_id", u.ID))
	default:
		return nil, fmt.Errorf("find user: %w", err)
	}
	return s.session(u)
}

// Verify resolves a session token to its user.
func (s *Service) Verify(ctx context.Context, token string) (*store.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, ErrInvalidToken
	}
	u, err := s.users.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	return u, err
}

func (s *Service) session(u *store.User) (*Session, error) {
	tok, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{Token: tok, User: u}, nil
}
