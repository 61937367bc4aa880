package auth

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/threadmind/threadmind/internal/db"
	"github.com/threadmind/threadmind/internal/faults"
	"github.com/threadmind/threadmind/internal/models"
	"github.com/threadmind/threadmind/internal/tokens"
	"github.com/threadmind/threadmind/pkg/logging"
)

// UserStore is the persistence view the auth service writes through.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
}

// SessionStore binds and unbinds user ids to session ids.
type SessionStore interface {
	Create(ctx context.Context, userID int64) (string, error)
	Destroy(ctx context.Context, sid string) error
}

// TokenStore issues and consumes single-use reset tokens.
type TokenStore interface {
	Issue(ctx context.Context, userID int64) (string, error)
	Consume(ctx context.Context, token string) (int64, error)
}

// Service implements registration, login, logout, and the password reset
// flow. Domain failures come back as *faults.Fault; the API boundary folds
// the recoverable kinds into field errors.
type Service struct {
	users    UserStore
	sessions SessionStore
	tokens   TokenStore
	hasher   *Hasher
	logger   *zap.Logger
}

// NewService creates a new auth service
func NewService(users UserStore, sessions SessionStore, tokenStore TokenStore, hasher *Hasher) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		tokens:   tokenStore,
		hasher:   hasher,
		logger:   logging.GetLogger().With(zap.String("component", "auth")),
	}
}

// Register creates a user, hashes the credential, and starts a session.
// Returns the user and the new session id.
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, string, error) {
	if fault := validateRegister(username, email, password); fault != nil {
		return nil, "", fault
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", faults.Infrastructure("password hashing failed", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, "", s.conflictField(ctx, username)
		}
		return nil, "", faults.Infrastructure("user create failed", err)
	}

	sid, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", faults.Infrastructure("session create failed", err)
	}
	return user, sid, nil
}

// conflictField decides which unique column a duplicate-key error hit.
// A follow-up lookup keeps the decision structural rather than parsing
// constraint names out of the driver error.
func (s *Service) conflictField(ctx context.Context, username string) error {
	existing, err := s.users.GetByUsername(ctx, username)
	if err == nil && existing != nil {
		return faults.Conflict("username", "Username already taken")
	}
	return faults.Conflict("email", "Email already registered")
}

// Login verifies a credential against the stored hash and starts a
// session. An @ in the login selects the email lookup.
func (s *Service) Login(ctx context.Context, usernameOrEmail, password string) (*models.User, string, error) {
	var user *models.User
	var err error
	if strings.Contains(usernameOrEmail, "@") {
		user, err = s.users.GetByEmail(ctx, usernameOrEmail)
	} else {
		user, err = s.users.GetByUsername(ctx, usernameOrEmail)
	}
	if err != nil {
		return nil, "", faults.Infrastructure("user lookup failed", err)
	}
	if user == nil {
		return nil, "", faults.Validation("usernameOrEmail", "That user doesn't exist")
	}

	if err := s.hasher.Verify(user.Password, password); err != nil {
		if errors.Is(err, ErrPasswordMismatch) {
			return nil, "", faults.Validation("password", "Incorrect password")
		}
		return nil, "", faults.Infrastructure("password verify failed", err)
	}

	sid, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", faults.Infrastructure("session create failed", err)
	}
	return user, sid, nil
}

// Logout destroys the session synchronously. Reports false only when the
// store itself fails.
func (s *Service) Logout(ctx context.Context, sid string) bool {
	if err := s.sessions.Destroy(ctx, sid); err != nil {
		s.logger.Error("Session destroy failed", zap.Error(err))
		return false
	}
	return true
}

// Me resolves the bound user id to a user, or nil when not logged in.
func (s *Service) Me(ctx context.Context, userID int64) (*models.User, error) {
	if userID == 0 {
		return nil, nil
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, faults.Infrastructure("user lookup failed", err)
	}
	return user, nil
}

// ForgotPassword mints a reset token for a registered email. Unknown
// emails still report success so the endpoint can't be used to probe which
// addresses are registered. Token delivery is a collaborator concern; here
// it only reaches the log.
func (s *Service) ForgotPassword(ctx context.Context, email string) (bool, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return false, faults.Infrastructure("user lookup failed", err)
	}
	if user == nil {
		return true, nil
	}

	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return false, faults.Infrastructure("token issue failed", err)
	}

	s.logger.Info("Password reset token issued",
		zap.Int64("user_id", user.ID),
		zap.String("token", token))
	return true, nil
}

// ChangePassword consumes a reset token, re-hashes the credential, and
// starts a fresh session for the recovered user.
func (s *Service) ChangePassword(ctx context.Context, token, newPassword string) (*models.User, string, error) {
	if fault := validatePassword("newPassword", newPassword); fault != nil {
		return nil, "", fault
	}

	userID, err := s.tokens.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, tokens.ErrNotFound) {
			return nil, "", faults.Token("Token expired")
		}
		return nil, "", faults.Infrastructure("token consume failed", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, "", faults.Infrastructure("user lookup failed", err)
	}
	if user == nil {
		// Account deleted between request and consumption
		return nil, "", faults.Token("User no longer exists")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, "", faults.Infrastructure("password hashing failed", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return nil, "", faults.Infrastructure("password update failed", err)
	}
	user.Password = hash

	sid, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", faults.Infrastructure("session create failed", err)
	}
	return user, sid, nil
}
