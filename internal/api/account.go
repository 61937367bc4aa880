package api

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/threadmind/threadmind/internal/auth"
	"github.com/threadmind/threadmind/internal/faults"
	"github.com/threadmind/threadmind/internal/models"
	"github.com/threadmind/threadmind/pkg/config"
	"github.com/threadmind/threadmind/pkg/telemetry"
)

// UserResponse is the envelope auth mutations resolve to: a user on
// success, inline field errors on a recoverable failure. Never both.
type UserResponse struct {
	User   *models.User        `json:"user,omitempty"`
	Errors []faults.FieldError `json:"errors,omitempty"`
}

// AccountAPI provides the identity and authentication methods
type AccountAPI struct {
	svc *auth.Service
	cfg *config.SessionConfig
}

// NewAccountAPI creates a new account API
func NewAccountAPI(svc *auth.Service, cfg *config.SessionConfig) *AccountAPI {
	return &AccountAPI{svc: svc, cfg: cfg}
}

// envelope folds recoverable faults into the response envelope; anything
// else crosses as a true error.
func envelope(user *models.User, err error) (interface{}, error) {
	if err != nil {
		if fes := faults.FieldErrors(err); fes != nil {
			return &UserResponse{Errors: fes}, nil
		}
		return nil, err
	}
	return &UserResponse{User: user}, nil
}

// Me handles auth_api.me
func (a *AccountAPI) Me(c *gin.Context, _ json.RawMessage) (interface{}, error) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "account.me")
	defer span.End()

	return a.svc.Me(ctx, CurrentUserID(c))
}

type registerParams struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles auth_api.register
func (a *AccountAPI) Register(c *gin.Context, params json.RawMessage) (interface{}, error) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "account.register")
	defer span.End()

	var p registerParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}

	user, sid, err := a.svc.Register(ctx, p.Username, p.Email, p.Password)
	if err == nil {
		SetSessionCookie(c, a.cfg, sid)
	}
	return envelope(user, err)
}

type loginParams struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

// Login handles auth_api.login
func (a *AccountAPI) Login(c *gin.Context, params json.RawMessage) (interface{}, error) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "account.login")
	defer span.End()

	var p loginParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}

	user, sid, err := a.svc.Login(ctx, p.UsernameOrEmail, p.Password)
	if err == nil {
		SetSessionCookie(c, a.cfg, sid)
	}
	return envelope(user, err)
}

// Logout handles auth_api.logout. The cookie clears even when no server
// session exists.
func (a *AccountAPI) Logout(c *gin.Context, _ json.RawMessage) (interface{}, error) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "account.logout")
	defer span.End()

	ok := true
	if sid := CurrentSessionID(c); sid != "" {
		ok = a.svc.Logout(ctx, sid)
	}
	ClearSessionCookie(c, a.cfg)
	return ok, nil
}

type forgotPasswordParams struct {
	Email string `json:"email"`
}

// ForgotPassword handles auth_api.forgot_password
func (a *AccountAPI) ForgotPassword(c *gin.Context, params json.RawMessage) (interface{}, error) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "account.forgot_password")
	defer span.End()

	var p forgotPasswordParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}

	return a.svc.ForgotPassword(ctx, p.Email)
}

type changePasswordParams struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// ChangePassword handles auth_api.change_password
func (a *AccountAPI) ChangePassword(c *gin.Context, params json.RawMessage) (interface{}, error) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "account.change_password")
	defer span.End()

	var p changePasswordParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}

	user, sid, err := a.svc.ChangePassword(ctx, p.Token, p.NewPassword)
	if err == nil {
		SetSessionCookie(c, a.cfg, sid)
	}
	return envelope(user, err)
}
