package handler

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/inkwell-app/inkwell/internal/config"
	"github.com/inkwell-app/inkwell/internal/queue"
	"github.com/inkwell-app/inkwell/internal/repository"
	queue_publisher "github.com/inkwell-app/inkwell/internal/service"
	"github.com/inkwell-app/inkwell/internal/utils"
)

// AuthHandler bundles registration, login, token refresh/revocation
// and the password lifecycle (change, forgot, reset). It talks to the
// repositories directly; there is no intermediate service layer.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, users *repository.UserRepo, tokens *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Tokens: tokens}
}

// Register handles POST /auth/register. Email addresses are unique
// per account; duplicates come back as 409.
func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}
	if !strings.Contains(req.Email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email"})
	}

	ctx, cancel := reqTimeout(c)
	defer cancel()

	id, err := h.Users.Create(ctx, req.Email, strings.TrimSpace(req.Name), req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		log.Printf("register failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error creating account"})
	}

	// The caller is logged in right away, like the login endpoint.
	return h.issueTokens(c, id, http.StatusCreated, echo.Map{
		"id": id, "email": strings.ToLower(req.Email),
	})
}

// Login handles POST /auth/login and issues an access/refresh token
// pair. Unknown email and wrong password get the same answer.
func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	ctx, cancel := reqTimeout(c)
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		log.Printf("login lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error logging in"})
	}
	if !utils.VerifyPassword(user.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	return h.issueTokens(c, user.ID, http.StatusOK, nil)
}

// Refresh handles POST /auth/refresh: trade a live refresh token for
// a new pair. The presented token is revoked so each one is single
// use.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token is required"})
	}

	ctx, cancel := reqTimeout(c)
	defer cancel()

	hash := utils.HashRefreshRaw(req.RefreshToken)
	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrTokenInvalid) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		log.Printf("refresh validate failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error refreshing session"})
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		log.Printf("refresh revoke failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error refreshing session"})
	}

	return h.issueTokens(c, userID, http.StatusOK, nil)
}

// Logout handles POST /auth/logout. With a refresh_token in the body
// only that session dies; an authenticated call without one revokes
// every session of the user.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = c.Bind(&req) // body is optional

	ctx, cancel := reqTimeout(c)
	defer cancel()

	if raw := strings.TrimSpace(req.RefreshToken); raw != "" {
		if err := h.Tokens.RevokeByHash(ctx, utils.HashRefreshRaw(raw)); err != nil {
			log.Printf("logout revoke failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error logging out"})
		}
		return c.NoContent(http.StatusNoContent)
	}

	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token or bearer token required"})
	}
	if err := h.Tokens.RevokeAllForUser(ctx, userID); err != nil {
		log.Printf("logout revoke-all failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error logging out"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /me.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqTimeout(c)
	defer cancel()

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		log.Printf("me lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error fetching profile"})
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /me and changes the display name.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx, cancel := reqTimeout(c)
	defer cancel()

	if err := h.Users.UpdateName(ctx, userID, req.Name); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		log.Printf("profile update failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error updating profile"})
	}
	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		log.Printf("profile reload failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error updating profile"})
	}
	return c.JSON(http.StatusOK, user)
}

// ChangePassword handles POST /auth/change-password for a logged-in
// user. The current password must verify; all refresh tokens are
// revoked afterwards so stolen sessions die with the old password.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "current_password and new_password are required"})
	}

	ctx, cancel := reqTimeout(c)
	defer cancel()

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		log.Printf("change-password lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error changing password"})
	}
	if !utils.VerifyPassword(user.PasswordHash, req.CurrentPassword) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "incorrect current password"})
	}
	if err := h.Users.UpdatePassword(ctx, userID, req.NewPassword, h.Cfg.BcryptCost); err != nil {
		log.Printf("change-password update failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error changing password"})
	}
	if err := h.Tokens.RevokeAllForUser(ctx, userID); err != nil {
		log.Printf("change-password revoke failed: %v", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password changed"})
}

// ForgotPassword handles POST /auth/forgot-password. The response is
// the same whether or not the address exists, so the endpoint cannot
// be used to probe for accounts. When the user exists a reset token
// is stored and a mail event goes onto the queue.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
	}

	ctx, cancel := reqTimeout(c)
	defer cancel()

	neutral := echo.Map{"message": "if the account exists, a reset link has been sent"}

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			log.Printf("forgot-password lookup failed: %v", err)
		}
		return c.JSON(http.StatusOK, neutral)
	}

	token, err := utils.NewResetToken()
	if err != nil {
		log.Printf("forgot-password token failed: %v", err)
		return c.JSON(http.StatusOK, neutral)
	}
	expiry := time.Now().UTC().Add(time.Hour)
	if err := h.Users.SetResetToken(ctx, user.ID, token, expiry); err != nil {
		log.Printf("forgot-password store failed: %v", err)
		return c.JSON(http.StatusOK, neutral)
	}

	link := h.Cfg.BaseURL + "/reset-password?email=" + url.QueryEscape(user.Email) + "&token=" + token
	event := queue.PasswordResetRequestedEvent{
		Email:       user.Email,
		Name:        user.Name,
		ResetLink:   link,
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	}
	// Best effort: delivery failures are logged by the publisher and
	// must not change the HTTP answer.
	_ = queue_publisher.PublishPasswordResetRequested(ctx, event)

	return c.JSON(http.StatusOK, neutral)
}

// ResetPassword handles POST /auth/reset-password: finishes the flow
// started by ForgotPassword using the emailed token.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req struct {
		Email       string `json:"email"`
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Email) == "" || req.Token == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email, token and new_password are required"})
	}

	ctx, cancel := reqTimeout(c)
	defer cancel()

	invalid := echo.Map{"error": "invalid or expired reset token"}

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusBadRequest, invalid)
		}
		log.Printf("reset-password lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error resetting password"})
	}
	if user.ResetToken == nil || user.ResetTokenExpiry == nil ||
		*user.ResetToken != req.Token || time.Now().UTC().After(*user.ResetTokenExpiry) {
		return c.JSON(http.StatusBadRequest, invalid)
	}

	// UpdatePassword clears the token columns so the link is single use.
	if err := h.Users.UpdatePassword(ctx, user.ID, req.NewPassword, h.Cfg.BcryptCost); err != nil {
		log.Printf("reset-password update failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error resetting password"})
	}
	if err := h.Tokens.RevokeAllForUser(ctx, user.ID); err != nil {
		log.Printf("reset-password revoke failed: %v", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password reset"})
}

// issueTokens signs an access token, mints a refresh token and stores
// the refresh hash before answering with the given status. Extra
// fields are merged into the response body.
func (h *AuthHandler) issueTokens(c echo.Context, userID uint64, status int, extra echo.Map) error {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, userID, h.Cfg.AccessTTLMin)
	if err != nil {
		log.Printf("access token sign failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error issuing tokens"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		log.Printf("refresh token mint failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error issuing tokens"})
	}

	ctx, cancel := reqTimeout(c)
	defer cancel()
	if err := h.Tokens.StoreRefresh(ctx, userID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		log.Printf("refresh token store failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error issuing tokens"})
	}

	body := echo.Map{
		"access_token":       access.Token,
		"access_expires_at":  access.Exp,
		"refresh_token":      refresh.Raw,
		"refresh_expires_at": refresh.Exp,
	}
	for k, v := range extra {
		body[k] = v
	}
	return c.JSON(status, body)
}
