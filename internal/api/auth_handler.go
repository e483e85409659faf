package api

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"devfolio/internal/apperr"
	"devfolio/internal/api/middleware"
	"devfolio/internal/auth"
	"devfolio/internal/database"
	"devfolio/internal/repository"
)

const invalidCredentialsMessage = "Invalid credentials"

// AuthHandler handles registration, login, profile listing and account
// deletion. Redis backs the login-lockout counter and is allowed to fail
// open: auth never depends on redis availability.
type AuthHandler struct {
	users              *repository.UserRepository
	authService        *auth.AuthService
	redis              redis.UniversalClient
	logger             *slog.Logger
	loginLockThreshold int
	loginLockTTL       time.Duration
}

func NewAuthHandler(users *repository.UserRepository, authService *auth.AuthService, redisClient redis.UniversalClient, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:              users,
		authService:        authService,
		redis:              redisClient,
		logger:             logger,
		loginLockThreshold: 10,
		loginLockTTL:       15 * time.Minute,
	}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// publicUser is the account shape safe to return: no password hash.
type publicUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type authResponse struct {
	Token string     `json:"token"`
	User  publicUser `json:"user"`
}

func newPublicUser(user database.User) publicUser {
	return publicUser{ID: user.ID, Name: user.Name, Email: user.Email}
}

// Register creates a new account and issues a token for it.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	logger := h.loggerFromContext(c).With(slog.String("email", req.Email))

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Error("hash password failed", slog.Any("error", err))
		Internal(c, "Server error")
		return
	}

	user, err := h.users.Create(ctx, repository.UserInput{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
	})
	if err != nil {
		var ve *apperr.ValidationError
		switch {
		case errors.As(err, &ve):
			BadRequest(c, ve.Message)
		case errors.Is(err, apperr.ErrConflict):
			logger.Info("register conflict: email taken")
			Conflict(c, "User already exists")
		default:
			logger.Error("create user failed", slog.Any("error", err))
			Internal(c, "Server error")
		}
		return
	}

	token, err := h.authService.GenerateToken(user.ID)
	if err != nil {
		logger.Error("generate token failed", slog.Any("error", err))
		Internal(c, "Server error")
		return
	}

	logger.Info("user registered", slog.Uint64("user_id", uint64(user.ID)))
	Created(c, authResponse{Token: token, User: newPublicUser(user)})
}

// Login verifies credentials and issues a token. The failure message is
// identical whether the email is unknown or the password is wrong.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	email := strings.ToLower(strings.TrimSpace(req.Email))
	logger := h.loggerFromContext(c).With(slog.String("email", email))

	if h.isLocked(ctx, email) {
		Fail(c, 429, "Account temporarily locked")
		return
	}

	user, err := h.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			logger.Info("login failed: user not found")
			h.incrementLoginFail(ctx, email)
			BadRequest(c, invalidCredentialsMessage)
			return
		}
		logger.Error("login query failed", slog.Any("error", err))
		Internal(c, "Server error")
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.Info("login failed: password mismatch", slog.Uint64("user_id", uint64(user.ID)))
		h.incrementLoginFail(ctx, email)
		BadRequest(c, invalidCredentialsMessage)
		return
	}

	h.clearLoginFail(ctx, email)

	token, err := h.authService.GenerateToken(user.ID)
	if err != nil {
		logger.Error("generate token failed", slog.Any("error", err))
		Internal(c, "Server error")
		return
	}

	OK(c, authResponse{Token: token, User: newPublicUser(user)})
}

// GetProfiles lists every account without its password hash.
func (h *AuthHandler) GetProfiles(c *gin.Context) {
	ctx := c.Request.Context()

	users, err := h.users.List(ctx)
	if err != nil {
		h.loggerFromContext(c).Error("list users failed", slog.Any("error", err))
		Internal(c, "Server error")
		return
	}
	if len(users) == 0 {
		NotFound(c, "No users found")
		return
	}

	profiles := make([]publicUser, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, newPublicUser(user))
	}
	OK(c, profiles)
}

// DeleteUser removes an account by id.
func (h *AuthHandler) DeleteUser(c *gin.Context) {
	ctx := c.Request.Context()
	logger := h.loggerFromContext(c)

	if err := h.users.Delete(ctx, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, apperr.ErrInvalidID):
			BadRequest(c, "Invalid user ID")
		case errors.Is(err, apperr.ErrNotFound):
			NotFound(c, "User not found")
		default:
			logger.Error("delete user failed", slog.Any("error", err))
			Internal(c, "Server error")
		}
		return
	}

	Message(c, "User deleted successfully")
}

const loginFailKeyPrefix = "lock:login:fail:"
const loginLockKeyPrefix = "lock:login:"

func (h *AuthHandler) isLocked(ctx context.Context, email string) bool {
	if h.redis == nil {
		return false
	}
	ttl, err := h.redis.TTL(ctx, loginLockKeyPrefix+email).Result()
	return err == nil && ttl > 0
}

func (h *AuthHandler) incrementLoginFail(ctx context.Context, email string) {
	if h.redis == nil {
		return
	}
	failKey := loginFailKeyPrefix + email
	count, err := h.redis.Incr(ctx, failKey).Result()
	if err != nil {
		return
	}
	if count == 1 {
		_ = h.redis.Expire(ctx, failKey, h.loginLockTTL).Err()
	}
	if count >= int64(h.loginLockThreshold) {
		_ = h.redis.Set(ctx, loginLockKeyPrefix+email, "1", h.loginLockTTL).Err()
	}
}

func (h *AuthHandler) clearLoginFail(ctx context.Context, email string) {
	if h.redis == nil {
		return
	}
	_ = h.redis.Del(ctx, loginFailKeyPrefix+email).Err()
}

func (h *AuthHandler) loggerFromContext(c *gin.Context) *slog.Logger {
	if logger := middleware.LoggerFromContext(c); logger != nil {
		return logger
	}
	if h.logger != nil {
		return h.logger
	}
	return slog.Default()
}
