// api/handlers/auth_handler.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/myfood/myfood-backend/api/middleware"
	"github.com/myfood/myfood-backend/api/models"
	"github.com/myfood/myfood-backend/config"
	"github.com/myfood/myfood-backend/internal/auth"
	"github.com/myfood/myfood-backend/internal/domain"
	"github.com/myfood/myfood-backend/internal/logger"
	"github.com/myfood/myfood-backend/internal/services"
)

var (
	customLog = logger.NewLogger()
)

// AuthHandler holds dependencies for authentication handlers.
type AuthHandler struct {
	Auth *services.AuthService
	Cfg  *config.Config
}

func NewAuthHandler(svc *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{Auth: svc, Cfg: cfg}
}

// Register handles account creation and signs the new user in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.Auth.Register(c.Request.Context(), req.ToRegistration())
	if err != nil {
		customLog.Warnf("Failed to register %s: %v", req.Email, err)
		_ = c.Error(err)
		return
	}

	h.respondWithToken(c, http.StatusCreated, "User registered successfully", user)
}

// Login handles user login requests and issues JWT on success.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.respondWithToken(c, http.StatusOK, "Login successful", user)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, message string, user *domain.User) {
	token, err := auth.GenerateJWT(user.ID, h.Cfg.JWTSecret, h.Cfg.JWTExpiration)
	if err != nil {
		customLog.Warnf("Failed to generate JWT for user %d: %v", user.ID, err)
		_ = c.Error(err)
		return
	}
	c.JSON(status, models.AuthResponse{Message: message, Token: token, User: *user})
}

// Logout clears the signed-in user.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Auth.Logout()
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the signed-in user, or the device's first account.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.Auth.GetCurrentUser(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	if user.ID != currentUserID(c) {
		// The session belongs to another account than the token.
		if user, err = h.Auth.GetUser(c.Request.Context(), currentUserID(c)); err != nil {
			_ = c.Error(err)
			return
		}
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser patches the caller's own profile.
func (h *AuthHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if id != currentUserID(c) {
		_ = c.Error(fmt.Errorf("%w: cannot modify another user", middleware.ErrForbidden))
		return
	}

	var req models.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.Auth.UpdateUser(c.Request.Context(), id, req.ToPatch())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}
