package handlers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/manforhire/contractor-api/internal/auth"
	"github.com/manforhire/contractor-api/internal/config"
	"github.com/manforhire/contractor-api/internal/httperr"
	"github.com/manforhire/contractor-api/internal/httpresp"
	"github.com/manforhire/contractor-api/internal/middleware"
	"github.com/manforhire/contractor-api/internal/models"
	"github.com/manforhire/contractor-api/internal/store"
	"github.com/manforhire/contractor-api/internal/validators"
)

type AuthHandler struct {
	store store.Store
	cfg   *config.Config
}

func NewAuthHandler(st store.Store, cfg *config.Config) *AuthHandler {
	return &AuthHandler{store: st, cfg: cfg}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterAdminRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Login accepts the username field as either username or email.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		httperr.BadRequest(c, "Username and password are required")
		return
	}

	admin, err := h.store.FindAdminByLogin(c.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httperr.Unauthorized(c, "Invalid credentials")
			return
		}
		httperr.FromStore(c, err, "admin user", "Login failed", h.cfg.Development())
		return
	}

	if !auth.CheckPassword(req.Password, admin.PasswordHash) {
		httperr.Unauthorized(c, "Invalid credentials")
		return
	}

	token, err := auth.IssueToken(h.cfg, auth.Identity{
		Subject:  admin.ID,
		Kind:     auth.KindAdmin,
		Role:     admin.Role,
		Username: admin.Username,
	})
	if err != nil {
		httperr.Internal(c, "Login failed")
		return
	}

	if err := h.store.TouchAdminLastLogin(c.Request.Context(), admin.ID, time.Now().UTC()); err != nil {
		// Login still succeeds; the timestamp is informational.
		log.Printf("failed to update last login for %s: %v", admin.ID, err)
	}

	httpresp.OK(c, gin.H{
		"message": "Login successful",
		"token":   token,
		"user": gin.H{
			"id":       admin.ID,
			"username": admin.Username,
			"email":    admin.Email,
			"role":     admin.Role,
		},
	})
}

// Register creates the first admin account. Once any admin exists the
// endpoint is closed and new admins come from an existing one.
func (h *AuthHandler) Register(c *gin.Context) {
	count, err := h.store.CountAdmins(c.Request.Context())
	if err != nil {
		httperr.FromStore(c, err, "admin user", "Registration failed", h.cfg.Development())
		return
	}
	if count > 0 {
		httperr.Forbidden(c, "Admin registration disabled. Contact existing admin.")
		return
	}

	var req RegisterAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Invalid request body")
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		httperr.BadRequest(c, "Username, email and password are required")
		return
	}
	if !validators.IsEmailValid(req.Email) {
		httperr.BadRequest(c, "Invalid email format")
		return
	}
	if len(req.Password) < auth.MinPasswordLength {
		httperr.BadRequest(c, fmt.Sprintf("Password must be at least %d characters long", auth.MinPasswordLength))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		httperr.Internal(c, "Registration failed")
		return
	}

	admin := models.AdminUser{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         "admin",
	}
	if err := h.store.CreateAdmin(c.Request.Context(), &admin); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			httperr.Conflict(c, "Username or email already exists")
			return
		}
		httperr.FromStore(c, err, "admin user", "Registration failed", h.cfg.Development())
		return
	}

	httpresp.Created(c, gin.H{
		"message": "Admin user created successfully",
		"userId":  admin.ID,
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		httperr.Unauthorized(c, "Authentication required")
		return
	}

	admin, err := h.store.GetAdmin(c.Request.Context(), identity.Subject)
	if err != nil {
		httperr.FromStore(c, err, "admin user", "Failed to fetch profile", h.cfg.Development())
		return
	}

	httpresp.OK(c, gin.H{
		"id":        admin.ID,
		"username":  admin.Username,
		"email":     admin.Email,
		"role":      admin.Role,
		"lastLogin": admin.LastLogin,
		"createdAt": admin.CreatedAt,
	})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		httperr.Unauthorized(c, "Authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CurrentPassword == "" || req.NewPassword == "" {
		httperr.BadRequest(c, "Current password and new password are required")
		return
	}
	if len(req.NewPassword) < auth.MinPasswordLength {
		httperr.BadRequest(c, fmt.Sprintf("Password must be at least %d characters long", auth.MinPasswordLength))
		return
	}

	admin, err := h.store.GetAdmin(c.Request.Context(), identity.Subject)
	if err != nil {
		httperr.FromStore(c, err, "admin user", "Failed to change password", h.cfg.Development())
		return
	}

	if !auth.CheckPassword(req.CurrentPassword, admin.PasswordHash) {
		httperr.Unauthorized(c, "Current password is incorrect")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		httperr.Internal(c, "Failed to change password")
		return
	}
	if err := h.store.SetAdminPassword(c.Request.Context(), admin.ID, hash); err != nil {
		httperr.FromStore(c, err, "admin user", "Failed to change password", h.cfg.Development())
		return
	}

	httpresp.OK(c, gin.H{"message": "Password changed successfully"})
}
