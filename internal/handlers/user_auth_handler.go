package handlers

import (
	"errors"
	"fmt"

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

// UserAuthHandler serves the customer-facing account endpoints, separate
// from the admin auth surface.
type UserAuthHandler struct {
	store store.Store
	cfg   *config.Config
}

func NewUserAuthHandler(st store.Store, cfg *config.Config) *UserAuthHandler {
	return &UserAuthHandler{store: st, cfg: cfg}
}

type RegisterUserRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserAuthHandler) Register(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		httperr.BadRequest(c, "Missing required fields: email, password, firstName, lastName")
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

	user := models.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Address:      req.Address,
		Role:         "user",
		IsActive:     true,
	}
	if err := h.store.CreateUser(c.Request.Context(), &user); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			httperr.Conflict(c, "An account with this email already exists")
			return
		}
		httperr.FromStore(c, err, "user", "Registration failed", h.cfg.Development())
		return
	}

	token, err := auth.IssueToken(h.cfg, auth.Identity{
		Subject:  user.ID,
		Kind:     auth.KindUser,
		Role:     user.Role,
		Username: user.Email,
	})
	if err != nil {
		httperr.Internal(c, "Registration failed")
		return
	}

	httpresp.Created(c, gin.H{
		"message": "Account created successfully",
		"token":   token,
		"user":    user,
	})
}

func (h *UserAuthHandler) Login(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		httperr.BadRequest(c, "Email and password are required")
		return
	}

	user, err := h.store.FindUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httperr.Unauthorized(c, "Invalid credentials")
			return
		}
		httperr.FromStore(c, err, "user", "Login failed", h.cfg.Development())
		return
	}

	if !user.IsActive {
		httperr.Unauthorized(c, "Account is deactivated")
		return
	}
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		httperr.Unauthorized(c, "Invalid credentials")
		return
	}

	token, err := auth.IssueToken(h.cfg, auth.Identity{
		Subject:  user.ID,
		Kind:     auth.KindUser,
		Role:     user.Role,
		Username: user.Email,
	})
	if err != nil {
		httperr.Internal(c, "Login failed")
		return
	}

	httpresp.OK(c, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

func (h *UserAuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		httperr.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.store.GetUser(c.Request.Context(), identity.Subject)
	if err != nil {
		httperr.FromStore(c, err, "user", "Failed to fetch profile", h.cfg.Development())
		return
	}

	httpresp.OK(c, user)
}
