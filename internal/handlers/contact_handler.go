package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/manforhire/contractor-api/internal/config"
	"github.com/manforhire/contractor-api/internal/httperr"
	"github.com/manforhire/contractor-api/internal/httpresp"
	"github.com/manforhire/contractor-api/internal/models"
	"github.com/manforhire/contractor-api/internal/store"
	"github.com/manforhire/contractor-api/internal/validators"
)

type ContactHandler struct {
	store store.Store
	cfg   *config.Config
}

func NewContactHandler(st store.Store, cfg *config.Config) *ContactHandler {
	return &ContactHandler{store: st, cfg: cfg}
}

type CreateContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type UpdateContactRequest struct {
	Status string `json:"status"`
}

func (h *ContactHandler) Create(c *gin.Context) {
	var req CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" || req.Message == "" {
		httperr.BadRequest(c, "Missing required fields: name, email, message")
		return
	}
	if !validators.IsEmailValid(req.Email) {
		httperr.BadRequest(c, "Invalid email format")
		return
	}

	message := models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
		Status:  "unread",
	}

	if err := h.store.CreateContactMessage(c.Request.Context(), &message); err != nil {
		httperr.FromStore(c, err, "contact message", "Failed to submit contact message", h.cfg.Development())
		return
	}

	httpresp.Created(c, gin.H{
		"message": "Contact message submitted successfully",
		"id":      message.ID,
	})
}

func (h *ContactHandler) List(c *gin.Context) {
	f := store.ContactFilter{Status: c.Query("status")}
	p := pageFromQuery(c)

	messages, err := h.store.ListContactMessages(c.Request.Context(), f, p)
	if err != nil {
		httperr.FromStore(c, err, "contact message", "Failed to fetch contact messages", h.cfg.Development())
		return
	}

	page, limit, _ := p.Resolve()
	httpresp.OK(c, gin.H{
		"messages": messages,
		"page":     page,
		"limit":    limit,
	})
}

func (h *ContactHandler) UpdateStatus(c *gin.Context) {
	var req UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Invalid request body")
		return
	}

	if !models.ValidContactStatus(req.Status) {
		httperr.BadRequest(c, "Invalid status value")
		return
	}

	if _, err := h.store.UpdateContactStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		httperr.FromStore(c, err, "contact message", "Failed to update contact message", h.cfg.Development())
		return
	}

	httpresp.OK(c, gin.H{"message": "Contact message status updated successfully"})
}
