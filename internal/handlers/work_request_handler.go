package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/manforhire/contractor-api/internal/config"
	"github.com/manforhire/contractor-api/internal/httperr"
	"github.com/manforhire/contractor-api/internal/httpresp"
	"github.com/manforhire/contractor-api/internal/models"
	"github.com/manforhire/contractor-api/internal/store"
)

type WorkRequestHandler struct {
	store store.Store
	cfg   *config.Config
}

func NewWorkRequestHandler(st store.Store, cfg *config.Config) *WorkRequestHandler {
	return &WorkRequestHandler{store: st, cfg: cfg}
}

// --------- Requests ---------

type CreateWorkRequestRequest struct {
	CustomerName      string `json:"customerName"`
	CustomerAddress   string `json:"customerAddress"`
	ProjectType       string `json:"projectType"`
	UrgencyLevel      string `json:"urgencyLevel"`
	ServicePreference string `json:"servicePreference"`
}

type UpdateWorkRequestRequest struct {
	Status     *string `json:"status,omitempty"`
	Notes      *string `json:"notes,omitempty"`
	AssignedTo *string `json:"assignedTo,omitempty"`
}

// --------- Handlers ---------

func (h *WorkRequestHandler) Create(c *gin.Context) {
	var req CreateWorkRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Invalid request body")
		return
	}

	if req.CustomerName == "" || req.CustomerAddress == "" || req.ProjectType == "" ||
		req.UrgencyLevel == "" || req.ServicePreference == "" {
		httperr.BadRequest(c, "Missing required fields: customerName, customerAddress, projectType, urgencyLevel, servicePreference")
		return
	}

	if !models.ValidUrgencyLevel(req.UrgencyLevel) {
		httperr.BadRequest(c, "Invalid urgency level")
		return
	}
	if !models.ValidServicePreference(req.ServicePreference) {
		httperr.BadRequest(c, "Invalid service preference")
		return
	}

	request := models.WorkRequest{
		CustomerName:      req.CustomerName,
		CustomerAddress:   req.CustomerAddress,
		ProjectType:       req.ProjectType,
		UrgencyLevel:      req.UrgencyLevel,
		ServicePreference: req.ServicePreference,
		Status:            "pending",
	}

	if err := h.store.CreateWorkRequest(c.Request.Context(), &request); err != nil {
		httperr.FromStore(c, err, "work request", "Failed to submit work request", h.cfg.Development())
		return
	}

	httpresp.Created(c, gin.H{
		"message":     "Work request submitted successfully",
		"workRequest": request,
	})
}

func (h *WorkRequestHandler) List(c *gin.Context) {
	f := store.WorkRequestFilter{
		Status:            c.Query("status"),
		UrgencyLevel:      c.Query("urgencyLevel"),
		ServicePreference: c.Query("servicePreference"),
	}
	p := pageFromQuery(c)

	requests, err := h.store.ListWorkRequests(c.Request.Context(), f, p)
	if err != nil {
		httperr.FromStore(c, err, "work request", "Failed to fetch work requests", h.cfg.Development())
		return
	}
	totalCount, err := h.store.CountWorkRequests(c.Request.Context(), f)
	if err != nil {
		httperr.FromStore(c, err, "work request", "Failed to fetch work requests", h.cfg.Development())
		return
	}

	page, limit, _ := p.Resolve()
	httpresp.OK(c, gin.H{
		"workRequests": requests,
		"page":         page,
		"limit":        limit,
		"totalCount":   totalCount,
		"totalPages":   totalPages(totalCount, limit),
	})
}

func (h *WorkRequestHandler) Get(c *gin.Context) {
	request, err := h.store.GetWorkRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.FromStore(c, err, "work request", "Failed to fetch work request", h.cfg.Development())
		return
	}
	httpresp.OK(c, request)
}

func (h *WorkRequestHandler) Update(c *gin.Context) {
	var req UpdateWorkRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Invalid request body")
		return
	}

	if req.Status != nil && !models.ValidWorkRequestStatus(*req.Status) {
		httperr.BadRequest(c, "Invalid status value")
		return
	}

	upd := store.WorkRequestUpdate{
		Status:     req.Status,
		Notes:      req.Notes,
		AssignedTo: req.AssignedTo,
	}
	if upd.Empty() {
		httperr.BadRequest(c, "No valid fields to update")
		return
	}

	request, err := h.store.UpdateWorkRequest(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		httperr.FromStore(c, err, "work request", "Failed to update work request", h.cfg.Development())
		return
	}

	httpresp.OK(c, gin.H{
		"message":     "Work request updated successfully",
		"workRequest": request,
	})
}

func (h *WorkRequestHandler) Delete(c *gin.Context) {
	if err := h.store.DeleteWorkRequest(c.Request.Context(), c.Param("id")); err != nil {
		httperr.FromStore(c, err, "work request", "Failed to delete work request", h.cfg.Development())
		return
	}
	httpresp.OK(c, gin.H{"message": "Work request deleted successfully"})
}

func (h *WorkRequestHandler) Summary(c *gin.Context) {
	sum, err := h.store.SummarizeWorkRequests(c.Request.Context())
	if err != nil {
		httperr.FromStore(c, err, "work request", "Failed to fetch statistics", h.cfg.Development())
		return
	}
	httpresp.OK(c, sum)
}
