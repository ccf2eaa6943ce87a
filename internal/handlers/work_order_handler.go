package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/manforhire/contractor-api/internal/config"
	"github.com/manforhire/contractor-api/internal/httperr"
	"github.com/manforhire/contractor-api/internal/httpresp"
	"github.com/manforhire/contractor-api/internal/middleware"
	"github.com/manforhire/contractor-api/internal/models"
	"github.com/manforhire/contractor-api/internal/store"
	"github.com/manforhire/contractor-api/internal/upload"
	"github.com/manforhire/contractor-api/internal/validators"
)

type WorkOrderHandler struct {
	store store.Store
	cfg   *config.Config
}

func NewWorkOrderHandler(st store.Store, cfg *config.Config) *WorkOrderHandler {
	return &WorkOrderHandler{store: st, cfg: cfg}
}

type UpdateWorkOrderRequest struct {
	Status *string `json:"status,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

// Create accepts a multipart submission with up to five image attachments.
// A valid user token attaches the caller as owner; an absent or invalid
// token still succeeds as a guest submission.
func (h *WorkOrderHandler) Create(c *gin.Context) {
	customerName := c.PostForm("customerName")
	customerEmail := c.PostForm("customerEmail")
	serviceType := c.PostForm("serviceType")
	description := c.PostForm("description")

	if customerName == "" || customerEmail == "" || serviceType == "" || description == "" {
		httperr.BadRequest(c, "Missing required fields: customerName, customerEmail, serviceType, description")
		return
	}
	if !validators.IsEmailValid(customerEmail) {
		httperr.BadRequest(c, "Invalid email format")
		return
	}

	priority := c.DefaultPostForm("priority", "medium")
	if !models.ValidWorkOrderPriority(priority) {
		httperr.BadRequest(c, "Invalid priority value")
		return
	}

	var userID *string
	if identity, ok := middleware.IdentityFrom(c); ok {
		userID = &identity.Subject
	}

	images := []string{}
	if form, err := c.MultipartForm(); err == nil && form != nil {
		saved, err := upload.SaveImages(
			form.File["images"],
			h.cfg.UploadDir,
			upload.WorkOrderDir,
			upload.MaxWorkOrders,
			upload.MaxWorkOrderImageSize,
		)
		if err != nil {
			var upErr *upload.Error
			if errors.As(err, &upErr) {
				httperr.BadRequest(c, upErr.Error())
				return
			}
			httperr.Internal(c, "Failed to store uploaded images")
			return
		}
		images = saved
	}

	order := models.WorkOrder{
		UserID:          userID,
		CustomerName:    customerName,
		CustomerEmail:   customerEmail,
		CustomerPhone:   c.PostForm("customerPhone"),
		CustomerAddress: c.PostForm("customerAddress"),
		ServiceType:     serviceType,
		Description:     description,
		Priority:        priority,
		PreferredDate:   c.PostForm("preferredDate"),
		PreferredTime:   c.PostForm("preferredTime"),
		BudgetRange:     c.PostForm("budgetRange"),
		Notes:           c.PostForm("notes"),
		Status:          "pending",
		Images:          images,
	}

	if err := h.store.CreateWorkOrder(c.Request.Context(), &order); err != nil {
		httperr.FromStore(c, err, "work order", "Failed to submit work order", h.cfg.Development())
		return
	}

	httpresp.Created(c, gin.H{
		"message":   "Work order submitted successfully",
		"workOrder": order,
	})
}

func (h *WorkOrderHandler) List(c *gin.Context) {
	f := store.WorkOrderFilter{Status: c.Query("status")}
	p := pageFromQuery(c)

	orders, err := h.store.ListWorkOrders(c.Request.Context(), f, p)
	if err != nil {
		httperr.FromStore(c, err, "work order", "Failed to fetch work orders", h.cfg.Development())
		return
	}

	page, limit, _ := p.Resolve()
	httpresp.OK(c, gin.H{
		"workOrders": orders,
		"page":       page,
		"limit":      limit,
	})
}

// MyOrders lists only the caller's orders. The owner filter comes from the
// verified token subject, never from client input.
func (h *WorkOrderHandler) MyOrders(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		httperr.Unauthorized(c, "Authentication required")
		return
	}

	f := store.WorkOrderFilter{
		Status: c.Query("status"),
		UserID: identity.Subject,
	}
	p := pageFromQuery(c)

	orders, err := h.store.ListWorkOrders(c.Request.Context(), f, p)
	if err != nil {
		httperr.FromStore(c, err, "work order", "Failed to fetch work orders", h.cfg.Development())
		return
	}
	totalCount, err := h.store.CountWorkOrders(c.Request.Context(), f)
	if err != nil {
		httperr.FromStore(c, err, "work order", "Failed to fetch work orders", h.cfg.Development())
		return
	}

	page, limit, _ := p.Resolve()
	httpresp.OK(c, gin.H{
		"workOrders": orders,
		"page":       page,
		"limit":      limit,
		"totalCount": totalCount,
		"totalPages": totalPages(totalCount, limit),
	})
}

func (h *WorkOrderHandler) Get(c *gin.Context) {
	order, err := h.store.GetWorkOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.FromStore(c, err, "work order", "Failed to fetch work order", h.cfg.Development())
		return
	}
	httpresp.OK(c, order)
}

func (h *WorkOrderHandler) Update(c *gin.Context) {
	var req UpdateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Invalid request body")
		return
	}

	if req.Status != nil && !models.ValidWorkOrderStatus(*req.Status) {
		httperr.BadRequest(c, "Invalid status value")
		return
	}

	upd := store.WorkOrderUpdate{Status: req.Status, Notes: req.Notes}
	if upd.Empty() {
		httperr.BadRequest(c, "No valid fields to update")
		return
	}

	order, err := h.store.UpdateWorkOrder(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		httperr.FromStore(c, err, "work order", "Failed to update work order", h.cfg.Development())
		return
	}

	httpresp.OK(c, gin.H{
		"message":   "Work order updated successfully",
		"workOrder": order,
	})
}

func (h *WorkOrderHandler) Delete(c *gin.Context) {
	if err := h.store.DeleteWorkOrder(c.Request.Context(), c.Param("id")); err != nil {
		httperr.FromStore(c, err, "work order", "Failed to delete work order", h.cfg.Development())
		return
	}
	httpresp.OK(c, gin.H{"message": "Work order deleted successfully"})
}
