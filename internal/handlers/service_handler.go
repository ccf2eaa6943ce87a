package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/manforhire/contractor-api/internal/config"
	"github.com/manforhire/contractor-api/internal/httperr"
	"github.com/manforhire/contractor-api/internal/httpresp"
	"github.com/manforhire/contractor-api/internal/models"
	"github.com/manforhire/contractor-api/internal/store"
)

type ServiceHandler struct {
	store store.Store
	cfg   *config.Config
}

func NewServiceHandler(st store.Store, cfg *config.Config) *ServiceHandler {
	return &ServiceHandler{store: st, cfg: cfg}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	BasePrice   any    `json:"basePrice"`
	Unit        string `json:"unit"`
	IsActive    *bool  `json:"isActive"`
	ImageURL    string `json:"imageUrl"`
}

type UpdateServiceRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	BasePrice   any     `json:"basePrice,omitempty"`
	Unit        *string `json:"unit,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	f := store.ServiceFilter{
		Category:   c.Query("category"),
		ActiveOnly: c.DefaultQuery("active_only", "true") == "true",
	}

	services, err := h.store.ListServices(c.Request.Context(), f)
	if err != nil {
		httperr.FromStore(c, err, "service", "Failed to fetch services", h.cfg.Development())
		return
	}
	httpresp.OK(c, services)
}

func (h *ServiceHandler) Categories(c *gin.Context) {
	categories, err := h.store.ServiceCategories(c.Request.Context())
	if err != nil {
		httperr.FromStore(c, err, "service", "Failed to fetch categories", h.cfg.Development())
		return
	}
	httpresp.OK(c, categories)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	svc, err := h.store.GetService(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.FromStore(c, err, "service", "Failed to fetch service", h.cfg.Development())
		return
	}
	httpresp.OK(c, svc)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Invalid request body")
		return
	}

	if req.Name == "" || req.Category == "" || req.BasePrice == nil {
		httperr.BadRequest(c, "Missing required fields: name, category, basePrice")
		return
	}

	price, ok := coercePrice(req.BasePrice)
	if !ok || price < 0 {
		httperr.BadRequest(c, "basePrice must be a positive number")
		return
	}

	unit := req.Unit
	if unit == "" {
		unit = "per hour"
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	svc := models.Service{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		BasePrice:   price,
		Unit:        unit,
		IsActive:    active,
		ImageURL:    req.ImageURL,
	}

	if err := h.store.CreateService(c.Request.Context(), &svc); err != nil {
		httperr.FromStore(c, err, "service", "Failed to create service", h.cfg.Development())
		return
	}

	httpresp.Created(c, gin.H{
		"message": "Service created successfully",
		"service": svc,
	})
}

func (h *ServiceHandler) Update(c *gin.Context) {
	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Invalid request body")
		return
	}

	upd := store.ServiceUpdate{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Unit:        req.Unit,
		IsActive:    req.IsActive,
		ImageURL:    req.ImageURL,
	}

	if req.BasePrice != nil {
		price, ok := coercePrice(req.BasePrice)
		if !ok || price < 0 {
			httperr.BadRequest(c, "basePrice must be a positive number")
			return
		}
		upd.BasePrice = &price
	}

	if upd.Empty() {
		httperr.BadRequest(c, "No valid fields to update")
		return
	}

	svc, err := h.store.UpdateService(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		httperr.FromStore(c, err, "service", "Failed to update service", h.cfg.Development())
		return
	}

	httpresp.OK(c, gin.H{
		"message": "Service updated successfully",
		"service": svc,
	})
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	if err := h.store.DeleteService(c.Request.Context(), c.Param("id")); err != nil {
		httperr.FromStore(c, err, "service", "Failed to delete service", h.cfg.Development())
		return
	}
	httpresp.OK(c, gin.H{"message": "Service deleted successfully"})
}
