package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/manforhire/contractor-api/internal/config"
	"github.com/manforhire/contractor-api/internal/httperr"
	"github.com/manforhire/contractor-api/internal/httpresp"
)

// MetaHandler serves the health check, the endpoint index and the API 404.
type MetaHandler struct {
	cfg     *config.Config
	started time.Time
}

func NewMetaHandler(cfg *config.Config) *MetaHandler {
	return &MetaHandler{cfg: cfg, started: time.Now()}
}

func (h *MetaHandler) Health(c *gin.Context) {
	httpresp.OK(c, gin.H{
		"status":      "OK",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"uptime":      time.Since(h.started).Seconds(),
		"environment": h.cfg.Env,
	})
}

func (h *MetaHandler) Docs(c *gin.Context) {
	httpresp.OK(c, gin.H{
		"name":        "Man for Hire API",
		"version":     "1.0.0",
		"description": "Backend API for contractor services website",
		"endpoints": gin.H{
			"public": []string{
				"GET /api/health - Health check",
				"GET /api/services - Get all services",
				"GET /api/services/categories - Get service categories",
				"GET /api/services/:id - Get specific service",
				"POST /api/work-orders - Submit work order",
				"POST /api/work-requests - Submit work request",
				"POST /api/contact - Submit contact message",
				"GET /api/gallery - Get gallery images",
				"POST /api/auth/login - Admin login",
				"POST /api/auth/register - Admin registration (first time only)",
				"POST /api/user-auth/register - Customer registration",
				"POST /api/user-auth/login - Customer login",
			},
			"admin": []string{
				"GET /api/admin/dashboard - Admin dashboard stats",
				"GET /api/work-orders - Get all work orders",
				"PUT /api/work-orders/:id - Update work order",
				"DELETE /api/work-orders/:id - Delete work order",
				"GET /api/work-requests/stats/summary - Work request statistics",
				"POST/PUT/DELETE /api/services/* - Manage services",
				"GET /api/contact - Get contact messages",
				"PUT /api/contact/:id - Update message status",
				"POST/PUT/DELETE /api/gallery/* - Manage gallery",
				"GET /api/auth/me - Get current user info",
				"POST /api/auth/change-password - Change password",
			},
		},
	})
}

func (h *MetaHandler) NotFound(c *gin.Context) {
	httperr.NotFound(c, "API route not found")
}
