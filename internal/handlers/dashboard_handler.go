package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/manforhire/contractor-api/internal/config"
	"github.com/manforhire/contractor-api/internal/httperr"
	"github.com/manforhire/contractor-api/internal/httpresp"
	"github.com/manforhire/contractor-api/internal/store"
)

type DashboardHandler struct {
	store store.Store
	cfg   *config.Config
}

func NewDashboardHandler(st store.Store, cfg *config.Config) *DashboardHandler {
	return &DashboardHandler{store: st, cfg: cfg}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.store.DashboardStats(c.Request.Context(), time.Now().UTC())
	if err != nil {
		httperr.FromStore(c, err, "dashboard", "Failed to fetch dashboard data", h.cfg.Development())
		return
	}
	httpresp.OK(c, stats)
}
