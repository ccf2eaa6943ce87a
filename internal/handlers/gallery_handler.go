package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/manforhire/contractor-api/internal/config"
	"github.com/manforhire/contractor-api/internal/httperr"
	"github.com/manforhire/contractor-api/internal/httpresp"
	"github.com/manforhire/contractor-api/internal/models"
	"github.com/manforhire/contractor-api/internal/store"
	"github.com/manforhire/contractor-api/internal/upload"
)

type GalleryHandler struct {
	store store.Store
	cfg   *config.Config
}

func NewGalleryHandler(st store.Store, cfg *config.Config) *GalleryHandler {
	return &GalleryHandler{store: st, cfg: cfg}
}

type UpdateGalleryRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	ProjectDate *string `json:"projectDate,omitempty"`
	IsFeatured  any     `json:"isFeatured,omitempty"`
}

func (h *GalleryHandler) List(c *gin.Context) {
	f := store.GalleryFilter{
		Category:     c.Query("category"),
		FeaturedOnly: c.Query("featured_only") == "true",
	}
	p := pageFromQuery(c)

	images, err := h.store.ListGalleryImages(c.Request.Context(), f, p)
	if err != nil {
		httperr.FromStore(c, err, "gallery image", "Failed to fetch gallery images", h.cfg.Development())
		return
	}

	page, limit, _ := p.Resolve()
	httpresp.OK(c, gin.H{
		"images": images,
		"page":   page,
		"limit":  limit,
	})
}

func (h *GalleryHandler) Get(c *gin.Context) {
	image, err := h.store.GetGalleryImage(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.FromStore(c, err, "gallery image", "Failed to fetch gallery image", h.cfg.Development())
		return
	}
	httpresp.OK(c, image)
}

func (h *GalleryHandler) Create(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		httperr.BadRequest(c, "No image file provided")
		return
	}

	imageURL, err := upload.SaveImage(fh, h.cfg.UploadDir, upload.GalleryDir, upload.MaxGalleryImageSize)
	if err != nil {
		var upErr *upload.Error
		if errors.As(err, &upErr) {
			httperr.BadRequest(c, upErr.Error())
			return
		}
		httperr.Internal(c, "Failed to store uploaded image")
		return
	}

	image := models.GalleryImage{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		ImageURL:    imageURL,
		Category:    c.PostForm("category"),
		ProjectDate: c.PostForm("projectDate"),
		IsFeatured:  c.PostForm("isFeatured") == "true",
	}

	if err := h.store.CreateGalleryImage(c.Request.Context(), &image); err != nil {
		httperr.FromStore(c, err, "gallery image", "Failed to upload gallery image", h.cfg.Development())
		return
	}

	httpresp.Created(c, gin.H{
		"message": "Gallery image uploaded successfully",
		"image":   image,
	})
}

func (h *GalleryHandler) Update(c *gin.Context) {
	var req UpdateGalleryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Invalid request body")
		return
	}

	upd := store.GalleryUpdate{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		ProjectDate: req.ProjectDate,
	}
	if req.IsFeatured != nil {
		featured := coerceBool(req.IsFeatured)
		upd.IsFeatured = &featured
	}

	if upd.Empty() {
		httperr.BadRequest(c, "No valid fields to update")
		return
	}

	image, err := h.store.UpdateGalleryImage(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		httperr.FromStore(c, err, "gallery image", "Failed to update gallery image", h.cfg.Development())
		return
	}

	httpresp.OK(c, gin.H{
		"message": "Gallery image updated successfully",
		"image":   image,
	})
}

func (h *GalleryHandler) Delete(c *gin.Context) {
	if err := h.store.DeleteGalleryImage(c.Request.Context(), c.Param("id")); err != nil {
		httperr.FromStore(c, err, "gallery image", "Failed to delete gallery image", h.cfg.Development())
		return
	}
	httpresp.OK(c, gin.H{"message": "Gallery image deleted successfully"})
}
