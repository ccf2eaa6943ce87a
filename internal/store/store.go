package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/manforhire/contractor-api/internal/config"
	"github.com/manforhire/contractor-api/internal/models"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrInvalidID    = errors.New("invalid identifier")
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
)

// Page is offset-based pagination input. Non-positive values fall back to
// the defaults.
type Page struct {
	Page  int
	Limit int
}

func (p Page) Resolve() (page, limit, offset int) {
	page, limit = p.Page, p.Limit
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return page, limit, (page - 1) * limit
}

// ---------- Filters ----------

type ServiceFilter struct {
	Category   string
	ActiveOnly bool
}

type WorkOrderFilter struct {
	Status string
	UserID string
}

type WorkRequestFilter struct {
	Status            string
	UrgencyLevel      string
	ServicePreference string
}

type ContactFilter struct {
	Status string
}

type GalleryFilter struct {
	Category     string
	FeaturedOnly bool
}

// ---------- Partial updates ----------
//
// Each update struct carries one pointer per mutable field; nil means the
// field is left unchanged. Both backends apply updates through the same
// Apply methods so their observable behavior cannot drift.

type ServiceUpdate struct {
	Name        *string
	Description *string
	Category    *string
	BasePrice   *float64
	Unit        *string
	IsActive    *bool
	ImageURL    *string
}

func (u ServiceUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Category == nil &&
		u.BasePrice == nil && u.Unit == nil && u.IsActive == nil && u.ImageURL == nil
}

func (u ServiceUpdate) Apply(s *models.Service) {
	if u.Name != nil {
		s.Name = *u.Name
	}
	if u.Description != nil {
		s.Description = *u.Description
	}
	if u.Category != nil {
		s.Category = *u.Category
	}
	if u.BasePrice != nil {
		s.BasePrice = *u.BasePrice
	}
	if u.Unit != nil {
		s.Unit = *u.Unit
	}
	if u.IsActive != nil {
		s.IsActive = *u.IsActive
	}
	if u.ImageURL != nil {
		s.ImageURL = *u.ImageURL
	}
}

type WorkOrderUpdate struct {
	Status *string
	Notes  *string
}

func (u WorkOrderUpdate) Empty() bool {
	return u.Status == nil && u.Notes == nil
}

func (u WorkOrderUpdate) Apply(o *models.WorkOrder) {
	if u.Status != nil {
		o.Status = *u.Status
	}
	if u.Notes != nil {
		o.Notes = *u.Notes
	}
}

type WorkRequestUpdate struct {
	Status     *string
	Notes      *string
	AssignedTo *string
}

func (u WorkRequestUpdate) Empty() bool {
	return u.Status == nil && u.Notes == nil && u.AssignedTo == nil
}

func (u WorkRequestUpdate) Apply(r *models.WorkRequest) {
	if u.Status != nil {
		r.Status = *u.Status
	}
	if u.Notes != nil {
		r.Notes = *u.Notes
	}
	if u.AssignedTo != nil {
		r.AssignedTo = *u.AssignedTo
	}
}

type GalleryUpdate struct {
	Title       *string
	Description *string
	Category    *string
	ProjectDate *string
	IsFeatured  *bool
}

func (u GalleryUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Category == nil &&
		u.ProjectDate == nil && u.IsFeatured == nil
}

func (u GalleryUpdate) Apply(g *models.GalleryImage) {
	if u.Title != nil {
		g.Title = *u.Title
	}
	if u.Description != nil {
		g.Description = *u.Description
	}
	if u.Category != nil {
		g.Category = *u.Category
	}
	if u.ProjectDate != nil {
		g.ProjectDate = *u.ProjectDate
	}
	if u.IsFeatured != nil {
		g.IsFeatured = *u.IsFeatured
	}
}

// ---------- Aggregates ----------

type CategorySummary struct {
	Category     string  `json:"category"`
	ServiceCount int64   `json:"service_count"`
	MinPrice     float64 `json:"min_price"`
	MaxPrice     float64 `json:"max_price"`
}

type ServiceTypeCount struct {
	ServiceType string `json:"service_type"`
	Count       int64  `json:"count"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type DashboardStats struct {
	PendingOrders    int64              `json:"pendingOrders"`
	InProgressOrders int64              `json:"inProgressOrders"`
	CompletedOrders  int64              `json:"completedOrders"`
	UnreadMessages   int64              `json:"unreadMessages"`
	GalleryImages    int64              `json:"galleryImages"`
	ActiveServices   int64              `json:"activeServices"`
	PopularServices  []ServiceTypeCount `json:"popularServices"`
	WeeklyActivity   []DailyCount       `json:"weeklyActivity"`
}

type ValueCount struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

type WorkRequestSummary struct {
	Total         int64        `json:"total"`
	ByStatus      []ValueCount `json:"byStatus"`
	ByUrgency     []ValueCount `json:"byUrgency"`
	ByServiceType []ValueCount `json:"byServiceType"`
}

// Store is the persistence contract over the six record kinds. The two
// backends must produce identical externally observable results for
// identical inputs.
type Store interface {
	// Services
	ListServices(ctx context.Context, f ServiceFilter) ([]models.Service, error)
	GetService(ctx context.Context, id string) (*models.Service, error)
	CreateService(ctx context.Context, svc *models.Service) error
	UpdateService(ctx context.Context, id string, upd ServiceUpdate) (*models.Service, error)
	DeleteService(ctx context.Context, id string) error
	ServiceCategories(ctx context.Context) ([]CategorySummary, error)
	CountServices(ctx context.Context) (int64, error)

	// Work orders
	ListWorkOrders(ctx context.Context, f WorkOrderFilter, p Page) ([]models.WorkOrder, error)
	CountWorkOrders(ctx context.Context, f WorkOrderFilter) (int64, error)
	GetWorkOrder(ctx context.Context, id string) (*models.WorkOrder, error)
	CreateWorkOrder(ctx context.Context, o *models.WorkOrder) error
	UpdateWorkOrder(ctx context.Context, id string, upd WorkOrderUpdate) (*models.WorkOrder, error)
	DeleteWorkOrder(ctx context.Context, id string) error

	// Work requests
	ListWorkRequests(ctx context.Context, f WorkRequestFilter, p Page) ([]models.WorkRequest, error)
	CountWorkRequests(ctx context.Context, f WorkRequestFilter) (int64, error)
	GetWorkRequest(ctx context.Context, id string) (*models.WorkRequest, error)
	CreateWorkRequest(ctx context.Context, r *models.WorkRequest) error
	UpdateWorkRequest(ctx context.Context, id string, upd WorkRequestUpdate) (*models.WorkRequest, error)
	DeleteWorkRequest(ctx context.Context, id string) error
	SummarizeWorkRequests(ctx context.Context) (*WorkRequestSummary, error)

	// Contact messages
	ListContactMessages(ctx context.Context, f ContactFilter, p Page) ([]models.ContactMessage, error)
	CreateContactMessage(ctx context.Context, m *models.ContactMessage) error
	UpdateContactStatus(ctx context.Context, id, status string) (*models.ContactMessage, error)

	// Gallery
	ListGalleryImages(ctx context.Context, f GalleryFilter, p Page) ([]models.GalleryImage, error)
	GetGalleryImage(ctx context.Context, id string) (*models.GalleryImage, error)
	CreateGalleryImage(ctx context.Context, g *models.GalleryImage) error
	UpdateGalleryImage(ctx context.Context, id string, upd GalleryUpdate) (*models.GalleryImage, error)
	DeleteGalleryImage(ctx context.Context, id string) error

	// Admin users
	FindAdminByLogin(ctx context.Context, login string) (*models.AdminUser, error)
	GetAdmin(ctx context.Context, id string) (*models.AdminUser, error)
	CreateAdmin(ctx context.Context, a *models.AdminUser) error
	CountAdmins(ctx context.Context) (int64, error)
	SetAdminPassword(ctx context.Context, id, hash string) error
	TouchAdminLastLogin(ctx context.Context, id string, at time.Time) error

	// End users
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error

	// Dashboard
	DashboardStats(ctx context.Context, now time.Time) (*DashboardStats, error)

	Close() error
}

// New opens the backend selected by the configuration.
func New(cfg *config.Config) (Store, error) {
	switch cfg.StoreBackend {
	case "bolt":
		return OpenBolt(cfg.BoltPath)
	case "", "postgres":
		return OpenPostgres(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// checkID rejects identifiers that are not well-formed keys before any
// query executes.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}

func newID() string {
	return uuid.NewString()
}

func stamp(createdAt, updatedAt *time.Time) {
	now := time.Now().UTC()
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = now
}
