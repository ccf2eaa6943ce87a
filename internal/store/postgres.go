package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/manforhire/contractor-api/internal/models"
)

// PostgresStore is the relational backend.
type PostgresStore struct {
	db *gorm.DB
}

func OpenPostgres(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Service{},
		&models.WorkOrder{},
		&models.WorkRequest{},
		&models.ContactMessage{},
		&models.GalleryImage{},
		&models.AdminUser{},
		&models.User{},
	); err != nil {
		return nil, err
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// translateErr maps driver errors onto the store taxonomy so no
// backend-specific error escapes.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateKey
	}
	return err
}

// --------------------------------------------------
// Services
// --------------------------------------------------

func (s *PostgresStore) ListServices(ctx context.Context, f ServiceFilter) ([]models.Service, error) {
	q := s.db.WithContext(ctx)
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}

	services := []models.Service{}
	if err := q.Order("category ASC, name ASC").Find(&services).Error; err != nil {
		return nil, translateErr(err)
	}
	return services, nil
}

func (s *PostgresStore) GetService(ctx context.Context, id string) (*models.Service, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var svc models.Service
	if err := s.db.WithContext(ctx).First(&svc, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &svc, nil
}

func (s *PostgresStore) CreateService(ctx context.Context, svc *models.Service) error {
	if svc.ID == "" {
		svc.ID = newID()
	}
	stamp(&svc.CreatedAt, &svc.UpdatedAt)
	return translateErr(s.db.WithContext(ctx).Create(svc).Error)
}

func (s *PostgresStore) UpdateService(ctx context.Context, id string, upd ServiceUpdate) (*models.Service, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var svc models.Service
	if err := s.db.WithContext(ctx).First(&svc, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	upd.Apply(&svc)
	svc.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Save(&svc).Error; err != nil {
		return nil, translateErr(err)
	}
	return &svc, nil
}

func (s *PostgresStore) DeleteService(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Delete(&models.Service{}, "id = ?", id)
	if res.Error != nil {
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ServiceCategories(ctx context.Context) ([]CategorySummary, error) {
	out := []CategorySummary{}
	err := s.db.WithContext(ctx).
		Model(&models.Service{}).
		Select("category, COUNT(*) AS service_count, MIN(base_price) AS min_price, MAX(base_price) AS max_price").
		Where("is_active = ?", true).
		Group("category").
		Order("category ASC").
		Scan(&out).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return out, nil
}

func (s *PostgresStore) CountServices(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Service{}).Count(&n).Error
	return n, translateErr(err)
}

// --------------------------------------------------
// Work orders
// --------------------------------------------------

func (s *PostgresStore) workOrderQuery(ctx context.Context, f WorkOrderFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.WorkOrder{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	return q
}

func (s *PostgresStore) ListWorkOrders(ctx context.Context, f WorkOrderFilter, p Page) ([]models.WorkOrder, error) {
	_, limit, offset := p.Resolve()

	orders := []models.WorkOrder{}
	err := s.workOrderQuery(ctx, f).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return orders, nil
}

func (s *PostgresStore) CountWorkOrders(ctx context.Context, f WorkOrderFilter) (int64, error) {
	var n int64
	err := s.workOrderQuery(ctx, f).Count(&n).Error
	return n, translateErr(err)
}

func (s *PostgresStore) GetWorkOrder(ctx context.Context, id string) (*models.WorkOrder, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var o models.WorkOrder
	if err := s.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &o, nil
}

func (s *PostgresStore) CreateWorkOrder(ctx context.Context, o *models.WorkOrder) error {
	if o.ID == "" {
		o.ID = newID()
	}
	if o.Images == nil {
		o.Images = models.ImageList{}
	}
	stamp(&o.CreatedAt, &o.UpdatedAt)
	return translateErr(s.db.WithContext(ctx).Create(o).Error)
}

func (s *PostgresStore) UpdateWorkOrder(ctx context.Context, id string, upd WorkOrderUpdate) (*models.WorkOrder, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var o models.WorkOrder
	if err := s.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	upd.Apply(&o)
	o.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Save(&o).Error; err != nil {
		return nil, translateErr(err)
	}
	return &o, nil
}

func (s *PostgresStore) DeleteWorkOrder(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Delete(&models.WorkOrder{}, "id = ?", id)
	if res.Error != nil {
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// Work requests
// --------------------------------------------------

func (s *PostgresStore) workRequestQuery(ctx context.Context, f WorkRequestFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.WorkRequest{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.UrgencyLevel != "" {
		q = q.Where("urgency_level = ?", f.UrgencyLevel)
	}
	if f.ServicePreference != "" {
		q = q.Where("service_preference = ?", f.ServicePreference)
	}
	return q
}

func (s *PostgresStore) ListWorkRequests(ctx context.Context, f WorkRequestFilter, p Page) ([]models.WorkRequest, error) {
	_, limit, offset := p.Resolve()

	requests := []models.WorkRequest{}
	err := s.workRequestQuery(ctx, f).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&requests).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return requests, nil
}

func (s *PostgresStore) CountWorkRequests(ctx context.Context, f WorkRequestFilter) (int64, error) {
	var n int64
	err := s.workRequestQuery(ctx, f).Count(&n).Error
	return n, translateErr(err)
}

func (s *PostgresStore) GetWorkRequest(ctx context.Context, id string) (*models.WorkRequest, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var r models.WorkRequest
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &r, nil
}

func (s *PostgresStore) CreateWorkRequest(ctx context.Context, r *models.WorkRequest) error {
	if r.ID == "" {
		r.ID = newID()
	}
	stamp(&r.CreatedAt, &r.UpdatedAt)
	return translateErr(s.db.WithContext(ctx).Create(r).Error)
}

func (s *PostgresStore) UpdateWorkRequest(ctx context.Context, id string, upd WorkRequestUpdate) (*models.WorkRequest, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var r models.WorkRequest
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	upd.Apply(&r)
	r.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Save(&r).Error; err != nil {
		return nil, translateErr(err)
	}
	return &r, nil
}

func (s *PostgresStore) DeleteWorkRequest(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Delete(&models.WorkRequest{}, "id = ?", id)
	if res.Error != nil {
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// Contact messages
// --------------------------------------------------

func (s *PostgresStore) ListContactMessages(ctx context.Context, f ContactFilter, p Page) ([]models.ContactMessage, error) {
	_, limit, offset := p.Resolve()

	q := s.db.WithContext(ctx).Model(&models.ContactMessage{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	messages := []models.ContactMessage{}
	err := q.Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return messages, nil
}

func (s *PostgresStore) CreateContactMessage(ctx context.Context, m *models.ContactMessage) error {
	if m.ID == "" {
		m.ID = newID()
	}
	if m.Status == "" {
		m.Status = "unread"
	}
	stamp(&m.CreatedAt, &m.UpdatedAt)
	return translateErr(s.db.WithContext(ctx).Create(m).Error)
}

func (s *PostgresStore) UpdateContactStatus(ctx context.Context, id, status string) (*models.ContactMessage, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var m models.ContactMessage
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	m.Status = status
	m.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Save(&m).Error; err != nil {
		return nil, translateErr(err)
	}
	return &m, nil
}

// --------------------------------------------------
// Gallery
// --------------------------------------------------

func (s *PostgresStore) ListGalleryImages(ctx context.Context, f GalleryFilter, p Page) ([]models.GalleryImage, error) {
	_, limit, offset := p.Resolve()

	q := s.db.WithContext(ctx).Model(&models.GalleryImage{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.FeaturedOnly {
		q = q.Where("is_featured = ?", true)
	}

	images := []models.GalleryImage{}
	err := q.Order("is_featured DESC, created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&images).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return images, nil
}

func (s *PostgresStore) GetGalleryImage(ctx context.Context, id string) (*models.GalleryImage, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var g models.GalleryImage
	if err := s.db.WithContext(ctx).First(&g, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &g, nil
}

func (s *PostgresStore) CreateGalleryImage(ctx context.Context, g *models.GalleryImage) error {
	if g.ID == "" {
		g.ID = newID()
	}
	stamp(&g.CreatedAt, &g.UpdatedAt)
	return translateErr(s.db.WithContext(ctx).Create(g).Error)
}

func (s *PostgresStore) UpdateGalleryImage(ctx context.Context, id string, upd GalleryUpdate) (*models.GalleryImage, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var g models.GalleryImage
	if err := s.db.WithContext(ctx).First(&g, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	upd.Apply(&g)
	g.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Save(&g).Error; err != nil {
		return nil, translateErr(err)
	}
	return &g, nil
}

func (s *PostgresStore) DeleteGalleryImage(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Delete(&models.GalleryImage{}, "id = ?", id)
	if res.Error != nil {
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// Admin users
// --------------------------------------------------

func (s *PostgresStore) FindAdminByLogin(ctx context.Context, login string) (*models.AdminUser, error) {
	var a models.AdminUser
	err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", login, login).
		First(&a).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &a, nil
}

func (s *PostgresStore) GetAdmin(ctx context.Context, id string) (*models.AdminUser, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var a models.AdminUser
	if err := s.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &a, nil
}

func (s *PostgresStore) CreateAdmin(ctx context.Context, a *models.AdminUser) error {
	if a.ID == "" {
		a.ID = newID()
	}
	if a.Role == "" {
		a.Role = "admin"
	}
	stamp(&a.CreatedAt, &a.UpdatedAt)
	return translateErr(s.db.WithContext(ctx).Create(a).Error)
}

func (s *PostgresStore) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.AdminUser{}).Count(&n).Error
	return n, translateErr(err)
}

func (s *PostgresStore) SetAdminPassword(ctx context.Context, id, hash string) error {
	if err := checkID(id); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).
		Model(&models.AdminUser{}).
		Where("id = ?", id).
		Updates(map[string]any{"password_hash": hash, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) TouchAdminLastLogin(ctx context.Context, id string, at time.Time) error {
	if err := checkID(id); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).
		Model(&models.AdminUser{}).
		Where("id = ?", id).
		Updates(map[string]any{"last_login": at, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// End users
// --------------------------------------------------

func (s *PostgresStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translateErr(err)
	}
	return &u, nil
}

func (s *PostgresStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &u, nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = newID()
	}
	if u.Role == "" {
		u.Role = "user"
	}
	stamp(&u.CreatedAt, &u.UpdatedAt)
	return translateErr(s.db.WithContext(ctx).Create(u).Error)
}

// Compile-time check
var _ Store = (*PostgresStore)(nil)
