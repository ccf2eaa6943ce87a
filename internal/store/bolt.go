package store

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/manforhire/contractor-api/internal/models"
)

// Bucket names. The *Index buckets enforce uniqueness the way a relational
// unique index would: key = indexed value, value = record id.
var (
	servicesBucket     = []byte("servicesv1")
	workOrdersBucket   = []byte("workOrdersv1")
	workRequestsBucket = []byte("workRequestsv1")
	contactBucket      = []byte("contactMessagesv1")
	galleryBucket      = []byte("galleryImagesv1")
	adminUsersBucket   = []byte("adminUsersv1")
	adminLoginIndex    = []byte("adminLoginIndexv1")
	usersBucket        = []byte("usersv1")
	userEmailIndex     = []byte("userEmailIndexv1")
)

// BoltStore is the document backend. Records are JSON documents keyed by
// their uuid inside one bucket per record kind.
type BoltStore struct {
	db *bolt.DB
}

func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{
			servicesBucket,
			workOrdersBucket,
			workRequestsBucket,
			contactBucket,
			galleryBucket,
			adminUsersBucket,
			adminLoginIndex,
			usersBucket,
			userEmailIndex,
		} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

// ---------- document helpers ----------

func putDoc(tx *bolt.Tx, bucket []byte, id string, doc any) error {
	v, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return tx.Bucket(bucket).Put([]byte(id), v)
}

func getDoc[T any](tx *bolt.Tx, bucket []byte, id string) (*T, error) {
	v := tx.Bucket(bucket).Get([]byte(id))
	if len(v) == 0 {
		return nil, ErrNotFound
	}
	var rec T
	if err := json.Unmarshal(v, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func allDocs[T any](tx *bolt.Tx, bucket []byte) ([]T, error) {
	out := []T{}
	err := tx.Bucket(bucket).ForEach(func(_, v []byte) error {
		var rec T
		if err := json.Unmarshal(v, &rec); err != nil {
			return err
		}
		out = append(out, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func deleteDoc(tx *bolt.Tx, bucket []byte, id string) error {
	b := tx.Bucket(bucket)
	if len(b.Get([]byte(id))) == 0 {
		return ErrNotFound
	}
	return b.Delete([]byte(id))
}

func paginate[T any](recs []T, p Page) []T {
	_, limit, offset := p.Resolve()
	if offset >= len(recs) {
		return []T{}
	}
	end := offset + limit
	if end > len(recs) {
		end = len(recs)
	}
	return recs[offset:end]
}

// byCreatedDesc orders newest first with the record id as a deterministic
// tie-break, matching the relational backend's ORDER BY.
func byCreatedDesc(aCreated, bCreated time.Time, aID, bID string) bool {
	if !aCreated.Equal(bCreated) {
		return aCreated.After(bCreated)
	}
	return aID > bID
}

// --------------------------------------------------
// Services
// --------------------------------------------------

func (s *BoltStore) ListServices(ctx context.Context, f ServiceFilter) ([]models.Service, error) {
	var services []models.Service
	err := s.db.View(func(tx *bolt.Tx) error {
		all, err := allDocs[models.Service](tx, servicesBucket)
		if err != nil {
			return err
		}
		services = []models.Service{}
		for _, svc := range all {
			if f.ActiveOnly && !svc.IsActive {
				continue
			}
			if f.Category != "" && svc.Category != f.Category {
				continue
			}
			services = append(services, svc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(services, func(i, j int) bool {
		if services[i].Category != services[j].Category {
			return services[i].Category < services[j].Category
		}
		return services[i].Name < services[j].Name
	})
	return services, nil
}

func (s *BoltStore) GetService(ctx context.Context, id string) (*models.Service, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var svc *models.Service
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		svc, err = getDoc[models.Service](tx, servicesBucket, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *BoltStore) CreateService(ctx context.Context, svc *models.Service) error {
	if svc.ID == "" {
		svc.ID = newID()
	}
	stamp(&svc.CreatedAt, &svc.UpdatedAt)
	return s.db.Update(func(tx *bolt.Tx) error {
		return putDoc(tx, servicesBucket, svc.ID, svc)
	})
}

func (s *BoltStore) UpdateService(ctx context.Context, id string, upd ServiceUpdate) (*models.Service, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var svc *models.Service
	err := s.db.Update(func(tx *bolt.Tx) error {
		var err error
		svc, err = getDoc[models.Service](tx, servicesBucket, id)
		if err != nil {
			return err
		}
		upd.Apply(svc)
		svc.UpdatedAt = time.Now().UTC()
		return putDoc(tx, servicesBucket, id, svc)
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *BoltStore) DeleteService(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return deleteDoc(tx, servicesBucket, id)
	})
}

func (s *BoltStore) ServiceCategories(ctx context.Context) ([]CategorySummary, error) {
	byCategory := map[string]*CategorySummary{}
	err := s.db.View(func(tx *bolt.Tx) error {
		all, err := allDocs[models.Service](tx, servicesBucket)
		if err != nil {
			return err
		}
		for _, svc := range all {
			if !svc.IsActive {
				continue
			}
			c, ok := byCategory[svc.Category]
			if !ok {
				byCategory[svc.Category] = &CategorySummary{
					Category:     svc.Category,
					ServiceCount: 1,
					MinPrice:     svc.BasePrice,
					MaxPrice:     svc.BasePrice,
				}
				continue
			}
			c.ServiceCount++
			if svc.BasePrice < c.MinPrice {
				c.MinPrice = svc.BasePrice
			}
			if svc.BasePrice > c.MaxPrice {
				c.MaxPrice = svc.BasePrice
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]CategorySummary, 0, len(byCategory))
	for _, c := range byCategory {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

func (s *BoltStore) CountServices(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.View(func(tx *bolt.Tx) error {
		n = int64(tx.Bucket(servicesBucket).Stats().KeyN)
		return nil
	})
	return n, err
}

// --------------------------------------------------
// Work orders
// --------------------------------------------------

func (s *BoltStore) filterWorkOrders(tx *bolt.Tx, f WorkOrderFilter) ([]models.WorkOrder, error) {
	all, err := allDocs[models.WorkOrder](tx, workOrdersBucket)
	if err != nil {
		return nil, err
	}
	out := []models.WorkOrder{}
	for _, o := range all {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.UserID != "" && (o.UserID == nil || *o.UserID != f.UserID) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (s *BoltStore) ListWorkOrders(ctx context.Context, f WorkOrderFilter, p Page) ([]models.WorkOrder, error) {
	var orders []models.WorkOrder
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		orders, err = s.filterWorkOrders(tx, f)
		return err
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(orders, func(i, j int) bool {
		return byCreatedDesc(orders[i].CreatedAt, orders[j].CreatedAt, orders[i].ID, orders[j].ID)
	})
	return paginate(orders, p), nil
}

func (s *BoltStore) CountWorkOrders(ctx context.Context, f WorkOrderFilter) (int64, error) {
	var n int64
	err := s.db.View(func(tx *bolt.Tx) error {
		orders, err := s.filterWorkOrders(tx, f)
		if err != nil {
			return err
		}
		n = int64(len(orders))
		return nil
	})
	return n, err
}

func (s *BoltStore) GetWorkOrder(ctx context.Context, id string) (*models.WorkOrder, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var o *models.WorkOrder
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		o, err = getDoc[models.WorkOrder](tx, workOrdersBucket, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (s *BoltStore) CreateWorkOrder(ctx context.Context, o *models.WorkOrder) error {
	if o.ID == "" {
		o.ID = newID()
	}
	if o.Images == nil {
		o.Images = models.ImageList{}
	}
	stamp(&o.CreatedAt, &o.UpdatedAt)
	return s.db.Update(func(tx *bolt.Tx) error {
		return putDoc(tx, workOrdersBucket, o.ID, o)
	})
}

func (s *BoltStore) UpdateWorkOrder(ctx context.Context, id string, upd WorkOrderUpdate) (*models.WorkOrder, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var o *models.WorkOrder
	err := s.db.Update(func(tx *bolt.Tx) error {
		var err error
		o, err = getDoc[models.WorkOrder](tx, workOrdersBucket, id)
		if err != nil {
			return err
		}
		upd.Apply(o)
		o.UpdatedAt = time.Now().UTC()
		return putDoc(tx, workOrdersBucket, id, o)
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (s *BoltStore) DeleteWorkOrder(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return deleteDoc(tx, workOrdersBucket, id)
	})
}

// --------------------------------------------------
// Work requests
// --------------------------------------------------

func (s *BoltStore) filterWorkRequests(tx *bolt.Tx, f WorkRequestFilter) ([]models.WorkRequest, error) {
	all, err := allDocs[models.WorkRequest](tx, workRequestsBucket)
	if err != nil {
		return nil, err
	}
	out := []models.WorkRequest{}
	for _, r := range all {
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.UrgencyLevel != "" && r.UrgencyLevel != f.UrgencyLevel {
			continue
		}
		if f.ServicePreference != "" && r.ServicePreference != f.ServicePreference {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *BoltStore) ListWorkRequests(ctx context.Context, f WorkRequestFilter, p Page) ([]models.WorkRequest, error) {
	var requests []models.WorkRequest
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		requests, err = s.filterWorkRequests(tx, f)
		return err
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(requests, func(i, j int) bool {
		return byCreatedDesc(requests[i].CreatedAt, requests[j].CreatedAt, requests[i].ID, requests[j].ID)
	})
	return paginate(requests, p), nil
}

func (s *BoltStore) CountWorkRequests(ctx context.Context, f WorkRequestFilter) (int64, error) {
	var n int64
	err := s.db.View(func(tx *bolt.Tx) error {
		requests, err := s.filterWorkRequests(tx, f)
		if err != nil {
			return err
		}
		n = int64(len(requests))
		return nil
	})
	return n, err
}

func (s *BoltStore) GetWorkRequest(ctx context.Context, id string) (*models.WorkRequest, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var r *models.WorkRequest
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		r, err = getDoc[models.WorkRequest](tx, workRequestsBucket, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *BoltStore) CreateWorkRequest(ctx context.Context, r *models.WorkRequest) error {
	if r.ID == "" {
		r.ID = newID()
	}
	stamp(&r.CreatedAt, &r.UpdatedAt)
	return s.db.Update(func(tx *bolt.Tx) error {
		return putDoc(tx, workRequestsBucket, r.ID, r)
	})
}

func (s *BoltStore) UpdateWorkRequest(ctx context.Context, id string, upd WorkRequestUpdate) (*models.WorkRequest, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var r *models.WorkRequest
	err := s.db.Update(func(tx *bolt.Tx) error {
		var err error
		r, err = getDoc[models.WorkRequest](tx, workRequestsBucket, id)
		if err != nil {
			return err
		}
		upd.Apply(r)
		r.UpdatedAt = time.Now().UTC()
		return putDoc(tx, workRequestsBucket, id, r)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *BoltStore) DeleteWorkRequest(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return deleteDoc(tx, workRequestsBucket, id)
	})
}

// --------------------------------------------------
// Contact messages
// --------------------------------------------------

func (s *BoltStore) ListContactMessages(ctx context.Context, f ContactFilter, p Page) ([]models.ContactMessage, error) {
	var messages []models.ContactMessage
	err := s.db.View(func(tx *bolt.Tx) error {
		all, err := allDocs[models.ContactMessage](tx, contactBucket)
		if err != nil {
			return err
		}
		messages = []models.ContactMessage{}
		for _, m := range all {
			if f.Status != "" && m.Status != f.Status {
				continue
			}
			messages = append(messages, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(messages, func(i, j int) bool {
		return byCreatedDesc(messages[i].CreatedAt, messages[j].CreatedAt, messages[i].ID, messages[j].ID)
	})
	return paginate(messages, p), nil
}

func (s *BoltStore) CreateContactMessage(ctx context.Context, m *models.ContactMessage) error {
	if m.ID == "" {
		m.ID = newID()
	}
	if m.Status == "" {
		m.Status = "unread"
	}
	stamp(&m.CreatedAt, &m.UpdatedAt)
	return s.db.Update(func(tx *bolt.Tx) error {
		return putDoc(tx, contactBucket, m.ID, m)
	})
}

func (s *BoltStore) UpdateContactStatus(ctx context.Context, id, status string) (*models.ContactMessage, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var m *models.ContactMessage
	err := s.db.Update(func(tx *bolt.Tx) error {
		var err error
		m, err = getDoc[models.ContactMessage](tx, contactBucket, id)
		if err != nil {
			return err
		}
		m.Status = status
		m.UpdatedAt = time.Now().UTC()
		return putDoc(tx, contactBucket, id, m)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// --------------------------------------------------
// Gallery
// --------------------------------------------------

func (s *BoltStore) ListGalleryImages(ctx context.Context, f GalleryFilter, p Page) ([]models.GalleryImage, error) {
	var images []models.GalleryImage
	err := s.db.View(func(tx *bolt.Tx) error {
		all, err := allDocs[models.GalleryImage](tx, galleryBucket)
		if err != nil {
			return err
		}
		images = []models.GalleryImage{}
		for _, g := range all {
			if f.Category != "" && g.Category != f.Category {
				continue
			}
			if f.FeaturedOnly && !g.IsFeatured {
				continue
			}
			images = append(images, g)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(images, func(i, j int) bool {
		if images[i].IsFeatured != images[j].IsFeatured {
			return images[i].IsFeatured
		}
		return byCreatedDesc(images[i].CreatedAt, images[j].CreatedAt, images[i].ID, images[j].ID)
	})
	return paginate(images, p), nil
}

func (s *BoltStore) GetGalleryImage(ctx context.Context, id string) (*models.GalleryImage, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var g *models.GalleryImage
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		g, err = getDoc[models.GalleryImage](tx, galleryBucket, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (s *BoltStore) CreateGalleryImage(ctx context.Context, g *models.GalleryImage) error {
	if g.ID == "" {
		g.ID = newID()
	}
	stamp(&g.CreatedAt, &g.UpdatedAt)
	return s.db.Update(func(tx *bolt.Tx) error {
		return putDoc(tx, galleryBucket, g.ID, g)
	})
}

func (s *BoltStore) UpdateGalleryImage(ctx context.Context, id string, upd GalleryUpdate) (*models.GalleryImage, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var g *models.GalleryImage
	err := s.db.Update(func(tx *bolt.Tx) error {
		var err error
		g, err = getDoc[models.GalleryImage](tx, galleryBucket, id)
		if err != nil {
			return err
		}
		upd.Apply(g)
		g.UpdatedAt = time.Now().UTC()
		return putDoc(tx, galleryBucket, id, g)
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (s *BoltStore) DeleteGalleryImage(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return deleteDoc(tx, galleryBucket, id)
	})
}

// --------------------------------------------------
// Admin users
// --------------------------------------------------

func adminLoginKeys(a *models.AdminUser) [][]byte {
	return [][]byte{
		[]byte("u:" + a.Username),
		[]byte("e:" + a.Email),
	}
}

func (s *BoltStore) FindAdminByLogin(ctx context.Context, login string) (*models.AdminUser, error) {
	var a *models.AdminUser
	err := s.db.View(func(tx *bolt.Tx) error {
		idx := tx.Bucket(adminLoginIndex)
		id := idx.Get([]byte("u:" + login))
		if id == nil {
			id = idx.Get([]byte("e:" + login))
		}
		if id == nil {
			return ErrNotFound
		}
		var err error
		a, err = getDoc[models.AdminUser](tx, adminUsersBucket, string(id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *BoltStore) GetAdmin(ctx context.Context, id string) (*models.AdminUser, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var a *models.AdminUser
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		a, err = getDoc[models.AdminUser](tx, adminUsersBucket, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *BoltStore) CreateAdmin(ctx context.Context, a *models.AdminUser) error {
	if a.ID == "" {
		a.ID = newID()
	}
	if a.Role == "" {
		a.Role = "admin"
	}
	stamp(&a.CreatedAt, &a.UpdatedAt)
	return s.db.Update(func(tx *bolt.Tx) error {
		idx := tx.Bucket(adminLoginIndex)
		for _, key := range adminLoginKeys(a) {
			if idx.Get(key) != nil {
				return ErrDuplicateKey
			}
		}
		for _, key := range adminLoginKeys(a) {
			if err := idx.Put(key, []byte(a.ID)); err != nil {
				return err
			}
		}
		return putDoc(tx, adminUsersBucket, a.ID, a)
	})
}

func (s *BoltStore) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.View(func(tx *bolt.Tx) error {
		n = int64(tx.Bucket(adminUsersBucket).Stats().KeyN)
		return nil
	})
	return n, err
}

func (s *BoltStore) SetAdminPassword(ctx context.Context, id, hash string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		a, err := getDoc[models.AdminUser](tx, adminUsersBucket, id)
		if err != nil {
			return err
		}
		a.PasswordHash = hash
		a.UpdatedAt = time.Now().UTC()
		return putDoc(tx, adminUsersBucket, id, a)
	})
}

func (s *BoltStore) TouchAdminLastLogin(ctx context.Context, id string, at time.Time) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		a, err := getDoc[models.AdminUser](tx, adminUsersBucket, id)
		if err != nil {
			return err
		}
		a.LastLogin = &at
		a.UpdatedAt = time.Now().UTC()
		return putDoc(tx, adminUsersBucket, id, a)
	})
}

// --------------------------------------------------
// End users
// --------------------------------------------------

func (s *BoltStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u *models.User
	err := s.db.View(func(tx *bolt.Tx) error {
		id := tx.Bucket(userEmailIndex).Get([]byte(email))
		if id == nil {
			return ErrNotFound
		}
		var err error
		u, err = getDoc[models.User](tx, usersBucket, string(id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *BoltStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var u *models.User
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		u, err = getDoc[models.User](tx, usersBucket, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *BoltStore) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = newID()
	}
	if u.Role == "" {
		u.Role = "user"
	}
	stamp(&u.CreatedAt, &u.UpdatedAt)
	return s.db.Update(func(tx *bolt.Tx) error {
		idx := tx.Bucket(userEmailIndex)
		if idx.Get([]byte(u.Email)) != nil {
			return ErrDuplicateKey
		}
		if err := idx.Put([]byte(u.Email), []byte(u.ID)); err != nil {
			return err
		}
		return putDoc(tx, usersBucket, u.ID, u)
	})
}

// Compile-time check
var _ Store = (*BoltStore)(nil)
