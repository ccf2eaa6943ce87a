package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manforhire/contractor-api/internal/models"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	st, err := OpenBolt(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func strptr(s string) *string { return &s }

func TestServiceCRUD(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	svc := models.Service{
		Name:      "Plumbing Repair",
		Category:  "plumbing",
		BasePrice: 85,
		Unit:      "per hour",
		IsActive:  true,
	}
	require.NoError(t, st.CreateService(ctx, &svc))
	require.NotEmpty(t, svc.ID)
	require.False(t, svc.CreatedAt.IsZero())

	got, err := st.GetService(ctx, svc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Plumbing Repair", got.Name)
	assert.Equal(t, 85.0, got.BasePrice)

	price := 95.0
	updated, err := st.UpdateService(ctx, svc.ID, ServiceUpdate{BasePrice: &price})
	require.NoError(t, err)
	assert.Equal(t, 95.0, updated.BasePrice)
	assert.Equal(t, "Plumbing Repair", updated.Name)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))

	require.NoError(t, st.DeleteService(ctx, svc.ID))
	_, err = st.GetService(ctx, svc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, st.DeleteService(ctx, svc.ID), ErrNotFound)
}

func TestInvalidIDRejectedBeforeLookup(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.GetService(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = st.UpdateWorkOrder(ctx, "12345", WorkOrderUpdate{Status: strptr("completed")})
	assert.ErrorIs(t, err, ErrInvalidID)

	assert.ErrorIs(t, st.DeleteGalleryImage(ctx, ""), ErrInvalidID)
}

func TestServiceListFiltersAndSort(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	seed := []models.Service{
		{Name: "Drain Cleaning", Category: "plumbing", BasePrice: 120, IsActive: true},
		{Name: "Outlet Install", Category: "electrical", BasePrice: 60, IsActive: true},
		{Name: "Pipe Replacement", Category: "plumbing", BasePrice: 200, IsActive: false},
		{Name: "Panel Upgrade", Category: "electrical", BasePrice: 900, IsActive: true},
	}
	for i := range seed {
		require.NoError(t, st.CreateService(ctx, &seed[i]))
	}

	t.Run("active only", func(t *testing.T) {
		list, err := st.ListServices(ctx, ServiceFilter{ActiveOnly: true})
		require.NoError(t, err)
		require.Len(t, list, 3)
		for _, s := range list {
			assert.True(t, s.IsActive)
		}
	})

	t.Run("category filter combines with active", func(t *testing.T) {
		list, err := st.ListServices(ctx, ServiceFilter{Category: "plumbing", ActiveOnly: true})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Drain Cleaning", list[0].Name)
	})

	t.Run("sorted by category then name", func(t *testing.T) {
		list, err := st.ListServices(ctx, ServiceFilter{})
		require.NoError(t, err)
		require.Len(t, list, 4)
		assert.Equal(t, "Outlet Install", list[0].Name)
		assert.Equal(t, "Panel Upgrade", list[1].Name)
		assert.Equal(t, "Drain Cleaning", list[2].Name)
		assert.Equal(t, "Pipe Replacement", list[3].Name)
	})

	t.Run("category summaries", func(t *testing.T) {
		cats, err := st.ServiceCategories(ctx)
		require.NoError(t, err)
		require.Len(t, cats, 2)
		assert.Equal(t, "electrical", cats[0].Category)
		assert.Equal(t, int64(2), cats[0].ServiceCount)
		assert.Equal(t, 60.0, cats[0].MinPrice)
		assert.Equal(t, 900.0, cats[0].MaxPrice)
		assert.Equal(t, "plumbing", cats[1].Category)
	})
}

func TestWorkOrderPagination(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		o := models.WorkOrder{
			CustomerName:  "Customer",
			CustomerEmail: "customer@example.com",
			ServiceType:   "plumbing",
			Description:   "leaky faucet",
			Status:        "pending",
			Priority:      "medium",
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, st.CreateWorkOrder(ctx, &o))
	}

	t.Run("defaults", func(t *testing.T) {
		list, err := st.ListWorkOrders(ctx, WorkOrderFilter{}, Page{})
		require.NoError(t, err)
		assert.Len(t, list, DefaultLimit)
	})

	t.Run("newest first", func(t *testing.T) {
		list, err := st.ListWorkOrders(ctx, WorkOrderFilter{}, Page{Limit: 5})
		require.NoError(t, err)
		require.Len(t, list, 5)
		for i := 1; i < len(list); i++ {
			assert.False(t, list[i].CreatedAt.After(list[i-1].CreatedAt))
		}
	})

	t.Run("page arithmetic", func(t *testing.T) {
		p2, err := st.ListWorkOrders(ctx, WorkOrderFilter{}, Page{Page: 2, Limit: 10})
		require.NoError(t, err)
		assert.Len(t, p2, 10)

		p3, err := st.ListWorkOrders(ctx, WorkOrderFilter{}, Page{Page: 3, Limit: 10})
		require.NoError(t, err)
		assert.Len(t, p3, 5)
	})

	t.Run("beyond last page is empty not error", func(t *testing.T) {
		list, err := st.ListWorkOrders(ctx, WorkOrderFilter{}, Page{Page: 99, Limit: 10})
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("count honors filter", func(t *testing.T) {
		n, err := st.CountWorkOrders(ctx, WorkOrderFilter{Status: "pending"})
		require.NoError(t, err)
		assert.Equal(t, int64(25), n)

		n, err = st.CountWorkOrders(ctx, WorkOrderFilter{Status: "completed"})
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)
	})
}

func TestWorkOrderUserScope(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	alice := newID()
	bob := newID()
	for _, uid := range []string{alice, alice, bob} {
		uid := uid
		o := models.WorkOrder{
			UserID:        &uid,
			CustomerName:  "Customer",
			CustomerEmail: "customer@example.com",
			ServiceType:   "electrical",
			Description:   "rewire outlet",
			Status:        "pending",
		}
		require.NoError(t, st.CreateWorkOrder(ctx, &o))
	}
	guest := models.WorkOrder{
		CustomerName:  "Guest",
		CustomerEmail: "guest@example.com",
		ServiceType:   "electrical",
		Description:   "no account",
		Status:        "pending",
	}
	require.NoError(t, st.CreateWorkOrder(ctx, &guest))

	mine, err := st.ListWorkOrders(ctx, WorkOrderFilter{UserID: alice}, Page{})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, o := range mine {
		require.NotNil(t, o.UserID)
		assert.Equal(t, alice, *o.UserID)
	}

	all, err := st.ListWorkOrders(ctx, WorkOrderFilter{}, Page{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestWorkOrderImagesRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	o := models.WorkOrder{
		CustomerName:  "Customer",
		CustomerEmail: "customer@example.com",
		ServiceType:   "roofing",
		Description:   "shingle damage",
		Status:        "pending",
		Images:        models.ImageList{"/uploads/work-orders/a.jpg", "/uploads/work-orders/b.jpg"},
	}
	require.NoError(t, st.CreateWorkOrder(ctx, &o))

	got, err := st.GetWorkOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ImageList{"/uploads/work-orders/a.jpg", "/uploads/work-orders/b.jpg"}, got.Images)

	empty := models.WorkOrder{
		CustomerName:  "Customer",
		CustomerEmail: "customer@example.com",
		ServiceType:   "roofing",
		Description:   "no photos",
		Status:        "pending",
	}
	require.NoError(t, st.CreateWorkOrder(ctx, &empty))
	got, err = st.GetWorkOrder(ctx, empty.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Images)
	assert.Empty(t, got.Images)
}

func TestWorkRequestFiltersConjoin(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	seed := []models.WorkRequest{
		{CustomerName: "A", CustomerAddress: "1 Main St", ProjectType: "deck", UrgencyLevel: "24hours", ServicePreference: "licensed", Status: "pending"},
		{CustomerName: "B", CustomerAddress: "2 Main St", ProjectType: "deck", UrgencyLevel: "24hours", ServicePreference: "general", Status: "pending"},
		{CustomerName: "C", CustomerAddress: "3 Main St", ProjectType: "fence", UrgencyLevel: "1week", ServicePreference: "general", Status: "completed"},
	}
	for i := range seed {
		require.NoError(t, st.CreateWorkRequest(ctx, &seed[i]))
	}

	list, err := st.ListWorkRequests(ctx, WorkRequestFilter{UrgencyLevel: "24hours", ServicePreference: "general"}, Page{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "B", list[0].CustomerName)

	n, err := st.CountWorkRequests(ctx, WorkRequestFilter{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestContactStatusUpdate(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	m := models.ContactMessage{Name: "Visitor", Email: "visitor@example.com", Message: "hello", Status: "unread"}
	require.NoError(t, st.CreateContactMessage(ctx, &m))

	got, err := st.UpdateContactStatus(ctx, m.ID, "read")
	require.NoError(t, err)
	assert.Equal(t, "read", got.Status)

	unread, err := st.ListContactMessages(ctx, ContactFilter{Status: "unread"}, Page{})
	require.NoError(t, err)
	assert.Empty(t, unread)

	_, err = st.UpdateContactStatus(ctx, newID(), "read")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGalleryFeaturedSortsFirst(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	seed := []models.GalleryImage{
		{Title: "old plain", ImageURL: "/uploads/gallery/1.jpg", CreatedAt: base},
		{Title: "new plain", ImageURL: "/uploads/gallery/2.jpg", CreatedAt: base.Add(2 * time.Hour)},
		{Title: "featured", ImageURL: "/uploads/gallery/3.jpg", IsFeatured: true, CreatedAt: base.Add(time.Hour)},
	}
	for i := range seed {
		require.NoError(t, st.CreateGalleryImage(ctx, &seed[i]))
	}

	list, err := st.ListGalleryImages(ctx, GalleryFilter{}, Page{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "featured", list[0].Title)
	assert.Equal(t, "new plain", list[1].Title)
	assert.Equal(t, "old plain", list[2].Title)

	featured, err := st.ListGalleryImages(ctx, GalleryFilter{FeaturedOnly: true}, Page{})
	require.NoError(t, err)
	require.Len(t, featured, 1)
}

func TestAdminUniqueness(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	a := models.AdminUser{Username: "admin", Email: "admin@example.com", PasswordHash: "x", Role: "admin"}
	require.NoError(t, st.CreateAdmin(ctx, &a))

	dupUser := models.AdminUser{Username: "admin", Email: "other@example.com", PasswordHash: "x"}
	assert.ErrorIs(t, st.CreateAdmin(ctx, &dupUser), ErrDuplicateKey)

	dupEmail := models.AdminUser{Username: "other", Email: "admin@example.com", PasswordHash: "x"}
	assert.ErrorIs(t, st.CreateAdmin(ctx, &dupEmail), ErrDuplicateKey)

	n, err := st.CountAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	t.Run("lookup by username or email", func(t *testing.T) {
		byName, err := st.FindAdminByLogin(ctx, "admin")
		require.NoError(t, err)
		byEmail, err := st.FindAdminByLogin(ctx, "admin@example.com")
		require.NoError(t, err)
		assert.Equal(t, byName.ID, byEmail.ID)
	})

	t.Run("password and last login", func(t *testing.T) {
		require.NoError(t, st.SetAdminPassword(ctx, a.ID, "y"))
		at := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
		require.NoError(t, st.TouchAdminLastLogin(ctx, a.ID, at))

		got, err := st.GetAdmin(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "y", got.PasswordHash)
		require.NotNil(t, got.LastLogin)
		assert.True(t, got.LastLogin.Equal(at))
	})
}

func TestUserEmailUnique(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	u := models.User{Email: "jane@example.com", PasswordHash: "x", FirstName: "Jane", LastName: "Doe", Role: "user", IsActive: true}
	require.NoError(t, st.CreateUser(ctx, &u))

	dup := models.User{Email: "jane@example.com", PasswordHash: "x", FirstName: "Other", LastName: "Person"}
	assert.ErrorIs(t, st.CreateUser(ctx, &dup), ErrDuplicateKey)

	got, err := st.FindUserByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = st.FindUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPartialUpdateRequiresFields(t *testing.T) {
	assert.True(t, ServiceUpdate{}.Empty())
	assert.True(t, WorkOrderUpdate{}.Empty())
	assert.False(t, WorkOrderUpdate{Status: strptr("completed")}.Empty())
	assert.True(t, GalleryUpdate{}.Empty())
	assert.True(t, WorkRequestUpdate{}.Empty())
}
