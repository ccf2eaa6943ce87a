package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/manforhire/contractor-api/internal/auth"
	"github.com/manforhire/contractor-api/internal/config"
	"github.com/manforhire/contractor-api/internal/middleware"
	"github.com/manforhire/contractor-api/internal/models"
	"github.com/manforhire/contractor-api/internal/store"
)

// testEnv wires the handlers against a throwaway document store, mirroring
// the route guards used in production.
type testEnv struct {
	router *gin.Engine
	store  store.Store
	cfg    *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	cfg := &config.Config{
		Env:          "test",
		JWTSecret:    "test-secret",
		JWTExpiresIn: time.Hour,
		UploadDir:    filepath.Join(dir, "uploads"),
	}

	st, err := store.OpenBolt(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	r := gin.New()
	adminOnly := middleware.RequireAuth(cfg, auth.KindAdmin)
	userOnly := middleware.RequireAuth(cfg, auth.KindUser)

	serviceHandler := NewServiceHandler(st, cfg)
	workOrderHandler := NewWorkOrderHandler(st, cfg)
	workRequestHandler := NewWorkRequestHandler(st, cfg)
	contactHandler := NewContactHandler(st, cfg)
	galleryHandler := NewGalleryHandler(st, cfg)
	authHandler := NewAuthHandler(st, cfg)
	userAuthHandler := NewUserAuthHandler(st, cfg)
	dashboardHandler := NewDashboardHandler(st, cfg)

	api := r.Group("/api")
	{
		api.GET("/services", serviceHandler.List)
		api.GET("/services/categories", serviceHandler.Categories)
		api.GET("/services/:id", serviceHandler.Get)
		api.POST("/services", adminOnly, serviceHandler.Create)
		api.PUT("/services/:id", adminOnly, serviceHandler.Update)
		api.DELETE("/services/:id", adminOnly, serviceHandler.Delete)

		api.POST("/work-orders", middleware.OptionalAuth(cfg), workOrderHandler.Create)
		api.GET("/work-orders/my-orders", userOnly, workOrderHandler.MyOrders)
		api.GET("/work-orders", adminOnly, workOrderHandler.List)
		api.PUT("/work-orders/:id", adminOnly, workOrderHandler.Update)

		api.POST("/work-requests", workRequestHandler.Create)
		api.GET("/work-requests/stats/summary", adminOnly, workRequestHandler.Summary)

		api.POST("/contact", contactHandler.Create)
		api.GET("/contact", adminOnly, contactHandler.List)
		api.PUT("/contact/:id", adminOnly, contactHandler.UpdateStatus)

		api.POST("/gallery", adminOnly, galleryHandler.Create)
		api.PUT("/gallery/:id", adminOnly, galleryHandler.Update)

		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/change-password", adminOnly, authHandler.ChangePassword)
		api.GET("/auth/me", adminOnly, authHandler.Me)

		api.POST("/user-auth/register", userAuthHandler.Register)
		api.POST("/user-auth/login", userAuthHandler.Login)
		api.GET("/user-auth/me", userOnly, userAuthHandler.Me)

		api.GET("/admin/dashboard", adminOnly, dashboardHandler.Stats)
	}

	return &testEnv{router: r, store: st, cfg: cfg}
}

func (e *testEnv) seedAdmin(t *testing.T, password string) *models.AdminUser {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	a := &models.AdminUser{Username: "admin", Email: "admin@example.com", PasswordHash: hash, Role: "admin"}
	require.NoError(t, e.store.CreateAdmin(context.Background(), a))
	return a
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	admin, err := e.store.FindAdminByLogin(context.Background(), "admin")
	if err != nil {
		admin = e.seedAdmin(t, "SuperSecret99")
	}
	token, err := auth.IssueToken(e.cfg, auth.Identity{Subject: admin.ID, Kind: auth.KindAdmin, Role: "admin", Username: admin.Username})
	require.NoError(t, err)
	return token
}

func (e *testEnv) userToken(t *testing.T, email string) (token, userID string) {
	t.Helper()
	hash, err := auth.HashPassword("SuperSecret99")
	require.NoError(t, err)
	u := &models.User{Email: email, PasswordHash: hash, FirstName: "Test", LastName: "User", Role: "user", IsActive: true}
	require.NoError(t, e.store.CreateUser(context.Background(), u))
	token, err = auth.IssueToken(e.cfg, auth.Identity{Subject: u.ID, Kind: auth.KindUser, Role: "user", Username: u.Email})
	require.NoError(t, err)
	return token, u.ID
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doForm(t *testing.T, method, path, token, fileKey string, fields map[string]string, files map[string][]byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for name, content := range files {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fileKey, name))
		hdr.Set("Content-Type", "image/jpeg")
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) map[string]any {
	t.Helper()
	require.Equal(t, want, w.Code, "unexpected status, body: %s", w.Body.String())
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}
