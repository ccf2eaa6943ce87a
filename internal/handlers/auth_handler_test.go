package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminLogin(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "SuperSecret99")

	t.Run("with username", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "admin", "password": "SuperSecret99"})
		body := requireStatus(t, w, http.StatusOK)
		assert.Equal(t, "Login successful", body["message"])
		assert.NotEmpty(t, body["token"])

		user := body["user"].(map[string]any)
		assert.Equal(t, "admin", user["username"])
		assert.Equal(t, "admin", user["role"])
		assert.NotContains(t, user, "passwordHash")
	})

	t.Run("with email", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "admin@example.com", "password": "SuperSecret99"})
		requireStatus(t, w, http.StatusOK)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "admin", "password": "wrong"})
		body := requireStatus(t, w, http.StatusUnauthorized)
		assert.Equal(t, "Invalid credentials", body["error"])
	})

	t.Run("unknown account gets the same error", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "ghost", "password": "whatever"})
		body := requireStatus(t, w, http.StatusUnauthorized)
		assert.Equal(t, "Invalid credentials", body["error"])
	})

	t.Run("missing fields", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "admin"})
		requireStatus(t, w, http.StatusBadRequest)
	})

	t.Run("token works on admin routes", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "admin", "password": "SuperSecret99"})
		body := requireStatus(t, w, http.StatusOK)
		token := body["token"].(string)

		w = env.do(t, http.MethodGet, "/api/auth/me", token, nil)
		body = requireStatus(t, w, http.StatusOK)
		assert.Equal(t, "admin", body["username"])
		assert.NotNil(t, body["lastLogin"])
	})
}

func TestAdminRegisterGate(t *testing.T) {
	env := newTestEnv(t)

	t.Run("first admin registers freely", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
			"username": "founder", "email": "founder@example.com", "password": "LongEnough1",
		})
		body := requireStatus(t, w, http.StatusCreated)
		assert.Equal(t, "Admin user created successfully", body["message"])
		assert.NotEmpty(t, body["userId"])
	})

	t.Run("closed once an admin exists", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
			"username": "latecomer", "email": "late@example.com", "password": "LongEnough1",
		})
		body := requireStatus(t, w, http.StatusForbidden)
		assert.Equal(t, "Admin registration disabled. Contact existing admin.", body["error"])
	})
}

func TestAdminRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	t.Run("short password", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
			"username": "founder", "email": "founder@example.com", "password": "short",
		})
		body := requireStatus(t, w, http.StatusBadRequest)
		assert.Equal(t, "Password must be at least 8 characters long", body["error"])
	})

	t.Run("bad email", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
			"username": "founder", "email": "not-an-email", "password": "LongEnough1",
		})
		body := requireStatus(t, w, http.StatusBadRequest)
		assert.Equal(t, "Invalid email format", body["error"])
	})
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "OldSecret99")
	token := env.adminToken(t)

	t.Run("wrong current password", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/change-password", token, gin.H{
			"currentPassword": "nope", "newPassword": "NewSecret99",
		})
		body := requireStatus(t, w, http.StatusUnauthorized)
		assert.Equal(t, "Current password is incorrect", body["error"])
	})

	t.Run("too short", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/change-password", token, gin.H{
			"currentPassword": "OldSecret99", "newPassword": "short",
		})
		requireStatus(t, w, http.StatusBadRequest)
	})

	t.Run("rotates the credential", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/change-password", token, gin.H{
			"currentPassword": "OldSecret99", "newPassword": "NewSecret99",
		})
		body := requireStatus(t, w, http.StatusOK)
		assert.Equal(t, "Password changed successfully", body["message"])

		w = env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "admin", "password": "OldSecret99"})
		requireStatus(t, w, http.StatusUnauthorized)

		w = env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "admin", "password": "NewSecret99"})
		requireStatus(t, w, http.StatusOK)
	})
}

func TestUserAuth(t *testing.T) {
	env := newTestEnv(t)

	register := gin.H{
		"email": "jane@example.com", "password": "LongEnough1",
		"firstName": "Jane", "lastName": "Doe",
	}

	t.Run("register issues a token", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/user-auth/register", "", register)
		body := requireStatus(t, w, http.StatusCreated)
		assert.NotEmpty(t, body["token"])
		user := body["user"].(map[string]any)
		assert.Equal(t, "jane@example.com", user["email"])
		assert.NotContains(t, user, "passwordHash")
	})

	t.Run("duplicate email", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/user-auth/register", "", register)
		body := requireStatus(t, w, http.StatusConflict)
		assert.Equal(t, "An account with this email already exists", body["error"])
	})

	t.Run("login and me", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/user-auth/login", "", gin.H{"email": "jane@example.com", "password": "LongEnough1"})
		body := requireStatus(t, w, http.StatusOK)
		token := body["token"].(string)

		w = env.do(t, http.MethodGet, "/api/user-auth/me", token, nil)
		body = requireStatus(t, w, http.StatusOK)
		assert.Equal(t, "Jane", body["firstName"])
	})

	t.Run("user token rejected on admin surface", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/user-auth/login", "", gin.H{"email": "jane@example.com", "password": "LongEnough1"})
		body := requireStatus(t, w, http.StatusOK)
		token := body["token"].(string)

		w = env.do(t, http.MethodGet, "/api/admin/dashboard", token, nil)
		requireStatus(t, w, http.StatusForbidden)
	})

	t.Run("short password", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/user-auth/register", "", gin.H{
			"email": "late@example.com", "password": "short", "firstName": "A", "lastName": "B",
		})
		requireStatus(t, w, http.StatusBadRequest)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/user-auth/login", "", gin.H{"email": "jane@example.com", "password": "wrong"})
		body := requireStatus(t, w, http.StatusUnauthorized)
		assert.Equal(t, "Invalid credentials", body["error"])
	})
}

func TestLoginUpdatesLastLogin(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin(t, "SuperSecret99")
	require.Nil(t, admin.LastLogin)

	w := env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "admin", "password": "SuperSecret99"})
	requireStatus(t, w, http.StatusOK)

	got, err := env.store.GetAdmin(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.LastLogin)
}
