package bootstrap

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manforhire/contractor-api/internal/auth"
	"github.com/manforhire/contractor-api/internal/config"
	"github.com/manforhire/contractor-api/internal/store"
)

func testSeedConfig() *config.Config {
	return &config.Config{
		AdminUsername: "admin",
		AdminEmail:    "admin@example.com",
		AdminPassword: "ChangeMe123",
		JWTSecret:     "test-secret",
		JWTExpiresIn:  time.Hour,
	}
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	cfg := testSeedConfig()

	st, err := store.OpenBolt(filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, Seed(ctx, st, cfg))

	t.Run("default catalog", func(t *testing.T) {
		services, err := st.ListServices(ctx, store.ServiceFilter{ActiveOnly: true})
		require.NoError(t, err)
		assert.Len(t, services, 8)
	})

	t.Run("default admin can authenticate", func(t *testing.T) {
		admin, err := st.FindAdminByLogin(ctx, "admin")
		require.NoError(t, err)
		assert.Equal(t, "admin@example.com", admin.Email)
		assert.True(t, auth.CheckPassword("ChangeMe123", admin.PasswordHash))
	})

	t.Run("idempotent", func(t *testing.T) {
		require.NoError(t, Seed(ctx, st, cfg))

		n, err := st.CountServices(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(8), n)

		n, err = st.CountAdmins(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}
