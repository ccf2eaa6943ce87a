package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestBody() gin.H {
	return gin.H{
		"customerName":      "Pat Smith",
		"customerAddress":   "12 Main St",
		"projectType":       "deck",
		"urgencyLevel":      "1week",
		"servicePreference": "licensed",
	}
}

func TestWorkRequestSubmit(t *testing.T) {
	env := newTestEnv(t)

	t.Run("valid submission", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/work-requests", "", requestBody())
		body := requireStatus(t, w, http.StatusCreated)
		assert.Equal(t, "Work request submitted successfully", body["message"])
		assert.Equal(t, "pending", body["workRequest"].(map[string]any)["status"])
	})

	t.Run("missing field", func(t *testing.T) {
		b := requestBody()
		delete(b, "projectType")
		w := env.do(t, http.MethodPost, "/api/work-requests", "", b)
		body := requireStatus(t, w, http.StatusBadRequest)
		assert.Equal(t, "Missing required fields: customerName, customerAddress, projectType, urgencyLevel, servicePreference", body["error"])
	})

	t.Run("bad urgency", func(t *testing.T) {
		b := requestBody()
		b["urgencyLevel"] = "whenever"
		w := env.do(t, http.MethodPost, "/api/work-requests", "", b)
		body := requireStatus(t, w, http.StatusBadRequest)
		assert.Equal(t, "Invalid urgency level", body["error"])
	})

	t.Run("bad preference", func(t *testing.T) {
		b := requestBody()
		b["servicePreference"] = "cheapest"
		w := env.do(t, http.MethodPost, "/api/work-requests", "", b)
		body := requireStatus(t, w, http.StatusBadRequest)
		assert.Equal(t, "Invalid service preference", body["error"])
	})
}

func TestWorkRequestSummaryEndpoint(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)

	for _, b := range []gin.H{
		requestBody(),
		{"customerName": "A", "customerAddress": "1", "projectType": "fence", "urgencyLevel": "24hours", "servicePreference": "general"},
	} {
		w := env.do(t, http.MethodPost, "/api/work-requests", "", b)
		requireStatus(t, w, http.StatusCreated)
	}

	t.Run("admin only", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/work-requests/stats/summary", "", nil)
		requireStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("summary counts", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/work-requests/stats/summary", admin, nil)
		body := requireStatus(t, w, http.StatusOK)
		assert.Equal(t, 2.0, body["total"])

		byStatus := body["byStatus"].([]any)
		require.Len(t, byStatus, 1)
		assert.Equal(t, map[string]any{"value": "pending", "count": 2.0}, byStatus[0])

		byUrgency := body["byUrgency"].([]any)
		require.Len(t, byUrgency, 2)
	})
}
