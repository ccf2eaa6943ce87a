package httperr

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/manforhire/contractor-api/internal/store"
)

// FromStore maps a store failure onto the error taxonomy. label is the
// lowercase resource name used in messages ("work order", "service", ...).
// The raw error is logged, never sent to the client; in development the
// 500 response carries the detail.
func FromStore(c *gin.Context, err error, label, failMsg string, development bool) {
	switch {
	case errors.Is(err, store.ErrInvalidID):
		BadRequest(c, "Invalid "+label+" ID")
	case errors.Is(err, store.ErrNotFound):
		NotFound(c, capitalize(label)+" not found")
	case errors.Is(err, store.ErrDuplicateKey):
		Conflict(c, "Duplicate entry. Resource already exists.")
	default:
		log.Printf("%s: %v", failMsg, err)
		if development {
			c.JSON(http.StatusInternalServerError, gin.H{"error": failMsg, "detail": err.Error()})
			return
		}
		Internal(c, failMsg)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
