package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/manforhire/contractor-api/internal/store"
)

func pageFromQuery(c *gin.Context) store.Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return store.Page{Page: page, Limit: limit}
}

func totalPages(totalCount int64, limit int) int64 {
	if limit < 1 {
		return 0
	}
	return (totalCount + int64(limit) - 1) / int64(limit)
}

// coercePrice accepts the numeric or numeric-string forms clients send for
// prices.
func coercePrice(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// coerceBool accepts a boolean or its string form; anything else reads as
// false, matching how the flag arrives from multipart forms.
func coerceBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "true"
	default:
		return false
	}
}
