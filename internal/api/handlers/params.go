package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/followme-dot/INFRA-OBSERVATORY/internal/db"
	"github.com/gin-gonic/gin"
)

// listWindow parses limit/offset query params. Out-of-range values are
// rejected rather than silently clamped; callers must return when ok is
// false because the response has already been written.
func listWindow(c *gin.Context) (limit, offset int, ok bool) {
	limit = db.DefaultListLimit

	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > db.MaxListLimit {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "limit must be between 1 and 500",
				"code":  "validation_failed",
			})
			return 0, 0, false
		}
		limit = n
	}

	if raw := c.Query("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "offset must be a non-negative integer",
				"code":  "validation_failed",
			})
			return 0, 0, false
		}
		offset = n
	}

	return limit, offset, true
}

func queryStr(c *gin.Context, name string) *string {
	if v := c.Query(name); v != "" {
		return &v
	}
	return nil
}

func queryBool(c *gin.Context, name string) (*bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": name + " must be a boolean",
			"code":  "validation_failed",
		})
		return nil, false
	}
	return &b, true
}

func queryTime(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": name + " must be an RFC 3339 timestamp",
			"code":  "validation_failed",
		})
		return nil, false
	}
	return &t, true
}

func queryInt(c *gin.Context, name string) *int {
	if v := c.Query(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return &n
		}
	}
	return nil
}
