package httputil

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// Page is an offset/limit window over a listing.
type Page struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ParsePagination reads the offset and limit query parameters. Offset defaults to 0 and
// limit to 20; limit may not exceed 100.
func ParsePagination(c *gin.Context) (Page, error) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		return Page{}, fmt.Errorf("invalid offset parameter: must be a non-negative integer")
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if err != nil || limit < 1 || limit > maxPageLimit {
		return Page{}, fmt.Errorf("invalid limit parameter: must be between 1 and %d", maxPageLimit)
	}

	return Page{Offset: offset, Limit: limit}, nil
}
