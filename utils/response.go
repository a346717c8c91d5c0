// utils/response.go
package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const maxPerPage = 100

// RespondWithError sends a JSON error body with the given status
func RespondWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// PaginationParams reads page/per_page query params, clamping per_page
func PaginationParams(c *gin.Context) (page, perPage int) {
	page = 1
	perPage = 10
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("per_page", "10")); err == nil && v > 0 {
		perPage = v
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

// PaginatedResponse builds the standard list envelope
func PaginatedResponse(items interface{}, dataKey string, page, perPage int, totalItems int64) gin.H {
	totalPages := int((totalItems + int64(perPage) - 1) / int64(perPage))
	hasNext := page < totalPages
	hasPrev := page > 1

	var nextPage, prevPage interface{}
	if hasNext {
		nextPage = page + 1
	}
	if hasPrev {
		prevPage = page - 1
	}

	return gin.H{
		"pagination": gin.H{
			"page":        page,
			"per_page":    perPage,
			"total_items": totalItems,
			"total_pages": totalPages,
			"has_next":    hasNext,
			"has_prev":    hasPrev,
			"next_page":   nextPage,
			"prev_page":   prevPage,
		},
		dataKey: items,
	}
}
