package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"mechshop-backend/services"
	"mechshop-backend/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrConflict):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	}
}

// parseIDParam reads a positive integer path parameter, responding 400 itself
// on failure.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return 0, false
	}
	return uint(id), true
}

// authedCustomerID returns the customer id the auth middleware stored.
func authedCustomerID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("customerID")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Customer ID not found in context")
		return 0, false
	}
	id, ok := v.(uint)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid customer ID in context")
		return 0, false
	}
	return id, true
}
