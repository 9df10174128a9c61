package handlers

import (
	"log"
	"net/http"

	"backoffice/internal/domain"
	"backoffice/internal/http/middleware"
	"backoffice/internal/pagination"

	"github.com/gin-gonic/gin"
)

// respond sends the uniform success envelope.
func respond(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// respondList sends one page of data with its pagination block.
func respondList(c *gin.Context, data any, meta pagination.Meta) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "pagination": meta})
}

// respondError sends the uniform failure envelope with a single message.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// RespondDomainError is the single boundary that maps typed domain errors onto
// HTTP. Validation failures carry the full field list; everything else carries
// one message. Anything untyped becomes a 500 without leaking internals.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "validation failed",
			"errors":  domain.FieldsOf(err),
		})
	case domain.IsUnauthorized(err):
		respondError(c, http.StatusUnauthorized, err.Error())
	case domain.IsForbidden(err):
		respondError(c, http.StatusForbidden, err.Error())
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, err.Error())
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, err.Error())
	default:
		log.Printf("[HTTP] request_id=%s unhandled error: %v", middleware.GetRequestID(c), err)
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		respondError(c, http.StatusBadRequest, "request body is required")
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "invalid JSON payload")
		return false
	}
	return true
}
