package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"eventura-api/services"
)

// respondError translates service errors into the HTTP status and error
// body the API exposes. Anything untyped is an internal failure.
func respondError(c *gin.Context, err error) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		c.JSON(svcErr.HTTPStatus(), gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
