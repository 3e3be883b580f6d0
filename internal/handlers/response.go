package handlers

import (
	"log"
	"net/http"

	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/apperrors"

	"github.com/gin-gonic/gin"
)

// respondError maps a tagged domain error to its HTTP status. Anything
// outside the taxonomy is a store or infrastructure failure: it is logged
// with full context and the client only sees a generic 500.
func respondError(c *gin.Context, err error) {
	if appErr := apperrors.As(err); appErr != nil {
		body := gin.H{"message": appErr.Message}
		if appErr.Field != "" {
			body["field"] = appErr.Field
		}
		c.JSON(appErr.Status, body)
		return
	}

	log.Printf("Internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "erro interno do servidor"})
}
