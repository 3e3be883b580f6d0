package middleware

import (
	"net/http"
	"strings"

	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/auth"

	"github.com/gin-gonic/gin"
)

const (
	ContextNgoID = "ngoId"
	ContextEmail = "ngoEmail"
)

// AuthMiddleware verifies the bearer session token and stores the NGO
// identity on the gin context. Missing, malformed and invalid tokens all
// map to 401; ownership decisions (403) happen later, in the service.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "token de autenticação ausente"})
			return
		}
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "cabeçalho de autorização malformado"})
			return
		}

		claims, err := auth.ValidateToken(secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "token inválido ou expirado"})
			return
		}

		c.Set(ContextNgoID, claims.NgoID)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

// NgoID reads the authenticated NGO id set by AuthMiddleware.
func NgoID(c *gin.Context) uint {
	id, _ := c.Get(ContextNgoID)
	ngoID, _ := id.(uint)
	return ngoID
}
