package handlers

import (
	"net/http"

	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/apperrors"
	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/middleware"
	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service service.AuthService
}

func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, apperrors.NewValidation("body", "corpo da requisição inválido"))
		return
	}

	token, ngo, err := h.service.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"ngo":   ngo,
	})
}

func (h *AuthHandler) Profile(c *gin.Context) {
	ngo, err := h.service.Profile(c.Request.Context(), middleware.NgoID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ngo)
}
