package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MKato2361/Report-maker-V3/config"
	"github.com/MKato2361/Report-maker-V3/middleware"
)

type AuthHandler struct {
	config *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{config: cfg}
}

type LoginRequest struct {
	Passcode string `json:"passcode"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	Operator  string `json:"operator"`
}

// Login checks the shared passcode and issues a session token. An empty
// configured passcode means the gate is open (development mode), matching
// the behavior of the original hosted tool.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	expected := h.config.Auth.Passcode
	if subtle.ConstantTimeCompare([]byte(req.Passcode), []byte(expected)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid passcode"})
		return
	}

	operator := uuid.New().String()
	token, expiresAt, err := middleware.GenerateToken(operator, &h.config.Auth)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format("2006-01-02T15:04:05Z07:00"),
		Operator:  operator,
	})
}

// GetCurrentOperator returns the operator bound to the presented token
func (h *AuthHandler) GetCurrentOperator(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"operator": middleware.GetOperator(c),
	})
}
