package emails

import (
	"net/http"

	"billing-app/internal/infra/email"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Handler struct {
	sender email.Sender
	logger zerolog.Logger
}

func NewHandler(sender email.Sender, logger zerolog.Logger) *Handler {
	return &Handler{sender: sender, logger: logger}
}

type welcomeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required"`
}

func (h *Handler) SendWelcomeEmail(c *gin.Context) {
	var body welcomeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and name are required"})
		return
	}

	if !h.sender.SendWelcomeEmail(body.Email, body.Name) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to send welcome email"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Welcome email sent successfully"})
}

type transactionRequest struct {
	Email  string  `json:"email" binding:"required,email"`
	Name   string  `json:"name" binding:"required"`
	Plan   string  `json:"plan" binding:"required"`
	Amount float64 `json:"amount" binding:"required"`
}

func (h *Handler) SendTransactionEmail(c *gin.Context) {
	var body transactionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}

	if !h.sender.SendTransactionEmail(body.Email, body.Name, body.Amount, body.Plan) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to send transaction email"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction email sent successfully"})
}
