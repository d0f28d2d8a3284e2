package handler

import (
	"net/http"
	"strconv"

	"bizlist/internal/middleware"
	"bizlist/internal/repository"

	"github.com/gin-gonic/gin"
)

type MeHandler struct {
	paymentRepo *repository.PaymentRepository
}

func NewMeHandler(paymentRepo *repository.PaymentRepository) *MeHandler {
	return &MeHandler{paymentRepo: paymentRepo}
}

func (h *MeHandler) ListPayments(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	payments, err := h.paymentRepo.ListByUser(middleware.GetUserID(c), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load payments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}
