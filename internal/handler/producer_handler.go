package handler

import (
	"net/http"

	"bizlist/internal/domain"
	"bizlist/internal/middleware"
	"bizlist/internal/models"
	"bizlist/internal/repository"

	"github.com/gin-gonic/gin"
)

// ProducerHandler covers the minimal directory surface checkout needs: a
// producer profile whose subscription can be paid for.
type ProducerHandler struct {
	producerRepo *repository.ProducerRepository
}

func NewProducerHandler(producerRepo *repository.ProducerRepository) *ProducerHandler {
	return &ProducerHandler{producerRepo: producerRepo}
}

func (h *ProducerHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if existing, err := h.producerRepo.GetByUserID(userID); err == nil && existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "producer profile already exists"})
		return
	}
	var req struct {
		BusinessName string `json:"business_name" binding:"required,max=255"`
		Category     string `json:"category" binding:"required,max=100"`
		Phone        string `json:"phone"`
		Website      string `json:"website"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := &models.Producer{
		UserID:             userID,
		BusinessName:       req.BusinessName,
		Category:           req.Category,
		Phone:              req.Phone,
		Website:            req.Website,
		SubscriptionCents:  domain.DefaultSubscriptionCents,
		SubscriptionStatus: domain.SubscriptionNone,
	}
	if err := h.producerRepo.Create(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create producer profile"})
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ProducerHandler) GetMine(c *gin.Context) {
	p, err := h.producerRepo.GetByUserID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "producer profile not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}
