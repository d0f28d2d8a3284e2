package handler

import (
	"net/http"
	"strconv"

	"bizlist/internal/domain"
	"bizlist/internal/middleware"
	"bizlist/internal/models"
	"bizlist/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListingHandler covers the minimal classified-ad surface checkout needs:
// drafting an ad (which becomes the payment target) and reading it back.
type ListingHandler struct {
	adRepo *repository.AdRepository
}

func NewListingHandler(adRepo *repository.AdRepository) *ListingHandler {
	return &ListingHandler{adRepo: adRepo}
}

func (h *ListingHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Title    string `json:"title" binding:"required,max=255"`
		Body     string `json:"body"`
		Category string `json:"category" binding:"required,max=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ad := &models.ClassifiedAd{
		UserID:         userID,
		Title:          req.Title,
		Body:           req.Body,
		Category:       req.Category,
		PlacementCents: domain.DefaultAdPlacementCents,
		Status:         domain.AdStatusPendingPayment,
	}
	if err := h.adRepo.Create(ad); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create ad"})
		return
	}
	c.JSON(http.StatusCreated, ad)
}

func (h *ListingHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ad id"})
		return
	}
	ad, err := h.adRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "ad not found"})
		return
	}
	if ad.UserID != middleware.GetUserID(c) && ad.Status != domain.AdStatusPublished {
		c.JSON(http.StatusNotFound, gin.H{"error": "ad not found"})
		return
	}
	c.JSON(http.StatusOK, ad)
}
