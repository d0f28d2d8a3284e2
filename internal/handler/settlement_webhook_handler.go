package handler

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"bizlist/internal/domain"
	"bizlist/internal/repository"

	"github.com/gin-gonic/gin"
)

// SettlementCallback is the webhook payload from the settlement service for
// payments that resolve asynchronously (e.g. a review hold clearing).
type SettlementCallback struct {
	OrderID       string `json:"order_id"`
	PaymentStatus string `json:"payment_status"`
	OrderRef      string `json:"order_ref"`
	PaymentRef    string `json:"payment_ref"`
	ReceiptNumber string `json:"receipt_number"`
	Reason        string `json:"reason"`
}

type SettlementWebhookHandler struct {
	paymentRepo  *repository.PaymentRepository
	adRepo       *repository.AdRepository
	producerRepo *repository.ProducerRepository
}

func NewSettlementWebhookHandler(
	paymentRepo *repository.PaymentRepository,
	adRepo *repository.AdRepository,
	producerRepo *repository.ProducerRepository,
) *SettlementWebhookHandler {
	return &SettlementWebhookHandler{
		paymentRepo:  paymentRepo,
		adRepo:       adRepo,
		producerRepo: producerRepo,
	}
}

// Handle processes the settlement callback. Unknown or already-final orders
// are acknowledged without changes so the service stops redelivering.
func (h *SettlementWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	var payload SettlementCallback
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Printf("[SETTLEMENT callback] json unmarshal error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	log.Printf("[SETTLEMENT callback] order_id=%s payment_status=%s", payload.OrderID, payload.PaymentStatus)
	if payload.OrderID == "" {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	p, err := h.paymentRepo.GetByProviderRef(payload.OrderID)
	if err != nil || p == nil {
		log.Printf("[SETTLEMENT callback] payment not found for order_id=%s", payload.OrderID)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	if p.Status == domain.PaymentStatusCompleted {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	if payload.PaymentStatus != domain.PaymentStatusCompleted {
		if p.Status == domain.PaymentStatusPending {
			p.Status = domain.PaymentStatusFailed
			p.FailureReason = payload.Reason
			_ = h.paymentRepo.Update(p)
		}
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	now := time.Now()
	p.Status = domain.PaymentStatusCompleted
	p.OrderRef = payload.OrderRef
	p.PaymentRef = payload.PaymentRef
	p.ReceiptNumber = payload.ReceiptNumber
	p.CompletedAt = &now
	if err := h.paymentRepo.Update(p); err != nil {
		log.Printf("[SETTLEMENT callback] update failed for order_id=%s: %v", payload.OrderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	switch p.Kind {
	case domain.CheckoutKindClassified:
		_ = h.adRepo.Publish(p.ReferenceID, now)
	case domain.CheckoutKindSubscription:
		_ = h.producerRepo.ActivateSubscription(p.ReferenceID, now)
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
