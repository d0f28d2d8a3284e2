package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"bizlist/config"
	"bizlist/internal/checkout"
	"bizlist/internal/domain"
	"bizlist/internal/middleware"
	"bizlist/internal/models"
	"bizlist/internal/repository"
	"bizlist/internal/verification"
	"bizlist/internal/widget"
	"bizlist/internal/ws"
	"bizlist/pkg/processor"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CheckoutHandler struct {
	cfg              *config.Config
	store            *checkout.Store
	factory          processor.Factory
	registry         *widget.Registry
	settle           checkout.Settler
	emailSvc         verification.Service
	adRepo           *repository.AdRepository
	producerRepo     *repository.ProducerRepository
	paymentRepo      *repository.PaymentRepository
	verificationRepo *repository.VerificationRepository
	statusHub        *ws.Hub
}

func NewCheckoutHandler(
	cfg *config.Config,
	store *checkout.Store,
	factory processor.Factory,
	registry *widget.Registry,
	settle checkout.Settler,
	emailSvc verification.Service,
	adRepo *repository.AdRepository,
	producerRepo *repository.ProducerRepository,
	paymentRepo *repository.PaymentRepository,
	verificationRepo *repository.VerificationRepository,
	statusHub *ws.Hub,
) *CheckoutHandler {
	return &CheckoutHandler{
		cfg:              cfg,
		store:            store,
		factory:          factory,
		registry:         registry,
		settle:           settle,
		emailSvc:         emailSvc,
		adRepo:           adRepo,
		producerRepo:     producerRepo,
		paymentRepo:      paymentRepo,
		verificationRepo: verificationRepo,
		statusHub:        statusHub,
	}
}

// Create opens a checkout session for a classified ad or a producer
// subscription and starts widget initialization immediately; the client
// reports its container when the view commits.
func (h *CheckoutHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	email := middleware.GetEmail(c)
	var req struct {
		Kind     string `json:"kind" binding:"required,oneof=CLASSIFIED SUBSCRIPTION"`
		TargetID uint   `json:"target_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var amountCents int64
	switch req.Kind {
	case domain.CheckoutKindClassified:
		ad, err := h.adRepo.GetByID(req.TargetID)
		if err != nil || ad.UserID != userID {
			c.JSON(http.StatusNotFound, gin.H{"error": "ad not found"})
			return
		}
		if ad.Status != domain.AdStatusPendingPayment {
			c.JSON(http.StatusConflict, gin.H{"error": "ad is not awaiting payment"})
			return
		}
		amountCents = ad.PlacementCents
		if amountCents <= 0 {
			amountCents = domain.DefaultAdPlacementCents
		}
	case domain.CheckoutKindSubscription:
		p, err := h.producerRepo.GetByID(req.TargetID)
		if err != nil || p.UserID != userID {
			c.JSON(http.StatusNotFound, gin.H{"error": "producer not found"})
			return
		}
		if p.SubscriptionStatus == domain.SubscriptionActive {
			c.JSON(http.StatusConflict, gin.H{"error": "subscription is already active"})
			return
		}
		amountCents = p.SubscriptionCents
		if amountCents <= 0 {
			amountCents = domain.DefaultSubscriptionCents
		}
	}

	sessionID := uuid.New().String()
	containerID := "card-container-" + sessionID
	mgr := widget.NewManager(h.factory, h.registry, widget.Config{
		AppID:         h.cfg.Processor.AppID,
		LocationID:    h.cfg.Processor.LocationID,
		ContainerID:   containerID,
		MaxRetries:    h.cfg.Widget.MaxRetries,
		SettleDelay:   h.cfg.Widget.SettleDelay,
		ContainerWait: h.cfg.Widget.ContainerWait,
		PollInterval:  h.cfg.Widget.PollInterval,
	})
	mgr.SetOnChange(func(snap widget.Snapshot) {
		h.statusHub.BroadcastToUser(userID, gin.H{
			"type":        "widget_status",
			"checkout_id": sessionID,
			"widget":      snap,
		})
	})
	gate := verification.NewGate(h.emailSvc, email, req.Kind, sessionID)
	sess := &checkout.Session{
		ID:           sessionID,
		UserID:       userID,
		Kind:         req.Kind,
		ReferenceID:  req.TargetID,
		AmountCents:  amountCents,
		Currency:     "USD",
		ContainerID:  containerID,
		CreatedAt:    time.Now(),
		Manager:      mgr,
		Gate:         gate,
		Orchestrator: checkout.NewOrchestrator(h.settle, gate, h.paymentRepo),
	}
	h.store.Put(sess)
	mgr.Initialize()
	log.Printf("[CHECKOUT] session created id=%s kind=%s target=%d amount_cents=%d", sessionID, req.Kind, req.TargetID, amountCents)
	c.JSON(http.StatusCreated, gin.H{
		"checkout_id":  sessionID,
		"container_id": containerID,
		"amount_cents": amountCents,
		"currency":     sess.Currency,
		"widget":       mgr.Snapshot(),
	})
}

// ReportContainer records that the client's mount container exists (or was
// removed). The widget manager's poll loop picks this up.
func (h *CheckoutHandler) ReportContainer(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req struct {
		Connected *bool `json:"connected" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if *req.Connected {
		h.registry.Report(sess.ContainerID, true)
	} else {
		h.registry.Remove(sess.ContainerID)
	}
	c.JSON(http.StatusOK, gin.H{"container_id": sess.ContainerID, "connected": *req.Connected})
}

func (h *CheckoutHandler) Status(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"checkout_id":  sess.ID,
		"kind":         sess.Kind,
		"target_id":    sess.ReferenceID,
		"amount_cents": sess.AmountCents,
		"currency":     sess.Currency,
		"container_id": sess.ContainerID,
		"widget":       sess.Manager.Snapshot(),
		"email":        sess.Gate.State(),
		"in_flight":    sess.Orchestrator.InFlight(),
	})
}

// Retry is the manual affordance after a terminal initialization error.
func (h *CheckoutHandler) Retry(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	sess.Manager.Retry()
	c.JSON(http.StatusOK, gin.H{"widget": sess.Manager.Snapshot()})
}

// Teardown closes the session when the checkout view unmounts. Closing an
// already-closed session is fine.
func (h *CheckoutHandler) Teardown(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	h.registry.Remove(sess.ContainerID)
	h.store.Remove(sess.ID)
	c.JSON(http.StatusOK, gin.H{"closed": true})
}

func (h *CheckoutHandler) SendEmailCode(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	if err := sess.Gate.Send(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not send verification code"})
		return
	}
	// A prior verification of the same target is a UI hint only; this
	// session's gate still needs its own code.
	prev, _ := h.verificationRepo.LatestForTarget(sess.UserID, sess.Kind, sess.ReferenceID)
	c.JSON(http.StatusOK, gin.H{
		"sent":                true,
		"email":               sess.Gate.Email(),
		"previously_verified": prev != nil,
	})
}

func (h *CheckoutHandler) ValidateEmail(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
		return
	}
	if err := sess.Gate.Validate(c.Request.Context(), req.Token); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": sess.Gate.State().Err, "email": sess.Gate.State()})
		return
	}
	// One audit row per distinct code; re-validating the same code in a new
	// session is not a new verification event.
	if prev, err := h.verificationRepo.LatestForTarget(sess.UserID, sess.Kind, sess.ReferenceID); err != nil || prev.Token != req.Token {
		_ = h.verificationRepo.Create(&models.EmailVerification{
			UserID:     sess.UserID,
			Email:      sess.Gate.Email(),
			Scope:      sess.Kind,
			TargetID:   sess.ReferenceID,
			Token:      req.Token,
			VerifiedAt: time.Now(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"email": sess.Gate.State()})
}

// Pay runs the full submission: tokenize → verify buyer → settle.
func (h *CheckoutHandler) Pay(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req struct {
		Contact checkout.BillingContact `json:"contact"`
		Address checkout.BillingAddress `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// Handles are nil until the widget is ready; the orchestrator turns that
	// into its own not-initialized error.
	session, card, _ := sess.Manager.Handles()
	result, err := sess.Orchestrator.Submit(c.Request.Context(), checkout.SubmissionRequest{
		Widget:      card,
		Session:     session,
		Contact:     req.Contact,
		Address:     req.Address,
		UserID:      sess.UserID,
		Kind:        sess.Kind,
		ReferenceID: sess.ReferenceID,
		AmountCents: sess.AmountCents,
		Currency:    sess.Currency,
	})
	if err != nil {
		writeSubmitError(c, err)
		return
	}
	h.fulfill(sess)
	c.JSON(http.StatusOK, gin.H{
		"payment_status": domain.PaymentStatusCompleted,
		"order_ref":      result.OrderRef,
		"payment_ref":    result.PaymentRef,
		"receipt_number": result.ReceiptNumber,
	})
}

// fulfill applies the paid-for outcome: publish the ad or activate the
// subscription.
func (h *CheckoutHandler) fulfill(sess *checkout.Session) {
	now := time.Now()
	switch sess.Kind {
	case domain.CheckoutKindClassified:
		if err := h.adRepo.Publish(sess.ReferenceID, now); err != nil {
			log.Printf("[CHECKOUT] paid ad %d could not be published: %v", sess.ReferenceID, err)
		}
	case domain.CheckoutKindSubscription:
		if err := h.producerRepo.ActivateSubscription(sess.ReferenceID, now); err != nil {
			log.Printf("[CHECKOUT] paid subscription %d could not be activated: %v", sess.ReferenceID, err)
		}
	}
}

// session loads the checkout session from the path and enforces ownership.
func (h *CheckoutHandler) session(c *gin.Context) (*checkout.Session, bool) {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "checkout session not found"})
		return nil, false
	}
	if sess.UserID != middleware.GetUserID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "checkout session not found"})
		return nil, false
	}
	return sess, true
}

// writeSubmitError maps each orchestrator error category to a distinct
// status and message.
func writeSubmitError(c *gin.Context, err error) {
	var fieldErr *checkout.FieldError
	var tokErr *checkout.TokenizeError
	var verErr *checkout.VerificationError
	var subErr *checkout.SubmissionError
	var incErr *checkout.IncompletePaymentError
	switch {
	case errors.Is(err, checkout.ErrNotInitialized):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &fieldErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": fieldErr.Message, "field": fieldErr.Field})
	case errors.Is(err, checkout.ErrEmailNotVerified):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, checkout.ErrMissingReference):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, checkout.ErrSubmitInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &tokErr):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": tokErr.Message, "code": tokErr.Code})
	case errors.As(err, &verErr):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": verErr.Error()})
	case errors.As(err, &subErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": subErr.Error()})
	case errors.As(err, &incErr):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": incErr.Error(), "payment_status": incErr.Status})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "payment failed"})
	}
}
