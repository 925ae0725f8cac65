package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/andeanlabs/izibridge/internal/notification"
	notifdomain "github.com/andeanlabs/izibridge/internal/notification/domain"
)

// HandleIPN processes the gateway's server-to-server instant payment
// notification.
func (s *Server) HandleIPN(c *gin.Context) {
	s.handleNotification(c, "ipn")
}

// HandleCheckoutWebhook processes the companion checkout webhook, which
// accepts the same payload with looser field spellings.
func (s *Server) HandleCheckoutWebhook(c *gin.Context) {
	s.handleNotification(c, "webhook")
}

func (s *Server) handleNotification(c *gin.Context, endpoint string) {
	ctx := c.Request.Context()

	if s.limiter != nil && s.limiter.Enabled() {
		allowed, err := s.limiter.AllowSource(ctx, c.ClientIP())
		if err != nil {
			// Redis being down must not block payment confirmations.
			s.log.Warn("rate limit check failed", zap.Error(err))
			allowed = true
		}
		if !allowed {
			s.recordOutcome(endpoint, "rate_limited")
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate_limited"})
			return
		}
	}

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	n := notification.Normalize(raw)

	if missing := n.MissingPaymentData(); len(missing) > 0 {
		s.recordOutcome(endpoint, notifdomain.OutcomeIgnored)
		c.JSON(http.StatusOK, gin.H{
			"ignored":        true,
			"reason":         "missing_payment_data",
			"missing_fields": missing,
		})
		return
	}

	verdict, err := s.gateway.Validate(ctx, n.Answer, n.Hash)
	if err != nil {
		s.log.Warn("gateway validation call failed",
			zap.String("endpoint", endpoint),
			zap.String("transaction_id", n.TransactionID),
			zap.Error(err))
		s.recordOutcome(endpoint, notifdomain.OutcomeFailed)
		AbortWithError(c, err)
		return
	}

	if !verdict.Valid || !verdict.Success {
		s.recordOutcome(endpoint, notifdomain.OutcomeIgnored)
		c.JSON(http.StatusOK, gin.H{
			"ignored": true,
			"reason":  "payment_not_validated",
		})
		return
	}

	if !s.mapper.IsSuccessful(n.Status) {
		s.recordOutcome(endpoint, notifdomain.OutcomeIgnored)
		c.JSON(http.StatusOK, gin.H{
			"ignored": true,
			"reason":  "transaction_not_successful",
			"status":  n.Status,
		})
		return
	}

	res, err := s.reconciler.Reconcile(ctx, n, raw)
	if err != nil {
		s.log.Error("reconciliation failed",
			zap.String("endpoint", endpoint),
			zap.String("transaction_id", n.TransactionID),
			zap.Int64("order_id", n.OrderID),
			zap.Error(err))
		s.recordOutcome(endpoint, notifdomain.OutcomeFailed)
		AbortWithError(c, err)
		return
	}

	outcome := notifdomain.OutcomeUpdated
	message := "order updated"
	switch {
	case res.Created:
		outcome = notifdomain.OutcomeCreated
		message = "order created"
	case res.HandledByWebhook:
		outcome = notifdomain.OutcomeForwarded
		message = "order handled by checkout webhook"
	}
	s.recordOutcome(endpoint, outcome)

	resp := gin.H{
		"success":        true,
		"message":        message,
		"order_updated":  res.Updated,
		"order_created":  res.Created,
		"transaction_id": n.TransactionID,
		"amount":         n.Amount,
		"status":         n.Status,
		"wc_status":      res.WCStatus,
	}
	if res.OrderID != 0 {
		resp["order_id"] = res.OrderID
	}
	if endpoint == "webhook" {
		resp["webhook_processed"] = true
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) recordOutcome(endpoint string, outcome string) {
	if s.obsMetrics == nil {
		return
	}
	s.obsMetrics.RecordNotification(endpoint, outcome)
}
