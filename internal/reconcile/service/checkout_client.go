package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/andeanlabs/izibridge/internal/config"
	notifdomain "github.com/andeanlabs/izibridge/internal/notification/domain"
	reconciledomain "github.com/andeanlabs/izibridge/internal/reconcile/domain"
)

// passthroughFields are copied from the original inbound request body, not
// from the normalized notification: the checkout page may have POSTed cart
// and customer data under these names that the IPN itself does not carry.
var passthroughFields = []string{
	"cartItems", "cart_items",
	"shippingInfo", "shipping_info",
	"customerEmail", "customer_email", "email",
	"customerName", "customer_name", "name",
	"order_id", "metadata",
	"amount", "transaction_id", "status",
}

type CheckoutClient struct {
	url    string
	client *http.Client
}

func NewCheckoutClient(cfg config.Config) reconciledomain.Checkout {
	return &CheckoutClient{
		url:    cfg.Gateway.CheckoutWebhookURL,
		client: &http.Client{Timeout: 12 * time.Second},
	}
}

type checkoutResponse struct {
	Success          bool `json:"success"`
	WebhookProcessed bool `json:"webhook_processed"`
	OrderUpdated     bool `json:"order_updated"`
	OrderCreated     bool `json:"order_created"`
}

func (c *CheckoutClient) Forward(ctx context.Context, n *notifdomain.Notification, raw map[string]any) (bool, error) {
	if strings.TrimSpace(c.url) == "" {
		return false, nil
	}

	body := map[string]any{
		"kr_answer": n.Answer,
		"kr_hash":   n.Hash,
	}
	for _, field := range passthroughFields {
		if value, ok := raw[field]; ok && value != nil {
			body[field] = value
		}
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return false, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(encoded))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return false, fmt.Errorf("checkout webhook: status %d", resp.StatusCode)
	}

	var result checkoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, err
	}
	return result.Success && (result.OrderUpdated || result.OrderCreated || result.WebhookProcessed), nil
}
