// Package izipay calls the gateway's server-side validation endpoint to
// confirm that a notification's signed answer is genuine.
package izipay

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/andeanlabs/izibridge/internal/config"
	"github.com/andeanlabs/izibridge/internal/notification/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("gateway.izipay",
	fx.Provide(NewClient),
)

type Client struct {
	validateURL string
	username    string
	password    string
	client      *http.Client
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		validateURL: cfg.Gateway.ValidateURL,
		username:    cfg.Gateway.Username,
		password:    cfg.Gateway.Password,
		client:      &http.Client{Timeout: 12 * time.Second},
	}
}

type validateRequest struct {
	KrAnswer string `json:"kr-answer"`
	KrHash   string `json:"kr-hash"`
}

// Validate submits the signed answer and hash for verification. One call,
// no retries; the gateway re-delivers notifications on non-success
// responses. Transport errors and non-2xx statuses both surface as
// ErrValidationFailed.
func (c *Client) Validate(ctx context.Context, answer string, hash string) (domain.ValidationResult, error) {
	if strings.TrimSpace(c.validateURL) == "" {
		return domain.ValidationResult{}, domain.ErrValidationFailed
	}

	body, err := json.Marshal(validateRequest{KrAnswer: answer, KrHash: hash})
	if err != nil {
		return domain.ValidationResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.validateURL, bytes.NewReader(body))
	if err != nil {
		return domain.ValidationResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.ValidationResult{}, domain.ErrValidationFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return domain.ValidationResult{}, domain.ErrValidationFailed
	}

	var result domain.ValidationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return domain.ValidationResult{}, domain.ErrValidationFailed
	}
	return result, nil
}
