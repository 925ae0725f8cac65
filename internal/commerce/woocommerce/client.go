// Package woocommerce is the HTTP client for the commerce backend's order
// API. The service only gets, updates, and creates orders; it never deletes
// them.
package woocommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andeanlabs/izibridge/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("commerce.woocommerce",
	fx.Provide(NewClient),
)

var ErrOrderNotFound = errors.New("order_not_found")

type Client struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	client         *http.Client
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		baseURL:        strings.TrimRight(cfg.Commerce.APIBaseURL, "/"),
		consumerKey:    cfg.Commerce.ConsumerKey,
		consumerSecret: cfg.Commerce.ConsumerSecret,
		client:         &http.Client{Timeout: 12 * time.Second},
	}
}

func (c *Client) GetOrder(ctx context.Context, orderID int64) (*Order, error) {
	var order Order
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", orderID), nil, &order); err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, ErrOrderNotFound
	}
	return &order, nil
}

func (c *Client) UpdateOrder(ctx context.Context, orderID int64, update OrderUpdate) (*Order, error) {
	var order Order
	if err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/orders/%d", orderID), update, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) CreateOrder(ctx context.Context, create OrderCreate) (*Order, error) {
	var order Order
	if err := c.doRequest(ctx, http.MethodPost, "/orders", create, &order); err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, errors.New("order_create_response_invalid")
	}
	return &order, nil
}

func (c *Client) doRequest(ctx context.Context, method string, path string, body any, out any) error {
	if c.baseURL == "" {
		return errors.New("commerce api base url is not configured")
	}

	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return err
	}
	query := endpoint.Query()
	query.Set("consumer_key", c.consumerKey)
	query.Set("consumer_secret", c.consumerSecret)
	endpoint.RawQuery = query.Encode()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrOrderNotFound
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("commerce api %s %s: status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return err
		}
	}
	return nil
}
