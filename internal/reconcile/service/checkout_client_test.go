package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andeanlabs/izibridge/internal/config"
	notifdomain "github.com/andeanlabs/izibridge/internal/notification/domain"
)

func newCheckoutTestServer(t *testing.T, response map[string]any) (*httptest.Server, *[]map[string]any) {
	t.Helper()

	var bodies []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		bodies = append(bodies, body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}))
	t.Cleanup(srv.Close)
	return srv, &bodies
}

func checkoutFor(url string) *CheckoutClient {
	client := NewCheckoutClient(config.Config{
		Gateway: config.GatewayConfig{CheckoutWebhookURL: url},
	})
	return client.(*CheckoutClient)
}

func TestCheckoutForwardPassthrough(t *testing.T) {
	srv, bodies := newCheckoutTestServer(t, map[string]any{
		"success":       true,
		"order_created": true,
	})
	client := checkoutFor(srv.URL)

	n := &notifdomain.Notification{Answer: "signed", Hash: "abc"}
	raw := map[string]any{
		"kr_answer":  "signed",
		"kr_hash":    "abc",
		"cartItems":  []any{map[string]any{"product_id": float64(12)}},
		"email":      "ana@example.com",
		"other_junk": "dropped",
	}
	handled, err := client.Forward(context.Background(), n, raw)
	require.NoError(t, err)
	assert.True(t, handled)

	require.Len(t, *bodies, 1)
	body := (*bodies)[0]
	assert.Equal(t, "signed", body["kr_answer"])
	assert.Equal(t, "abc", body["kr_hash"])
	assert.Equal(t, "ana@example.com", body["email"])
	assert.Contains(t, body, "cartItems")
	// Only the recognized checkout fields travel along.
	assert.NotContains(t, body, "other_junk")
}

func TestCheckoutForwardNotHandled(t *testing.T) {
	srv, _ := newCheckoutTestServer(t, map[string]any{"success": true})
	client := checkoutFor(srv.URL)

	handled, err := client.Forward(context.Background(), &notifdomain.Notification{}, map[string]any{})
	require.NoError(t, err)
	assert.False(t, handled)
}

func TestCheckoutForwardFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	client := checkoutFor(srv.URL)

	handled, err := client.Forward(context.Background(), &notifdomain.Notification{}, map[string]any{})
	assert.Error(t, err)
	assert.False(t, handled)
}

func TestCheckoutForwardUnconfigured(t *testing.T) {
	client := checkoutFor("")

	handled, err := client.Forward(context.Background(), &notifdomain.Notification{}, map[string]any{})
	require.NoError(t, err)
	assert.False(t, handled)
}
