package notification_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andeanlabs/izibridge/internal/notification"
	"github.com/andeanlabs/izibridge/internal/notification/domain"
)

func decodeBody(t *testing.T, body string) map[string]any {
	t.Helper()
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return raw
}

func TestNormalizeIPNPayload(t *testing.T) {
	raw := decodeBody(t, `{
		"kr_answer": "signed-answer",
		"kr_hash": "abc123",
		"kr_transaction_id": "txn-900",
		"kr_amount": "150.00",
		"kr_status": "PAID",
		"kr_order_id": 501,
		"kr_customer_email": "ana@example.com",
		"kr_customer_name": "Ana Maria Torres",
		"kr_shipping_info": {"address": "Av. Arequipa 100", "city": "Lima", "state": "Lima", "zipCode": "15046"}
	}`)

	n := notification.Normalize(raw)

	assert.Equal(t, "signed-answer", n.Answer)
	assert.Equal(t, "abc123", n.Hash)
	assert.Equal(t, "txn-900", n.TransactionID)
	assert.Equal(t, "150.00", n.Amount)
	assert.Equal(t, "PAID", n.Status)
	assert.Equal(t, int64(501), n.OrderID)
	assert.Equal(t, "ana@example.com", n.CustomerEmail)
	assert.Equal(t, "Ana Maria Torres", n.CustomerName)
	assert.Equal(t, "Av. Arequipa 100", n.Shipping.Address)
	assert.Equal(t, "15046", n.Shipping.ZipCode)
	assert.Empty(t, n.MissingPaymentData())
}

func TestNormalizeWebhookAliases(t *testing.T) {
	raw := decodeBody(t, `{
		"clientAnswer": "signed-answer",
		"hash": "abc123",
		"transaction_id": "txn-901",
		"amount": 99.9,
		"status": "paid",
		"email": "ana@example.com",
		"name": "Ana",
		"metadata": {"order_id": "777"},
		"cartItems": [{"product_id": 12, "quantity": 2, "name": "Rosas", "price": "10.00"}],
		"shippingInfo": {"address": "Jr. Union 5", "city": "Lima", "state": "Lima", "zip_code": "15001"}
	}`)

	n := notification.Normalize(raw)

	assert.Equal(t, "signed-answer", n.Answer)
	assert.Equal(t, "abc123", n.Hash)
	assert.Equal(t, "txn-901", n.TransactionID)
	assert.Equal(t, "99.90", n.Amount)
	assert.Equal(t, "paid", n.Status)
	assert.Equal(t, int64(777), n.OrderID)
	require.Len(t, n.CartItems, 1)
	assert.Equal(t, int64(12), n.CartItems[0].ProductID)
	assert.Equal(t, 2, n.CartItems[0].Quantity)
	assert.Equal(t, "15001", n.Shipping.ZipCode)
}

func TestNormalizeTopLevelOrderIDWins(t *testing.T) {
	raw := decodeBody(t, `{"order_id": 10, "metadata": {"order_id": 99}}`)
	n := notification.Normalize(raw)
	assert.Equal(t, int64(10), n.OrderID)
}

func TestNormalizeCartItemDefaults(t *testing.T) {
	raw := decodeBody(t, `{
		"kr_cart_items": [
			{"product_id": "44", "name": "Tulipanes"},
			{"product_id": 45, "quantity": 0, "price": "5.50",
			 "variations": [
				{"variation_id": 300, "attributes": {"color": "Rojo", "size": "M"}},
				{"variation_id": 301, "attributes": {"color": "Blanco", "size": "M"}}
			 ],
			 "selectedAttributes": {"color": "blanco", "size": "m"}}
		]
	}`)

	n := notification.Normalize(raw)

	require.Len(t, n.CartItems, 2)
	assert.Equal(t, int64(44), n.CartItems[0].ProductID)
	assert.Equal(t, 1, n.CartItems[0].Quantity)
	assert.Equal(t, 1, n.CartItems[1].Quantity)
	require.Len(t, n.CartItems[1].Variations, 2)
	assert.Equal(t, int64(301), n.CartItems[1].Variations[1].VariationID)
	assert.Equal(t, "blanco", n.CartItems[1].SelectedAttributes["color"])
}

func TestNormalizeNumericAmounts(t *testing.T) {
	raw := decodeBody(t, `{
		"kr_amount": 20.00,
		"kr_cart_items": [{"product_id": 7, "quantity": 2, "price": 10}]
	}`)

	n := notification.Normalize(raw)

	// JSON numbers keep their monetary two-decimal form.
	assert.Equal(t, "20.00", n.Amount)
	require.Len(t, n.CartItems, 1)
	assert.Equal(t, "10.00", n.CartItems[0].Price)

	n = notification.Normalize(map[string]any{"kr_amount": "150.00"})
	assert.Equal(t, "150.00", n.Amount)
}

func TestMissingPaymentData(t *testing.T) {
	n := notification.Normalize(map[string]any{"kr_amount": "10.00"})
	assert.Equal(t, []string{"kr_answer", "kr_hash"}, n.MissingPaymentData())

	n = notification.Normalize(map[string]any{"kr_answer": "x"})
	assert.Equal(t, []string{"kr_hash"}, n.MissingPaymentData())

	n = &domain.Notification{Answer: "x", Hash: "y"}
	assert.Empty(t, n.MissingPaymentData())
}
