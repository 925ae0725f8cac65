package notification

import (
	"strconv"
	"strings"

	"github.com/andeanlabs/izibridge/internal/notification/domain"
)

// Normalize folds the many accepted external field spellings into one
// Notification. The IPN sender uses kr_-prefixed names; the checkout page
// posts plain names; some senders nest the order id under metadata.
func Normalize(raw map[string]any) *domain.Notification {
	n := &domain.Notification{
		Answer:        firstString(raw, "kr_answer", "clientAnswer", "kr-answer"),
		Hash:          firstString(raw, "kr_hash", "hash", "kr-hash"),
		TransactionID: firstString(raw, "kr_transaction_id", "transaction_id", "transactionId"),
		Amount:        asAmount(first(raw, "kr_amount", "amount")),
		Status:        firstString(raw, "kr_status", "status"),
		CustomerEmail: firstString(raw, "kr_customer_email", "customerEmail", "customer_email", "email"),
		CustomerName:  firstString(raw, "kr_customer_name", "customerName", "customer_name", "name"),
	}

	n.OrderID = asInt64(first(raw, "kr_order_id", "order_id", "orderId"))
	if n.OrderID == 0 {
		if meta := asMap(raw["metadata"]); meta != nil {
			n.OrderID = asInt64(first(meta, "order_id", "orderId"))
		}
	}

	if items := asSlice(first(raw, "kr_cart_items", "cartItems", "cart_items")); items != nil {
		for _, item := range items {
			entry := asMap(item)
			if entry == nil {
				continue
			}
			n.CartItems = append(n.CartItems, normalizeCartItem(entry))
		}
	}

	if shipping := asMap(first(raw, "kr_shipping_info", "shippingInfo", "shipping_info")); shipping != nil {
		n.Shipping = domain.ShippingInfo{
			Address: firstString(shipping, "address"),
			City:    firstString(shipping, "city"),
			State:   firstString(shipping, "state"),
			ZipCode: firstString(shipping, "zipCode", "zip_code"),
		}
	}

	return n
}

func normalizeCartItem(entry map[string]any) domain.CartItem {
	item := domain.CartItem{
		ProductID: asInt64(first(entry, "product_id", "productId")),
		Quantity:  int(asInt64(entry["quantity"])),
		Name:      firstString(entry, "name"),
		Price:     asAmount(first(entry, "price")),
	}
	if item.Quantity <= 0 {
		item.Quantity = 1
	}

	if variations := asSlice(entry["variations"]); variations != nil {
		for _, variation := range variations {
			varEntry := asMap(variation)
			if varEntry == nil {
				continue
			}
			item.Variations = append(item.Variations, domain.Variation{
				VariationID: asInt64(first(varEntry, "variation_id", "variationId", "id")),
				Attributes:  asStringMap(varEntry["attributes"]),
			})
		}
	}
	item.SelectedAttributes = asStringMap(first(entry, "selectedAttributes", "selected_attributes"))

	return item
}

func first(raw map[string]any, keys ...string) any {
	for _, key := range keys {
		if value, ok := raw[key]; ok && value != nil {
			return value
		}
	}
	return nil
}

func firstString(raw map[string]any, keys ...string) string {
	return asString(first(raw, keys...))
}

func asString(value any) string {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		if typed == float64(int64(typed)) {
			return strconv.FormatInt(int64(typed), 10)
		}
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(typed, 10)
	case int:
		return strconv.Itoa(typed)
	case bool:
		return strconv.FormatBool(typed)
	default:
		return ""
	}
}

// asAmount keeps monetary strings as sent but formats JSON numbers with two
// decimals, so a numeric 20 arrives downstream as "20.00" rather than "20".
func asAmount(value any) string {
	if typed, ok := value.(float64); ok {
		return strconv.FormatFloat(typed, 'f', 2, 64)
	}
	return asString(value)
}

func asInt64(value any) int64 {
	switch typed := value.(type) {
	case float64:
		return int64(typed)
	case int64:
		return typed
	case int:
		return int64(typed)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func asMap(value any) map[string]any {
	typed, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	return typed
}

func asSlice(value any) []any {
	typed, ok := value.([]any)
	if !ok {
		return nil
	}
	return typed
}

func asStringMap(value any) map[string]string {
	raw := asMap(value)
	if raw == nil {
		return nil
	}
	out := make(map[string]string, len(raw))
	for key, entry := range raw {
		out[key] = asString(entry)
	}
	return out
}
