package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/andeanlabs/izibridge/internal/commerce/woocommerce"
	notifdomain "github.com/andeanlabs/izibridge/internal/notification/domain"
)

// genericProductID is the placeholder product attached to the synthetic
// line item when no cart data can be recovered.
const genericProductID = 0

const genericItemName = "Pago Izipay (cobro manual)"

func buildLineItems(items []notifdomain.CartItem) []woocommerce.LineItem {
	out := make([]woocommerce.LineItem, 0, len(items))
	for _, item := range items {
		line := woocommerce.LineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Name:      item.Name,
			Total:     lineTotal(item.Price, item.Quantity),
		}
		if variationID := matchVariation(item.Variations, item.SelectedAttributes); variationID != 0 {
			line.VariationID = variationID
		}
		out = append(out, line)
	}
	return out
}

// matchVariation picks the first variation whose every declared attribute
// equals the corresponding selected value. No scoring, no partial match;
// no match means the variation id is omitted.
func matchVariation(variations []notifdomain.Variation, selected map[string]string) int64 {
	if len(variations) == 0 || len(selected) == 0 {
		return 0
	}
	for _, variation := range variations {
		if len(variation.Attributes) == 0 {
			continue
		}
		matched := true
		for name, value := range variation.Attributes {
			if !strings.EqualFold(strings.TrimSpace(selected[name]), strings.TrimSpace(value)) {
				matched = false
				break
			}
		}
		if matched {
			return variation.VariationID
		}
	}
	return 0
}

func lineTotal(price string, quantity int) string {
	unit, err := strconv.ParseFloat(strings.TrimSpace(price), 64)
	if err != nil {
		return "0.00"
	}
	if quantity <= 0 {
		quantity = 1
	}
	return fmt.Sprintf("%.2f", unit*float64(quantity))
}

func syntheticLineItem(amount string) woocommerce.LineItem {
	total := strings.TrimSpace(amount)
	if total == "" {
		total = "0.00"
	}
	return woocommerce.LineItem{
		ProductID: genericProductID,
		Quantity:  1,
		Name:      genericItemName,
		Total:     total,
	}
}
