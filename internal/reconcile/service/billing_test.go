package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	notifdomain "github.com/andeanlabs/izibridge/internal/notification/domain"
)

func TestDeriveBillingShippingSplitsName(t *testing.T) {
	billing, shipping := DeriveBillingShipping("Ana Maria Torres", "ana@example.com", notifdomain.ShippingInfo{
		Address: "Av. Arequipa 100",
		City:    "Lima",
		State:   "Lima",
		ZipCode: "15046",
	})

	assert.Equal(t, "Ana", billing.FirstName)
	assert.Equal(t, "Maria Torres", billing.LastName)
	assert.Equal(t, "ana@example.com", billing.Email)
	assert.Equal(t, "Av. Arequipa 100", billing.Address1)
	assert.Equal(t, "PE", billing.Country)

	assert.Equal(t, "Ana", shipping.FirstName)
	assert.Equal(t, "Maria Torres", shipping.LastName)
	assert.Equal(t, "15046", shipping.Postcode)
	assert.Equal(t, "PE", shipping.Country)
}

func TestDeriveBillingShippingSingleToken(t *testing.T) {
	billing, _ := DeriveBillingShipping("Ana", "", notifdomain.ShippingInfo{})

	assert.Equal(t, "Ana", billing.FirstName)
	assert.Equal(t, "", billing.LastName)
	assert.Equal(t, "pagos@izipay.pe", billing.Email)
}

func TestDeriveBillingShippingDefaults(t *testing.T) {
	billing, shipping := DeriveBillingShipping("", "  ", notifdomain.ShippingInfo{})

	assert.Equal(t, "Cliente", billing.FirstName)
	assert.Equal(t, "Izipay", billing.LastName)
	assert.Equal(t, "pagos@izipay.pe", billing.Email)
	assert.Equal(t, "PE", billing.Country)
	assert.Equal(t, "Cliente", shipping.FirstName)
	assert.Empty(t, shipping.Address1)
}
