package service

import (
	"strings"

	"github.com/andeanlabs/izibridge/internal/commerce/woocommerce"
	notifdomain "github.com/andeanlabs/izibridge/internal/notification/domain"
)

const (
	defaultFirstName = "Cliente"
	defaultLastName  = "Izipay"
	defaultEmail     = "pagos@izipay.pe"
	merchantCountry  = "PE"
)

// DeriveBillingShipping rebuilds the order's address blocks from whatever
// the notification carried. The blocks are value objects: always fully
// reconstructed, never partially patched. The first name token becomes the
// first name, the remaining tokens the last name; missing fields take the
// merchant defaults and the country is always the merchant's.
func DeriveBillingShipping(customerName string, customerEmail string, shipping notifdomain.ShippingInfo) (woocommerce.Billing, woocommerce.Shipping) {
	firstName := defaultFirstName
	lastName := defaultLastName
	if tokens := strings.Fields(customerName); len(tokens) > 0 {
		firstName = tokens[0]
		if len(tokens) > 1 {
			lastName = strings.Join(tokens[1:], " ")
		} else {
			lastName = ""
		}
	}

	email := strings.TrimSpace(customerEmail)
	if email == "" {
		email = defaultEmail
	}

	billing := woocommerce.Billing{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Address1:  shipping.Address,
		City:      shipping.City,
		State:     shipping.State,
		Postcode:  shipping.ZipCode,
		Country:   merchantCountry,
	}
	shippingBlock := woocommerce.Shipping{
		FirstName: firstName,
		LastName:  lastName,
		Address1:  shipping.Address,
		City:      shipping.City,
		State:     shipping.State,
		Postcode:  shipping.ZipCode,
		Country:   merchantCountry,
	}
	return billing, shippingBlock
}
