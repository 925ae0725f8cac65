package woocommerce

// Order is the slice of the backend's order resource this service reads.
// Lookups only check existence, so most fields stay untyped on the wire.
type Order struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// OrderUpdate carries the only fields the update path is allowed to touch.
// Line items and addresses are assumed correct from checkout-time creation.
type OrderUpdate struct {
	Status             string     `json:"status"`
	SetPaid            bool       `json:"set_paid"`
	PaymentMethod      string     `json:"payment_method"`
	PaymentMethodTitle string     `json:"payment_method_title"`
	MetaData           []MetaData `json:"meta_data,omitempty"`
}

type OrderCreate struct {
	Status             string     `json:"status"`
	SetPaid            bool       `json:"set_paid"`
	PaymentMethod      string     `json:"payment_method"`
	PaymentMethodTitle string     `json:"payment_method_title"`
	Billing            Billing    `json:"billing"`
	Shipping           Shipping   `json:"shipping"`
	LineItems          []LineItem `json:"line_items"`
	MetaData           []MetaData `json:"meta_data,omitempty"`
}

type LineItem struct {
	ProductID   int64  `json:"product_id"`
	VariationID int64  `json:"variation_id,omitempty"`
	Quantity    int    `json:"quantity"`
	Name        string `json:"name,omitempty"`
	Total       string `json:"total"`
}

type Billing struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Address1  string `json:"address_1"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
}

type Shipping struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address1  string `json:"address_1"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
}

type MetaData struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
