package twocheckout

import "github.com/shopspring/decimal"

// PropertyBag resolves custom order or order line properties by alias.
type PropertyBag interface {
	Get(alias string) (string, bool)
}

// Properties is the map backed PropertyBag used by the JSON order payload.
type Properties map[string]string

func (p Properties) Get(alias string) (string, bool) {
	v, ok := p[alias]
	return v, ok
}

// Price carries an amount with and without tax.
type Price struct {
	WithoutVAT decimal.Decimal `json:"without_vat"`
	WithVAT    decimal.Decimal `json:"with_vat"`
}

type PaymentInformation struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" validate:"omitempty,email"`
}

// Method is a shipping or payment method together with the fee it adds.
type Method struct {
	Name       string `json:"name"`
	TotalPrice Price  `json:"total_price"`
}

type OrderLine struct {
	ProductNumber string     `json:"product_number"`
	ProductName   string     `json:"product_name"`
	Quantity      int64      `json:"quantity" validate:"gte=0"`
	UnitPrice     Price      `json:"unit_price"`
	Properties    Properties `json:"properties" validate:"omitempty,mapStringString"`
}

// Order is the subset of the host order that the gateway form is built from.
type Order struct {
	CartNumber     string             `json:"cart_number" validate:"required"`
	TotalPrice     Price              `json:"total_price"`
	Payment        PaymentInformation `json:"payment_information"`
	ShippingMethod Method             `json:"shipping_method"`
	PaymentMethod  Method             `json:"payment_method"`
	CountryCode    string             `json:"country_code"`
	OrderLines     []OrderLine        `json:"order_lines" validate:"dive"`
	Properties     Properties         `json:"properties" validate:"omitempty,mapStringString"`
}
