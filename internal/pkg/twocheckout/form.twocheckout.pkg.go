package twocheckout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// MaxNameLength is the longest line item name the gateway accepts.
const MaxNameLength = 128

// defaultParameterValue is sent for buyer fields that cannot be resolved.
const defaultParameterValue = ""

// BuildForm maps an order onto the flat field set posted to FormPostURL.
// It never fails: unresolved optional data is sent as an empty string.
// cancelURL and callbackURL are accepted for symmetry with other providers; the
// gateway has no cancel redirect and its callback target is x_receipt_link_url.
func BuildForm(order *Order, continueURL, cancelURL, callbackURL string, settings Settings) *FormFields {
	fields := settings.passThrough()

	fields.Set("cart_order_id", order.CartNumber)
	fields.Set("total", FormatAmount(order.TotalPrice.WithVAT))
	fields.Set("x_receipt_link_url", continueURL)

	fields.Set("card_holder_name", order.Payment.FirstName+" "+order.Payment.LastName)
	fields.Set("street_address", aliasedProperty(order.Properties, settings, KeyStreetAddressPropertyAlias))
	fields.Set("city", aliasedProperty(order.Properties, settings, KeyCityPropertyAlias))
	fields.Set("state", aliasedProperty(order.Properties, settings, KeyStatePropertyAlias))
	fields.Set("zip", aliasedProperty(order.Properties, settings, KeyZipCodePropertyAlias))
	fields.Set("country", order.CountryCode)
	fields.Set("email", order.Payment.Email)
	fields.Set("phone", aliasedProperty(order.Properties, settings, KeyPhonePropertyAlias))
	fields.Set("phone_extension", aliasedProperty(order.Properties, settings, KeyPhoneExtensionPropertyAlias))

	fields.Set("fixed", "Y")
	fields.Set("skip_landing", "1")
	if demo, ok := fields.Get(KeyDemo); ok && demo != DemoEnabled {
		fields.Delete(KeyDemo)
	}
	fields.Set("id_type", "1")

	// Lines are added in reverse order of the UI.
	items := &lineItems{fields: fields, index: 1}

	if fee := order.PaymentMethod.TotalPrice.WithVAT; !fee.IsZero() {
		items.add(
			settings.Get(KeyPaymentMethodProductNumber)+",1",
			formatLabel(settings.Get(KeyPaymentMethodFormatString), order.PaymentMethod.Name),
			fee,
		)
	}

	if fee := order.ShippingMethod.TotalPrice.WithVAT; !fee.IsZero() {
		items.add(
			settings.Get(KeyShippingMethodProductNumber)+",1",
			formatLabel(settings.Get(KeyShippingMethodFormatString), order.ShippingMethod.Name),
			fee,
		)
	}

	for _, line := range lo.Reverse(append([]OrderLine(nil), order.OrderLines...)) {
		number := lineProperty(line, settings, KeyProductNumberPropertyAlias, line.ProductNumber)
		name := lineProperty(line, settings, KeyProductNamePropertyAlias, line.ProductName)
		items.add(number+","+strconv.FormatInt(line.Quantity, 10), name, line.UnitPrice.WithVAT)
	}

	return fields
}

type lineItems struct {
	fields *FormFields
	index  int
}

func (l *lineItems) add(product, name string, price decimal.Decimal) {
	n := strconv.Itoa(l.index)
	l.fields.Set("c_prod_"+n, product)
	l.fields.Set("c_name_"+n, Truncate(name, MaxNameLength))
	l.fields.Set("c_description_"+n, "")
	l.fields.Set("c_price_"+n, FormatAmount(price))
	l.index++
}

// aliasedProperty reads the order property named by the alias stored under aliasKey.
func aliasedProperty(bag PropertyBag, settings Settings, aliasKey string) string {
	alias, ok := settings.Lookup(aliasKey)
	if !ok || bag == nil {
		return defaultParameterValue
	}
	value, ok := bag.Get(alias)
	return lo.Ternary(ok && value != "", value, defaultParameterValue)
}

func lineProperty(line OrderLine, settings Settings, aliasKey, fallback string) string {
	if v := aliasedProperty(line.Properties, settings, aliasKey); v != "" {
		return v
	}
	return fallback
}

// formatLabel renders a fee label by substituting name for every "%s" or
// legacy "{0}" placeholder. Any other text, a literal '%' included, is kept as is.
func formatLabel(format, name string) string {
	return strings.NewReplacer("%s", name, "{0}", name).Replace(format)
}

// Truncate cuts s to at most limit characters.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

// FormatAmount renders an amount with two decimals and a '.' separator.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// ParseAmount parses an invariant decimal amount as sent by the gateway.
// Exponent notation is rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}
