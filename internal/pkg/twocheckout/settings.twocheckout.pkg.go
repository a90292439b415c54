package twocheckout

import (
	"sort"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/language"
)

// Setting keys understood by the provider.
const (
	KeyAccountID                   = "sid"
	KeyLanguage                    = "lang"
	KeyReceiptLinkURL              = "x_receipt_link_url"
	KeySecretWord                  = "secretWord"
	KeyProductNumberPropertyAlias  = "productNumberPropertyAlias"
	KeyProductNamePropertyAlias    = "productNamePropertyAlias"
	KeyShippingMethodProductNumber = "shippingMethodProductNumber"
	KeyShippingMethodFormatString  = "shippingMethodFormatString"
	KeyPaymentMethodProductNumber  = "paymentMethodProductNumber"
	KeyPaymentMethodFormatString   = "paymentMethodFormatString"
	KeyStreetAddressPropertyAlias  = "streetAddressPropertyAlias"
	KeyCityPropertyAlias           = "cityPropertyAlias"
	KeyStatePropertyAlias          = "statePropertyAlias"
	KeyZipCodePropertyAlias        = "zipCodePropertyAlias"
	KeyPhonePropertyAlias          = "phonePropertyAlias"
	KeyPhoneExtensionPropertyAlias = "phoneExtensionPropertyAlias"
	KeyDemo                        = "demo"
)

// DemoEnabled is the only demo flag value that turns on gateway test mode.
const DemoEnabled = "Y"

// Settings is the operator supplied provider configuration.
type Settings map[string]string

// excludedSettings never reach the gateway.
var excludedSettings = []string{
	KeySecretWord,
	KeyProductNumberPropertyAlias,
	KeyProductNamePropertyAlias,
	KeyShippingMethodProductNumber,
	KeyShippingMethodFormatString,
	KeyPaymentMethodProductNumber,
	KeyPaymentMethodFormatString,
	KeyStreetAddressPropertyAlias,
	KeyCityPropertyAlias,
	KeyStatePropertyAlias,
	KeyZipCodePropertyAlias,
	KeyPhonePropertyAlias,
	KeyPhoneExtensionPropertyAlias,
}

// DefaultSettings returns a fresh copy of the provider defaults.
func DefaultSettings() Settings {
	return Settings{
		KeyAccountID:                   "",
		KeyLanguage:                    "en",
		KeyReceiptLinkURL:              "",
		KeySecretWord:                  "",
		KeyProductNumberPropertyAlias:  "productNumber",
		KeyProductNamePropertyAlias:    "productName",
		KeyShippingMethodProductNumber: "1000",
		KeyShippingMethodFormatString:  "Shipping fee (%s)",
		KeyPaymentMethodProductNumber:  "2000",
		KeyPaymentMethodFormatString:   "Payment fee (%s)",
		KeyStreetAddressPropertyAlias:  "streetAddress",
		KeyCityPropertyAlias:           "city",
		KeyZipCodePropertyAlias:        "zipCode",
		KeyPhonePropertyAlias:          "phone",
		KeyPhoneExtensionPropertyAlias: "phoneExtension",
		KeyDemo:                        "N",
	}
}

// Get returns the value for key or "" when the key is not configured.
func (s Settings) Get(key string) string {
	return s[key]
}

// Lookup reports whether key is configured at all.
func (s Settings) Lookup(key string) (string, bool) {
	v, ok := s[key]
	return v, ok
}

// Merge returns a copy of s overlaid with every non-empty value of other.
func (s Settings) Merge(other Settings) Settings {
	out := lo.Assign(Settings{}, s)
	for k, v := range other {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// DemoMode reports whether the demo flag is exactly "Y".
func (s Settings) DemoMode() bool {
	return s[KeyDemo] == DemoEnabled
}

// Keys returns the configured keys in sorted order.
func (s Settings) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsExcluded reports whether key is internal only.
func IsExcluded(key string) bool {
	return lo.Contains(excludedSettings, key)
}

// passThrough projects the settings that are forwarded to the gateway as-is.
func (s Settings) passThrough() *FormFields {
	fields := NewFormFields()
	for _, key := range s.Keys() {
		if IsExcluded(key) {
			continue
		}
		fields.Set(key, s[key])
	}
	return fields
}

var labelLanguages = language.NewMatcher([]language.Tag{
	language.English,
	language.Danish,
})

var settingHints = map[string][]string{
	KeyReceiptLinkURL: {"e.g. /continue/", "f.eks. /continue/"},
	KeyDemo:           {"Y = true; N = false", "Y = sand; N = falsk"},
}

// LocalizedSettingsKey returns the operator UI label for a settings key.
// Only the receipt link and demo keys carry an inline help text.
func LocalizedSettingsKey(key string, tag language.Tag) string {
	hints, ok := settingHints[key]
	if !ok {
		return key
	}
	_, idx, _ := labelLanguages.Match(tag)
	return key + "<br/><small>" + hints[idx] + "</small>"
}

// MaskSecret hides the shared secret for display.
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	return strings.Repeat("*", 8)
}
