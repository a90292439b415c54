package twocheckout

import "context"

const (
	// Name identifies the provider in persisted transactions and events.
	Name = "2CheckOut"
	// FormPostURL is the hosted checkout endpoint the built form is posted to.
	FormPostURL = "https://www.2checkout.com/checkout/spurchase"
	// DocumentationLink points operators at the integration guide.
	DocumentationLink = "http://anders.burla.dk/umbraco/tea-commerce/using-2checkout-with-tea-commerce/"
	// FinalizeAtContinueURL is true because the gateway returns the buyer and
	// the signed parameters to the same receipt URL.
	FinalizeAtContinueURL = true
)

// Provider binds the 2CheckOut protocol to one set of operator settings.
type Provider struct {
	settings Settings
	log      Logger
}

func NewProvider(settings Settings, log Logger) *Provider {
	return &Provider{settings: settings, log: log}
}

func (p *Provider) Settings() Settings {
	return p.settings
}

func (p *Provider) SupportsRetrievalOfPaymentStatus() bool { return false }
func (p *Provider) SupportsCancellationOfPayment() bool    { return false }
func (p *Provider) SupportsCapturingOfPayment() bool       { return false }
func (p *Provider) SupportsRefundOfPayment() bool          { return false }

func (p *Provider) GenerateForm(order *Order, continueURL, cancelURL, callbackURL string) *FormFields {
	return BuildForm(order, continueURL, cancelURL, callbackURL, p.settings)
}

func (p *Provider) ProcessCallback(params Params) (*CallbackResult, error) {
	return VerifyCallback(params, p.settings, p.log)
}

func (p *Provider) ContinueURL() string {
	return GetContinueURL(p.settings)
}

func (p *Provider) CancelURL() string {
	return GetCancelURL(p.settings)
}

// GetStatus is not offered by the gateway.
func (p *Provider) GetStatus(ctx context.Context, order *Order) error {
	return ErrNotSupported
}

// CapturePayment is not offered by the gateway.
func (p *Provider) CapturePayment(ctx context.Context, order *Order) error {
	return ErrNotSupported
}

// RefundPayment is not offered by the gateway.
func (p *Provider) RefundPayment(ctx context.Context, order *Order) error {
	return ErrNotSupported
}

// CancelPayment is not offered by the gateway.
func (p *Provider) CancelPayment(ctx context.Context, order *Order) error {
	return ErrNotSupported
}

// GetContinueURL returns the configured receipt link.
func GetContinueURL(settings Settings) string {
	return settings.Get(KeyReceiptLinkURL)
}

// GetCancelURL is always empty; the gateway has no cancel redirect.
func GetCancelURL(settings Settings) string {
	return ""
}
