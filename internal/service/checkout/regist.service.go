package checkout

import (
	"context"
	"net/url"
	"time"

	types "go-twocheckout/internal/common/type"
	"go-twocheckout/internal/pkg/redis"
	s3aws "go-twocheckout/internal/pkg/storage/s3"
	"go-twocheckout/internal/pkg/twocheckout"
	"go-twocheckout/internal/repository"

	"github.com/shopspring/decimal"
)

// Event patterns published for every processed callback.
const (
	EventPaymentAuthorized = "twocheckout.payment.authorized"
	EventPaymentFailed     = "twocheckout.payment.failed"
)

const (
	replayKeyPrefix = "twocheckout:callback:"
	replayTTL       = 7 * 24 * time.Hour
	archivePrefix   = "callbacks"
)

// EventPublisher delivers payment events to the broker. Both the rabbitmq and
// the kafka publisher satisfy it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, destination, pattern string, data interface{}) error
	Close() error
}

// TaskRunner runs fire-and-forget work. *ants.Pool satisfies it.
type TaskRunner interface {
	Submit(task func()) error
}

type Service struct {
	ctx        context.Context
	rp         repository.IRepository
	provider   *twocheckout.Provider
	redis      redis.IRedis
	publisher  EventPublisher
	archive    s3aws.Is3
	tasks      TaskRunner
	eventQueue string
	baseURL    string
}

type IService interface {
	CreateForm(ctx context.Context, req *CreateFormRequest) *types.Response
	ProcessCallback(ctx context.Context, params url.Values) *types.Response
	Continue(ctx context.Context, params url.Values) *types.Response
	FormPage(ctx context.Context, cartNumber string) *types.Response
	Settings(ctx context.Context, acceptLanguage string) *types.Response
	URLs() *types.Response
	Status(ctx context.Context, cartNumber string) *types.Response
	Capture(ctx context.Context, cartNumber string) *types.Response
	Refund(ctx context.Context, cartNumber string) *types.Response
	Cancel(ctx context.Context, cartNumber string) *types.Response
}

// Deps groups what NewService wires together. Archive may be nil when
// callback archiving is disabled.
type Deps struct {
	Repository repository.IRepository
	Provider   *twocheckout.Provider
	Redis      redis.IRedis
	Publisher  EventPublisher
	Archive    s3aws.Is3
	Tasks      TaskRunner
	EventQueue string
	BaseURL    string
}

func NewService(ctx context.Context, deps Deps) IService {
	return &Service{
		ctx:        ctx,
		rp:         deps.Repository,
		provider:   deps.Provider,
		redis:      deps.Redis,
		publisher:  deps.Publisher,
		archive:    deps.Archive,
		tasks:      deps.Tasks,
		eventQueue: deps.EventQueue,
		baseURL:    deps.BaseURL,
	}
}

// Request/Response DTOs

type CreateFormRequest struct {
	Order twocheckout.Order `json:"order"`
	// ReturnURL is where the buyer lands after /checkout/continue accepts the payment.
	ReturnURL string `json:"return_url" validate:"omitempty,url"`
}

type CreateFormResponse struct {
	CartNumber  string              `json:"cart_number"`
	PostURL     string              `json:"post_url"`
	Fields      []twocheckout.Field `json:"fields"`
	RedirectURL string              `json:"redirect_url"`
}

type FormPageData struct {
	CartNumber string
	PostURL    string
	Fields     []twocheckout.Field
}

type ContinueResult struct {
	Result      *twocheckout.CallbackResult `json:"result"`
	CartNumber  string                      `json:"cart_number"`
	RedirectURL string                      `json:"redirect_url,omitempty"`
}

type SettingView struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Value    string `json:"value"`
	Internal bool   `json:"internal"`
}

type URLsResponse struct {
	ContinueURL           string       `json:"continue_url"`
	CancelURL             string       `json:"cancel_url"`
	FormPostURL           string       `json:"form_post_url"`
	FinalizeAtContinueURL bool         `json:"finalize_at_continue_url"`
	DocumentationLink     string       `json:"documentation_link"`
	Capabilities          Capabilities `json:"capabilities"`
}

// Capabilities lists the back office operations the gateway supports.
type Capabilities struct {
	Status  bool `json:"status"`
	Capture bool `json:"capture"`
	Refund  bool `json:"refund"`
	Cancel  bool `json:"cancel"`
}

// PaymentEvent is the data of the events published to the event queue.
type PaymentEvent struct {
	Provider      string                   `json:"provider"`
	CartNumber    string                   `json:"cart_number"`
	TransactionID string                   `json:"transaction_id"`
	Amount        decimal.Decimal          `json:"amount"`
	State         twocheckout.PaymentState `json:"state,omitempty"`
	ErrorMessage  string                   `json:"error_message,omitempty"`
	OccurredAt    time.Time                `json:"occurred_at"`
}

// PartitionKey keeps the events of one cart ordered on partitioned brokers.
func (e PaymentEvent) PartitionKey() string {
	return e.CartNumber
}
