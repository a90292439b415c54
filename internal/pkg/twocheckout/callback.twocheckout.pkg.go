package twocheckout

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/shopspring/decimal"
)

// Callback request parameters.
const (
	ParamAccountID   = "sid"
	ParamOrderNumber = "order_number"
	ParamTotal       = "total"
	ParamKey         = "key"
	ParamCartOrderID = "cart_order_id"
)

// Params gives read access to the inbound callback parameters. url.Values
// satisfies it.
type Params interface {
	Get(key string) string
}

// Logger receives checksum failures.
type Logger interface {
	Log(message string)
}

// LoggerFunc adapts a plain function to Logger.
type LoggerFunc func(message string)

func (f LoggerFunc) Log(message string) { f(message) }

type PaymentState string

const (
	PaymentStateInitialized PaymentState = "initialized"
	PaymentStateAuthorized  PaymentState = "authorized"
	PaymentStateCaptured    PaymentState = "captured"
	PaymentStateCancelled   PaymentState = "cancelled"
	PaymentStateRefunded    PaymentState = "refunded"
)

// CallbackResult is either an authorization or a failure with ErrorMessage set.
type CallbackResult struct {
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transaction_id"`
	State         PaymentState    `json:"state,omitempty"`
	ErrorMessage  string          `json:"error_message,omitempty"`
}

func (r *CallbackResult) Authorized() bool {
	return r.ErrorMessage == "" && r.State == PaymentStateAuthorized
}

// Checksum returns the uppercase hex MD5 the gateway signs a callback with.
// In demo mode the gateway always hashes the order number as "1".
func Checksum(settings Settings, accountID, transaction, total string) string {
	var sb strings.Builder
	sb.WriteString(settings.Get(KeySecretWord))
	sb.WriteString(accountID)
	if settings.Get(KeyDemo) != DemoEnabled {
		sb.WriteString(transaction)
	} else {
		sb.WriteString("1")
	}
	sb.WriteString(total)

	sum := md5.Sum([]byte(sb.String()))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// VerifyCallback checks the callback key against the calculated checksum.
// A mismatch is reported through log and returned as a failed result; a
// malformed total on an authentic callback is returned as an error.
func VerifyCallback(params Params, settings Settings, log Logger) (*CallbackResult, error) {
	accountID := params.Get(ParamAccountID)
	transaction := params.Get(ParamOrderNumber)
	total := params.Get(ParamTotal)
	key := params.Get(ParamKey)

	calculated := Checksum(settings, accountID, transaction, total)
	if calculated != key {
		msg := "2CheckOut - MD5Sum security check failed - key: " + key + " - calculatedMD5: " + calculated
		if log != nil {
			log.Log(msg)
		}
		return &CallbackResult{TransactionID: transaction, ErrorMessage: msg}, nil
	}

	amount, err := ParseAmount(total)
	if err != nil {
		return nil, err
	}

	return &CallbackResult{
		Amount:        amount,
		TransactionID: transaction,
		State:         PaymentStateAuthorized,
	}, nil
}
