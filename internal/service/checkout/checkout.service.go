package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go-twocheckout/internal/common/enum"
	"go-twocheckout/internal/common/models"
	types "go-twocheckout/internal/common/type"
	"go-twocheckout/internal/pkg/helper"
	"go-twocheckout/internal/pkg/logger"
	s3aws "go-twocheckout/internal/pkg/storage/s3"
	"go-twocheckout/internal/pkg/twocheckout"
	"go-twocheckout/internal/pkg/validation"
	checkoutRepo "go-twocheckout/internal/repository/checkout"

	"github.com/samber/lo"
	"golang.org/x/text/language"
)

var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrAlreadyAuthorized = errors.New("cart is already paid")
	ErrAmountMismatch    = errors.New("paid total does not match the cart total")
	ErrOrderReused       = errors.New("gateway order is settled on another cart")
)

const CallbackPath = "/api/v1/checkout/callback"

func (s *Service) CreateForm(ctx context.Context, req *CreateFormRequest) *types.Response {
	if err := validation.Validate(req); err != nil {
		return errorResponse(fmt.Errorf("%w: %v", ErrInvalidRequest, err), "Invalid request body")
	}

	order := &req.Order
	existing, err := s.rp.Checkout.FindByCartNumber(ctx, order.CartNumber)
	if err != nil && !errors.Is(err, checkoutRepo.ErrNotFound) {
		return errorResponse(err, "Failed to load transaction")
	}
	if existing != nil && existing.Status == enum.AUTHORIZED {
		return errorResponse(ErrAlreadyAuthorized, "")
	}

	fields := s.provider.GenerateForm(order, s.provider.ContinueURL(), s.provider.CancelURL(), s.callbackURL())
	raw, err := json.Marshal(fields)
	if err != nil {
		return errorResponse(err, "Failed to encode form")
	}

	trx := &models.Transaction{
		Provider:      twocheckout.Name,
		CartNumber:    order.CartNumber,
		AccountID:     s.provider.Settings().Get(twocheckout.KeyAccountID),
		Amount:        order.TotalPrice.WithVAT,
		CustomerName:  strings.TrimSpace(order.Payment.FirstName + " " + order.Payment.LastName),
		CustomerEmail: order.Payment.Email,
		FormFields:    models.JSONB(raw),
		ReturnURL:     req.ReturnURL,
		Status:        enum.PENDING,
		PaymentState:  string(twocheckout.PaymentStateInitialized),
	}
	if err := s.rp.Checkout.Upsert(ctx, trx); err != nil {
		logger.Error.Printf("Failed to save transaction for cart %s: %v", order.CartNumber, err)
		return errorResponse(err, "Failed to save transaction")
	}

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusCreated,
		Message: "Checkout form created",
		Data: CreateFormResponse{
			CartNumber:  order.CartNumber,
			PostURL:     twocheckout.FormPostURL,
			Fields:      fields.Fields(),
			RedirectURL: s.pageURL(order.CartNumber),
		},
	})
}

func (s *Service) ProcessCallback(ctx context.Context, params url.Values) *types.Response {
	st, err := s.settle(ctx, params)
	if err != nil {
		return settlementError(st, err)
	}

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusOK,
		Message: lo.Ternary(st.replayed, "Callback already processed", "Payment authorized"),
		Data:    st.result,
	})
}

func (s *Service) Continue(ctx context.Context, params url.Values) *types.Response {
	st, err := s.settle(ctx, params)
	if err != nil {
		return settlementError(st, err)
	}

	data := ContinueResult{
		Result:     st.result,
		CartNumber: params.Get(twocheckout.ParamCartOrderID),
	}
	if st.trx != nil {
		data.RedirectURL = st.trx.ReturnURL
	}

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusOK,
		Message: "Payment authorized",
		Data:    data,
	})
}

func (s *Service) FormPage(ctx context.Context, cartNumber string) *types.Response {
	trx, err := s.rp.Checkout.FindByCartNumber(ctx, cartNumber)
	if err != nil {
		return errorResponse(err, "Transaction not found")
	}
	if trx.Status == enum.AUTHORIZED {
		return errorResponse(ErrAlreadyAuthorized, "")
	}

	fields := twocheckout.NewFormFields()
	if err := json.Unmarshal(trx.FormFields, fields); err != nil {
		return errorResponse(err, "Stored form is unreadable")
	}

	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: FormPageData{
			CartNumber: trx.CartNumber,
			PostURL:    twocheckout.FormPostURL,
			Fields:     fields.Fields(),
		},
	})
}

func (s *Service) Settings(ctx context.Context, acceptLanguage string) *types.Response {
	tag := language.English
	if tags, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil && len(tags) > 0 {
		tag = tags[0]
	}

	settings := s.provider.Settings()
	views := lo.Map(settings.Keys(), func(key string, _ int) SettingView {
		value := settings.Get(key)
		if key == twocheckout.KeySecretWord {
			value = twocheckout.MaskSecret(value)
		}
		return SettingView{
			Key:      key,
			Label:    twocheckout.LocalizedSettingsKey(key, tag),
			Value:    value,
			Internal: twocheckout.IsExcluded(key),
		}
	})

	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: views,
	})
}

func (s *Service) URLs() *types.Response {
	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: URLsResponse{
			ContinueURL:           s.provider.ContinueURL(),
			CancelURL:             s.provider.CancelURL(),
			FormPostURL:           twocheckout.FormPostURL,
			FinalizeAtContinueURL: twocheckout.FinalizeAtContinueURL,
			DocumentationLink:     twocheckout.DocumentationLink,
			Capabilities: Capabilities{
				Status:  s.provider.SupportsRetrievalOfPaymentStatus(),
				Capture: s.provider.SupportsCapturingOfPayment(),
				Refund:  s.provider.SupportsRefundOfPayment(),
				Cancel:  s.provider.SupportsCancellationOfPayment(),
			},
		},
	})
}

func (s *Service) Status(ctx context.Context, cartNumber string) *types.Response {
	return unsupported(s.provider.GetStatus(ctx, &twocheckout.Order{CartNumber: cartNumber}), "payment status")
}

func (s *Service) Capture(ctx context.Context, cartNumber string) *types.Response {
	return unsupported(s.provider.CapturePayment(ctx, &twocheckout.Order{CartNumber: cartNumber}), "capture")
}

func (s *Service) Refund(ctx context.Context, cartNumber string) *types.Response {
	return unsupported(s.provider.RefundPayment(ctx, &twocheckout.Order{CartNumber: cartNumber}), "refund")
}

func (s *Service) Cancel(ctx context.Context, cartNumber string) *types.Response {
	return unsupported(s.provider.CancelPayment(ctx, &twocheckout.Order{CartNumber: cartNumber}), "cancel")
}

type settlement struct {
	result   *twocheckout.CallbackResult
	trx      *models.Transaction
	replayed bool
}

// settle verifies a callback and records its outcome. Only signed parameters
// change state: a failed checksum is rejected without touching the cart, and an
// authentic callback must match the cart's stored amount and must not carry a
// gateway order number already settled on another cart. Authentic callbacks
// are applied once per order number; repeats return the same result.
func (s *Service) settle(ctx context.Context, params url.Values) (*settlement, error) {
	cartNumber := params.Get(twocheckout.ParamCartOrderID)

	result, err := s.provider.ProcessCallback(params)
	if err != nil {
		logger.Warning.Printf("Callback for cart %q rejected: %v", cartNumber, err)
		return nil, err
	}
	st := &settlement{result: result}

	if !result.Authorized() {
		logger.Warning.Printf("Callback for cart %q failed the checksum", cartNumber)
		return st, twocheckout.ErrChecksumMismatch
	}

	s.archiveCallback(params)

	st.trx, err = s.rp.Checkout.FindByCartNumber(ctx, cartNumber)
	if err != nil {
		if errors.Is(err, checkoutRepo.ErrNotFound) {
			logger.Warning.Printf("Authorized callback for unknown cart %q (order %s)", cartNumber, result.TransactionID)
		}
		return st, err
	}

	if !result.Amount.Equal(st.trx.Amount) {
		logger.Warning.Printf("Callback for cart %s paid %s, expected %s (order %s)",
			cartNumber, result.Amount, st.trx.Amount, result.TransactionID)
		s.publish(EventPaymentFailed, cartNumber, &twocheckout.CallbackResult{
			Amount:        result.Amount,
			TransactionID: result.TransactionID,
			ErrorMessage:  fmt.Sprintf("%s - total %s does not match the cart total %s", twocheckout.Name, result.Amount, st.trx.Amount),
		})
		return st, fmt.Errorf("%w: paid %s, expected %s", ErrAmountMismatch, result.Amount, st.trx.Amount)
	}

	if st.trx.Status == enum.AUTHORIZED {
		if st.trx.TransactionID != result.TransactionID {
			logger.Warning.Printf("Cart %s is %s by order %s, ignoring order %s",
				cartNumber, st.trx.Status.ToString(), st.trx.TransactionID, result.TransactionID)
			return st, ErrAlreadyAuthorized
		}
		logger.Info.Printf("Callback for order %s already processed", result.TransactionID)
		st.replayed = true
		return st, nil
	}

	owner, err := s.rp.Checkout.FindByTransactionID(ctx, result.TransactionID)
	if err != nil && !errors.Is(err, checkoutRepo.ErrNotFound) {
		return st, err
	}
	if owner != nil && owner.CartNumber != cartNumber {
		logger.Warning.Printf("Order %s is settled on cart %s, rejecting it for cart %s", result.TransactionID, owner.CartNumber, cartNumber)
		return st, ErrOrderReused
	}

	replayKey := replayKeyPrefix + result.TransactionID
	fresh, err := s.redis.SetNX(replayKey, cartNumber, replayTTL)
	if err != nil {
		logger.Warning.Printf("Replay guard unavailable for order %s: %v", result.TransactionID, err)
		fresh = true
	}
	if !fresh {
		bound, err := s.redis.Get(replayKey)
		if err != nil {
			return st, err
		}
		if bound != "" && bound != cartNumber {
			logger.Warning.Printf("Order %s is bound to cart %s, rejecting it for cart %s", result.TransactionID, bound, cartNumber)
			return st, ErrOrderReused
		}
		logger.Info.Printf("Callback for order %s already in progress", result.TransactionID)
		st.replayed = true
		return st, nil
	}

	now := time.Now()
	err = s.rp.Checkout.UpdateStatus(ctx, cartNumber, map[string]any{
		"status":         enum.AUTHORIZED,
		"transaction_id": result.TransactionID,
		"payment_state":  string(result.State),
		"callback_key":   params.Get(twocheckout.ParamKey),
		"error_message":  "",
		"authorized_at":  &now,
	})
	if err != nil {
		logger.Error.Printf("Failed to authorize cart %s: %v", cartNumber, err)
		s.releaseReplayKey(replayKey)
		return st, err
	}
	st.trx.Status = enum.AUTHORIZED
	st.trx.TransactionID = result.TransactionID
	st.trx.AuthorizedAt = &now

	s.publish(EventPaymentAuthorized, cartNumber, result)
	return st, nil
}

func (s *Service) releaseReplayKey(key string) {
	if err := s.redis.Del(key); err != nil {
		logger.Warning.Printf("Failed to release replay key %s: %v", key, err)
	}
}

func (s *Service) publish(pattern, cartNumber string, result *twocheckout.CallbackResult) {
	if s.publisher == nil {
		return
	}

	event := PaymentEvent{
		Provider:      twocheckout.Name,
		CartNumber:    cartNumber,
		TransactionID: result.TransactionID,
		Amount:        result.Amount,
		State:         result.State,
		ErrorMessage:  result.ErrorMessage,
		OccurredAt:    time.Now().UTC(),
	}

	s.dispatch(func() {
		ctx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
		defer cancel()
		if err := s.publisher.PublishEvent(ctx, s.eventQueue, pattern, event); err != nil {
			logger.Error.Printf("Failed to publish %s for cart %s: %v", pattern, cartNumber, err)
		}
	})
}

func (s *Service) archiveCallback(params url.Values) {
	if s.archive == nil {
		return
	}

	now := time.Now()
	body, err := helper.JSONToByte(map[string]any{
		"params":      params,
		"received_at": now.UTC(),
	})
	if err != nil {
		logger.Error.Printf("Failed to encode callback for archive: %v", err)
		return
	}
	key := s3aws.ArchiveKey(archivePrefix, params.Get(twocheckout.ParamOrderNumber), now)

	s.dispatch(func() {
		ctx, cancel := context.WithTimeout(s.ctx, 30*time.Second)
		defer cancel()
		if err := s.archive.UploadFile(ctx, key, body, "application/json"); err != nil {
			logger.Error.Printf("Failed to archive callback %s: %v", key, err)
		}
	})
}

// dispatch hands task to the worker pool and runs it inline when the pool
// refuses it.
func (s *Service) dispatch(task func()) {
	if s.tasks == nil {
		go task()
		return
	}
	if err := s.tasks.Submit(task); err != nil {
		logger.Warning.Printf("Worker pool rejected task, running inline: %v", err)
		task()
	}
}

func (s *Service) callbackURL() string {
	return strings.TrimRight(s.baseURL, "/") + CallbackPath
}

func (s *Service) pageURL(cartNumber string) string {
	return strings.TrimRight(s.baseURL, "/") + "/checkout/" + url.PathEscape(cartNumber)
}

func unsupported(err error, operation string) *types.Response {
	if err == nil {
		return helper.ParseResponse(&types.Response{Code: http.StatusOK})
	}
	return errorResponse(err, fmt.Sprintf("%s does not support %s", twocheckout.Name, operation))
}

func settlementError(st *settlement, err error) *types.Response {
	res := errorResponse(err, "")
	if st != nil && st.result != nil && !st.result.Authorized() {
		res.Data = st.result
		res.Message = st.result.ErrorMessage
	}
	return res
}

func errorResponse(err error, message string) *types.Response {
	return helper.ParseResponse(&types.Response{
		Code:    statusFor(err),
		Message: message,
		Error:   err,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, twocheckout.ErrNotSupported):
		return http.StatusNotImplemented
	case errors.Is(err, twocheckout.ErrInvalidAmount), errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, twocheckout.ErrChecksumMismatch),
		errors.Is(err, ErrAmountMismatch),
		errors.Is(err, ErrOrderReused):
		return http.StatusForbidden
	case errors.Is(err, checkoutRepo.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyAuthorized):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
