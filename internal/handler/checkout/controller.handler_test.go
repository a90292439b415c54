package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"go-twocheckout/frontend"
	types "go-twocheckout/internal/common/type"
	"go-twocheckout/internal/pkg/helper"
	"go-twocheckout/internal/pkg/jwt"
	"go-twocheckout/internal/pkg/middleware"
	"go-twocheckout/internal/pkg/twocheckout"
	"go-twocheckout/internal/pkg/validation"
	checkoutService "go-twocheckout/internal/service/checkout"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) respond(args mock.Arguments) *types.Response {
	return args.Get(0).(*types.Response)
}

func (m *MockService) CreateForm(ctx context.Context, req *checkoutService.CreateFormRequest) *types.Response {
	return m.respond(m.Called(req))
}

func (m *MockService) ProcessCallback(ctx context.Context, params url.Values) *types.Response {
	return m.respond(m.Called(params))
}

func (m *MockService) Continue(ctx context.Context, params url.Values) *types.Response {
	return m.respond(m.Called(params))
}

func (m *MockService) FormPage(ctx context.Context, cartNumber string) *types.Response {
	return m.respond(m.Called(cartNumber))
}

func (m *MockService) Settings(ctx context.Context, acceptLanguage string) *types.Response {
	return m.respond(m.Called(acceptLanguage))
}

func (m *MockService) URLs() *types.Response {
	return m.respond(m.Called())
}

func (m *MockService) Status(ctx context.Context, cartNumber string) *types.Response {
	return m.respond(m.Called("status", cartNumber))
}

func (m *MockService) Capture(ctx context.Context, cartNumber string) *types.Response {
	return m.respond(m.Called("capture", cartNumber))
}

func (m *MockService) Refund(ctx context.Context, cartNumber string) *types.Response {
	return m.respond(m.Called("refund", cartNumber))
}

func (m *MockService) Cancel(ctx context.Context, cartNumber string) *types.Response {
	return m.respond(m.Called("cancel", cartNumber))
}

func newEngine(t *testing.T, svc checkoutService.IService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "handler-test-secret")
	require.NoError(t, validation.Setup())

	tmpl, err := frontend.Templates()
	require.NoError(t, err)

	e := gin.New()
	e.SetHTMLTemplate(tmpl)
	e.Use(middleware.RequestInit(), middleware.ResponseInit())

	h := NewHandler(context.Background(), svc)
	h.NewRoutes(e.Group("/api"))
	h.NewPageRoutes(e)
	return e
}

func bearer(t *testing.T) string {
	t.Helper()
	token, _, err := jwt.GenerateToken(types.ClientWithAuth{ID: uuid.New(), Name: "webshop", Scope: "checkout"}, time.Minute)
	require.NoError(t, err)
	return "Bearer " + token
}

func decode(t *testing.T, w *httptest.ResponseRecorder) types.ResponseAPI {
	t.Helper()
	var body types.ResponseAPI
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCreateForm(t *testing.T) {
	svc := new(MockService)
	e := newEngine(t, svc)

	svc.On("CreateForm", mock.MatchedBy(func(req *checkoutService.CreateFormRequest) bool {
		return req.Order.CartNumber == "C-1" && req.Order.TotalPrice.WithVAT.StringFixed(2) == "12.50"
	})).Return(helper.ParseResponse(&types.Response{
		Code: http.StatusCreated,
		Data: checkoutService.CreateFormResponse{CartNumber: "C-1", PostURL: twocheckout.FormPostURL},
	})).Once()

	body := `{"order":{"cart_number":"C-1","total_price":{"with_vat":"12.50"}}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/form", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t))
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, http.StatusCreated, decode(t, w).Status)
	require.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	svc.AssertExpectations(t)
}

func TestCreateForm_RequiresToken(t *testing.T) {
	svc := new(MockService)
	e := newEngine(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/form", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "CreateForm", mock.Anything)
}

func TestCreateForm_BadJSON(t *testing.T) {
	svc := new(MockService)
	e := newEngine(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/form", strings.NewReader(`{"order":`))
	req.Header.Set("Authorization", bearer(t))
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Invalid request body", decode(t, w).Message)
}

func TestCallback_QueryAndForm(t *testing.T) {
	svc := new(MockService)
	e := newEngine(t, svc)

	svc.On("ProcessCallback", mock.MatchedBy(func(p url.Values) bool {
		return p.Get("order_number") == "T1000" && p.Get("key") == "ABC" && p.Get("sid") == "1303908"
	})).Return(helper.ParseResponse(&types.Response{Code: http.StatusOK, Message: "Payment authorized"})).Twice()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/callback?sid=1303908&order_number=T1000&key=ABC", nil)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	form := url.Values{"sid": {"1303908"}, "order_number": {"T1000"}, "key": {"ABC"}}
	req = httptest.NewRequest(http.MethodPost, "/api/v1/checkout/callback", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = httptest.NewRecorder()
	e.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Payment authorized", decode(t, w).Message)

	svc.AssertExpectations(t)
}

func TestCallback_ChecksumMismatch(t *testing.T) {
	svc := new(MockService)
	e := newEngine(t, svc)

	svc.On("ProcessCallback", mock.Anything).Return(helper.ParseResponse(&types.Response{
		Code:    http.StatusForbidden,
		Message: "2CheckOut - MD5Sum security check failed - key: X - calculatedMD5: Y",
		Error:   twocheckout.ErrChecksumMismatch,
	})).Once()

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/checkout/callback?key=X", nil))

	require.Equal(t, http.StatusForbidden, w.Code)
	body := decode(t, w)
	require.Equal(t, twocheckout.ErrChecksumMismatch.Error(), body.Error)
}

func TestUnsupportedRoutes(t *testing.T) {
	svc := new(MockService)
	e := newEngine(t, svc)
	token := bearer(t)

	routes := []struct {
		method, path, op, call string
	}{
		{http.MethodGet, "/api/v1/checkout/status/C-1", "status", "Status"},
		{http.MethodPost, "/api/v1/checkout/capture/C-1", "capture", "Capture"},
		{http.MethodPost, "/api/v1/checkout/refund/C-1", "refund", "Refund"},
		{http.MethodPost, "/api/v1/checkout/cancel/C-1", "cancel", "Cancel"},
	}

	for _, rt := range routes {
		t.Run(rt.op, func(t *testing.T) {
			svc.On(rt.call, rt.op, "C-1").Return(helper.ParseResponse(&types.Response{
				Code:  http.StatusNotImplemented,
				Error: twocheckout.ErrNotSupported,
			})).Once()

			req := httptest.NewRequest(rt.method, rt.path, nil)
			req.Header.Set("Authorization", token)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, req)

			require.Equal(t, http.StatusNotImplemented, w.Code)
			require.Equal(t, twocheckout.ErrNotSupported.Error(), decode(t, w).Error)
		})
	}
	svc.AssertExpectations(t)
}

func TestSettingsAndURLs(t *testing.T) {
	svc := new(MockService)
	e := newEngine(t, svc)
	token := bearer(t)

	svc.On("Settings", "da").Return(helper.ParseResponse(&types.Response{Code: http.StatusOK, Data: []checkoutService.SettingView{}})).Once()
	svc.On("URLs").Return(helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: checkoutService.URLsResponse{ContinueURL: "https://pay.example.com/checkout/continue"},
	})).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/settings", nil)
	req.Header.Set("Authorization", token)
	req.Header.Set("Accept-Language", "da")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/checkout/urls", nil)
	req.Header.Set("Authorization", token)
	w = httptest.NewRecorder()
	e.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"continue_url":"https://pay.example.com/checkout/continue"`)
	require.Contains(t, w.Body.String(), `"cancel_url":""`)

	svc.AssertExpectations(t)
}

func TestFormPage(t *testing.T) {
	svc := new(MockService)
	e := newEngine(t, svc)

	svc.On("FormPage", "C-1").Return(helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: checkoutService.FormPageData{
			CartNumber: "C-1",
			PostURL:    twocheckout.FormPostURL,
			Fields: []twocheckout.Field{
				{Name: "cart_order_id", Value: "C-1"},
				{Name: "card_holder_name", Value: `Ada "The Countess"`},
			},
		},
	})).Once()
	svc.On("FormPage", "C-404").Return(helper.ParseResponse(&types.Response{
		Code:    http.StatusNotFound,
		Message: "Transaction not found",
	})).Once()

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/checkout/C-1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	html := w.Body.String()
	require.Contains(t, html, `action="https://www.2checkout.com/checkout/spurchase"`)
	require.Contains(t, html, `name="cart_order_id" value="C-1"`)
	require.Contains(t, html, `value="Ada &#34;The Countess&#34;"`)

	w = httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/checkout/C-404", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "Transaction not found")
}

func TestContinuePage(t *testing.T) {
	t.Run("redirects to the shop on success", func(t *testing.T) {
		svc := new(MockService)
		e := newEngine(t, svc)
		svc.On("Continue", mock.Anything).Return(helper.ParseResponse(&types.Response{
			Code: http.StatusOK,
			Data: checkoutService.ContinueResult{CartNumber: "C-1", RedirectURL: "https://shop.example.com/thanks"},
		})).Once()

		w := httptest.NewRecorder()
		e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/checkout/continue?cart_order_id=C-1", nil))
		require.Equal(t, http.StatusFound, w.Code)
		require.Equal(t, "https://shop.example.com/thanks", w.Header().Get("Location"))
	})

	t.Run("renders a receipt without return url", func(t *testing.T) {
		svc := new(MockService)
		e := newEngine(t, svc)
		svc.On("Continue", mock.Anything).Return(helper.ParseResponse(&types.Response{
			Code: http.StatusOK,
			Data: checkoutService.ContinueResult{CartNumber: "C-1"},
		})).Once()

		w := httptest.NewRecorder()
		e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/checkout/continue", nil))
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), "Payment received")
	})

	t.Run("forbidden on failed verification", func(t *testing.T) {
		svc := new(MockService)
		e := newEngine(t, svc)
		svc.On("Continue", mock.Anything).Return(helper.ParseResponse(&types.Response{
			Code:  http.StatusForbidden,
			Error: twocheckout.ErrChecksumMismatch,
		})).Once()

		w := httptest.NewRecorder()
		e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/checkout/continue?cart_order_id=C-9", nil))
		require.Equal(t, http.StatusForbidden, w.Code)
		require.Contains(t, w.Body.String(), "Payment not confirmed")
		require.Empty(t, w.Header().Get("Location"))
	})
}
