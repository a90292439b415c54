package checkout

import (
	"context"
	"net/http"
	"net/url"

	types "go-twocheckout/internal/common/type"
	"go-twocheckout/internal/pkg/helper"
	checkoutService "go-twocheckout/internal/service/checkout"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	ctx             context.Context
	checkoutService checkoutService.IService
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup)
	NewPageRoutes(e *gin.Engine)
}

func NewHandler(ctx context.Context, checkoutService checkoutService.IService) IHandler {
	return &Handler{
		ctx:             ctx,
		checkoutService: checkoutService,
	}
}

// CreateForm builds the gateway form for an order and stores it as a pending
// transaction. POST /api/v1/checkout/form
func (h *Handler) CreateForm(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	var req checkoutService.CreateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
			Error:   err,
		}))
		return
	}

	send(h.checkoutService.CreateForm(c.Request.Context(), &req))
}

// Callback receives the gateway notification as query string or form post.
func (h *Handler) Callback(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	params, err := requestParams(c)
	if err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid callback payload",
			Error:   err,
		}))
		return
	}

	send(h.checkoutService.ProcessCallback(c.Request.Context(), params))
}

func (h *Handler) Settings(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	send(h.checkoutService.Settings(c.Request.Context(), c.GetHeader("Accept-Language")))
}

func (h *Handler) URLs(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	send(h.checkoutService.URLs())
}

func (h *Handler) Status(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	send(h.checkoutService.Status(c.Request.Context(), c.Param("cart_number")))
}

func (h *Handler) Capture(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	send(h.checkoutService.Capture(c.Request.Context(), c.Param("cart_number")))
}

func (h *Handler) Refund(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	send(h.checkoutService.Refund(c.Request.Context(), c.Param("cart_number")))
}

func (h *Handler) Cancel(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	send(h.checkoutService.Cancel(c.Request.Context(), c.Param("cart_number")))
}

// FormPage serves the page that auto-posts the stored form to the gateway.
func (h *Handler) FormPage(c *gin.Context) {
	cartNumber := c.Param("cart_number")

	result := h.checkoutService.FormPage(c.Request.Context(), cartNumber)
	page, ok := result.Data.(checkoutService.FormPageData)
	if result.Code != http.StatusOK || !ok {
		c.HTML(result.Code, "status.html", gin.H{
			"Title":      "Checkout unavailable",
			"Message":    result.Message,
			"CartNumber": cartNumber,
		})
		return
	}

	c.HTML(http.StatusOK, "redirect.html", page)
}

// ContinuePage is the receipt link the gateway returns the buyer to. The
// signed parameters are verified before the buyer is sent on.
func (h *Handler) ContinuePage(c *gin.Context) {
	params, err := requestParams(c)
	if err != nil {
		c.HTML(http.StatusBadRequest, "status.html", gin.H{
			"Title":   "Payment not confirmed",
			"Message": "Invalid return parameters",
		})
		return
	}

	result := h.checkoutService.Continue(c.Request.Context(), params)
	data, _ := result.Data.(checkoutService.ContinueResult)

	if result.Code != http.StatusOK {
		c.HTML(result.Code, "status.html", gin.H{
			"Title":      "Payment not confirmed",
			"Message":    "We could not verify the payment. Please contact the shop.",
			"CartNumber": params.Get("cart_order_id"),
		})
		return
	}

	if data.RedirectURL != "" {
		c.Redirect(http.StatusFound, data.RedirectURL)
		return
	}

	c.HTML(http.StatusOK, "status.html", gin.H{
		"Title":      "Payment received",
		"Message":    "Thank you, your payment has been authorized.",
		"CartNumber": data.CartNumber,
	})
}

// requestParams merges the query string with an urlencoded body.
func requestParams(c *gin.Context) (url.Values, error) {
	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	return c.Request.Form, nil
}
