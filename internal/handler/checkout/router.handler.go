package checkout

import (
	"go-twocheckout/internal/pkg/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(e *gin.RouterGroup) {
	checkout := e.Group("/v1/checkout")

	checkout.GET("/callback", h.Callback)
	checkout.POST("/callback", h.Callback)

	authed := checkout.Group("", middleware.AuthMiddleware())
	authed.POST("/form", h.CreateForm)
	authed.GET("/settings", h.Settings)
	authed.GET("/urls", h.URLs)
	authed.GET("/status/:cart_number", h.Status)
	authed.POST("/capture/:cart_number", h.Capture)
	authed.POST("/refund/:cart_number", h.Refund)
	authed.POST("/cancel/:cart_number", h.Cancel)
}

func (h *Handler) NewPageRoutes(e *gin.Engine) {
	e.GET("/checkout/continue", h.ContinuePage)
	e.POST("/checkout/continue", h.ContinuePage)
	e.GET("/checkout/:cart_number", h.FormPage)
}
