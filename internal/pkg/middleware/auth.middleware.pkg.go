package middleware

import (
	"net/http"
	"strings"

	types "go-twocheckout/internal/common/type"
	"go-twocheckout/internal/pkg/helper"
	"go-twocheckout/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware accepts service tokens minted for the host order system.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		send := c.MustGet("send").(func(r *types.Response))
		if token == "" {
			send(helper.ParseResponse(&types.Response{Code: http.StatusUnauthorized, Message: "token not found"}))
			return
		}

		client, err := jwt.ValidateToken(token)
		if err != nil {
			send(helper.ParseResponse(&types.Response{Code: http.StatusUnauthorized, Message: "invalid token", Error: err}))
			return
		}

		c.Set("auth", *client)
		c.Next()
	}
}
