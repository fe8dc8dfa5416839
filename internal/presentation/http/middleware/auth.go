package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopmitra/billing-api/internal/presentation/http/dto/response"
	"github.com/shopmitra/billing-api/pkg/utils"
)

// AuthMiddleware verifies the backend-issued operator token on every
// terminal request. Login and token issuance live in the shop backend;
// this layer only checks the signature and expiry.
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("operator_id", claims.OperatorID)
		c.Set("operator_email", claims.Email)
		c.Set("shop_id", claims.ShopID)

		c.Next()
	}
}
