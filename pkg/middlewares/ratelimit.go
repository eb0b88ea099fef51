package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg"
	"go.uber.org/zap"
)

// Limiter admits or rejects a single request.
type Limiter interface {
	Allow(ctx context.Context) bool
}

// RateLimit aborts with 429 when the limiter rejects the request.
func RateLimit(logger *zap.Logger, limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter.Allow(c.Request.Context()) {
			c.Next()
			return
		}
		err := pkg.NewAppError(pkg.ErrRateLimitedCode, "too many requests", pkg.ErrRateLimitExceeded)
		resp := pkg.ToErrorResponse(logger, c.GetString(pkg.TraceId), err)
		c.AbortWithStatusJSON(resp.Status, resp)
	}
}
