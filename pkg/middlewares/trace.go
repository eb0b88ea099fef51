package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/utils"
)

// TraceID reads X-Trace-Id or generates one, then exposes it on the gin context,
// the request context and the response header.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.Request.Header.Get(pkg.HeaderTraceId)
		if utils.IsEmpty(traceID) {
			traceID = uuid.New().String()
		}
		c.Set(pkg.TraceId, traceID)
		c.Request = c.Request.WithContext(pkg.WithTraceID(c.Request.Context(), traceID))
		c.Writer.Header().Set(pkg.HeaderTraceId, traceID)
		c.Next()
	}
}
