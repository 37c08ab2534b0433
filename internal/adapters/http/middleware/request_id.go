// Package middleware holds the HTTP middleware chain: request id,
// logging, recovery, CORS, metrics, rate limiting and authentication.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Haleralex/ledgerhub/internal/adapters/http/common"
	"github.com/Haleralex/ledgerhub/internal/pkg/logger"
)

// RequestID assigns every request a unique ID.
//
// A client-supplied X-Request-ID is honored so callers can correlate
// retries; otherwise a fresh UUID is generated. The ID is stored in the
// gin context, echoed in the response header and pushed into the
// request context so the logger picks it up.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(common.RequestIDKey)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		common.SetRequestID(c, requestID)

		ctx := logger.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
