// internal/middleware/ratelimit_middleware.go
package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"

	xerrors "scout-service/internal/pkg/errors"
	"scout-service/internal/pkg/ratelimit"
	"scout-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Limiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Result, error)
}

// RateLimitByAgency limits requests per agency. When Redis is unavailable the
// request is let through and the failure logged.
func RateLimitByAgency(limiter Limiter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		agencyID, ok := GetAgencyID(c)
		if !ok {
			c.Next()
			return
		}

		res, err := limiter.Allow(c.Request.Context(), agencyID)
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.String("agency_id", agencyID), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
		if !res.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
			response.Error(c, http.StatusTooManyRequests, "too many preview requests", xerrors.ErrRateLimited)
			return
		}

		c.Next()
	}
}
