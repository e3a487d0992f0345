package middleware

import (
	"fmt"

	"codeberg.org/algopatterns/forge/internal/auth"
	"codeberg.org/algopatterns/forge/internal/errors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const rateLimitPrefix = "forge:ratelimit"

// limits requests per API client, or per IP for anonymous callers.
// formatted is a limiter rate such as "30-M"; a nil client keeps
// counters in process memory.
func RateLimit(formatted string, client *redis.Client) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", formatted, err)
	}

	var store limiter.Store
	if client != nil {
		store, err = sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: rateLimitPrefix})
		if err != nil {
			return nil, fmt.Errorf("failed to create redis rate limit store: %w", err)
		}
	} else {
		store = memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: rateLimitPrefix})
	}

	return mgin.NewMiddleware(limiter.New(store, rate),
		mgin.WithKeyGetter(clientKey),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			errors.TooManyRequests(c, "rate limit exceeded, try again later")
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			errors.InternalError(c, "rate limiter unavailable", err)
		}),
	), nil
}

func clientKey(c *gin.Context) string {
	if subject, ok := auth.GetSubject(c); ok {
		return "client:" + subject
	}

	return "ip:" + c.ClientIP()
}
