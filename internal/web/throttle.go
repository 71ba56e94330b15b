package web

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/dmitrymomot/tagform/pkg/clientip"
	"github.com/dmitrymomot/tagform/pkg/logger"
	"github.com/dmitrymomot/tagform/pkg/ratelimiter"
)

// loginThrottle counts failed admin logins per client IP.
type loginThrottle struct {
	limiter *ratelimiter.Bucket
	log     *slog.Logger
}

func throttleKey(ctx context.Context) string {
	return "login:" + clientip.FromContext(ctx)
}

// blocked returns a user-facing message when no attempts are left. Store
// failures let the attempt through.
func (t loginThrottle) blocked(ctx context.Context) (string, bool) {
	if t.limiter == nil {
		return "", false
	}
	res, err := t.limiter.Status(ctx, throttleKey(ctx))
	if err != nil {
		t.log.WarnContext(ctx, "login throttle unavailable", logger.Error(err))
		return "", false
	}
	if res.Remaining > 0 {
		return "", false
	}
	minutes := max(1, int(math.Ceil(time.Until(res.ResetAt).Minutes())))
	return fmt.Sprintf("Too many failed login attempts, please try again in %d minute(s).", minutes), true
}

func (t loginThrottle) failed(ctx context.Context) {
	if t.limiter == nil {
		return
	}
	if _, err := t.limiter.Allow(ctx, throttleKey(ctx)); err != nil {
		t.log.WarnContext(ctx, "login throttle unavailable", logger.Error(err))
	}
}

func (t loginThrottle) succeeded(ctx context.Context) {
	if t.limiter == nil {
		return
	}
	if err := t.limiter.Reset(ctx, throttleKey(ctx)); err != nil {
		t.log.WarnContext(ctx, "login throttle unavailable", logger.Error(err))
	}
}
