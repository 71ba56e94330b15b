package ratelimiter

import "time"

// Result is the bucket state after a call.
type Result struct {
	Limit     int       // bucket capacity
	Remaining int       // tokens left; negative when the call went over the limit
	ResetAt   time.Time // next refill
}

// Allowed reports whether the call fit in the bucket.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter is how long to wait before the next token arrives, or zero when allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(0, time.Until(r.ResetAt))
}

// Config describes a token bucket.
type Config struct {
	Capacity       int           `env:"RATELIMIT_CAPACITY" envDefault:"5"`
	RefillRate     int           `env:"RATELIMIT_REFILL_RATE" envDefault:"1"`
	RefillInterval time.Duration `env:"RATELIMIT_REFILL_INTERVAL" envDefault:"1m"`
}

func (c Config) validate() error {
	switch {
	case c.Capacity <= 0:
		return ErrInvalidConfig
	case c.RefillRate <= 0:
		return ErrInvalidConfig
	case c.RefillInterval < time.Millisecond:
		return ErrInvalidConfig
	}
	return nil
}

// refill returns the token balance after the intervals elapsed since last
// and the new refill timestamp.
func (c Config) refill(tokens int, last, now time.Time) (int, time.Time) {
	// Capped so a long idle period cannot overflow the multiplication.
	maxIntervals := int64(c.Capacity/c.RefillRate + 1)
	intervals := int(min(int64(now.Sub(last)/c.RefillInterval), maxIntervals))
	if intervals <= 0 {
		return tokens, last
	}
	return min(tokens+intervals*c.RefillRate, c.Capacity), now
}
