// Package ratelimiter implements a token bucket limiter over pluggable stores.
//
// A Bucket holds Capacity tokens per key and regains RefillRate tokens every
// RefillInterval. AllowN takes tokens and reports the balance; a negative
// Remaining means the caller is over the limit. Status reads the balance
// without taking anything, which suits counting only failed attempts:
//
//	res, _ := limiter.Status(ctx, key)
//	if !res.Allowed() { /* throttled */ }
//	if !ok { limiter.Allow(ctx, key) }  // count the failure
//	if ok { limiter.Reset(ctx, key) }
//
// MemoryStore keeps buckets in process. RedisStore runs the same algorithm in
// a Lua script so several instances share one balance.
package ratelimiter
