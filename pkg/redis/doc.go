// Package redis connects to Redis with retries and exposes a readiness probe.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
// The application uses the client as a read-through cache for tag lookups.
package redis
