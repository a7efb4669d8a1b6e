// Package redis connects to the optional Redis server used for shared login
// throttling state.
//
//	cfg := config.MustLoad[redis.Config]()
//	if cfg.Enabled() {
//	    client, err := redis.Connect(ctx, cfg)
//	    // ...
//	    checks = append(checks, redis.Healthcheck(client))
//	}
//
// Connect retries the initial ping RetryAttempts times, honoring
// ConnectTimeout and context cancellation between attempts.
package redis
