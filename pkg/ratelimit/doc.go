// Package ratelimit paces requests to the media proxy.
//
// Two limiters implement Limiter:
//
//   - TokenBucket hands out a fixed number of tokens per period. PerMinute
//     builds the bucket used by the downloader from the configured
//     requests-per-minute value.
//   - SlidingWindow allows at most N requests in any window of the given
//     length.
//
// Wait blocks until a slot frees up and returns early with ctx.Err() when
// the context ends.
//
// New picks one of them by name ("token" or "window").
//
//	limiter := ratelimit.New(cfg.Download.RateLimiter, cfg.Download.RequestsPerMinute)
//	if err := limiter.Wait(ctx); err != nil {
//	    return err
//	}
package ratelimit
