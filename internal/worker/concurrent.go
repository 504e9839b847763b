package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// downloadAll fetches URLs concurrently with bounded parallelism and rate
// limiting. A URL that fails after all retries is logged and counted; only
// context cancellation stops the batch.
func downloadAll(ctx context.Context, log *slog.Logger, opts Options, report *Report) error {
	maxConcurrent := max(opts.MaxConcurrent, 1)
	maxRetries := max(opts.MaxRetries, 1)
	rpm := max(opts.RateLimitPerMin, 1)

	log.Info("starting downloads",
		"urls", len(opts.URLs),
		"max_concurrent", maxConcurrent,
		"rate_limit_rpm", rpm)

	// Rate limiter: tokens per second = RPM / 60.
	limiter := rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1)

	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	for i, link := range opts.URLs {
		g.Go(func() error {
			item := fmt.Sprintf("%d/%d", i+1, len(opts.URLs))
			var lastErr error

			// Retry loop with exponential backoff.
			for attempt := 0; attempt < maxRetries; attempt++ {
				if err := limiter.Wait(gctx); err != nil {
					return fmt.Errorf("rate limiter: %w", err)
				}

				meta, err := opts.Downloader.Download(gctx, link)
				if err == nil {
					mu.Lock()
					report.Downloaded++
					report.Videos = append(report.Videos, *meta)
					mu.Unlock()
					log.Info("download completed", "item", item, "title", meta.Title)
					return nil
				}

				lastErr = err
				if !retryable(err) {
					break
				}
				if attempt < maxRetries-1 {
					backoff := 1 << uint(attempt) // 1s, 2s, 4s...
					log.Warn("download failed, retrying",
						"item", item,
						"attempt", attempt+1,
						"backoff_sec", backoff,
						"err", err)

					timer := time.NewTimer(time.Duration(backoff) * time.Second)
					select {
					case <-gctx.Done():
						timer.Stop()
						return gctx.Err()
					case <-timer.C:
					}
				}
			}

			if gctx.Err() != nil {
				return gctx.Err()
			}

			mu.Lock()
			report.Failed++
			mu.Unlock()
			log.Error("download failed", "item", item, "url", link, "err", lastErr)
			return nil
		})
	}

	return g.Wait()
}
