package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/five82/todoable/internal/state"
	"github.com/five82/todoable/internal/todoable"
)

const (
	defaultPollInterval  = 15 * time.Second
	maxBackoff           = 2 * time.Minute
	maxConcurrentFetches = 4
)

// ListFetcher is the read side of the client the poller needs.
type ListFetcher interface {
	Lists(ctx context.Context) ([]todoable.List, error)
	FindList(ctx context.Context, id string) (todoable.List, error)
}

// StartPoller launches a background goroutine that refreshes the store at a
// fixed cadence, backing off while the API keeps failing. It returns
// immediately.
func StartPoller(ctx context.Context, store *state.Store, fetcher ListFetcher, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	go func() {
		failures := 0
		for {
			if err := refresh(ctx, store, fetcher); err != nil {
				failures++
				logger.Warn("refresh failed", zap.Error(err), zap.Int("failures", failures))
			} else {
				failures = 0
			}
			timer := time.NewTimer(calculateBackoff(failures, interval))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
}

// calculateBackoff doubles the interval per consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, interval time.Duration) time.Duration {
	if failures <= 0 {
		return interval
	}
	d := interval
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}

func refresh(ctx context.Context, store *state.Store, fetcher ListFetcher) error {
	lists, err := FetchAll(ctx, fetcher)
	store.Update(lists, err)
	return err
}

// FetchAll loads every list and then each list's items concurrently. A list
// deleted between the two calls is kept without items.
func FetchAll(ctx context.Context, fetcher ListFetcher) ([]todoable.List, error) {
	lists, err := fetcher.Lists(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch lists: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i := range lists {
		i := i
		id := lists[i].ID
		g.Go(func() error {
			full, err := fetcher.FindList(gctx, id)
			if err != nil {
				if errors.Is(err, todoable.ErrContentNotFound) {
					return nil
				}
				return fmt.Errorf("fetch list %s: %w", id, err)
			}
			full.ID = id
			lists[i] = full
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return lists, nil
}

func secondsToDuration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}
