package workbench

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is returned by Poll when the condition is not met in time.
var ErrTimeout = errors.New("timeout")

// ErrNotFound is returned when an element with the requested label is absent.
var ErrNotFound = errors.New("not found")

// minPollInterval is used when Poll gets a non-positive interval
const minPollInterval = 10 * time.Millisecond

// Poll calls cond every interval until it returns true, the timeout elapses or ctx is canceled.
// Errors returned by cond don't stop polling; the last one is reported on timeout.
func Poll(ctx context.Context, timeout, interval time.Duration, cond func() (bool, error)) error {
	if interval <= 0 {
		interval = minPollInterval
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastErr error
	for {
		ok, err := cond()
		if err == nil && ok {
			return nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return ctx.Err()
			}
			if lastErr != nil {
				return fmt.Errorf("%w after %v: %w", ErrTimeout, timeout, lastErr)
			}
			return fmt.Errorf("%w after %v", ErrTimeout, timeout)
		case <-ticker.C:
		}
	}
}

// Titled is anything with a displayed title, i.e. welcome buttons or section actions.
type Titled interface {
	Title() (string, error)
}

// FindByTitle returns the first item whose title equals title exactly.
// Items failing to report the title are skipped.
func FindByTitle[T Titled](items []T, title string) (T, error) {
	for _, item := range items {
		t, err := item.Title()
		if err != nil {
			continue
		}
		if t == title {
			return item, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: %q", ErrNotFound, title)
}

// Titles collects titles of all items, stopping on the first error.
func Titles[T Titled](items []T) ([]string, error) {
	res := make([]string, 0, len(items))
	for _, item := range items {
		t, err := item.Title()
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, nil
}
