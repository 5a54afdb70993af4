package fanout

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunCollectsErrorsByIndex(t *testing.T) {
	boom := errors.New("boom")
	errs := Run(context.Background(), 2, 5, func(ctx context.Context, i int) error {
		if i%2 == 1 {
			return boom
		}
		return nil
	})

	if len(errs) != 5 {
		t.Fatalf("expected 5 results, got %d", len(errs))
	}
	for i, err := range errs {
		if i%2 == 1 && !errors.Is(err, boom) {
			t.Errorf("expected error at %d", i)
		}
		if i%2 == 0 && err != nil {
			t.Errorf("unexpected error at %d: %v", i, err)
		}
	}
	if Count(errs) != 2 {
		t.Errorf("expected 2 failures, got %d", Count(errs))
	}
}

func TestRunFailureDoesNotCancelOthers(t *testing.T) {
	var done atomic.Int32
	errs := Run(context.Background(), 1, 4, func(ctx context.Context, i int) error {
		if i == 0 {
			return errors.New("first fails")
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		done.Add(1)
		return nil
	})

	if done.Load() != 3 {
		t.Errorf("expected 3 successful calls, got %d", done.Load())
	}
	if Count(errs) != 1 {
		t.Errorf("expected 1 failure, got %d", Count(errs))
	}
}

func TestRunRespectsLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	New(3).Run(context.Background(), 12, func(ctx context.Context, i int) error {
		cur := inFlight.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return nil
	})

	if peak.Load() > 3 {
		t.Errorf("expected at most 3 concurrent calls, saw %d", peak.Load())
	}
}

func TestRunCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	errs := Run(ctx, 2, 3, func(ctx context.Context, i int) error {
		calls.Add(1)
		return nil
	})

	if calls.Load() != 0 {
		t.Errorf("expected no calls on a canceled context, got %d", calls.Load())
	}
	for _, err := range errs {
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	}
}

func TestRunZero(t *testing.T) {
	if errs := Run(context.Background(), 2, 0, nil); len(errs) != 0 {
		t.Errorf("expected no results, got %d", len(errs))
	}
	if New(0).Limit() != DefaultLimit {
		t.Error("expected default limit for non-positive input")
	}
}
