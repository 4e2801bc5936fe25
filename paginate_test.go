package instagram

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// countSeq returns a count func yielding seq and then repeating its last
// value, plus a pointer to the number of calls.
func countSeq(seq ...int) (func(context.Context) (int, error), *int) {
	calls := 0
	return func(context.Context) (int, error) {
		i := min(calls, len(seq)-1)
		calls++
		return seq[i], nil
	}, &calls
}

func noSleep(context.Context, time.Duration) error { return nil }

func TestPaginator_Budget(t *testing.T) {
	t.Parallel()
	tests := []struct {
		target, batch, want int
	}{
		{20, 12, 2},
		{12, 12, 1},
		{13, 12, 2},
		{50, 12, 5},
		{1, 12, 1},
		{0, 12, 0},
		{-4, 12, 0},
		{24, 0, 2},
	}
	for _, tt := range tests {
		got := Paginator{Target: tt.target, BatchSize: tt.batch}.Budget()
		require.Equal(t, tt.want, got, "target %d batch %d", tt.target, tt.batch)
	}
}

func TestPaginator_TargetReached(t *testing.T) {
	t.Parallel()
	count, _ := countSeq(6, 12, 24)
	scrolls := 0

	res, err := Paginator{Target: 20, BatchSize: 12, Sleep: noSleep}.Run(context.Background(),
		func(context.Context) error { scrolls++; return nil },
		count,
	)
	require.NoError(t, err)
	require.Equal(t, StopTargetReached, res.Reason)
	require.Equal(t, 24, res.Discovered)
	require.Equal(t, 2, res.Iterations)
	require.Equal(t, 2, scrolls)
}

func TestPaginator_AlreadyLoaded(t *testing.T) {
	t.Parallel()
	count, calls := countSeq(30)

	res, err := Paginator{Target: 20, BatchSize: 12, Sleep: noSleep}.Run(context.Background(),
		func(context.Context) error { t.Fatal("unexpected scroll"); return nil },
		count,
	)
	require.NoError(t, err)
	require.Equal(t, StopTargetReached, res.Reason)
	require.Zero(t, res.Iterations)
	require.Equal(t, 1, *calls)
}

// Fewer posts than requested is not an error: the budget bounds the loop.
func TestPaginator_BudgetExhausted(t *testing.T) {
	t.Parallel()
	count, _ := countSeq(4, 6, 8)
	var slept []time.Duration

	res, err := Paginator{
		Target:     20,
		BatchSize:  12,
		Settle:     1500 * time.Millisecond,
		StallLimit: 2,
		Sleep: func(_ context.Context, d time.Duration) error {
			slept = append(slept, d)
			return nil
		},
	}.Run(context.Background(), func(context.Context) error { return nil }, count)

	require.NoError(t, err)
	require.Equal(t, StopBudgetExhausted, res.Reason)
	require.Equal(t, 8, res.Discovered)
	require.Equal(t, 2, res.Iterations)
	require.Equal(t, []time.Duration{1500 * time.Millisecond, 1500 * time.Millisecond}, slept)
}

func TestPaginator_Stalled(t *testing.T) {
	t.Parallel()
	count, _ := countSeq(5, 9, 9, 9)

	res, err := Paginator{Target: 100, BatchSize: 12, StallLimit: 2, Sleep: noSleep}.Run(
		context.Background(), func(context.Context) error { return nil }, count)

	require.NoError(t, err)
	require.Equal(t, StopStalled, res.Reason)
	require.Equal(t, 3, res.Iterations)
	require.Equal(t, 9, res.Discovered)
}

func TestPaginator_StallDisabled(t *testing.T) {
	t.Parallel()
	count, _ := countSeq(3)

	res, err := Paginator{Target: 36, BatchSize: 12, Sleep: noSleep}.Run(
		context.Background(), func(context.Context) error { return nil }, count)

	require.NoError(t, err)
	require.Equal(t, StopBudgetExhausted, res.Reason)
	require.Equal(t, 3, res.Iterations)
}

func TestPaginator_Errors(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")

	t.Run("initial count", func(t *testing.T) {
		t.Parallel()
		_, err := Paginator{Target: 10, Sleep: noSleep}.Run(context.Background(),
			func(context.Context) error { return nil },
			func(context.Context) (int, error) { return 0, boom },
		)
		require.ErrorIs(t, err, boom)
	})

	t.Run("scroll", func(t *testing.T) {
		t.Parallel()
		count, _ := countSeq(2)
		res, err := Paginator{Target: 10, Sleep: noSleep}.Run(context.Background(),
			func(context.Context) error { return boom },
			count,
		)
		require.ErrorIs(t, err, boom)
		require.Equal(t, 2, res.Discovered)
		require.Zero(t, res.Iterations)
	})

	t.Run("settle canceled", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		count, _ := countSeq(2)
		_, err := Paginator{Target: 10, Settle: time.Hour}.Run(ctx,
			func(context.Context) error { return nil },
			count,
		)
		require.ErrorIs(t, err, context.Canceled)
	})
}
