package instagram

import (
	"context"
	"fmt"
	"time"
)

// postsPerScroll is roughly how many grid posts one scroll loads.
const postsPerScroll = 12

// StopReason records why pagination ended.
type StopReason string

const (
	StopTargetReached   StopReason = "target_reached"
	StopBudgetExhausted StopReason = "budget_exhausted"
	StopStalled         StopReason = "stalled"
)

type pageState int

const (
	pageCheck pageState = iota
	pageScroll
	pageSettle
	pageCount
	pageDone
)

// Paginator drives the scroll-to-load loop. It stops when Target posts are
// discovered, when the iteration budget ceil(Target/BatchSize) is spent, or
// when the count has not grown for StallLimit consecutive iterations
// (StallLimit 0 disables that check).
type Paginator struct {
	Target     int
	BatchSize  int
	Settle     time.Duration
	StallLimit int
	Sleep      func(ctx context.Context, d time.Duration) error
}

type PaginationResult struct {
	Iterations int
	Discovered int
	Reason     StopReason
}

// Budget is the maximum number of scroll iterations.
func (p Paginator) Budget() int {
	if p.Target <= 0 {
		return 0
	}
	batch := p.BatchSize
	if batch <= 0 {
		batch = postsPerScroll
	}
	return (p.Target + batch - 1) / batch
}

// Run executes the loop. count is called once before any scrolling and
// after every settle delay. On error the result so far is returned with it.
func (p Paginator) Run(ctx context.Context, scroll func(context.Context) error, count func(context.Context) (int, error)) (PaginationResult, error) {
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	budget := p.Budget()

	var (
		res     PaginationResult
		stalled int
		err     error
	)

	res.Discovered, err = count(ctx)
	if err != nil {
		return res, fmt.Errorf("count posts: %w", err)
	}

	state := pageCheck
	for state != pageDone {
		switch state {
		case pageCheck:
			switch {
			case res.Discovered >= p.Target:
				res.Reason = StopTargetReached
				state = pageDone
			case res.Iterations >= budget:
				res.Reason = StopBudgetExhausted
				state = pageDone
			case p.StallLimit > 0 && stalled >= p.StallLimit:
				res.Reason = StopStalled
				state = pageDone
			default:
				state = pageScroll
			}

		case pageScroll:
			if err := scroll(ctx); err != nil {
				return res, fmt.Errorf("scroll %d: %w", res.Iterations+1, err)
			}
			res.Iterations++
			state = pageSettle

		case pageSettle:
			if err := sleep(ctx, p.Settle); err != nil {
				return res, err
			}
			state = pageCount

		case pageCount:
			n, err := count(ctx)
			if err != nil {
				return res, fmt.Errorf("count posts: %w", err)
			}
			if n > res.Discovered {
				stalled = 0
			} else {
				stalled++
			}
			res.Discovered = n
			state = pageCheck
		}
	}
	return res, nil
}
