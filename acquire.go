package instagram

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// AcquireOptions configure one Acquire call.
type AcquireOptions struct {
	Strategy       Strategy
	MaxPosts       int
	IncludeDetails bool
	// SessionID scopes proxy credentials. A random id is used when empty.
	SessionID string
}

// Acquire fetches a profile with the requested strategy and reports the
// outcome as a Result. It never panics and never returns a partial profile
// on failure. Any browser session it opens is closed before it returns.
func (s *Scraper) Acquire(ctx context.Context, username string, opts AcquireOptions) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("acquire panicked", "username", username, "panic", r)
			res = s.failure(username, fmt.Errorf("internal error: %v", r))
		}
	}()

	profile, err := s.acquire(ctx, username, opts)
	if err != nil {
		s.logger.Error("acquire failed", "username", username, "strategy", opts.Strategy, "err", err)
		return s.failure(username, err)
	}

	s.logger.Info("profile acquired",
		"username", profile.Username,
		"source", profile.Source,
		"posts", len(profile.Posts),
	)
	return Result{
		Success:   true,
		Data:      &profile,
		Method:    profile.Source,
		Timestamp: s.now(),
	}
}

func (s *Scraper) failure(username string, err error) Result {
	now := s.now()
	return Result{
		Success: false,
		Error: &ResultError{
			Message:   err.Error(),
			Context:   "scraping profile " + username,
			Timestamp: now,
		},
	}
}

func (s *Scraper) acquire(ctx context.Context, username string, opts AcquireOptions) (profile Profile, err error) {
	if err := ValidateUsername(username); err != nil {
		return Profile{}, err
	}
	strategy := opts.Strategy
	if strategy == "" {
		strategy = StrategyAuto
	}
	switch strategy {
	case StrategyAPI, StrategyBrowser, StrategyAuto:
	default:
		return Profile{}, fmt.Errorf("%w: unknown strategy %q", ErrValidation, strategy)
	}

	maxPosts := opts.MaxPosts
	if maxPosts <= 0 {
		maxPosts = defaultMaxPosts
	}
	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	log := s.logger.With("username", username, "session_id", sessionID)

	// At most one browser per call, opened on first use.
	var rs *renderedSession
	defer func() {
		if cerr := rs.close(); cerr != nil {
			log.Warn("close browser session", "err", cerr)
		}
	}()
	rendered := func() (*renderedSession, error) {
		if rs != nil {
			return rs, nil
		}
		var err error
		rs, err = s.openSession(ctx, sessionID)
		return rs, err
	}

	fetch := FetchOptions{MaxPosts: maxPosts, SessionID: sessionID}

	switch strategy {
	case StrategyAPI:
		profile, err = s.fetchStructuredWithRetry(ctx, username, fetch)
		if err != nil {
			return Profile{}, err
		}

	case StrategyBrowser:
		profile, err = s.scrapeRendered(ctx, rendered, username, maxPosts)
		if err != nil {
			return Profile{}, err
		}

	case StrategyAuto:
		profile, err = s.fetchStructuredWithRetry(ctx, username, fetch)
		if err != nil {
			log.Warn("structured fetch failed, falling back to rendered", "err", err)
			profile, err = s.scrapeRendered(ctx, rendered, username, maxPosts)
			if err != nil {
				return Profile{}, err
			}
		}
	}

	profile.Posts = truncatePosts(profile.Posts, maxPosts)

	if !opts.IncludeDetails || len(profile.Posts) == 0 {
		return profile, nil
	}

	r, err := rendered()
	if err != nil {
		log.Warn("post enrichment skipped",
			"err", fmt.Errorf("%w: %w", ErrPartialEnrichment, err),
		)
		return profile, nil
	}
	posts, enriched := r.enrichPosts(ctx, profile.Posts)
	profile.Posts = posts
	if enriched > 0 && profile.Source == SourceStructured {
		profile.Source = SourceCombined
	}
	log.Debug("enrichment done", "enriched", enriched, "posts", len(posts))
	return profile, nil
}

func (s *Scraper) scrapeRendered(ctx context.Context, open func() (*renderedSession, error), username string, maxPosts int) (Profile, error) {
	r, err := open()
	if err != nil {
		return Profile{}, err
	}
	profile, err := r.scrapeProfile(ctx, username, maxPosts)
	if err != nil {
		return Profile{}, fmt.Errorf("rendered scrape: %w", err)
	}
	return profile, nil
}
