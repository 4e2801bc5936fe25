package instagram

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type sessionState int

const (
	stateUninitialized sessionState = iota
	stateReady
	stateNavigated
	stateObstructionsCleared
	stateProfileExtracted
	statePostsPaginated
	stateClosed
)

func (st sessionState) String() string {
	switch st {
	case stateUninitialized:
		return "uninitialized"
	case stateReady:
		return "ready"
	case stateNavigated:
		return "navigated"
	case stateObstructionsCleared:
		return "obstructions_cleared"
	case stateProfileExtracted:
		return "profile_extracted"
	case statePostsPaginated:
		return "posts_paginated"
	case stateClosed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int(st))
}

// renderedSession is the rendered-source client for one acquisition call.
// It owns exactly one browser Session.
type renderedSession struct {
	s      *Scraper
	sess   Session
	state  sessionState
	logger *slog.Logger
}

// openSession launches a browser routed through the proxy with credentials
// scoped to sessionID.
func (s *Scraper) openSession(ctx context.Context, sessionID string) (*renderedSession, error) {
	proxyURL, err := s.proxyURLFor(sessionID)
	if err != nil {
		return nil, fmt.Errorf("open browser session: %w", err)
	}

	start := time.Now()
	sess, err := s.newSession(ctx, SessionConfig{
		Proxy:     proxyURL,
		UserAgent: s.userAgent,
		Headers: map[string]string{
			"Accept-Language": "en-US,en;q=0.9",
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		},
		ViewportWidth:  1366,
		ViewportHeight: 768,
		BlockResources: s.blockResources,
	})
	if err != nil {
		return nil, fmt.Errorf("open browser session: %w", err)
	}

	r := &renderedSession{
		s:      s,
		sess:   sess,
		logger: s.logger.With("session_id", sessionID),
	}
	r.transition(stateReady)
	r.logger.Debug("browser session ready", "took", time.Since(start))
	return r, nil
}

func (r *renderedSession) transition(to sessionState) {
	r.logger.Debug("rendered session transition", "from", r.state, "to", to)
	r.state = to
}

func (r *renderedSession) usable() error {
	if r == nil || r.state == stateUninitialized || r.state == stateClosed {
		return ErrBrowserNotReady
	}
	return nil
}

// scrapeProfile runs navigation, obstruction dismissal, profile extraction
// and pagination, and returns a profile with at most maxPosts posts.
func (r *renderedSession) scrapeProfile(ctx context.Context, username string, maxPosts int) (Profile, error) {
	if err := r.usable(); err != nil {
		return Profile{}, err
	}
	if err := r.navigateProfile(ctx, username); err != nil {
		return Profile{}, err
	}
	r.clearObstructions(ctx)

	raw, err := r.extractProfile(ctx)
	if err != nil {
		return Profile{}, err
	}

	posts := r.paginateAndExtract(ctx, maxPosts)
	profile := normalizeRendered(username, raw, posts, r.s.descriptor.Counts)
	profile.Posts = truncatePosts(profile.Posts, maxPosts)
	return profile, nil
}

func (r *renderedSession) navigateProfile(ctx context.Context, username string) error {
	profileURL := r.s.baseURL + "/" + username + "/"
	err := r.sess.Navigate(ctx, profileURL, Wait{
		Selector: r.s.descriptor.ProfileReady,
		Timeout:  r.s.navTimeout,
	})
	if err != nil {
		return fmt.Errorf("navigate to profile %q: %w", username, err)
	}
	r.transition(stateNavigated)
	return nil
}

// clearObstructions dismisses the consent banner and the login interstitial
// when present. Failures are logged and ignored.
func (r *renderedSession) clearObstructions(ctx context.Context) {
	d := r.s.descriptor

	if d.ConsentButton != "" {
		clicked, err := r.sess.ClickMatching(ctx, d.ConsentButton, d.consentPattern())
		switch {
		case err != nil:
			r.logger.Warn("consent banner dismissal failed", "err", err)
		case clicked:
			r.logger.Debug("consent banner dismissed")
			r.settle(ctx, 2*r.s.obstructionDelay)
		}
	}

	if d.LoginDismiss != "" {
		clicked, err := r.sess.ClickMatching(ctx, d.LoginDismiss, "")
		switch {
		case err != nil:
			r.logger.Warn("login prompt dismissal failed", "err", err)
		case clicked:
			r.logger.Debug("login prompt dismissed")
			r.settle(ctx, r.s.obstructionDelay)
		}
	}

	r.transition(stateObstructionsCleared)
}

func (r *renderedSession) settle(ctx context.Context, d time.Duration) {
	if err := r.s.sleep(ctx, d); err != nil {
		r.logger.Warn("settle wait interrupted", "err", err)
	}
}

func (r *renderedSession) extractProfile(ctx context.Context) (rawRenderedProfile, error) {
	var raw rawRenderedProfile
	if err := r.sess.Eval(ctx, jsExtractProfile, &raw, r.s.descriptor); err != nil {
		return rawRenderedProfile{}, fmt.Errorf("extract profile: %w", err)
	}
	r.transition(stateProfileExtracted)
	return raw, nil
}

// paginateAndExtract scrolls until enough posts are loaded and returns up to
// maxPosts of them in document order. Errors degrade to fewer posts.
func (r *renderedSession) paginateAndExtract(ctx context.Context, maxPosts int) []rawRenderedPost {
	d := r.s.descriptor
	p := Paginator{
		Target:     maxPosts,
		BatchSize:  postsPerScroll,
		Settle:     r.s.scrollDelay,
		StallLimit: 2,
		Sleep:      r.s.sleep,
	}

	res, err := p.Run(ctx,
		func(ctx context.Context) error {
			return r.sess.Eval(ctx, jsScrollToBottom, nil)
		},
		func(ctx context.Context) (int, error) {
			var n int
			err := r.sess.Eval(ctx, jsCountPosts, &n, d)
			return n, err
		},
	)
	if err != nil {
		r.logger.Warn("pagination stopped early", "err", err, "iterations", res.Iterations, "discovered", res.Discovered)
	} else {
		r.logger.Debug("pagination done", "iterations", res.Iterations, "discovered", res.Discovered, "reason", res.Reason)
	}
	r.transition(statePostsPaginated)

	var posts []rawRenderedPost
	if err := r.sess.Eval(ctx, jsExtractPosts, &posts, d, maxPosts); err != nil {
		r.logger.Warn("post extraction failed", "err", err)
		return nil
	}
	return posts
}

// enrichPost loads one post's page and merges its detail fields.
func (r *renderedSession) enrichPost(ctx context.Context, post Post) (Post, error) {
	if err := r.usable(); err != nil {
		return post, err
	}
	d := r.s.descriptor

	err := r.sess.Navigate(ctx, postURL(r.s.baseURL, post.Shortcode), Wait{
		Selector: d.DetailReady,
		Timeout:  r.s.navTimeout,
	})
	if err != nil {
		return post, fmt.Errorf("navigate to post %s: %w", post.Shortcode, err)
	}

	var raw rawPostDetail
	if err := r.sess.Eval(ctx, jsExtractPostDetail, &raw, d); err != nil {
		return post, fmt.Errorf("extract post %s: %w", post.Shortcode, err)
	}
	return applyDetail(post, raw, d.ProfilePicMarker), nil
}

// enrichPosts enriches posts one at a time. A post that fails keeps its
// summary fields; the returned count is how many were enriched.
func (r *renderedSession) enrichPosts(ctx context.Context, posts []Post) ([]Post, int) {
	out := make([]Post, 0, len(posts))
	enriched := 0
	for i, post := range posts {
		r.logger.Debug("enriching post", "index", i+1, "total", len(posts), "shortcode", post.Shortcode)
		detailed, err := r.enrichPost(ctx, post)
		if err != nil {
			r.logger.Warn("post enrichment failed, keeping summary",
				"shortcode", post.Shortcode,
				"err", fmt.Errorf("%w: %w", ErrPartialEnrichment, err),
			)
			out = append(out, post)
			continue
		}
		enriched++
		out = append(out, detailed)
	}
	return out, enriched
}

// close releases the browser. It is idempotent and safe from any state.
func (r *renderedSession) close() error {
	if r == nil || r.state == stateClosed {
		return nil
	}
	r.transition(stateClosed)
	if err := r.sess.Close(); err != nil {
		return fmt.Errorf("close browser session: %w", err)
	}
	return nil
}
