package instagram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// FetchOptions scope one structured fetch.
type FetchOptions struct {
	MaxPosts  int
	SessionID string
}

// FetchStructured fetches a profile from the data embedded in its landing
// page. This is one HTTP round trip through the proxy; no browser is used.
// Posts are truncated to opts.MaxPosts (20 when unset).
func (s *Scraper) FetchStructured(ctx context.Context, username string, opts FetchOptions) (Profile, error) {
	if err := ValidateUsername(username); err != nil {
		return Profile{}, err
	}

	totalStart := time.Now()
	profileURL := s.baseURL + "/" + username + "/"

	client, err := s.httpClientFor(opts.SessionID)
	if err != nil {
		return Profile{}, fmt.Errorf("structured fetch %q: %w", username, err)
	}

	if err := s.waitForProfile(ctx); err != nil {
		return Profile{}, fmt.Errorf("structured fetch %q: %w", username, err)
	}

	httpStart := time.Now()
	resp, err := s.doRequest(ctx, client, http.MethodGet, profileURL, nil)
	if err != nil {
		return Profile{}, fmt.Errorf("structured fetch %q: %w", username, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile page %q: %w: %w", username, ErrTransport, err)
	}
	httpDur := time.Since(httpStart)

	data, err := extractSharedData(body)
	if err != nil {
		return Profile{}, fmt.Errorf("parse profile page %q: %w", username, err)
	}

	user, err := extractUserFromSharedData(data)
	if err != nil {
		return Profile{}, fmt.Errorf("extract user %q: %w", username, err)
	}

	profile := normalizeStructured(user, s.baseURL)
	maxPosts := opts.MaxPosts
	if maxPosts <= 0 {
		maxPosts = defaultMaxPosts
	}
	profile.Posts = truncatePosts(profile.Posts, maxPosts)

	s.logger.Debug("structured fetch done",
		"username", username,
		"http", httpDur,
		"total", time.Since(totalStart),
		"body_bytes", len(body),
		"posts", len(profile.Posts),
	)
	return profile, nil
}

// fetchStructuredWithRetry retries transient failures before giving up.
func (s *Scraper) fetchStructuredWithRetry(ctx context.Context, username string, opts FetchOptions) (Profile, error) {
	var profile Profile
	err := retryDo(ctx, s.logger, "structured fetch", func() error {
		var err error
		profile, err = s.FetchStructured(ctx, username, opts)
		return err
	}, s.retry)
	return profile, err
}
