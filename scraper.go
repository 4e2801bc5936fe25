package instagram

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
	defaultBaseURL   = "https://www.instagram.com"
	defaultMaxPosts  = 20
	dialTimeout      = 10 * time.Second
)

// Scraper acquires Instagram profiles. The structured path is pure HTTP; the
// rendered path launches one browser session per acquisition call, so a
// Scraper may be shared by concurrent callers.
type Scraper struct {
	client    *http.Client
	proxy     *url.URL
	issuer    CredentialIssuer
	userAgent string
	baseURL   string // defaults to "https://www.instagram.com"

	logger         *slog.Logger
	descriptor     Descriptor
	newSession     SessionFactory
	blockResources bool

	// Profile page requests: ~60/min → 1s between requests.
	profileLimiter *rate.Limiter
	retry          RetryConfig

	navTimeout       time.Duration
	scrollDelay      time.Duration
	obstructionDelay time.Duration

	// Replaceable for testing.
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// defaultTransport returns an http.Transport optimized for scraping:
// connection pooling, keep-alive, and TLS handshake caching.
func defaultTransport() *http.Transport {
	return &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}
}

// New creates a Scraper with sensible defaults. No browser is launched until
// an acquisition needs the rendered path.
func New() *Scraper {
	return &Scraper{
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: defaultTransport(),
		},
		baseURL:          defaultBaseURL,
		userAgent:        defaultUserAgent,
		logger:           slog.New(slog.DiscardHandler),
		descriptor:       DefaultDescriptor(),
		newSession:       launchSession,
		profileLimiter:   rate.NewLimiter(rate.Every(time.Second), 1),
		retry:            DefaultRetryConfig(),
		navTimeout:       30 * time.Second,
		scrollDelay:      1500 * time.Millisecond,
		obstructionDelay: time.Second,
		sleep:            sleepContext,
		now:              time.Now,
	}
}

// WithProfileDelay sets the minimum delay between profile page requests.
func (s *Scraper) WithProfileDelay(d time.Duration) *Scraper {
	if d <= 0 {
		s.profileLimiter = rate.NewLimiter(rate.Inf, 1)
		return s
	}
	s.profileLimiter = rate.NewLimiter(rate.Every(d), 1)
	return s
}

// WithLogger sets the logger. The default discards everything.
func (s *Scraper) WithLogger(l *slog.Logger) *Scraper {
	if l != nil {
		s.logger = l
	}
	return s
}

// WithDescriptor replaces the page locators used by the rendered path.
func (s *Scraper) WithDescriptor(d Descriptor) *Scraper {
	s.descriptor = d
	return s
}

// WithSessionFactory replaces the browser launcher.
func (s *Scraper) WithSessionFactory(f SessionFactory) *Scraper {
	if f != nil {
		s.newSession = f
	}
	return s
}

// WithCredentialIssuer scopes proxy credentials to each acquisition call.
// It only has an effect once a proxy is set with SetProxy.
func (s *Scraper) WithCredentialIssuer(issuer CredentialIssuer) *Scraper {
	s.issuer = issuer
	return s
}

// WithRetry sets the retry policy for structured fetch transport failures.
func (s *Scraper) WithRetry(cfg RetryConfig) *Scraper {
	s.retry = cfg
	return s
}

// WithNavigationTimeout bounds every page navigation and content wait.
func (s *Scraper) WithNavigationTimeout(d time.Duration) *Scraper {
	s.navTimeout = d
	return s
}

// WithScrollDelay sets the settle delay after each pagination scroll.
func (s *Scraper) WithScrollDelay(d time.Duration) *Scraper {
	s.scrollDelay = d
	return s
}

// WithRequestTimeout sets the structured fetch HTTP timeout.
func (s *Scraper) WithRequestTimeout(d time.Duration) *Scraper {
	s.client.Timeout = d
	return s
}

// WithBaseURL points both strategies at another origin.
func (s *Scraper) WithBaseURL(u string) *Scraper {
	s.baseURL = u
	return s
}

// WithResourceBlocking makes browser sessions drop fonts, media and
// analytics requests.
func (s *Scraper) WithResourceBlocking(block bool) *Scraper {
	s.blockResources = block
	return s
}

// SetProxy configures an HTTP/HTTPS or SOCKS5 forward proxy for both
// strategies. Connection pooling and keep-alive settings are preserved.
func (s *Scraper) SetProxy(proxyAddr string) error {
	if proxyAddr == "" {
		s.client.Transport = defaultTransport()
		s.proxy = nil
		return nil
	}

	u, err := url.Parse(proxyAddr)
	if err != nil {
		return fmt.Errorf("parse proxy url: %w", err)
	}
	tr, err := proxyTransport(u)
	if err != nil {
		return err
	}

	s.client.Transport = tr
	s.proxy = u
	return nil
}

// httpClientFor returns the client for one acquisition call. With a
// credential issuer each session gets its own proxy identity.
func (s *Scraper) httpClientFor(sessionID string) (*http.Client, error) {
	if s.proxy == nil || s.issuer == nil {
		return s.client, nil
	}
	u, err := s.proxyURLFor(sessionID)
	if err != nil {
		return nil, err
	}
	tr, err := proxyTransport(u)
	if err != nil {
		return nil, err
	}
	return &http.Client{Timeout: s.client.Timeout, Transport: tr}, nil
}

// doRequest builds and executes an HTTP request with a fixed desktop browser
// header set. Callers rate limit with waitForProfile.
func (s *Scraper) doRequest(ctx context.Context, client *http.Client, method, urlStr string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, urlStr, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		resp.Body.Close()
		return nil, ErrRateLimited
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, ErrNotFound
	case resp.StatusCode >= http.StatusInternalServerError:
		resp.Body.Close()
		return nil, fmt.Errorf("%w: status %d", ErrTransport, resp.StatusCode)
	}

	return resp, nil
}

// waitForProfile enforces rate limiting for profile page requests.
func (s *Scraper) waitForProfile(ctx context.Context) error {
	return s.profileLimiter.Wait(ctx)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
