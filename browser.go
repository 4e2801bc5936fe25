//go:build !unittest

package instagram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// rodSession is a Session backed by a headless Chrome with stealth patches.
type rodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page

	closeOnce sync.Once
	closeErr  error
}

var blockedResources = map[proto.NetworkResourceType]bool{
	proto.NetworkResourceTypeFont:  true,
	proto.NetworkResourceTypeMedia: true,
}

// launchSession starts a headless browser configured by cfg.
func launchSession(ctx context.Context, cfg SessionConfig) (Session, error) {
	l := launcher.New().Headless(true).NoSandbox(true)
	if cfg.Proxy != nil {
		// Chrome takes the proxy endpoint on the command line; credentials
		// are answered through the Fetch domain below.
		l = l.Proxy(cfg.Proxy.Scheme + "://" + cfg.Proxy.Host)
	}

	controlURL, err := l.Context(ctx).Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	rs := &rodSession{launcher: l}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		rs.launcher.Kill()
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	rs.browser = browser

	if err := rs.interceptRequests(cfg); err != nil {
		_ = rs.Close()
		return nil, err
	}

	page, err := stealth.Page(browser)
	if err != nil {
		_ = rs.Close()
		return nil, fmt.Errorf("create stealth page: %w", err)
	}
	rs.page = page

	if err := rs.setupPage(cfg); err != nil {
		_ = rs.Close()
		return nil, err
	}
	return rs, nil
}

// interceptRequests answers proxy auth challenges and drops blocked resource
// types. Both share the Fetch domain, so one handler serves them.
func (rs *rodSession) interceptRequests(cfg SessionConfig) error {
	var user, pass string
	if cfg.Proxy != nil && cfg.Proxy.User != nil {
		user = cfg.Proxy.User.Username()
		pass, _ = cfg.Proxy.User.Password()
	}
	withAuth := user != ""
	if !withAuth && !cfg.BlockResources {
		return nil
	}

	b := rs.browser
	go b.EachEvent(
		func(e *proto.FetchRequestPaused) {
			if cfg.BlockResources && (blockedResources[e.ResourceType] || strings.Contains(e.Request.URL, "analytics")) {
				_ = proto.FetchFailRequest{
					RequestID:   e.RequestID,
					ErrorReason: proto.NetworkErrorReasonBlockedByClient,
				}.Call(b)
				return
			}
			_ = proto.FetchContinueRequest{RequestID: e.RequestID}.Call(b)
		},
		func(e *proto.FetchAuthRequired) {
			resp := &proto.FetchAuthChallengeResponse{
				Response: proto.FetchAuthChallengeResponseResponseCancelAuth,
			}
			if withAuth {
				resp = &proto.FetchAuthChallengeResponse{
					Response: proto.FetchAuthChallengeResponseResponseProvideCredentials,
					Username: user,
					Password: pass,
				}
			}
			_ = proto.FetchContinueWithAuth{RequestID: e.RequestID, AuthChallengeResponse: resp}.Call(b)
		},
	)()

	if err := (proto.FetchEnable{HandleAuthRequests: withAuth}).Call(b); err != nil {
		return fmt.Errorf("enable request interception: %w", err)
	}
	return nil
}

func (rs *rodSession) setupPage(cfg SessionConfig) error {
	page := rs.page

	if cfg.UserAgent != "" {
		err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent:      cfg.UserAgent,
			AcceptLanguage: cfg.Headers["Accept-Language"],
		})
		if err != nil {
			return fmt.Errorf("set user agent: %w", err)
		}
	}

	if len(cfg.Headers) > 0 {
		dict := make([]string, 0, 2*len(cfg.Headers))
		for k, v := range cfg.Headers {
			dict = append(dict, k, v)
		}
		if _, err := page.SetExtraHeaders(dict); err != nil {
			return fmt.Errorf("set headers: %w", err)
		}
	}

	if cfg.ViewportWidth > 0 && cfg.ViewportHeight > 0 {
		err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             cfg.ViewportWidth,
			Height:            cfg.ViewportHeight,
			DeviceScaleFactor: 1,
		})
		if err != nil {
			return fmt.Errorf("set viewport: %w", err)
		}
	}

	// Native dialogs would block every later call on the page.
	go page.EachEvent(func(e *proto.PageJavascriptDialogOpening) {
		_ = proto.PageHandleJavaScriptDialog{Accept: false}.Call(page)
	})()

	return nil
}

func (rs *rodSession) Navigate(ctx context.Context, rawURL string, wait Wait) error {
	page, cancel := rs.bounded(ctx, wait.Timeout)
	defer cancel()

	if err := page.Navigate(rawURL); err != nil {
		return navigationErr("navigate", err)
	}
	if wait.Selector == "" {
		if err := page.WaitLoad(); err != nil {
			return navigationErr("wait load", err)
		}
		return nil
	}
	if _, err := page.Element(wait.Selector); err != nil {
		return navigationErr("wait for "+wait.Selector, err)
	}
	return nil
}

func (rs *rodSession) Eval(ctx context.Context, script string, out any, args ...any) error {
	page, cancel := rs.bounded(ctx, 15*time.Second)
	defer cancel()

	res, err := page.Eval(script, args...)
	if err != nil {
		return navigationErr("eval", err)
	}
	if out == nil {
		return nil
	}
	if err := res.Value.Unmarshal(out); err != nil {
		return fmt.Errorf("decode eval result: %w", err)
	}
	return nil
}

func (rs *rodSession) ClickMatching(ctx context.Context, selector, pattern string) (bool, error) {
	page, cancel := rs.bounded(ctx, 5*time.Second)
	defer cancel()

	var (
		found bool
		el    *rod.Element
		err   error
	)
	if pattern == "" {
		found, el, err = page.Has(selector)
	} else {
		found, el, err = page.HasR(selector, pattern)
	}
	if err != nil {
		return false, fmt.Errorf("find %s: %w", selector, err)
	}
	if !found {
		return false, nil
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return false, fmt.Errorf("click %s: %w", selector, err)
	}
	return true, nil
}

func (rs *rodSession) Close() error {
	rs.closeOnce.Do(func() {
		if rs.page != nil {
			if err := rs.page.Close(); err != nil {
				rs.closeErr = fmt.Errorf("close page: %w", err)
			}
		}
		if rs.browser != nil {
			if err := rs.browser.Close(); err != nil && rs.closeErr == nil {
				rs.closeErr = fmt.Errorf("close browser: %w", err)
			}
		}
		if rs.launcher != nil {
			rs.launcher.Cleanup()
		}
	})
	return rs.closeErr
}

// bounded scopes the page to ctx and timeout d. The returned func must be
// called to release the timer.
func (rs *rodSession) bounded(ctx context.Context, d time.Duration) (*rod.Page, func()) {
	page := rs.page.Context(ctx)
	if d <= 0 {
		return page, func() {}
	}
	page = page.Timeout(d)
	return page, func() { page.CancelTimeout() }
}

func navigationErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, ErrNavigationTimeout, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
