package instagram

import (
	"fmt"
	"net"
	"net/http"
	"net/url"

	"golang.org/x/net/proxy"
)

// Credentials authenticate one session against the forward proxy.
type Credentials struct {
	Identity string
	Secret   string
}

// CredentialIssuer hands out proxy credentials scoped to a session id.
type CredentialIssuer interface {
	Issue(sessionID string) (Credentials, error)
}

// SessionCredentials issues "<Username>-session-<id>" identities sharing one
// password, the scheme used by residential proxy providers to pin an exit IP
// to a session.
type SessionCredentials struct {
	Username string
	Password string
}

func (c SessionCredentials) Issue(sessionID string) (Credentials, error) {
	if c.Username == "" {
		return Credentials{}, fmt.Errorf("%w: proxy username is empty", ErrValidation)
	}
	identity := c.Username
	if sessionID != "" {
		identity += "-session-" + sessionID
	}
	return Credentials{Identity: identity, Secret: c.Password}, nil
}

// proxyURLFor returns the proxy to use for one acquisition call, with
// per-session credentials filled in when an issuer is configured. It returns
// nil when no proxy is set.
func (s *Scraper) proxyURLFor(sessionID string) (*url.URL, error) {
	if s.proxy == nil {
		return nil, nil
	}
	u := *s.proxy
	if s.issuer != nil {
		creds, err := s.issuer.Issue(sessionID)
		if err != nil {
			return nil, fmt.Errorf("issue proxy credentials: %w", err)
		}
		u.User = url.UserPassword(creds.Identity, creds.Secret)
	}
	return &u, nil
}

// proxyTransport builds a pooled transport that routes through u. HTTP(S)
// proxies and SOCKS5 are supported.
func proxyTransport(u *url.URL) (*http.Transport, error) {
	base := defaultTransport()
	if u == nil {
		return base, nil
	}

	switch u.Scheme {
	case "http", "https":
		base.Proxy = http.ProxyURL(u)
	case "socks5":
		var auth *proxy.Auth
		if u.User != nil {
			pass, _ := u.User.Password()
			auth = &proxy.Auth{User: u.User.Username(), Password: pass}
		}
		dialer, err := proxy.SOCKS5("tcp", u.Host, auth, &net.Dialer{Timeout: dialTimeout})
		if err != nil {
			return nil, fmt.Errorf("socks5 proxy: %w", err)
		}
		dc, ok := dialer.(proxy.ContextDialer)
		if !ok {
			return nil, fmt.Errorf("socks5: context dialer not supported")
		}
		base.DialContext = dc.DialContext
	default:
		return nil, fmt.Errorf("%w: unsupported proxy scheme: %s", ErrValidation, u.Scheme)
	}
	return base, nil
}
