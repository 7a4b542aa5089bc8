// Package network builds the HTTP clients used to retrieve feeds.
package network

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// ClientFactory creates HTTP clients with an optional proxy.
type ClientFactory struct {
	proxyURL  *url.URL
	transport http.RoundTripper // nil for direct connections
}

// NewClientFactory validates proxyURL and builds its transport. An empty
// proxyURL means direct connections. A proxy that cannot be set up is an
// error; clients never fall back to connecting directly.
func NewClientFactory(proxyURL string) (*ClientFactory, error) {
	f := &ClientFactory{}
	if proxyURL == "" {
		return f, nil
	}

	parsed, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("parse proxy %q: %w", proxyURL, err)
	}
	switch parsed.Scheme {
	case "http", "https", "socks5", "socks5h":
	default:
		return nil, fmt.Errorf("unsupported proxy scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("proxy %q has no host", proxyURL)
	}

	tr, err := newTransportWithProxy(parsed)
	if err != nil {
		return nil, fmt.Errorf("set up proxy %s: %w", parsed.Redacted(), err)
	}
	f.proxyURL = parsed
	f.transport = tr
	return f, nil
}

// NewHTTPClient creates an http.Client with the configured proxy. A zero
// timeout leaves requests bounded only by their context.
func (f *ClientFactory) NewHTTPClient(timeout time.Duration) *http.Client {
	client := &http.Client{Timeout: timeout}
	if f.transport != nil {
		client.Transport = f.transport
	}
	return client
}

// ProxyURL returns the configured proxy, or "" for direct connections.
func (f *ClientFactory) ProxyURL() string {
	if f.proxyURL == nil {
		return ""
	}
	return f.proxyURL.Redacted()
}

// newTransportWithProxy uses golang.org/x/net/proxy for SOCKS5 and
// http.ProxyURL for HTTP(S) proxies.
func newTransportWithProxy(parsed *url.URL) (*http.Transport, error) {
	if !strings.HasPrefix(parsed.Scheme, "socks") {
		return &http.Transport{Proxy: http.ProxyURL(parsed)}, nil
	}

	// FromURL takes the credentials from the URL's userinfo.
	dialer, err := proxy.FromURL(parsed, proxy.Direct)
	if err != nil {
		return nil, err
	}
	if cd, ok := dialer.(proxy.ContextDialer); ok {
		return &http.Transport{DialContext: cd.DialContext}, nil
	}
	return &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		},
	}, nil
}
