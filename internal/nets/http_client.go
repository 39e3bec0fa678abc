package nets

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"
)

// Dialer is what http.Transport needs from a dialer.
type Dialer interface {
	Dial(network, addr string) (net.Conn, error)
	DialContext(ctx context.Context, network, addr string) (net.Conn, error)
}

type DialerFunc func(context.Context, string, string) (net.Conn, error)

var _ Dialer = DialerFunc(nil)

func (d DialerFunc) DialContext(ctx context.Context, network string, addr string) (net.Conn, error) {
	return d(ctx, network, addr)
}

func (d DialerFunc) Dial(network string, addr string) (net.Conn, error) {
	return d(context.Background(), network, addr)
}

// NewHTTPClient returns a client that reaches non-local hosts through
// proxyAddr when it is set. http and https proxies go through the transport's
// Proxy hook, socks proxies through the dialer. Loopback and private
// addresses are always reached directly.
func NewHTTPClient(proxyAddr string) (*http.Client, error) {
	transport := &http.Transport{
		TLSHandshakeTimeout: 10 * time.Second,
		IdleConnTimeout:     90 * time.Second,
	}
	u, err := parseProxyAddr(proxyAddr)
	if err != nil {
		return nil, err
	}
	switch {
	case u == nil:
		transport.DialContext = directDialer().DialContext
	case u.Scheme == "http" || u.Scheme == "https":
		transport.DialContext = directDialer().DialContext
		transport.Proxy = func(req *http.Request) (*url.URL, error) {
			if IsLocalAddr(req.URL.Host) {
				return nil, nil
			}
			return u, nil
		}
	default:
		dialer, err := NewDialer(u)
		if err != nil {
			return nil, err
		}
		transport.DialContext = dialer.DialContext
	}
	return &http.Client{Transport: transport}, nil
}

func parseProxyAddr(proxyAddr string) (*url.URL, error) {
	if proxyAddr == "" {
		return nil, nil
	}
	u, err := url.Parse(proxyAddr)
	if err != nil {
		return nil, fmt.Errorf("parse proxy address: %w", err)
	}
	if u.Scheme == "socks" {
		u.Scheme = "socks5"
	}
	return u, nil
}

func directDialer() *net.Dialer {
	return &net.Dialer{Timeout: 30 * time.Second}
}

// NewDialer returns a dialer that goes through the socks proxy at u for
// non-local addresses.
func NewDialer(u *url.URL) (Dialer, error) {
	direct := directDialer()
	if u == nil {
		return direct, nil
	}
	pd, err := proxy.FromURL(u, direct)
	if err != nil {
		return nil, fmt.Errorf("proxy dialer: %w", err)
	}
	viaProxy, ok := pd.(Dialer)
	if !ok {
		return nil, fmt.Errorf("proxy dialer for %s cannot dial with context", u.Scheme)
	}
	return DialerFunc(func(ctx context.Context, network, addr string) (net.Conn, error) {
		if IsLocalAddr(addr) {
			return direct.DialContext(ctx, network, addr)
		}
		return viaProxy.DialContext(ctx, network, addr)
	}), nil
}

// IsLocalAddr reports whether addr resolves to a loopback or private address.
// Lookup failures count as non-local so the proxy is used for unknown hosts.
func IsLocalAddr(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}
	ips, err := net.LookupIP(host)
	if err != nil {
		return false
	}
	for _, ip := range ips {
		if ip.IsLoopback() || ip.IsPrivate() {
			return true
		}
	}
	return false
}
