package fingerprint

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"

	utls "github.com/refraction-networking/utls"
)

// Profile represents a recognized TLS fingerprint profile.
type Profile string

const (
	ProfileChrome  Profile = "chrome"
	ProfileFirefox Profile = "firefox"
	ProfileSafari  Profile = "safari"
	ProfileGo      Profile = "go"     // standard go TLS
	ProfileRandom  Profile = "random" // randomized uTLS profile
)

// Options tunes the returned transport beyond the ClientHello shape.
type Options struct {
	// Proxy, if set, configures the underlying transport's Proxy function.
	Proxy func(*http.Request) (*url.URL, error)
	// InsecureSkipVerify disables certificate verification. The pointer
	// document lives behind hosts with frequently broken chains, so the
	// locator fetches it with verification relaxed.
	InsecureSkipVerify bool
}

// Transport returns an http.RoundTripper configured with the specified
// TLS fingerprint profile. The "go" profile yields a plain http.Transport;
// any other profile wraps the dial path with a utls.UClient handshake so the
// ClientHello matches a real browser.
func Transport(p Profile, opts Options) (http.RoundTripper, error) {
	if p == ProfileGo {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if opts.Proxy != nil {
			transport.Proxy = opts.Proxy
		}
		if opts.InsecureSkipVerify {
			if transport.TLSClientConfig == nil {
				transport.TLSClientConfig = &tls.Config{}
			}
			transport.TLSClientConfig.InsecureSkipVerify = true
		}
		return transport, nil
	}

	var clientHelloID utls.ClientHelloID
	switch p {
	case ProfileChrome:
		clientHelloID = utls.HelloChrome_Auto
	case ProfileFirefox:
		clientHelloID = utls.HelloFirefox_Auto
	case ProfileSafari:
		clientHelloID = utls.HelloIOS_Auto
	case ProfileRandom:
		clientHelloID = utls.HelloRandomizedALPN
	default:
		return nil, fmt.Errorf("fingerprint: unknown profile %q", p)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.Proxy != nil {
		transport.Proxy = opts.Proxy
	}

	// Wrap the standard TCP dialer and perform the uTLS handshake ourselves.
	transport.DialTLSContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		tcpConn, err := transport.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}

		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			host = addr // fallback if no port
		}

		cfg := &utls.Config{ServerName: host, InsecureSkipVerify: opts.InsecureSkipVerify}
		uConn := utls.UClient(tcpConn, cfg, clientHelloID)
		if err := uConn.HandshakeContext(ctx); err != nil {
			_ = tcpConn.Close()
			return nil, fmt.Errorf("fingerprint: utls handshake failed: %w", err)
		}

		return uConn, nil
	}

	return transport, nil
}
