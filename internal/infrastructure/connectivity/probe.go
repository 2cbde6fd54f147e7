// Package connectivity answers whether the hosted chat site is reachable.
package connectivity

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/smartsystems/chatshell/internal/logging"
)

// DefaultTimeout bounds one reachability probe.
const DefaultTimeout = 3 * time.Second

// Probe implements port.ConnectivityChecker with a single TCP dial to the
// site's host. It does not poll.
type Probe struct {
	address string
	dialer  *net.Dialer
}

// NewProbe derives the probe address from siteURL ("https://host/" -> "host:443").
func NewProbe(siteURL string, timeout time.Duration) (*Probe, error) {
	parsed, err := url.Parse(siteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid site url: %w", err)
	}
	if parsed.Hostname() == "" {
		return nil, fmt.Errorf("site url %q has no host", siteURL)
	}

	port := parsed.Port()
	if port == "" {
		switch parsed.Scheme {
		case "http":
			port = "80"
		case "https":
			port = "443"
		default:
			return nil, fmt.Errorf("site url %q needs an explicit port", siteURL)
		}
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Probe{
		address: net.JoinHostPort(parsed.Hostname(), port),
		dialer:  &net.Dialer{Timeout: timeout},
	}, nil
}

// Address returns the host:port being probed.
func (p *Probe) Address() string {
	return p.address
}

// IsConnected reports whether a TCP connection to the site can be opened.
func (p *Probe) IsConnected(ctx context.Context) bool {
	conn, err := p.dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		logging.FromContext(ctx).Debug().Err(err).Str("address", p.address).Msg("site unreachable")
		return false
	}
	_ = conn.Close()
	return true
}
