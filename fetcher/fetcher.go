// Package fetcher fetches documents over the Gemini protocol.
package fetcher

import (
	"bufio"
	"context"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tliron/commonlog"
	"golang.org/x/net/idna"
)

func log() commonlog.Logger { return commonlog.GetLogger("rei.fetcher") }

const (
	// DefaultPort is the Gemini port used when a URL has none.
	DefaultPort = "1965"

	// MaxURLLength is the longest request URL a server must accept.
	MaxURLLength = 1024

	// maxHeaderLength bounds the status line: two digits, a space, the
	// meta and CRLF.
	maxHeaderLength = MaxURLLength + 5
)

// Response is a successfully fetched document.
type Response struct {
	URL       *url.URL // URL after following redirects
	Status    int
	Meta      string
	Body      []byte
	FetchTime time.Duration
}

// Success reports whether the response carries a body.
func (r *Response) Success() bool {
	return r.Status/10 == 2
}

// StatusError is returned for input, failure and certificate statuses.
type StatusError struct {
	URL    *url.URL
	Status int
	Meta   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d %s", e.URL, e.Status, e.Meta)
}

// Options configures the fetcher behavior.
type Options struct {
	TimeoutSeconds int
	MaxRedirects   int
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		TimeoutSeconds: 30,
		MaxRedirects:   5,
	}
}

// Client fetches Gemini URLs. It pins the first certificate seen for each
// host and rejects a different one for the rest of its lifetime.
// A Client is not safe for concurrent use.
type Client struct {
	opts Options
	pins map[string]string // host -> hex SHA-256 of leaf certificate
}

// New creates a client. Zero fields in o take their default.
func New(o Options) *Client {
	d := DefaultOptions()
	if o.TimeoutSeconds > 0 {
		d.TimeoutSeconds = o.TimeoutSeconds
	}
	if o.MaxRedirects > 0 {
		d.MaxRedirects = o.MaxRedirects
	}
	return &Client{opts: d, pins: make(map[string]string)}
}

// Timeout returns the configured timeout duration.
func (c *Client) Timeout() time.Duration {
	return time.Duration(c.opts.TimeoutSeconds) * time.Second
}

// Fetch requests u, following redirects. Statuses other than success are
// returned as *StatusError.
func (c *Client) Fetch(ctx context.Context, u *url.URL) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout())
	defer cancel()

	start := time.Now()
	current := u
	for redirects := 0; ; redirects++ {
		resp, err := c.do(ctx, current)
		if err != nil {
			return nil, err
		}

		switch resp.Status / 10 {
		case 2:
			resp.FetchTime = time.Since(start)
			log().Infof("fetched %s: %d bytes in %s", current, len(resp.Body), resp.FetchTime)
			return resp, nil
		case 3:
			if redirects >= c.opts.MaxRedirects {
				return nil, fmt.Errorf("fetching %s: too many redirects", u)
			}
			next, err := current.Parse(resp.Meta)
			if err != nil {
				return nil, fmt.Errorf("parsing redirect from %s: %w", current, err)
			}
			log().Debugf("redirect %s -> %s", current, next)
			current = next
		default:
			return nil, &StatusError{URL: current, Status: resp.Status, Meta: resp.Meta}
		}
	}
}

// do performs a single request/response exchange.
func (c *Client) do(ctx context.Context, u *url.URL) (*Response, error) {
	if u.Scheme != "gemini" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	host, err := asciiHost(u.Hostname())
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", u, err)
	}
	port := u.Port()
	if port == "" {
		port = DefaultPort
	}

	req := *u
	req.Fragment, req.RawFragment = "", ""
	if u.Port() != "" {
		req.Host = net.JoinHostPort(host, port)
	} else {
		req.Host = host
	}
	line := req.String()
	if len(line) > MaxURLLength {
		return nil, fmt.Errorf("fetching %s: URL longer than %d bytes", u, MaxURLLength)
	}

	dialer := &tls.Dialer{Config: c.tlsConfig(host)}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", u, err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	if _, err := io.WriteString(conn, line+"\r\n"); err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}

	r := bufio.NewReader(conn)
	status, meta, err := readHeader(r)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", u, err)
	}

	resp := &Response{URL: u, Status: status, Meta: meta}
	if resp.Success() {
		body, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading response: %w", err)
		}
		resp.Body = body
	}
	return resp, nil
}

// readHeader parses "<2-digit status> <meta>\r\n".
func readHeader(r *bufio.Reader) (int, string, error) {
	var sb strings.Builder
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, "", fmt.Errorf("malformed header: %w", err)
		}
		if b == '\n' {
			break
		}
		sb.WriteByte(b)
		if sb.Len() > maxHeaderLength {
			return 0, "", errors.New("header too long")
		}
	}

	header := strings.TrimSuffix(sb.String(), "\r")
	if len(header) < 2 {
		return 0, "", fmt.Errorf("malformed header %q", header)
	}
	status, err := strconv.Atoi(header[:2])
	if err != nil || status < 10 {
		return 0, "", fmt.Errorf("malformed status %q", header[:2])
	}
	rest := header[2:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return 0, "", fmt.Errorf("malformed header %q", header)
	}
	return status, strings.TrimSpace(rest), nil
}

// asciiHost converts an internationalised host name for dialing and SNI.
func asciiHost(host string) (string, error) {
	if host == "" {
		return "", errors.New("missing host")
	}
	if net.ParseIP(host) != nil {
		return host, nil
	}
	return idna.Lookup.ToASCII(host)
}

func (c *Client) tlsConfig(host string) *tls.Config {
	return &tls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		// Chains are not verified; VerifyConnection pins the leaf instead.
		InsecureSkipVerify: true,
		VerifyConnection: func(cs tls.ConnectionState) error {
			if len(cs.PeerCertificates) == 0 {
				return errors.New("server sent no certificate")
			}
			return c.checkPin(host, cs.PeerCertificates[0])
		},
	}
}

func (c *Client) checkPin(host string, cert *x509.Certificate) error {
	sum := sha256.Sum256(cert.Raw)
	fp := hex.EncodeToString(sum[:])
	known, ok := c.pins[host]
	if !ok {
		log().Debugf("pinning %s to %s", host, fp)
		c.pins[host] = fp
		return nil
	}
	if known != fp {
		return fmt.Errorf("certificate for %s changed: was %s, now %s", host, known, fp)
	}
	return nil
}
