// Package fetcher wraps the HTTP clients used to mirror remote assets.
package fetcher

import (
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// The legacy asset host rejects requests without a browser User-Agent.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

type Fetcher struct {
	client         *http.Client
	insecureClient *http.Client
	insecureHosts  []string
	logger         *slog.Logger
}

// New builds a Fetcher. Hosts matching a suffix in insecureHosts are fetched
// through a dedicated client with TLS verification disabled; this is a
// narrow exception for the known-broken certificate chain of the asset host,
// never a global downgrade.
func New(timeout time.Duration, insecureHosts []string, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		insecureClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		insecureHosts: insecureHosts,
		logger:        logger,
	}
}

// Get fetches a URL and returns the response body. Every use of the insecure
// client is logged at Warn.
func (f *Fetcher) Get(rawURL string) ([]byte, error) {
	client := f.client
	if host := HostOf(rawURL); host != "" && matchesAny(host, f.insecureHosts) {
		f.logger.Warn("fetching with TLS verification disabled", "url", rawURL, "host", host)
		client = f.insecureClient
	}

	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch %s, status code: %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// HostOf returns the hostname of a URL, or "" if it cannot be parsed.
func HostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// MatchesHost reports whether the URL's host equals, or is a subdomain of,
// the given host suffix.
func MatchesHost(rawURL, suffix string) bool {
	host := HostOf(rawURL)
	return host != "" && matchesAny(host, []string{suffix})
}

func matchesAny(host string, suffixes []string) bool {
	for _, s := range suffixes {
		if s == "" {
			continue
		}
		if host == s || strings.HasSuffix(host, "."+s) {
			return true
		}
	}
	return false
}
