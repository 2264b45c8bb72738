package model

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidURL is returned by NormalizeURL when the input cannot be turned
// into an absolute http/https URL.
var ErrInvalidURL = errors.New("invalid link url")

// Link is a single bookmark. CategoryID is empty for uncategorized links;
// a non-empty CategoryID references a Category owned by the same user, but
// that relationship is enforced by the backend, not here.
type Link struct {
	ID         string
	Name       string
	URL        string
	CategoryID string
	OwnerID    string
}

// NormalizeURL reduces user input to an absolute http/https URL. Bare hosts
// ("example.com") get an https scheme prepended. Anything that does not
// parse to a URL with a host, or that carries a non-web scheme, is rejected.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidURL)
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	return u.String(), nil
}
