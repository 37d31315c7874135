package validation

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ServerURLValidator checks the base URL of a Quasarr instance. Local and
// private hosts are the normal case, so unlike a public feed URL nothing
// is blocked by address.
type ServerURLValidator struct {
	// MaxLength is the maximum allowed URL length
	MaxLength int
	// DefaultScheme is prepended when the input has none
	DefaultScheme string
}

func NewServerURLValidator() *ServerURLValidator {
	return &ServerURLValidator{
		MaxLength:     2048,
		DefaultScheme: "http",
	}
}

// ValidateAndNormalize returns the URL without a trailing slash, query or
// fragment, ready to have /api appended.
func (v *ServerURLValidator) ValidateAndNormalize(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}
	if len(input) > v.MaxLength {
		return "", fmt.Errorf("URL too long (max %d characters)", v.MaxLength)
	}
	if strings.ContainsAny(input, "<>\"'` ") {
		return "", fmt.Errorf("URL contains invalid characters")
	}

	if !strings.Contains(input, "://") {
		input = v.DefaultScheme + "://" + input
	}

	parsedURL, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return "", fmt.Errorf("URL must use http or https protocol")
	}
	if parsedURL.Host == "" {
		return "", fmt.Errorf("URL must have a valid hostname")
	}
	if err := validatePort(parsedURL.Host); err != nil {
		return "", err
	}
	if parsedURL.RawQuery != "" || parsedURL.Fragment != "" {
		return "", fmt.Errorf("URL must not carry a query or fragment")
	}
	if strings.Contains(parsedURL.Path, "..") {
		return "", fmt.Errorf("directory traversal patterns not allowed in URL path")
	}

	parsedURL.Path = strings.TrimRight(parsedURL.Path, "/")
	parsedURL.RawPath = ""
	return parsedURL.String(), nil
}

func validatePort(host string) error {
	if !strings.Contains(host, ":") || strings.HasSuffix(host, "]") {
		return nil
	}
	_, port, err := net.SplitHostPort(host)
	if err != nil {
		return fmt.Errorf("invalid host format: %w", err)
	}
	if port == "" {
		return fmt.Errorf("empty port")
	}
	for _, c := range port {
		if c < '0' || c > '9' {
			return fmt.Errorf("invalid port %q", port)
		}
	}
	return nil
}

// IsWebURL reports whether s is an absolute http(s) URL, the only kind the
// launcher hands to the desktop.
func IsWebURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
