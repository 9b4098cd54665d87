package validation

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/net/idna"

	errpkg "github.com/veranemoloko/tinyshare/internal/errors"
)

// MaxURLLength bounds the candidates accepted for shortening, in bytes.
const MaxURLLength = 2048

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("shortenable_url", validateShortenableURL)
}

// URLValidator decides whether a string is a URL worth shortening.
type URLValidator struct{}

// NewURLValidator returns a validator backed by the package rule set.
func NewURLValidator() *URLValidator {
	return &URLValidator{}
}

// IsValidURL reports whether candidate is an absolute http(s) URL with a well-formed host.
func (URLValidator) IsValidURL(candidate string) bool {
	return IsValidURL(candidate)
}

// IsValidURL reports whether candidate is an absolute http(s) URL with a well-formed host.
func IsValidURL(candidate string) bool {
	return ValidateURL(candidate) == nil
}

// ValidateURL is IsValidURL with the reason attached.
func ValidateURL(candidate string) error {
	if err := validate.Var(candidate, "required,shortenable_url"); err != nil {
		return fmt.Errorf("%w %q: %v", errpkg.ErrInvalidURL, candidate, err)
	}
	return nil
}

func validateShortenableURL(fl validator.FieldLevel) bool {
	urlStr := fl.Field().String()

	if len(urlStr) > MaxURLLength {
		return false
	}

	if strings.TrimSpace(urlStr) != urlStr || strings.ContainsAny(urlStr, "\r\n") {
		return false
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	if u.Host == "" || u.Opaque != "" {
		return false
	}

	host := u.Hostname()
	if host == "" {
		return false
	}

	if ip := net.ParseIP(host); ip != nil {
		return true
	}

	return validHostname(host)
}

// validHostname accepts RFC 1123 names, with a single trailing dot,
// underscores inside labels and internationalized labels in Unicode form.
func validHostname(host string) bool {
	host = strings.TrimSuffix(host, ".")

	if strings.Trim(host, "0123456789.") == "" {
		// Looks like IPv4 but net.ParseIP refused it.
		return false
	}

	if !isASCII(host) {
		ascii, err := idna.Lookup.ToASCII(host)
		if err != nil {
			return false
		}
		host = ascii
	}

	return validate.Var(strings.ReplaceAll(host, "_", "x"), "hostname_rfc1123") == nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
