package auth

import (
	"strings"

	apperrors "wbprivacy/pkg/errors"
)

// xsrfCookieName is the cookie field carrying the anti-forgery token the
// mutation endpoint requires in the X-Xsrf-Token header.
const xsrfCookieName = "XSRF-TOKEN"

// Session holds the raw cookie and the anti-forgery token derived from it.
// It is built once at startup and stays immutable for the run.
type Session struct {
	RawCookie string
	XSRFToken string
}

// DeriveSession extracts the XSRF token from a raw cookie string. The
// cookie is split on semicolons and commas; the matching field's value is
// returned verbatim, including any '=' characters it contains. A missing
// or empty token is a fatal configuration error since no mutation call
// can succeed without it.
func DeriveSession(cookie string) (*Session, error) {
	trimmed := strings.TrimSpace(cookie)
	if trimmed == "" {
		return nil, apperrors.New(apperrors.ErrorTypeConfig, "cookie is empty")
	}

	fields := strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == ';' || r == ','
	})

	for _, field := range fields {
		name, value, found := strings.Cut(strings.TrimSpace(field), "=")
		if !found || name != xsrfCookieName {
			continue
		}
		if value == "" {
			return nil, apperrors.Newf(apperrors.ErrorTypeConfig,
				"cookie field %s is empty", xsrfCookieName)
		}
		return &Session{RawCookie: trimmed, XSRFToken: value}, nil
	}

	return nil, apperrors.Newf(apperrors.ErrorTypeConfig,
		"cookie does not contain an %s field; copy the full cookie header from a logged-in browser session", xsrfCookieName)
}
