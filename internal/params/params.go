// Package params holds the session parameter snapshot (secret, digits,
// period) and the loaders that pre-fill it from URIs and raw input.
package params

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Set is an immutable snapshot of the three values a stream session is keyed by.
type Set struct {
	Secret string
	Digits string
	Period int
}

// FromInput builds a Set from raw field values. A period that does not parse
// as an integer becomes 0, which makes the set invalid.
func FromInput(secret, digits, period string) Set {
	return Set{
		Secret: secret,
		Digits: digits,
		Period: parsePeriod(period),
	}
}

func parsePeriod(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// Valid reports whether a session may be opened for s.
func (s Set) Valid() bool {
	return strings.TrimSpace(s.Secret) != "" &&
		strings.TrimSpace(s.Digits) != "" &&
		s.Period > 0
}

// Query renders s as stream endpoint query values.
func (s Set) Query() url.Values {
	v := url.Values{}
	v.Set("secret", s.Secret)
	v.Set("digits", s.Digits)
	v.Set("period", strconv.Itoa(s.Period))
	return v
}

// PeriodString returns the period as it would appear in an input field;
// zero renders as the empty string.
func (s Set) PeriodString() string {
	if s.Period == 0 {
		return ""
	}
	return strconv.Itoa(s.Period)
}

// String never includes the secret.
func (s Set) String() string {
	return fmt.Sprintf("digits=%s period=%d", s.Digits, s.Period)
}

// Overlay returns s with every non-empty field of o copied over it.
func (s Set) Overlay(o Set) Set {
	if o.Secret != "" {
		s.Secret = o.Secret
	}
	if o.Digits != "" {
		s.Digits = o.Digits
	}
	if o.Period != 0 {
		s.Period = o.Period
	}
	return s
}

// FromURI extracts parameters from an otpauth:// key URI or from any URL
// whose query carries secret, digits and period. Missing values are left
// empty so the result can be overlaid on defaults.
func FromURI(raw string) (Set, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Set{}, fmt.Errorf("parse uri: %w", err)
	}
	if u.Scheme == "otpauth" && u.Host != "totp" {
		return Set{}, fmt.Errorf("unsupported otpauth type %q", u.Host)
	}
	q := u.Query()
	return Set{
		Secret: q.Get("secret"),
		Digits: q.Get("digits"),
		Period: parsePeriod(q.Get("period")),
	}, nil
}
