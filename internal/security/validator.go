// Package security inspects generated WHERE fragments for signs that an inlined
// value escaped its quotes. Predicate values are interpolated, not bound, so a
// value containing a single quote changes the statement; the Validator is an
// opt-in guard against that.
package security

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnsafeFragment is returned when a fragment matches an injection pattern.
var ErrUnsafeFragment = errors.New("unsafe SQL fragment")

// Validator checks SQL fragments against dangerous patterns.
type Validator struct {
	patterns []*regexp.Regexp
}

// dangerousPatterns are matched against the upper-cased fragment.
var dangerousPatterns = []string{
	`--`,                    // line comment
	`/\*`,                   // block comment
	`#\s`,                   // MySQL comment
	`;`,                     // stacked statement
	`\bUNION\s+(ALL\s+)?SELECT\b`,
	`\bOR\s+1\s*=\s*1\b`,
	`\bOR\s+'([^']*)'\s*=\s*'([^']*)'`,
	`\bSLEEP\s*\(`,
	`\bPG_SLEEP\s*\(`,
	`\bBENCHMARK\s*\(`,
	`\bINFORMATION_SCHEMA\b`,
	`\bSQLITE_MASTER\b`,
}

// NewValidator creates a validator with the default pattern set.
func NewValidator() *Validator {
	v := &Validator{patterns: make([]*regexp.Regexp, 0, len(dangerousPatterns))}
	for _, p := range dangerousPatterns {
		v.patterns = append(v.patterns, regexp.MustCompile(p))
	}
	return v
}

// ValidateFragment returns an error wrapping ErrUnsafeFragment when fragment has
// unbalanced single quotes or matches a dangerous pattern.
func (v *Validator) ValidateFragment(fragment string) error {
	if strings.Count(fragment, "'")%2 != 0 {
		return fmt.Errorf("%w: unbalanced quote in %q", ErrUnsafeFragment, fragment)
	}

	upper := strings.ToUpper(stripLiterals(fragment))
	for _, re := range v.patterns {
		if re.MatchString(upper) {
			return fmt.Errorf("%w: %q matches %s", ErrUnsafeFragment, fragment, re.String())
		}
	}
	return nil
}

// stripLiterals blanks the contents of well-formed '...' literals so that values
// like 'semi;colon' are not mistaken for structure. Tautologies built from quoted
// operands keep their quotes and are still detected.
func stripLiterals(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	in := false
	for _, r := range s {
		switch {
		case r == '\'':
			in = !in
			b.WriteRune(r)
		case in:
			b.WriteByte('x')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
