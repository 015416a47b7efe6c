package logger

import (
	"fmt"
	"regexp"
	"strings"
)

// Mask replaces sensitive values in log output.
const Mask = "***REDACTED***"

// DefaultSensitiveColumns are masked when no explicit list is configured.
var DefaultSensitiveColumns = []string{
	"password", "password_digest", "passwd",
	"token", "session_token", "api_key", "secret",
	"credit_card", "card_number", "cvv", "ssn",
}

// Sanitizer masks values bound to sensitive columns before they reach a log line.
//
// Records know which column every bound argument belongs to, so arguments are masked
// by column name. Predicates render their values inline (col = 'value'), so the SQL
// text is masked as well.
type Sanitizer struct {
	columns map[string]bool
	inline  *regexp.Regexp
}

// NewSanitizer creates a sanitizer for the given column names.
// A list with no non-blank names selects DefaultSensitiveColumns.
func NewSanitizer(columns []string) *Sanitizer {
	set, alts := normalizeColumns(columns)
	if len(alts) == 0 {
		set, alts = normalizeColumns(DefaultSensitiveColumns)
	}

	// matches `<col> = 'literal'` or `<col> = 123`, optionally table-qualified
	inline := regexp.MustCompile(`(?i)\b((?:\w+\.)?(?:` + strings.Join(alts, "|") + `)\s*=\s*)('[^']*'|[^\s,)]+)`)

	return &Sanitizer{columns: set, inline: inline}
}

func normalizeColumns(columns []string) (map[string]bool, []string) {
	set := make(map[string]bool, len(columns))
	alts := make([]string, 0, len(columns))
	for _, c := range columns {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" || set[c] {
			continue
		}
		set[c] = true
		alts = append(alts, regexp.QuoteMeta(c))
	}
	return set, alts
}

// Sensitive reports whether column is configured as sensitive.
func (s *Sanitizer) Sensitive(column string) bool {
	return s.columns[strings.ToLower(column)]
}

// MaskArgs returns a copy of args where every argument bound to a sensitive column
// is replaced by Mask. columns[i] names the column args[i] is bound to; arguments
// beyond len(columns) are left untouched.
func (s *Sanitizer) MaskArgs(columns []string, args []any) []any {
	if len(args) == 0 {
		return args
	}
	masked := make([]any, len(args))
	copy(masked, args)
	for i := range masked {
		if i < len(columns) && s.Sensitive(columns[i]) {
			masked[i] = Mask
		}
	}
	return masked
}

// MaskSQL masks literals compared against sensitive columns in sql.
func (s *Sanitizer) MaskSQL(sql string) string {
	return s.inline.ReplaceAllString(sql, "${1}'"+Mask+"'")
}

// FormatArgs renders arguments for a log line, truncating long values.
func (s *Sanitizer) FormatArgs(args []any) string {
	if len(args) == 0 {
		return "[]"
	}

	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = formatValue(a)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	str := fmt.Sprintf("%v", v)

	const maxLen = 100
	if len(str) > maxLen {
		return str[:maxLen] + "..."
	}
	return str
}
