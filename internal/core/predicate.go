package core

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
)

// Criteria describes a WHERE predicate: either a Hash of column values or a Raw
// fragment.
type Criteria interface {
	buildWhere() (string, error)
}

// Hash is a column -> value predicate. Pairs are rendered in sorted key order and
// joined with AND.
//
// Values are inlined, not bound:
//   - strings, []byte and time.Time are wrapped in single quotes with NO escaping;
//     a value containing ' changes the statement
//   - nil renders NULL, so col = NULL never matches
//   - bools render TRUE or FALSE
//   - pointers are dereferenced and driver.Valuer values render their Value
//   - numbers and anything else render with %v
//
// Use WithPredicateAudit, bound queries (FindBySQL) or trusted values.
type Hash map[string]any

// Raw is a trusted WHERE fragment used verbatim.
type Raw string

func (h Hash) buildWhere() (string, error) {
	if len(h) == 0 {
		return "", ErrEmptyCriteria
	}

	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		lit, err := literal(h[k])
		if err != nil {
			return "", fmt.Errorf("sqlobject: value for %s: %w", k, err)
		}
		parts[i] = k + " = " + lit
	}
	return strings.Join(parts, " AND "), nil
}

func (r Raw) buildWhere() (string, error) {
	s := strings.TrimSpace(string(r))
	if s == "" {
		return "", ErrEmptyCriteria
	}
	return s, nil
}

// BuildWhere renders criteria as a SQL boolean fragment. The result is never
// empty; empty criteria return ErrEmptyCriteria.
func BuildWhere(criteria Criteria) (string, error) {
	if criteria == nil {
		return "", ErrEmptyCriteria
	}
	return criteria.buildWhere()
}

// Literal renders v the way Hash inlines it. Pointers are dereferenced and
// driver.Valuer values render as the value they report. A nil pointer renders
// NULL, as does a Valuer that fails; Hash reports that failure instead.
func Literal(v any) string {
	lit, err := literal(v)
	if err != nil {
		return "NULL"
	}
	return lit
}

func literal(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "NULL", nil
	case string:
		return "'" + x + "'", nil
	case []byte:
		return "'" + string(x) + "'", nil
	case time.Time:
		return "'" + x.Format(time.RFC3339) + "'", nil
	case bool:
		if x {
			return "TRUE", nil
		}
		return "FALSE", nil
	case driver.Valuer:
		if rv := reflect.ValueOf(x); rv.Kind() == reflect.Ptr && rv.IsNil() {
			return "NULL", nil
		}
		dv, err := x.Value()
		if err != nil {
			return "", err
		}
		return literal(dv)
	default:
		rv := reflect.ValueOf(x)
		if rv.Kind() == reflect.Ptr {
			if rv.IsNil() {
				return "NULL", nil
			}
			return literal(rv.Elem().Interface())
		}
		return fmt.Sprintf("%v", x), nil
	}
}

// where builds criteria for use against the database, applying the predicate
// audit when enabled.
func (db *DB) where(criteria Criteria) (string, error) {
	fragment, err := BuildWhere(criteria)
	if err != nil {
		return "", err
	}
	if db.validator == nil {
		return fragment, nil
	}
	if err := db.validator.ValidateFragment(fragment); err != nil {
		return "", errors.Join(ErrUnsafePredicate, err)
	}
	return fragment, nil
}
