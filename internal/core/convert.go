package core

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// String returns column rendered as text; "" when nil.
func (r *Record) String(column string) string {
	switch v := r.Get(column).(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(v)
	}
}

// Int64 returns column as an integer; 0 when nil or not numeric.
func (r *Record) Int64(column string) int64 {
	n, _ := toInt64(r.Get(column))
	return n
}

// Float64 returns column as a float; 0 when nil or not numeric.
func (r *Record) Float64(column string) float64 {
	switch v := r.Get(column).(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		n, _ := toInt64(v)
		return float64(n)
	}
}

// Bool returns column as a boolean. Integers are true when non-zero.
func (r *Record) Bool(column string) bool {
	switch v := r.Get(column).(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		n, _ := toInt64(v)
		return n != 0
	}
}

// Time returns column as a time; the zero time when nil or unparseable.
func (r *Record) Time(column string) time.Time {
	switch v := r.Get(column).(type) {
	case time.Time:
		return v
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999", "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int16:
		return int64(n), true
	case int8:
		return int64(n), true
	case uint:
		return int64(n), true
	case uint64:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint8:
		return int64(n), true
	case float64:
		if n == math.Trunc(n) {
			return int64(n), true
		}
	case float32:
		if float64(n) == math.Trunc(float64(n)) {
			return int64(n), true
		}
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	}
	return 0, false
}
