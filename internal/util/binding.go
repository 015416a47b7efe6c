// Package util maps between tagged Go structs and column/value attribute maps.
//
// Field rules follow the db tag convention:
//   - db:"column" or db:"column,pk" maps the field to column
//   - db:"-" skips the field
//   - untagged exported fields map to the snake_case field name
//   - embedded structs are flattened
package util

import (
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
)

// Field describes one struct field bound to a column.
type Field struct {
	Column string
	Index  []int
	Type   reflect.Type
}

var fieldCache sync.Map // reflect.Type -> []Field

// Fields returns the column-bound fields of struct type typ, cached per type.
func Fields(typ reflect.Type) ([]Field, error) {
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("util: expected struct, got %s", typ.Kind())
	}
	if cached, ok := fieldCache.Load(typ); ok {
		return cached.([]Field), nil
	}

	fields := collectFields(typ, nil)
	actual, _ := fieldCache.LoadOrStore(typ, fields)
	return actual.([]Field), nil
}

func collectFields(typ reflect.Type, index []int) []Field {
	var fields []Field
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}
		idx := append(append([]int{}, index...), i)

		tag, hasTag := sf.Tag.Lookup("db")
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct && !hasTag {
			fields = append(fields, collectFields(sf.Type, idx)...)
			continue
		}

		column := SnakeCase(sf.Name)
		if hasTag {
			name, _, _ := strings.Cut(tag, ",")
			name = strings.TrimSpace(name)
			if name == "-" {
				continue
			}
			if name != "" {
				column = name
			}
		}
		fields = append(fields, Field{Column: column, Index: idx, Type: sf.Type})
	}
	return fields
}

// SnakeCase converts a Go identifier to snake_case ("OwnerID" -> "owner_id").
func SnakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(name) + 4)
	for i, r := range runes {
		if 'A' <= r && r <= 'Z' {
			prevLower := i > 0 && !('A' <= runes[i-1] && runes[i-1] <= 'Z') && runes[i-1] != '_'
			nextLower := i > 0 && i+1 < len(runes) && 'a' <= runes[i+1] && runes[i+1] <= 'z'
			if prevLower || (nextLower && runes[i-1] != '_') {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// StructToMap converts a struct (or pointer to struct) into column/value pairs.
// Zero values are included. Nil pointer fields become nil.
func StructToMap(src any) (map[string]any, error) {
	v := reflect.ValueOf(src)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, errors.New("util: nil pointer")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("util: expected struct, got %s", v.Kind())
	}

	fields, err := Fields(v.Type())
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		fv := v.FieldByIndex(f.Index)
		if fv.Kind() == reflect.Ptr {
			if fv.IsNil() {
				out[f.Column] = nil
				continue
			}
			fv = fv.Elem()
		}
		out[f.Column] = fv.Interface()
	}
	return out, nil
}

// AssignMap copies values from attrs into the matching fields of dest, which must
// be a non-nil pointer to a struct. Columns without a field are ignored.
func AssignMap(dest any, attrs map[string]any) error {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("util: dest must be a non-nil pointer to struct, got %T", dest)
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("util: dest must be a non-nil pointer to struct, got %T", dest)
	}

	fields, err := Fields(v.Type())
	if err != nil {
		return err
	}
	for _, f := range fields {
		value, ok := attrs[f.Column]
		if !ok {
			continue
		}
		if err := assign(v.FieldByIndex(f.Index), value); err != nil {
			return fmt.Errorf("util: column %q: %w", f.Column, err)
		}
	}
	return nil
}

var (
	scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()
	timeType    = reflect.TypeOf(time.Time{})
)

func assign(field reflect.Value, value any) error {
	if field.CanAddr() && field.Addr().Type().Implements(scannerType) {
		return field.Addr().Interface().(sql.Scanner).Scan(value)
	}

	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	if field.Kind() == reflect.Ptr {
		elem := reflect.New(field.Type().Elem())
		if err := assign(elem.Elem(), value); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}

	if b, ok := value.([]byte); ok {
		value = string(b)
	}

	src := reflect.ValueOf(value)
	switch {
	case src.Type().AssignableTo(field.Type()):
		field.Set(src)
		return nil
	case field.Type() == timeType:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("cannot assign %T to time.Time", value)
		}
		ts, err := parseTime(s)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(ts))
		return nil
	case isNumeric(src.Kind()) && isNumeric(field.Kind()):
		field.Set(src.Convert(field.Type()))
		return nil
	case field.Kind() == reflect.Bool && isNumeric(src.Kind()):
		field.SetBool(!src.IsZero())
		return nil
	case field.Kind() == reflect.String && src.Kind() == reflect.String:
		field.SetString(src.String())
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as time", s)
}

// IsZeroID reports whether v should be treated as an absent primary key.
func IsZeroID(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		return rv.IsNil()
	}
	return rv.IsZero()
}
