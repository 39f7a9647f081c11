package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModel builds an INSERT for every db-tagged exported field of model,
// in declaration order. Fields tagged "-" or untagged are skipped. suffix
// is appended verbatim (typically an ON CONFLICT clause).
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	v := reflect.ValueOf(model)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return "", nil, fmt.Errorf("model cannot be nil")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return "", nil, fmt.Errorf("model must be struct")
	}

	t := v.Type()
	cols := make([]string, 0, t.NumField())
	vals := make([]any, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}
		col := dbColumn(field.Tag.Get("db"))
		if col == "" {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, v.Field(i).Interface())
	}
	if len(cols) == 0 {
		return "", nil, fmt.Errorf("model has no db columns")
	}

	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		Suffix(suffix).
		ToSQL()
}

// dbColumn returns the column name from a db struct tag, "" when the field
// should be skipped.
func dbColumn(tag string) string {
	name, _, _ := strings.Cut(strings.TrimSpace(tag), ",")
	name = strings.TrimSpace(name)
	if name == "-" {
		return ""
	}
	return name
}
