package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModels renders one INSERT for a batch of db-tagged structs.
// Fields tagged `db:"-"`, untagged or unexported are skipped.
func InsertModels[T any](table string, models []T, suffix string) (string, []any, error) {
	if len(models) == 0 {
		return "", nil, fmt.Errorf("insert %s: no models", table)
	}

	columns, fields, err := dbFields(reflect.TypeFor[T]())
	if err != nil {
		return "", nil, fmt.Errorf("insert %s: %w", table, err)
	}

	rows := make([][]any, len(models))
	for i := range models {
		v := reflect.ValueOf(&models[i]).Elem()
		row := make([]any, len(fields))
		for j, idx := range fields {
			row[j] = v.Field(idx).Interface()
		}
		rows[i] = row
	}
	return insert(table, columns, rows, suffix)
}

func dbFields(t reflect.Type) ([]string, []int, error) {
	if t.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model %s is not a struct", t)
	}

	var (
		columns []string
		fields  []int
	)
	for i := range t.NumField() {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("db"), ",")
		name = strings.TrimSpace(name)
		if !f.IsExported() || name == "" || name == "-" {
			continue
		}
		columns = append(columns, name)
		fields = append(fields, i)
	}
	if len(columns) == 0 {
		return nil, nil, fmt.Errorf("model %s has no db columns", t)
	}
	return columns, fields, nil
}
