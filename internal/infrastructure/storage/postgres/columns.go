package postgres

import (
	"reflect"
	"slices"
	"sync"
)

var columnCache sync.Map // map[reflect.Type][]columnField

type columnField struct {
	index []int
	name  string
}

// DBColumns returns the "db" tag names of T, embedded structs included,
// in declaration order.
func DBColumns[T any]() []string {
	fields := columnFields(reflect.TypeFor[T]())
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.name
	}
	return cols
}

// ColumnValues maps the "db" tags of v to their values, skipping omit.
func ColumnValues(v any, omit ...string) map[string]any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	fields := columnFields(rv.Type())
	res := make(map[string]any, len(fields))
	for _, f := range fields {
		if slices.Contains(omit, f.name) {
			continue
		}
		res[f.name] = rv.FieldByIndex(f.index).Interface()
	}
	return res
}

func columnFields(t reflect.Type) []columnField {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if cached, ok := columnCache.Load(t); ok {
		return cached.([]columnField)
	}

	var fields []columnField
	if t.Kind() == reflect.Struct {
		fields = collectFields(t, nil)
	}
	columnCache.Store(t, fields)
	return fields
}

func collectFields(t reflect.Type, parent []int) []columnField {
	var fields []columnField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		index := append(slices.Clone(parent), i)

		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			fields = append(fields, collectFields(f.Type, index)...)
			continue
		}

		tag := f.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		fields = append(fields, columnField{index: index, name: tag})
	}
	return fields
}
