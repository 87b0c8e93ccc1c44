package avro

import (
	"reflect"

	hambavro "github.com/hamba/avro/v2"
)

// unwrapUnions walks a decoded value alongside its schema and replaces union
// values of the form map[string]any{typeName: value} with the bare value.
// With keepRecordName, record members of a union stay wrapped.
func unwrapUnions(s hambavro.Schema, value any, keepRecordName bool) any {
	if value == nil {
		return nil
	}

	switch sch := s.(type) {
	case *hambavro.RefSchema:
		return unwrapUnions(sch.Schema(), value, keepRecordName)

	case *hambavro.RecordSchema:
		record, ok := value.(map[string]any)
		if !ok {
			return value
		}
		for _, field := range sch.Fields() {
			if fieldValue, exists := record[field.Name()]; exists {
				record[field.Name()] = unwrapUnions(field.Type(), fieldValue, keepRecordName)
			}
		}
		return record

	case *hambavro.ArraySchema:
		items, ok := value.([]any)
		if !ok {
			return value
		}
		for i, item := range items {
			items[i] = unwrapUnions(sch.Items(), item, keepRecordName)
		}
		return items

	case *hambavro.MapSchema:
		values, ok := value.(map[string]any)
		if !ok {
			return value
		}
		for k, v := range values {
			values[k] = unwrapUnions(sch.Values(), v, keepRecordName)
		}
		return values

	case *hambavro.UnionSchema:
		wrapped, ok := value.(map[string]any)
		if !ok || len(wrapped) != 1 {
			return value
		}
		for name, inner := range wrapped {
			member, _ := sch.Types().Get(name)
			if member == nil {
				return value
			}
			inner = unwrapUnions(member, inner, keepRecordName)
			if _, isRecord := resolveRef(member).(*hambavro.RecordSchema); isRecord && keepRecordName {
				return map[string]any{name: inner}
			}
			return inner
		}
	}

	return value
}

// wrapUnions is the inverse of unwrapUnions. It copies maps and slices on the
// way down and leaves the caller's value untouched.
//
// A union value that is already a single-entry map keyed by a member name is
// kept as is. Otherwise the first member, in declaration order, that accepts
// the Go value is chosen; records are matched by field names. Values no member
// accepts, structs included, are passed through for hamba/avro to resolve.
func wrapUnions(s hambavro.Schema, value any) any {
	if value == nil {
		return nil
	}

	switch sch := s.(type) {
	case *hambavro.RefSchema:
		return wrapUnions(sch.Schema(), value)

	case *hambavro.RecordSchema:
		record, ok := value.(map[string]any)
		if !ok {
			return value
		}
		out := make(map[string]any, len(record))
		for k, v := range record {
			out[k] = v
		}
		for _, field := range sch.Fields() {
			if fieldValue, exists := out[field.Name()]; exists {
				out[field.Name()] = wrapUnions(field.Type(), fieldValue)
			}
		}
		return out

	case *hambavro.ArraySchema:
		items, ok := value.([]any)
		if !ok {
			return value
		}
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = wrapUnions(sch.Items(), item)
		}
		return out

	case *hambavro.MapSchema:
		values, ok := value.(map[string]any)
		if !ok {
			return value
		}
		out := make(map[string]any, len(values))
		for k, v := range values {
			out[k] = wrapUnions(sch.Values(), v)
		}
		return out

	case *hambavro.UnionSchema:
		if wrapped, ok := value.(map[string]any); ok && len(wrapped) == 1 {
			for name, inner := range wrapped {
				if member, _ := sch.Types().Get(name); member != nil {
					return map[string]any{name: wrapUnions(member, inner)}
				}
			}
		}
		for _, member := range sch.Types() {
			if accepts(member, value) {
				return map[string]any{memberName(member): wrapUnions(member, value)}
			}
		}
	}

	return value
}

// accepts reports whether value is the generic form of member.
// Logical types are left to hamba/avro.
func accepts(member hambavro.Schema, value any) bool {
	member = resolveRef(member)
	if logical, ok := member.(hambavro.LogicalTypeSchema); ok && logical.Logical() != nil {
		return false
	}

	typ := member.Type()
	switch v := value.(type) {
	case bool:
		return typ == hambavro.Boolean
	case int, int32:
		return typ == hambavro.Int || typ == hambavro.Long
	case int8, int16, uint8, uint16:
		return typ == hambavro.Int
	case int64, uint32:
		return typ == hambavro.Long
	case float32:
		return typ == hambavro.Float || typ == hambavro.Double
	case float64:
		return typ == hambavro.Double
	case string:
		if enum, ok := member.(*hambavro.EnumSchema); ok {
			return hasSymbol(enum, v)
		}
		return typ == hambavro.String
	case []byte:
		if fixed, ok := member.(*hambavro.FixedSchema); ok {
			return fixed.Size() == len(v)
		}
		return typ == hambavro.Bytes
	case []any:
		return typ == hambavro.Array
	case map[string]any:
		if record, ok := member.(*hambavro.RecordSchema); ok {
			return hasFields(record, v)
		}
		return typ == hambavro.Map
	}

	// Fixed values are read back as [size]byte.
	if fixed, ok := member.(*hambavro.FixedSchema); ok {
		rv := reflect.ValueOf(value)
		return rv.Kind() == reflect.Array && rv.Type().Elem().Kind() == reflect.Uint8 && rv.Len() == fixed.Size()
	}
	return false
}

// hasFields reports whether every key of m is a field of record and every
// field without a default is present.
func hasFields(record *hambavro.RecordSchema, m map[string]any) bool {
	known := 0
	for _, field := range record.Fields() {
		if _, ok := m[field.Name()]; ok {
			known++
			continue
		}
		if !field.HasDefault() {
			return false
		}
	}
	return known == len(m)
}

func hasSymbol(enum *hambavro.EnumSchema, symbol string) bool {
	for _, s := range enum.Symbols() {
		if s == symbol {
			return true
		}
	}
	return false
}

// memberName is the key hamba/avro uses for a union member: the full name of
// named types, otherwise the type with an optional ".logicalType" suffix.
func memberName(member hambavro.Schema) string {
	member = resolveRef(member)
	if named, ok := member.(hambavro.NamedSchema); ok {
		return named.FullName()
	}
	name := string(member.Type())
	if logical, ok := member.(hambavro.LogicalTypeSchema); ok && logical.Logical() != nil {
		name += "." + string(logical.Logical().Type())
	}
	return name
}

func resolveRef(s hambavro.Schema) hambavro.Schema {
	if ref, ok := s.(*hambavro.RefSchema); ok {
		return ref.Schema()
	}
	return s
}
