package tmpl

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is a read-only node of a render context: null, bool, number,
// string, sequence or mapping. The zero Value is null.
type Value struct {
	kind   Kind
	b      bool
	n      float64
	s      string
	seq    []Value
	fields map[string]Value
}

func Null() Value { return Value{} }
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }
func String(s string) Value { return Value{kind: KindString, s: s} }
func Sequence(items ...Value) Value {
	return Value{kind: KindSequence, seq: items}
}

// Mapping builds a mapping value. The map is not copied; callers must not
// modify it after handing it over.
func Mapping(fields map[string]Value) Value {
	if fields == nil {
		fields = map[string]Value{}
	}
	return Value{kind: KindMapping, fields: fields}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }
func (v Value) Num() float64 { return v.n }
func (v Value) Str() string { return v.s }
func (v Value) Boolean() bool { return v.b }

// Len returns the number of elements of a sequence or keys of a mapping.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.seq)
	case KindMapping:
		return len(v.fields)
	}
	return 0
}

// Items returns the elements of a sequence, nil for any other kind.
func (v Value) Items() []Value {
	if v.kind != KindSequence {
		return nil
	}
	return v.seq
}

// Field returns the named field of a mapping.
func (v Value) Field(name string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	f, ok := v.fields[name]
	return f, ok
}

// Keys returns the mapping's keys in sorted order.
func (v Value) Keys() []string {
	if v.kind != KindMapping {
		return nil
	}
	keys := make([]string, 0, len(v.fields))
	for k := range v.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup resolves a dot separated path starting at v. It reports false as
// soon as a segment is missing or a non-mapping is met before the last
// segment.
func (v Value) Lookup(path string) (Value, bool) {
	cur := v
	for _, key := range strings.Split(path, ".") {
		next, ok := cur.Field(key)
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return cur, true
}

// Truthy reports how a value behaves as an {{#if}} condition.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindNumber:
		return v.n != 0
	case KindString:
		return v.s != ""
	case KindSequence:
		return len(v.seq) > 0
	case KindMapping:
		return len(v.fields) > 0
	}
	return true
}

// String returns the text substituted for the value in rendered output.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return formatNumber(v.n)
	case KindString:
		return v.s
	case KindSequence:
		parts := make([]string, len(v.seq))
		for i, item := range v.seq {
			if item.IsNull() {
				continue
			}
			parts[i] = item.String()
		}
		return strings.Join(parts, ",")
	case KindMapping:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v.fields)
		}
		return string(b)
	}
	return ""
}

func formatNumber(n float64) string {
	switch {
	case n == 0:
		return "0"
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// MarshalJSON encodes the value as plain JSON. Mapping keys come out sorted.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		if math.IsNaN(v.n) || math.IsInf(v.n, 0) {
			return []byte("null"), nil
		}
		return []byte(formatNumber(v.n)), nil
	case KindString:
		return json.Marshal(v.s)
	case KindSequence:
		if v.seq == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.seq)
	case KindMapping:
		return json.Marshal(v.fields)
	}
	return []byte("null"), nil
}

// UnmarshalJSON decodes any JSON document into a Value.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = FromAny(raw)
	return nil
}

// FromAny converts decoded JSON or YAML trees, Go scalars, slices, string
// keyed maps and JSON tagged structs into a Value.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case float64:
		return Number(t)
	case int:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return String(t.String())
		}
		return Number(f)
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = FromAny(item)
		}
		return Sequence(items...)
	case map[string]any:
		fields := make(map[string]Value, len(t))
		for k, item := range t {
			fields[k] = FromAny(item)
		}
		return Mapping(fields)
	}
	return fromReflect(reflect.ValueOf(x))
}

func fromReflect(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null()
		}
		return FromAny(rv.Elem().Interface())
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.String:
		return String(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Number(float64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return Number(rv.Float())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null()
		}
		items := make([]Value, rv.Len())
		for i := range items {
			items[i] = FromAny(rv.Index(i).Interface())
		}
		return Sequence(items...)
	case reflect.Map:
		if rv.IsNil() {
			return Null()
		}
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		fields := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			fields[iter.Key().String()] = FromAny(iter.Value().Interface())
		}
		return Mapping(fields)
	case reflect.Struct:
		b, err := json.Marshal(rv.Interface())
		if err != nil {
			break
		}
		var raw any
		if err := json.Unmarshal(b, &raw); err != nil {
			break
		}
		return FromAny(raw)
	}
	if !rv.IsValid() {
		return Null()
	}
	return String(fmt.Sprint(rv.Interface()))
}
