// Package records provides traversal of loosely typed JSON payloads. Every accessor returns an
// explicit optional so that a field that is present but zero or empty is never confused with a
// field that is absent.
package records

import (
	"encoding/json"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

type Kind int

const (
	KindAbsent Kind = iota
	KindNull
	KindArray
	KindObject
	KindString
	KindNumber
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "absent"
	}
}

// Record is a decoded JSON object as delivered by the data source
type Record = map[string]any

// Aliases is an ordered list of candidate keys for one logical field
type Aliases []string

type number interface {
	String() string
	Float64() (float64, error)
}

// Value is a single step of a payload traversal
type Value struct {
	kind Kind
	raw  any
}

var absent = Value{kind: KindAbsent}

// Absent returns the value of a missing field
func Absent() Value {
	return absent
}

// Of classifies a decoded JSON value. Values that a JSON decoder cannot produce are
// treated as absent.
func Of(v any) Value {
	switch t := v.(type) {
	case Value:
		return t
	case nil:
		return Value{kind: KindNull}
	case map[string]any:
		return Value{kind: KindObject, raw: t}
	case []any:
		return Value{kind: KindArray, raw: t}
	case string:
		return Value{kind: KindString, raw: t}
	case bool:
		return Value{kind: KindBool, raw: t}
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return Value{kind: KindNumber, raw: t}
	case json.Number:
		return Value{kind: KindNumber, raw: t}
	case number:
		return Value{kind: KindNumber, raw: t}
	default:
		return absent
	}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) Raw() any {
	return v.raw
}

// IsPresent reports whether the value exists and is not null
func (v Value) IsPresent() bool {
	return v.kind != KindAbsent && v.kind != KindNull
}

// Get returns the field with the given key. Arrays are addressed by decimal positions.
func (v Value) Get(key string) Value {
	switch v.kind {
	case KindObject:
		child, ok := v.raw.(map[string]any)[key]
		if !ok {
			return absent
		}
		return Of(child)
	case KindArray:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 {
			return absent
		}
		return v.Index(i)
	default:
		return absent
	}
}

// Index returns the array element at position i, or the field named after i on objects
func (v Value) Index(i int) Value {
	switch v.kind {
	case KindArray:
		items := v.raw.([]any)
		if i < 0 || i >= len(items) {
			return absent
		}
		return Of(items[i])
	case KindObject:
		return v.Get(strconv.Itoa(i))
	default:
		return absent
	}
}

// Resolve returns the first alias that is present and not null
func (v Value) Resolve(aliases Aliases) Value {
	if v.kind != KindObject && v.kind != KindArray {
		return absent
	}
	for _, alias := range aliases {
		if child := v.Get(alias); child.IsPresent() {
			return child
		}
	}
	return absent
}

// ResolveFunc returns the first alias whose value satisfies accept
func (v Value) ResolveFunc(aliases Aliases, accept func(Value) bool) Value {
	if v.kind != KindObject && v.kind != KindArray {
		return absent
	}
	for _, alias := range aliases {
		if child := v.Get(alias); child.IsPresent() && accept(child) {
			return child
		}
	}
	return absent
}

func (v Value) Array() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	items := v.raw.([]any)
	values := make([]Value, 0, len(items))
	for _, item := range items {
		values = append(values, Of(item))
	}
	return values, true
}

func (v Value) Object() (Record, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.raw.(map[string]any), true
}

// Text returns strings as they are and numbers in their decimal form
func (v Value) Text() (string, bool) {
	switch v.kind {
	case KindString:
		return v.raw.(string), true
	case KindNumber:
		return formatNumber(v.raw), true
	default:
		return "", false
	}
}

// Number coerces numbers and numeric strings. Blank strings are not numeric.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return toFloat(v.raw)
	case KindString:
		s := strings.TrimSpace(v.raw.(string))
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Resolve returns the first alias of record that is present and not null. It never panics,
// whatever the shape of record.
func Resolve(record any, aliases Aliases) Value {
	return Of(record).Resolve(aliases)
}

// ResolveText returns the first alias holding a non-blank string or a number
func ResolveText(record any, aliases Aliases) (string, bool) {
	value := Of(record).ResolveFunc(aliases, func(v Value) bool {
		s, ok := v.Text()
		return ok && strings.TrimSpace(s) != ""
	})
	return value.Text()
}

// Keys returns the set of top level keys of an object
func Keys(record any) mapset.Set[string] {
	keys := mapset.NewThreadUnsafeSet[string]()
	if obj, ok := Of(record).Object(); ok {
		for key := range obj {
			keys.Add(key)
		}
	}
	return keys
}

// KeySet returns the set of every key appearing in the given alias tables
func KeySet(tables ...Aliases) mapset.Set[string] {
	keys := mapset.NewThreadUnsafeSet[string]()
	for _, table := range tables {
		keys.Append(table...)
	}
	return keys
}

func toFloat(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func formatNumber(raw any) string {
	if n, ok := raw.(number); ok {
		return n.String()
	}
	f, _ := toFloat(raw)
	return strconv.FormatFloat(f, 'f', -1, 64)
}
