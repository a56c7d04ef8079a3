package clipper

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the variant held by a Value.
type Kind int

// Kind constants. The zero Value is KindNull.
const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

// Value is a template value: null, string, number, boolean, list or map.
// Values are immutable once constructed.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	list []Value
	m    map[string]Value
}

// Null is the absent value.
var Null = Value{}

// NewString returns a string Value.
func NewString(s string) Value {
	return Value{kind: KindString, str: s}
}

// NewNumber returns a number Value.
func NewNumber(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

// NewInt returns a number Value holding n.
func NewInt(n int64) Value {
	return Value{kind: KindNumber, num: float64(n)}
}

// NewBool returns a boolean Value.
func NewBool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// NewList returns a list Value holding items in order.
func NewList(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindList, list: items}
}

// NewStringList returns a list Value of string Values.
func NewStringList(items []string) Value {
	list := make([]Value, len(items))
	for i, s := range items {
		list[i] = NewString(s)
	}
	return NewList(list...)
}

// NewMap returns a map Value. The map must not be modified afterwards.
func NewMap(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{kind: KindMap, m: m}
}

// ValueOf converts a Go value into a Value. It understands the shapes
// produced by encoding/json as well as common scalar and slice types.
// Unsupported types become their fmt-free string form where possible,
// otherwise Null.
func ValueOf(v any) Value {
	switch v := v.(type) {
	case nil:
		return Null
	case Value:
		return v
	case string:
		return NewString(v)
	case bool:
		return NewBool(v)
	case int:
		return NewInt(int64(v))
	case int64:
		return NewInt(v)
	case float64:
		return NewNumber(v)
	case time.Time:
		return NewString(v.Format(time.RFC3339))
	case []string:
		return NewStringList(v)
	case []any:
		list := make([]Value, len(v))
		for i, item := range v {
			list[i] = ValueOf(item)
		}
		return NewList(list...)
	case map[string]any:
		m := make(map[string]Value, len(v))
		for k, item := range v {
			m[k] = ValueOf(item)
		}
		return NewMap(m)
	case map[string]string:
		m := make(map[string]Value, len(v))
		for k, item := range v {
			m[k] = NewString(item)
		}
		return NewMap(m)
	}
	return Null
}

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the absent value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// String returns the string form of v as inserted into rendered text.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return formatNumber(v.num)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			parts[i] = item.String()
		}
		return strings.Join(parts, ", ")
	case KindMap:
		keys := v.Keys()
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + v.m[k].String()
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

// Truthy reports whether v counts as true in a conditional: null is false,
// booleans are themselves, strings must be non-blank, lists non-empty,
// numbers nonzero, and maps are always true.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindString:
		return strings.TrimSpace(v.str) != ""
	case KindList:
		return len(v.list) > 0
	case KindNumber:
		return v.num != 0
	}
	return true
}

// Items returns the elements of a list, or nil for other kinds.
func (v Value) Items() []Value {
	if v.kind != KindList {
		return nil
	}
	return v.list
}

// Len returns the number of list elements or map entries.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindMap:
		return len(v.m)
	}
	return 0
}

// Index returns the i-th element of a list.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindList || i < 0 || i >= len(v.list) {
		return Null, false
	}
	return v.list[i], true
}

// Field returns the entry for key in a map.
func (v Value) Field(key string) (Value, bool) {
	if v.kind != KindMap {
		return Null, false
	}
	item, ok := v.m[key]
	return item, ok
}

// Keys returns the sorted keys of a map.
func (v Value) Keys() []string {
	if v.kind != KindMap {
		return nil
	}
	keys := make([]string, 0, len(v.m))
	for k := range v.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Bool returns the boolean held by v.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Number returns the number held by v.
func (v Value) Number() (float64, bool) {
	return v.num, v.kind == KindNumber
}

func formatNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
