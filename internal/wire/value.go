package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind enumerates the shapes a Value can hold.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
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
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Object is a string-keyed mapping that preserves insertion order.
type Object = orderedmap.OrderedMap[string, Value]

// NewObject returns an empty Object.
func NewObject() *Object { return orderedmap.New[string, Value]() }

// Value is an untyped payload crossing the bridge. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	num  json.Number
	str  string
	arr  []Value
	obj  *orderedmap.OrderedMap[string, Value]
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool wraps b.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int wraps an integer.
func Int(i int64) Value { return Value{kind: KindNumber, num: json.Number(strconv.FormatInt(i, 10))} }

// Number wraps f. NaN and infinities have no JSON form and become null.
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	return Value{kind: KindNumber, num: json.Number(formatFloat(f))}
}

// String wraps s.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Array wraps items. A nil slice becomes an empty array.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, arr: items}
}

// Strings builds an array of string values.
func Strings(ss ...string) Value {
	items := make([]Value, len(ss))
	for i, s := range ss {
		items[i] = String(s)
	}
	return Array(items...)
}

// ObjectValue wraps o. A nil object becomes an empty object.
func ObjectValue(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindObject, obj: o}
}

func formatFloat(f float64) string {
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (v Value) Kind() Kind    { return v.kind }
func (v Value) IsNull() bool  { return v.kind == KindNull }
func (v Value) IsArray() bool { return v.kind == KindArray }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsFloat returns the number held by v as a float64.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := v.num.Float64()
	return f, err == nil
}

// AsInt returns the number held by v when it is integral.
func (v Value) AsInt() (int64, bool) {
	f, ok := v.AsFloat()
	if !ok || f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// Items returns the elements of an array value. The slice is shared with v.
func (v Value) Items() ([]Value, bool) { return v.arr, v.kind == KindArray }

// Object returns the mapping held by an object value.
func (v Value) Object() (*Object, bool) { return v.obj, v.kind == KindObject }

// Get looks up key on an object value.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	return v.obj.Get(key)
}

// Len reports the number of elements of an array or entries of an object.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return v.obj.Len()
	default:
		return 0
	}
}

// Keys lists the keys of o in insertion order.
func Keys(o *Object) []string {
	if o == nil {
		return nil
	}
	keys := make([]string, 0, o.Len())
	for pair := o.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Text coerces v to a string: strings are returned as is, numbers and
// booleans use their JSON spelling and composite values their JSON encoding.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		if f, err := v.num.Float64(); err == nil {
			return formatFloat(f)
		}
		return v.num.String()
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNull:
		return "null"
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}

// Equal reports deep equality. Object key order is not significant and
// numbers compare by value.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindString:
		return a.str == b.str
	case KindNumber:
		fa, erra := a.num.Float64()
		fb, errb := b.num.Float64()
		if erra != nil || errb != nil {
			return a.num == b.num
		}
		return fa == fb
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if a.obj.Len() != b.obj.Len() {
			return false
		}
		for pair := a.obj.Oldest(); pair != nil; pair = pair.Next() {
			other, ok := b.obj.Get(pair.Key)
			if !ok || !Equal(pair.Value, other) {
				return false
			}
		}
		return true
	}
	return false
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return []byte(strconv.FormatBool(v.b)), nil
	case KindNumber:
		return []byte(v.num), nil
	case KindString:
		return json.Marshal(v.str)
	case KindArray:
		if v.arr == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.arr)
	case KindObject:
		if v.obj == nil {
			return []byte("{}"), nil
		}
		return v.obj.MarshalJSON()
	}
	return nil, fmt.Errorf("wire: cannot marshal %s", v.kind)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("wire: empty value")
	}
	switch data[0] {
	case 'n':
		if string(data) != "null" {
			return fmt.Errorf("wire: invalid literal %q", data)
		}
		*v = Null()
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
	case '[':
		var items []Value
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*v = Array(items...)
	case '{':
		o := NewObject()
		if err := o.UnmarshalJSON(data); err != nil {
			return err
		}
		*v = ObjectValue(o)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = Value{kind: KindNumber, num: n}
	}
	return nil
}

// Parse decodes a JSON document into a Value.
func Parse(data []byte) (Value, error) {
	var v Value
	if err := json.Unmarshal(data, &v); err != nil {
		return Value{}, err
	}
	return v, nil
}

// FromAny converts a Go value into a Value. Maps are converted with their
// keys sorted; other types round-trip through encoding/json.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case *Object:
		return ObjectValue(t), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		if _, err := t.Float64(); err != nil {
			return Value{}, fmt.Errorf("wire: invalid number %q", t)
		}
		return Value{kind: KindNumber, num: t}, nil
	case float64:
		return Number(t), nil
	case float32:
		return Number(float64(t)), nil
	case int:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint32:
		return Int(int64(t)), nil
	case []string:
		return Strings(t...), nil
	case []any:
		items := make([]Value, len(t))
		for i, e := range t {
			iv, err := FromAny(e)
			if err != nil {
				return Value{}, err
			}
			items[i] = iv
		}
		return Array(items...), nil
	case map[string]any:
		o, err := ObjectFromMap(t)
		if err != nil {
			return Value{}, err
		}
		return ObjectValue(o), nil
	case json.RawMessage:
		return Parse(t)
	}
	if rv := reflect.ValueOf(x); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return Null(), nil
	}
	b, err := json.Marshal(x)
	if err != nil {
		return Value{}, fmt.Errorf("wire: convert %T: %w", x, err)
	}
	return Parse(b)
}

// ObjectFromMap converts m into an Object with keys in sorted order.
func ObjectFromMap(m map[string]any) (*Object, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	o := NewObject()
	for _, k := range keys {
		v, err := FromAny(m[k])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		o.Set(k, v)
	}
	return o, nil
}
