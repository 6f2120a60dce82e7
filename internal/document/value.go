package document

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// Kind identifies which variant a Value holds
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a JSON value. Objects keep their keys in document order, numbers
// keep their original literal so a parsed document re-encodes verbatim.
type Value struct {
	kind   Kind
	b      bool
	num    string
	str    string
	items  []Value
	fields []Field
}

// Field is one key/value pair of an object
type Field struct {
	Key   string
	Value Value
}

// NullValue returns the JSON null
func NullValue() Value { return Value{kind: Null} }

// BoolValue wraps a boolean
func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

// NumberValue wraps a number literal such as "42" or "1.5e3"
func NumberValue(raw string) Value { return Value{kind: Number, num: raw} }

// IntValue wraps an integer
func IntValue(n int) Value { return NumberValue(strconv.Itoa(n)) }

// StringValue wraps a string
func StringValue(s string) Value { return Value{kind: String, str: s} }

// ArrayOf builds an array from items
func ArrayOf(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: Array, items: items}
}

// Strings builds an array of string values
func Strings(ss []string) Value {
	items := make([]Value, len(ss))
	for i, s := range ss {
		items[i] = StringValue(s)
	}
	return ArrayOf(items...)
}

// ObjectOf builds an object from fields. A repeated key keeps the position
// of its first occurrence and the value of its last.
func ObjectOf(fields ...Field) Value {
	out := make([]Field, 0, len(fields))
	index := make(map[string]int, len(fields))
	for _, f := range fields {
		if i, ok := index[f.Key]; ok {
			out[i].Value = f.Value
			continue
		}
		index[f.Key] = len(out)
		out = append(out, f)
	}
	return Value{kind: Object, fields: out}
}

func (v Value) Kind() Kind { return v.kind }

// IsContainer reports whether v is an array or an object
func (v Value) IsContainer() bool { return v.kind == Array || v.kind == Object }

func (v Value) Bool() bool { return v.b }

// Str returns the string payload, or "" for non-strings
func (v Value) Str() string { return v.str }

// Num parses the number literal; non-numbers yield 0
func (v Value) Num() float64 {
	f, _ := strconv.ParseFloat(v.num, 64)
	return f
}

// Items returns the elements of an array
func (v Value) Items() []Value { return v.items }

// Fields returns the fields of an object in document order
func (v Value) Fields() []Field { return v.fields }

// Len is the number of elements or fields, 0 for scalars
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.items)
	case Object:
		return len(v.fields)
	}
	return 0
}

// Get looks up key in an object
func (v Value) Get(key string) (Value, bool) {
	for _, f := range v.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Parse decodes a JSON text into a Value
func Parse(data []byte) (Value, error) {
	if !gjson.ValidBytes(data) {
		return Value{}, eris.New("document: invalid JSON")
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

func fromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.False:
		return BoolValue(false)
	case gjson.True:
		return BoolValue(true)
	case gjson.Number:
		return NumberValue(r.Raw)
	case gjson.String:
		return StringValue(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			items := []Value{}
			r.ForEach(func(_, item gjson.Result) bool {
				items = append(items, fromResult(item))
				return true
			})
			return ArrayOf(items...)
		}
		var fields []Field
		r.ForEach(func(key, item gjson.Result) bool {
			fields = append(fields, Field{Key: key.Str, Value: fromResult(item)})
			return true
		})
		return ObjectOf(fields...)
	}
	return NullValue()
}

// FromGo converts anything encoding/json can marshal into a Value
func FromGo(x any) (Value, error) {
	data, err := json.Marshal(x)
	if err != nil {
		return Value{}, eris.Wrap(err, "document: marshal")
	}
	return Parse(data)
}

// MarshalJSON encodes v compactly, without HTML escaping
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := v.encode(&buf, enc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Compact returns the single-line encoding of v
func (v Value) Compact() string {
	data, _ := v.MarshalJSON()
	return string(data)
}

// Indent returns v encoded with two-space indentation
func (v Value) Indent() []byte {
	data, _ := v.MarshalJSON()
	return pretty.PrettyOptions(data, &pretty.Options{Indent: "  "})
}

func (v Value) encode(buf *bytes.Buffer, enc *json.Encoder) error {
	switch v.kind {
	case Null:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(strconv.FormatBool(v.b))
	case Number:
		buf.WriteString(v.num)
	case String:
		return writeString(buf, enc, v.str)
	case Array:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf, enc); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, f := range v.fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, enc, f.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := f.Value.encode(buf, enc); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return eris.Errorf("document: unknown kind %d", v.kind)
	}
	return nil
}

// writeString quotes s through enc, which terminates every value with '\n'
func writeString(buf *bytes.Buffer, enc *json.Encoder, s string) error {
	if err := enc.Encode(s); err != nil {
		return eris.Wrap(err, "document: encode string")
	}
	buf.Truncate(buf.Len() - 1)
	return nil
}
