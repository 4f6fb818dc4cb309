package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ValueKind tags the variant held by a Value.
type ValueKind string

const (
	KindString ValueKind = "string"
	KindBool   ValueKind = "bool"
	KindInt    ValueKind = "int"
	KindFloat  ValueKind = "float"
)

// Value is the closed set of scalars a module state can hold.
// The zero Value is an empty string.
type Value struct {
	kind ValueKind
	s    string
	b    bool
	i    int64
	f    float64
}

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// BoolValue wraps a bool.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// IntValue wraps an integer.
func IntValue(i int64) Value { return Value{kind: KindInt, i: i} }

// FloatValue wraps a float.
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }

// ValueOf converts a Go value into a Value.
// It accepts strings, bools, every integer and float type, json.Number and Value.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case string:
		return StringValue(x), nil
	case bool:
		return BoolValue(x), nil
	case int:
		return IntValue(int64(x)), nil
	case int8:
		return IntValue(int64(x)), nil
	case int16:
		return IntValue(int64(x)), nil
	case int32:
		return IntValue(int64(x)), nil
	case int64:
		return IntValue(x), nil
	case uint:
		return IntValue(int64(x)), nil
	case uint8:
		return IntValue(int64(x)), nil
	case uint16:
		return IntValue(int64(x)), nil
	case uint32:
		return IntValue(int64(x)), nil
	case uint64:
		if x > math.MaxInt64 {
			return Value{}, fmt.Errorf("%w: %d overflows int64", ErrUnsupportedValue, x)
		}
		return IntValue(int64(x)), nil
	case float32:
		return FloatValue(float64(x)), nil
	case float64:
		return FloatValue(x), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return IntValue(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q", ErrUnsupportedValue, x.String())
		}
		return FloatValue(f), nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

// MustValueOf is like ValueOf but panics on unsupported input.
// Intended for literals in module code and tests.
func MustValueOf(v any) Value {
	val, err := ValueOf(v)
	if err != nil {
		panic(err)
	}
	return val
}

// Kind returns the variant tag.
func (v Value) Kind() ValueKind {
	if v.kind == "" {
		return KindString
	}
	return v.kind
}

// Interface returns the held value as a plain Go value.
func (v Value) Interface() any {
	switch v.Kind() {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	default:
		return v.s
	}
}

// AsString returns the string variant.
func (v Value) AsString() (string, bool) {
	return v.s, v.Kind() == KindString
}

// AsBool returns the bool variant.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsInt returns the int variant. Whole floats within the int64 range are accepted.
func (v Value) AsInt() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindFloat:
		if v.f == math.Trunc(v.f) && v.f >= math.MinInt64 && v.f < -math.MinInt64 {
			return int64(v.f), true
		}
	}
	return 0, false
}

// AsFloat returns the numeric variants as float64.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	}
	return 0, false
}

// Equal reports whether both values hold the same variant and payload.
func (v Value) Equal(o Value) bool {
	if v.Kind() != o.Kind() {
		return false
	}
	switch v.Kind() {
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f || (math.IsNaN(v.f) && math.IsNaN(o.f))
	default:
		return v.s == o.s
	}
}

// String renders the payload for display.
func (v Value) String() string {
	switch v.Kind() {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return v.s
	}
}

type taggedValue struct {
	Kind  ValueKind `json:"kind" yaml:"kind"`
	Value any       `json:"value" yaml:"value"`
}

// MarshalJSON encodes the value as {"kind": ..., "value": ...} so the
// variant survives a round trip.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(taggedValue{Kind: v.Kind(), Value: v.Interface()})
}

// UnmarshalJSON accepts the tagged form as well as bare JSON scalars.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var raw struct {
			Kind  ValueKind       `json:"kind"`
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		return v.decodeTagged(raw.Kind, func(out any) error {
			dec := json.NewDecoder(bytes.NewReader(raw.Value))
			dec.UseNumber()
			return dec.Decode(out)
		})
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var bare any
	if err := dec.Decode(&bare); err != nil {
		return err
	}
	parsed, err := ValueOf(bare)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalYAML encodes the tagged form.
func (v Value) MarshalYAML() (any, error) {
	return taggedValue{Kind: v.Kind(), Value: v.Interface()}, nil
}

// UnmarshalYAML accepts the tagged form as well as bare YAML scalars.
func (v *Value) UnmarshalYAML(unmarshal func(any) error) error {
	var raw struct {
		Kind  ValueKind `yaml:"kind"`
		Value any       `yaml:"value"`
	}
	if err := unmarshal(&raw); err == nil && raw.Kind != "" {
		return v.decodeTagged(raw.Kind, func(out any) error {
			return assignDecoded(raw.Value, out)
		})
	}

	var bare any
	if err := unmarshal(&bare); err != nil {
		return err
	}
	parsed, err := ValueOf(bare)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v *Value) decodeTagged(kind ValueKind, decode func(any) error) error {
	switch kind {
	case KindString, "":
		var s string
		if err := decode(&s); err != nil {
			return fmt.Errorf("decode string value: %w", err)
		}
		*v = StringValue(s)
	case KindBool:
		var b bool
		if err := decode(&b); err != nil {
			return fmt.Errorf("decode bool value: %w", err)
		}
		*v = BoolValue(b)
	case KindInt:
		var i int64
		if err := decode(&i); err != nil {
			return fmt.Errorf("decode int value: %w", err)
		}
		*v = IntValue(i)
	case KindFloat:
		var f float64
		if err := decode(&f); err != nil {
			return fmt.Errorf("decode float value: %w", err)
		}
		*v = FloatValue(f)
	default:
		return fmt.Errorf("%w: kind %q", ErrUnsupportedValue, kind)
	}
	return nil
}

// assignDecoded copies an already decoded YAML scalar into out.
func assignDecoded(in any, out any) error {
	switch o := out.(type) {
	case *string:
		s, ok := in.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", in)
		}
		*o = s
	case *bool:
		b, ok := in.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", in)
		}
		*o = b
	case *int64:
		val, err := ValueOf(in)
		if err != nil {
			return err
		}
		i, ok := val.AsInt()
		if !ok {
			return fmt.Errorf("expected int, got %T", in)
		}
		*o = i
	case *float64:
		val, err := ValueOf(in)
		if err != nil {
			return err
		}
		f, ok := val.AsFloat()
		if !ok {
			return fmt.Errorf("expected float, got %T", in)
		}
		*o = f
	default:
		return fmt.Errorf("unsupported target %T", out)
	}
	return nil
}
