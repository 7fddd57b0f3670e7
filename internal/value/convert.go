package value

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// FromAny converts the output of a decoder (TOML, YAML, JSON, template data)
// into a Value. Integral floats become numbers, other floats become their
// shortest decimal string and times become RFC 3339 strings.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case Number:
		return Num(t), nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(t), nil
	case int8:
		return Int(t), nil
	case int16:
		return Int(t), nil
	case int32:
		return Int(t), nil
	case int64:
		return Int(t), nil
	case uint:
		return Uint(t), nil
	case uint8:
		return Uint(t), nil
	case uint16:
		return Uint(t), nil
	case uint32:
		return Uint(t), nil
	case uint64:
		return Uint(t), nil
	case float32:
		return fromFloat(float64(t)), nil
	case float64:
		return fromFloat(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i), nil
		}
		if u, err := strconv.ParseUint(t.String(), 10, 64); err == nil {
			return Uint(u), nil
		}
		return String(t.String()), nil
	case string:
		return String(t), nil
	case time.Time:
		return String(t.Format(time.RFC3339)), nil
	case []string:
		return Strings(t), nil
	case []any:
		vs := make([]Value, len(t))
		for i, e := range t {
			v, err := FromAny(e)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			vs[i] = v
		}
		return Array(vs...), nil
	case []map[string]any:
		vs := make([]Value, len(t))
		for i, e := range t {
			v, err := FromAny(e)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			vs[i] = v
		}
		return Array(vs...), nil
	case map[string]any:
		d := make(Dict, len(t))
		for k, e := range t {
			v, err := FromAny(e)
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			d[k] = v
		}
		return DictOf(d), nil
	case map[any]any:
		d := make(Dict, len(t))
		for k, e := range t {
			v, err := FromAny(e)
			if err != nil {
				return Value{}, fmt.Errorf("key %v: %w", k, err)
			}
			d[fmt.Sprint(k)] = v
		}
		return DictOf(d), nil
	case map[string]string:
		d := make(Dict, len(t))
		for k, e := range t {
			d[k] = String(e)
		}
		return DictOf(d), nil
	case fmt.Stringer:
		// TOML local dates and times.
		return String(t.String()), nil
	}
	return Value{}, fmt.Errorf("unsupported value type %T", x)
}

func fromFloat(f float64) Value {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && f >= math.MinInt64 && f < math.MaxInt64 {
		return Int(int64(f))
	}
	return String(strconv.FormatFloat(f, 'g', -1, 64))
}

// ToAny converts v into plain Go data suitable for templates and encoders.
func ToAny(v Value) any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n.Any()
	case KindString, KindPath:
		return v.s
	case KindArray:
		out := make([]any, len(v.arr))
		for i, x := range v.arr {
			out[i] = ToAny(x)
		}
		return out
	case KindDict:
		out := make(map[string]any, len(v.dict))
		for k, x := range v.dict {
			out[k] = ToAny(x)
		}
		return out
	}
	return nil
}

// MarshalJSON encodes v as plain JSON.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(ToAny(v))
}

// UnmarshalJSON decodes plain JSON, keeping integers exact.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := decodeJSON(data, &raw); err != nil {
		return err
	}
	out, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = out
	return nil
}
