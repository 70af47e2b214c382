package sql

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Type is the type of a column, an expression or an aggregation state.
type Type byte

const (
	// Null is the type of the NULL literal. It is also used as an untyped
	// placeholder for aggregation states that are only materialized by the
	// final reduce.
	Null Type = iota
	// Boolean is a true/false value.
	Boolean
	// Byte is an integer of 8 bits.
	Byte
	// Short is an integer of 16 bits.
	Short
	// Integer is an integer of 32 bits.
	Integer
	// Long is an integer of 64 bits.
	Long
	// Float is a floating point number of 32 bits.
	Float
	// Double is a floating point number of 64 bits.
	Double
	// String is a text value.
	String
	// Timestamp is a point in time with millisecond precision.
	Timestamp
	// IP is an IPv4 address.
	IP
	// Object is a nested structure.
	Object
)

var typeNames = map[Type]string{
	Null:      "null",
	Boolean:   "boolean",
	Byte:      "byte",
	Short:     "short",
	Integer:   "integer",
	Long:      "long",
	Float:     "float",
	Double:    "double",
	String:    "string",
	Timestamp: "timestamp",
	IP:        "ip",
	Object:    "object",
}

// TypeFromName returns the type with the given name. Names are case
// insensitive and a few common aliases are accepted.
func TypeFromName(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "int":
		return Integer, nil
	case "bigint":
		return Long, nil
	case "text", "varchar":
		return String, nil
	case "bool":
		return Boolean, nil
	}

	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}

	return Null, ErrInvalidType.New(name)
}

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("type(%d)", byte(t))
}

// IsNumeric returns whether the type holds numbers.
func (t Type) IsNumeric() bool {
	switch t {
	case Byte, Short, Integer, Long, Float, Double:
		return true
	}
	return false
}

// IsDecimal returns whether the type holds floating point numbers.
func (t Type) IsDecimal() bool {
	return t == Float || t == Double
}

// Convert a value of a compatible type to the most accurate Go type for t.
func (t Type) Convert(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}

	if ti, ok := v.(time.Time); ok && t != Timestamp && t != String {
		v = ti.UnixNano() / int64(time.Millisecond)
	}

	switch t {
	case Null:
		return nil, nil
	case Boolean:
		return cast.ToBoolE(v)
	case Byte:
		return cast.ToInt8E(v)
	case Short:
		return cast.ToInt16E(v)
	case Integer:
		return cast.ToInt32E(v)
	case Long:
		return cast.ToInt64E(v)
	case Float:
		return cast.ToFloat32E(v)
	case Double:
		return cast.ToFloat64E(v)
	case String, IP:
		return cast.ToStringE(v)
	case Timestamp:
		if ti, ok := v.(time.Time); ok {
			return ti.UTC(), nil
		}
		ms, err := cast.ToInt64E(v)
		if err != nil {
			return nil, err
		}
		return time.Unix(0, ms*int64(time.Millisecond)).UTC(), nil
	case Object:
		return cast.ToStringMapE(v)
	}

	return nil, ErrInvalidType.New(t)
}

// Compare returns an integer comparing two values of type t. The result
// is 0 if a==b, -1 if a < b, and +1 if a > b. NULL sorts before any value.
func (t Type) Compare(a, b interface{}) (int, error) {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0, nil
		case a == nil:
			return -1, nil
		default:
			return 1, nil
		}
	}

	switch {
	case t.IsDecimal():
		return compareFloats(a, b)
	case t.IsNumeric():
		return compareInts(a, b)
	}

	switch t {
	case Boolean:
		ab, err := cast.ToBoolE(a)
		if err != nil {
			return 0, err
		}
		bb, err := cast.ToBoolE(b)
		if err != nil {
			return 0, err
		}
		switch {
		case ab == bb:
			return 0, nil
		case !ab:
			return -1, nil
		default:
			return 1, nil
		}
	case String, IP:
		as, err := cast.ToStringE(a)
		if err != nil {
			return 0, err
		}
		bs, err := cast.ToStringE(b)
		if err != nil {
			return 0, err
		}
		return strings.Compare(as, bs), nil
	case Timestamp:
		av, err := t.Convert(a)
		if err != nil {
			return 0, err
		}
		bv, err := t.Convert(b)
		if err != nil {
			return 0, err
		}
		at, bt := av.(time.Time), bv.(time.Time)
		switch {
		case at.Before(bt):
			return -1, nil
		case at.After(bt):
			return 1, nil
		default:
			return 0, nil
		}
	}

	return 0, ErrInvalidType.New(t)
}

func compareInts(a, b interface{}) (int, error) {
	ca, err := cast.ToInt64E(a)
	if err != nil {
		return 0, err
	}
	cb, err := cast.ToInt64E(b)
	if err != nil {
		return 0, err
	}

	switch {
	case ca == cb:
		return 0, nil
	case ca < cb:
		return -1, nil
	default:
		return 1, nil
	}
}

func compareFloats(a, b interface{}) (int, error) {
	ca, err := cast.ToFloat64E(a)
	if err != nil {
		return 0, err
	}
	cb, err := cast.ToFloat64E(b)
	if err != nil {
		return 0, err
	}

	switch {
	case ca == cb:
		return 0, nil
	case ca < cb:
		return -1, nil
	default:
		return 1, nil
	}
}

// Types is an ordered list of types, as produced or consumed by a stage.
type Types []Type

// Equals checks whether both lists hold the same types in the same order.
func (ts Types) Equals(other Types) bool {
	if len(ts) != len(other) {
		return false
	}

	for i := range ts {
		if ts[i] != other[i] {
			return false
		}
	}

	return true
}

func (ts Types) String() string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.String()
	}
	return "[" + strings.Join(names, ", ") + "]"
}
