package core

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

// Kind identifies the coercion strategy applied to a claim value.
type Kind int

const (
	// KindString converts a scalar claim to its textual form.
	KindString Kind = iota
	// KindInt32 converts a claim to a 32-bit integer.
	KindInt32
	// KindInt64 converts a claim to a 64-bit integer.
	KindInt64
	// KindBool converts a claim to a boolean.
	KindBool
	// KindStructured decodes the claim's JSON subtree into an arbitrary Go type.
	KindStructured
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindBool:
		return "bool"
	case KindStructured:
		return "structured"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

var errNotScalar = errors.New("value is an object or array")

func coerceString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return strings.ToValidUTF8(val, "\uFFFD"), nil
	case json.Number:
		return val.String(), nil
	case bool:
		return strconv.FormatBool(val), nil
	case map[string]any, []any:
		return "", errNotScalar
	default:
		return cast.ToStringE(val)
	}
}

func coerceInt64(v any) (int64, error) {
	switch val := v.(type) {
	case json.Number:
		return numberToInt64(val)
	case string:
		return numberToInt64(json.Number(strings.TrimSpace(val)))
	case bool:
		return cast.ToInt64E(val)
	case map[string]any, []any:
		return 0, errNotScalar
	default:
		return 0, fmt.Errorf("unsupported value of type %T", v)
	}
}

func coerceInt32(v any) (int32, error) {
	n, err := coerceInt64(v)
	if err != nil {
		return 0, err
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, fmt.Errorf("value %d overflows int32", n)
	}
	return int32(n), nil
}

func coerceBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return false, err
		}
		return f != 0, nil
	case string:
		return cast.ToBoolE(strings.TrimSpace(val))
	case map[string]any, []any:
		return false, errNotScalar
	default:
		return false, fmt.Errorf("unsupported value of type %T", v)
	}
}

func coerceStructured[T any](v any) (T, error) {
	var out T
	raw, err := json.Marshal(v)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}

// numberToInt64 converts an integral literal exactly and truncates fractional
// literals toward zero.
func numberToInt64(n json.Number) (int64, error) {
	if i, err := n.Int64(); err == nil {
		return i, nil
	}

	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	f = math.Trunc(f)
	if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("value %s overflows int64", n)
	}
	return int64(f), nil
}
