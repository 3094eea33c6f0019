// ABOUTME: Total coercion functions for declared parameter types.
// ABOUTME: Each returns the coerced value or an error; no panics, no silent correction.

package endpoint

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// coerceValue converts v per the declared scalar type token.
func coerceValue(v any, token string) (any, error) {
	switch token {
	case "int":
		return coerceInt(v)
	case "str":
		return coerceString(v)
	case "float":
		return coerceFloat(v)
	case "bool":
		return coerceBool(v)
	}
	return nil, fmt.Errorf("parameter type %q is invalid", token)
}

func coerceInt(v any) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case int32:
		return int(val), nil
	case int64:
		return int(val), nil
	case float32:
		return int(val), nil
	case float64:
		return int(val), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, fmt.Errorf("%q is not a valid int", val)
		}
		return n, nil
	}
	return 0, fmt.Errorf("value of type %T is not a valid int", v)
}

func coerceFloat(v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int32:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a valid float", val)
		}
		return f, nil
	}
	return 0, fmt.Errorf("value of type %T is not a valid float", v)
}

func coerceString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case []byte:
		// One re-encode attempt for raw bytes; anything unrepresentable fails.
		if !utf8.Valid(val) {
			return "", fmt.Errorf("byte value is not valid UTF-8")
		}
		return string(val), nil
	}
	return "", fmt.Errorf("value of type %T is not a valid string", v)
}

func coerceBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return false, fmt.Errorf("%q is not a valid bool", val)
	case int:
		return val != 0, nil
	case int32:
		return val != 0, nil
	case int64:
		return val != 0, nil
	case float32:
		// Integer truth: truncate first, so 0.5 is false.
		return int(val) != 0, nil
	case float64:
		return int(val) != 0, nil
	}
	return false, fmt.Errorf("value of type %T is not a valid bool", v)
}
