package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ParseQuantity converts a loosely typed quantity, as it arrives from JSON
// tool arguments, into a positive int. Integers, integral floats, json.Number
// and decimal strings are accepted; anything else, zero and negatives yield
// ErrInvalidQuantity.
func ParseQuantity(v any) (int, error) {
	var n int64
	switch q := v.(type) {
	case int:
		n = int64(q)
	case int8:
		n = int64(q)
	case int16:
		n = int64(q)
	case int32:
		n = int64(q)
	case int64:
		n = q
	case uint:
		if uint64(q) > math.MaxInt32 {
			return 0, ErrInvalidQuantity
		}
		n = int64(q)
	case uint8:
		n = int64(q)
	case uint16:
		n = int64(q)
	case uint32:
		n = int64(q)
	case uint64:
		if q > math.MaxInt32 {
			return 0, ErrInvalidQuantity
		}
		n = int64(q)
	case float32:
		return fromFloat(float64(q))
	case float64:
		return fromFloat(q)
	case json.Number:
		if i, err := q.Int64(); err == nil {
			n = i
			break
		}
		f, err := q.Float64()
		if err != nil {
			return 0, ErrInvalidQuantity
		}
		return fromFloat(f)
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(q), 10, 64)
		if err != nil {
			return 0, ErrInvalidQuantity
		}
		n = i
	default:
		return 0, ErrInvalidQuantity
	}
	return checkRange(n)
}

func fromFloat(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, ErrInvalidQuantity
	}
	return checkRange(int64(f))
}

func checkRange(n int64) (int, error) {
	if n <= 0 || n > math.MaxInt32 {
		return 0, ErrInvalidQuantity
	}
	return int(n), nil
}
