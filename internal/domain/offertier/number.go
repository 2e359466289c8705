package offertier

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Number holds a numeric request field exactly as it was decoded, so a JSON
// number can be told apart from a string that merely looks like one.
// The zero value means the field was absent.
type Number struct {
	raw json.RawMessage
}

var (
	errNotNumber   = errors.New("not a number")
	errStringValue = errors.New("string value")
	errNotInteger  = errors.New("not an integer")
)

// UnmarshalJSON implements json.Unmarshaler. It is also invoked for JSON null.
func (n *Number) UnmarshalJSON(b []byte) error {
	n.raw = append(json.RawMessage(nil), bytes.TrimSpace(b)...)

	return nil
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Present() {
		return []byte("null"), nil
	}

	return n.raw, nil
}

// Int builds a Number from an integer.
func Int(v int) Number {
	return Number{raw: json.RawMessage(strconv.Itoa(v))}
}

// Dec builds a Number from a decimal.
func Dec(v decimal.Decimal) Number {
	return Number{raw: json.RawMessage(v.String())}
}

// Null builds an explicit JSON null.
func Null() Number {
	return Number{raw: json.RawMessage("null")}
}

// Raw builds a Number from a raw JSON fragment, e.g. `"10"`.
func Raw(fragment string) Number {
	return Number{raw: json.RawMessage(fragment)}
}

// Present reports whether the field was supplied at all, null included.
func (n Number) Present() bool {
	return len(n.raw) > 0
}

// IsNull reports whether the field was supplied as JSON null.
func (n Number) IsNull() bool {
	return string(n.raw) == "null"
}

// decimal parses the value as a JSON number. Strings are rejected with
// errStringValue even when their content is numeric.
func (n Number) decimal() (decimal.Decimal, error) {
	if !n.Present() || n.IsNull() {
		return decimal.Zero, errNotNumber
	}

	switch n.raw[0] {
	case '"':
		return decimal.Zero, errStringValue
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
	default:
		return decimal.Zero, errNotNumber
	}

	d, err := decimal.NewFromString(string(n.raw))
	if err != nil {
		return decimal.Zero, errNotNumber
	}

	return d, nil
}

var (
	intColumnMax = decimal.NewFromInt(math.MaxInt32)
	intColumnMin = decimal.NewFromInt(math.MinInt32)
)

// int parses the value as an integral JSON number. Values outside the
// INTEGER column range are clamped to one step beyond it, so range checks
// reject them instead of seeing a wrapped value.
func (n Number) int() (int64, error) {
	d, err := n.decimal()
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, errNotInteger
	}

	switch {
	case d.GreaterThan(intColumnMax):
		return math.MaxInt32 + 1, nil
	case d.LessThan(intColumnMin):
		return math.MinInt32 - 1, nil
	}

	return d.IntPart(), nil
}
