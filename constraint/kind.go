package constraint

import (
	"encoding"
	"fmt"
)

// Kind describes varieties of parameter constraints.
type Kind int

const (
	KindInvalid Kind = iota

	// KindNotNull demands a value to be present: not nil and not a typed nil.
	KindNotNull

	// KindMin demands a numeric value to be greater than or equal to the bound.
	KindMin

	// KindMax demands a numeric value to be less than or equal to the bound.
	KindMax

	// KindPattern demands a stringified value to match the whole regular expression.
	KindPattern

	// KindExpr demands a CEL expression over `value` to evaluate to true.
	KindExpr

	// KindLenMin demands len(value) to be greater than or equal to the bound.
	KindLenMin

	// KindLenMax demands len(value) to be less than or equal to the bound.
	KindLenMax
)

var kindValueMap = map[Kind]string{
	KindNotNull: "notnull",
	KindMin:     "min",
	KindMax:     "max",
	KindPattern: "pattern",
	KindExpr:    "expr",
	KindLenMin:  "lenmin",
	KindLenMax:  "lenmax",
}

// names used in reports, they are closer to what people write in docs.
var kindDisplayMap = map[Kind]string{
	KindNotNull: "NOT_NULL",
	KindMin:     "MIN",
	KindMax:     "MAX",
	KindPattern: "PATTERN",
	KindExpr:    "EXPR",
	KindLenMin:  "LEN_MIN",
	KindLenMax:  "LEN_MAX",
}

func (k Kind) String() string {
	v, ok := kindDisplayMap[k]
	if !ok {
		return fmt.Sprintf("kind-invalid(%d)", k)
	}

	return v
}

// HasParam tells if constraints of this kind carry a parameter (bound, pattern, etc).
func (k Kind) HasParam() bool {
	return k != KindNotNull && k != KindInvalid
}

var (
	_ encoding.TextMarshaler   = Kind(0)
	_ encoding.TextUnmarshaler = (*Kind)(nil)
)

// MarshalText for putting kinds into configs.
func (k Kind) MarshalText() ([]byte, error) {
	v, ok := kindValueMap[k]
	if !ok {
		return nil, fmt.Errorf("cannot marshal invalid Kind(%d)", k)
	}

	return []byte(v), nil
}

// UnmarshalText accepts both config ("notnull") and display ("NOT_NULL") spellings.
func (k *Kind) UnmarshalText(rawtext []byte) error {
	text := string(rawtext)
	for key, v := range kindValueMap {
		if v == text || kindDisplayMap[key] == text {
			*k = key
			return nil
		}
	}

	return fmt.Errorf("unknown constraint kind %q", text)
}
