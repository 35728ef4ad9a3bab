package constraint

import (
	"encoding"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/cel-go/cel"
)

// Constraint is a single precondition attached to a method parameter.
// The zero value is invalid, use constructors or [Parse] to get one.
//
// Constraints are immutable: everything a constraint needs for evaluation
// (parsed bounds, compiled patterns and expressions) is prepared at construction.
type Constraint struct {
	kind  Kind
	param string // parameter as declared, empty for NOT_NULL

	bound  *big.Rat // MIN, MAX
	length int      // LEN_MIN, LEN_MAX
	re     *regexp.Regexp
	prg    cel.Program
}

// Number is a set of types usable as numeric bounds.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// NotNull returns NOT_NULL constraint.
func NotNull() Constraint {
	return Constraint{kind: KindNotNull}
}

// Min returns MIN(n) constraint. Panics on NaN or infinite bounds.
func Min[N Number](n N) Constraint {
	return numericBound(KindMin, n)
}

// Max returns MAX(n) constraint. Panics on NaN or infinite bounds.
func Max[N Number](n N) Constraint {
	return numericBound(KindMax, n)
}

func numericBound[N Number](kind Kind, n N) Constraint {
	bound, text := ratOf(n)
	if bound == nil {
		panic(fmt.Errorf("%s bound must be finite, got %v", kind, n))
	}

	return Constraint{
		kind:  kind,
		param: text,
		bound: bound,
	}
}

func ratOf[N Number](n N) (*big.Rat, string) {
	if v, ok := any(n).(float32); ok {
		return ratOfFloat(float64(v), 32)
	}

	var one N = 1
	switch {
	case one/2 != 0: // floating point
		return ratOfFloat(float64(n), 64)
	case one-2 > one: // unsigned
		u := uint64(n)
		return new(big.Rat).SetInt(new(big.Int).SetUint64(u)), strconv.FormatUint(u, 10)
	default:
		i := int64(n)
		return new(big.Rat).SetInt64(i), strconv.FormatInt(i, 10)
	}
}

func ratOfFloat(f float64, bits int) (*big.Rat, string) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, ""
	}

	return new(big.Rat).SetFloat64(f), strconv.FormatFloat(f, 'g', -1, bits)
}

// Pattern returns PATTERN(re) constraint. The value must match re as a whole.
func Pattern(re string) (Constraint, error) {
	compiled, err := regexp.Compile(`^(?:` + re + `)$`)
	if err != nil {
		return Constraint{}, fmt.Errorf("compile pattern %q: %w", re, err)
	}

	return Constraint{
		kind:  KindPattern,
		param: re,
		re:    compiled,
	}, nil
}

// MustPattern is like [Pattern] but panics if re cannot be compiled.
func MustPattern(re string) Constraint {
	c, err := Pattern(re)
	if err != nil {
		panic(err)
	}

	return c
}

// Expr returns EXPR(src) constraint. src is a CEL expression over the
// `value` variable which must be of boolean type.
func Expr(src string) (Constraint, error) {
	prg, err := compileExpr(src)
	if err != nil {
		return Constraint{}, fmt.Errorf("compile expression %q: %w", src, err)
	}

	return Constraint{
		kind:  KindExpr,
		param: src,
		prg:   prg,
	}, nil
}

// MustExpr is like [Expr] but panics if src cannot be compiled.
func MustExpr(src string) Constraint {
	c, err := Expr(src)
	if err != nil {
		panic(err)
	}

	return c
}

// LenMin returns LEN_MIN(n) constraint. Panics on negative n.
func LenMin(n int) Constraint {
	return lengthBound(KindLenMin, n)
}

// LenMax returns LEN_MAX(n) constraint. Panics on negative n.
func LenMax(n int) Constraint {
	return lengthBound(KindLenMax, n)
}

func lengthBound(kind Kind, n int) Constraint {
	if n < 0 {
		panic(fmt.Errorf("%s bound must not be negative, got %d", kind, n))
	}

	return Constraint{
		kind:   kind,
		param:  strconv.Itoa(n),
		length: n,
	}
}

// Kind returns constraint kind.
func (c Constraint) Kind() Kind {
	return c.kind
}

// Param returns constraint parameter as it was declared. It is empty for NOT_NULL.
func (c Constraint) Param() string {
	return c.param
}

// Valid tells if the constraint was built by one of the constructors.
func (c Constraint) Valid() bool {
	_, ok := kindValueMap[c.kind]
	return ok
}

// String returns a display form, like NOT_NULL or MIN(0).
func (c Constraint) String() string {
	if !c.kind.HasParam() {
		return c.kind.String()
	}

	return c.kind.String() + "(" + c.param + ")"
}

// Text returns a canonical text form accepted by [Parse].
func (c Constraint) Text() string {
	kind, err := c.kind.MarshalText()
	if err != nil {
		return c.kind.String()
	}

	if !c.kind.HasParam() {
		return string(kind)
	}

	param := c.param
	if needsQuoting(param) {
		param = strconv.Quote(param)
	}

	return string(kind) + "=" + param
}

// Equal checks if both constraints are the same by their kind and declared parameter.
func (c Constraint) Equal(other Constraint) bool {
	return c.kind == other.kind && c.param == other.param
}

var (
	_ encoding.TextMarshaler   = Constraint{}
	_ encoding.TextUnmarshaler = (*Constraint)(nil)
)

// MarshalText for putting constraints into configs.
func (c Constraint) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid constraint of %s", c.kind)
	}

	return []byte(c.Text()), nil
}

// UnmarshalText for setting constraints with configs, directives, etc.
func (c *Constraint) UnmarshalText(rawtext []byte) error {
	v, err := Parse(string(rawtext))
	if err != nil {
		return err
	}

	*c = v
	return nil
}

// Parse parses a single constraint in its text form:
//
//	notnull
//	min=0
//	max=10.5
//	pattern=^[a-z]+$
//	expr="value % 2 == 0"
//	lenmin=1
//
// Parameters can be written as Go quoted strings.
func Parse(text string) (Constraint, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Constraint{}, fmt.Errorf("empty constraint")
	}

	name, param, hasParam := strings.Cut(text, "=")

	var kind Kind
	if err := kind.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return Constraint{}, err
	}

	if !kind.HasParam() {
		if hasParam {
			return Constraint{}, fmt.Errorf("%s takes no parameter, got %q", kind, param)
		}
		return NotNull(), nil
	}

	if !hasParam {
		return Constraint{}, fmt.Errorf("%s demands a parameter in a form %s=<value>", kind, name)
	}

	param, err := unquoteParam(strings.TrimSpace(param))
	if err != nil {
		return Constraint{}, fmt.Errorf("parse %s parameter: %w", kind, err)
	}
	if param == "" {
		return Constraint{}, fmt.Errorf("%s parameter must not be empty", kind)
	}

	switch kind {
	case KindMin, KindMax:
		bound, ok := new(big.Rat).SetString(param)
		if !ok {
			return Constraint{}, fmt.Errorf("invalid numeric parameter for %s: %q", kind, param)
		}
		return Constraint{
			kind:  kind,
			param: param,
			bound: bound,
		}, nil

	case KindLenMin, KindLenMax:
		n, err := strconv.Atoi(param)
		if err != nil {
			return Constraint{}, fmt.Errorf("invalid length parameter for %s: %w", kind, err)
		}
		if n < 0 {
			return Constraint{}, fmt.Errorf("%s bound must not be negative, got %d", kind, n)
		}
		return lengthBound(kind, n), nil

	case KindPattern:
		return Pattern(param)

	case KindExpr:
		return Expr(param)

	default:
		panic(fmt.Errorf("missing handling for constraint kind %s", kind))
	}
}

// MustParse is like [Parse] but panics on invalid text.
func MustParse(text string) Constraint {
	c, err := Parse(text)
	if err != nil {
		panic(err)
	}

	return c
}

func unquoteParam(param string) (string, error) {
	if !strings.HasPrefix(param, `"`) && !strings.HasPrefix(param, "`") {
		return param, nil
	}

	return strconv.Unquote(param)
}

func needsQuoting(param string) bool {
	if param == "" {
		return true
	}
	if param[0] == '"' || param[0] == '`' {
		return true
	}

	return strings.ContainsAny(param, " \t\n\r,")
}
