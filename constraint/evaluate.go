package constraint

import (
	"cmp"
	"fmt"
	"math"
	"math/big"
	"reflect"
)

// Outcome is a verdict of a single constraint evaluation.
type Outcome int

const (
	outcomeInvalid Outcome = iota

	// OutcomePassed means the value satisfies the constraint.
	OutcomePassed

	// OutcomeViolated means the value breaks the constraint.
	OutcomeViolated

	// OutcomeTypeMismatch means the constraint cannot be applied to a value
	// of this type at all, e.g. MIN over a string.
	OutcomeTypeMismatch
)

func (o Outcome) String() string {
	switch o {
	case OutcomePassed:
		return "passed"
	case OutcomeViolated:
		return "violated"
	case OutcomeTypeMismatch:
		return "type-mismatch"
	default:
		return fmt.Sprintf("outcome-invalid(%d)", o)
	}
}

// Result of [Evaluate].
type Result struct {
	Outcome Outcome

	// Mismatch is set for OutcomeTypeMismatch only.
	Mismatch *TypeMismatchError
}

// Failed tells if the result is to be reported.
func (r Result) Failed() bool {
	return r.Outcome != OutcomePassed
}

// TypeMismatchError describes a value a constraint cannot be applied to.
// It is a diagnostic for reports, it is not returned from [Evaluate].
type TypeMismatchError struct {
	Kind Kind
	Want string
	Got  string

	// Err is an underlying cause, if any.
	Err error
}

func (e *TypeMismatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s expects %s, got %s: %s", e.Kind, e.Want, e.Got, e.Err)
	}

	return fmt.Sprintf("%s expects %s, got %s", e.Kind, e.Want, e.Got)
}

func (e *TypeMismatchError) Unwrap() error {
	return e.Err
}

var (
	passed   = Result{Outcome: OutcomePassed}
	violated = Result{Outcome: OutcomeViolated}
)

func mismatch(kind Kind, want string, v reflect.Value, err error) Result {
	return Result{
		Outcome: OutcomeTypeMismatch,
		Mismatch: &TypeMismatchError{
			Kind: kind,
			Want: want,
			Got:  v.Type().String(),
			Err:  err,
		},
	}
}

// Evaluate checks the value against the constraint.
//
// Null values (nil, typed nil pointers, maps, slices, channels, funcs and
// interfaces) fail NOT_NULL and pass every other constraint. Non-nil pointers
// are dereferenced before checks, a nil met on the way is null as well.
func Evaluate(c Constraint, value any) Result {
	if IsNull(value) {
		if c.kind == KindNotNull {
			return violated
		}
		return passed
	}

	if c.kind == KindNotNull {
		return passed
	}

	v := deref(reflect.ValueOf(value))
	switch c.kind {
	case KindMin, KindMax:
		return evalBound(c, v)
	case KindPattern:
		return verdict(c.re.MatchString(stringify(v)))
	case KindLenMin, KindLenMax:
		return evalLength(c, v)
	case KindExpr:
		ok, err := evalExpr(c.prg, v.Interface())
		if err != nil {
			return mismatch(c.kind, "a value the expression accepts", v, err)
		}
		return verdict(ok)
	default:
		panic(fmt.Errorf("evaluate invalid constraint of %s", c.kind))
	}
}

// IsNull tells if the value is absent: nil itself, a typed nil or a chain of
// non-nil pointers ending at one.
func IsNull(value any) bool {
	if value == nil {
		return true
	}

	return isNil(deref(reflect.ValueOf(value)))
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return v.IsNil()
	default:
		return false
	}
}

func verdict(ok bool) Result {
	if ok {
		return passed
	}

	return violated
}

func deref(v reflect.Value) reflect.Value {
	for (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) && !v.IsNil() {
		v = v.Elem()
	}

	return v
}

func evalBound(c Constraint, v reflect.Value) Result {
	var x *big.Rat
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		x = new(big.Rat).SetInt64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		x = new(big.Rat).SetInt(new(big.Int).SetUint64(v.Uint()))
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		switch {
		case math.IsNaN(f):
			return violated
		case math.IsInf(f, 1):
			return verdict(c.kind == KindMin)
		case math.IsInf(f, -1):
			return verdict(c.kind == KindMax)
		}
		return boundVerdict(c.kind, cmp.Compare(f, c.floatBound(v.Kind() == reflect.Float32)))
	default:
		return mismatch(c.kind, "number", v, nil)
	}

	return boundVerdict(c.kind, x.Cmp(c.bound))
}

func boundVerdict(kind Kind, cmp int) Result {
	if kind == KindMin {
		return verdict(cmp >= 0)
	}

	return verdict(cmp <= 0)
}

// floatBound is the bound rounded to the precision of a float argument, so
// that max=0.1 admits the float nearest to 0.1.
func (c Constraint) floatBound(single bool) float64 {
	if single {
		b, _ := c.bound.Float32()
		return float64(b)
	}

	b, _ := c.bound.Float64()
	return b
}

func evalLength(c Constraint, v reflect.Value) Result {
	switch v.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
	default:
		return mismatch(c.kind, "string, slice, array, map or channel", v, nil)
	}

	l := v.Len()
	if c.kind == KindLenMin {
		return verdict(l >= c.length)
	}

	return verdict(l <= c.length)
}

var stringerType = reflect.TypeFor[fmt.Stringer]()

func stringify(v reflect.Value) string {
	if v.Type().Implements(stringerType) {
		return fmt.Sprint(v.Interface())
	}
	if v.CanAddr() && v.Addr().Type().Implements(stringerType) {
		return fmt.Sprint(v.Addr().Interface())
	}

	switch {
	case v.Kind() == reflect.String:
		return v.String()
	case v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8:
		return string(v.Bytes())
	default:
		return fmt.Sprint(v.Interface())
	}
}
