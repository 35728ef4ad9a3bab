// Package constraint defines parameter preconditions and their evaluation.
//
// A [Constraint] is a kind plus kind-specific parameter:
//
//	NOT_NULL       value must be present
//	MIN(n), MAX(n) numeric bounds, inclusive
//	PATTERN(re)    stringified value must match re as a whole
//	LEN_MIN(n)     len(value) >= n
//	LEN_MAX(n)     len(value) <= n
//	EXPR(src)      CEL expression over `value` must be true
//
// [Evaluate] is pure. It never fails for expected outcomes: a value out of
// range is [OutcomeViolated], a value of a type the constraint cannot be
// applied to is [OutcomeTypeMismatch] with a [TypeMismatchError] attached.
//
// Null values are only checked by NOT_NULL, the rest pass on them vacuously.
// This way a single nil argument is never reported as both missing and out
// of range.
package constraint
