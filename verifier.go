package mockguard

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/sirkon/mockguard/constraint"
	"github.com/sirkon/mockguard/invocation"
	"github.com/sirkon/mockguard/metadata"
)

// Verifier checks invocations recorded by test doubles of a single target
// type against constraints declared for the target.
//
// Constraints are extracted once, at construction. Invocations are requested
// from the mock on every [Verifier.VerifyConstraints] call and never cached,
// so one verifier per test, or at least one mock per test, keeps reports clean
// of calls made by unrelated tests.
type Verifier struct {
	target      metadata.TargetType
	constraints *metadata.ConstraintMap

	extractor *metadata.Extractor
	calls     invocation.Source
	adapter   *invocation.Adapter
	logger    *slog.Logger
}

// New creates a verifier for the target, which is either reflect.Type or a
// value of the type (nil pointers to interfaces are fine):
//
//	v, err := mockguard.New((*Calculator)(nil), registry)
//
// Extraction errors are of *metadata.MetadataExtractionError type.
func New(target any, src metadata.Source, opts ...Option) (*Verifier, error) {
	t, err := metadata.TargetOf(target)
	if err != nil {
		return nil, fmt.Errorf("resolve target: %w", err)
	}

	v := &Verifier{
		target: t,
		calls:  invocation.Default(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(v)
	}

	if v.extractor == nil {
		if src == nil {
			return nil, errors.New("no metadata source given")
		}
		v.extractor = metadata.NewExtractor(src)
	}
	v.adapter = invocation.NewAdapter(v.calls)

	v.constraints, err = v.extractor.Extract(t)
	if err != nil {
		return nil, err
	}

	var params int
	for _, mc := range v.constraints.Methods() {
		for _, cs := range mc.Params {
			if len(cs) > 0 {
				params++
			}
		}
	}
	v.logger.Debug(
		"constraints extracted",
		slog.String("target", t.String()),
		slog.Int("methods", len(t.Methods())),
		slog.Int("constrained-methods", v.constraints.Len()),
		slog.Int("constrained-params", params),
	)

	return v, nil
}

// For is a typed shortcut for [New].
func For[T any](src metadata.Source, opts ...Option) (*Verifier, error) {
	return New(reflect.TypeFor[T](), src, opts...)
}

// Target returns the real type the verifier checks invocations against.
func (v *Verifier) Target() metadata.TargetType {
	return v.target
}

// Constraints returns constraints extracted for the target.
func (v *Verifier) Constraints() *metadata.ConstraintMap {
	return v.constraints
}

// VerifyConstraints checks every invocation the mock recorded so far.
//
// It does not assert anything: violations and type mismatches are returned in
// the report, the error is only returned when the invocation history cannot be
// read or disagrees with the target type. The history is not consumed, the
// same history always yields an equal report.
func (v *Verifier) VerifyConstraints(mock any) (Report, error) {
	invs, err := v.adapter.InvocationsOf(mock, v.target)
	if err != nil {
		return nil, fmt.Errorf("read invocations: %w", err)
	}

	var report Report
	for _, inv := range invs {
		mc, ok := v.constraints.Lookup(inv.Signature)
		if !ok {
			continue
		}

		for i, cs := range mc.Params {
			for _, c := range cs {
				res := constraint.Evaluate(c, inv.Args[i])
				if !res.Failed() {
					continue
				}

				report = append(report, Violation{
					Invocation: inv,
					ParamIndex: i,
					ParamName:  mc.Method.ParamNames[i],
					Constraint: c,
					Value:      inv.Args[i],
					Outcome:    res.Outcome,
					Mismatch:   res.Mismatch,
				})
			}
		}
	}

	v.logger.Debug(
		"invocations verified",
		slog.String("target", v.target.String()),
		slog.Int("invocations", len(invs)),
		slog.Int("violations", len(report.Violations())),
		slog.Int("mismatches", len(report.Mismatches())),
	)

	return report, nil
}
