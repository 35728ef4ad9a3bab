package mockguard

import (
	"fmt"
	"strings"

	"github.com/sirkon/mockguard/constraint"
	"github.com/sirkon/mockguard/invocation"
)

// Violation is a single failed check of a recorded invocation argument.
type Violation struct {
	Invocation *invocation.Invocation
	ParamIndex int

	// ParamName is empty unless some metadata source declared parameter names.
	ParamName string

	Constraint constraint.Constraint
	Value      any

	// Outcome is either constraint.OutcomeViolated or constraint.OutcomeTypeMismatch.
	Outcome constraint.Outcome

	// Mismatch describes OutcomeTypeMismatch entries.
	Mismatch *constraint.TypeMismatchError
}

// Method returns the name of the invoked method.
func (v Violation) Method() string {
	return v.Invocation.Signature.Name
}

func (v Violation) String() string {
	param := fmt.Sprintf("param %d", v.ParamIndex)
	if v.ParamName != "" {
		param += " (" + v.ParamName + ")"
	}

	if v.Outcome == constraint.OutcomeTypeMismatch {
		return fmt.Sprintf("call #%d %s: %s: %s", v.Invocation.Seq, v.Invocation.Signature, param, v.Mismatch)
	}

	return fmt.Sprintf(
		"call #%d %s: %s: %s violated by %s",
		v.Invocation.Seq, v.Invocation.Signature, param, v.Constraint, formatValue(v.Value),
	)
}

func formatValue(value any) string {
	if constraint.IsNull(value) {
		return "null"
	}

	if s, ok := value.(string); ok {
		return fmt.Sprintf("%q", s)
	}

	return fmt.Sprintf("%v", value)
}

// Report is an ordered list of violations: by invocation order first, then
// by parameter index, then by constraint declaration order. An empty report
// means every recorded invocation satisfied every declared constraint.
type Report []Violation

// Empty tells if there is nothing to report.
func (r Report) Empty() bool {
	return len(r) == 0
}

// Violations returns entries of genuine precondition breaches.
func (r Report) Violations() Report {
	return r.filter(constraint.OutcomeViolated)
}

// Mismatches returns entries where constraints could not be applied to
// argument types, these are metadata and test double disagreements.
func (r Report) Mismatches() Report {
	return r.filter(constraint.OutcomeTypeMismatch)
}

func (r Report) filter(o constraint.Outcome) Report {
	var res Report
	for _, v := range r {
		if v.Outcome == o {
			res = append(res, v)
		}
	}

	return res
}

// String returns a compact, human-readable form, one entry per line.
func (r Report) String() string {
	if r.Empty() {
		return "no violations"
	}

	var b strings.Builder
	for i, v := range r {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(v.String())
	}

	return b.String()
}

// Err returns nil for an empty report and a *ReportError otherwise. It is
// meant for callers who want to fail a test on any entry.
func (r Report) Err() error {
	if r.Empty() {
		return nil
	}

	return &ReportError{Report: r}
}

// ReportError wraps a non-empty report.
type ReportError struct {
	Report Report
}

func (e *ReportError) Error() string {
	return fmt.Sprintf(
		"%d constraint violations (%d type mismatches):\n%s",
		len(e.Report), len(e.Report.Mismatches()), e.Report,
	)
}
