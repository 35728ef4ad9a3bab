package guardrules

import "fmt"

// Rule represents a mockguard rule code (MG-series).
type Rule int

const (
	ruleInvalid Rule = iota

	MG001UnknownDirective
	MG002MalformedDirective
	MG003MisplacedDirective
	MG010UnknownParam
	MG011ParamIndexOutOfRange
	MG012UnnamedParam
	MG020BadConstraint
	MG030BoundOnNonNumeric
	MG031LengthOnNonLengthy
	MG032NotNullNeverFails
)

// String returns the canonical code and short name of the rule.
// Example: "MG001: UnknownDirective"
func (r Rule) String() string {
	switch r {
	case MG001UnknownDirective:
		return "MG001: UnknownDirective"
	case MG002MalformedDirective:
		return "MG002: MalformedDirective"
	case MG003MisplacedDirective:
		return "MG003: MisplacedDirective"
	case MG010UnknownParam:
		return "MG010: UnknownParam"
	case MG011ParamIndexOutOfRange:
		return "MG011: ParamIndexOutOfRange"
	case MG012UnnamedParam:
		return "MG012: UnnamedParam"
	case MG020BadConstraint:
		return "MG020: BadConstraint"
	case MG030BoundOnNonNumeric:
		return "MG030: BoundOnNonNumeric"
	case MG031LengthOnNonLengthy:
		return "MG031: LengthOnNonLengthy"
	case MG032NotNullNeverFails:
		return "MG032: NotNullNeverFails"
	default:
		return fmt.Sprintf("rule-unknown(%d)", r)
	}
}

// Description returns the human-readable explanation of the rule.
func (r Rule) Description() string {
	switch r {
	case MG001UnknownDirective:
		return "Only //mockguard:target and //mockguard:param directives exist."
	case MG002MalformedDirective:
		return "Param directive must name a parameter and list at least one constraint."
	case MG003MisplacedDirective:
		return "Param directives belong to method docs, target directives to type docs."
	case MG010UnknownParam:
		return "Directive refers to a parameter the method does not have."
	case MG011ParamIndexOutOfRange:
		return "Directive refers to a parameter position the method does not have."
	case MG012UnnamedParam:
		return "Parameters of unnamed or blank name can only be referred by position."
	case MG020BadConstraint:
		return "Constraint text cannot be parsed."
	case MG030BoundOnNonNumeric:
		return "Numeric bounds can only be applied to numeric parameters."
	case MG031LengthOnNonLengthy:
		return "Length bounds can only be applied to strings, slices, arrays, maps and channels."
	case MG032NotNullNeverFails:
		return "Parameter of this type can never be nil, the constraint never fails."
	default:
		return fmt.Sprintf("unknown-rule(%d)", r)
	}
}

// Constructors keep call sites readable.

func UnknownDirective() Rule     { return MG001UnknownDirective }
func MalformedDirective() Rule   { return MG002MalformedDirective }
func MisplacedDirective() Rule   { return MG003MisplacedDirective }
func UnknownParam() Rule         { return MG010UnknownParam }
func ParamIndexOutOfRange() Rule { return MG011ParamIndexOutOfRange }
func UnnamedParam() Rule         { return MG012UnnamedParam }
func BadConstraint() Rule        { return MG020BadConstraint }
func BoundOnNonNumeric() Rule    { return MG030BoundOnNonNumeric }
func LengthOnNonLengthy() Rule   { return MG031LengthOnNonLengthy }
func NotNullNeverFails() Rule    { return MG032NotNullNeverFails }
