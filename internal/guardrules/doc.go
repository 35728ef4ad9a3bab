// Package guardrules defines the canonical rule codes (MG-series) for
// diagnostics about //mockguard: directives.
//
// Each rule identifies a distinct way a directive can be wrong, so findings
// can be reported, filtered and referenced consistently by the analyzer and
// by the directive source.
//
// Rule numbering scheme:
//
//	000–009  Directive syntax
//	010–019  Parameter references
//	020–029  Constraint text
//	030–039  Constraint and parameter type agreement
//
// Example:
//
//	guardrules.MG010UnknownParam.String()      → "MG010: UnknownParam"
//	guardrules.MG010UnknownParam.Description() → "Directive refers to a parameter the method does not have."
package guardrules
