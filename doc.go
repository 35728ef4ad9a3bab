// Package mockguard verifies that calls recorded by test doubles satisfy
// preconditions declared for the real methods they stand in for.
//
// A mock accepts anything: a test may pass nil where the real implementation
// dereferences its argument and still be green. mockguard closes the gap.
// Constraints are declared for the real type, through a [metadata.Registry],
// YAML registry files (package regfile) or //mockguard: directives in the
// source code (package directive), and checked after the fact against every
// recorded call:
//
//	reg := metadata.NewRegistry()
//	reg.Type(metadata.Target[Calculator]()).
//		Method("Square").Params("input").Named("input", constraint.NotNull())
//
//	v, err := mockguard.For[Calculator](reg)
//	...
//	m := &calculatorMock{}
//	m.On("Square", mock.Anything).Return(0)
//	runCodeUnderTest(m)
//
//	report, err := v.VerifyConstraints(m)
//	...
//	if !report.Empty() {
//		t.Error(report)
//	}
//
// Package guardtest provides testify-style assertions over reports.
package mockguard
