// Package guardtest surfaces constraint reports as test failures with testify.
package guardtest

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirkon/mockguard"
)

// Empty asserts the report has no entries.
func Empty(t assert.TestingT, report mockguard.Report, msgAndArgs ...any) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}

	if report.Empty() {
		return true
	}

	return assert.Fail(t, "mock invocations break declared constraints:\n"+report.String(), msgAndArgs...)
}

// NoViolations verifies the mock and asserts there is nothing to report.
func NoViolations(t assert.TestingT, v *mockguard.Verifier, mock any, msgAndArgs ...any) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}

	report, err := v.VerifyConstraints(mock)
	if !assert.NoError(t, err, msgAndArgs...) {
		return false
	}

	return Empty(t, report, msgAndArgs...)
}

// RequireNoViolations is like [NoViolations] but stops the test on failure.
func RequireNoViolations(t require.TestingT, v *mockguard.Verifier, mock any, msgAndArgs ...any) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}

	if !NoViolations(t, v, mock, msgAndArgs...) {
		t.FailNow()
	}
}
