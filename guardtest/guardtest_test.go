package guardtest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sirkon/mockguard"
	"github.com/sirkon/mockguard/constraint"
	"github.com/sirkon/mockguard/invocation"
	"github.com/sirkon/mockguard/metadata"
)

type Squarer interface {
	Square(input *int) int
}

type fakeSquarer struct {
	invocation.Journal
}

func (f *fakeSquarer) Square(input *int) int {
	f.Record("Square", input)
	return 0
}

// recorder captures failures instead of failing the test.
type recorder struct {
	errors []string
	failed bool
}

func (r *recorder) Errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *recorder) FailNow() {
	r.failed = true
}

func squarerVerifier(t *testing.T) *mockguard.Verifier {
	reg := metadata.NewRegistry()
	reg.Type(metadata.Target[Squarer]()).Method("Square").Params("input").Named("input", constraint.NotNull())

	v, err := mockguard.For[Squarer](reg)
	require.NoError(t, err)

	return v
}

func TestNoViolations(t *testing.T) {
	v := squarerVerifier(t)

	t.Run("clean", func(t *testing.T) {
		f := &fakeSquarer{}
		x := 1
		f.Square(&x)

		var r recorder
		require.True(t, NoViolations(&r, v, f))
		require.Empty(t, r.errors)
	})

	t.Run("violated", func(t *testing.T) {
		f := &fakeSquarer{}
		f.Square(nil)

		var r recorder
		require.False(t, NoViolations(&r, v, f))
		require.Len(t, r.errors, 1)
		require.True(t, strings.Contains(r.errors[0], "NOT_NULL violated by null"), r.errors[0])
	})

	t.Run("unreadable mock", func(t *testing.T) {
		var r recorder
		require.False(t, NoViolations(&r, v, struct{}{}))
		require.Len(t, r.errors, 1)
	})
}

func TestRequireNoViolations(t *testing.T) {
	v := squarerVerifier(t)

	f := &fakeSquarer{}
	f.Square(nil)

	var r recorder
	RequireNoViolations(&r, v, f)
	require.True(t, r.failed)

	clean := &fakeSquarer{}
	var ok recorder
	RequireNoViolations(&ok, v, clean)
	require.False(t, ok.failed)
}

func TestEmpty(t *testing.T) {
	var r recorder
	require.True(t, Empty(&r, nil))
	require.Empty(t, r.errors)
}
