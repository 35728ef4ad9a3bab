package invocation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sirkon/mockguard/metadata"
)

type calculator interface {
	Square(input *int) int
	Label(name string, tags ...string) string
}

type calculatorMock struct {
	mock.Mock
}

func (m *calculatorMock) Square(input *int) int {
	return m.Called(input).Int(0)
}

func (m *calculatorMock) Label(name string, tags ...string) string {
	return m.Called(name, tags).String(0)
}

type calculatorPtrMock struct {
	*mock.Mock
}

func TestTestify(t *testing.T) {
	m := &calculatorMock{}
	m.On("Square", mock.Anything).Return(4)
	m.On("Label", "x", []string{"a"}).Return("x")

	x := 2
	m.Square(&x)
	m.Label("x", "a")

	calls, err := Testify{}.Calls(m)
	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.Equal(t, Call{Method: "Square", Args: []any{&x}}, calls[0])
	assert.Equal(t, Call{Method: "Label", Args: []any{"x", []string{"a"}}}, calls[1])

	// The history of the mock stays intact.
	calls[0].Args[0] = nil
	assert.Equal(t, &x, m.Calls[0].Arguments[0])
	m.AssertNumberOfCalls(t, "Square", 1)

	t.Run("bare mock", func(t *testing.T) {
		calls, err := Testify{}.Calls(&m.Mock)
		require.NoError(t, err)
		require.Len(t, calls, 2)
	})

	t.Run("embedded pointer", func(t *testing.T) {
		calls, err := Testify{}.Calls(&calculatorPtrMock{Mock: &m.Mock})
		require.NoError(t, err)
		require.Len(t, calls, 2)

		_, err = Testify{}.Calls(&calculatorPtrMock{})
		require.ErrorIs(t, err, ErrUnsupportedMock)
	})

	t.Run("not a mock", func(t *testing.T) {
		_, err := Testify{}.Calls(struct{}{})
		require.ErrorIs(t, err, ErrUnsupportedMock)

		_, err = Testify{}.Calls(nil)
		require.ErrorIs(t, err, ErrUnsupportedMock)
	})
}

func TestDefaultSource(t *testing.T) {
	f := &fakeCalculator{}
	f.Square(nil)

	calls, err := Default().Calls(f)
	require.NoError(t, err)
	require.Len(t, calls, 1)

	m := &calculatorMock{}
	m.On("Square", mock.Anything).Return(0)
	m.Square(nil)

	calls, err = Default().Calls(m)
	require.NoError(t, err)
	require.Len(t, calls, 1)
}

func TestAdapterInvocationsOf(t *testing.T) {
	target := metadata.Target[calculator]()

	src := SourceFunc(func(any) ([]Call, error) {
		return []Call{
			{Method: "Square", Args: []any{(*int)(nil)}},
			{Method: "Label", Args: []any{"x", []string{"a", "b"}}},
		}, nil
	})

	invs, err := NewAdapter(src).InvocationsOf(nil, target)
	require.NoError(t, err)
	require.Len(t, invs, 2)

	assert.Equal(t, 1, invs[0].Seq)
	assert.Equal(t, "Square(*int)", invs[0].Signature.Key())
	assert.Equal(t, 2, invs[1].Seq)
	assert.Equal(t, "Label(string, ...string)", invs[1].Signature.Key())
	assert.Equal(t, "#2 Label", invs[1].String())
}

func TestAdapterErrors(t *testing.T) {
	target := metadata.Target[calculator]()

	type test struct {
		name  string
		calls []Call
		err   error
	}

	boom := errors.New("boom")
	tests := []test{
		{
			name:  "unknown method",
			calls: []Call{{Method: "Cube", Args: []any{1}}},
			err:   ErrUnknownMethod,
		},
		{
			name:  "too many arguments",
			calls: []Call{{Method: "Square", Args: []any{nil, nil}}},
			err:   ErrArity,
		},
		{
			name:  "variadic spread",
			calls: []Call{{Method: "Label", Args: []any{"x", "a", "b"}}},
			err:   ErrArity,
		},
		{
			name: "source failure",
			err:  boom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := SourceFunc(func(any) ([]Call, error) {
				if tt.calls == nil {
					return nil, boom
				}
				return tt.calls, nil
			})

			_, err := NewAdapter(src).InvocationsOf(nil, target)
			require.ErrorIs(t, err, tt.err)
		})
	}
}
