package metadata

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type calculator interface {
	Square(input *int) int
	Divide(dividend, divisor int) (int, error)
	Label(name string, tags ...string) string
}

type service struct{}

func (service) Get(key string) string { return key }

func (*service) Put(key string, value []byte) {}

type printer interface {
	Square(input *int) int
}

type calculatorMock struct {
	mock.Mock
}

func (m *calculatorMock) Square(input *int) int {
	return m.Called(input).Int(0)
}

func TestTargetOf(t *testing.T) {
	type test struct {
		name    string
		target  any
		tname   string
		methods []string
		wantErr bool
	}

	tests := []test{
		{
			name:    "pointer to interface",
			target:  (*calculator)(nil),
			tname:   "calculator",
			methods: []string{"Divide(int, int)", "Label(string, ...string)", "Square(*int)"},
		},
		{
			name:    "reflect type",
			target:  reflect.TypeFor[calculator](),
			tname:   "calculator",
			methods: []string{"Divide(int, int)", "Label(string, ...string)", "Square(*int)"},
		},
		{
			name:    "value",
			target:  service{},
			tname:   "service",
			methods: []string{"Get(string)"},
		},
		{
			name:    "pointer",
			target:  &service{},
			tname:   "service",
			methods: []string{"Get(string)", "Put(string, []uint8)"},
		},
		{
			name:    "unnamed",
			target:  struct{}{},
			wantErr: true,
		},
		{
			name:    "nil",
			target:  nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := TargetOf(tt.target)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			require.Equal(t, tt.tname, target.Name())
			require.Equal(t, "github.com/sirkon/mockguard/metadata", target.PkgPath())

			var methods []string
			for _, m := range target.Methods() {
				methods = append(methods, m.Signature.Key())
			}
			require.Equal(t, tt.methods, methods)
		})
	}
}

func TestTargetMethod(t *testing.T) {
	target := Target[calculator]()

	m, ok := target.Method("Divide")
	require.True(t, ok)
	require.Equal(t, 2, m.Signature.Arity())
	require.Equal(t, []string{"", ""}, m.ParamNames)

	_, ok = target.Method("Multiply")
	require.False(t, ok)

	require.Equal(t, Reference{Package: "github.com/sirkon/mockguard/metadata", Type: "calculator"}, target.Reference())
}

func TestTargetPanicsOnUnnamed(t *testing.T) {
	require.Panics(t, func() {
		Target[struct{ A int }]()
	})
}
