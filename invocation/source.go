package invocation

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/stretchr/testify/mock"
)

var (
	// ErrUnsupportedMock is returned by sources for mock instances they cannot read.
	ErrUnsupportedMock = errors.New("unsupported mock instance")

	// ErrUnknownMethod is returned for recorded calls of methods the target does not have.
	ErrUnknownMethod = errors.New("unknown method")

	// ErrArity is returned for recorded calls whose argument count differs from
	// the parameter count of the method.
	ErrArity = errors.New("argument count mismatch")
)

// Call is a single call as a mocking framework sees it.
type Call struct {
	Method string
	Args   []any
}

// Source provides calls a mock instance received, oldest first.
// Sources must not mutate or clear the history of the mock.
type Source interface {
	Calls(mock any) ([]Call, error)
}

// SourceFunc is an adapter to use ordinary functions as a [Source].
type SourceFunc func(mock any) ([]Call, error)

// Calls calls f(mock).
func (f SourceFunc) Calls(mock any) ([]Call, error) {
	return f(mock)
}

// Testify reads calls recorded by github.com/stretchr/testify/mock. It
// accepts *mock.Mock itself or a pointer to a struct embedding mock.Mock.
// Other values are passed to Fallback when it is set.
type Testify struct {
	Fallback Source
}

// Calls implements [Source].
func (s Testify) Calls(m any) ([]Call, error) {
	tm := testifyMock(m)
	if tm == nil {
		if s.Fallback != nil {
			return s.Fallback.Calls(m)
		}

		return nil, fmt.Errorf("%w: %T does not embed mock.Mock", ErrUnsupportedMock, m)
	}

	calls := tm.Calls
	res := make([]Call, len(calls))
	for i, c := range calls {
		res[i] = Call{
			Method: c.Method,
			Args:   append([]any(nil), c.Arguments...),
		}
	}

	return res, nil
}

var testifyMockType = reflect.TypeFor[mock.Mock]()

func testifyMock(m any) *mock.Mock {
	switch v := m.(type) {
	case nil:
		return nil
	case *mock.Mock:
		return v
	}

	rv := reflect.ValueOf(m)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil
	}

	rv = rv.Elem()
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Type().Field(i)
		if !f.Anonymous {
			continue
		}

		switch {
		case f.Type == testifyMockType:
			return rv.Field(i).Addr().Interface().(*mock.Mock)
		case f.Type == reflect.PointerTo(testifyMockType) && !rv.Field(i).IsNil():
			return rv.Field(i).Interface().(*mock.Mock)
		}
	}

	return nil
}
