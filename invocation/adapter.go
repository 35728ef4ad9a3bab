package invocation

import (
	"fmt"

	"github.com/sirkon/mockguard/metadata"
)

// Invocation is a call recorded against a mock, bound to a method of the target type.
type Invocation struct {
	// Seq is a 1-based position of the call in the mock history.
	Seq int

	Signature metadata.Signature

	// Args are actual arguments, one per signature parameter. Variadic
	// parameters are expected to be recorded as a single slice argument.
	Args []any
}

func (inv *Invocation) String() string {
	return fmt.Sprintf("#%d %s", inv.Seq, inv.Signature.Name)
}

// Adapter turns calls of a [Source] into invocations of target type methods.
type Adapter struct {
	src Source
}

// NewAdapter creates an adapter over the source.
func NewAdapter(src Source) *Adapter {
	return &Adapter{src: src}
}

// InvocationsOf returns invocations the mock received, oldest first.
// The mock history is only read.
func (a *Adapter) InvocationsOf(mock any, target metadata.TargetType) ([]*Invocation, error) {
	calls, err := a.src.Calls(mock)
	if err != nil {
		return nil, fmt.Errorf("get calls of %T: %w", mock, err)
	}

	res := make([]*Invocation, 0, len(calls))
	for i, call := range calls {
		seq := i + 1

		method, ok := target.Method(call.Method)
		if !ok {
			return nil, fmt.Errorf("call #%d: %w %s of %s", seq, ErrUnknownMethod, call.Method, target)
		}

		sig := method.Signature
		if len(call.Args) != sig.Arity() {
			return nil, fmt.Errorf(
				"call #%d of %s: %w: got %d arguments for %d parameters",
				seq, sig, ErrArity, len(call.Args), sig.Arity(),
			)
		}

		res = append(res, &Invocation{
			Seq:       seq,
			Signature: sig,
			Args:      call.Args,
		})
	}

	return res, nil
}
