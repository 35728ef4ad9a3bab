package invocation

import (
	"fmt"
	"sync"
)

// Journal is an append-only call log for hand-written fakes:
//
//	type fakeCalculator struct {
//		invocation.Journal
//	}
//
//	func (f *fakeCalculator) Square(input *int) int {
//		f.Record("Square", input)
//		return 0
//	}
//
// It is safe for concurrent use.
type Journal struct {
	mu    sync.Mutex
	calls []Call
}

// Record adds a new call to the journal.
func (j *Journal) Record(method string, args ...any) {
	j.mu.Lock()
	j.calls = append(j.calls, Call{
		Method: method,
		Args:   append([]any(nil), args...),
	})
	j.mu.Unlock()
}

// Calls returns a snapshot of recorded calls.
func (j *Journal) Calls() []Call {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]Call, len(j.calls))
	for i, c := range j.calls {
		out[i] = Call{
			Method: c.Method,
			Args:   append([]any(nil), c.Args...),
		}
	}
	return out
}

// Len returns the number of recorded calls.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.calls)
}

// Reset drops recorded calls.
func (j *Journal) Reset() {
	j.mu.Lock()
	j.calls = nil
	j.mu.Unlock()
}

// Journaled is implemented by types exposing a [Journal], including ones embedding it.
type Journaled interface {
	CallJournal() *Journal
}

// CallJournal returns the journal itself, this makes types embedding Journal
// implement [Journaled].
func (j *Journal) CallJournal() *Journal {
	return j
}

// JournalSource reads calls of [Journaled] mocks.
type JournalSource struct{}

// Calls implements [Source].
func (JournalSource) Calls(m any) ([]Call, error) {
	jm, ok := m.(Journaled)
	if !ok {
		return nil, fmt.Errorf("%w: %T has no call journal", ErrUnsupportedMock, m)
	}

	j := jm.CallJournal()
	if j == nil {
		return nil, fmt.Errorf("%w: %T has nil call journal", ErrUnsupportedMock, m)
	}

	return j.Calls(), nil
}

// Default reads testify mocks and journaled fakes.
func Default() Source {
	return Testify{Fallback: JournalSource{}}
}
