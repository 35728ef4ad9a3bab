package invocation

import (
	"errors"
	"sync"
	"testing"
)

type fakeCalculator struct {
	Journal
}

func (f *fakeCalculator) Square(input *int) int {
	f.Record("Square", input)
	if input == nil {
		return 0
	}
	return *input * *input
}

func TestJournal_Record(t *testing.T) {
	var f fakeCalculator
	x := 3
	f.Square(&x)
	f.Square(nil)

	calls := f.Calls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(calls))
	}
	if calls[0].Method != "Square" || calls[0].Args[0] != &x {
		t.Errorf("unexpected first call %#v", calls[0])
	}
	if p := calls[1].Args[0].(*int); p != nil {
		t.Errorf("expected typed nil argument, got %v", p)
	}

	f.Reset()
	if f.Len() != 0 {
		t.Errorf("expected empty journal after reset, got %d calls", f.Len())
	}
}

func TestJournal_ConcurrencySafety(t *testing.T) {
	const n = 500
	var (
		j  Journal
		wg sync.WaitGroup
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			j.Record("Add", i)
		}(i)
	}
	wg.Wait()

	calls := j.Calls()
	if len(calls) != n {
		t.Fatalf("expected %d calls, got %d", n, len(calls))
	}
	calls[0].Method = "changed"
	calls[0].Args[0] = "changed"
	calls2 := j.Calls()
	if calls2[0].Method == "changed" || calls2[0].Args[0] == "changed" {
		t.Fatalf("Calls() returned shared data, expected copy")
	}
}

func TestJournalSource(t *testing.T) {
	f := &fakeCalculator{}
	f.Record("Square", nil)

	calls, err := JournalSource{}.Calls(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}

	if _, err := (JournalSource{}).Calls(struct{}{}); !errors.Is(err, ErrUnsupportedMock) {
		t.Errorf("expected unsupported mock error, got %v", err)
	}

	var nilJournal *Journal
	if _, err := (JournalSource{}).Calls(nilJournal); !errors.Is(err, ErrUnsupportedMock) {
		t.Errorf("expected unsupported mock error for nil journal, got %v", err)
	}
}
