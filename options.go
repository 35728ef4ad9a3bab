package mockguard

import (
	"log/slog"

	"github.com/sirkon/mockguard/invocation"
	"github.com/sirkon/mockguard/metadata"
)

// Option configures a [Verifier].
type Option func(*Verifier)

// WithInvocationSource sets a source of recorded calls. Testify mocks and
// [invocation.Journal] based fakes are read by default.
func WithInvocationSource(src invocation.Source) Option {
	return func(v *Verifier) {
		v.calls = src
	}
}

// WithLogger sets a logger for debug messages. Nothing is logged by default.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Verifier) {
		v.logger = logger
	}
}

// WithExtractor makes the verifier use a shared extractor and its cache.
// The metadata source given to [New] is ignored then and may be nil.
func WithExtractor(e *metadata.Extractor) Option {
	return func(v *Verifier) {
		v.extractor = e
	}
}
