// Package invocation reads calls recorded by test doubles.
//
// Mocking frameworks are plugged in through [Source]. Support for
// github.com/stretchr/testify/mock is built in, as is [Journal], a minimal
// call log for hand-written fakes. [Adapter] binds raw calls to methods of the
// real type by their full signatures and enforces that every call carries
// exactly one argument per parameter.
package invocation
