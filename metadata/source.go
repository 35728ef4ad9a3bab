package metadata

import (
	"errors"
	"fmt"

	"github.com/sirkon/mockguard/constraint"
)

// Source provides constraints declared for a target type.
//
// Sources must return an error matching [ErrNoMetadata] when they know nothing
// about the type at all and a non-nil [TypeDecl] when the type is known, even
// with zero constraints declared.
type Source interface {
	Declarations(t TargetType) (*TypeDecl, error)
}

// SourceFunc is an adapter to use ordinary functions as a [Source].
type SourceFunc func(t TargetType) (*TypeDecl, error)

// Declarations calls f(t).
func (f SourceFunc) Declarations(t TargetType) (*TypeDecl, error) {
	return f(t)
}

// TypeDecl is everything a source knows about a target type.
type TypeDecl struct {
	Methods []MethodDecl
}

// MethodDecl holds declarations for a single method. Methods are addressed
// by name: Go has no overloading, signatures are resolved against the target.
type MethodDecl struct {
	Name string

	// ParamNames are optional. They must match the method arity when set.
	ParamNames []string

	Params []ParamDecl
}

// ParamDecl binds constraints to a parameter referenced either by its
// name or by its position.
type ParamDecl struct {
	// Name takes precedence over Index when not empty.
	Name  string
	Index int

	Constraints []constraint.Constraint
}

func (p ParamDecl) String() string {
	if p.Name != "" {
		return p.Name
	}

	return fmt.Sprintf("#%d", p.Index)
}

// Sources merges declarations of multiple sources. A type is unknown to the
// result only when it is unknown to every source. Constraints declared for
// the same parameter by different sources are stacked.
func Sources(srcs ...Source) Source {
	return SourceFunc(func(t TargetType) (*TypeDecl, error) {
		var (
			res   *TypeDecl
			known bool
		)
		for _, src := range srcs {
			decl, err := src.Declarations(t)
			if err != nil {
				if errors.Is(err, ErrNoMetadata) {
					continue
				}

				return nil, err
			}

			if !known {
				res = &TypeDecl{}
				known = true
			}
			if decl != nil {
				res.Methods = append(res.Methods, decl.Methods...)
			}
		}

		if !known {
			return nil, fmt.Errorf("%w: none of %d sources know %s", ErrNoMetadata, len(srcs), t)
		}

		return res, nil
	})
}
