package metadata

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/sirkon/mockguard/constraint"
)

// Registry is an explicit constraint registry. It is a substitute for
// parameter annotations Go does not have:
//
//	reg := metadata.NewRegistry()
//	reg.Type(metadata.Target[Calculator]()).
//		Method("Square").Params("input").Param(0, constraint.NotNull()).
//		Method("Divide").Named("divisor", constraint.NotNull(), constraint.Min(1))
//
// Mistakes like unknown methods or parameters are reported at extraction,
// when the registry is checked against the real type.
//
// Types are keyed by [Reference], function-local types of the same name in
// one package share it. The first type registered with [Registry.Type] owns
// the reference and other types of this name get no declarations. Registering
// a second type under the reference makes the declarations of both unusable.
type Registry struct {
	mu    sync.RWMutex
	types map[Reference]*registryType
}

type registryType struct {
	// typ is the first type registered under the reference. It is nil for
	// references registered with TypeRef only.
	typ     reflect.Type
	clashes []reflect.Type
	methods []*MethodDecl
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types: map[Reference]*registryType{},
	}
}

// Type registers a target type. A registered type is known to the registry
// even if no constraints were declared for it.
func (r *Registry) Type(t TargetType) *TypeBuilder {
	b := r.TypeRef(t.Reference())

	r.mu.Lock()
	defer r.mu.Unlock()

	rt := r.types[b.ref]
	switch typ := baseType(t.Type()); {
	case rt.typ == nil:
		rt.typ = typ
	case rt.typ != typ && !slices.Contains(rt.clashes, typ):
		rt.clashes = append(rt.clashes, typ)
	}

	return b
}

// TypeRef registers a type by its reference.
func (r *Registry) TypeRef(ref Reference) *TypeBuilder {
	ref = ref.TypeRef()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.types[ref]; !ok {
		r.types[ref] = &registryType{}
	}

	return &TypeBuilder{reg: r, ref: ref}
}

// Refs returns references of all registered types.
func (r *Registry) Refs() []Reference {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]Reference, 0, len(r.types))
	for ref := range r.types {
		res = append(res, ref)
	}
	slices.SortFunc(res, func(a, b Reference) int {
		if c := cmp.Compare(a.Package, b.Package); c != 0 {
			return c
		}
		return cmp.Compare(a.Type, b.Type)
	})

	return res
}

// Declarations implements [Source].
func (r *Registry) Declarations(t TargetType) (*TypeDecl, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, ok := r.types[t.Reference()]
	if !ok {
		return nil, fmt.Errorf("%w: type %s is not registered", ErrNoMetadata, t.Reference())
	}

	typ := baseType(t.Type())
	switch {
	case len(rt.clashes) > 0:
		return nil, fmt.Errorf("distinct types share the name %s, declarations cannot be told apart", t.Reference())
	case rt.typ != nil && rt.typ != typ:
		return nil, fmt.Errorf("%w: %s is registered for another type of the same name", ErrNoMetadata, t.Reference())
	}

	res := &TypeDecl{Methods: make([]MethodDecl, 0, len(rt.methods))}
	for _, m := range rt.methods {
		cp := MethodDecl{
			Name:       m.Name,
			ParamNames: slices.Clone(m.ParamNames),
			Params:     make([]ParamDecl, len(m.Params)),
		}
		for i, p := range m.Params {
			p.Constraints = slices.Clone(p.Constraints)
			cp.Params[i] = p
		}
		res.Methods = append(res.Methods, cp)
	}

	return res, nil
}

func (r *Registry) method(ref Reference, name string) *MethodDecl {
	rt := r.types[ref]
	for _, m := range rt.methods {
		if m.Name == name {
			return m
		}
	}

	m := &MethodDecl{Name: name}
	rt.methods = append(rt.methods, m)
	return m
}

// TypeBuilder declares methods of a registered type.
type TypeBuilder struct {
	reg *Registry
	ref Reference
}

// Method starts or continues declarations for the method.
func (b *TypeBuilder) Method(name string) *MethodBuilder {
	b.reg.mu.Lock()
	defer b.reg.mu.Unlock()

	return &MethodBuilder{
		typ:  b,
		decl: b.reg.method(b.ref, name),
	}
}

// MethodBuilder declares parameter constraints of a method.
type MethodBuilder struct {
	typ  *TypeBuilder
	decl *MethodDecl
}

// Params declares parameter names, so that constraints can be bound by them.
func (b *MethodBuilder) Params(names ...string) *MethodBuilder {
	b.typ.reg.mu.Lock()
	b.decl.ParamNames = slices.Clone(names)
	b.typ.reg.mu.Unlock()

	return b
}

// Param binds constraints to a parameter at the given position.
func (b *MethodBuilder) Param(index int, cs ...constraint.Constraint) *MethodBuilder {
	return b.add(ParamDecl{Index: index, Constraints: cs})
}

// Named binds constraints to a parameter with the given name. The name must
// be declared with [MethodBuilder.Params] or known from another source.
func (b *MethodBuilder) Named(name string, cs ...constraint.Constraint) *MethodBuilder {
	return b.add(ParamDecl{Name: name, Constraints: cs})
}

// Method switches to another method of the same type.
func (b *MethodBuilder) Method(name string) *MethodBuilder {
	return b.typ.Method(name)
}

func (b *MethodBuilder) add(p ParamDecl) *MethodBuilder {
	b.typ.reg.mu.Lock()
	b.decl.Params = append(b.decl.Params, ParamDecl{
		Name:        p.Name,
		Index:       p.Index,
		Constraints: slices.Clone(p.Constraints),
	})
	b.typ.reg.mu.Unlock()

	return b
}
