package metadata

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/sirkon/mockguard/constraint"
)

// ParamConstraints are constraint sets indexed by parameter position.
// An empty set means the parameter is not constrained.
type ParamConstraints [][]constraint.Constraint

// Constrained tells if at least one parameter has a constraint.
func (p ParamConstraints) Constrained() bool {
	for _, cs := range p {
		if len(cs) > 0 {
			return true
		}
	}

	return false
}

// MethodConstraints are constraints of a single method.
type MethodConstraints struct {
	Method Method
	Params ParamConstraints
}

// ConstraintMap maps method signatures of a target to their parameter constraints.
// It is read-only once built.
type ConstraintMap struct {
	target  TargetType
	methods map[string]*MethodConstraints
	order   []string
}

// Target returns the type the map was extracted from.
func (m *ConstraintMap) Target() TargetType {
	return m.target
}

// Lookup returns constraints of the method with the given signature.
// Methods without any constraint are reported as not found.
func (m *ConstraintMap) Lookup(sig Signature) (MethodConstraints, bool) {
	mc, ok := m.methods[sig.Key()]
	if !ok {
		return MethodConstraints{}, false
	}

	return *mc, true
}

// Methods returns constrained methods ordered by name.
func (m *ConstraintMap) Methods() []MethodConstraints {
	res := make([]MethodConstraints, 0, len(m.order))
	for _, key := range m.order {
		res = append(res, *m.methods[key])
	}

	return res
}

// Len returns the number of constrained methods.
func (m *ConstraintMap) Len() int {
	return len(m.order)
}

// Extractor extracts constraints of target types from a [Source].
// Every type is extracted at most once, later calls are served from cache.
// It is safe for concurrent use.
type Extractor struct {
	src Source

	mu    sync.RWMutex
	cache map[reflect.Type]extracted
}

type extracted struct {
	m   *ConstraintMap
	err error
}

// NewExtractor creates an extractor over the given source.
func NewExtractor(src Source) *Extractor {
	return &Extractor{
		src:   src,
		cache: map[reflect.Type]extracted{},
	}
}

// Extract returns constraints of the target. Errors are of *MetadataExtractionError type.
func (e *Extractor) Extract(t TargetType) (*ConstraintMap, error) {
	e.mu.RLock()
	res, hit := e.cache[t.Type()]
	e.mu.RUnlock()
	if hit {
		return res.m, res.err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if res, hit = e.cache[t.Type()]; !hit {
		m, err := e.extract(t)
		if err != nil {
			err = &MetadataExtractionError{
				Target: t.String(),
				Err:    err,
			}
		}

		res = extracted{m: m, err: err}
		e.cache[t.Type()] = res
	}

	return res.m, res.err
}

func (e *Extractor) extract(t TargetType) (*ConstraintMap, error) {
	if isMock(t.Type()) {
		return nil, fmt.Errorf("%s is a test double, constraints are declared on the real type", t)
	}

	decl, err := e.src.Declarations(t)
	if err != nil {
		return nil, err
	}
	if decl == nil {
		return nil, fmt.Errorf("%w: source returned no declarations for %s", ErrNoMetadata, t)
	}

	return resolve(t, decl)
}

// resolve checks declarations against the real method set and binds them to signatures.
func resolve(t TargetType, decl *TypeDecl) (*ConstraintMap, error) {
	res := &ConstraintMap{
		target:  t,
		methods: map[string]*MethodConstraints{},
	}

	// Names go first: constraints may be bound by names declared in another source.
	var errs []error
	bound := make([]*MethodConstraints, len(decl.Methods))
	for i, md := range decl.Methods {
		method, ok := t.Method(md.Name)
		if !ok {
			errs = append(errs, fmt.Errorf("unknown method %s", md.Name))
			continue
		}

		key := method.Signature.Key()
		mc, ok := res.methods[key]
		if !ok {
			method.ParamNames = slices.Clone(method.ParamNames)
			mc = &MethodConstraints{
				Method: method,
				Params: make(ParamConstraints, method.Signature.Arity()),
			}
			res.methods[key] = mc
		}
		bound[i] = mc

		if len(md.ParamNames) == 0 {
			continue
		}
		if len(md.ParamNames) != method.Signature.Arity() {
			errs = append(errs, fmt.Errorf(
				"method %s: %d parameter names declared for %d parameters",
				method.Signature, len(md.ParamNames), method.Signature.Arity(),
			))
			continue
		}
		if err := mergeNames(mc.Method.ParamNames, md.ParamNames); err != nil {
			errs = append(errs, fmt.Errorf("method %s: %w", method.Signature, err))
		}
	}

	for i, md := range decl.Methods {
		mc := bound[i]
		if mc == nil {
			continue
		}

		for _, p := range md.Params {
			idx, err := paramIndex(mc.Method, p)
			if err != nil {
				errs = append(errs, fmt.Errorf("method %s: %w", mc.Method.Signature, err))
				continue
			}

			for _, c := range p.Constraints {
				if !c.Valid() {
					errs = append(errs, fmt.Errorf("method %s: parameter %s: invalid constraint", mc.Method.Signature, p))
					continue
				}
				mc.Params[idx] = append(mc.Params[idx], c)
			}
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	for key, mc := range res.methods {
		for i, cs := range mc.Params {
			mc.Params[i] = constraint.Dedup(cs)
		}
		if !mc.Params.Constrained() {
			delete(res.methods, key)
			continue
		}
		res.order = append(res.order, key)
	}
	slices.Sort(res.order)

	return res, nil
}

func mergeNames(dst, src []string) error {
	for i, name := range src {
		switch {
		case name == "":
		case dst[i] == "":
			dst[i] = name
		case dst[i] != name:
			return fmt.Errorf("parameter #%d declared both as %q and %q", i, dst[i], name)
		}
	}

	return nil
}

func paramIndex(m Method, p ParamDecl) (int, error) {
	if p.Name != "" {
		if i := slices.Index(m.ParamNames, p.Name); i >= 0 {
			return i, nil
		}

		return 0, fmt.Errorf("unknown parameter %q", p.Name)
	}

	if p.Index < 0 || p.Index >= m.Signature.Arity() {
		return 0, fmt.Errorf("parameter index %d out of range [0, %d)", p.Index, m.Signature.Arity())
	}

	return p.Index, nil
}

const testifyMockPkg = "github.com/stretchr/testify/mock"

// isMock detects testify test doubles: structs embedding mock.Mock.
func isMock(typ reflect.Type) bool {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return false
	}

	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if f.Anonymous && ft.PkgPath() == testifyMockPkg && ft.Name() == "Mock" {
			return true
		}
	}

	return false
}
