package metadata

import (
	"fmt"
	"reflect"
	"strings"
)

// Signature identifies a method: its name plus parameter type descriptors.
// Receiver is not a part of the signature.
type Signature struct {
	Name   string
	Params []string
}

// Key returns a string form usable as a map key, like Square(*int).
func (s Signature) Key() string {
	return s.Name + "(" + strings.Join(s.Params, ", ") + ")"
}

func (s Signature) String() string {
	return s.Key()
}

// Arity returns the number of method parameters.
func (s Signature) Arity() int {
	return len(s.Params)
}

// Method describes a single method of a target type.
type Method struct {
	Signature Signature

	// ParamNames are declared parameter names. They are only known when
	// some metadata source provided them, entries may be empty.
	ParamNames []string
}

// TargetType is the real (un-mocked) type whose methods carry constraints.
type TargetType struct {
	typ     reflect.Type
	methods []Method
	byName  map[string]int
}

// TargetOf resolves a target type. It takes either reflect.Type or a value:
//
//	metadata.TargetOf(reflect.TypeFor[Squarer]())
//	metadata.TargetOf((*Squarer)(nil))
//	metadata.TargetOf(&Service{})
//
// Pointers to interfaces are resolved into interfaces themselves. Pointers
// to other named types are kept, so methods with pointer receivers belong
// to the target.
//
// Function-local types have the same [Reference] as package level types of
// the same name, see [Registry] for how this is handled.
func TargetOf(v any) (TargetType, error) {
	var typ reflect.Type
	switch vv := v.(type) {
	case nil:
		return TargetType{}, fmt.Errorf("cannot resolve target of untyped nil")
	case reflect.Type:
		typ = vv
	default:
		typ = reflect.TypeOf(v)
	}

	if typ.Kind() == reflect.Pointer && typ.Elem().Kind() == reflect.Interface {
		typ = typ.Elem()
	}
	if baseType(typ).Name() == "" {
		return TargetType{}, fmt.Errorf("target type %s must be a named type", typ)
	}

	return newTargetType(typ), nil
}

// Target is a typed shortcut for [TargetOf]. It panics on unnamed types.
func Target[T any]() TargetType {
	t, err := TargetOf(reflect.TypeFor[T]())
	if err != nil {
		panic(err)
	}

	return t
}

func newTargetType(typ reflect.Type) TargetType {
	t := TargetType{
		typ:    typ,
		byName: map[string]int{},
	}

	isIface := typ.Kind() == reflect.Interface
	for i := 0; i < typ.NumMethod(); i++ {
		m := typ.Method(i)
		sig := Signature{Name: m.Name}

		start := 1 // receiver
		if isIface {
			start = 0
		}

		ft := m.Type
		for j := start; j < ft.NumIn(); j++ {
			in := ft.In(j)
			if ft.IsVariadic() && j == ft.NumIn()-1 {
				sig.Params = append(sig.Params, "..."+in.Elem().String())
				continue
			}
			sig.Params = append(sig.Params, in.String())
		}

		t.byName[m.Name] = len(t.methods)
		t.methods = append(t.methods, Method{
			Signature:  sig,
			ParamNames: make([]string, len(sig.Params)),
		})
	}

	return t
}

// Type returns the underlying reflect.Type. It is an identity of the target.
func (t TargetType) Type() reflect.Type {
	return t.typ
}

// PkgPath returns the import path of the package declaring the type.
func (t TargetType) PkgPath() string {
	return baseType(t.typ).PkgPath()
}

// Name returns package-local type name. Pointer targets are named after their base types.
func (t TargetType) Name() string {
	return baseType(t.typ).Name()
}

// baseType strips a pointer from *T, where T is named.
func baseType(typ reflect.Type) reflect.Type {
	if typ.Kind() == reflect.Pointer && typ.Name() == "" {
		return typ.Elem()
	}

	return typ
}

// Reference returns a reference to the target type.
func (t TargetType) Reference() Reference {
	return Reference{
		Package: t.PkgPath(),
		Type:    t.Name(),
	}
}

func (t TargetType) String() string {
	return t.typ.String()
}

// Methods returns methods of the type in the order reflect reports them (sorted by name).
func (t TargetType) Methods() []Method {
	res := make([]Method, len(t.methods))
	copy(res, t.methods)
	return res
}

// Method looks for a method with the given name.
func (t TargetType) Method(name string) (Method, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Method{}, false
	}

	return t.methods[i], true
}
