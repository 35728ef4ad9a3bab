package directive

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"

	"github.com/sirkon/mockguard/constraint"
	"github.com/sirkon/mockguard/internal/guardrules"
)

const doc = `mockguard checks //mockguard: directives

Directives declare preconditions of method parameters, they are verified
against calls recorded by test doubles. The analyzer reports directives
referring to unknown parameters, unparsable constraints and constraints
that do not agree with parameter types.`

// Analyzer checks //mockguard: directives.
var Analyzer = &analysis.Analyzer{
	Name:     "mockguard",
	Doc:      doc,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

func run(pass *analysis.Pass) (any, error) {
	pector := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.GenDecl)(nil),
		(*ast.FuncDecl)(nil),
	}

	pector.Preorder(nodeFilter, func(node ast.Node) {
		switch n := node.(type) {
		case *ast.GenDecl:
			checkGenDecl(pass, n)
		case *ast.FuncDecl:
			checkFuncDecl(pass, n)
		}
	})

	return nil, nil
}

func report(pass *analysis.Pass, pos token.Pos, rule guardrules.Rule, msg string) {
	if msg == "" {
		msg = rule.Description()
	}

	pass.Report(analysis.Diagnostic{
		Pos:      pos,
		Category: rule.String(),
		Message:  fmt.Sprintf("%s: %s", rule, msg),
	})
}

func reportProblems(pass *analysis.Pass, probs []Problem) {
	for _, p := range probs {
		report(pass, p.Pos, p.Rule, p.Message)
	}
}

func checkGenDecl(pass *analysis.Pass, gd *ast.GenDecl) {
	if gd.Tok != token.TYPE {
		return
	}

	for _, spec := range gd.Specs {
		ts := spec.(*ast.TypeSpec)
		doc := ts.Doc
		if doc == nil && !gd.Lparen.IsValid() {
			doc = gd.Doc
		}

		dirs, probs := ParseDoc(doc)
		reportProblems(pass, probs)
		for _, d := range dirs {
			if d.Kind != KindTarget {
				report(pass, d.Pos, guardrules.MisplacedDirective(), "param directives belong to method docs")
			}
		}

		it, ok := ts.Type.(*ast.InterfaceType)
		if !ok {
			continue
		}
		for _, field := range it.Methods.List {
			ft, ok := field.Type.(*ast.FuncType)
			if !ok || len(field.Names) == 0 {
				continue
			}

			checkMethod(pass, field.Doc, ft)
		}
	}
}

func checkFuncDecl(pass *analysis.Pass, fd *ast.FuncDecl) {
	if fd.Recv == nil {
		dirs, probs := ParseDoc(fd.Doc)
		reportProblems(pass, probs)
		for _, d := range dirs {
			report(pass, d.Pos, guardrules.MisplacedDirective(), "directives can only be attached to methods and types")
		}
		return
	}

	checkMethod(pass, fd.Doc, fd.Type)
}

func checkMethod(pass *analysis.Pass, doc *ast.CommentGroup, ft *ast.FuncType) {
	dirs, probs := ParseDoc(doc)
	reportProblems(pass, probs)
	if len(dirs) == 0 {
		return
	}

	params := FlattenParams(ft)
	for _, d := range dirs {
		if d.Kind != KindParam {
			report(pass, d.Pos, guardrules.MisplacedDirective(), "target directives belong to type docs")
			continue
		}

		idx, ok := resolveParam(pass, d, params)
		if !ok {
			continue
		}

		typ := paramType(pass, params[idx].Type)
		if typ == nil {
			continue
		}
		for _, c := range d.Constraints {
			checkAgreement(pass, d, c, typ)
		}
	}
}

func resolveParam(pass *analysis.Pass, d Directive, params []Param) (int, bool) {
	if idx, ok := d.ParamIndex(); ok {
		if idx >= len(params) {
			report(pass, d.Pos, guardrules.ParamIndexOutOfRange(), fmt.Sprintf(
				"parameter %s is out of range, method has %d parameters", d.Param, len(params),
			))
			return 0, false
		}
		return idx, true
	}

	for i, p := range params {
		if p.Name == d.Param {
			return i, true
		}
	}

	report(pass, d.Pos, guardrules.UnknownParam(), fmt.Sprintf("method has no parameter %q", d.Param))
	return 0, false
}

func paramType(pass *analysis.Pass, expr ast.Expr) types.Type {
	if ell, ok := expr.(*ast.Ellipsis); ok {
		elt := pass.TypesInfo.TypeOf(ell.Elt)
		if elt == nil {
			return nil
		}
		return types.NewSlice(elt)
	}

	return pass.TypesInfo.TypeOf(expr)
}

func checkAgreement(pass *analysis.Pass, d Directive, c constraint.Constraint, typ types.Type) {
	switch c.Kind() {
	case constraint.KindNotNull:
		if !nillable(typ) {
			report(pass, d.Pos, guardrules.NotNullNeverFails(), fmt.Sprintf(
				"parameter %s of type %s can never be nil", d.Param, typ,
			))
		}

	case constraint.KindMin, constraint.KindMax:
		u := derefType(typ).Underlying()
		if _, ok := u.(*types.Interface); ok {
			return
		}
		if b, ok := u.(*types.Basic); !ok || b.Info()&types.IsNumeric == 0 {
			report(pass, d.Pos, guardrules.BoundOnNonNumeric(), fmt.Sprintf(
				"%s cannot be applied to parameter %s of type %s", c, d.Param, typ,
			))
		}

	case constraint.KindLenMin, constraint.KindLenMax:
		switch u := derefType(typ).Underlying().(type) {
		case *types.Interface, *types.Slice, *types.Array, *types.Map, *types.Chan:
		case *types.Basic:
			if u.Info()&types.IsString == 0 {
				report(pass, d.Pos, guardrules.LengthOnNonLengthy(), fmt.Sprintf(
					"%s cannot be applied to parameter %s of type %s", c, d.Param, typ,
				))
			}
		default:
			report(pass, d.Pos, guardrules.LengthOnNonLengthy(), fmt.Sprintf(
				"%s cannot be applied to parameter %s of type %s", c, d.Param, typ,
			))
		}
	}
}

func nillable(typ types.Type) bool {
	switch u := typ.Underlying().(type) {
	case *types.Pointer, *types.Slice, *types.Map, *types.Chan, *types.Signature, *types.Interface:
		return true
	case *types.Basic:
		return u.Kind() == types.UnsafePointer || u.Kind() == types.UntypedNil
	default:
		return false
	}
}

func derefType(typ types.Type) types.Type {
	for {
		p, ok := typ.Underlying().(*types.Pointer)
		if !ok {
			return typ
		}
		typ = p.Elem()
	}
}
