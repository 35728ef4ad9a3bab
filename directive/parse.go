package directive

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"
	"strings"

	"github.com/sirkon/mockguard/constraint"
	"github.com/sirkon/mockguard/internal/guardrules"
	"github.com/sirkon/mockguard/metadata"
)

const prefix = "//mockguard:"

// Kind of a directive.
type Kind int

const (
	kindInvalid Kind = iota

	// KindTarget marks a type as a constraint target: "//mockguard:target".
	KindTarget

	// KindParam declares parameter constraints: "//mockguard:param <name|#index> <constraints>".
	KindParam
)

func (k Kind) String() string {
	switch k {
	case KindTarget:
		return "target"
	case KindParam:
		return "param"
	default:
		return fmt.Sprintf("directive-kind-invalid(%d)", k)
	}
}

// Directive is a single parsed //mockguard: comment line.
type Directive struct {
	Pos  token.Pos
	Kind Kind

	// Param is either a parameter name or a position in "#N" form.
	Param       string
	Constraints []constraint.Constraint
}

// ParamIndex returns the referenced parameter position for "#N" references.
func (d Directive) ParamIndex() (int, bool) {
	if !strings.HasPrefix(d.Param, "#") {
		return 0, false
	}

	n, err := strconv.Atoi(d.Param[1:])
	if err != nil {
		return 0, false
	}

	return n, true
}

// Problem is a diagnostic for a malformed or misplaced directive.
type Problem struct {
	Pos     token.Pos
	Rule    guardrules.Rule
	Message string
}

func (p Problem) String() string {
	if p.Message == "" {
		return p.Rule.String() + " " + p.Rule.Description()
	}

	return p.Rule.String() + " " + p.Message
}

// ParseDoc extracts directives out of a doc comment. Lines that are not
// directives are ignored.
func ParseDoc(doc *ast.CommentGroup) ([]Directive, []Problem) {
	if doc == nil {
		return nil, nil
	}

	var (
		dirs  []Directive
		probs []Problem
	)
	for _, c := range doc.List {
		if !strings.HasPrefix(c.Text, prefix) {
			continue
		}

		d, err := parseLine(c.Text[len(prefix):])
		if err != nil {
			probs = append(probs, Problem{
				Pos:     c.Pos(),
				Rule:    err.rule,
				Message: err.msg,
			})
			continue
		}

		d.Pos = c.Pos()
		dirs = append(dirs, d)
	}

	return dirs, probs
}

type lineError struct {
	rule guardrules.Rule
	msg  string
}

func parseLine(line string) (Directive, *lineError) {
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case "target":
		if rest != "" {
			return Directive{}, &lineError{
				rule: guardrules.MalformedDirective(),
				msg:  fmt.Sprintf("target directive takes no arguments, got %q", rest),
			}
		}
		return Directive{Kind: KindTarget}, nil

	case "param":
		ref, list, _ := strings.Cut(rest, " ")
		if ref == "" || strings.TrimSpace(list) == "" {
			return Directive{}, &lineError{rule: guardrules.MalformedDirective()}
		}

		if err := checkParamRef(ref); err != nil {
			return Directive{}, err
		}

		cs, err := constraint.ParseList(list)
		if err != nil {
			return Directive{}, &lineError{
				rule: guardrules.BadConstraint(),
				msg:  err.Error(),
			}
		}

		return Directive{
			Kind:        KindParam,
			Param:       ref,
			Constraints: cs,
		}, nil

	default:
		return Directive{}, &lineError{
			rule: guardrules.UnknownDirective(),
			msg:  fmt.Sprintf("unknown directive %q", prefix+name),
		}
	}
}

func checkParamRef(ref string) *lineError {
	if idx, ok := strings.CutPrefix(ref, "#"); ok {
		if n, err := strconv.Atoi(idx); err != nil || n < 0 {
			return &lineError{
				rule: guardrules.MalformedDirective(),
				msg:  fmt.Sprintf("invalid parameter position %q", ref),
			}
		}
		return nil
	}

	if ref == "_" {
		return &lineError{rule: guardrules.UnnamedParam()}
	}
	if !metadata.IsIdent(ref) {
		return &lineError{
			rule: guardrules.MalformedDirective(),
			msg:  fmt.Sprintf("invalid parameter name %q", ref),
		}
	}

	return nil
}

// Param is a flattened method parameter.
type Param struct {
	Name string // empty for unnamed and blank parameters
	Type ast.Expr
}

// Method is a method declaration with its directives.
type Method struct {
	Name       string
	Pos        token.Pos
	Params     []Param
	Directives []Directive
}

// TypeDecl holds directives found for a type declaration.
type TypeDecl struct {
	Name    string
	Pos     token.Pos
	Marked  bool
	Methods []Method
}

// HasDirectives tells if the type carries any directive at all.
func (d *TypeDecl) HasDirectives() bool {
	if d.Marked {
		return true
	}
	for _, m := range d.Methods {
		if len(m.Directives) > 0 {
			return true
		}
	}

	return false
}

// Metadata converts directives into declarations for the extractor.
func (d *TypeDecl) Metadata() *metadata.TypeDecl {
	res := &metadata.TypeDecl{}
	for _, m := range d.Methods {
		if len(m.Directives) == 0 {
			continue
		}

		md := metadata.MethodDecl{Name: m.Name}
		for _, p := range m.Params {
			if p.Name != "" {
				md.ParamNames = paramNames(m.Params)
				break
			}
		}

		for _, dir := range m.Directives {
			pd := metadata.ParamDecl{Constraints: dir.Constraints}
			if idx, ok := dir.ParamIndex(); ok {
				pd.Index = idx
			} else {
				pd.Name = dir.Param
			}
			md.Params = append(md.Params, pd)
		}

		res.Methods = append(res.Methods, md)
	}

	return res
}

func paramNames(params []Param) []string {
	res := make([]string, len(params))
	for i, p := range params {
		res[i] = p.Name
	}

	return res
}

// FindType looks for a declaration of the named type in files and collects
// directives of the type and its methods. Methods are either interface
// methods or methods declared with the type as a receiver.
func FindType(files []*ast.File, name string) (*TypeDecl, []Problem, bool) {
	var (
		res   *TypeDecl
		probs []Problem
	)

	for _, file := range files {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}

			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				if ts.Name.Name != name {
					continue
				}

				res = &TypeDecl{Name: name, Pos: ts.Pos()}
				doc := ts.Doc
				if doc == nil && !gd.Lparen.IsValid() {
					doc = gd.Doc
				}
				dirs, ps := ParseDoc(doc)
				probs = append(probs, ps...)
				for _, d := range dirs {
					if d.Kind != KindTarget {
						probs = append(probs, Problem{Pos: d.Pos, Rule: guardrules.MisplacedDirective()})
						continue
					}
					res.Marked = true
				}

				if it, ok := ts.Type.(*ast.InterfaceType); ok {
					for _, field := range it.Methods.List {
						ft, ok := field.Type.(*ast.FuncType)
						if !ok || len(field.Names) == 0 {
							continue // embedded
						}

						dirs, ps := ParseDoc(field.Doc)
						probs = append(probs, ps...)
						res.Methods = append(res.Methods, Method{
							Name:       field.Names[0].Name,
							Pos:        field.Pos(),
							Params:     FlattenParams(ft),
							Directives: dirs,
						})
					}
				}
			}
		}
	}
	if res == nil {
		return nil, nil, false
	}

	for _, file := range files {
		for _, decl := range file.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Recv == nil || len(fd.Recv.List) == 0 {
				continue
			}
			if ReceiverName(fd.Recv.List[0].Type) != name {
				continue
			}

			dirs, ps := ParseDoc(fd.Doc)
			probs = append(probs, ps...)
			res.Methods = append(res.Methods, Method{
				Name:       fd.Name.Name,
				Pos:        fd.Pos(),
				Params:     FlattenParams(fd.Type),
				Directives: dirs,
			})
		}
	}

	return res, probs, true
}

// FlattenParams turns grouped parameters like (a, b int) into separate ones.
func FlattenParams(ft *ast.FuncType) []Param {
	if ft.Params == nil {
		return nil
	}

	var res []Param
	for _, field := range ft.Params.List {
		if len(field.Names) == 0 {
			res = append(res, Param{Type: field.Type})
			continue
		}

		for _, n := range field.Names {
			name := n.Name
			if name == "_" {
				name = ""
			}
			res = append(res, Param{Name: name, Type: field.Type})
		}
	}

	return res
}

// ReceiverName returns the base type name of a receiver: T for T, *T, T[K] and *T[K].
func ReceiverName(expr ast.Expr) string {
	for {
		switch e := expr.(type) {
		case *ast.StarExpr:
			expr = e.X
		case *ast.ParenExpr:
			expr = e.X
		case *ast.IndexExpr:
			expr = e.X
		case *ast.IndexListExpr:
			expr = e.X
		case *ast.Ident:
			return e.Name
		default:
			return ""
		}
	}
}
