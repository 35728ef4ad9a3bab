package directive

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"strings"
	"sync"

	"golang.org/x/tools/go/packages"

	"github.com/sirkon/mockguard/metadata"
)

// Source reads constraints from //mockguard: directives in the source code
// of target types. Packages are loaded with go/packages, test files included,
// so types declared in _test.go files are found too.
//
//	//mockguard:target
//	type Calculator interface {
//		//mockguard:param input notnull min=0
//		Square(input *int) int
//	}
//
// Types without any directive are unknown to the source, mark ones with
// no constraints with //mockguard:target.
type Source struct {
	dir        string
	buildFlags []string

	mu   sync.RWMutex
	pkgs map[string]*loaded
}

type loaded struct {
	fset  *token.FileSet
	files map[string][]*ast.File // package path → files
	err   error
}

// Option configures a [Source].
type Option func(*Source)

// WithDir sets a directory packages are loaded from. It defaults to the current one.
func WithDir(dir string) Option {
	return func(s *Source) {
		s.dir = dir
	}
}

// WithBuildFlags sets build flags for loading packages, like -tags.
func WithBuildFlags(flags ...string) Option {
	return func(s *Source) {
		s.buildFlags = flags
	}
}

// NewSource creates a directive source.
func NewSource(opts ...Option) *Source {
	s := &Source{
		pkgs: map[string]*loaded{},
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Declarations implements [metadata.Source].
func (s *Source) Declarations(t metadata.TargetType) (*metadata.TypeDecl, error) {
	if t.PkgPath() == "" || t.PkgPath() == "main" {
		return nil, fmt.Errorf("%w: cannot load sources of %s", metadata.ErrNoMetadata, t)
	}

	name, _, _ := strings.Cut(t.Name(), "[")
	decl, err := s.Lookup(t.PkgPath(), name)
	if err != nil {
		return nil, err
	}
	if !decl.HasDirectives() {
		return nil, fmt.Errorf("%w: %s has no mockguard directives", metadata.ErrNoMetadata, t)
	}

	// Methods with pointer receivers are not in the method set of value targets.
	res := decl.Metadata()
	methods := res.Methods[:0]
	for _, m := range res.Methods {
		if _, ok := t.Method(m.Name); ok {
			methods = append(methods, m)
		}
	}
	res.Methods = methods

	return res, nil
}

// Lookup finds the type declaration in the package and collects its directives.
// Malformed directives are reported as an error with source positions.
func (s *Source) Lookup(pkgPath, name string) (*TypeDecl, error) {
	l := s.load(pkgPath)
	if l.err != nil {
		return nil, fmt.Errorf("load package %s: %w", pkgPath, l.err)
	}

	decl, probs, found := FindType(l.files[pkgPath], name)
	if !found {
		return nil, fmt.Errorf("%w: declaration of %s not found in %s", metadata.ErrNoMetadata, name, pkgPath)
	}
	if len(probs) > 0 {
		errs := make([]error, len(probs))
		for i, p := range probs {
			errs[i] = fmt.Errorf("%s: %s", l.fset.Position(p.Pos), p)
		}

		return nil, fmt.Errorf("invalid directives: %w", errors.Join(errs...))
	}

	return decl, nil
}

// load returns files of the package and its test variants. Results are
// cached per package path.
func (s *Source) load(pkgPath string) *loaded {
	pattern := strings.TrimSuffix(pkgPath, "_test")

	s.mu.RLock()
	l, hit := s.pkgs[pattern]
	s.mu.RUnlock()
	if hit {
		return l
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if l, hit = s.pkgs[pattern]; hit {
		return l
	}

	l = &loaded{
		fset:  token.NewFileSet(),
		files: map[string][]*ast.File{},
	}
	s.pkgs[pattern] = l

	cfg := &packages.Config{
		Mode:       packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
		Dir:        s.dir,
		BuildFlags: s.buildFlags,
		Fset:       l.fset,
		Tests:      true,
	}
	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		l.err = err
		return l
	}

	// Test variants repeat non-test files of the package.
	seen := map[string]bool{}
	var pkgErrs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			if e.Kind == packages.ListError {
				pkgErrs = append(pkgErrs, e)
			}
		}

		for _, f := range pkg.Syntax {
			fname := l.fset.Position(f.Pos()).Filename
			key := pkg.PkgPath + "\x00" + fname
			if seen[key] {
				continue
			}
			seen[key] = true
			l.files[pkg.PkgPath] = append(l.files[pkg.PkgPath], f)
		}
	}
	switch {
	case len(l.files) > 0:
	case len(pkgErrs) > 0:
		l.err = fmt.Errorf("no sources found: %w", errors.Join(pkgErrs...))
	default:
		l.err = errors.New("no sources found")
	}

	return l
}
