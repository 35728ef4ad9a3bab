package metadata

import (
	"bytes"
	"encoding"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Reference identifies a declared type, or a method of it, by its package
// path and names. It is used where reflect.Type is not available, such as
// registry files.
type Reference struct {
	// Package is the import path of the package that declares the type
	// (e.g., "io", or "example.com/project/module").
	Package string

	// Type is the package-local name of the type.
	Type string

	// Method is a method name. It is empty for references to types.
	Method string
}

func (r Reference) String() string {
	v, err := r.MarshalText()
	if err != nil {
		return fmt.Sprintf("reference-invalid(%q, %q, %q)", r.Package, r.Type, r.Method)
	}

	return string(v)
}

// TypeRef returns a reference to the type itself.
func (r Reference) TypeRef() Reference {
	return Reference{
		Package: r.Package,
		Type:    r.Type,
	}
}

var (
	_ encoding.TextUnmarshaler = (*Reference)(nil)
	_ encoding.TextMarshaler   = Reference{}
)

// UnmarshalText parses references in forms
//
//	"pkg/path".Type
//	"pkg/path".Type.Method
func (r *Reference) UnmarshalText(b []byte) error {
	s := string(bytes.TrimSpace(b))
	if s == "" {
		return errors.New("empty reference")
	}

	if !strings.HasPrefix(s, `"`) {
		return fmt.Errorf("reference must start with quoted package: %q", s)
	}
	end := strings.Index(s[1:], `"`)
	if end < 0 {
		return fmt.Errorf("unterminated quoted package in reference: %q", s)
	}
	end++

	pkg := s[1:end]
	if pkg == "" {
		return fmt.Errorf("package cannot be empty in reference: %q", s)
	}

	rest := s[end+1:]
	if !strings.HasPrefix(rest, ".") {
		return fmt.Errorf("reference must contain a type name: %q", s)
	}
	rest = rest[1:]

	parts := strings.Split(rest, ".")
	if len(parts) > 2 {
		return fmt.Errorf("reference must have 1 or 2 identifiers after package: %q", s)
	}
	for _, p := range parts {
		if !IsIdent(p) {
			return fmt.Errorf("invalid identifier %q in reference %q", p, s)
		}
	}

	r.Package = pkg
	r.Type = parts[0]
	r.Method = ""
	if len(parts) == 2 {
		r.Method = parts[1]
	}

	return nil
}

// MarshalText renders a reference back into its text form.
func (r Reference) MarshalText() ([]byte, error) {
	if r.Package == "" {
		return nil, fmt.Errorf("cannot marshal Reference: empty Package")
	}
	if r.Type == "" {
		return nil, fmt.Errorf("cannot marshal Reference: empty Type")
	}

	var b strings.Builder
	b.WriteByte('"')
	b.WriteString(r.Package)
	b.WriteString(`".`)
	b.WriteString(r.Type)
	if r.Method != "" {
		b.WriteByte('.')
		b.WriteString(r.Method)
	}

	return []byte(b.String()), nil
}

// IsIdent checks if s is a valid Go identifier.
func IsIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !unicode.IsLetter(r) && r != '_' {
			return false
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
