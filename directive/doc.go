// Package directive reads parameter constraints from //mockguard: comment
// directives, the closest thing to parameter annotations Go has.
//
// Directives are written in doc comments of interface methods or methods
// of concrete types, without a space after the slashes, like other Go
// directives:
//
//	//mockguard:target
//	type Calculator interface {
//		//mockguard:param input notnull min=0
//		Square(input *int) int
//
//		//mockguard:param #1 notnull
//		//mockguard:param name pattern="^[a-z]+( [a-z]+)*$" lenmax=64
//		Label(name string, owner *User) string
//	}
//
// Parameters are referred by name or by position in "#N" form. The target
// directive marks a type as checked even when none of its methods have
// constraints.
//
// [Source] is a metadata source backed by go/packages. [Analyzer] is a
// go/analysis pass reporting directives that are malformed or disagree with
// parameter types.
package directive
