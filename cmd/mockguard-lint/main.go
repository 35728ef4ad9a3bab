// Package main runs the //mockguard: directive checker as a standalone vet-like tool.
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/sirkon/mockguard/directive"
)

func main() {
	singlechecker.Main(directive.Analyzer)
}
