package main

import (
	"fmt"
	"go/types"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sirkon/mockguard/directive"
)

func directivesCmd() *cobra.Command {
	var (
		dir  string
		tags string
	)

	cmd := &cobra.Command{
		Use:   "directives <package> <type>",
		Short: "Print constraints declared with directives for the type",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []directive.Option
			if dir != "" {
				opts = append(opts, directive.WithDir(dir))
			}
			if tags != "" {
				opts = append(opts, directive.WithBuildFlags("-tags="+tags))
			}

			slog.Debug("look for type declaration", "package", args[0], "type", args[1])
			decl, err := directive.NewSource(opts...).Lookup(args[0], args[1])
			if err != nil {
				return fmt.Errorf("look for %s.%s: %w", args[0], args[1], err)
			}

			printDecl(cmd.OutOrStdout(), args[0], decl)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Directory to load packages from")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma separated build tags")

	return cmd
}

func printDecl(w io.Writer, pkgPath string, decl *directive.TypeDecl) {
	fmt.Fprintf(w, "%q.%s", pkgPath, decl.Name)
	switch {
	case decl.Marked:
		fmt.Fprintln(w, " (target)")
	default:
		fmt.Fprintln(w)
	}

	if !decl.HasDirectives() {
		fmt.Fprintln(w, "  no directives")
		return
	}

	for _, m := range decl.Methods {
		if len(m.Directives) == 0 {
			continue
		}

		params := make([]string, len(m.Params))
		for i, p := range m.Params {
			params[i] = strings.TrimSpace(p.Name + " " + types.ExprString(p.Type))
		}
		fmt.Fprintf(w, "  %s(%s)\n", m.Name, strings.Join(params, ", "))

		for _, d := range m.Directives {
			if d.Kind != directive.KindParam {
				continue
			}

			cs := make([]string, len(d.Constraints))
			for i, c := range d.Constraints {
				cs[i] = c.String()
			}
			fmt.Fprintf(w, "    %s: %s\n", d.Param, strings.Join(cs, " "))
		}
	}
}
