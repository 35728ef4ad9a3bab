// Package main provides the mockguard binary: a helper to inspect parameter
// constraints declared with //mockguard: directives and YAML registry files.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "mockguard",
		Short: "Inspect parameter constraints of mocked types",
		Long: `Mockguard checks calls recorded by test doubles against constraints
declared for parameters of the real types.

Constraints come from //mockguard: directives in the source code or from
YAML registry files. This tool shows what is declared and validates registry
files, the verification itself happens in tests.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug details")

	cmd.AddCommand(directivesCmd())
	cmd.AddCommand(registryCmd())

	return cmd
}
