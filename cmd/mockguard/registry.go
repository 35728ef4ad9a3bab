package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sirkon/mockguard/metadata/regfile"
)

func registryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Work with YAML registry files",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check <file>...",
		Short: "Validate registry files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var errs []error
			for _, path := range args {
				reg, err := regfile.Load(path)
				if err != nil {
					errs = append(errs, err)
					continue
				}

				refs := reg.Refs()
				slog.Debug("registry file is valid", "path", path, "types", len(refs))
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
				for _, ref := range refs {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", ref)
				}
			}

			if len(errs) > 0 {
				return fmt.Errorf("check registry files: %w", errors.Join(errs...))
			}

			return nil
		},
	})

	return cmd
}
