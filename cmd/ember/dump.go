package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ember/internal/mir"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] <snapshot.mir>",
	Short: "Print a decoded MIR snapshot in readable form",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func init() {
	dumpCmd.Flags().Bool("locs", false, "annotate terminators with origin tags")
}

func runDump(cmd *cobra.Command, args []string) error {
	locs, err := cmd.Flags().GetBool("locs")
	if err != nil {
		return fmt.Errorf("failed to get locs flag: %w", err)
	}

	f, err := os.Open(args[0]) // #nosec G304 -- path is provided by the user
	if err != nil {
		return fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "failed to close snapshot: %v\n", closeErr)
		}
	}()

	m, typesIn, _, err := mir.ReadSnapshot(f)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	return mir.DumpModule(cmd.OutOrStdout(), m, typesIn, mir.DumpOptions{Locs: locs})
}
