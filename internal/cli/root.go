// Package cli implements the xltable command-line tool: info, head,
// schema, and stats subcommands over the xltable Read API, grounded on the pack's
// cobra+fang CLI convention.
package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "xltable",
	Short: "xltable - chunked, type-deferred columnar reads over XLSX/XLSB",
	Long:  `xltable reads a spreadsheet sheet into typed columns, deferring conversion until the whole sheet has been seen.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute(ctx context.Context, version, commit, date string) error {
	versionStr := version
	if versionStr == "" {
		versionStr = "dev"
	}
	if commit != "" {
		versionStr += fmt.Sprintf(" (commit: %s)", commit)
	}
	if date != "" {
		versionStr += fmt.Sprintf(" built: %s", date)
	}

	return fang.Execute(ctx, rootCmd,
		fang.WithVersion(versionStr),
	)
}

func init() {
	rootCmd.PersistentFlags().StringP("format", "f", "json", "Output format (json, csv, tsv)")
}

// formatFromCmd returns the format flag value from the command.
func formatFromCmd(cmd *cobra.Command) string {
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = "json"
	}
	return format
}

// sheetArg parses a sheet argument as a 0-based index if numeric,
// otherwise as a sheet name. Absent defaults to index 0.
func sheetArg(args []string, pos int) any {
	if len(args) <= pos {
		return 0
	}
	if idx, err := strconv.Atoi(args[pos]); err == nil {
		return idx
	}
	return args[pos]
}
