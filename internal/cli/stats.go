package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meddhiazoghlami/xltable"
	"github.com/meddhiazoghlami/xltable/internal/output"
)

var statsCmd = &cobra.Command{
	Use:   "stats <file.xlsx|file.xlsb> [sheet]",
	Short: "Show per-column statistics (nulls, uniques, min/max/sum/avg)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := xltable.ReadFile(args[0], sheetArg(args, 1))
		if err != nil {
			return err
		}

		out, err := output.FormatSingle(formatFromCmd(cmd), table.AnalyzeColumns())
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
