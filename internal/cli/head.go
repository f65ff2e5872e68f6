package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meddhiazoghlami/xltable"
	"github.com/meddhiazoghlami/xltable/internal/output"
)

var headN int

var headCmd = &cobra.Command{
	Use:   "head <file.xlsx|file.xlsb> [sheet]",
	Short: "Show the first N rows",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := xltable.ReadFile(args[0], sheetArg(args, 1), xltable.WithTakeRows(headN))
		if err != nil {
			return err
		}

		header := table.Names()
		rows := make([][]string, table.Rows())
		for r := 0; r < table.Rows(); r++ {
			row := make([]string, table.NumCols())
			for c := 0; c < table.NumCols(); c++ {
				row[c] = cellString(table.ColumnAt(c), r)
			}
			rows[r] = row
		}

		out, err := output.FormatRows(formatFromCmd(cmd), header, rows)
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, string(out))
		return nil
	},
}

func init() {
	headCmd.Flags().IntVarP(&headN, "number", "n", 10, "Number of rows to show")
	rootCmd.AddCommand(headCmd)
}

// cellString renders one cell for display, regardless of its column's
// final dtype.
func cellString(col *xltable.Column, row int) string {
	if col.IsNull(row) {
		return ""
	}
	switch col.Type() {
	case xltable.Float64:
		v, _ := col.Float64(row)
		return fmt.Sprintf("%v", v)
	case xltable.Int64:
		v, _ := col.Int64(row)
		return fmt.Sprintf("%d", v)
	case xltable.TimestampMs:
		v, _ := col.TimestampMs(row)
		return fmt.Sprintf("%d", v)
	case xltable.String:
		v, _ := col.String(row)
		return v
	default:
		return ""
	}
}
