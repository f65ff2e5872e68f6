package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meddhiazoghlami/xltable"
	"github.com/meddhiazoghlami/xltable/internal/output"
)

type columnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type sheetInfo struct {
	Rows    int          `json:"rows"`
	Columns []columnInfo `json:"columns"`
}

var infoCmd = &cobra.Command{
	Use:   "info <file.xlsx|file.xlsb> [sheet]",
	Short: "Show column names, inferred types, and row count",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := xltable.ReadFile(args[0], sheetArg(args, 1))
		if err != nil {
			return err
		}

		info := sheetInfo{Rows: table.Rows()}
		for i, name := range table.Names() {
			info.Columns = append(info.Columns, columnInfo{
				Name: name,
				Type: table.ColumnAt(i).Type().String(),
			})
		}

		out, err := output.FormatSingle(formatFromCmd(cmd), info)
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
