package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meddhiazoghlami/xltable"
)

var (
	schemaStructName string
	schemaPackage    string
	schemaOmitEmpty  bool
)

var schemaCmd = &cobra.Command{
	Use:   "schema <file.xlsx|file.xlsb> [sheet]",
	Short: "Generate a Go struct definition matching a sheet's columns",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := xltable.ReadFile(args[0], sheetArg(args, 1))
		if err != nil {
			return err
		}

		src := table.GenerateStruct(xltable.SchemaOptions{
			StructName:  schemaStructName,
			PackageName: schemaPackage,
			JSONTags:    true,
			OmitEmpty:   schemaOmitEmpty,
		})
		fmt.Fprint(os.Stdout, src)
		return nil
	},
}

func init() {
	schemaCmd.Flags().StringVar(&schemaStructName, "struct-name", "Row", "Generated struct name")
	schemaCmd.Flags().StringVar(&schemaPackage, "package", "main", "Generated package name")
	schemaCmd.Flags().BoolVar(&schemaOmitEmpty, "omitempty", false, "Add omitempty to JSON tags")
	rootCmd.AddCommand(schemaCmd)
}
