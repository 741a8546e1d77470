package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/inigo/export"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump the effective configuration as TOML, YAML, or JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := export.ParseFormat(exportFormat)
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		out, err := export.Render(format, store.Snapshot())
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "toml", "output format: toml, yaml, or json")
	rootCmd.AddCommand(exportCmd)
}
