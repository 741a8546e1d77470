package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dshills/inigo/codec"
)

var setRemove bool

var setCmd = &cobra.Command{
	Use:   "set <section> <key> [value]",
	Short: "Set or remove one property in the main document",
	Long: `Set rewrites the main document with the property changed, keeping every
other line's section and key order. Only the main document is touched:
defaults and environment overrides stay where they are.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if setRemove && len(args) == 3 {
			return fmt.Errorf("--remove takes no value argument")
		}
		if !setRemove && len(args) == 2 {
			return fmt.Errorf("missing value; use --remove to delete")
		}
		section, key := args[0], args[1]

		data, err := os.ReadFile(cfgFile)
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		table := codec.Parse(string(data))

		if setRemove {
			if !table.Remove(section, key) {
				return fmt.Errorf("no property %s.%s in %s", section, key, cfgFile)
			}
		} else {
			table.Set(section, key, args[2])
		}

		if err := os.WriteFile(cfgFile, []byte(table.Render()), 0o644); err != nil {
			return err
		}

		if setRemove {
			fmt.Printf("%s removed %s.%s\n", color.GreenString("✓"), section, key)
		} else {
			fmt.Printf("%s %s.%s = %s\n", color.GreenString("✓"), section, key, args[2])
		}
		return nil
	},
}

func init() {
	setCmd.Flags().BoolVar(&setRemove, "remove", false, "delete the property instead of setting it")
	rootCmd.AddCommand(setCmd)
}
