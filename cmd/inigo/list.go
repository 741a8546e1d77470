package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [section]",
	Short: "List sections and their effective properties",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		sections := store.Sections()
		if len(args) == 1 {
			if !store.HasSection(args[0]) {
				return fmt.Errorf("no section %q", args[0])
			}
			sections = []string{args[0]}
		}

		header := color.New(color.FgCyan, color.Bold)
		keyColor := color.New(color.FgGreen)
		for i, section := range sections {
			if i > 0 {
				fmt.Println()
			}
			header.Printf("[%s]\n", section)
			for _, key := range store.Keys(section) {
				value, _ := store.GetProperty(section, key)
				fmt.Printf("%s=%s\n", keyColor.Sprint(key), value)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
