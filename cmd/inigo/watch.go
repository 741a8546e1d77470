package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dshills/inigo/notify"
	"github.com/dshills/inigo/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload on file changes and print every resulting change",
	Long: `Watch follows the configuration documents, reloads the store whenever one
of them changes, and prints each property that changed value. Stop with
Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		store.Subscribe(func(c notify.Change) {
			switch c.Type {
			case notify.ChangeSet:
				if c.Old == "" {
					fmt.Printf("%s %s.%s = %q\n", color.GreenString("set"), c.Section, c.Key, c.New)
					return
				}
				fmt.Printf("%s %s.%s = %q (was %q)\n", color.GreenString("set"), c.Section, c.Key, c.New, c.Old)
			case notify.ChangeRemove:
				fmt.Printf("%s %s.%s (was %q)\n", color.RedString("remove"), c.Section, c.Key, c.Old)
			case notify.ChangeReload:
				fmt.Printf("%s\n", color.CyanString("reloaded"))
			}
		})

		w, err := watch.New()
		if err != nil {
			return err
		}
		defer w.Close()

		if err := w.Watch(cfgFile); err != nil {
			return err
		}
		if defaultsFile != "" {
			if err := w.Watch(defaultsFile); err != nil {
				return err
			}
		}

		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

		fmt.Printf("watching %s\n", cfgFile)
		for {
			select {
			case ev, ok := <-w.Events():
				if !ok {
					return nil
				}
				if ev.Op == watch.OpRemove {
					fmt.Fprintf(os.Stderr, "%s %s\n", color.YellowString("gone"), ev.Path)
					continue
				}
				if err := store.Reload(); err != nil {
					fmt.Fprintf(os.Stderr, "reload failed: %v\n", err)
				}
			case err, ok := <-w.Errors():
				if !ok {
					return nil
				}
				fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
			case <-signals:
				return nil
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
