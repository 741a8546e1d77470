package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/inigo"
)

var (
	cfgFile      string
	defaultsFile string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "inigo",
	Short: "Inspect and edit sectioned key=value configuration documents",
	Long: `inigo reads, edits, watches, and exports configuration documents in the
sectioned key=value text form.

Reads see the effective configuration: the main document layered over an
optional defaults document, with INIGO_SECTION_KEY environment variables
on top. Writes edit the main document alone, so defaults and environment
values never leak into it.

Examples:
  # Print one effective value
  inigo get editor tab_width -f app.ini

  # Set a value in the main document
  inigo set editor tab_width 8 -f app.ini

  # Follow changes as other programs edit the file
  inigo watch -f app.ini

  # Dump the effective configuration as JSON
  inigo export --format json -f app.ini`,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (%s)", version, commit)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "file", "f", "config.ini", "main configuration document")
	rootCmd.PersistentFlags().StringVarP(&defaultsFile, "defaults", "d", "", "defaults document layered under the main one")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log store activity to stderr")
}

// openStore builds and loads a store from the persistent flags. Callers
// own the returned store and must Close it.
func openStore() (*inigo.Store, error) {
	opts := []inigo.Option{
		inigo.WithSource(inigo.NewFileSource(defaultsFile, cfgFile)),
		inigo.WithEnvOverrides("INIGO"),
	}
	if verbose {
		opts = append(opts, inigo.WithLogger(inigo.NewLogger(inigo.LoggerConfig{
			Level:  inigo.LogLevelDebug,
			Output: os.Stderr,
			Prefix: "inigo",
		})))
	}

	s := inigo.New(opts...)
	if err := s.Load(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}
