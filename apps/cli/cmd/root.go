package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "httpspec [paths...]",
	Short: "Run HTTP tests from .http files",
	Long: `httpspec runs HTTP requests declared in .http and .httpspec files
and checks the responses against inline //# assertions.

With no paths, every .http and .httpspec file under the current
directory is run. Paths ending in .http or .httpspec are files; any
other path must be an existing directory.`,
	Args: cobra.ArbitraryArgs,
	RunE: runCommand,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, ErrInvalidPath) {
			os.Exit(ExitInvalidPath)
		}
		os.Exit(ExitUsageError)
	}
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}
