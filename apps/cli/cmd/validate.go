package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bradcypert/httpspec/packages/core/parser"
)

var validateCmd = &cobra.Command{
	Use:   "validate [paths...]",
	Short: "Parse test files without executing them",
	Long: `Validate checks that files parse cleanly: request lines, headers and
//# assertions. No requests are sent.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := collectFiles(args)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no .http or .httpspec files found")
		}

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()

		bad := 0
		for _, file := range files {
			parsed, err := parser.ParseFile(file)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %v\n", red("✗"), file, err)
				bad++
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d requests)\n", green("✓"), file, len(parsed.Requests))
		}

		if bad > 0 {
			return fmt.Errorf("%d of %d files failed to parse", bad, len(files))
		}
		return nil
	},
}
