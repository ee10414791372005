package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ifoster01/uasp/pkg/presenter"
	"github.com/ifoster01/uasp/pkg/runtime"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest <skill-file>...",
	Short: "Print the runtime manifest for a set of skills",
	Long: `Load skills into a runtime and print the manifest an agent would
receive: the loaded skills with their query endpoints, plus the query
syntax.

Examples:
  uasp manifest skills/*.yaml`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		strict, _ := cmd.Flags().GetBool("strict")

		var opts []runtime.Option
		if strict {
			opts = append(opts, runtime.WithStrictVersion())
		}
		rt := runtime.New(opts...)

		for _, path := range args {
			if _, err := rt.LoadSkill(cmd.Context(), path); err != nil {
				presenter.Error(err, "Failed to load "+path)
				os.Exit(1)
			}
		}

		if err := printJSON(rt.Manifest()); err != nil {
			presenter.Error(err, "Failed to encode manifest")
			os.Exit(1)
		}
	},
}

func init() {
	manifestCmd.Flags().Bool("strict", false, "Fail on version hash mismatch instead of warning")
	rootCmd.AddCommand(manifestCmd)
}
