package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ifoster01/uasp/pkg/loader"
	"github.com/ifoster01/uasp/pkg/presenter"
)

var validateCmd = &cobra.Command{
	Use:   "validate <skill-file>...",
	Short: "Validate skill documents",
	Long: `Validate one or more skill documents against the UASP schema,
the version hash, and cross-reference consistency rules.

Examples:
  uasp validate skill.yaml
  uasp validate skills/*.yaml --json`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		asJSON, _ := cmd.Flags().GetBool("json")
		l := loader.New()

		type report struct {
			File   string   `json:"file"`
			Valid  bool     `json:"valid"`
			Errors []string `json:"errors,omitempty"`
		}

		failed := false
		reports := make([]report, 0, len(args))
		for _, path := range args {
			errs := l.ValidateFile(path)
			reports = append(reports, report{File: path, Valid: len(errs) == 0, Errors: errs})
			if len(errs) > 0 {
				failed = true
			}
		}

		if asJSON {
			if err := printJSON(reports); err != nil {
				presenter.Error(err, "Failed to encode report")
				os.Exit(1)
			}
		} else {
			for _, r := range reports {
				if r.Valid {
					presenter.Success(r.File)
					continue
				}
				presenter.Error(fmt.Errorf("%d error(s)", len(r.Errors)), r.File)
				for _, e := range r.Errors {
					presenter.Info("  - " + e)
				}
			}
		}

		if failed {
			os.Exit(1)
		}
	},
}

func init() {
	validateCmd.Flags().Bool("json", false, "Output validation reports as JSON")
	rootCmd.AddCommand(validateCmd)
}
