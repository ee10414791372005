package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ifoster01/uasp/pkg/presenter"
	"github.com/ifoster01/uasp/pkg/query"
)

var pathsCmd = &cobra.Command{
	Use:   "paths <skill-file>",
	Short: "List the queryable paths of a skill document",
	Long: `List every path that can be queried in a skill document. Lists are
represented by their first element, so list paths show a [0] marker.

Examples:
  uasp paths stripe.yaml
  uasp paths stripe.yaml --prefix commands`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		prefix, _ := cmd.Flags().GetString("prefix")
		asJSON, _ := cmd.Flags().GetBool("json")

		doc, err := loadDocument(cmd.Context(), args[0], false)
		if err != nil {
			presenter.Error(err, "Failed to load skill")
			os.Exit(1)
		}

		paths := query.ListPaths(doc.Value)
		if prefix != "" {
			filtered := paths[:0]
			for _, p := range paths {
				if p == prefix || strings.HasPrefix(p, prefix+query.Delimiter) {
					filtered = append(filtered, p)
				}
			}
			paths = filtered
		}

		if asJSON {
			if err := printJSON(paths); err != nil {
				presenter.Error(err, "Failed to encode paths")
				os.Exit(1)
			}
			return
		}
		for _, p := range paths {
			presenter.Info(p)
		}
	},
}

func init() {
	pathsCmd.Flags().String("prefix", "", "Only show paths under this prefix")
	pathsCmd.Flags().Bool("json", false, "Output paths as a JSON array")
	rootCmd.AddCommand(pathsCmd)
}
