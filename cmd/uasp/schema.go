package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ifoster01/uasp/pkg/presenter"
	"github.com/ifoster01/uasp/pkg/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema for skill documents",
	Long:  `Print the JSON Schema that UASP skill documents are validated against.`,
	Run: func(_ *cobra.Command, _ []string) {
		if err := printJSON(schema.JSONSchema()); err != nil {
			presenter.Error(err, "Failed to encode schema")
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
