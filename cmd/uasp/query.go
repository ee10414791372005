package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ifoster01/uasp/pkg/loader"
	"github.com/ifoster01/uasp/pkg/presenter"
	"github.com/ifoster01/uasp/pkg/query"
	"github.com/ifoster01/uasp/pkg/skill"
)

type QueryConfig struct {
	Filters []string
	JSON    bool
	Strict  bool
}

func NewQueryConfig() *QueryConfig {
	return &QueryConfig{}
}

var queryCmd = &cobra.Command{
	Use:   "query <skill-file> <path>",
	Short: "Query a path within a skill document",
	Long: `Query a dot-delimited path within a skill document. Path segments
traverse mappings by key and named lists by name or id; numeric
segments index into lists. Filters narrow list results by field,
matching case-insensitive glob patterns.

Examples:
  uasp query stripe.yaml commands.create-charge
  uasp query stripe.yaml decisions --filter 'when=*dispute*'
  uasp query stripe.yaml commands --json`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		config := getQueryConfigFromFlags(cmd)

		filters, err := parseFilters(config.Filters)
		if err != nil {
			presenter.Error(err, "Invalid filter")
			os.Exit(1)
		}

		doc, err := loadDocument(cmd.Context(), args[0], config.Strict)
		if err != nil {
			presenter.Error(err, "Failed to load skill")
			os.Exit(1)
		}

		result := query.Query(doc.Value, args[1], filters, doc.Name())
		if !result.Found {
			presenter.Error(&query.NotFoundError{Skill: result.Skill, Path: result.Path}, "")
			os.Exit(1)
		}

		if config.JSON {
			if err := printJSON(result.ToMap()); err != nil {
				presenter.Error(err, "Failed to encode result")
				os.Exit(1)
			}
			return
		}
		if err := printValue(result.Value); err != nil {
			presenter.Error(err, "Failed to render result")
			os.Exit(1)
		}
	},
}

func getQueryConfigFromFlags(cmd *cobra.Command) *QueryConfig {
	config := NewQueryConfig()
	config.Filters, _ = cmd.Flags().GetStringArray("filter")
	config.JSON, _ = cmd.Flags().GetBool("json")
	config.Strict, _ = cmd.Flags().GetBool("strict")
	return config
}

func init() {
	defaults := NewQueryConfig()
	queryCmd.Flags().StringArrayP("filter", "f", defaults.Filters, "Filter list results by field=pattern (repeatable)")
	queryCmd.Flags().Bool("json", defaults.JSON, "Output the full query result as JSON")
	queryCmd.Flags().Bool("strict", defaults.Strict, "Fail on version hash mismatch instead of warning")
	rootCmd.AddCommand(queryCmd)
}

// parseFilters splits repeated field=pattern flags into a filter map.
func parseFilters(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	filters := make(map[string]string, len(raw))
	for _, pair := range raw {
		field, pattern, ok := strings.Cut(pair, "=")
		if !ok || field == "" {
			return nil, errors.Errorf("expected field=pattern, got %q", pair)
		}
		filters[field] = pattern
	}
	return filters, nil
}

// loadDocument loads a skill file with the configured strictness.
func loadDocument(ctx context.Context, path string, strict bool) (*loader.Document, error) {
	var opts []loader.Option
	if strict {
		opts = append(opts, loader.WithStrictVersion())
	}
	return loader.New(opts...).Load(ctx, path)
}

// printValue renders a queried value: scalars as plain text, composites
// as YAML.
func printValue(v *skill.Value) error {
	if v.IsScalar() {
		fmt.Println(v.Stringify())
		return nil
	}
	rendered, err := v.MarshalYAML()
	if err != nil {
		return err
	}
	fmt.Print(string(rendered))
	return nil
}
