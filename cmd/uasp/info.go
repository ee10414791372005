package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ifoster01/uasp/pkg/presenter"
)

var infoCmd = &cobra.Command{
	Use:   "info <skill-file>",
	Short: "Summarize a skill document",
	Long: `Print a summary of a skill document: identity, declared commands,
workflows, and state entities.

Examples:
  uasp info stripe.yaml
  uasp info stripe.yaml --json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		asJSON, _ := cmd.Flags().GetBool("json")

		doc, err := loadDocument(cmd.Context(), args[0], false)
		if err != nil {
			presenter.Error(err, "Failed to load skill")
			os.Exit(1)
		}
		s := doc.Skill

		commands := make([]string, 0, len(s.Commands))
		for name := range s.Commands {
			commands = append(commands, name)
		}
		sort.Strings(commands)

		workflows := make([]string, 0, len(s.Workflows))
		for name := range s.Workflows {
			workflows = append(workflows, name)
		}
		sort.Strings(workflows)

		if asJSON {
			summary := map[string]any{
				"name":        s.Meta.Name,
				"version":     s.Meta.Version,
				"type":        s.Meta.Type,
				"description": s.Meta.Description,
				"commands":    commands,
				"workflows":   workflows,
				"entities":    s.EntityNames(),
			}
			if err := printJSON(summary); err != nil {
				presenter.Error(err, "Failed to encode summary")
				os.Exit(1)
			}
			return
		}

		presenter.Section(s.Meta.Name)
		presenter.Info(fmt.Sprintf("Version:     %s", s.Meta.Version))
		presenter.Info(fmt.Sprintf("Type:        %s", s.Meta.Type))
		presenter.Info(fmt.Sprintf("Description: %s", s.Meta.Description))
		if len(commands) > 0 {
			presenter.Info(fmt.Sprintf("Commands:    %s", strings.Join(commands, ", ")))
		}
		if len(workflows) > 0 {
			presenter.Info(fmt.Sprintf("Workflows:   %s", strings.Join(workflows, ", ")))
		}
		if entities := s.EntityNames(); len(entities) > 0 {
			presenter.Info(fmt.Sprintf("State:       %s", strings.Join(entities, ", ")))
		}
	},
}

func init() {
	infoCmd.Flags().Bool("json", false, "Output the summary as JSON")
	rootCmd.AddCommand(infoCmd)
}
