package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ifoster01/uasp/pkg/fingerprint"
	"github.com/ifoster01/uasp/pkg/presenter"
	"github.com/ifoster01/uasp/pkg/skill"
)

var hashCmd = &cobra.Command{
	Use:   "hash <skill-file>",
	Short: "Calculate or update a skill's version hash",
	Long: `Calculate the content-derived version hash of a skill document.
The hash covers everything except meta.version itself, so a document
with a correct stored version hashes to that same version.

With --verify, compare the stored version against the calculated one.
With --update, rewrite the file with the calculated version stamped
into meta.version, preserving key order.

Examples:
  uasp hash skill.yaml
  uasp hash skill.yaml --verify
  uasp hash skill.yaml --update`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		verify, _ := cmd.Flags().GetBool("verify")
		update, _ := cmd.Flags().GetBool("update")
		path := args[0]

		content, err := os.ReadFile(path)
		if err != nil {
			presenter.Error(err, "Failed to read skill file")
			os.Exit(1)
		}
		doc, err := skill.ParseYAML(content)
		if err != nil {
			presenter.Error(err, "Failed to parse skill file")
			os.Exit(1)
		}

		switch {
		case update:
			updated := fingerprint.Update(doc)
			rendered, err := updated.MarshalYAML()
			if err != nil {
				presenter.Error(err, "Failed to render skill")
				os.Exit(1)
			}
			if err := os.WriteFile(path, rendered, 0o644); err != nil {
				presenter.Error(err, "Failed to write skill file")
				os.Exit(1)
			}
			presenter.Success(fmt.Sprintf("Updated %s to version %s", path, fingerprint.Calculate(doc)))
		case verify:
			valid, stored, calculated := fingerprint.Verify(doc)
			if !valid {
				presenter.Error(errors.Errorf("stored=%s calculated=%s", stored, calculated), "Version mismatch")
				os.Exit(1)
			}
			presenter.Success(fmt.Sprintf("Version %s is up to date", stored))
		default:
			fmt.Println(fingerprint.Calculate(doc))
		}
	},
}

func init() {
	hashCmd.Flags().Bool("verify", false, "Verify the stored version against the content")
	hashCmd.Flags().Bool("update", false, "Rewrite the file with the calculated version")
	hashCmd.MarkFlagsMutuallyExclusive("verify", "update")
	rootCmd.AddCommand(hashCmd)
}
