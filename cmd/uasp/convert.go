package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ifoster01/uasp/pkg/convert"
	"github.com/ifoster01/uasp/pkg/presenter"
)

type ConvertConfig struct {
	To       string
	Provider string
	APIKey   string
	Model    string
	Output   string
	Enhance  bool
}

func NewConvertConfig() *ConvertConfig {
	return &ConvertConfig{}
}

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert between Markdown and UASP skill documents",
	Long: `Convert a Markdown skill description into a UASP document, or render
a UASP document as Markdown.

Markdown to skill requires an LLM provider (anthropic, openai, gemini,
or openrouter); the extracted document is repaired, fingerprinted, and
validated before it is written. Skill to Markdown is deterministic
unless --enhance routes the rendering through the LLM as well.

The direction is inferred from the file extension and can be forced
with --to.

Examples:
  uasp convert SKILL.md --provider anthropic
  uasp convert stripe.yaml --to md --output stripe.md
  uasp convert stripe.yaml --to md --enhance --provider openai`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getConvertConfigFromFlags(cmd)
		path := args[0]

		direction := config.To
		if direction == "" {
			switch strings.ToLower(filepath.Ext(path)) {
			case ".md", ".markdown":
				direction = "skill"
			default:
				direction = "md"
			}
		}

		var output string
		var err error
		switch direction {
		case "skill":
			output, err = convertToSkill(cmd, config, path)
		case "md":
			output, err = convertToMarkdown(cmd, config, path)
		default:
			err = errors.Errorf("unknown conversion target: %s", direction)
		}
		if err != nil {
			presenter.Error(err, "Conversion failed")
			os.Exit(1)
		}

		if config.Output != "" {
			if err := os.WriteFile(config.Output, []byte(output), 0o644); err != nil {
				presenter.Error(err, "Failed to write output")
				os.Exit(1)
			}
			presenter.Success("Wrote " + config.Output)
			return
		}
		fmt.Print(output)
	},
}

func convertToSkill(cmd *cobra.Command, config *ConvertConfig, path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	converter, err := convert.NewConverter(llmConfig(config))
	if err != nil {
		return "", err
	}
	result, err := converter.Convert(cmd.Context(), string(content))
	if err != nil {
		return "", err
	}
	for _, warning := range result.Warnings {
		presenter.Warning(warning)
	}
	return result.YAML, nil
}

func convertToMarkdown(cmd *cobra.Command, config *ConvertConfig, path string) (string, error) {
	doc, err := loadDocument(cmd.Context(), path, false)
	if err != nil {
		return "", err
	}

	generator := convert.NewGenerator()
	if config.Enhance {
		cfg := llmConfig(config)
		if cfg.Provider == "" {
			return "", errors.New("--enhance requires an LLM provider")
		}
		generator.LLM = &cfg
	}
	return generator.Generate(cmd.Context(), doc.Skill)
}

// llmConfig assembles the LLM configuration from flags, falling back
// to UASP_PROVIDER, UASP_API_KEY, and UASP_MODEL.
func llmConfig(config *ConvertConfig) convert.Config {
	provider := config.Provider
	if provider == "" {
		provider = viper.GetString("provider")
	}
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = viper.GetString("api_key")
	}
	model := config.Model
	if model == "" {
		model = viper.GetString("model")
	}
	return convert.Config{
		Provider: convert.Provider(provider),
		APIKey:   apiKey,
		Model:    model,
	}
}

func getConvertConfigFromFlags(cmd *cobra.Command) *ConvertConfig {
	config := NewConvertConfig()
	config.To, _ = cmd.Flags().GetString("to")
	config.Provider, _ = cmd.Flags().GetString("provider")
	config.APIKey, _ = cmd.Flags().GetString("api-key")
	config.Model, _ = cmd.Flags().GetString("model")
	config.Output, _ = cmd.Flags().GetString("output")
	config.Enhance, _ = cmd.Flags().GetBool("enhance")
	return config
}

func init() {
	defaults := NewConvertConfig()
	convertCmd.Flags().String("to", defaults.To, "Conversion target: skill or md (default inferred from extension)")
	convertCmd.Flags().String("provider", defaults.Provider, fmt.Sprintf("LLM provider (%s)", strings.Join(convert.Providers, ", ")))
	convertCmd.Flags().String("api-key", defaults.APIKey, "LLM API key (overrides provider environment variables)")
	convertCmd.Flags().String("model", defaults.Model, "LLM model (overrides the provider default)")
	convertCmd.Flags().StringP("output", "o", defaults.Output, "Write output to a file instead of stdout")
	convertCmd.Flags().Bool("enhance", defaults.Enhance, "Enhance Markdown rendering with the LLM")
	rootCmd.AddCommand(convertCmd)
}
