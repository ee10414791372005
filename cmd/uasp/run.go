package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ifoster01/uasp/pkg/executor"
	"github.com/ifoster01/uasp/pkg/presenter"
)

type RunConfig struct {
	Args    []string
	DryRun  bool
	Timeout time.Duration
	JSON    bool
	NoCheck bool
}

func NewRunConfig() *RunConfig {
	return &RunConfig{
		Timeout: 30 * time.Second,
	}
}

var runCmd = &cobra.Command{
	Use:   "run <skill-file> <command>",
	Short: "Execute a command defined by a skill",
	Long: `Execute a command defined by a skill document. Arguments fill the
<placeholder> tokens in the command's syntax; values are shell-quoted.
Commands run through 'sh -c' and honor the skill's state preconditions.

Examples:
  uasp run stripe.yaml create-charge --arg amount=1000 --arg currency=usd
  uasp run stripe.yaml list-charges --dry-run
  uasp run deploy.yaml rollout --timeout 5m`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, cmdArgs []string) {
		config := getRunConfigFromFlags(cmd)

		args, err := parseCommandArgs(config.Args)
		if err != nil {
			presenter.Error(err, "Invalid argument")
			os.Exit(1)
		}

		doc, err := loadDocument(cmd.Context(), cmdArgs[0], false)
		if err != nil {
			presenter.Error(err, "Failed to load skill")
			os.Exit(1)
		}

		exec := executor.New(doc.Skill, nil)
		commandName := cmdArgs[1]

		if !config.NoCheck {
			if problems := exec.ValidateArgs(commandName, args); len(problems) > 0 {
				for _, p := range problems {
					presenter.Error(errors.New(p), "")
				}
				os.Exit(1)
			}
		}

		result, err := exec.Execute(cmd.Context(), commandName, args, config.DryRun, config.Timeout)
		if err != nil {
			presenter.Error(err, "Execution failed")
			os.Exit(1)
		}

		if config.JSON {
			if err := printJSON(result); err != nil {
				presenter.Error(err, "Failed to encode result")
				os.Exit(1)
			}
		} else {
			if result.Stdout != "" {
				fmt.Print(result.Stdout)
				if !strings.HasSuffix(result.Stdout, "\n") {
					fmt.Println()
				}
			}
			if result.Stderr != "" {
				fmt.Fprint(os.Stderr, result.Stderr)
				if !strings.HasSuffix(result.Stderr, "\n") {
					fmt.Fprintln(os.Stderr)
				}
			}
		}

		if !result.Success {
			code := result.ReturnCode
			if code <= 0 {
				code = 1
			}
			os.Exit(code)
		}
	},
}

func getRunConfigFromFlags(cmd *cobra.Command) *RunConfig {
	config := NewRunConfig()
	config.Args, _ = cmd.Flags().GetStringArray("arg")
	config.DryRun, _ = cmd.Flags().GetBool("dry-run")
	config.Timeout, _ = cmd.Flags().GetDuration("timeout")
	config.JSON, _ = cmd.Flags().GetBool("json")
	config.NoCheck, _ = cmd.Flags().GetBool("no-check")
	return config
}

func init() {
	defaults := NewRunConfig()
	runCmd.Flags().StringArrayP("arg", "a", defaults.Args, "Command argument as name=value (repeatable)")
	runCmd.Flags().Bool("dry-run", defaults.DryRun, "Print the command instead of executing it")
	runCmd.Flags().Duration("timeout", defaults.Timeout, "Execution timeout (0 disables)")
	runCmd.Flags().Bool("json", defaults.JSON, "Output the execution result as JSON")
	runCmd.Flags().Bool("no-check", defaults.NoCheck, "Skip argument validation before execution")
	rootCmd.AddCommand(runCmd)
}

// parseCommandArgs converts repeated name=value flags into typed
// arguments: booleans and integers are coerced, everything else stays
// a string.
func parseCommandArgs(raw []string) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	args := make(map[string]any, len(raw))
	for _, pair := range raw {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, errors.Errorf("expected name=value, got %q", pair)
		}
		args[name] = coerceArg(value)
	}
	return args, nil
}

func coerceArg(value string) any {
	switch strings.ToLower(value) {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	return value
}
