// Package executor builds and runs commands defined in skills. A command
// invocation builds its shell string from the syntax template, checks
// state preconditions, runs the external process, and applies declared
// state effects on success. Dry runs stop after the build step.
package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/ifoster01/uasp/pkg/logger"
	"github.com/ifoster01/uasp/pkg/skill"
	"github.com/ifoster01/uasp/pkg/state"
)

// Result captures the outcome of a command execution.
type Result struct {
	Success    bool   `json:"success"`
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	ReturnCode int    `json:"returncode"`
	Command    string `json:"command"`
}

// InvalidStateError is returned when a command's required state entities
// are not valid at call time. Execution aborts before any process runs.
type InvalidStateError struct {
	Entity  string
	Missing []string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("required state %q is invalid or missing", e.Entity)
}

// Executor runs commands for one skill against one state tracker.
type Executor struct {
	skill *skill.Skill
	state *state.Tracker
}

// New creates an executor. A nil tracker gets a fresh one for the skill.
func New(s *skill.Skill, tracker *state.Tracker) *Executor {
	if tracker == nil {
		tracker = state.NewTracker(s)
	}
	return &Executor{skill: s, state: tracker}
}

// State returns the tracker this executor consults and mutates.
func (e *Executor) State() *state.Tracker { return e.state }

// ListCommands returns the names of all defined commands.
func (e *Executor) ListCommands() []string {
	names := make([]string, 0, len(e.skill.Commands))
	for name := range e.skill.Commands {
		names = append(names, name)
	}
	return names
}

// CommandInfo returns the definition of a command, if declared.
func (e *Executor) CommandInfo(name string) (skill.Command, bool) {
	return e.skill.Command(name)
}

// CheckPreconditions returns the unmet required entity names for a
// command. Empty means preconditions are satisfied.
func (e *Executor) CheckPreconditions(name string) []string {
	return e.state.CheckRequires(name)
}

// Build constructs the command string for a command without executing it.
func (e *Executor) Build(name string, args map[string]any) (string, error) {
	cmd, ok := e.skill.Command(name)
	if !ok {
		return "", errors.Errorf("unknown command: %s", name)
	}
	return e.buildCommand(cmd, args), nil
}

// Execute runs a command. Unknown commands return a failed result without
// an error; unmet preconditions return an InvalidStateError before any
// process is started; dry runs return a preview and never touch state.
// On success (return code 0) the command's creates/invalidates effects are
// applied, with captured stdout as the created value. A timeout of zero
// means no deadline.
func (e *Executor) Execute(ctx context.Context, name string, args map[string]any, dryRun bool, timeout time.Duration) (Result, error) {
	cmd, ok := e.skill.Command(name)
	if !ok {
		return Result{
			Success:    false,
			Stderr:     fmt.Sprintf("Unknown command: %s", name),
			ReturnCode: 1,
		}, nil
	}

	if missing := e.state.CheckRequires(name); len(missing) > 0 {
		return Result{}, &InvalidStateError{Entity: missing[0], Missing: missing}
	}

	cmdStr := e.buildCommand(cmd, args)
	logger.G(ctx).WithField("command", cmdStr).Debug("built command")

	if dryRun {
		return Result{
			Success:    true,
			Stdout:     fmt.Sprintf("[DRY RUN] Would execute: %s", cmdStr),
			ReturnCode: 0,
			Command:    cmdStr,
		}, nil
	}

	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	proc := exec.CommandContext(runCtx, "sh", "-c", cmdStr)
	proc.Stdout = &stdout
	proc.Stderr = &stderr

	err := proc.Run()
	if runCtx.Err() == context.DeadlineExceeded {
		return Result{
			Success:    false,
			Stdout:     stdout.String(),
			Stderr:     fmt.Sprintf("Command timed out after %s", timeout),
			ReturnCode: -1,
			Command:    cmdStr,
		}, nil
	}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return Result{
				Success:    false,
				Stdout:     stdout.String(),
				Stderr:     stderr.String(),
				ReturnCode: exitErr.ExitCode(),
				Command:    cmdStr,
			}, nil
		}
		return Result{
			Success:    false,
			Stdout:     stdout.String(),
			Stderr:     err.Error(),
			ReturnCode: -1,
			Command:    cmdStr,
		}, nil
	}

	e.state.ApplyEffects(name, stdout.String())

	return Result{
		Success:    true,
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		ReturnCode: 0,
		Command:    cmdStr,
	}, nil
}

var (
	// Optional bracketed segments still holding a placeholder, e.g.
	// "[--flag <value>]" or "[<optional>]".
	unfilledOptional = regexp.MustCompile(`\s*\[[^\]]*<[^>]+>[^\]]*\]`)
	// Bare placeholders left after substitution.
	unfilledRequired = regexp.MustCompile(`\s*<[^>]+>`)
)

// buildCommand performs best-effort textual template substitution: global
// flags, then command flags, then positional placeholders, then cleanup of
// anything still unfilled. Missing required arguments are stripped rather
// than rejected here; ValidateArgs is the separate check that reports them.
func (e *Executor) buildCommand(cmd skill.Command, args map[string]any) string {
	syntax := cmd.Syntax

	for _, flag := range e.skill.GlobalFlags {
		key := trimDashes(flag.Name)
		value, ok := args[key]
		if !ok {
			continue
		}
		if flag.Type == "bool" {
			if isTruthy(value) {
				syntax = syntax + " " + flag.Name
			}
		} else {
			syntax = syntax + " " + flag.Name + " " + quoteShell(stringify(value))
		}
	}

	for _, flag := range cmd.Flags {
		flagName := flag.Long
		if flagName == "" {
			flagName = flag.Name
		}
		value, ok := args[trimDashes(flagName)]
		if !ok {
			continue
		}
		if flag.Type == "bool" {
			if isTruthy(value) {
				useName := flag.Short
				if useName == "" {
					useName = flagName
				}
				syntax = syntax + " " + useName
			}
		} else {
			syntax = syntax + " " + flagName + " " + quoteShell(stringify(value))
		}
	}

	for _, arg := range cmd.Args {
		placeholder := "<" + arg.Name + ">"
		if value, ok := args[arg.Name]; ok {
			syntax = strings.ReplaceAll(syntax, placeholder, quoteValue(value))
		} else if arg.Default != nil {
			syntax = strings.ReplaceAll(syntax, placeholder, quoteShell(stringify(arg.Default)))
		}
	}

	syntax = unfilledOptional.ReplaceAllString(syntax, "")
	syntax = unfilledRequired.ReplaceAllString(syntax, "")

	return strings.TrimSpace(syntax)
}

// quoteValue quotes a single value, or space-joins a list with each
// element quoted individually.
func quoteValue(value any) string {
	switch list := value.(type) {
	case []any:
		parts := make([]string, len(list))
		for i, item := range list {
			parts[i] = quoteShell(stringify(item))
		}
		return strings.Join(parts, " ")
	case []string:
		parts := make([]string, len(list))
		for i, item := range list {
			parts[i] = quoteShell(item)
		}
		return strings.Join(parts, " ")
	default:
		return quoteShell(stringify(value))
	}
}
