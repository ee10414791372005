package executor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ifoster01/uasp/pkg/skill"
	"github.com/ifoster01/uasp/pkg/state"
)

func echoSkill() *skill.Skill {
	return &skill.Skill{
		Meta: skill.Meta{Name: "echo-tool", Type: skill.TypeCLI},
		GlobalFlags: []skill.Flag{
			{Name: "--verbose", Type: "bool", Purpose: "Verbose output"},
			{Name: "--profile", Type: "string", Purpose: "Named profile"},
		},
		State: &skill.State{
			Entities: []skill.StateEntity{
				{Name: "session", CreatedBy: []string{"login"}},
			},
		},
		Commands: map[string]skill.Command{
			"login": {
				Syntax:  "echo session-token",
				Creates: []string{"session"},
			},
			"greet": {
				Syntax: "echo hello <name>",
				Args: []skill.Argument{
					{Name: "name", Type: "string", Required: true},
				},
			},
			"greet-default": {
				Syntax: "echo hello <name>",
				Args: []skill.Argument{
					{Name: "name", Type: "string", Default: "world"},
				},
			},
			"deploy": {
				Syntax:   "echo deploying",
				Requires: []string{"session"},
			},
			"fail": {
				Syntax: "sh -c 'exit 3'",
			},
			"sleep": {
				Syntax: "sleep 5",
			},
			"copy": {
				Syntax: "cp <files> <dest>",
				Args: []skill.Argument{
					{Name: "files", Type: "list", Required: true},
					{Name: "dest", Type: "string", Required: true},
				},
				Flags: []skill.Flag{
					{Name: "--force", Type: "bool", Short: "-f", Purpose: "Overwrite"},
				},
			},
			"log": {
				Syntax: "tool log [--level <level>]",
				Flags: []skill.Flag{
					{Name: "--level", Type: "string", Purpose: "Log level"},
				},
			},
		},
	}
}

func TestBuild(t *testing.T) {
	exec := New(echoSkill(), nil)

	t.Run("positional substitution", func(t *testing.T) {
		cmd, err := exec.Build("greet", map[string]any{"name": "alice"})
		require.NoError(t, err)
		assert.Equal(t, "echo hello alice", cmd)
	})

	t.Run("values needing quotes", func(t *testing.T) {
		cmd, err := exec.Build("greet", map[string]any{"name": "alice smith"})
		require.NoError(t, err)
		assert.Equal(t, "echo hello 'alice smith'", cmd)
	})

	t.Run("embedded single quote", func(t *testing.T) {
		cmd, err := exec.Build("greet", map[string]any{"name": "o'brien"})
		require.NoError(t, err)
		assert.Equal(t, `echo hello 'o'"'"'brien'`, cmd)
	})

	t.Run("default fills missing argument", func(t *testing.T) {
		cmd, err := exec.Build("greet-default", nil)
		require.NoError(t, err)
		assert.Equal(t, "echo hello world", cmd)
	})

	t.Run("missing required placeholder is stripped", func(t *testing.T) {
		cmd, err := exec.Build("greet", nil)
		require.NoError(t, err)
		assert.Equal(t, "echo hello", cmd)
	})

	t.Run("list argument", func(t *testing.T) {
		cmd, err := exec.Build("copy", map[string]any{
			"files": []any{"a.txt", "b c.txt"},
			"dest":  "/tmp",
		})
		require.NoError(t, err)
		assert.Equal(t, "cp a.txt 'b c.txt' /tmp", cmd)
	})

	t.Run("bool flag prefers short form", func(t *testing.T) {
		cmd, err := exec.Build("copy", map[string]any{
			"files": []any{"a.txt"},
			"dest":  "/tmp",
			"force": true,
		})
		require.NoError(t, err)
		assert.Equal(t, "cp a.txt /tmp -f", cmd)
	})

	t.Run("unfilled optional segment is stripped", func(t *testing.T) {
		cmd, err := exec.Build("log", nil)
		require.NoError(t, err)
		assert.Equal(t, "tool log", cmd)
	})

	t.Run("provided flag replaces optional segment", func(t *testing.T) {
		cmd, err := exec.Build("log", map[string]any{"level": "debug"})
		require.NoError(t, err)
		assert.Equal(t, "tool log --level debug", cmd)
	})

	t.Run("global flags", func(t *testing.T) {
		cmd, err := exec.Build("greet", map[string]any{
			"name":    "alice",
			"verbose": true,
			"profile": "staging",
		})
		require.NoError(t, err)
		assert.Equal(t, "echo hello alice --verbose --profile staging", cmd)
	})

	t.Run("falsy global bool omitted", func(t *testing.T) {
		cmd, err := exec.Build("greet", map[string]any{
			"name":    "alice",
			"verbose": false,
		})
		require.NoError(t, err)
		assert.Equal(t, "echo hello alice", cmd)
	})

	t.Run("unknown command", func(t *testing.T) {
		_, err := exec.Build("nope", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown command: nope")
	})
}

func TestExecuteDryRun(t *testing.T) {
	exec := New(echoSkill(), nil)

	result, err := exec.Execute(context.Background(), "greet", map[string]any{"name": "alice"}, true, 0)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "[DRY RUN] Would execute: echo hello alice", result.Stdout)
	assert.Equal(t, 0, result.ReturnCode)
	assert.Equal(t, "echo hello alice", result.Command)
}

func TestExecuteUnknownCommand(t *testing.T) {
	exec := New(echoSkill(), nil)

	result, err := exec.Execute(context.Background(), "nope", nil, false, 0)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, 1, result.ReturnCode)
	assert.Equal(t, "Unknown command: nope", result.Stderr)
}

func TestExecuteInvalidState(t *testing.T) {
	exec := New(echoSkill(), nil)

	_, err := exec.Execute(context.Background(), "deploy", nil, false, 0)
	require.Error(t, err)

	var stateErr *InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, "session", stateErr.Entity)
	assert.Equal(t, []string{"session"}, stateErr.Missing)
}

func TestExecuteAppliesEffects(t *testing.T) {
	tracker := state.NewTracker(echoSkill())
	exec := New(echoSkill(), tracker)

	result, err := exec.Execute(context.Background(), "login", nil, false, 10*time.Second)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, "session-token\n", result.Stdout)

	value, ok := tracker.Value("session")
	require.True(t, ok)
	assert.Equal(t, "session-token\n", value)

	// Preconditions now pass.
	result, err = exec.Execute(context.Background(), "deploy", nil, false, 10*time.Second)
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestExecuteDryRunSkipsEffects(t *testing.T) {
	exec := New(echoSkill(), nil)

	_, err := exec.Execute(context.Background(), "login", nil, true, 0)
	require.NoError(t, err)
	assert.False(t, exec.State().IsValid("session"))
}

func TestExecuteNonZeroExit(t *testing.T) {
	exec := New(echoSkill(), nil)

	result, err := exec.Execute(context.Background(), "fail", nil, false, 10*time.Second)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, 3, result.ReturnCode)
}

func TestExecuteTimeout(t *testing.T) {
	exec := New(echoSkill(), nil)

	result, err := exec.Execute(context.Background(), "sleep", nil, false, 100*time.Millisecond)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, -1, result.ReturnCode)
	assert.Contains(t, result.Stderr, "timed out after")
}

func TestListCommands(t *testing.T) {
	exec := New(echoSkill(), nil)
	assert.Len(t, exec.ListCommands(), 8)
}

func TestCommandInfo(t *testing.T) {
	exec := New(echoSkill(), nil)

	cmd, ok := exec.CommandInfo("greet")
	require.True(t, ok)
	assert.Equal(t, "echo hello <name>", cmd.Syntax)

	_, ok = exec.CommandInfo("nope")
	assert.False(t, ok)
}
