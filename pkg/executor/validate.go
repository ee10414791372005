package executor

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// ValidateArgs checks supplied arguments against a command's declared
// specs and returns every applicable error, not just the first. Build
// deliberately does not perform these checks; callers opt in.
func (e *Executor) ValidateArgs(name string, args map[string]any) []string {
	cmd, ok := e.skill.Command(name)
	if !ok {
		return []string{fmt.Sprintf("Unknown command: %s", name)}
	}

	var errs []string

	for _, arg := range cmd.Args {
		if arg.Required {
			if _, supplied := args[arg.Name]; !supplied {
				errs = append(errs, fmt.Sprintf("Missing required argument: %s", arg.Name))
			}
		}
	}

	for _, arg := range cmd.Args {
		value, supplied := args[arg.Name]
		if !supplied {
			continue
		}
		switch arg.Type {
		case "int":
			if !isInteger(value) {
				errs = append(errs, fmt.Sprintf("Argument '%s' must be an integer", arg.Name))
			}
		case "bool":
			if _, isBool := value.(bool); !isBool {
				errs = append(errs, fmt.Sprintf("Argument '%s' must be a boolean", arg.Name))
			}
		case "enum":
			if len(arg.Values) > 0 && !slices.Contains(arg.Values, stringify(value)) {
				errs = append(errs, fmt.Sprintf("Argument '%s' must be one of: %s", arg.Name, strings.Join(arg.Values, ", ")))
			}
		}
	}

	return errs
}

func isInteger(value any) bool {
	switch v := value.(type) {
	case int, int64:
		return true
	case float64:
		return v == math.Trunc(v)
	case string:
		_, err := strconv.Atoi(strings.TrimSpace(v))
		return err == nil
	default:
		return false
	}
}
