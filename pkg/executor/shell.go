package executor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// safeShellToken matches strings that can be passed to the shell unquoted.
var safeShellToken = regexp.MustCompile(`^[a-zA-Z0-9_@%+=:,./-]+$`)

// quoteShell makes a single token safe for sh by wrapping it in single
// quotes when needed, escaping embedded single quotes.
func quoteShell(s string) string {
	if s == "" {
		return "''"
	}
	if safeShellToken.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// stringify renders an argument value as the text that appears in the
// built command.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// isTruthy decides whether a boolean flag should be emitted. Unset and
// empty values are false; everything else follows its natural reading.
func isTruthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != "" && !strings.EqualFold(v, "false") && v != "0"
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	default:
		return true
	}
}

func trimDashes(s string) string {
	return strings.TrimLeft(s, "-")
}
