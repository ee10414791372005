package query

import (
	"strings"

	"github.com/pkg/errors"
)

// ParseQueryString splits a full query string of the form
//
//	skill-name:path.to.section?key1=val1&key2=val2
//
// into its components. The first colon separates the skill name, the first
// question mark separates the path from the filter list, and each
// ampersand-separated pair splits on its first equals sign.
func ParseQueryString(raw string) (skillName, path string, filters map[string]string, err error) {
	name, rest, ok := strings.Cut(raw, ":")
	if !ok {
		return "", "", nil, errors.Errorf("invalid query format, expected 'skill:path': %s", raw)
	}

	filters = map[string]string{}
	path, filterStr, hasFilters := strings.Cut(rest, "?")
	if hasFilters {
		for _, pair := range strings.Split(filterStr, "&") {
			key, value, ok := strings.Cut(pair, "=")
			if ok {
				filters[key] = value
			}
		}
	}

	return name, path, filters, nil
}

// CacheKey builds the memoization key for a query: skill name, path, and
// filters as sorted key=value pairs.
func CacheKey(skillName, path string, filters map[string]string) string {
	pairs := make([]string, 0, len(filters))
	for _, key := range sortedFilterKeys(filters) {
		pairs = append(pairs, key+"="+filters[key])
	}
	return skillName + ":" + path + "?" + strings.Join(pairs, "&")
}
