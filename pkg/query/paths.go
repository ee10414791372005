package query

import "github.com/ifoster01/uasp/pkg/skill"

// ListPaths enumerates the dotted paths reachable by mapping-key descent.
// For sequences it descends one level into the first element only, to
// expose the item shape without enumerating every instance. The listing is
// an approximation, not every addressable element.
func ListPaths(doc *skill.Value) []string {
	return listPaths(doc, "")
}

func listPaths(v *skill.Value, prefix string) []string {
	var paths []string
	if !v.IsMapping() {
		return paths
	}
	for _, key := range v.Keys() {
		current := key
		if prefix != "" {
			current = prefix + Delimiter + key
		}
		paths = append(paths, current)

		child, _ := v.Get(key)
		switch child.Kind() {
		case skill.KindMapping:
			paths = append(paths, listPaths(child, current)...)
		case skill.KindSequence:
			if items := child.Items(); len(items) > 0 && items[0].IsMapping() {
				paths = append(paths, listPaths(items[0], current+"[0]")...)
			}
		}
	}
	return paths
}
