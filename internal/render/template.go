package render

import "regexp"

// placeholderPattern matches {name} patterns. Property names may contain
// slashes (e.g. metadata/by-key/album) but never braces.
var placeholderPattern = regexp.MustCompile(`\{([^{}]+)\}`)

// expand substitutes every {name} placeholder with its value from vars.
// Placeholders without a value are left unchanged.
func expand(template string, vars map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		// Extract the name from {name}
		name := match[1 : len(match)-1]
		if val, ok := vars[name]; ok {
			return val
		}
		return match // leave unchanged if not found
	})
}

// placeholders returns the placeholder names in a template, in order of
// first appearance, deduplicated.
func placeholders(template string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}
