// Package render derives the output line from cached property values and
// the configured templates.
package render

import (
	"sort"
	"strings"

	"mpvstatusd/internal/config"
	"mpvstatusd/internal/mpv"
	"mpvstatusd/internal/props"
)

// Renderer is a pure function over the property cache: same cache and
// connection state always yield the same line.
type Renderer struct {
	format string
	empty  string
	rules  map[string]config.DisplayRule
	names  []string
}

// New compiles the configured templates into a renderer.
func New(cfg *config.Config) *Renderer {
	return &Renderer{
		format: cfg.Format,
		empty:  cfg.Empty,
		rules:  cfg.Custom,
		names:  placeholders(cfg.Format),
	}
}

// ReferencedProperties returns the deduplicated union of properties named
// in the top-level format and in custom display rules. This is the set the
// session must observe after connecting.
func ReferencedProperties(cfg *config.Config) []string {
	seen := make(map[string]bool)
	var names []string
	for _, name := range placeholders(cfg.Format) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for name := range cfg.Custom {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Render produces the output line. While no player is connected the
// configured empty string is returned verbatim, with no substitution.
func (r *Renderer) Render(cache *props.Cache, connected bool) string {
	if !connected {
		return r.empty
	}

	vars := make(map[string]string, len(r.names))
	for _, name := range r.names {
		value := cache.Get(name)
		if rule, ok := r.rules[name]; ok {
			vars[name] = applyRule(rule, value)
		} else {
			vars[name] = value.String()
		}
	}
	return expand(r.format, vars)
}

// applyRule runs a display rule over one property value. An unset value
// suppresses the rule's whole inner format: surrounding literal text only
// appears when there is a value to show.
func applyRule(rule config.DisplayRule, value mpv.Value) string {
	if !value.IsSet() {
		return ""
	}

	s := value.String()

	// Replacements run before truncation, in lexicographic key order so
	// the result does not depend on map iteration.
	if len(rule.Replace) > 0 {
		keys := make([]string, 0, len(rule.Replace))
		for k := range rule.Replace {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			s = strings.ReplaceAll(s, k, rule.Replace[k])
		}
	}

	s = shorten(s, rule.MaxLength, rule.ShortenStr)

	return expand(rule.Format, map[string]string{"prop": s})
}

// shorten truncates s to maxLen runes. The suffix counts toward the cap:
// a truncated string is cut to maxLen minus the suffix length, then the
// suffix is appended, so the result is exactly maxLen runes.
func shorten(s string, maxLen int, suffix string) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	keep := maxLen - len([]rune(suffix))
	if keep < 0 {
		// The suffix alone exceeds the cap; cut the suffix itself so
		// the result still honors maxLen.
		return string([]rune(suffix)[:maxLen])
	}
	return string(runes[:keep]) + suffix
}
