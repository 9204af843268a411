package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// tokenPattern matches {{path.to.field}} with optional inner whitespace.
var tokenPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_\-]+(?:\.[A-Za-z0-9_\-]+)*)\s*\}\}`)

// DocumentData is the render-ready data a template is merged against.
// Values are nested maps, slices and pre-formatted strings.
type DocumentData map[string]any

// Set stores value at a dotted path, creating intermediate maps.
func (d DocumentData) Set(path string, value any) {
	parts := strings.Split(path, ".")
	cur := map[string]any(d)
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur[p].(map[string]any)
		if !ok {
			if dd, isDoc := cur[p].(DocumentData); isDoc {
				next = dd
			} else {
				next = map[string]any{}
				cur[p] = next
			}
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = value
}

// Lookup resolves a dotted path. The second result is false when any segment
// is missing or the leaf is not a scalar.
func (d DocumentData) Lookup(path string) (string, bool) {
	var cur any = map[string]any(d)
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return "", false
			}
			cur = v
		case DocumentData:
			v, ok := node[seg]
			if !ok {
				return "", false
			}
			cur = v
		case map[string]string:
			v, ok := node[seg]
			if !ok {
				return "", false
			}
			cur = v
		case []map[string]any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return "", false
			}
			cur = node[i]
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return "", false
			}
			cur = node[i]
		case []string:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return "", false
			}
			cur = node[i]
		default:
			return "", false
		}
	}
	if cur == nil {
		return "", false
	}
	switch cur.(type) {
	case map[string]any, DocumentData, map[string]string, []map[string]any, []any, []string:
		return "", false
	}
	s, err := cast.ToStringE(cur)
	if err != nil {
		return "", false
	}
	return s, true
}

// MergeResult is the merged markup plus the token paths that did not resolve.
type MergeResult struct {
	HTML          string   `json:"html"`
	MissingTokens []string `json:"missingTokens"`
}

// Merge replaces every {{path}} token in template with the value found in
// data. Unresolved tokens render as an empty string and are reported once, in
// order of first appearance. Replacement is a single pass, so substituted
// values are never re-scanned for tokens.
//
// Values are inserted without HTML escaping; quotation content is authored by
// operators and treated as trusted. Callers rendering untrusted input must
// escape values before building DocumentData.
func Merge(template string, data DocumentData) MergeResult {
	missing := []string{}
	seen := map[string]bool{}
	html := tokenPattern.ReplaceAllStringFunc(template, func(tok string) string {
		path := tokenPattern.FindStringSubmatch(tok)[1]
		if v, ok := data.Lookup(path); ok {
			return v
		}
		if !seen[path] {
			seen[path] = true
			missing = append(missing, path)
		}
		return ""
	})
	return MergeResult{HTML: html, MissingTokens: missing}
}

// Tokens lists the distinct token paths used by template, in order.
func Tokens(template string) []string {
	var paths []string
	seen := map[string]bool{}
	for _, m := range tokenPattern.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			paths = append(paths, m[1])
		}
	}
	return paths
}
