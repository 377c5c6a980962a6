package reportgen

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// Placeholder delimiter pairs, tried in order. The double-brace and
// dollar-brace passes run before the single-brace pass so that pass
// cannot consume the inner braces of the other two syntaxes.
var placeholderDelims = []struct{ open, close string }{
	{`\{\{`, `\}\}`}, // {{name}}
	{`\$\{`, `\}`},   // ${name}
	{`\{`, `\}`},     // {name}
}

// FlattenData flattens arbitrarily nested data into a single-level map of
// dotted-path keys. Nested maps recurse with the key as a path segment;
// lists recurse only when every element is itself a map, using the numeric
// index as a segment. Everything else is kept as a scalar value.
//
//	{"a": {"b": 1}}            -> {"a.b": 1}
//	{"a": [{"b": 1}]}          -> {"a.0.b": 1}
//	{"a": [1, 2]}              -> {"a": [1, 2]}
func FlattenData(data map[string]any) map[string]any {
	result := make(map[string]any, len(data))
	flattenInto(result, data, "")
	return result
}

func flattenInto(dst map[string]any, data map[string]any, prefix string) {
	for key, value := range data {
		path := key
		if prefix != "" {
			path = prefix + key
		}

		switch v := value.(type) {
		case map[string]any:
			flattenInto(dst, v, path+".")
		case []any:
			if allMaps(v) {
				for i, item := range v {
					flattenInto(dst, item.(map[string]any), path+"."+strconv.Itoa(i)+".")
				}
			} else {
				dst[path] = v
			}
		default:
			dst[path] = value
		}
	}
}

func allMaps(items []any) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if _, ok := item.(map[string]any); !ok {
			return false
		}
	}
	return true
}

// Substitute replaces placeholders in content with values from data.
// Three syntaxes are supported concurrently: {{name}}, ${name} and
// {name}, with whitespace tolerated inside the delimiters and dotted
// paths resolving into nested data (see FlattenData).
//
// A placeholder whose key is absent from the flattened data is left
// untouched; a key bound to nil substitutes the empty string. Keys are
// applied in sorted order so substitution is deterministic, and the
// operation is idempotent for values free of placeholder syntax.
func Substitute(content string, data map[string]any) string {
	flat := FlattenData(data)

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := content
	for _, delims := range placeholderDelims {
		for _, key := range keys {
			pattern := regexp.MustCompile(delims.open + `\s*` + regexp.QuoteMeta(key) + `\s*` + delims.close)
			// Literal replacement: bound values must not be expanded as
			// regex templates ($1 etc.).
			result = pattern.ReplaceAllLiteralString(result, stringify(flat[key]))
		}
	}
	return result
}

// stringify renders a bound value as text; nil becomes the empty string.
func stringify(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
