package config

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Named placeholders are ":identifier" tokens. The leading group rules out
// "::" so engine-level casts are not mistaken for placeholders.
var placeholderRegexp = regexp.MustCompile(`(^|[^:a-zA-Z0-9_]):([a-zA-Z_][a-zA-Z0-9_]*)`)

// sqlPlaceholders returns the sorted set of named placeholders referenced
// by the SQL text.
func sqlPlaceholders(sql string) []string {
	seen := make(map[string]bool)
	for _, match := range placeholderRegexp.FindAllStringSubmatch(sql, -1) {
		seen[match[2]] = true
	}
	return sortedKeys(seen)
}

// expandQuery materializes the concrete instances for a query declaration.
// A declaration without parameters yields a single instance under its own
// name; one with parameters yields an instance per parameter set, named
// "<base>[paramsN]" in declaration order.
func expandQuery(name string, query Query, parameters []map[string]any) ([]Query, error) {
	if len(parameters) == 0 {
		query.Name = name
		query.Parameters = map[string]any{}
		return []Query{query}, nil
	}

	keys := sortedKeys(parameters[0])
	for _, params := range parameters[1:] {
		if !equalStrings(keys, sortedKeys(params)) {
			return nil, Error{Message: fmt.Sprintf(
				"Invalid parameters definition for query %q: "+
					"parameters dictionaries must all have the same keys", name)}
		}
	}

	placeholders := sqlPlaceholders(query.SQL)
	queries := make([]Query, 0, len(parameters))
	for i, params := range parameters {
		instance := query
		instance.Name = fmt.Sprintf("%s[params%d]", name, i)
		if !equalStrings(keys, placeholders) {
			return nil, Error{Message: fmt.Sprintf(
				"Parameters for query %q don't match those from SQL", instance.Name)}
		}
		instance.Parameters = params
		queries = append(queries, instance)
	}
	return queries, nil
}

// sortedNames returns names sorted and comma-joined, the format shared by
// cross-reference errors and unused-entry warnings.
func sortedNames(names []string) string {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)
	return strings.Join(sorted, ", ")
}
