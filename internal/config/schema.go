package config

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	metricNameRegexp = regexp.MustCompile(`^[a-zA-Z_:][a-zA-Z0-9_:]*$`)
	labelNameRegexp  = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
)

// schema is one node of the declarative ruleset the structural validator
// walks. Zero-valued fields mean "no constraint". The ruleset is data so it
// can be checked independently of the build semantics.
type schema struct {
	types       []string // allowed instance types
	enum        []string
	pattern     *regexp.Regexp // strings must match
	minimum     *int
	required    []string   // object keys that must be present
	properties  []property // validated in declared order
	noExtra     bool       // reject object keys outside properties
	patternKeys *regexp.Regexp // object keys must match; others are rejected
	values      *schema        // schema for all pattern-keyed object values
	items       *schema
	minItems    int
}

type property struct {
	name   string
	schema *schema
}

var databaseSchema = &schema{
	types:    []string{"object"},
	required: []string{"dsn"},
	properties: []property{
		{"dsn", &schema{types: []string{"string"}}},
		{"keep-connected", &schema{types: []string{"boolean"}}},
		{"autocommit", &schema{types: []string{"boolean"}}},
		{"labels", &schema{
			types:       []string{"object"},
			patternKeys: labelNameRegexp,
			values:      &schema{types: []string{"string"}},
		}},
		{"connect-sql", &schema{
			types: []string{"array"},
			items: &schema{types: []string{"string"}},
		}},
	},
	noExtra: true,
}

var metricSchema = &schema{
	types:    []string{"object"},
	required: []string{"type"},
	properties: []property{
		{"type", &schema{
			types: []string{"string"},
			enum:  []string{"counter", "enum", "gauge", "histogram", "summary"},
		}},
		{"description", &schema{types: []string{"string"}}},
		{"labels", &schema{
			types: []string{"array"},
			items: &schema{types: []string{"string"}, pattern: labelNameRegexp},
		}},
		{"buckets", &schema{
			types: []string{"array"},
			items: &schema{types: []string{"number"}},
		}},
		{"states", &schema{
			types: []string{"array"},
			items: &schema{types: []string{"string"}},
		}},
	},
	noExtra: true,
}

var querySchema = &schema{
	types:    []string{"object"},
	required: []string{"databases", "metrics", "sql"},
	properties: []property{
		{"interval", &schema{
			types:   []string{"integer", "string", "null"},
			minimum: intPtr(1),
		}},
		{"databases", &schema{
			types:    []string{"array"},
			items:    &schema{types: []string{"string"}},
			minItems: 1,
		}},
		{"metrics", &schema{
			types:    []string{"array"},
			items:    &schema{types: []string{"string"}},
			minItems: 1,
		}},
		{"sql", &schema{types: []string{"string"}}},
		{"parameters", &schema{
			types:    []string{"array"},
			items:    &schema{types: []string{"object"}},
			minItems: 1,
		}},
	},
	noExtra: true,
}

// configSchema covers the whole document.
var configSchema = &schema{
	types:    []string{"object"},
	required: []string{"databases", "metrics", "queries"},
	properties: []property{
		{"databases", &schema{types: []string{"object"}, values: databaseSchema}},
		{"metrics", &schema{
			types:       []string{"object"},
			patternKeys: metricNameRegexp,
			values:      metricSchema,
		}},
		{"queries", &schema{types: []string{"object"}, values: querySchema}},
	},
	noExtra: true,
}

func intPtr(n int) *int {
	return &n
}

// validateSchema checks the raw decoded document against configSchema,
// stopping at the first violation.
func validateSchema(doc any) error {
	return validateNode("", doc, configSchema)
}

func validateNode(path string, value any, s *schema) error {
	if len(s.types) > 0 && !typeMatches(value, s.types) {
		quoted := make([]string, len(s.types))
		for i, t := range s.types {
			quoted[i] = "'" + t + "'"
		}
		return invalidConfigError(path, fmt.Sprintf(
			"%s is not of type %s", pyRepr(value), strings.Join(quoted, ", ")))
	}

	switch v := value.(type) {
	case string:
		if len(s.enum) > 0 && !contains(s.enum, v) {
			enum := make([]any, len(s.enum))
			for i, e := range s.enum {
				enum[i] = e
			}
			return invalidConfigError(path, fmt.Sprintf(
				"%s is not one of %s", pyRepr(v), pyRepr(enum)))
		}
		if s.pattern != nil && !s.pattern.MatchString(v) {
			return invalidConfigError(path, fmt.Sprintf(
				"%s does not match '%s'", pyRepr(v), s.pattern.String()))
		}
	case map[string]any:
		for _, name := range s.required {
			if _, ok := v[name]; !ok {
				return invalidConfigError(path, fmt.Sprintf(
					"'%s' is a required property", name))
			}
		}
		if s.patternKeys != nil {
			for _, key := range sortedKeys(v) {
				if !s.patternKeys.MatchString(key) {
					return invalidConfigError(path, fmt.Sprintf(
						"%s does not match any of the regexes: '%s'",
						pyRepr(key), s.patternKeys.String()))
				}
			}
		}
		if s.noExtra {
			known := make(map[string]bool, len(s.properties))
			for _, p := range s.properties {
				known[p.name] = true
			}
			var extra []string
			for _, key := range sortedKeys(v) {
				if !known[key] {
					extra = append(extra, "'"+key+"'")
				}
			}
			if len(extra) > 0 {
				verb := "was"
				if len(extra) > 1 {
					verb = "were"
				}
				return invalidConfigError(path, fmt.Sprintf(
					"Additional properties are not allowed (%s %s unexpected)",
					strings.Join(extra, ", "), verb))
			}
		}
		for _, p := range s.properties {
			if pv, ok := v[p.name]; ok {
				if err := validateNode(joinPath(path, p.name), pv, p.schema); err != nil {
					return err
				}
			}
		}
		if s.values != nil {
			for _, key := range sortedKeys(v) {
				if err := validateNode(joinPath(path, key), v[key], s.values); err != nil {
					return err
				}
			}
		}
	case []any:
		if len(v) < s.minItems {
			return invalidConfigError(path, fmt.Sprintf("%s is too short", pyRepr(v)))
		}
		if s.items != nil {
			for i, item := range v {
				if err := validateNode(joinPath(path, strconv.Itoa(i)), item, s.items); err != nil {
					return err
				}
			}
		}
	default:
		if n, ok := asInt(value); ok && s.minimum != nil && n < int64(*s.minimum) {
			return invalidConfigError(path, fmt.Sprintf(
				"%s is less than the minimum of %d", pyRepr(value), *s.minimum))
		}
	}
	return nil
}

// invalidConfigError builds the structural error message shared by the
// schema validator and the interval checks.
func invalidConfigError(path, reason string) error {
	if path == "" {
		return Error{Message: "Invalid config: " + reason}
	}
	return Error{Message: fmt.Sprintf("Invalid config at %s: %s", path, reason)}
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "/" + key
}

func typeMatches(value any, types []string) bool {
	actual := typeOf(value)
	for _, t := range types {
		if t == actual || (t == "number" && actual == "integer") {
			return true
		}
	}
	return false
}

func typeOf(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case int, int64, uint64:
		return "integer"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return "unknown"
}

func asInt(value any) (int64, bool) {
	switch n := value.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	case float64:
		return int64(n), float64(int64(n)) == n
	}
	return 0, false
}

// pyRepr renders a value the way jsonschema-style messages quote it:
// strings in single quotes, numbers bare, sequences bracketed.
func pyRepr(value any) string {
	switch v := value.(type) {
	case nil:
		return "None"
	case bool:
		if v {
			return "True"
		}
		return "False"
	case string:
		return "'" + v + "'"
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = pyRepr(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := sortedKeys(v)
		parts := make([]string, len(keys))
		for i, key := range keys {
			parts[i] = pyRepr(key) + ": " + pyRepr(v[key])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return fmt.Sprintf("%v", value)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
