package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDocument() map[string]any {
	return map[string]any{
		"databases": map[string]any{
			"db": map[string]any{"dsn": "sqlite://"},
		},
		"metrics": map[string]any{
			"m": map[string]any{"type": "gauge", "labels": []any{"l1", "l2"}},
		},
		"queries": map[string]any{
			"q": map[string]any{
				"interval":  10,
				"databases": []any{"db"},
				"metrics":   []any{"m"},
				"sql":       "SELECT 1 AS m",
			},
		},
	}
}

func TestValidateSchemaValid(t *testing.T) {
	assert.NoError(t, validateSchema(validDocument()))
}

func TestValidateSchemaInvalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(doc map[string]any)
		message string
	}{
		{
			name: "MissingSection",
			mutate: func(doc map[string]any) {
				delete(doc, "queries")
			},
			message: "Invalid config: 'queries' is a required property",
		},
		{
			name: "ExtraSection",
			mutate: func(doc map[string]any) {
				doc["extra"] = map[string]any{}
			},
			message: "Invalid config: Additional properties are not allowed ('extra' was unexpected)",
		},
		{
			name: "MissingDSN",
			mutate: func(doc map[string]any) {
				doc["databases"].(map[string]any)["db1"] = map[string]any{}
			},
			message: "Invalid config at databases/db1: 'dsn' is a required property",
		},
		{
			name: "DSNWrongType",
			mutate: func(doc map[string]any) {
				doc["databases"].(map[string]any)["db"] = map[string]any{"dsn": 10}
			},
			message: "Invalid config at databases/db/dsn: 10 is not of type 'string'",
		},
		{
			name: "KeepConnectedWrongType",
			mutate: func(doc map[string]any) {
				doc["databases"].(map[string]any)["db"] = map[string]any{
					"dsn": "sqlite://", "keep-connected": "yes",
				}
			},
			message: "Invalid config at databases/db/keep-connected: 'yes' is not of type 'boolean'",
		},
		{
			name: "MissingMetricType",
			mutate: func(doc map[string]any) {
				doc["metrics"].(map[string]any)["m"] = map[string]any{}
			},
			message: "Invalid config at metrics/m: 'type' is a required property",
		},
		{
			name: "UnsupportedMetricType",
			mutate: func(doc map[string]any) {
				doc["metrics"].(map[string]any)["m"] = map[string]any{"type": "info"}
			},
			message: "Invalid config at metrics/m/type: 'info' is not one of " +
				"['counter', 'enum', 'gauge', 'histogram', 'summary']",
		},
		{
			name: "InvalidMetricName",
			mutate: func(doc map[string]any) {
				doc["metrics"].(map[string]any)["is wrong"] = map[string]any{"type": "gauge"}
			},
			message: "Invalid config at metrics: 'is wrong' does not match any " +
				"of the regexes: '^[a-zA-Z_:][a-zA-Z0-9_:]*$'",
		},
		{
			name: "InvalidLabelName",
			mutate: func(doc map[string]any) {
				doc["metrics"].(map[string]any)["m"] = map[string]any{
					"type": "gauge", "labels": []any{"wrong-name"},
				}
			},
			message: "Invalid config at metrics/m/labels/0: 'wrong-name' does not " +
				"match '^[a-zA-Z_][a-zA-Z0-9_]*$'",
		},
		{
			name: "MissingQueryDatabases",
			mutate: func(doc map[string]any) {
				doc["queries"].(map[string]any)["q1"] = map[string]any{"interval": 10}
			},
			message: "Invalid config at queries/q1: 'databases' is a required property",
		},
		{
			name: "EmptyQueryDatabases",
			mutate: func(doc map[string]any) {
				doc["queries"].(map[string]any)["q"].(map[string]any)["databases"] = []any{}
			},
			message: "Invalid config at queries/q/databases: [] is too short",
		},
		{
			name: "EmptyQueryMetrics",
			mutate: func(doc map[string]any) {
				doc["queries"].(map[string]any)["q"].(map[string]any)["metrics"] = []any{}
			},
			message: "Invalid config at queries/q/metrics: [] is too short",
		},
		{
			name: "IntervalBelowMinimum",
			mutate: func(doc map[string]any) {
				doc["queries"].(map[string]any)["q"].(map[string]any)["interval"] = -20
			},
			message: "Invalid config at queries/q/interval: -20 is less than the minimum of 1",
		},
		{
			name: "IntervalWrongType",
			mutate: func(doc map[string]any) {
				doc["queries"].(map[string]any)["q"].(map[string]any)["interval"] = []any{}
			},
			message: "Invalid config at queries/q/interval: [] is not of type " +
				"'integer', 'string', 'null'",
		},
		{
			name: "ParametersNotObjects",
			mutate: func(doc map[string]any) {
				doc["queries"].(map[string]any)["q"].(map[string]any)["parameters"] = []any{"foo"}
			},
			message: "Invalid config at queries/q/parameters/0: 'foo' is not of type 'object'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDocument()
			tt.mutate(doc)
			err := validateSchema(doc)
			require.Error(t, err)
			assert.IsType(t, Error{}, err)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestPyRepr(t *testing.T) {
	tests := []struct {
		value any
		repr  string
	}{
		{nil, "None"},
		{true, "True"},
		{"foo", "'foo'"},
		{10, "10"},
		{1.5, "1.5"},
		{[]any{}, "[]"},
		{[]any{"a", 1}, "['a', 1]"},
		{map[string]any{"b": 2, "a": 1}, "{'a': 1, 'b': 2}"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.repr, pyRepr(tt.value))
	}
}
