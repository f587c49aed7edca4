package config

import (
	"fmt"
	"sort"
	"strings"
)

// DatabaseLabel is the reserved label carrying the database name on every
// metric.
const DatabaseLabel = "database"

// checkDatabaseLabels verifies that every database declares the same label
// key set and returns that set. Values are free to differ; keys are not.
func checkDatabaseLabels(databases map[string]Database) ([]string, error) {
	var reference []string
	first := true
	for _, name := range sortedKeys(databases) {
		keys := sortedKeys(databases[name].Labels)
		if first {
			reference = keys
			first = false
			continue
		}
		if !equalStrings(reference, keys) {
			return nil, Error{Message: "Not all databases define the same labels"}
		}
	}
	return reference, nil
}

// metricLabels computes the effective label set for a metric: the declared
// labels plus the reserved "database" label and the database label keys.
// Declared labels may not overlap the reserved set.
func metricLabels(name string, declared, databaseLabels []string) ([]string, error) {
	reserved := make(map[string]bool, len(databaseLabels)+1)
	reserved[DatabaseLabel] = true
	for _, label := range databaseLabels {
		reserved[label] = true
	}

	var overlap []string
	for _, label := range declared {
		if reserved[label] {
			overlap = append(overlap, label)
		}
	}
	if len(overlap) > 0 {
		sort.Strings(overlap)
		return nil, Error{Message: fmt.Sprintf(
			"Labels for metric %q overlap with reserved/database ones: %s",
			name, strings.Join(overlap, ", "))}
	}

	labels := make([]string, 0, len(declared)+len(reserved))
	labels = append(labels, declared...)
	for label := range reserved {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels, nil
}

// queryLabels is the effective label set minus the reserved/database ones,
// i.e. the labels a query result must supply values for.
func queryLabels(effective, databaseLabels []string) []string {
	reserved := make(map[string]bool, len(databaseLabels)+1)
	reserved[DatabaseLabel] = true
	for _, label := range databaseLabels {
		reserved[label] = true
	}
	labels := make([]string, 0, len(effective))
	for _, label := range effective {
		if !reserved[label] {
			labels = append(labels, label)
		}
	}
	return labels
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
