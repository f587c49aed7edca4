package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// rawDocument mirrors the document shape for the build phase. Structural
// validation runs on the untyped decode first, so the build phase can trust
// field types.
type rawDocument struct {
	Databases map[string]rawDatabase `yaml:"databases"`
	Metrics   map[string]rawMetric   `yaml:"metrics"`
	Queries   map[string]rawQuery    `yaml:"queries"`
}

type rawDatabase struct {
	DSN           string            `yaml:"dsn"`
	KeepConnected *bool             `yaml:"keep-connected"`
	AutoCommit    *bool             `yaml:"autocommit"`
	Labels        map[string]string `yaml:"labels"`
	ConnectSQL    []string          `yaml:"connect-sql"`
}

type rawMetric struct {
	Type        string    `yaml:"type"`
	Description string    `yaml:"description"`
	Labels      []string  `yaml:"labels"`
	Buckets     []float64 `yaml:"buckets"`
	States      []string  `yaml:"states"`
}

type rawQuery struct {
	Interval   any              `yaml:"interval"`
	Databases  []string         `yaml:"databases"`
	Metrics    []string         `yaml:"metrics"`
	SQL        string           `yaml:"sql"`
	Parameters []map[string]any `yaml:"parameters"`
}

// Load reads a YAML configuration document, validates it and builds the
// immutable Config consumed by the execution subsystem. A nil logger
// defaults to the logrus standard logger, a nil env to the process
// environment. Any violation aborts the build with a single Error; a
// partial Config is never returned.
func Load(r io.Reader, logger logrus.FieldLogger, env map[string]string) (*Config, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if env == nil {
		env = processEnviron()
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Error{Message: fmt.Sprintf("Invalid config: %v", err)}
	}
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, Error{Message: fmt.Sprintf("Invalid config: %v", err)}
	}
	if err := validateSchema(raw); err != nil {
		return nil, err
	}
	var doc rawDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, Error{Message: fmt.Sprintf("Invalid config: %v", err)}
	}

	databases, err := buildDatabases(doc.Databases, env)
	if err != nil {
		return nil, err
	}
	databaseLabels, err := checkDatabaseLabels(databases)
	if err != nil {
		return nil, err
	}
	metrics, err := buildMetrics(doc.Metrics, databaseLabels)
	if err != nil {
		return nil, err
	}
	queries, err := buildQueries(doc.Queries, databases, metrics, databaseLabels)
	if err != nil {
		return nil, err
	}
	warnUnused(logger, doc)

	return &Config{
		Databases: databases,
		Metrics:   metrics,
		Queries:   queries,
	}, nil
}

func buildDatabases(raw map[string]rawDatabase, env map[string]string) (map[string]Database, error) {
	databases := make(map[string]Database, len(raw))
	for _, name := range sortedKeys(raw) {
		entry := raw[name]
		dsn, err := resolveDSN(entry.DSN, env)
		if err != nil {
			return nil, err
		}
		databases[name] = Database{
			Name:          name,
			DSN:           dsn,
			KeepConnected: boolOrDefault(entry.KeepConnected, true),
			AutoCommit:    boolOrDefault(entry.AutoCommit, true),
			Labels:        entry.Labels,
			ConnectSQL:    entry.ConnectSQL,
		}
	}
	return databases, nil
}

func buildMetrics(raw map[string]rawMetric, databaseLabels []string) (map[string]Metric, error) {
	builtin := GlobalMetrics()
	metrics := make(map[string]Metric, len(raw)+len(builtin))
	for _, name := range sortedKeys(raw) {
		if _, ok := builtin[name]; ok {
			return nil, Error{Message: fmt.Sprintf(
				"Metric name %q is reserved for builtin metric", name)}
		}
		entry := raw[name]
		labels, err := metricLabels(name, entry.Labels, databaseLabels)
		if err != nil {
			return nil, err
		}
		metrics[name] = Metric{
			Name:        name,
			Type:        entry.Type,
			Description: entry.Description,
			Labels:      labels,
			Buckets:     entry.Buckets,
			States:      entry.States,
		}
	}
	// The builtin set is merged last so a collision is always caught above
	// instead of silently overwriting.
	for name, metric := range builtin {
		metrics[name] = metric
	}
	return metrics, nil
}

func buildQueries(raw map[string]rawQuery, databases map[string]Database,
	metrics map[string]Metric, databaseLabels []string) (map[string]Query, error) {

	queries := make(map[string]Query, len(raw))
	for _, name := range sortedKeys(raw) {
		entry := raw[name]

		var unknown []string
		for _, db := range entry.Databases {
			if _, ok := databases[db]; !ok {
				unknown = append(unknown, db)
			}
		}
		if len(unknown) > 0 {
			return nil, Error{Message: fmt.Sprintf(
				"Unknown databases for query %q: %s", name, sortedNames(unknown))}
		}
		for _, metric := range entry.Metrics {
			if _, ok := metrics[metric]; !ok {
				unknown = append(unknown, metric)
			}
		}
		if len(unknown) > 0 {
			return nil, Error{Message: fmt.Sprintf(
				"Unknown metrics for query %q: %s", name, sortedNames(unknown))}
		}

		interval, err := parseInterval(entry.Interval)
		if err != nil {
			return nil, invalidConfigError("queries/"+name+"/interval", err.Error())
		}

		queryMetrics := make([]QueryMetric, 0, len(entry.Metrics))
		for _, metric := range entry.Metrics {
			queryMetrics = append(queryMetrics, QueryMetric{
				Name:   metric,
				Labels: queryLabels(metrics[metric].Labels, databaseLabels),
			})
		}

		expanded, err := expandQuery(name, Query{
			Interval:  interval,
			Databases: entry.Databases,
			Metrics:   queryMetrics,
			SQL:       entry.SQL,
		}, entry.Parameters)
		if err != nil {
			return nil, err
		}
		for _, query := range expanded {
			queries[query.Name] = query
		}
	}
	return queries, nil
}

// warnUnused logs one advisory line per section listing declared entries no
// query references. Unused entries are never an error.
func warnUnused(logger logrus.FieldLogger, doc rawDocument) {
	usedDatabases := make(map[string]bool)
	usedMetrics := make(map[string]bool)
	for _, query := range doc.Queries {
		for _, db := range query.Databases {
			usedDatabases[db] = true
		}
		for _, metric := range query.Metrics {
			usedMetrics[metric] = true
		}
	}

	sections := []struct {
		name     string
		declared []string
		used     map[string]bool
	}{
		{"databases", sortedKeys(doc.Databases), usedDatabases},
		{"metrics", sortedKeys(doc.Metrics), usedMetrics},
	}
	for _, section := range sections {
		var unused []string
		for _, name := range section.declared {
			if !section.used[name] {
				unused = append(unused, name)
			}
		}
		if len(unused) > 0 {
			logger.Warnf("unused entries in %q section: %s",
				section.name, strings.Join(unused, ", "))
		}
	}
}

func boolOrDefault(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
