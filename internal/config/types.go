package config

// Error is the single error kind raised for an invalid configuration.
type Error struct {
	Message string
}

func (e Error) Error() string {
	return e.Message
}

// Database holds the validated definition of a database connection.
type Database struct {
	Name          string
	DSN           string
	KeepConnected bool
	AutoCommit    bool
	Labels        map[string]string
	ConnectSQL    []string
}

// Metric holds the validated definition of a metric, with its effective
// label set (declared labels plus the "database" label and any database
// label keys, sorted).
type Metric struct {
	Name        string
	Type        string
	Description string
	Labels      []string
	Buckets     []float64
	States      []string
}

// QueryMetric pairs a metric name with the label names the query result
// must supply values for.
type QueryMetric struct {
	Name   string
	Labels []string
}

// Query holds one concrete query instance. Parameterized declarations
// produce one Query per parameter set, named "<base>[paramsN]".
// Interval is in seconds; zero means no periodic schedule.
type Query struct {
	Name       string
	Interval   int
	Databases  []string
	Metrics    []QueryMetric
	SQL        string
	Parameters map[string]any
}

// Config is the immutable result of a successful build. It is never
// mutated after Load returns and is safe for concurrent reads.
type Config struct {
	Databases map[string]Database
	Metrics   map[string]Metric
	Queries   map[string]Query
}
