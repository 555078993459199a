package store

// Config aggregates per backend configuration
type Config struct {
	AppName string

	Docs DocConfig
	CH   CHConfig
}

// DocConfig configures the document store backend
type DocConfig struct {
	Enabled bool

	// Driver selects the adapter; "pg" is the only production driver today
	Driver string

	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int
}

// CHConfig configures clickhouse connectivity for the run-metrics sink
type CHConfig struct {
	Enabled    bool
	URL        string
	ClientName string
	ClientTag  string
}
