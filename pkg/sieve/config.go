package sieve

// DefaultRawDir and DefaultProcessedDir are the conventional sibling
// directories: raw is externally populated, processed is externally consumed.
const (
	DefaultRawDir       = "logs/raw"
	DefaultProcessedDir = "logs/processed"
)

// Config describes one watcher-filter loop.
type Config struct {
	// RawDir is the directory watched for newly created log files.
	// It must exist at startup; the watcher never creates it.
	RawDir string `json:"rawDir,omitempty" jsonschema:"title=Raw Directory"`
	// ProcessedDir receives the filtered files, one per raw file, same name.
	// It must exist at startup; the watcher never creates it.
	ProcessedDir string `json:"processedDir,omitempty" jsonschema:"title=Processed Directory"`
	// Include limits processing to file names matching at least one glob
	// pattern. Empty means every created file is processed.
	Include []string `json:"include,omitempty" jsonschema:"title=Include Patterns"`
	// Keywords are the marker substrings deciding which lines are retained.
	// Omitted means the default set: Failed, ERROR, Critical.
	Keywords []string `json:"keywords,omitempty" jsonschema:"title=Marker Keywords"`
	// ProcessExisting additionally sweeps files already present in RawDir
	// at startup, before waiting for creation events.
	ProcessExisting bool `json:"processExisting,omitempty" jsonschema:"title=Process Existing Files"`
}

func DefaultConfig() *Config {
	c := &Config{}
	c.EnsureDefaults()

	return c
}

func (c *Config) EnsureDefaults() {
	if c.RawDir == "" {
		c.RawDir = DefaultRawDir
	}
	if c.ProcessedDir == "" {
		c.ProcessedDir = DefaultProcessedDir
	}
}
