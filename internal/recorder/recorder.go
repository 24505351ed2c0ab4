package recorder

// FetchEvent records the outcome of one map's fetch-merge cycle.
type FetchEvent struct {
	Keyword    string
	Fetched    int // raw records returned by the API
	Merged     int // history rows after merge+trim
	Trimmed    int // rows dropped by the retention trim
	DurationMs int64
	Error      string // empty on success
}

// BuildEvent records one report generation.
type BuildEvent struct {
	MapsTotal    int
	MapsWithData int
	OutputPath   string
	DurationMs   int64
}

// Recorder persists run metrics for later inspection.
type Recorder interface {
	RecordFetch(evt *FetchEvent) error
	RecordBuild(evt *BuildEvent) error
	Close() error
}
