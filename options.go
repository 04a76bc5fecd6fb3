package filesort

const (
	// defaultBufferBytes matches the CLI's default of 128 MiB.
	defaultBufferBytes = 128 << 20

	// defaultK is the merge fan-in ("K" in "K-way merge").
	defaultK = 16
)

// Option is a functional option for configuring a Sort call.
type Option func(*sortConfig)

type sortConfig struct {
	bufferBytes int
	threads     int
	tempDir     string
	observer    Observer
	checksum    bool
	k           int
}

func defaultSortConfig() *sortConfig {
	return &sortConfig{
		bufferBytes: defaultBufferBytes,
		threads:     numCPU(),
		observer:    NoopObserver{},
		k:           defaultK,
	}
}

// WithBufferBytes sets the size, in bytes, of the chunk buffer shared by
// ingest, the per-chunk sort, and the K-way merge. Must be a positive
// multiple of 4 (the size of one int32).
func WithBufferBytes(n int) Option {
	return func(c *sortConfig) {
		c.bufferBytes = n
	}
}

// WithThreads sets the worker count used by the per-chunk parallel sort.
func WithThreads(n int) Option {
	return func(c *sortConfig) {
		c.threads = n
	}
}

// WithTempDir overrides the directory under which run files are created.
// If unset, the default search order is used (see newTempDir).
func WithTempDir(dir string) Option {
	return func(c *sortConfig) {
		c.tempDir = dir
	}
}

// WithObserver installs a Stage enter/exit observer, e.g. for wall-clock
// profiling of the pipeline. The zero value leaves the NoopObserver in
// place.
func WithObserver(obs Observer) Option {
	return func(c *sortConfig) {
		if obs != nil {
			c.observer = obs
		}
	}
}

// WithChecksum enables the optional order-independent multiset checksum:
// a running hash is accumulated over every value read during ingest and
// recomputed over every value written during write-back, and Sort returns
// ErrChecksumMismatch if they disagree. This costs an extra hash per
// integer in both directions and is off by default.
func WithChecksum(enabled bool) Option {
	return func(c *sortConfig) {
		c.checksum = enabled
	}
}
