// Package filesort implements an external sorter for text files containing
// one signed 32-bit integer per line.
//
// Sorting happens in place: the file is rewritten with its integers in
// non-decreasing order. Peak memory use is bounded by a caller-supplied
// buffer size, so inputs larger than available RAM are handled by spilling
// intermediate sorted runs to a temporary directory and consolidating them
// with a K-way merge.
//
// # Basic usage
//
//	if err := filesort.Sort(ctx, "numbers.txt"); err != nil {
//	    log.Fatal(err)
//	}
//
// With options:
//
//	err := filesort.Sort(ctx, "numbers.txt",
//	    filesort.WithBufferBytes(64<<20),
//	    filesort.WithThreads(8),
//	    filesort.WithChecksum(true),
//	)
//
// # Package structure
//
//   - Public API: sort.go (Sort)
//   - Configuration: options.go (Option, With*)
//   - Observability: observer.go (Observer, Stage)
//   - Ingest + write-back I/O: chunk.go, textio.go
//   - Run file management: runfile.go
//   - K-way merge: merge.go, internal/heap
//   - Parallel in-memory sort: internal/pmsort
//   - Verification: checksum.go
//   - CPU discovery: cpu.go
//   - Temp directory lifecycle: tempdir.go
package filesort
