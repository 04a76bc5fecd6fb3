package filesort

import (
	"context"
	"fmt"
	"os"

	ferrors "github.com/mvsort/filesort/errors"
	"github.com/mvsort/filesort/internal/pmsort"
)

// contextCheckInterval bounds how often ingest polls ctx.Err(), so
// cancellation is observed without paying a context check per integer.
// kmerge checks ctx once per merge stage.
const contextCheckInterval = 1 << 16

// Sort rewrites the text file at path in place so its lines — each one
// signed 32-bit decimal integer — appear in non-decreasing order. It
// allocates one chunk buffer sized by WithBufferBytes (128 MiB by
// default), spills sorted runs to a temporary directory, merges them with
// a K-way merge, and writes the result back over the original file.
//
// A zero-length file is a documented no-op: Sort returns nil immediately,
// so both cmd/filesort and direct library callers get that boundary
// behavior without special-casing it themselves.
func Sort(ctx context.Context, path string, opts ...Option) (err error) {
	if path == "" {
		return ferrors.ErrEmptyPath
	}

	cfg := defaultSortConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.bufferBytes <= 0 || cfg.bufferBytes%4 != 0 {
		return ferrors.ErrInvalidBufferSize
	}
	if cfg.threads < 1 {
		return ferrors.ErrInvalidThreadCount
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat input file: %w", err)
	}
	if info.Size() == 0 {
		return nil
	}

	tmpdir, err := newTempDir(cfg.tempDir)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := removeTempDir(tmpdir); err == nil {
			err = rerr
		}
	}()

	capacity := cfg.bufferBytes / 4
	buf := newChunk(capacity)

	cfg.observer.EnterStage(StageRead)
	n, f0, inChecksum, err := ingest(ctx, path, tmpdir, buf, cfg)
	cfg.observer.ExitStage(StageRead)
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}

	cfg.observer.EnterStage(StageMerge)
	terminalPath, err := kmerge(ctx, tmpdir, f0, buf.data)
	cfg.observer.ExitStage(StageMerge)
	if err != nil {
		return err
	}

	cfg.observer.EnterStage(StageWrite)
	outChecksum, err := writeBack(path, terminalPath, n, buf, cfg)
	cfg.observer.ExitStage(StageWrite)
	if err != nil {
		return err
	}

	if cfg.checksum && inChecksum != outChecksum {
		return ferrors.ErrChecksumMismatch
	}
	return nil
}

// ingest streams path line by line into buf, sorting and flushing each
// full (or final partial) chunk to a stage-0 run file, per spec.md §4.1
// step 1. It returns the total number of values read and the number of
// run files produced.
func ingest(ctx context.Context, path, tmpdir string, buf *chunk, cfg *sortConfig) (n, f0 int, checksum uint64, err error) {
	r, err := openTextReader(path)
	if err != nil {
		return 0, 0, 0, err
	}
	defer r.close()

	var sum multisetChecksum
	chunkIndex := 0
	sinceCheck := 0

	flush := func() error {
		if buf.len() == 0 {
			return nil
		}
		cfg.observer.EnterStage(StageSort)
		err := pmsort.Sort(ctx, buf.values(), cfg.threads)
		cfg.observer.ExitStage(StageSort)
		if err != nil {
			return fmt.Errorf("sort chunk %d: %w", chunkIndex, err)
		}
		if err := writeRunFile(runFileName(tmpdir, 0, chunkIndex), buf.values()); err != nil {
			return fmt.Errorf("flush chunk %d: %w", chunkIndex, err)
		}
		chunkIndex++
		buf.reset()
		return nil
	}

	for {
		v, ok, err := r.next()
		if err != nil {
			return 0, 0, 0, err
		}
		if !ok {
			break
		}
		buf.push(v)
		n++
		if cfg.checksum {
			sum.add(v)
		}

		sinceCheck++
		if sinceCheck >= contextCheckInterval {
			sinceCheck = 0
			if cerr := ctx.Err(); cerr != nil {
				return 0, 0, 0, cerr
			}
		}

		if buf.full() {
			if err := flush(); err != nil {
				return 0, 0, 0, err
			}
		}
	}
	if err := flush(); err != nil {
		return 0, 0, 0, err
	}

	return n, chunkIndex, sum.value(), nil
}

// writeBack reads the terminal merge file back in chunk-sized binary
// blocks and rewrites path as text, per spec.md §4.1 step 3.
func writeBack(path, terminalPath string, n int, buf *chunk, cfg *sortConfig) (checksum uint64, err error) {
	r, err := openRunFile(terminalPath)
	if err != nil {
		return 0, err
	}
	defer r.close()

	var sum multisetChecksum
	refill := func(dst []int32) (int, error) {
		count, err := r.readBlock(dst)
		if err != nil {
			return 0, err
		}
		if cfg.checksum {
			for _, v := range dst[:count] {
				sum.add(v)
			}
		}
		return count, nil
	}

	if err := writeTextBack(path, n, buf.data, refill); err != nil {
		return 0, err
	}
	return sum.value(), nil
}
