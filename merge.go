package filesort

import (
	"context"
	"fmt"
	"os"

	"github.com/mvsort/filesort/internal/heap"
)

// mergeFanout is K from spec.md §4.4: the number of input streams merged
// together in a single group.
const mergeFanout = 16

// kmerge repeatedly merges stage 0 through successive stages of up to
// mergeFanout files at a time until a single terminal file remains,
// grounded directly on original_source/src/algo/kmerge.c's stage loop
// (kmerge_run in the C source). buf is the shared chunk-sized workspace;
// it is partitioned per group into K+1 sub-buffers, K read windows plus
// one write window, per spec.md §4.4.
func kmerge(ctx context.Context, tmpdir string, f0 int, buf []int32) (string, error) {
	if f0 <= 0 {
		return "", fmt.Errorf("kmerge: f0 must be positive, got %d", f0)
	}
	if len(buf) <= mergeFanout {
		return "", fmt.Errorf("kmerge: buffer of %d too small for fanout %d", len(buf), mergeFanout)
	}

	if f0 == 1 {
		return runFileName(tmpdir, 0, 0), nil
	}

	stage := 0
	fs := f0
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		nextFs, err := mergeStage(tmpdir, stage, fs, buf)
		if err != nil {
			return "", err
		}
		stage++
		fs = nextFs
		if fs == 1 {
			return runFileName(tmpdir, stage, 0), nil
		}
	}
}

// mergeStage processes all fs files of stage in groups of mergeFanout,
// writing each group's output as one file of stage+1, and returns the
// resulting file count ⌈fs / K⌉.
func mergeStage(tmpdir string, stage, fs int, buf []int32) (int, error) {
	outCount := 0
	for groupStart := 0; groupStart < fs; groupStart += mergeFanout {
		groupEnd := groupStart + mergeFanout
		if groupEnd > fs {
			groupEnd = fs
		}
		outIndex := groupStart / mergeFanout

		if groupEnd-groupStart == 1 {
			if err := copyRunFile(
				runFileName(tmpdir, stage, groupStart),
				runFileName(tmpdir, stage+1, outIndex),
				buf,
			); err != nil {
				return 0, err
			}
		} else {
			inputs := make([]string, groupEnd-groupStart)
			for i := range inputs {
				inputs[i] = runFileName(tmpdir, stage, groupStart+i)
			}
			if err := mergeGroup(inputs, runFileName(tmpdir, stage+1, outIndex), buf); err != nil {
				return 0, err
			}
		}
		outCount++
	}
	return outCount, nil
}

// copyRunFile implements the fast path from spec.md §4.4 step 3: a lone
// leftover file is copied rather than merged, streaming it through buf as
// an I/O block rather than holding it entirely in memory.
func copyRunFile(srcPath, dstPath string, buf []int32) (err error) {
	src, err := openRunFile(srcPath)
	if err != nil {
		return err
	}
	defer src.close()

	expected, err := payloadCount(srcPath)
	if err != nil {
		return err
	}

	dst, err := createRunFileWriter(dstPath, expected)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := dst.close(); err == nil {
			err = cerr
		}
	}()

	for {
		n, rerr := src.readBlock(buf)
		if rerr != nil {
			return rerr
		}
		if n == 0 {
			return nil
		}
		if werr := dst.writeBlock(buf[:n]); werr != nil {
			return werr
		}
	}
}

// payloadCount returns the number of int32 values stored in a run file at
// path, derived from its size minus the trailing integrity tag.
func payloadCount(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat run file %s: %w", path, err)
	}
	return (info.Size() - tagSize) / 4, nil
}

// mergeGroup merges the sorted run files named in inputs into a single
// sorted run file at outPath, following spec.md §4.4's per-group merge
// algorithm: partition buf into len(inputs)+1 windows, prime the heap with
// each stream's head element, then pump until every stream is drained.
// The output is streamed to disk via runFileWriter rather than
// accumulated, so peak memory stays bounded by the shared chunk buffer
// regardless of how large the merged group's total output is.
func mergeGroup(inputs []string, outPath string, buf []int32) (err error) {
	m := len(inputs)
	windowSize := len(buf) / (mergeFanout + 1)
	if windowSize == 0 {
		return fmt.Errorf("kmerge: chunk buffer too small to partition into %d windows", mergeFanout+1)
	}

	var expected int64
	readers := make([]*runFileReader, m)
	defer func() {
		for _, r := range readers {
			if r != nil {
				r.close()
			}
		}
	}()
	for i, path := range inputs {
		r, oerr := openRunFile(path)
		if oerr != nil {
			return oerr
		}
		readers[i] = r
		n, serr := payloadCount(path)
		if serr != nil {
			return serr
		}
		expected += n
	}

	out, err := createRunFileWriter(outPath, expected)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.close(); err == nil {
			err = cerr
		}
	}()

	windows := make([][]int32, m)
	counts := make([]int, m)
	positions := make([]int, m)
	for i := range windows {
		windows[i] = buf[i*windowSize : (i+1)*windowSize]
	}
	outWindow := buf[m*windowSize : (m+1)*windowSize]
	outPos := 0

	h := heap.New(m)

	for i := 0; i < m; i++ {
		n, rerr := readers[i].readBlock(windows[i])
		if rerr != nil {
			return rerr
		}
		counts[i] = n
		if n > 0 {
			h.Insert(windows[i][0], uint16(i))
			positions[i] = 1
		}
	}

	flush := func() error {
		if outPos == 0 {
			return nil
		}
		if werr := out.writeBlock(outWindow[:outPos]); werr != nil {
			return werr
		}
		outPos = 0
		return nil
	}

	for !h.Empty() {
		k, src := h.Pop()
		outWindow[outPos] = k
		outPos++
		if outPos == len(outWindow) {
			if err := flush(); err != nil {
				return err
			}
		}

		if positions[src] < counts[src] {
			h.Insert(windows[src][positions[src]], src)
			positions[src]++
			continue
		}
		if counts[src] == 0 {
			continue // this stream was already exhausted
		}
		n, rerr := readers[src].readBlock(windows[src])
		if rerr != nil {
			return rerr
		}
		counts[src] = n
		positions[src] = 0
		if n > 0 {
			h.Insert(windows[src][0], src)
			positions[src] = 1
		}
	}

	return flush()
}
