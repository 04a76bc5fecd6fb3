package filesort

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	ferrors "github.com/mvsort/filesort/errors"
	"github.com/edsrzf/mmap-go"
)

// textReader scans an input text file for one signed 32-bit decimal
// integer per line, mapping the file read-only rather than buffering it
// through bufio.Scanner, following the teacher's zero-copy philosophy in
// index.go. Leading whitespace or an empty line is a parse error per
// spec.md §6; a trailing newline at EOF is optional.
type textReader struct {
	file *os.File
	mm   mmap.MMap
	pos  int
	line int
}

func openTextReader(path string) (*textReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat input file: %w", err)
	}
	if info.Size() == 0 {
		return &textReader{file: f}, nil
	}

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap input file: %w", err)
	}
	return &textReader{file: f, mm: mm}, nil
}

func (r *textReader) empty() bool {
	return len(r.mm) == 0
}

// next returns the next line's parsed integer. ok is false once the
// mapped region is exhausted.
func (r *textReader) next() (value int32, ok bool, err error) {
	if r.pos >= len(r.mm) {
		return 0, false, nil
	}

	start := r.pos
	nl := bytes.IndexByte(r.mm[r.pos:], '\n')
	var line []byte
	if nl < 0 {
		line = r.mm[start:]
		r.pos = len(r.mm)
	} else {
		line = r.mm[start : start+nl]
		r.pos = start + nl + 1
	}
	r.line++

	if len(line) == 0 {
		return 0, false, fmt.Errorf("%w: line %d: empty line", ferrors.ErrParseLine, r.line)
	}
	if line[0] == ' ' || line[0] == '\t' {
		return 0, false, fmt.Errorf("%w: line %d: leading whitespace", ferrors.ErrParseLine, r.line)
	}
	if bytes.IndexByte(line, ' ') >= 0 || bytes.IndexByte(line, '\t') >= 0 {
		return 0, false, fmt.Errorf("%w: line %d: embedded whitespace", ferrors.ErrParseLine, r.line)
	}

	n, perr := strconv.ParseInt(string(line), 10, 32)
	if perr != nil {
		return 0, false, fmt.Errorf("%w: line %d: %v", ferrors.ErrParseLine, r.line, perr)
	}
	return int32(n), true, nil
}

func (r *textReader) close() error {
	if r.mm != nil {
		if err := r.mm.Unmap(); err != nil {
			r.file.Close()
			return err
		}
	}
	return r.file.Close()
}

// maxLineBytes bounds "-2147483648\n", the longest possible encoded line.
const maxLineBytes = 12

// writeTextBack rewrites path in place with n int32 values read block by
// block from refill (up to len(buf) at a time, returning 0 once exhausted)
// into a chunk-sized buffer, one decimal integer per line, \n-terminated,
// mirroring index_writer.go's finalize(): truncate to a worst-case upper
// bound, map, write directly into the mapping, Flush/Unmap, then
// shrink-truncate to the exact bytes actually used. Only one chunk buffer's
// worth of int32s is ever held outside the mapping, keeping write-back
// within the same bounded-memory budget as ingest.
func writeTextBack(path string, n int, buf []int32, refill func([]int32) (int, error)) (err error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if n == 0 {
		return nil
	}

	upperBound := int64(n) * maxLineBytes
	if err := f.Truncate(upperBound); err != nil {
		return fmt.Errorf("truncate output file: %w", err)
	}

	mm, err := mmap.MapRegion(f, int(upperBound), mmap.RDWR, 0, 0)
	if err != nil {
		return fmt.Errorf("mmap output file: %w", err)
	}

	off := 0
	var digits [maxLineBytes]byte
	written := 0
	for written < n {
		count, err := refill(buf)
		if err != nil {
			mm.Unmap()
			return fmt.Errorf("write-back: %w", err)
		}
		if count == 0 {
			mm.Unmap()
			return fmt.Errorf("write-back: %w: expected %d values, got %d", ferrors.ErrShortRead, n, written)
		}
		for _, v := range buf[:count] {
			b := strconv.AppendInt(digits[:0], int64(v), 10)
			off += copy(mm[off:], b)
			mm[off] = '\n'
			off++
		}
		written += count
	}

	if err := mm.Flush(); err != nil {
		mm.Unmap()
		return fmt.Errorf("flush output file: %w", err)
	}
	if err := mm.Unmap(); err != nil {
		return fmt.Errorf("unmap output file: %w", err)
	}

	return f.Truncate(int64(off))
}
