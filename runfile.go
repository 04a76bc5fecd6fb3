package filesort

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	ferrors "github.com/mvsort/filesort/errors"
	"github.com/zeebo/xxh3"
)

// runFileName formats a run file path as "{tmpdir}/{stage}_{index}",
// matching format_tmp_fname in original_source/src/tools.c.
func runFileName(tmpdir string, stage, index int) string {
	return filepath.Join(tmpdir, fmt.Sprintf("%d_%d", stage, index))
}

const tagSize = 8 // bytes; the 64-bit xxh3 digest of the payload

// writeRunFile writes data as little-endian int32s to a newly created run
// file at path, pre-allocating its exact size (payload + integrity tag) up
// front via preallocateRunFile so a full disk fails immediately instead of
// silently truncating. An 8-byte xxh3 tag is appended after the payload and
// checked back by verifyRunFileTag (via openRunFile) when the file is later opened for a
// merge pass, per SPEC_FULL.md §B.2.
func writeRunFile(path string, data []int32) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create run file %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	payloadSize := int64(len(data)) * 4
	if err := preallocateRunFile(f, payloadSize+tagSize); err != nil {
		return fmt.Errorf("preallocate run file %s: %w", path, err)
	}

	w := bufio.NewWriterSize(f, 64<<10)
	var tmp [4]byte
	digest := xxh3.New()
	for _, v := range data {
		binary.LittleEndian.PutUint32(tmp[:], uint32(v))
		if _, err := w.Write(tmp[:]); err != nil {
			return fmt.Errorf("%w: %v", ferrors.ErrShortWrite, err)
		}
		digest.Write(tmp[:])
	}

	var tagBytes [tagSize]byte
	binary.LittleEndian.PutUint64(tagBytes[:], digest.Sum64())
	if _, err := w.Write(tagBytes[:]); err != nil {
		return fmt.Errorf("%w: %v", ferrors.ErrShortWrite, err)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush run file %s: %w", path, err)
	}
	return nil
}

// runFileWriter streams int32 blocks into a run file without holding the
// whole payload in memory at once, for the K-way merger's group outputs
// which can be far larger than a single chunk buffer. expectedCount, when
// known up front (mergeGroup sums input file sizes before merging), lets
// the file be pre-allocated exactly like writeRunFile does; pass 0 to skip
// pre-allocation when the final size isn't known ahead of time.
type runFileWriter struct {
	file   *os.File
	w      *bufio.Writer
	digest *xxh3.Hasher
}

func createRunFileWriter(path string, expectedCount int64) (*runFileWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create run file %s: %w", path, err)
	}
	if expectedCount > 0 {
		if err := preallocateRunFile(f, expectedCount*4+tagSize); err != nil {
			f.Close()
			return nil, fmt.Errorf("preallocate run file %s: %w", path, err)
		}
	}
	return &runFileWriter{
		file:   f,
		w:      bufio.NewWriterSize(f, 64<<10),
		digest: xxh3.New(),
	}, nil
}

func (rw *runFileWriter) writeBlock(vals []int32) error {
	var tmp [4]byte
	for _, v := range vals {
		binary.LittleEndian.PutUint32(tmp[:], uint32(v))
		if _, err := rw.w.Write(tmp[:]); err != nil {
			return fmt.Errorf("%w: %v", ferrors.ErrShortWrite, err)
		}
		rw.digest.Write(tmp[:])
	}
	return nil
}

func (rw *runFileWriter) close() (err error) {
	defer func() {
		if cerr := rw.file.Close(); err == nil {
			err = cerr
		}
	}()

	var tagBytes [tagSize]byte
	binary.LittleEndian.PutUint64(tagBytes[:], rw.digest.Sum64())
	if _, err := rw.w.Write(tagBytes[:]); err != nil {
		return fmt.Errorf("%w: %v", ferrors.ErrShortWrite, err)
	}
	return rw.w.Flush()
}

// runFileReader reads back a run file written by writeRunFile, verifying
// its integrity tag once up front and handing back a *bufio.Reader
// positioned at the start of the payload. A sequential-read hint is issued
// via adviseSequentialRead since every run file is read strictly once,
// start to end, during a merge (spec.md §5).
type runFileReader struct {
	file      *os.File
	br        *bufio.Reader
	remaining int64 // payload int32s left unread, excludes the trailing tag
}

func openRunFile(path string) (*runFileReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open run file %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat run file %s: %w", path, err)
	}
	size := info.Size()
	if size < tagSize {
		f.Close()
		return nil, fmt.Errorf("%w: %s too short for its tag", ferrors.ErrRunFileCorrupt, path)
	}

	adviseSequentialRead(int(f.Fd()), 0, size)

	if err := verifyRunFileTag(f, size); err != nil {
		f.Close()
		return nil, err
	}

	if _, err := f.Seek(0, 0); err != nil {
		f.Close()
		return nil, fmt.Errorf("seek run file %s: %w", path, err)
	}

	return &runFileReader{
		file:      f,
		br:        bufio.NewReaderSize(f, 64<<10),
		remaining: (size - tagSize) / 4,
	}, nil
}

func verifyRunFileTag(f *os.File, size int64) error {
	payloadSize := size - tagSize
	digest := xxh3.New()
	if _, err := io.CopyN(digest, f, payloadSize); err != nil {
		return fmt.Errorf("%w: %v", ferrors.ErrShortRead, err)
	}

	var tagBytes [tagSize]byte
	if _, err := io.ReadFull(f, tagBytes[:]); err != nil {
		return fmt.Errorf("%w: %v", ferrors.ErrShortRead, err)
	}
	want := binary.LittleEndian.Uint64(tagBytes[:])
	if digest.Sum64() != want {
		return fmt.Errorf("%w: %s", ferrors.ErrRunFileCorrupt, f.Name())
	}
	return nil
}

// readBlock fills dst with up to len(dst) int32s from the run file,
// returning the number actually read. It never reads past the payload
// boundary recorded at open time, so the trailing integrity tag is never
// mistaken for data. A count of 0 means the stream is exhausted, matching
// struct merge_block's semantics in original_source/src/algo/kmerge.c.
func (r *runFileReader) readBlock(dst []int32) (int, error) {
	want := int64(len(dst))
	if want > r.remaining {
		want = r.remaining
	}

	var tmp [4]byte
	for i := int64(0); i < want; i++ {
		n, err := io.ReadFull(r.br, tmp[:])
		if n < 4 || err != nil {
			return int(i), fmt.Errorf("%w: %v", ferrors.ErrShortRead, err)
		}
		dst[i] = int32(binary.LittleEndian.Uint32(tmp[:]))
	}
	r.remaining -= want
	return int(want), nil
}

func (r *runFileReader) close() error {
	return r.file.Close()
}
