package filesort

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	s := string(data)
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func TestSortScenariosFromSpec(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
		opts  []Option
	}{
		{"basic", "3\n1\n2\n", "1\n2\n3\n", nil},
		{"extremes", "-2147483648\n0\n2147483647\n-1\n1\n", "-2147483648\n-1\n0\n1\n2147483647\n",
			[]Option{WithBufferBytes(1 << 20), WithThreads(2)}},
		{"duplicates", "5\n5\n5\n5\n", "5\n5\n5\n5\n", nil},
		{"empty", "", "", nil},
		{"single", "42\n", "42\n", nil},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "in.txt")
			if err := os.WriteFile(path, []byte(c.input), 0o644); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}

			if err := Sort(context.Background(), path, c.opts...); err != nil {
				t.Fatalf("Sort: %v", err)
			}

			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			if string(got) != c.want {
				t.Fatalf("got %q, want %q", got, c.want)
			}
		})
	}
}

func TestSortSmallBufferForcesMultipleRuns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.txt")

	rng := rngFor(t)
	const n = 500
	values := make([]int32, n)
	var sb strings.Builder
	for i := range values {
		values[i] = int32(rng.IntN(2000) - 1000)
		sb.WriteString(strconv.Itoa(int(values[i])))
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	// buffer_bytes = 4*20 -> 20 ints per chunk, forcing 25 stage-0 runs and
	// two K-way merge stages (25 -> 2 -> 1 at fanout 16) for 500 values.
	if err := Sort(context.Background(), path, WithBufferBytes(4*20), WithThreads(3), WithChecksum(true)); err != nil {
		t.Fatalf("Sort: %v", err)
	}

	lines := readLines(t, path)
	if len(lines) != n {
		t.Fatalf("got %d lines, want %d", len(lines), n)
	}

	got := make([]int32, n)
	for i, l := range lines {
		v, err := strconv.ParseInt(l, 10, 32)
		if err != nil {
			t.Fatalf("line %d: %v", i, err)
		}
		got[i] = int32(v)
	}
	if !sort.SliceIsSorted(got, func(i, j int) bool { return got[i] < got[j] }) {
		t.Fatalf("output not sorted")
	}

	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	for i := range values {
		if got[i] != values[i] {
			t.Fatalf("multiset mismatch at %d: got %d, want %d", i, got[i], values[i])
		}
	}
}

func TestSortIdempotentOnAlreadySorted(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.txt")
	sorted := "1\n2\n3\n4\n5\n"
	if err := os.WriteFile(path, []byte(sorted), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := Sort(context.Background(), path); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != sorted {
		t.Fatalf("got %q, want unchanged %q", got, sorted)
	}
}

func TestSortEmptyFileIsNoop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	before, _ := os.Stat(path)
	if err := Sort(context.Background(), path); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	after, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if before.Size() != after.Size() {
		t.Fatalf("empty file size changed")
	}
}

func TestSortThreadsGreaterThanInputLength(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.txt")
	if err := os.WriteFile(path, []byte("2\n1\n3\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := Sort(context.Background(), path, WithThreads(64)); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "1\n2\n3\n" {
		t.Fatalf("got %q", got)
	}
}

func TestSortRejectsInvalidOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.txt")
	if err := os.WriteFile(path, []byte("1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := Sort(context.Background(), path, WithBufferBytes(3)); err == nil {
		t.Fatalf("expected ErrInvalidBufferSize")
	}
	if err := Sort(context.Background(), path, WithThreads(0)); err == nil {
		t.Fatalf("expected ErrInvalidThreadCount")
	}
	if err := Sort(context.Background(), ""); err == nil {
		t.Fatalf("expected ErrEmptyPath")
	}
}

func TestSortRejectsParseError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.txt")
	if err := os.WriteFile(path, []byte("not-a-number\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	err := Sort(context.Background(), path, WithTempDir(dir))
	if err == nil {
		t.Fatalf("expected parse error")
	}

	// The temp directory must have been removed even on failure.
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "tmpdir.") {
			t.Fatalf("temp dir %q leaked after failure", e.Name())
		}
	}
}
