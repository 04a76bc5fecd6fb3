// Command genints writes a text file of deterministic pseudo-random
// signed 32-bit integers, one per line, for exercising filesort against
// large inputs without committing multi-million-line fixtures to the
// repository. Grounded on cmd/bench's synthetic key generation in the
// teacher, which derives benchmark keys deterministically rather than
// draining crypto/rand for every run.
//
// Usage:
//
//	genints -n 10000000 -seed 1 -out big.txt
package main

import (
	"bufio"
	"encoding/binary"
	"flag"
	"fmt"
	"os"

	"github.com/spaolacci/murmur3"
)

func main() {
	os.Exit(run())
}

func run() int {
	n := flag.Int("n", 1_000_000, "number of integers to generate")
	seed := flag.Uint64("seed", 1, "seed for deterministic generation")
	out := flag.String("out", "", "output file path (required)")
	flag.Parse()

	if *out == "" {
		fmt.Fprintln(os.Stderr, "Error: -out is required")
		return 2
	}
	if *n < 0 {
		fmt.Fprintln(os.Stderr, "Error: -n must be >= 0")
		return 2
	}

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 1<<20)
	var idxBytes [8]byte
	for i := 0; i < *n; i++ {
		binary.LittleEndian.PutUint64(idxBytes[:], uint64(i))
		h := murmur3.Sum32WithSeed(idxBytes[:], uint32(*seed))
		v := int32(h)
		if _, err := fmt.Fprintf(w, "%d\n", v); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
