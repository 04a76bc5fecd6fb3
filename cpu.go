package filesort

import "github.com/klauspost/cpuid/v2"

// numCPU returns the number of logical cores to use as the default thread
// count, falling back to 1 if the detection reports nothing usable. This
// mirrors original_source's get_cpus(), which wraps
// sysconf(_SC_NPROCESSORS_ONLN) with the same fallback.
func numCPU() int {
	n := cpuid.CPU.LogicalCores
	if n < 1 {
		return 1
	}
	return n
}

// NumCPU exposes numCPU for callers (notably cmd/filesort) that need the
// same CPU-count default the library itself would use, without duplicating
// the cpuid lookup and its fallback.
func NumCPU() int {
	return numCPU()
}
