// Package pmsort implements the equal-split parallel merge sort used to
// sort one chunk-buffer's worth of integers across N worker goroutines,
// following the algorithm in original_source/src/algo/pmsort.c ("Parallel
// Merge Sort", itself adapted from Malith Jayaweera's 2019 writeup).
package pmsort

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Sort sorts buf[:len(buf)] in non-decreasing order using up to threads
// goroutines. len(buf) must be >= 1 and threads must be >= 1.
//
// If threads == 1 or len(buf) == 1, Sort delegates directly to a
// single-threaded sequential merge sort. Otherwise buf is split into
// threads contiguous, disjoint sub-ranges (the last absorbing any
// remainder), each sorted concurrently via an errgroup.Group — the
// goroutine fan-out mirrors builder_parallel.go's worker pool, with
// g.Wait() providing the same happens-before join the teacher relies on
// before its writer goroutine runs. Once every worker has returned, a
// sequential pairwise cascade merges the sorted sub-ranges together.
func Sort(ctx context.Context, buf []int32, threads int) error {
	n := len(buf)
	if n <= 1 {
		return nil
	}
	if threads > n {
		threads = n
	}
	if threads < 1 {
		threads = 1
	}

	npt := n / threads
	if threads == 1 {
		mergeSort(buf, 0, n-1)
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < threads; i++ {
		i := i
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			left := i * npt
			right := (i+1)*npt - 1
			if i == threads-1 {
				right = n - 1
			}
			if left < right {
				mergeSort(buf, left, right)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	cascade(buf, threads, 1, npt, n)
	return nil
}

// mergeSort sorts buf[left..right] (inclusive) in place using a sequential
// recursive merge sort.
func mergeSort(buf []int32, left, right int) {
	if left >= right {
		return
	}
	middle := left + (right-left)/2
	mergeSort(buf, left, middle)
	mergeSort(buf, middle+1, right)
	merge(buf, left, middle, right)
}

// merge merges the two sorted sub-ranges buf[left..middle] and
// buf[middle+1..right] in place.
func merge(buf []int32, left, middle, right int) {
	leftLen := middle - left + 1
	rightLen := right - middle

	leftBuf := make([]int32, leftLen)
	rightBuf := make([]int32, rightLen)
	copy(leftBuf, buf[left:left+leftLen])
	copy(rightBuf, buf[middle+1:middle+1+rightLen])

	i, j, k := 0, 0, left
	for i < leftLen && j < rightLen {
		if leftBuf[i] <= rightBuf[j] {
			buf[k] = leftBuf[i]
			i++
		} else {
			buf[k] = rightBuf[j]
			j++
		}
		k++
	}
	for i < leftLen {
		buf[k] = leftBuf[i]
		i++
		k++
	}
	for j < rightLen {
		buf[k] = rightBuf[j]
		j++
		k++
	}
}

// cascade merges the `number` adjacent sorted units (each currently of
// length npt*aggregation, the rightmost running on to n-1) left to right
// in pairs, then recurses with half as many (rounded up), twice-as-large
// units, until a single fully-sorted unit remains. This is the
// iterative-doubling cascade from spec.md §4.2, adapted from
// pmsort_merge_array_sections in original_source/src/algo/pmsort.c: the
// rightmost merge of every pass is clamped to n-1, which is what folds the
// trailing remainder (absorbed into the last worker's range) back into the
// sorted whole. A lone last unit with no partner is carried to the next
// pass unmerged.
func cascade(buf []int32, number, aggregation, npt, n int) {
	unit := npt * aggregation
	for i := 0; i+1 < number; i += 2 {
		left := i * unit
		right := (i+2)*unit - 1
		middle := left + unit - 1
		if i+2 >= number || right >= n {
			right = n - 1
		}
		if left < right && middle < right {
			merge(buf, left, middle, right)
		}
	}
	if number > 2 {
		cascade(buf, (number+1)/2, aggregation*2, npt, n)
	}
}
