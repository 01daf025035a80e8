package merkle

import (
	"bytes"
	"sort"
)

// sortedIndices returns the permutation of 0..len(keys) that sorts keys in
// ascending byte order, stable on ties. Batch operations apply their
// single-key counterpart in this order so that writes sharing a common
// path prefix cluster together — friendlier to LSM/B-tree backends than
// applying keys in caller-supplied order, and deterministic regardless of
// what order the caller passed them in (see the batch order-independence
// invariant).
func sortedIndices(keys []Hash) []int {
	idx := make([]int, len(keys))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return bytes.Compare(keys[idx[i]][:], keys[idx[j]][:]) < 0
	})
	return idx
}
