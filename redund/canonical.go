package redund

import (
	"encoding/binary"

	farm "github.com/dgryski/go-farm"

	"github.com/vntrseek/redund/leb36"
)

// CanonicalKey is a pair (minrlen, minrep[0:minrlen)) derived from a
// ProfilePair by Canonicalize: the rotation- and strand-invariant
// representation used as the merge key.
//
// A nil *CanonicalKey is the sentinel for a drained source: it compares
// greater than any non-nil key.
type CanonicalKey struct {
	Rep  []int
	RLen int
}

// CompareIndices imposes a total order over two index arrays: the shorter
// array is smaller; otherwise the first differing element decides.
func CompareIndices(a, b []int) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// KeyCompare totally orders CanonicalKeys, including the drained-source
// sentinel rule: an absent key is greater than any present key.
func KeyCompare(a, b *CanonicalKey) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return CompareIndices(a.Rep, b.Rep)
}

// minRotation returns the lexicographically minimum rotation of arr under
// CompareIndices, scanning all len(arr) rotations. This naive O(n^2) scan is
// acceptable for the typical profile lengths encountered; Booth's algorithm
// would be a drop-in replacement for sub-quadratic behavior on long
// profiles.
func minRotation(arr []int) []int {
	n := len(arr)
	if n <= 1 {
		best := make([]int, n)
		copy(best, arr)
		return best
	}
	best := make([]int, n)
	copy(best, arr)
	rot := make([]int, n)
	for shift := 1; shift < n; shift++ {
		for i := 0; i < n; i++ {
			rot[i] = arr[(i+shift)%n]
		}
		if CompareIndices(rot, best) < 0 {
			copy(best, rot)
		}
	}
	return best
}

// Canonicalize computes (minrep, minrlen, rcWins) for pair. When
// identicalOnly is true, no rotations are considered: the forward and RC
// index arrays are compared directly. Otherwise the minimum rotation of
// each side is computed independently, each rotated using its own length —
// an earlier C implementation of this algorithm bounded the RC rotation
// loop by the forward array's length, which silently truncates the search
// whenever the two arrays differ in length; this implementation rotates
// each side by its own length instead — and the two minima are compared. A
// tie keeps the forward side.
func Canonicalize(pair *leb36.ProfilePair, identicalOnly bool) (*CanonicalKey, bool, error) {
	if pair == nil || pair.Fwd == nil || pair.RC == nil {
		return nil, false, errProfileAbsent
	}

	var fwdRep, rcRep []int
	if identicalOnly {
		fwdRep = pair.Fwd.Indices
		rcRep = pair.RC.Indices
	} else {
		fwdRep = minRotation(pair.Fwd.Indices)
		rcRep = minRotation(pair.RC.Indices)
	}

	if CompareIndices(rcRep, fwdRep) < 0 {
		rep := make([]int, len(rcRep))
		copy(rep, rcRep)
		return &CanonicalKey{Rep: rep, RLen: len(rep)}, true, nil
	}
	rep := make([]int, len(fwdRep))
	copy(rep, fwdRep)
	return &CanonicalKey{Rep: rep, RLen: len(rep)}, false, nil
}

// indexFingerprint returns a deterministic 64-bit fingerprint of idx, used
// by the merge driver as a cheap short-circuit before the authoritative
// index comparison the duplicate test requires. This never changes the
// outcome of the duplicate test: a fingerprint mismatch
// proves inequality, and every fingerprint match is still confirmed with a
// full CompareIndices call. Mirrors fusion/kmer_index.go's use of
// farm.Hash64WithSeed to fingerprint k-mers.
func indexFingerprint(idx []int) uint64 {
	buf := make([]byte, 8*len(idx))
	for i, v := range idx {
		binary.LittleEndian.PutUint64(buf[i*8:], uint64(v))
	}
	return farm.Hash64WithSeed(buf, uint64(len(idx)))
}
