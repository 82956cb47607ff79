// Package redund implements the core of a redundancy-elimination pass over
// tandem-repeat consensus profiles.
//
// Each input file is a pre-sorted stream of LEB36 ProfilePairs (see package
// leb36). Run merges N such files via a k-way merge driven by a binary
// min-heap over per-source bounded lookahead buffers, computing each
// record's canonical form (the rotation- and strand-minimal representation
// of its index array, see Canonicalize) as the merge key. Records whose
// canonical key and raw index arrays match the most recently preserved
// record, under either strand orientation, are written to the index stream
// as duplicates of that record's key rather than starting a new preserved
// group.
//
// Output is written as a sequence of data/index segment pairs, rolling to a
// new pair every RecordsPerSegment preserved records unless
// Opts.SingleOutfile suppresses rolling. See driver.go for the
// setup/loop/finalize structure and heap.go for the heap's replace_top
// contract.
package redund
