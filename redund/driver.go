package redund

import (
	"context"
	"time"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"

	"github.com/vntrseek/redund/leb36"
	"github.com/vntrseek/redund/rlimit"
)

// lastWrite is the most recently preserved record's full pair, key, and
// orientation, used by the duplicate test. A zero-value lastWrite
// (active==false) means no record has been preserved yet, so the first
// record read is always preserved.
type lastWrite struct {
	active bool
	pair   *leb36.ProfilePair
	key    *CanonicalKey
	rcWins bool
	fwdHash, rcHash uint64
}

// Run executes a full merge/dedup pass over opts.InputPaths (or the files
// discovered under opts.InputDir), writing preserved records and index
// segments to opts.OutputPath: a k-way merge over per-source bounded
// buffers via a min-heap, a duplicate test against the last preserved
// record, and output-rolling.
func Run(ctx context.Context, opts *Opts) (*Stats, error) {
	start := time.Now()
	if err := validate(opts); err != nil {
		return nil, err
	}

	// The descriptor-limit manager raises RLIMIT_NOFILE before any source
	// is opened, since every input plus the current output segment must
	// have a live descriptor simultaneously.
	if err := rlimit.Raise(len(opts.InputPaths) + 16); err != nil {
		return nil, errors.E(err, "redund: raising descriptor limit")
	}

	complement := leb36.NewComplementTable()
	codec := leb36.NewCodec(complement)

	sources := make([]*Source, 0, len(opts.InputPaths))
	closeAll := func() {
		for _, s := range sources {
			if cerr := s.Close(); cerr != nil {
				log.Error.Printf("redund: closing source %s: %v", s.Name(), cerr)
			}
		}
	}

	for _, path := range opts.InputPaths {
		s, err := OpenSource(path, codec)
		if err != nil {
			closeAll()
			return nil, err
		}
		sources = append(sources, s)
	}

	active := make([]*Source, 0, len(sources))
	for _, s := range sources {
		if err := s.Advance(opts.IdenticalOnly); err != nil {
			closeAll()
			return nil, err
		}
		if !s.Active() {
			closeAll()
			return nil, errors.E("redund: input file empty", s.Name())
		}
		active = append(active, s)
		log.Debug.Printf("redund: source %s primed", s.Name())
	}
	if len(active) == 0 {
		closeAll()
		log.Fatalf("redund: no input source produced a single record")
	}

	heap := NewHeap(active)

	writer, err := newOutputWriter(opts, codec)
	if err != nil {
		closeAll()
		return nil, err
	}

	var (
		stats Stats
		lw    lastWrite
		errs  errors.Once
	)

	finish := func() {
		errs.Set(writer.Close())
		closeAll()
	}

	for heap.Len() > 0 {
		top := heap.Peek()
		pair := top.Current()
		key := top.CurrentKey()
		rcWins := top.RCWins()
		fwdHash, rcHash := top.fingerprints()

		stats.NRead++
		preserved := !isDuplicate(&lw, key, fwdHash, rcHash, pair)

		if preserved {
			if err := writer.WritePreservedIndex(pair.Fwd.Key, rcWins); err != nil {
				finish()
				return nil, err
			}
		} else {
			if err := writer.WriteDuplicateIndex(pair.Fwd.Key, rcWins); err != nil {
				finish()
				return nil, err
			}
		}

		// The data record must land in the same segment as the index
		// token just written, so WriteRecord runs before any
		// roll-over triggered by RecordPreservedWrite below.
		if err := writer.WriteRecord(pair); err != nil {
			finish()
			return nil, err
		}

		if preserved {
			lw = lastWrite{
				active:  true,
				pair:    leb36.CopyPair(pair),
				key:     &CanonicalKey{Rep: append([]int(nil), key.Rep...), RLen: key.RLen},
				rcWins:  rcWins,
				fwdHash: fwdHash,
				rcHash:  rcHash,
			}
			stats.NWritten++
			if err := writer.RecordPreservedWrite(); err != nil {
				finish()
				return nil, err
			}
		}

		if err := top.Advance(opts.IdenticalOnly); err != nil {
			finish()
			return nil, err
		}
		heap.ReplaceTop()
	}

	finish()
	if err := errs.Err(); err != nil {
		return nil, err
	}

	stats.Elapsed = time.Since(start)
	stats.PeakRSSBytes = peakRSSBytes()
	stats.Segments = writer.Segments()
	return &stats, nil
}

// isDuplicate implements the "aligned or crossed" duplicate test: current
// is a duplicate of the last preserved record if its canonical key matches
// AND both raw index arrays match the last preserved record's pairwise
// (aligned: forward matches forward and RC matches RC; crossed: forward
// matches the prior record's RC and RC matches the prior record's
// forward). Matching canonical keys alone is not sufficient to skip this
// check — two distinct source records can share a canonical key while
// representing different underlying alignments, so the index-level check
// is kept rather than treated as redundant.
//
// farm.Hash64WithSeed fingerprints (computed once per record by
// Source.Advance) let every orientation pairing be ruled out with an
// integer comparison before falling back to CompareIndices; a fingerprint
// match is always re-confirmed, so this is a pure short-circuit.
func isDuplicate(lw *lastWrite, key *CanonicalKey, fwdHash, rcHash uint64, pair *leb36.ProfilePair) bool {
	if !lw.active {
		return false
	}
	if KeyCompare(key, lw.key) != 0 {
		return false
	}
	aligned := (fwdHash == lw.fwdHash && CompareIndices(pair.Fwd.Indices, lw.pair.Fwd.Indices) == 0) &&
		(rcHash == lw.rcHash && CompareIndices(pair.RC.Indices, lw.pair.RC.Indices) == 0)
	if aligned {
		return true
	}
	crossed := (fwdHash == lw.rcHash && CompareIndices(pair.Fwd.Indices, lw.pair.RC.Indices) == 0) &&
		(rcHash == lw.fwdHash && CompareIndices(pair.RC.Indices, lw.pair.Fwd.Indices) == 0)
	return crossed
}
