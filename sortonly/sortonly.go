// Package sortonly implements the auxiliary sort-only mode: canonicalize
// and sort a single LEB36 input file without cross-file merge, duplicate
// elimination, or index emission. The "-s" flag does only half the job —
// "simply sorts the file; you will need to call this again to actually
// remove redundancy" — so this package is kept separate from redund's
// merge driver rather than folded into it.
//
// Sorted records are written back out as an ordinary LEB36 stream (the
// spill stream), snappy-compressed in flight, mirroring
// cmd/bio-bam-sort/sorter/sortshard.go's use of snappy for its own
// temporary shard stream. Each record's key and canonical representation
// length are additionally recorded into a sidecar SQLite database via
// modernc.org/sqlite, a pure-Go equivalent of a libsqlite3 linkage.
package sortonly

import (
	"bufio"
	"database/sql"
	"os"
	"sort"

	"github.com/golang/snappy"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	_ "modernc.org/sqlite"

	"github.com/vntrseek/redund/leb36"
)

// Opts configures a sort-only run.
type Opts struct {
	// InputPath is the single LEB36 file to sort.
	InputPath string

	// OutputPath is the sorted spill stream's destination, snappy-framed.
	OutputPath string

	// SidecarDB is the path to the SQLite database that records each
	// record's key and canonical representation length. Created if it
	// does not already exist.
	SidecarDB string

	// IdenticalOnly disables the rotation search in canonicalization, as
	// in redund.Opts.IdenticalOnly.
	IdenticalOnly bool
}

type entry struct {
	pair   *leb36.ProfilePair
	key    []int
	rcWins bool
}

// Run reads opts.InputPath in full, computes each record's canonical form,
// sorts the records by canonical key, and writes the sorted stream plus
// sidecar rows. It returns the number of records processed.
func Run(opts *Opts) (int, error) {
	entries, err := readAndCanonicalize(opts.InputPath, opts.IdenticalOnly)
	if err != nil {
		return 0, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return CompareSortKeys(entries[i].key, entries[j].key) < 0
	})

	if err := writeSpill(opts.OutputPath, entries); err != nil {
		return 0, err
	}
	if err := writeSidecar(opts.SidecarDB, entries, opts.IdenticalOnly); err != nil {
		return 0, err
	}

	log.Printf("sortonly: sorted %d records from %s", len(entries), opts.InputPath)
	return len(entries), nil
}

// canonicalize mirrors redund.Canonicalize's rotation/strand-minimal
// computation directly rather than importing package redund, since the
// sort-only mode is an independent auxiliary pass, not a variant merge run,
// and should not carry a dependency on the merge driver's package.
func canonicalize(pair *leb36.ProfilePair, identicalOnly bool) ([]int, bool, error) {
	if pair == nil || pair.Fwd == nil || pair.RC == nil {
		return nil, false, errors.E("sortonly: canonicalize called with an absent profile")
	}
	fwd, rc := pair.Fwd.Indices, pair.RC.Indices
	if !identicalOnly {
		fwd = minRotation(fwd)
		rc = minRotation(rc)
	}
	if CompareSortKeys(rc, fwd) < 0 {
		return rc, true, nil
	}
	return fwd, false, nil
}

// CompareSortKeys orders two index arrays: shorter is smaller, otherwise
// the first differing element decides. Exported so callers sorting
// alongside sidecar rows can reuse the exact ordering sortonly applies.
func CompareSortKeys(a, b []int) int {
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

func minRotation(arr []int) []int {
	n := len(arr)
	best := append([]int(nil), arr...)
	rot := make([]int, n)
	for shift := 1; shift < n; shift++ {
		for i := 0; i < n; i++ {
			rot[i] = arr[(i+shift)%n]
		}
		if CompareSortKeys(rot, best) < 0 {
			copy(best, rot)
		}
	}
	return best
}

func readAndCanonicalize(path string, identicalOnly bool) ([]entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.E(err, "sortonly: opening input", path)
	}
	defer f.Close()

	codec := leb36.NewCodec(leb36.NewComplementTable())
	r := bufio.NewReaderSize(f, 256*1024)

	var entries []entry
	for {
		pair, err := codec.ReadPair(r)
		if err != nil {
			return nil, errors.E(err, "sortonly: reading", path)
		}
		if pair == nil {
			break
		}
		key, rcWins, err := canonicalize(pair, identicalOnly)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry{pair: pair, key: key, rcWins: rcWins})
	}
	return entries, nil
}

func writeSpill(path string, entries []entry) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.E(err, "sortonly: creating spill stream", path)
	}
	defer f.Close()

	sw := snappy.NewBufferedWriter(f)
	defer sw.Close()

	codec := leb36.NewCodec(leb36.NewComplementTable())
	for _, e := range entries {
		if err := codec.WritePair(sw, e.pair); err != nil {
			return errors.E(err, "sortonly: writing spill record")
		}
	}
	if err := sw.Flush(); err != nil {
		return errors.E(err, "sortonly: flushing spill stream", path)
	}
	return nil
}

func writeSidecar(path string, entries []entry, identicalOnly bool) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return errors.E(err, "sortonly: opening sidecar database", path)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS sorted_records (
		id INTEGER PRIMARY KEY,
		fwd_key INTEGER NOT NULL,
		rlen INTEGER NOT NULL,
		rc_wins INTEGER NOT NULL
	)`); err != nil {
		return errors.E(err, "sortonly: creating sidecar table", path)
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.E(err, "sortonly: beginning sidecar transaction", path)
	}
	stmt, err := tx.Prepare(`INSERT INTO sorted_records (id, fwd_key, rlen, rc_wins) VALUES (?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return errors.E(err, "sortonly: preparing sidecar insert", path)
	}
	defer stmt.Close()

	for i, e := range entries {
		rcWins := 0
		if e.rcWins {
			rcWins = 1
		}
		if _, err := stmt.Exec(i, e.pair.Fwd.Key, len(e.key), rcWins); err != nil {
			tx.Rollback()
			return errors.E(err, "sortonly: inserting sidecar row", path)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.E(err, "sortonly: committing sidecar transaction", path)
	}
	return nil
}
