package redund

import (
	"fmt"
	"path/filepath"
	"sort"
)

// RecordsPerSegment is the output-rolling threshold: in multi-file mode,
// the driver rolls to a new data/index segment every time nwritten crosses
// this many preserved records.
const RecordsPerSegment = 100_000

// Opts configures a merge/dedup run. Mirrors markduplicates.Opts: a flat,
// exported, commandline-friendly struct that cmd/bio-redund assembles
// directly from flag values.
type Opts struct {
	// InputDir, if non-empty, is scanned for *.leb36.renumbered files
	// (case-insensitive) via DiscoverInputs. Ignored when InputPaths is
	// non-empty.
	InputDir string

	// InputPaths, if non-empty, is the explicit, already-resolved list of
	// source files to merge. Takes precedence over InputDir.
	InputPaths []string

	// OutputPath is the data output path. In single-file mode this is the
	// literal output file. In segmented mode its basename is combined with
	// OutDir (or, if OutDir is empty, OutputPath's own directory) as
	// "{OutDir}/{n}.{basename}".
	OutputPath string

	// OutDir is the directory segmented output files are written into. If
	// empty, the directory of OutputPath is used.
	OutDir string

	// IdenticalOnly, when true, skips the rotation search: canonicalize
	// compares only the given forward and RC orientations.
	IdenticalOnly bool

	// SingleOutfile disables segment rolling.
	SingleOutfile bool

	// CompressSegments gzips each data and index segment as it is written.
	CompressSegments bool

	// Debug records whether diagnostic output was requested; cmd/bio-redund
	// sets it from the DEBUG=1 environment variable. Run does not read it:
	// whether the log.Debug.Printf diagnostics are printed depends only on
	// the log package's own level.
	Debug bool
}

// validate fills in defaults and rejects inconsistent option combinations,
// mirroring markduplicates/validate.go.
func validate(opts *Opts) error {
	if len(opts.InputPaths) == 0 && opts.InputDir == "" {
		return fmt.Errorf("redund: you must specify an input directory or an explicit list of input files")
	}
	if opts.OutputPath == "" {
		return fmt.Errorf("redund: you must specify an output path")
	}
	if len(opts.InputPaths) == 0 {
		paths, err := DiscoverInputs(opts.InputDir)
		if err != nil {
			return err
		}
		opts.InputPaths = paths
	} else {
		paths := append([]string(nil), opts.InputPaths...)
		sort.Slice(paths, func(i, j int) bool {
			return filepath.Base(paths[i]) < filepath.Base(paths[j])
		})
		opts.InputPaths = paths
	}
	if len(opts.InputPaths) == 0 {
		return fmt.Errorf("redund: no input files found")
	}
	return nil
}
