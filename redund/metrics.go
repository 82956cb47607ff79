package redund

import (
	"fmt"
	"time"
)

// Stats reports the finalization summary of a merge run: records read and
// written, wall-clock elapsed time, and peak RSS. Mirrors
// markduplicates.Metrics's pattern of a plain struct with a String() method
// the CLI logs directly.
type Stats struct {
	// NRead is the total number of records pulled from the heap top,
	// including duplicates.
	NRead int64

	// NWritten is the number of preserved records emitted.
	NWritten int64

	// Elapsed is the wall-clock duration of the merge run.
	Elapsed time.Duration

	// PeakRSSBytes is the process's peak resident set size sampled at
	// finalization, best-effort (0 if the platform doesn't expose it
	// cheaply).
	PeakRSSBytes int64

	// Segments is the number of data/index segment pairs written.
	Segments int
}

// NDuplicates is n_read - n_written: the number of duplicate-index tokens
// written.
func (s Stats) NDuplicates() int64 { return s.NRead - s.NWritten }

func (s Stats) String() string {
	return fmt.Sprintf(
		"records read=%d written=%d duplicates=%d segments=%d elapsed=%s peak_rss=%dMiB",
		s.NRead, s.NWritten, s.NDuplicates(), s.Segments, s.Elapsed.Round(time.Millisecond),
		s.PeakRSSBytes/(1<<20))
}
