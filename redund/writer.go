package redund

import (
	"bufio"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"

	seahash "github.com/blainsmith/seahash"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/klauspost/compress/gzip"
	"github.com/minio/highwayhash"

	"github.com/vntrseek/redund/leb36"
)

// segmentChecksumKey is a fixed key for the index segment's highwayhash
// checksum. It has no secrecy requirement (checksums here guard against
// accidental truncation, not tampering), so a constant key is sufficient —
// mirrors fusion/postprocess.go's use of a fixed all-zero seed for its
// grouping hash.
var segmentChecksumKey = make([]byte, highwayhash.Size)

// outputWriter owns the current data and index streams and rolls both
// together every RecordsPerSegment preserved records, unless
// opts.SingleOutfile is set.
type outputWriter struct {
	opts *Opts
	codec *leb36.Codec

	outDir  string
	outBase string // basename used in "{n}.{outbase}" segment naming

	segment        int // 1-based
	nWrittenInSeg  int
	wroteAnyInSeg  bool // whether a preserved record has started a group in this segment's index

	dataFile  *os.File
	dataGZ    *gzip.Writer // nil unless opts.CompressSegments
	dataBuf   *bufio.Writer
	dataHash  hash.Hash64

	indexFile *os.File
	indexGZ   *gzip.Writer
	indexBuf  *bufio.Writer
	indexHash hash.Hash // highwayhash.New returns a 256-bit hash.Hash, read back with Sum(nil)

	totalWritten int
}

func newOutputWriter(opts *Opts, codec *leb36.Codec) (*outputWriter, error) {
	outDir := opts.OutDir
	if outDir == "" {
		outDir = filepath.Dir(opts.OutputPath)
	}
	w := &outputWriter{
		opts:    opts,
		codec:   codec,
		outDir:  outDir,
		outBase: filepath.Base(opts.OutputPath),
	}
	if err := w.openSegment(1); err != nil {
		return nil, err
	}
	return w, nil
}

// dataPath and indexPath implement the "{n}.{outbase}" segment naming.
func (w *outputWriter) dataPath(segment int) string {
	if w.opts.SingleOutfile {
		return w.opts.OutputPath
	}
	return filepath.Join(w.outDir, fmt.Sprintf("%d.%s", segment, w.outBase))
}

func (w *outputWriter) indexPath(segment int) string {
	return w.dataPath(segment) + ".rotindex"
}

func (w *outputWriter) openSegment(segment int) error {
	dp, ip := w.dataPath(segment), w.indexPath(segment)

	df, err := os.Create(dp)
	if err != nil {
		return errors.E(err, "redund: creating output data file", dp)
	}
	inf, err := os.Create(ip)
	if err != nil {
		df.Close()
		return errors.E(err, "redund: creating output index file", ip)
	}

	w.segment = segment
	w.nWrittenInSeg = 0
	w.wroteAnyInSeg = false
	w.dataFile = df
	w.indexFile = inf
	w.dataHash = seahash.New()
	key, err := highwayhash.New(segmentChecksumKey)
	if err != nil {
		return errors.E(err, "redund: initializing index checksum")
	}
	w.indexHash = key

	var dataWriter io.Writer = io.MultiWriter(df, w.dataHash)
	var indexWriter io.Writer = io.MultiWriter(inf, w.indexHash)
	if w.opts.CompressSegments {
		w.dataGZ = gzip.NewWriter(dataWriter)
		w.indexGZ = gzip.NewWriter(indexWriter)
		dataWriter = w.dataGZ
		indexWriter = w.indexGZ
	} else {
		w.dataGZ = nil
		w.indexGZ = nil
	}
	w.dataBuf = bufio.NewWriterSize(dataWriter, 256*1024)
	w.indexBuf = bufio.NewWriterSize(indexWriter, 64*1024)
	return nil
}

// WriteRecord emits rec's full record via the codec, into the current
// segment's data stream. Called for both preserved and duplicate records:
// downstream consumers expect every profile present in the data file, even
// duplicates.
func (w *outputWriter) WriteRecord(rec *leb36.ProfilePair) error {
	if err := w.codec.WritePair(w.dataBuf, rec); err != nil {
		return errors.E(err, "redund: writing record to segment", w.segment)
	}
	return nil
}

// WritePreservedIndex starts a new index group for a preserved key. Groups
// within the same segment are
// newline-separated; the first group in a freshly opened segment gets no
// leading newline, tracked per-segment via wroteAnyInSeg rather than by the
// caller, since a segment roll must never leave a stray leading newline in
// the new index file.
func (w *outputWriter) WritePreservedIndex(key int64, rcWins bool) error {
	if w.wroteAnyInSeg {
		if _, err := w.indexBuf.WriteString("\n"); err != nil {
			return errors.E(err, "redund: writing index newline")
		}
	}
	if _, err := fmt.Fprintf(w.indexBuf, "%d%c", key, mark(rcWins)); err != nil {
		return errors.E(err, "redund: writing preserved index entry")
	}
	w.wroteAnyInSeg = true
	return nil
}

// WriteDuplicateIndex appends a space-prefixed duplicate key to the
// current group.
func (w *outputWriter) WriteDuplicateIndex(key int64, rcWins bool) error {
	if _, err := fmt.Fprintf(w.indexBuf, " %d%c", key, mark(rcWins)); err != nil {
		return errors.E(err, "redund: writing duplicate index entry")
	}
	return nil
}

func mark(rcWins bool) byte {
	if rcWins {
		return '"'
	}
	return '\''
}

// RecordPreservedWrite tracks segment-rolling bookkeeping after a preserved
// record has been written; it rolls to the next segment once nWrittenInSeg
// reaches RecordsPerSegment, unless running in single-output-file mode.
func (w *outputWriter) RecordPreservedWrite() error {
	w.nWrittenInSeg++
	w.totalWritten++
	if w.opts.SingleOutfile {
		return nil
	}
	if w.nWrittenInSeg%RecordsPerSegment == 0 {
		if err := w.closeSegment(); err != nil {
			return err
		}
		if err := w.openSegment(w.segment + 1); err != nil {
			return err
		}
	}
	return nil
}

func (w *outputWriter) closeSegment() error {
	if err := w.dataBuf.Flush(); err != nil {
		return errors.E(err, "redund: flushing data segment", w.segment)
	}
	if err := w.indexBuf.Flush(); err != nil {
		return errors.E(err, "redund: flushing index segment", w.segment)
	}
	if w.dataGZ != nil {
		if err := w.dataGZ.Close(); err != nil {
			return errors.E(err, "redund: closing compressed data segment", w.segment)
		}
		if err := w.indexGZ.Close(); err != nil {
			return errors.E(err, "redund: closing compressed index segment", w.segment)
		}
	}
	if err := w.dataFile.Close(); err != nil {
		return errors.E(err, "redund: closing data segment", w.segment)
	}
	if err := w.indexFile.Close(); err != nil {
		return errors.E(err, "redund: closing index segment", w.segment)
	}
	log.Debug.Printf("redund: segment %d complete: data checksum=%x index checksum=%x",
		w.segment, w.dataHash.Sum64(), w.indexHash.Sum(nil))
	return nil
}

// Close flushes and closes the final segment's streams.
func (w *outputWriter) Close() error {
	return w.closeSegment()
}

// Segments reports how many segments were opened.
func (w *outputWriter) Segments() int { return w.segment }
