package redund

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/grailbio/base/errors"

	"github.com/vntrseek/redund/leb36"
)

// BufferCapacity is the fixed per-source lookahead buffer size, in
// ProfilePairs.
const BufferCapacity = 1000

// Source is a handle around one input file. It owns its bounded lookahead
// buffer, its current front record, and the current record's canonical
// key.
type Source struct {
	name   string
	codec  *leb36.Codec
	r      *bufio.Reader
	closer io.Closer

	buffer      []*leb36.ProfilePair
	bufferIndex int
	bufferCount int
	eof         bool
	closed      bool

	current     *leb36.ProfilePair
	currentKey  *CanonicalKey
	rcWins      bool
	fwdHash     uint64
	rcHash      uint64
}

// OpenSource opens path and returns a Source with an empty buffer; callers
// must call Advance (which refills the empty buffer) before the source has
// a current record.
func OpenSource(path string, codec *leb36.Codec) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.E(err, "redund: opening input", path)
	}
	return &Source{
		name:   filepath.Base(path),
		codec:  codec,
		r:      bufio.NewReaderSize(f, 256*1024),
		closer: f,
		buffer: make([]*leb36.ProfilePair, BufferCapacity),
	}, nil
}

// Name is the source's display name (its path's basename, the same name
// inputs are ordered by), used for diagnostics.
func (s *Source) Name() string { return s.name }

// Active reports whether the source has a current front record.
func (s *Source) Active() bool { return s.current != nil }

// Current returns the source's current front ProfilePair, or nil if
// drained.
func (s *Source) Current() *leb36.ProfilePair { return s.current }

// CurrentKey returns the canonical key of Current(), or nil if drained.
func (s *Source) CurrentKey() *CanonicalKey { return s.currentKey }

// RCWins reports whether the RC side produced Current()'s canonical key.
func (s *Source) RCWins() bool { return s.rcWins }

// fingerprints returns the cached forward/RC index fingerprints of
// Current(), computed once by Advance.
func (s *Source) fingerprints() (uint64, uint64) { return s.fwdHash, s.rcHash }

// Refill reads up to BufferCapacity ProfilePairs from the underlying
// stream. Its precondition is bufferIndex==bufferCount
// (the buffer is fully consumed); Advance is the only caller and maintains
// that precondition. Returns the number of pairs actually read; 0 means the
// source is now drained and its stream has been closed.
func (s *Source) Refill() (int, error) {
	s.bufferIndex = 0
	s.bufferCount = 0
	if s.eof {
		return 0, s.close()
	}
	for s.bufferCount < BufferCapacity {
		pair, err := s.codec.ReadPair(s.r)
		if err != nil {
			return s.bufferCount, errors.E(err, "redund: reading", s.name)
		}
		if pair == nil {
			s.eof = true
			break
		}
		s.buffer[s.bufferCount] = pair
		s.bufferCount++
	}
	if s.bufferCount == 0 {
		return 0, s.close()
	}
	return s.bufferCount, nil
}

// Advance consumes the next buffered pair as the new current record,
// refilling first if the buffer is exhausted. If the
// source is drained (refill yields nothing), Current/CurrentKey become nil.
func (s *Source) Advance(identicalOnly bool) error {
	if s.bufferIndex == s.bufferCount {
		n, err := s.Refill()
		if err != nil {
			return err
		}
		if n == 0 {
			s.current = nil
			s.currentKey = nil
			return nil
		}
	}
	pair := s.buffer[s.bufferIndex]
	s.buffer[s.bufferIndex] = nil // release the slot promptly rather than waiting for the whole buffer to recycle
	s.bufferIndex++

	key, rcWins, err := Canonicalize(pair, identicalOnly)
	if err != nil {
		return errors.E(err, "redund: canonicalizing", s.name)
	}
	s.current = pair
	s.currentKey = key
	s.rcWins = rcWins
	s.fwdHash = indexFingerprint(pair.Fwd.Indices)
	s.rcHash = indexFingerprint(pair.RC.Indices)
	return nil
}

// close closes the underlying stream exactly once, at drain or at a fatal
// error.
func (s *Source) close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.closer.Close()
}

// Close releases the source's stream, if still open. Safe to call after a
// natural drain.
func (s *Source) Close() error {
	return s.close()
}
