// Package leb36 implements the LEB36 profile codec: the on-disk textual
// serialization for tandem-repeat consensus profiles and their
// reverse-complements.
//
// A profile is a short sequence of small non-negative integers. Each LEB36
// record occupies two consecutive non-blank lines: the forward profile
// followed by its reverse-complement. Each line has the form
//
//	key TAB len TAB i0,i1,...,i(len-1)
//
// where key and len are decimal integers and each index is the base-36
// encoding of a non-negative integer (the alphabet this format is named
// for). Blank lines between records are tolerated and skipped.
//
// This package is an external collaborator from the point of view of
// redund's merge engine: redund never inspects the wire format directly,
// only the Profile/ProfilePair values this package produces.
package leb36

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is a single decoded LEB36 line: a stable key and its profile
// body. Profiles are immutable once returned by ReadPair.
type Profile struct {
	Key     int64
	Indices []int
	ProfLen int
}

// ProfilePair is a forward profile and its reverse-complement, read
// atomically from a source. The two share Key but have independent
// Indices/ProfLen.
type ProfilePair struct {
	Fwd *Profile
	RC  *Profile
}

// CopyProfile returns a deep copy of p. A nil p returns nil.
func CopyProfile(p *Profile) *Profile {
	if p == nil {
		return nil
	}
	idx := make([]int, len(p.Indices))
	copy(idx, p.Indices)
	return &Profile{Key: p.Key, Indices: idx, ProfLen: p.ProfLen}
}

// CopyPair returns a deep copy of p.
func CopyPair(p *ProfilePair) *ProfilePair {
	if p == nil {
		return nil
	}
	return &ProfilePair{Fwd: CopyProfile(p.Fwd), RC: CopyProfile(p.RC)}
}

// ComplementTable maps an ASCII nucleotide byte to its Watson-Crick
// complement. The upstream pipeline that derives a profile's
// reverse-complement from its forward consensus string uses this table; the
// LEB36 codec accepts it explicitly at construction time rather than
// reaching for a package-level global.
type ComplementTable [256]byte

// NewComplementTable builds the standard DNA complement table: A<->T,
// C<->G, with every other byte mapping to itself.
func NewComplementTable() ComplementTable {
	var t ComplementTable
	for i := range t {
		t[i] = byte(i)
	}
	pairs := [][2]byte{{'A', 'T'}, {'a', 't'}, {'C', 'G'}, {'c', 'g'}}
	for _, p := range pairs {
		t[p[0]], t[p[1]] = p[1], p[0]
	}
	return t
}

// Complement returns the complement of b under t.
func (t ComplementTable) Complement(b byte) byte {
	return t[b]
}

// Codec reads and writes LEB36 records. The zero value is not usable; build
// one with NewCodec.
type Codec struct {
	complement ComplementTable
}

// NewCodec constructs a Codec with an explicit complement table. Callers
// that never need to re-derive a reverse-complement from raw bases (the
// common case once the upstream pipeline has already emitted both strands)
// may pass NewComplementTable().
func NewCodec(complement ComplementTable) *Codec {
	return &Codec{complement: complement}
}

// Complement exposes the codec's complement table, e.g. for callers
// validating that a forward/RC pair is consistent with the standard DNA
// complement.
func (c *Codec) Complement(b byte) byte {
	return c.complement.Complement(b)
}

// ReadPair returns the next forward/RC pair from r. It returns (nil, nil) on
// clean EOF, or at a trailing blank line that carries no further record.
// Any mid-stream corruption (malformed key, length, or index list on a
// non-blank line) is a fatal CodecFailure, reported as an error.
func (c *Codec) ReadPair(r *bufio.Reader) (*ProfilePair, error) {
	fwdLine, err := nextNonBlankLine(r)
	if err != nil {
		return nil, err
	}
	if fwdLine == "" {
		return nil, nil
	}
	fwd, err := parseProfileLine(fwdLine)
	if err != nil {
		return nil, errors.Wrap(err, "leb36: corrupt forward profile")
	}

	rcLine, err := nextNonBlankLine(r)
	if err != nil {
		return nil, err
	}
	if rcLine == "" {
		return nil, errors.Errorf("leb36: forward profile for key %d has no matching reverse-complement line", fwd.Key)
	}
	rc, err := parseProfileLine(rcLine)
	if err != nil {
		return nil, errors.Wrap(err, "leb36: corrupt reverse-complement profile")
	}

	return &ProfilePair{Fwd: fwd, RC: rc}, nil
}

// nextNonBlankLine returns the next non-blank line with its trailing
// newline stripped, "" on clean EOF.
func nextNonBlankLine(r *bufio.Reader) (string, error) {
	for {
		line, err := r.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line != "" {
			return line, nil
		}
		if err != nil {
			if err == io.EOF {
				return "", nil
			}
			return "", errors.Wrap(err, "leb36: read error")
		}
	}
}

func parseProfileLine(line string) (*Profile, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 3 {
		return nil, errors.Errorf("leb36: expected 3 tab-separated fields, got %d: %q", len(fields), line)
	}
	key, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, "leb36: bad key")
	}
	proflen, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, errors.Wrap(err, "leb36: bad length")
	}
	var indices []int
	if fields[2] != "" {
		toks := strings.Split(fields[2], ",")
		indices = make([]int, len(toks))
		for i, tok := range toks {
			v, err := strconv.ParseInt(tok, 36, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "leb36: bad base-36 index %q", tok)
			}
			indices[i] = int(v)
		}
	}
	if proflen != len(indices) {
		return nil, errors.Errorf("leb36: declared length %d does not match %d indices", proflen, len(indices))
	}
	if proflen <= 0 {
		return nil, errors.Errorf("leb36: profile length must be positive, got %d", proflen)
	}
	return &Profile{Key: key, Indices: indices, ProfLen: proflen}, nil
}

// WritePair writes p to w in LEB36 textual form: the forward profile line
// followed by the reverse-complement line.
func (c *Codec) WritePair(w io.Writer, p *ProfilePair) error {
	if err := writeProfileLine(w, p.Fwd); err != nil {
		return errors.Wrap(err, "leb36: write forward profile")
	}
	if err := writeProfileLine(w, p.RC); err != nil {
		return errors.Wrap(err, "leb36: write reverse-complement profile")
	}
	return nil
}

func writeProfileLine(w io.Writer, p *Profile) error {
	toks := make([]string, len(p.Indices))
	for i, v := range p.Indices {
		toks[i] = strconv.FormatInt(int64(v), 36)
	}
	_, err := fmt.Fprintf(w, "%d\t%d\t%s\n", p.Key, p.ProfLen, strings.Join(toks, ","))
	return err
}
