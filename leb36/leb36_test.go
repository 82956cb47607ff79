package leb36

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPairRoundTrip(t *testing.T) {
	input := "12\t3\t0,1,2\n12\t3\tz,1,0\n"
	codec := NewCodec(NewComplementTable())

	pair, err := codec.ReadPair(bufio.NewReader(strings.NewReader(input)))
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.Equal(t, int64(12), pair.Fwd.Key)
	assert.Equal(t, []int{0, 1, 2}, pair.Fwd.Indices)
	assert.Equal(t, []int{35, 1, 0}, pair.RC.Indices)

	var buf bytes.Buffer
	require.NoError(t, codec.WritePair(&buf, pair))

	again, err := codec.ReadPair(bufio.NewReader(&buf))
	require.NoError(t, err)
	assert.Equal(t, pair, again)
}

func TestReadPairCleanEOF(t *testing.T) {
	codec := NewCodec(NewComplementTable())
	pair, err := codec.ReadPair(bufio.NewReader(strings.NewReader("")))
	require.NoError(t, err)
	assert.Nil(t, pair)
}

func TestReadPairSkipsBlankLines(t *testing.T) {
	input := "\n\n1\t2\t0,1\n1\t2\t1,0\n\n"
	codec := NewCodec(NewComplementTable())
	pair, err := codec.ReadPair(bufio.NewReader(strings.NewReader(input)))
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.Equal(t, int64(1), pair.Fwd.Key)
}

func TestReadPairMissingRCIsFatal(t *testing.T) {
	codec := NewCodec(NewComplementTable())
	_, err := codec.ReadPair(bufio.NewReader(strings.NewReader("1\t2\t0,1\n")))
	assert.Error(t, err)
}

func TestReadPairLengthMismatchIsFatal(t *testing.T) {
	codec := NewCodec(NewComplementTable())
	_, err := codec.ReadPair(bufio.NewReader(strings.NewReader("1\t3\t0,1\n1\t2\t0,1\n")))
	assert.Error(t, err)
}

func TestComplementTable(t *testing.T) {
	tbl := NewComplementTable()
	assert.Equal(t, byte('T'), tbl.Complement('A'))
	assert.Equal(t, byte('A'), tbl.Complement('T'))
	assert.Equal(t, byte('G'), tbl.Complement('C'))
	assert.Equal(t, byte('C'), tbl.Complement('G'))
	assert.Equal(t, byte('N'), tbl.Complement('N'))
}

func TestCopyPairIsDeep(t *testing.T) {
	pair := &ProfilePair{
		Fwd: &Profile{Key: 1, Indices: []int{1, 2}, ProfLen: 2},
		RC:  &Profile{Key: 1, Indices: []int{2, 1}, ProfLen: 2},
	}
	cp := CopyPair(pair)
	cp.Fwd.Indices[0] = 99
	assert.Equal(t, 1, pair.Fwd.Indices[0])
}
