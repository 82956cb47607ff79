package redund

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vntrseek/redund/leb36"
)

func writeSourceFile(t *testing.T, dir, name string, lines ...string) string {
	path := filepath.Join(dir, name)
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0644))
	return path
}

// profileLine builds one LEB36 line: key, length, comma-joined base-36
// indices (each already given as a base-36 token).
func profileLine(key int64, toks ...string) string {
	line := ""
	for i, tok := range toks {
		if i > 0 {
			line += ","
		}
		line += tok
	}
	return itoa(key) + "\t" + itoa(int64(len(toks))) + "\t" + line
}

func itoa(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func TestRunSingleFileNoDuplicates(t *testing.T) {
	dir, err := ioutil.TempDir("", "redund-driver-test-a")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	src := writeSourceFile(t, dir, "1.leb36.renumbered",
		profileLine(100, "0", "1", "2"), profileLine(100, "2", "1", "0"),
		profileLine(101, "3", "4", "5"), profileLine(101, "5", "4", "3"),
	)

	opts := &Opts{
		InputPaths:    []string{src},
		OutputPath:    filepath.Join(dir, "out.leb36"),
		SingleOutfile: true,
	}
	stats, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.NRead)
	assert.EqualValues(t, 2, stats.NWritten)
	assert.EqualValues(t, 0, stats.NDuplicates())
}

func TestRunSwappedOrientationIsDuplicate(t *testing.T) {
	dir, err := ioutil.TempDir("", "redund-driver-test-b")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	// second record's forward/RC are swapped relative to the first, but
	// represent the same underlying pair, so it must be treated as a
	// duplicate of the first.
	src := writeSourceFile(t, dir, "1.leb36.renumbered",
		profileLine(200, "0", "1"), profileLine(200, "1", "0"),
		profileLine(201, "1", "0"), profileLine(201, "0", "1"),
	)

	opts := &Opts{
		InputPaths:    []string{src},
		OutputPath:    filepath.Join(dir, "out.leb36"),
		SingleOutfile: true,
	}
	stats, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.NRead)
	assert.EqualValues(t, 1, stats.NWritten)
	assert.EqualValues(t, 1, stats.NDuplicates())
}

func TestRunMergesTwoSourcesInKeyOrder(t *testing.T) {
	dir, err := ioutil.TempDir("", "redund-driver-test-c")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	a := writeSourceFile(t, dir, "1.leb36.renumbered",
		profileLine(300, "0", "2"), profileLine(300, "2", "0"),
	)
	b := writeSourceFile(t, dir, "2.leb36.renumbered",
		profileLine(301, "0", "1"), profileLine(301, "1", "0"),
	)

	opts := &Opts{
		InputPaths:    []string{a, b},
		OutputPath:    filepath.Join(dir, "out.leb36"),
		SingleOutfile: true,
	}
	stats, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.NRead)
	assert.EqualValues(t, 2, stats.NWritten)

	content, err := ioutil.ReadFile(filepath.Join(dir, "out.leb36.rotindex"))
	require.NoError(t, err)
	// [0,1] sorts before [0,2], so source b's record must be preserved
	// (and therefore indexed) ahead of source a's, regardless of
	// discovery order.
	assert.Equal(t, "301", string(content[:3]))
	assert.Contains(t, string(content), "301")
}

func TestRunEmptyInputIsFatal(t *testing.T) {
	dir, err := ioutil.TempDir("", "redund-driver-test-e")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	src := writeSourceFile(t, dir, "1.leb36.renumbered")

	opts := &Opts{
		InputPaths:    []string{src},
		OutputPath:    filepath.Join(dir, "out.leb36"),
		SingleOutfile: true,
	}
	// A source that yields no records on its first refill never becomes
	// active, and Run rejects the whole run with an error.
	_, err = Run(context.Background(), opts)
	assert.Error(t, err)

	codec := leb36.NewCodec(leb36.NewComplementTable())
	s, err := OpenSource(src, codec)
	require.NoError(t, err)
	require.NoError(t, s.Advance(false))
	assert.False(t, s.Active())
}
