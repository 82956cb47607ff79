package sortonly

import (
	"database/sql"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareSortKeysShorterIsSmaller(t *testing.T) {
	assert.Equal(t, -1, CompareSortKeys([]int{1}, []int{1, 0}))
	assert.Equal(t, 0, CompareSortKeys([]int{1, 2}, []int{1, 2}))
}

func TestRunSortsAndWritesSidecar(t *testing.T) {
	dir, err := ioutil.TempDir("", "sortonly-test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "in.leb36")
	// second record's canonical key [0,1] sorts before the first's [2,3]
	require.NoError(t, ioutil.WriteFile(input, []byte(
		"100\t2\t2,3\n100\t2\t3,2\n"+
			"101\t2\t0,1\n101\t2\t1,0\n"), 0644))

	opts := &Opts{
		InputPath:  input,
		OutputPath: filepath.Join(dir, "out.leb36.snappy"),
		SidecarDB:  filepath.Join(dir, "sidecar.db"),
	}
	n, err := Run(opts)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.FileExists(t, opts.OutputPath)

	db, err := sql.Open("sqlite", opts.SidecarDB)
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query("SELECT fwd_key FROM sorted_records ORDER BY id")
	require.NoError(t, err)
	defer rows.Close()

	var keys []int64
	for rows.Next() {
		var k int64
		require.NoError(t, rows.Scan(&k))
		keys = append(keys, k)
	}
	require.Len(t, keys, 2)
	assert.EqualValues(t, 101, keys[0])
	assert.EqualValues(t, 100, keys[1])
}
