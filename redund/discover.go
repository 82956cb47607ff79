package redund

import (
	"io/ioutil"
	"path/filepath"
	"sort"
	"strings"

	"github.com/grailbio/base/errors"
)

// inputSuffix is the case-insensitive suffix that marks a directory entry
// as a candidate input.
const inputSuffix = ".leb36.renumbered"

// DiscoverInputs lists every entry directly under dir whose name
// case-insensitively ends in ".leb36.renumbered", returning their full
// paths sorted lexicographically by basename. That sort order is what
// dictates tie-breaking among equal canonical keys from different sources.
func DiscoverInputs(dir string) ([]string, error) {
	entries, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, errors.E(err, "redund: listing input directory", dir)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), inputSuffix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
	}
	return paths, nil
}
