//go:build !windows

package rlimit

import (
	"golang.org/x/sys/unix"

	"github.com/grailbio/base/errors"
)

// headroom is added on top of the descriptor count a caller says it needs,
// to cover stdio, the process's own log/metrics files, and any descriptors
// the runtime itself holds open.
const headroom = 16

// Raise ensures the process's soft RLIMIT_NOFILE is at least need+headroom,
// raising it up to the hard limit if necessary. It returns an error if even
// the hard limit is insufficient, rather than silently running with too few
// descriptors.
func Raise(need int) error {
	var rl unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rl); err != nil {
		return errors.E(err, "rlimit: getrlimit(RLIMIT_NOFILE)")
	}

	want := uint64(need + headroom)
	if rl.Cur >= want {
		return nil
	}
	if rl.Max < want {
		return errors.E("rlimit: need", want, "descriptors but hard limit is", rl.Max)
	}

	rl.Cur = want
	if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &rl); err != nil {
		return errors.E(err, "rlimit: setrlimit(RLIMIT_NOFILE)", want)
	}
	return nil
}
