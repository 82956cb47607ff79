// Package rlimit raises the process's open-file descriptor limit so a
// many-way merge can hold every source plus its output segment open at
// once, via golang.org/x/sys/unix rather than shelling out to ulimit.
// Windows has no RLIMIT_NOFILE equivalent and Raise is a no-op there.
package rlimit
