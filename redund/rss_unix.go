//go:build !windows

package redund

import "golang.org/x/sys/unix"

// peakRSSBytes samples the process's peak resident set size via getrusage,
// normalizing the platform-dependent unit (KiB on Linux, bytes on Darwin)
// to bytes. Best-effort: a failed syscall yields 0 rather than an error,
// since Stats.PeakRSSBytes is diagnostic, not load-bearing.
func peakRSSBytes() int64 {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0
	}
	maxrss := int64(ru.Maxrss)
	if rssUnitIsKiB {
		return maxrss * 1024
	}
	return maxrss
}
