//go:build linux

package redund

// Linux's getrusage reports ru_maxrss in KiB.
const rssUnitIsKiB = true
