//go:build darwin

package redund

// Darwin's getrusage reports ru_maxrss in bytes.
const rssUnitIsKiB = false
