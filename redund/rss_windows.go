//go:build windows

package redund

// peakRSSBytes has no cheap portable equivalent of getrusage on Windows;
// Stats.PeakRSSBytes is diagnostic only, so this reports unknown as 0
// rather than shelling out to a WMI query.
func peakRSSBytes() int64 {
	return 0
}
