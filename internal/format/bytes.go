// Package format provides shared human-readable formatting utilities for
// byte quantities, rates, and timestamps.
package format

import "fmt"

// byteUnits are the decimal (SI) unit labels for byte quantities, smallest
// first. Decimal scaling matches how consumer network tooling reports
// throughput: 10,000,000 bytes/s renders as 10.0 MB/s.
var byteUnits = []string{"B", "KB", "MB", "GB", "TB", "PB"}

const byteUnitStep = 1000.0

// ByteRate renders a bytes-per-second rate with an adaptive unit.
// Sub-kilobyte rates are shown as whole bytes ("512 B/s"); larger rates use
// one decimal ("10.0 MB/s"). Negative inputs render as zero.
func ByteRate(bytesPerSecond float64) string {
	return scaleBytes(bytesPerSecond) + "/s"
}

// ByteCount renders a byte total with an adaptive unit, e.g. "512 B",
// "1.5 KB", "2.3 GB". Values above the largest unit stay in that unit.
func ByteCount(n uint64) string {
	return scaleBytes(float64(n))
}

// scaleBytes picks the largest unit that keeps the value at or above one
// and formats it. Whole bytes carry no decimal; scaled units carry one.
func scaleBytes(v float64) string {
	if v < 0 {
		v = 0
	}
	if v < byteUnitStep {
		return fmt.Sprintf("%.0f %s", v, byteUnits[0])
	}

	unit := 0
	for v >= byteUnitStep && unit < len(byteUnits)-1 {
		v /= byteUnitStep
		unit++
	}
	return fmt.Sprintf("%.1f %s", v, byteUnits[unit])
}
