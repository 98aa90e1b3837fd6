package util

import (
	"fmt"
	"math"
)

// SRTTimestamp formats a second offset as an SRT cue timestamp,
// e.g. 83.5 -> "00:01:23,500"
func SRTTimestamp(seconds float64) string {
	seconds = math.Round(seconds*1000) / 1000

	wholeSeconds := int64(seconds)
	milliseconds := int(math.Round((seconds - float64(wholeSeconds)) * 1000))

	hours := wholeSeconds / 3600
	remaining := wholeSeconds % 3600
	minutes := remaining / 60
	secs := remaining % 60

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, milliseconds)
}
