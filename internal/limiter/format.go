package limiter

import (
	"fmt"
	"time"
)

// FormatRetryAfter renders a remaining lock duration as a human-readable
// minutes/seconds breakdown for 429 responses, e.g. "14 minutes 59 seconds".
func FormatRetryAfter(d time.Duration) string {
	if d <= 0 {
		return "0 seconds"
	}

	totalSeconds := int((d + time.Second - 1) / time.Second)
	minutes := totalSeconds / 60
	seconds := totalSeconds % 60

	if minutes > 0 {
		return fmt.Sprintf("%d minutes %d seconds", minutes, seconds)
	}
	return fmt.Sprintf("%d seconds", seconds)
}
