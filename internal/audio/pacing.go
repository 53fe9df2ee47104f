package audio

import (
	"fmt"
	"time"
)

// PageDuration returns the real-time playback duration of pageBytes of PCM,
// used as the pause between page emissions. A non-positive byte rate is a
// configuration error caught at startup, never mid-stream.
func PageDuration(bytesPerSecond, pageBytes int) (time.Duration, error) {
	if bytesPerSecond <= 0 {
		return 0, fmt.Errorf("bytes per second must be positive, got %d", bytesPerSecond)
	}
	if pageBytes < 0 {
		return 0, fmt.Errorf("page size cannot be negative, got %d", pageBytes)
	}
	return time.Duration(float64(pageBytes) / float64(bytesPerSecond) * float64(time.Second)), nil
}
