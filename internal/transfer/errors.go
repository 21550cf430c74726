package transfer

import (
	"fmt"
	"time"
)

// TimeoutError is returned when a transfer receives no data for longer than
// the configured timeout.
type TimeoutError struct {
	Timeout time.Duration
	URL     string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("transfer: connection timeout after %s", e.Timeout)
}

// DownloadError is returned when a response cannot be turned into a file:
// bad status, or missing size or filename metadata, or a truncated body.
type DownloadError struct {
	URL    string
	Reason string
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("transfer: %s", e.Reason)
}
