package youtube

import "fmt"

// TimeoutError is returned when an operation's overall deadline elapsed
// before another attempt could be made.
type TimeoutError struct {
	URL string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out while loading %s", e.URL)
}

// RetryError is returned when every configured attempt failed without
// exceeding the deadline.
type RetryError struct {
	URL string
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("reached maximum retries for %s", e.URL)
}

// MalformedDataError is returned when a successfully fetched page lacked
// a field that is expected to always be present for its playability state.
type MalformedDataError struct {
	URL   string
	Field string
}

func (e *MalformedDataError) Error() string {
	return fmt.Sprintf("malformed page data for %s: missing %s", e.URL, e.Field)
}

// InvalidInputError is returned for caller mistakes (bad thumbnail format,
// input that cannot be reduced to a video ID). No network I/O happens first.
type InvalidInputError struct {
	Input string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %q", e.Input)
}
