package splithttp

import (
	"errors"
	"fmt"
)

var ErrInvalidURL = errors.New("invalid URL")
var ErrMissingLength = errors.New("server didn't provide Content-Length header")

// ChunkError reports a failed range fetch without aborting sibling ranges.
type ChunkError struct {
	Index int
	Err   error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("chunk %d failed: %v", e.Index, e.Err)
}

func (e *ChunkError) Unwrap() error {
	return e.Err
}
