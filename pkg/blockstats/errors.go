package blockstats

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned before any fetch when the window is unusable.
var ErrInvalidArgument = errors.New("invalid argument")

// FetchError reports the block whose fetch aborted an analysis.
type FetchError struct {
	Block int64
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch block %d: %v", e.Block, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
