package format

import "errors"

// ErrTruncated indicates the region lacked the bytes required for a word.
var ErrTruncated = errors.New("format: truncated region")
