package conversion

import "errors"

// Sentinel errors for the conversion stage.
var (
	ErrConversionFailed = errors.New("pdf conversion failed")
	ErrEmptyDocument    = errors.New("pdf contains no pages")
	ErrWorkspace        = errors.New("upload workspace error")
)
