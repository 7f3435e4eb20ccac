package classification

import "errors"

// Sentinel errors for the classification stage.
var (
	ErrEmptyDocument     = errors.New("no page images to classify")
	ErrServiceFailure    = errors.New("classification service failed")
	ErrMalformedResponse = errors.New("classification response is not valid JSON")
	ErrSchemaValidation  = errors.New("classification response does not match schema")
)
