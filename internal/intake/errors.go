package intake

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/intake/internal/classification"
	"github.com/JaimeStill/intake/internal/conversion"
)

// Request errors for the convert-pdf endpoint.
var (
	ErrNoFile       = errors.New("no pdf file provided")
	ErrFileTooLarge = errors.New("pdf exceeds maximum upload size")
)

// Public messages written in error response bodies.
const (
	MessageNoFile         = "No PDF file provided!"
	MessageFileTooLarge   = "PDF exceeds maximum upload size"
	MessageConversion     = "An error occurred while converting the PDF."
	MessageEmptyDocument  = "The PDF contains no pages."
	MessageClassification = "An error occurred while classifying the document."
)

// MapResponse maps pipeline errors to an HTTP status and the public message
// for the response body. Internal error text never reaches the message.
func MapResponse(err error) (int, string) {
	switch {
	case errors.Is(err, ErrNoFile):
		return http.StatusBadRequest, MessageNoFile
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, MessageFileTooLarge
	case errors.Is(err, conversion.ErrEmptyDocument),
		errors.Is(err, classification.ErrEmptyDocument):
		return http.StatusInternalServerError, MessageEmptyDocument
	case errors.Is(err, conversion.ErrConversionFailed),
		errors.Is(err, conversion.ErrWorkspace):
		return http.StatusInternalServerError, MessageConversion
	default:
		return http.StatusInternalServerError, MessageClassification
	}
}
