package classification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/intake/pkg/formatting"
)

// Service classifies a document from its page images. It owns the canonical
// instructions and the result schema, and delegates the model call to a
// Classifier.
type Service struct {
	classifier   Classifier
	instructions string
	schema       *Schema
	logger       *slog.Logger
}

// NewService renders the instructions for opts and compiles the matching schema.
func NewService(classifier Classifier, opts InstructionOptions, logger *slog.Logger) (*Service, error) {
	instructions, err := Instructions(opts)
	if err != nil {
		return nil, err
	}

	schema, err := NewSchema(opts.LetterOfRepresentation)
	if err != nil {
		return nil, err
	}

	return &Service{
		classifier:   classifier,
		instructions: instructions,
		schema:       schema,
		logger:       logger.With("system", "classification"),
	}, nil
}

// Instructions returns the prompt text sent with every request.
func (s *Service) Instructions() string {
	return s.instructions
}

// Classify sends images, in page order, with the instructions and returns
// the validated result. The raw reply is logged whenever it cannot be
// accepted.
func (s *Service) Classify(ctx context.Context, images []string) (*Result, error) {
	if len(images) == 0 {
		return nil, ErrEmptyDocument
	}

	raw, err := s.classifier.Classify(ctx, s.instructions, images)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrServiceFailure, err)
	}

	return s.decode(ctx, raw)
}

func (s *Service) decode(ctx context.Context, raw string) (*Result, error) {
	parsed, err := formatting.Parse[any](raw)
	if err != nil {
		s.logger.ErrorContext(ctx, "classifier reply is not json", "raw", raw, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	if err := s.schema.Validate(parsed); err != nil {
		s.logger.ErrorContext(ctx, "classifier reply failed validation", "raw", raw, "error", err)
		return nil, err
	}

	result, err := formatting.Parse[Result](raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	s.logger.InfoContext(ctx, "document classified", "document_type", result.DocumentType)

	return &result, nil
}
