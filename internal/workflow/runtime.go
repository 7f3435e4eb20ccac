package workflow

import (
	"context"
	"log/slog"

	"github.com/JaimeStill/intake/internal/classification"
	"github.com/JaimeStill/intake/internal/conversion"
	"github.com/JaimeStill/intake/pkg/metrics"
)

// DocumentClassifier turns ordered page data URIs into a validated result.
// *classification.Service satisfies it.
type DocumentClassifier interface {
	Classify(ctx context.Context, images []string) (*classification.Result, error)
}

// Runtime bundles the dependencies that workflow nodes require.
// Metrics may be nil.
type Runtime struct {
	Converter  conversion.Converter
	Classifier DocumentClassifier
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
}
