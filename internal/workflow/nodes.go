package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/intake/internal/conversion"
)

// ConvertNode returns a state node that renders the PDF at KeyPDFPath into
// KeyImageDir and stores the ordered pages under KeyPages.
func ConvertNode(rt *Runtime, failure *nodeFailure) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		pdfPath, err := stringFromState(s, KeyPDFPath)
		if err != nil {
			return s, failure.record(fmt.Errorf("%w: %w", conversion.ErrConversionFailed, err))
		}

		imageDir, err := stringFromState(s, KeyImageDir)
		if err != nil {
			return s, failure.record(fmt.Errorf("%w: %w", conversion.ErrConversionFailed, err))
		}

		start := time.Now()
		pages, err := rt.Converter.Convert(ctx, pdfPath, imageDir)
		rt.observeStage(StageConvert, start, err)
		if err != nil {
			return s, failure.record(err)
		}

		if rt.Metrics != nil {
			rt.Metrics.ObservePages(len(pages))
		}

		rt.Logger.InfoContext(ctx, "convert node complete", "page_count", len(pages))

		return s.Set(KeyPages, pages), nil
	})
}

// ClassifyNode returns a state node that classifies the pages stored under
// KeyPages and stores the result under KeyResult.
func ClassifyNode(rt *Runtime, failure *nodeFailure) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		pages, err := pagesFromState(s)
		if err != nil {
			return s, failure.record(err)
		}

		start := time.Now()
		result, err := rt.Classifier.Classify(ctx, conversion.DataURIs(pages))
		rt.observeStage(StageClassify, start, err)
		if err != nil {
			return s, failure.record(err)
		}

		if rt.Metrics != nil {
			rt.Metrics.ObserveClassification(string(result.DocumentType))
		}

		rt.Logger.InfoContext(
			ctx, "classify node complete",
			"document_type", result.DocumentType,
			"page_count", len(pages),
		)

		return s.Set(KeyResult, result), nil
	})
}

func (rt *Runtime) observeStage(stage string, start time.Time, err error) {
	if rt.Metrics == nil {
		return
	}
	rt.Metrics.ObserveStage(stage, time.Since(start))
	if err != nil {
		rt.Metrics.ObserveFailure(stage)
	}
}
