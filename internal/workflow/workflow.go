// Package workflow runs the convert-then-classify pipeline for one uploaded
// PDF as a two-node state graph (convert → classify).
package workflow

import (
	"context"
	"fmt"
	"sync"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/intake/internal/classification"
	"github.com/JaimeStill/intake/internal/conversion"
)

// State keys.
const (
	KeyPDFPath  = "pdf_path"
	KeyImageDir = "image_dir"
	KeyPages    = "pages"
	KeyResult   = "result"
)

// Pipeline stages, used as metrics labels.
const (
	StageConvert  = "convert"
	StageClassify = "classify"
)

// Outcome is the product of a completed workflow.
type Outcome struct {
	Result    *classification.Result
	PageCount int
}

// Execute converts the upload's PDF and classifies its pages. Errors keep
// their stage sentinel (conversion.ErrConversionFailed,
// classification.ErrSchemaValidation, ...) so callers can map them.
func Execute(ctx context.Context, rt *Runtime, upload *conversion.Upload) (*Outcome, error) {
	failure := &nodeFailure{}

	graph, err := buildGraph(rt, failure)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initialState := state.New(nil)
	initialState = initialState.Set(KeyPDFPath, upload.PDFPath)
	initialState = initialState.Set(KeyImageDir, upload.ImageDir)

	finalState, err := graph.Execute(ctx, initialState)
	if err != nil {
		if nodeErr := failure.get(); nodeErr != nil {
			return nil, nodeErr
		}
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	return extractOutcome(finalState)
}

func buildGraph(rt *Runtime, failure *nodeFailure) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("intake-convert-pdf")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode(StageConvert, ConvertNode(rt, failure)); err != nil {
		return nil, err
	}

	if err := graph.AddNode(StageClassify, ClassifyNode(rt, failure)); err != nil {
		return nil, err
	}

	if err := graph.AddEdge(StageConvert, StageClassify, nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint(StageConvert); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint(StageClassify); err != nil {
		return nil, err
	}

	return graph, nil
}

func extractOutcome(s state.State) (*Outcome, error) {
	resultVal, ok := s.Get(KeyResult)
	if !ok {
		return nil, fmt.Errorf("missing %s in final state", KeyResult)
	}

	result, ok := resultVal.(*classification.Result)
	if !ok {
		return nil, fmt.Errorf("%s is not *classification.Result", KeyResult)
	}

	pages, err := pagesFromState(s)
	if err != nil {
		return nil, err
	}

	return &Outcome{Result: result, PageCount: len(pages)}, nil
}

func pagesFromState(s state.State) ([]conversion.PageImage, error) {
	val, ok := s.Get(KeyPages)
	if !ok {
		return nil, fmt.Errorf("missing %s in state", KeyPages)
	}

	pages, ok := val.([]conversion.PageImage)
	if !ok {
		return nil, fmt.Errorf("%s is not []conversion.PageImage", KeyPages)
	}

	return pages, nil
}

func stringFromState(s state.State, key string) (string, error) {
	val, ok := s.Get(key)
	if !ok {
		return "", fmt.Errorf("missing %s in state", key)
	}

	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("%s is not string", key)
	}

	return str, nil
}

// nodeFailure holds the first error a node returned, unwrapped by the graph.
type nodeFailure struct {
	mu  sync.Mutex
	err error
}

func (f *nodeFailure) record(err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err == nil {
		f.err = err
	}
	return err
}

func (f *nodeFailure) get() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}
