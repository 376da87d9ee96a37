// Package observability provides hooks for instrumenting the feature
// pipeline without tying it to a particular backend.
//
// Register hooks once at startup, before running the pipeline:
//
//	observability.SetPipelineHooks(observability.NewLogHooks(logger))
//
// The pipeline reports each stage it runs:
//
//	observability.Pipeline().OnStageStart(ctx, observability.StagePackage)
//	// ... choose the package ...
//	observability.Pipeline().OnStageComplete(ctx, observability.StagePackage, duration, err)
package observability

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cargofeat/cargo-features/pkg/prompt"
)

// Stage names one step of a feature-editing run.
type Stage string

const (
	StageLoad       Stage = "load"
	StagePackage    Stage = "package"
	StageDependency Stage = "dependency"
	StageFeatures   Stage = "features"
	StageWrite      Stage = "write"
)

// PipelineHooks receives events from the feature pipeline. err is
// prompt.ErrCancelled when the user backed out during the stage.
type PipelineHooks interface {
	OnStageStart(ctx context.Context, stage Stage)
	OnStageComplete(ctx context.Context, stage Stage, duration time.Duration, err error)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnStageStart(context.Context, Stage)                          {}
func (NoopPipelineHooks) OnStageComplete(context.Context, Stage, time.Duration, error) {}

// LogHooks reports stages to a logger at debug level.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks creates hooks that log to l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{Logger: l}
}

func (h *LogHooks) OnStageStart(_ context.Context, stage Stage) {
	h.Logger.Debug("stage started", "stage", stage)
}

func (h *LogHooks) OnStageComplete(_ context.Context, stage Stage, d time.Duration, err error) {
	d = d.Round(time.Millisecond)
	switch {
	case err == nil:
		h.Logger.Debug("stage complete", "stage", stage, "duration", d)
	case errors.Is(err, prompt.ErrCancelled):
		h.Logger.Debug("stage cancelled", "stage", stage, "duration", d)
	default:
		h.Logger.Debug("stage failed", "stage", stage, "duration", d, "err", err)
	}
}

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers pipeline hooks. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Reset restores the no-op hooks.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
}
