package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cargofeat/cargo-features/internal/semver"
	"github.com/cargofeat/cargo-features/pkg/features"
	"github.com/cargofeat/cargo-features/pkg/manifest"
	"github.com/cargofeat/cargo-features/pkg/metadata"
	"github.com/cargofeat/cargo-features/pkg/observability"
	"github.com/cargofeat/cargo-features/pkg/prompt"
)

// Options selects what to edit.
type Options struct {
	// Package is an optional keyword matched against workspace package names.
	Package string
	// Dependency is an optional keyword matched against dependency names.
	Dependency string
}

// Result describes a completed run.
type Result struct {
	Package    *metadata.Package
	Dependency metadata.Dependency
	State      features.State
	Dropped    []string // enabled before the run but not declared by the dependency
	Selection  features.Selection
	Change     *manifest.Change
	Duration   time.Duration
}

// Pipeline wires the stages to their collaborators.
type Pipeline struct {
	Source   metadata.Source
	Selector prompt.Selector
	Writer   *manifest.Writer
	Logger   *log.Logger
}

// New creates a Pipeline. A nil writer writes for real; a nil logger uses
// log.Default.
func New(src metadata.Source, sel prompt.Selector, w *manifest.Writer, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	if w == nil {
		w = manifest.NewWriter(logger, false)
	}
	return &Pipeline{Source: src, Selector: sel, Writer: w, Logger: logger}
}

// Run executes package -> dependency -> features -> manifest. It returns
// prompt.ErrCancelled, with nothing written, when the user cancels a prompt.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	res := &Result{}

	var ws *metadata.Workspace
	err := stage(ctx, observability.StageLoad, func() (err error) {
		ws, err = p.Source.Load(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = stage(ctx, observability.StagePackage, func() (err error) {
		res.Package, err = ChoosePackage(ctx, p.Selector, ws.Members(), opts.Package)
		return err
	})
	if err != nil {
		return nil, err
	}
	p.Logger.Debug("package selected", "package", res.Package.Name, "manifest", res.Package.ManifestPath)

	err = stage(ctx, observability.StageDependency, func() (err error) {
		res.Dependency, err = ChooseDependency(ctx, p.Selector, res.Package, opts.Dependency)
		return err
	})
	if err != nil {
		return nil, err
	}
	dep := res.Dependency
	p.Logger.Debug("dependency selected", "dependency", dep.Label(), "req", dep.Req)

	res.State = ResolveFeatures(ws, dep, p.Logger)
	res.Dropped = res.State.Undeclared()
	if len(res.Dropped) > 0 {
		p.Logger.Debug("undeclared features enabled", "dependency", dep.Name, "features", res.Dropped)
	}
	before := res.State.Selection()

	err = stage(ctx, observability.StageFeatures, func() (err error) {
		res.Selection, err = ChooseFeatures(ctx, p.Selector, &res.State)
		return err
	})
	if err != nil {
		return nil, err
	}
	if res.Selection.Equal(before) {
		p.Logger.Debug("feature selection unchanged", "dependency", dep.Name)
	}

	err = stage(ctx, observability.StageWrite, func() (err error) {
		res.Change, err = p.Writer.Write(res.Package.ManifestPath, dep.Table(), dep.Key(), EntryFor(dep, res.Selection, p.Logger))
		return err
	})
	if err != nil {
		return nil, err
	}

	res.Duration = time.Since(start)
	return res, nil
}

// stage runs fn and reports it to the registered pipeline hooks.
func stage(ctx context.Context, s observability.Stage, fn func() error) error {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, s)
	start := time.Now()
	err := fn()
	hooks.OnStageComplete(ctx, s, time.Since(start), err)
	return err
}

// EntryFor builds the manifest entry for dep with the given selection. The
// requirement is written without a leading caret.
func EntryFor(dep metadata.Dependency, sel features.Selection, logger *log.Logger) manifest.Entry {
	req := semver.ParseRequirement(dep.Req)
	if !req.Valid() && logger != nil {
		logger.Warn("version requirement not understood; writing it unchanged", "dependency", dep.Name, "req", dep.Req)
	}
	e := manifest.Entry{
		Version:         req.Bare(),
		DefaultFeatures: sel.UsesDefaultFeatures,
		Features:        sel.Features,
	}
	if dep.Rename != "" {
		e.Package = dep.Name
	}
	return e
}
