package pipeline

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/cargofeat/cargo-features/pkg/features"
	"github.com/cargofeat/cargo-features/pkg/metadata"
	"github.com/cargofeat/cargo-features/pkg/prompt"
)

const titleFeatures = "Toggle features"

// ResolveFeatures computes the feature state of dep. A dependency whose
// package is absent from the snapshot has no features to offer.
func ResolveFeatures(ws *metadata.Workspace, dep metadata.Dependency, logger *log.Logger) features.State {
	var featureMap map[string][]string
	if target, ok := ws.Target(dep); ok {
		featureMap = target.Features
	} else if logger != nil {
		logger.Debug("dependency target not in metadata", "dependency", dep.Name, "req", dep.Req)
	}
	return features.Resolve(featureMap, dep.UsesDefaultFeatures, dep.Features)
}

// ChooseFeatures lets the user toggle the features in state, starting from
// the currently enabled set, and returns the normalized result. state is
// updated to the user's choice.
func ChooseFeatures(ctx context.Context, sel prompt.Selector, state *features.State) (features.Selection, error) {
	options := make([]prompt.Option, len(state.Features))
	for i, f := range state.Features {
		options[i] = prompt.Option{Label: f.Name, Detail: "[" + strings.Join(f.Includes, ", ") + "]"}
	}
	picked, err := sel.SelectMany(ctx, titleFeatures, options, state.Checked())
	if err != nil {
		return features.Selection{}, selectionError(err)
	}
	if err := state.Apply(picked); err != nil {
		return features.Selection{}, err
	}
	return state.Selection(), nil
}
