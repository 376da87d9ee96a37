package features

import (
	"slices"

	"github.com/cargofeat/cargo-features/pkg/errors"
)

// Selection is the normalized outcome of a feature toggle session.
type Selection struct {
	UsesDefaultFeatures bool
	// Features are the enabled features other than "default", in display order.
	Features []string
}

// Checked returns the indices of s.Features that start checked.
func (s State) Checked() []int {
	var out []int
	for i, f := range s.Features {
		if s.IsEnabled(f.Name) {
			out = append(out, i)
		}
	}
	return out
}

// Apply replaces the enabled set with the features at indices, which refer to
// s.Features. Out-of-range indices are an internal error.
func (s *State) Apply(indices []int) error {
	picked := make([]bool, len(s.Features))
	for _, i := range indices {
		if i < 0 || i >= len(s.Features) {
			return errors.Internal("selected feature index %d out of range [0, %d)", i, len(s.Features))
		}
		picked[i] = true
	}
	enabled := []string{}
	for i, f := range s.Features {
		if picked[i] {
			enabled = append(enabled, f.Name)
		}
	}
	s.Enabled = enabled
	return nil
}

// Selection normalizes the enabled set. Default features count as in use when
// "default" is enabled, and also whenever the package declares no "default"
// feature at all: there is then nothing to opt out of, so an existing
// default-features = false on such a dependency is not preserved.
func (s State) Selection() Selection {
	sel := Selection{
		UsesDefaultFeatures: !s.HasDefault() || s.IsEnabled(Default),
		Features:            []string{},
	}
	for _, f := range s.Features {
		if f.Name != Default && s.IsEnabled(f.Name) {
			sel.Features = append(sel.Features, f.Name)
		}
	}
	return sel
}

// Equal reports whether two selections produce the same manifest entry.
func (sel Selection) Equal(other Selection) bool {
	return sel.UsesDefaultFeatures == other.UsesDefaultFeatures && slices.Equal(sel.Features, other.Features)
}
