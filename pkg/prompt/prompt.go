// Package prompt defines the narrow interaction capability the resolution
// pipeline depends on: pick one of N labelled options, or pick a subset of N
// options starting from a pre-checked default subset.
//
// Implementations return ErrCancelled when the user backs out. Cancellation
// is an outcome, not a failure; callers are expected to unwind without side
// effects and let the outermost caller decide how to exit.
package prompt

import (
	"context"
	"errors"
)

// ErrCancelled is returned by a Selector when the user dismissed the prompt.
var ErrCancelled = errors.New("selection cancelled")

// Option is one selectable entry.
type Option struct {
	// Label identifies the option and is what filtering matches against.
	Label string
	// Detail is optional secondary text rendered after the label.
	Detail string
}

// Selector is the interaction capability.
type Selector interface {
	// SelectOne returns the index of the chosen option. filter, when not
	// empty, pre-fills the prompt's filter input.
	SelectOne(ctx context.Context, title string, options []Option, filter string) (int, error)

	// SelectMany returns the indices of the options left checked, in
	// ascending order. checked lists the indices that start checked.
	SelectMany(ctx context.Context, title string, options []Option, checked []int) ([]int, error)
}

// Labels returns the labels of opts.
func Labels(opts []Option) []string {
	labels := make([]string, len(opts))
	for i, o := range opts {
		labels[i] = o.Label
	}
	return labels
}
