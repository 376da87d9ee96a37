// Package features computes the feature state of one dependency edge and
// folds a user's selection back into the (default-features, features) pair
// Cargo.toml expresses.
//
// The feature map of the depended-upon package is used for display only:
// implied features are shown one level deep and never expanded, and no
// prerequisite checking is done on a selection.
package features
