package pipeline

import (
	"context"
	"errors"

	"github.com/sahilm/fuzzy"

	cferrors "github.com/cargofeat/cargo-features/pkg/errors"
	"github.com/cargofeat/cargo-features/pkg/metadata"
	"github.com/cargofeat/cargo-features/pkg/prompt"
)

const (
	titlePackage    = "Select workspace package:"
	titleDependency = "Select dependency:"
)

// ChoosePackage picks one workspace package. A single member is returned
// without asking. With a keyword, the best fuzzy match is taken without
// asking; when nothing matches the user picks from all members with the
// keyword pre-filled as the filter.
func ChoosePackage(ctx context.Context, sel prompt.Selector, members []*metadata.Package, keyword string) (*metadata.Package, error) {
	if len(members) == 0 {
		return nil, cferrors.New(cferrors.ErrCodeNotFound, "workspace has no packages")
	}
	options := make([]prompt.Option, len(members))
	for i, p := range members {
		options[i] = prompt.Option{Label: p.Name, Detail: p.Version}
	}
	i, err := choose(ctx, sel, titlePackage, options, keyword)
	if err != nil {
		return nil, err
	}
	return members[i], nil
}

// ChooseDependency picks one direct dependency of pkg, the same way
// ChoosePackage picks a package.
func ChooseDependency(ctx context.Context, sel prompt.Selector, pkg *metadata.Package, keyword string) (metadata.Dependency, error) {
	if len(pkg.Dependencies) == 0 {
		return metadata.Dependency{}, cferrors.New(cferrors.ErrCodeNotFound, "package %s has no dependencies", pkg.Name)
	}
	options := make([]prompt.Option, len(pkg.Dependencies))
	for i, d := range pkg.Dependencies {
		options[i] = prompt.Option{Label: d.Label(), Detail: d.Req}
	}
	i, err := choose(ctx, sel, titleDependency, options, keyword)
	if err != nil {
		return metadata.Dependency{}, err
	}
	return pkg.Dependencies[i], nil
}

func choose(ctx context.Context, sel prompt.Selector, title string, options []prompt.Option, keyword string) (int, error) {
	labels := prompt.Labels(options)
	if len(options) == 1 {
		return 0, nil
	}
	if keyword != "" {
		if matches := fuzzy.Find(keyword, labels); len(matches) > 0 {
			return lookup(labels, matches[0].Str)
		}
	}
	i, err := sel.SelectOne(ctx, title, options, keyword)
	if err != nil {
		return -1, selectionError(err)
	}
	if i < 0 || i >= len(options) {
		return -1, cferrors.Internal("selector returned index %d for %d options", i, len(options))
	}
	return i, nil
}

// lookup returns the index of the one option labelled label.
func lookup(labels []string, label string) (int, error) {
	found := -1
	for i, l := range labels {
		if l != label {
			continue
		}
		if found >= 0 {
			return -1, cferrors.Internal("option %q is listed more than once", label)
		}
		found = i
	}
	if found < 0 {
		return -1, cferrors.Internal("option %q is not in the source list", label)
	}
	return found, nil
}

// selectionError passes cancellation through unchanged and classifies every
// other prompt failure.
func selectionError(err error) error {
	if errors.Is(err, prompt.ErrCancelled) {
		return prompt.ErrCancelled
	}
	if cferrors.GetCode(err) != "" {
		return err
	}
	return cferrors.Wrap(cferrors.ErrCodeSelection, err, "prompt failed")
}
