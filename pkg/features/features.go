package features

import (
	"slices"
	"strings"
)

// Default is the conventional feature Cargo enables unless a dependent opts
// out with default-features = false.
const Default = "default"

// Feature is one entry of a package's feature map.
type Feature struct {
	Name     string
	Includes []string
}

// String renders the feature the way Cargo.toml declares it.
func (f Feature) String() string {
	return f.Name + " = [" + strings.Join(f.Includes, ", ") + "]"
}

// State is the feature state of one dependency edge.
type State struct {
	// Features lists every declared feature, "default" first, the rest by name.
	Features []Feature
	// Enabled holds the enabled feature names. It starts as the dependency's
	// explicit list with "default" prepended when it applies.
	Enabled []string
}

// Resolve builds the State for a dependency on a package whose feature map is
// featureMap. explicit is the dependency's declared features list.
func Resolve(featureMap map[string][]string, usesDefault bool, explicit []string) State {
	enabled := slices.Clone(explicit)
	if enabled == nil {
		enabled = []string{}
	}
	if _, ok := featureMap[Default]; ok && usesDefault && !slices.Contains(enabled, Default) {
		enabled = slices.Insert(enabled, 0, Default)
	}

	all := make([]Feature, 0, len(featureMap))
	for name, includes := range featureMap {
		all = append(all, Feature{Name: name, Includes: slices.Clone(includes)})
	}
	slices.SortFunc(all, func(a, b Feature) int {
		return compareNames(a.Name, b.Name)
	})

	return State{Features: all, Enabled: enabled}
}

// compareNames orders "default" before everything else and the remaining
// names by byte value.
func compareNames(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == Default:
		return -1
	case b == Default:
		return 1
	}
	return strings.Compare(a, b)
}

// HasDefault reports whether the package declares a "default" feature.
func (s State) HasDefault() bool {
	return slices.ContainsFunc(s.Features, func(f Feature) bool { return f.Name == Default })
}

// IsEnabled reports whether name is enabled.
func (s State) IsEnabled(name string) bool {
	return slices.Contains(s.Enabled, name)
}

// Undeclared returns enabled names the package does not declare. They cannot
// be shown as toggles, so a selection drops them.
func (s State) Undeclared() []string {
	var out []string
	for _, name := range s.Enabled {
		if !slices.ContainsFunc(s.Features, func(f Feature) bool { return f.Name == name }) {
			out = append(out, name)
		}
	}
	return out
}

// EnabledFeatures returns the Feature entries for the enabled names, in the
// order they are enabled. Undeclared names are returned with no includes.
func (s State) EnabledFeatures() []Feature {
	out := make([]Feature, 0, len(s.Enabled))
	for _, name := range s.Enabled {
		i := slices.IndexFunc(s.Features, func(f Feature) bool { return f.Name == name })
		if i < 0 {
			out = append(out, Feature{Name: name})
			continue
		}
		out = append(out, s.Features[i])
	}
	return out
}
