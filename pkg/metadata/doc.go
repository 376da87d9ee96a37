// Package metadata reads the workspace snapshot produced by
// `cargo metadata --format-version 1`.
//
// The snapshot is read once per run. [Workspace.Members] returns the
// workspace's own packages in the order cargo lists them, each with its direct
// dependencies in declaration order; [Workspace.Target] finds the package a
// dependency resolves to so its feature map can be inspected.
//
// The cargo invocation goes through a [Runner] so tests can substitute
// fixture output:
//
//	src := metadata.NewCargo(metadata.Options{ManifestPath: "Cargo.toml"})
//	ws, err := src.Load(ctx)
package metadata
