package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/cargofeat/cargo-features/pkg/buildinfo"
	cferrors "github.com/cargofeat/cargo-features/pkg/errors"
	"github.com/cargofeat/cargo-features/pkg/metadata"
	"github.com/cargofeat/cargo-features/pkg/prompt"
)

const appManifest = `[package]
name = "app"
version = "0.1.0"

[dependencies]
serde = "1.0" # serialization
`

type fixture struct {
	manifest    string
	appFeatures []string // features app enables on serde
	calls       [][]string
	out         bytes.Buffer
	errOut      bytes.Buffer
}

// newFixture writes app's manifest to a temp dir and returns a runner that
// serves metadata for a two-member workspace.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{manifest: filepath.Join(dir, "app", "Cargo.toml")}
	if err := os.MkdirAll(filepath.Dir(f.manifest), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(f.manifest, []byte(appManifest), 0o644); err != nil {
		t.Fatal(err)
	}
	return f
}

func (f *fixture) metadata() []byte {
	doc := map[string]any{
		"workspace_root":    filepath.Dir(filepath.Dir(f.manifest)),
		"workspace_members": []string{"app 0.1.0", "core 0.1.0"},
		"packages": []metadata.Package{
			{
				ID: "app 0.1.0", Name: "app", Version: "0.1.0", ManifestPath: f.manifest,
				Dependencies: []metadata.Dependency{
					{Name: "serde", Req: "^1.0", UsesDefaultFeatures: true, Features: f.appFeatures},
				},
			},
			{
				ID: "core 0.1.0", Name: "core", Version: "0.1.0",
				ManifestPath: filepath.Join(filepath.Dir(filepath.Dir(f.manifest)), "core", "Cargo.toml"),
				Dependencies: []metadata.Dependency{
					{Name: "serde", Req: "^0.9", UsesDefaultFeatures: false, Features: []string{"std"}},
				},
			},
			{
				ID: "serde 1.0.197", Name: "serde", Version: "1.0.197",
				Features: map[string][]string{
					"default": {"std"}, "std": {}, "derive": {"serde_derive"}, "alloc": {},
				},
			},
			{
				ID: "serde 0.9.15", Name: "serde", Version: "0.9.15",
				Features: map[string][]string{"default": {"std"}, "std": {}, "unstable": {}},
			},
		},
	}
	data, _ := json.Marshal(doc)
	return data
}

func (f *fixture) run(t *testing.T, sel prompt.Selector, args ...string) error {
	t.Helper()
	c := &CLI{
		Logger:   newLogger(io.Discard, LogInfo),
		Selector: sel,
		Runner: func(ctx context.Context, name string, a ...string) ([]byte, error) {
			f.calls = append(f.calls, append([]string{name}, a...))
			return f.metadata(), nil
		},
		Out: &f.out,
		Err: &f.errOut,
	}
	root := c.RootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func (f *fixture) read(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(f.manifest)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestFeaturesWritesSelection(t *testing.T) {
	f := newFixture(t)
	sel := prompt.NewScripted(prompt.Answer{Labels: []string{"default", "derive"}})

	if err := f.run(t, sel, "features", "-p", "app", "-d", "serde"); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := strings.Replace(appManifest, `serde = "1.0"`, `serde = { version = "1.0", features = ["derive"] }`, 1)
	if got := f.read(t); got != want {
		t.Errorf("manifest =\n%s\nwant\n%s", got, want)
	}
	if len(sel.Calls) != 1 || sel.Calls[0].Title != "Toggle features" {
		t.Errorf("prompts = %+v, want only the feature toggle", sel.Calls)
	}
	for _, want := range []string{"Updated serde", `features = ["derive"]`, f.manifest} {
		if !strings.Contains(f.out.String(), want) {
			t.Errorf("output %q missing %q", f.out.String(), want)
		}
	}
}

func TestFeaturesWarnsDroppedFeatures(t *testing.T) {
	f := newFixture(t)
	f.appFeatures = []string{"derive", "rc"}
	sel := prompt.NewScripted(prompt.Answer{Keep: true})

	if err := f.run(t, sel, "features", "-p", "app", "-d", "serde"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := f.read(t); !strings.Contains(got, `serde = { version = "1.0", features = ["derive"] }`) {
		t.Errorf("manifest =\n%s", got)
	}
	if !strings.Contains(f.out.String(), "Removed features serde does not declare: rc") {
		t.Errorf("output %q missing dropped feature warning", f.out.String())
	}
}

func TestFeaturesDryRun(t *testing.T) {
	f := newFixture(t)
	sel := prompt.NewScripted(prompt.Answer{Labels: []string{}})

	if err := f.run(t, sel, "features", "-p", "app", "--dry-run"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := f.read(t); got != appManifest {
		t.Errorf("dry run modified manifest:\n%s", got)
	}
	if !strings.Contains(f.out.String(), `serde = { version = "1.0", default-features = false }`) {
		t.Errorf("output %q missing planned entry", f.out.String())
	}
}

func TestFeaturesUnchanged(t *testing.T) {
	f := newFixture(t)
	sel := prompt.NewScripted(prompt.Answer{Keep: true})

	if err := f.run(t, sel, "features", "-p", "app"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := f.read(t); got != appManifest {
		t.Errorf("manifest changed:\n%s", got)
	}
	if !strings.Contains(f.out.String(), "already up to date") {
		t.Errorf("output %q should report no change", f.out.String())
	}
}

func TestFeaturesCancelled(t *testing.T) {
	f := newFixture(t)
	sel := prompt.NewScripted(prompt.Answer{Cancel: true})

	err := f.run(t, sel, "features")
	if !errors.Is(err, prompt.ErrCancelled) {
		t.Fatalf("run error = %v, want ErrCancelled", err)
	}
	if len(sel.Calls) != 1 || sel.Calls[0].Title != "Select workspace package:" {
		t.Errorf("prompts = %+v", sel.Calls)
	}
	if got := f.read(t); got != appManifest {
		t.Errorf("cancelled run modified manifest:\n%s", got)
	}
}

func TestFeaturesManifestPathForwarded(t *testing.T) {
	f := newFixture(t)
	sel := prompt.NewScripted(prompt.Answer{Keep: true})

	if err := f.run(t, sel, "features", "-p", "app", "--manifest-path", f.manifest); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(f.calls) != 1 {
		t.Fatalf("cargo calls = %v", f.calls)
	}
	if !slices.Contains(f.calls[0], "--manifest-path") || !slices.Contains(f.calls[0], f.manifest) {
		t.Errorf("cargo args = %v, want --manifest-path %s", f.calls[0], f.manifest)
	}
}

func TestFlagValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code cferrors.Code
	}{
		{"manifest path not Cargo.toml", []string{"features", "--manifest-path", "/tmp/other.toml"}, cferrors.ErrCodeInvalidPath},
		{"control character in package", []string{"features", "-p", "a\x01b"}, cferrors.ErrCodeInvalidInput},
		{"list with bad dependency", []string{"features", "list", "-d", strings.Repeat("x", 300)}, cferrors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			err := f.run(t, prompt.NewScripted(), tt.args...)
			if !cferrors.Is(err, tt.code) {
				t.Errorf("run error = %v, want %s", err, tt.code)
			}
			if len(f.calls) != 0 {
				t.Errorf("cargo should not run on invalid flags, got %v", f.calls)
			}
		})
	}
}

func TestMetadataFailure(t *testing.T) {
	c := &CLI{
		Logger:   newLogger(io.Discard, LogInfo),
		Selector: prompt.NewScripted(),
		Runner: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return nil, errors.New("could not find Cargo.toml")
		},
		Out: io.Discard,
		Err: io.Discard,
	}
	root := c.RootCommand()
	root.SetArgs([]string{"features", "list"})

	err := root.ExecuteContext(context.Background())
	if !cferrors.Is(err, cferrors.ErrCodeMetadataQuery) {
		t.Errorf("run error = %v, want %s", err, cferrors.ErrCodeMetadataQuery)
	}
}

type sourceFunc func(ctx context.Context) (*metadata.Workspace, error)

func (f sourceFunc) Load(ctx context.Context) (*metadata.Workspace, error) { return f(ctx) }

func TestSpinnerSourceFailure(t *testing.T) {
	tests := []struct {
		name      string
		interrupt bool
		wantShown bool
	}{
		{"metadata failure", false, true},
		{"interrupted", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if tt.interrupt {
				cancel()
			}
			var buf bytes.Buffer
			src := &spinnerSource{
				Source: sourceFunc(func(ctx context.Context) (*metadata.Workspace, error) {
					if err := ctx.Err(); err != nil {
						return nil, err
					}
					return nil, errors.New("cargo exited with status 101")
				}),
				w:       &buf,
				animate: true,
			}

			if _, err := src.Load(ctx); err == nil {
				t.Fatal("Load() error = nil")
			}
			if got := strings.Contains(buf.String(), "Could not read cargo metadata"); got != tt.wantShown {
				t.Errorf("failure shown = %v, want %v (output %q)", got, tt.wantShown, buf.String())
			}
		})
	}
}

func TestList(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "enabled only",
			args: []string{"features", "list"},
			want: "app:\n  serde:\n    default = [std]\ncore:\n  serde:\n    std = []\n",
		},
		{
			name: "all",
			args: []string{"features", "list", "-p", "core", "--all"},
			want: "core:\n  serde:\n    [ ] default = [std]\n    [x] std = []\n    [ ] unstable = []\n",
		},
		{
			name: "all with default",
			args: []string{"features", "list", "-p", "app", "-a"},
			want: "app:\n  serde:\n    [x] default = [std]\n    [ ] alloc = []\n    [ ] derive = [serde_derive]\n    [ ] std = []\n",
		},
		{
			name: "dependency filter",
			args: []string{"features", "list", "-d", "tokio"},
			want: "app:\ncore:\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if err := f.run(t, prompt.NewScripted(), tt.args...); err != nil {
				t.Fatalf("run: %v", err)
			}
			if got := f.out.String(); got != tt.want {
				t.Errorf("output =\n%s\nwant\n%s", got, tt.want)
			}
			if got := f.read(t); got != appManifest {
				t.Error("list must not modify manifests")
			}
		})
	}
}

func TestVersion(t *testing.T) {
	f := newFixture(t)
	if err := f.run(t, prompt.NewScripted(), "--version"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(f.out.String(), buildinfo.Version) {
		t.Errorf("version output %q missing %q", f.out.String(), buildinfo.Version)
	}
}

func TestCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			f := newFixture(t)
			if err := f.run(t, prompt.NewScripted(), "completion", shell); err != nil {
				t.Fatalf("run: %v", err)
			}
			if f.out.Len() == 0 {
				t.Error("completion produced no output")
			}
		})
	}

	t.Run("completes the binary, not cargo", func(t *testing.T) {
		f := newFixture(t)
		if err := f.run(t, prompt.NewScripted(), "completion", "bash"); err != nil {
			t.Fatalf("run: %v", err)
		}
		out := f.out.String()
		if !strings.Contains(out, "__start_cargo-features cargo-features") {
			t.Errorf("bash completion does not register cargo-features:\n%s", out)
		}
		if strings.Contains(out, "__start_cargo cargo") {
			t.Error("bash completion registers the cargo command")
		}
	})

	f := newFixture(t)
	if err := f.run(t, prompt.NewScripted(), "completion", "tcsh"); err == nil {
		t.Error("unknown shell should fail")
	}
}
