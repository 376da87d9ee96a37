package metadata

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	cferrors "github.com/cargofeat/cargo-features/pkg/errors"
)

func loadFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "metadata.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

func TestDecode(t *testing.T) {
	ws, err := Decode(loadFixture(t))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	if ws.Root != "/ws" {
		t.Errorf("Root = %q, want /ws", ws.Root)
	}

	members := ws.Members()
	var names []string
	for _, m := range members {
		names = append(names, m.Name)
	}
	if diff := cmp.Diff([]string{"app", "core"}, names); diff != "" {
		t.Errorf("member names mismatch (-want +got):\n%s", diff)
	}

	app := members[0]
	if app.ManifestPath != "/ws/app/Cargo.toml" {
		t.Errorf("ManifestPath = %q", app.ManifestPath)
	}
	want := []Dependency{
		{Name: "serde", Req: "^1.0", UsesDefaultFeatures: true, Features: []string{"derive"}},
		{Name: "tokio", Rename: "rt", Req: "^1.38", Features: []string{"macros", "rt"}},
		{Name: "insta", Req: "^1", Kind: KindDev, UsesDefaultFeatures: true, Features: []string{}},
	}
	if diff := cmp.Diff(want, app.Dependencies); diff != "" {
		t.Errorf("dependencies mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "warning: something\n"},
		{"truncated", `{"packages": [`},
		{"no members", `{"packages": [], "workspace_members": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			if !cferrors.Is(err, cferrors.ErrCodeMetadataQuery) {
				t.Errorf("Decode() error = %v, want %s", err, cferrors.ErrCodeMetadataQuery)
			}
		})
	}
}

func TestWorkspaceTarget(t *testing.T) {
	ws, err := Decode(loadFixture(t))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	tests := []struct {
		name        string
		dep         Dependency
		wantVersion string
		wantOK      bool
	}{
		{"newest matching", Dependency{Name: "serde", Req: "^1.0"}, "1.0.197", true},
		{"older matching", Dependency{Name: "serde", Req: "^0.9"}, "0.9.15", true},
		{"no version matches", Dependency{Name: "serde", Req: "^2"}, "0.9.15", true},
		{"unparseable requirement", Dependency{Name: "serde", Req: "git"}, "0.9.15", true},
		{"missing package", Dependency{Name: "rand", Req: "^0.8"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := ws.Target(tt.dep)
			if ok != tt.wantOK {
				t.Fatalf("Target() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && p.Version != tt.wantVersion {
				t.Errorf("Target() version = %s, want %s", p.Version, tt.wantVersion)
			}
		})
	}
}

func TestCargoLoad(t *testing.T) {
	fixture := loadFixture(t)

	var gotName string
	var gotArgs []string
	src := NewCargo(Options{
		Cargo:        "/opt/cargo",
		ManifestPath: "/ws/Cargo.toml",
		Runner: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			gotName, gotArgs = name, args
			return fixture, nil
		},
	})

	ws, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(ws.Members()) != 2 {
		t.Errorf("Members() = %d, want 2", len(ws.Members()))
	}
	if gotName != "/opt/cargo" {
		t.Errorf("binary = %q, want /opt/cargo", gotName)
	}
	wantArgs := []string{"metadata", "--format-version", "1", "--manifest-path", "/ws/Cargo.toml"}
	if diff := cmp.Diff(wantArgs, gotArgs); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestCargoLoadFailure(t *testing.T) {
	src := NewCargo(Options{
		Runner: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return nil, errors.New("could not find Cargo.toml")
		},
	})

	_, err := src.Load(context.Background())
	if !cferrors.Is(err, cferrors.ErrCodeMetadataQuery) {
		t.Fatalf("Load() error = %v, want %s", err, cferrors.ErrCodeMetadataQuery)
	}
}

func TestCargoBinaryFromEnv(t *testing.T) {
	t.Setenv("CARGO", "/home/dev/.cargo/bin/cargo")
	if got := NewCargo(Options{}).bin; got != "/home/dev/.cargo/bin/cargo" {
		t.Errorf("bin = %q, want $CARGO", got)
	}

	t.Setenv("CARGO", "")
	if got := NewCargo(Options{}).bin; got != "cargo" {
		t.Errorf("bin = %q, want cargo", got)
	}
}
