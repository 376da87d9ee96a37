package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cargofeat/cargo-features/pkg/prompt"
)

type recordingHooks struct {
	events []string
}

func (r *recordingHooks) OnStageStart(_ context.Context, s Stage) {
	r.events = append(r.events, "start:"+string(s))
}

func (r *recordingHooks) OnStageComplete(_ context.Context, s Stage, _ time.Duration, _ error) {
	r.events = append(r.events, "done:"+string(s))
}

func TestRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Fatal("Pipeline() should return NoopPipelineHooks by default")
	}

	custom := &recordingHooks{}
	SetPipelineHooks(custom)
	if Pipeline() != custom {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	SetPipelineHooks(nil)
	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should keep current hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset should restore no-op hooks")
	}
}

func TestLogHooks(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"success", nil, "stage complete"},
		{"cancelled", prompt.ErrCancelled, "stage cancelled"},
		{"failed", errors.New("boom"), "stage failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))

			h.OnStageStart(context.Background(), StageFeatures)
			h.OnStageComplete(context.Background(), StageFeatures, 1500*time.Microsecond, tt.err)

			out := buf.String()
			for _, want := range []string{"stage started", tt.want, "stage=features"} {
				if !strings.Contains(out, want) {
					t.Errorf("output %q missing %q", out, want)
				}
			}
		})
	}
}
