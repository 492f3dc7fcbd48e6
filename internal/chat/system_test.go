package chat_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sucre-siip/sucre/internal/artifacts"
	"github.com/sucre-siip/sucre/internal/chat"
	"github.com/sucre-siip/sucre/internal/engine"
	"github.com/sucre-siip/sucre/internal/llm"
	"github.com/sucre-siip/sucre/internal/registry"
	"github.com/sucre-siip/sucre/internal/report"
	"github.com/sucre-siip/sucre/internal/sessions"
	"github.com/sucre-siip/sucre/pkg/lifecycle"
	"github.com/sucre-siip/sucre/pkg/pagination"
)

type fakeRegistry struct {
	snapshot *registry.Snapshot
}

func (f *fakeRegistry) Handler() *registry.Handler { return nil }

func (f *fakeRegistry) Snapshot() (*registry.Snapshot, error) {
	if f.snapshot == nil {
		return nil, registry.ErrNotLoaded
	}
	return f.snapshot, nil
}

func (f *fakeRegistry) Refresh(context.Context) error { return nil }

func (f *fakeRegistry) List(context.Context, pagination.PageRequest) (*pagination.PageResult[registry.PersonSummary], error) {
	return nil, errors.New("not backed by a database")
}

func (f *fakeRegistry) Find(context.Context, string) (registry.Row, error) {
	return registry.Row{}, registry.ErrNotFound
}

func (f *fakeRegistry) Start(*lifecycle.Coordinator) error { return nil }

type fakeLLM struct{ reply string }

func (f *fakeLLM) ExtractReportSpec(context.Context, string) (*llm.ReportSpec, error) {
	return &llm.ReportSpec{Filters: map[string]any{}}, nil
}

func (f *fakeLLM) GenerateReply(context.Context, string) (string, error) {
	return f.reply, nil
}

type fakeArtifacts struct{}

func (fakeArtifacts) SaveReport(context.Context, *report.Report) (artifacts.Artifact, error) {
	return artifacts.Artifact{Key: "reportes/test.csv", Link: "/api/artifacts/reportes/test.csv"}, nil
}

func (fakeArtifacts) AvailablePhotos(context.Context, string) []string { return nil }

func (fakeArtifacts) FichaLink(context.Context, string) (string, bool) { return "", false }

func (fakeArtifacts) Open(context.Context, string) (io.ReadCloser, string, error) {
	return nil, "", errors.New("not stored")
}

func testSnapshot() *registry.Snapshot {
	columns := []string{registry.ColName, registry.ColCedula, registry.ColStatus}
	rows := []registry.Row{
		registry.NewRow(map[string]string{
			registry.ColName:   "JUAN PEREZ",
			registry.ColCedula: "V-1000001",
			registry.ColStatus: "ACTIVO",
		}),
	}
	return registry.NewSnapshot(columns, rows, time.Now())
}

func newSystem(reg registry.System) chat.System {
	logger := slog.New(slog.DiscardHandler)
	service := &fakeLLM{reply: "respuesta del modelo"}
	eng := engine.New(service, report.NewCompiler(service, logger), fakeArtifacts{}, logger)
	return chat.New(reg, sessions.NewMemoryStore(), eng, 40, logger)
}

func TestMessage(t *testing.T) {
	t.Run("turn replies and persists history", func(t *testing.T) {
		sys := newSystem(&fakeRegistry{snapshot: testSnapshot()})

		reply, err := sys.Message(context.Background(), "s1", "hola")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(reply, "Sucre") {
			t.Errorf("expected greeting, got %q", reply)
		}

		// Second greeting proves the session state survived the turn.
		reply, err = sys.Message(context.Background(), "s1", "hola")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(reply, "de nuevo") {
			t.Errorf("expected repeat greeting, got %q", reply)
		}
	})

	t.Run("sessions are isolated", func(t *testing.T) {
		sys := newSystem(&fakeRegistry{snapshot: testSnapshot()})

		if _, err := sys.Message(context.Background(), "a", "hola"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		reply, err := sys.Message(context.Background(), "b", "hola")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(reply, "de nuevo") {
			t.Errorf("session b saw session a's state: %q", reply)
		}
	})

	t.Run("unloaded registry surfaces the typed error", func(t *testing.T) {
		sys := newSystem(&fakeRegistry{})

		_, err := sys.Message(context.Background(), "s1", "hola")
		if !errors.Is(err, registry.ErrNotLoaded) {
			t.Errorf("expected ErrNotLoaded, got %v", err)
		}
	})

	t.Run("concurrent turns on one session serialize", func(t *testing.T) {
		sys := newSystem(&fakeRegistry{snapshot: testSnapshot()})

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := sys.Message(context.Background(), "s1", "hola"); err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()
	})

	t.Run("reset clears the session", func(t *testing.T) {
		sys := newSystem(&fakeRegistry{snapshot: testSnapshot()})

		if _, err := sys.Message(context.Background(), "s1", "hola"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := sys.Reset(context.Background(), "s1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		reply, err := sys.Message(context.Background(), "s1", "hola")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(reply, "de nuevo") {
			t.Errorf("expected fresh session after reset, got %q", reply)
		}
	})
}
