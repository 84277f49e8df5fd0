package logging_test

import (
	"context"
	"testing"
	"time"

	"ringside/server/logging"
	"ringside/server/logging/sinks"
)

func newMemoryRouter(t *testing.T, cfg logging.Config) (*logging.Router, *sinks.MemorySink) {
	t.Helper()
	memory := sinks.NewMemorySink()
	router, err := logging.NewRouter(nil, cfg, []logging.NamedSink{{Name: "memory", Sink: memory}})
	if err != nil {
		t.Fatalf("router construction failed: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		router.Close(ctx)
	})
	return router, memory
}

func waitForEvents(t *testing.T, memory *sinks.MemorySink, want int) []logging.Event {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		events := memory.Events()
		if len(events) >= want {
			return events
		}
		if time.Now().After(deadline) {
			t.Fatalf("have %d events, want %d", len(events), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRouterDeliversToSink(t *testing.T) {
	t.Parallel()

	router, memory := newMemoryRouter(t, logging.DefaultConfig())
	router.Publish(context.Background(), logging.Event{
		Type:     "match.started",
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
		MatchID:  "m1",
	})

	events := waitForEvents(t, memory, 1)
	got := events[0]
	if got.Type != "match.started" || got.MatchID != "m1" {
		t.Fatalf("event = %+v", got)
	}
	if got.Time.IsZero() {
		t.Fatalf("router did not stamp the event time")
	}
}

func TestRouterFiltersBelowMinimumSeverity(t *testing.T) {
	t.Parallel()

	cfg := logging.DefaultConfig()
	cfg.MinimumSeverity = logging.SeverityWarn
	router, memory := newMemoryRouter(t, cfg)

	router.Publish(context.Background(), logging.Event{Type: "quiet", Severity: logging.SeverityInfo})
	router.Publish(context.Background(), logging.Event{Type: "loud", Severity: logging.SeverityError})

	events := waitForEvents(t, memory, 1)
	for _, e := range events {
		if e.Type == "quiet" {
			t.Fatalf("info event leaked past the warn floor")
		}
	}
	if events[0].Type != "loud" {
		t.Fatalf("event = %+v", events[0])
	}
}

func TestRouterAttachesConfiguredFields(t *testing.T) {
	t.Parallel()

	cfg := logging.DefaultConfig()
	cfg.Fields = map[string]any{"region": "eu"}
	router, memory := newMemoryRouter(t, cfg)

	router.Publish(context.Background(), logging.Event{Type: "tagged", Severity: logging.SeverityInfo})

	events := waitForEvents(t, memory, 1)
	if events[0].Extra["region"] != "eu" {
		t.Fatalf("extra = %+v", events[0].Extra)
	}
}

func TestRouterIgnoresUntypedEvents(t *testing.T) {
	t.Parallel()

	router, memory := newMemoryRouter(t, logging.DefaultConfig())
	router.Publish(context.Background(), logging.Event{Severity: logging.SeverityError})
	router.Publish(context.Background(), logging.Event{Type: "real", Severity: logging.SeverityInfo})

	events := waitForEvents(t, memory, 1)
	if len(events) != 1 || events[0].Type != "real" {
		t.Fatalf("events = %+v", events)
	}
}

func TestWithFieldsDoesNotOverrideExisting(t *testing.T) {
	t.Parallel()

	var captured logging.Event
	pub := logging.WithFields(logging.PublisherFunc(func(_ context.Context, e logging.Event) {
		captured = e
	}), map[string]any{"source": "wrapper"})

	pub.Publish(context.Background(), logging.Event{
		Type:  "x",
		Extra: map[string]any{"source": "original"},
	})

	if captured.Extra["source"] != "original" {
		t.Fatalf("extra = %+v", captured.Extra)
	}
}
