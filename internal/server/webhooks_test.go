package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"fieldday/internal/config"
	"fieldday/internal/engine"
)

type capturedHook struct {
	header http.Header
	body   webhookEvent
}

func TestWebhookDeliversMatchingEvents(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()

	var (
		mu       sync.Mutex
		received []capturedHook
	)
	hookSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		var evt webhookEvent
		if err := json.Unmarshal(data, &evt); err != nil {
			t.Errorf("decode webhook body: %v", err)
		}
		mu.Lock()
		received = append(received, capturedHook{header: r.Header.Clone(), body: evt})
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer hookSrv.Close()

	e := srv.Engine
	cfg := *e.Config
	cfg.Webhooks = []config.WebhookConfig{{URL: hookSrv.URL, Events: []string{"player.created"}, Secret: "s3cret"}}
	e.Config = &cfg

	d := newWebhookDispatcher(e, nil)
	if d == nil {
		t.Fatalf("expected dispatcher for configured webhook")
	}
	ctx := context.Background()
	// first pass pins the cursor past team.init
	d.dispatchAll(ctx)

	if _, err := e.CreatePlayer(ctx, engine.PlayerOptions{TeamID: testTeam, Name: "Ava", ActorID: "coach-1"}); err != nil {
		t.Fatalf("create player: %v", err)
	}
	if _, err := e.CreateGame(ctx, engine.GameOptions{TeamID: testTeam, ActorID: "coach-1"}); err != nil {
		t.Fatalf("create game: %v", err)
	}
	d.dispatchAll(ctx)
	d.dispatchAll(ctx)

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 {
		t.Fatalf("expected exactly one delivery, got %d", len(received))
	}
	got := received[0]
	if got.body.Type != "player.created" || got.body.TeamID != testTeam {
		t.Fatalf("unexpected event %+v", got.body)
	}
	if got.header.Get("X-Fieldday-Event") != "player.created" || got.header.Get("X-Fieldday-Secret") != "s3cret" {
		t.Fatalf("unexpected headers %v", got.header)
	}
}

func TestWebhookDispatcherDisabledWithoutHooks(t *testing.T) {
	if d := newWebhookDispatcher(engine.Engine{Config: config.Default("tigers")}, nil); d != nil {
		t.Fatalf("expected no dispatcher without webhooks")
	}
}

func TestEventFilter(t *testing.T) {
	all := newEventFilter(nil)
	if !all.match("anything") {
		t.Fatalf("empty filter should match everything")
	}
	only := newEventFilter([]string{" lineup.generated "})
	if !only.match("lineup.generated") || only.match("player.created") {
		t.Fatalf("filter mismatch")
	}
}
