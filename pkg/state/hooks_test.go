package state

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/trustgraph/pkg/observability"
	"github.com/matzehuels/trustgraph/pkg/trustgraph"
)

// readingHooks reads the store from inside the hooks and records the
// contexts each hook was called with.
type readingHooks struct {
	read func() ProfileState

	mu          sync.Mutex
	started     []ProfileState
	startCtx    context.Context
	completeCtx context.Context
}

func (h *readingHooks) OnFetchStart(ctx context.Context, _ string, _ uint64) {
	st := h.read()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started = append(h.started, st)
	h.startCtx = ctx
}

func (h *readingHooks) OnFetchComplete(ctx context.Context, _ string, _ uint64, _ bool, _ time.Duration, _ error) {
	h.read()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.completeCtx = ctx
}

func TestStoreHooksMayReadState(t *testing.T) {
	t.Cleanup(observability.Reset)

	p := NewProfile(context.Background(), profileFunc(func(ctx context.Context, id string) (*trustgraph.ProfileDetail, error) {
		return &trustgraph.ProfileDetail{GraphNode: trustgraph.GraphNode{ID: id}}, nil
	}), quietLogger())
	defer p.Close()

	hooks := &readingHooks{read: p.State}
	observability.SetStoreHooks(hooks)

	done := make(chan ProfileState, 1)
	go func() { done <- p.FetchProfile(context.Background(), "a") }()

	var st ProfileState
	select {
	case st = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("FetchProfile did not return with a hook reading the store")
	}
	if st.Profile == nil || st.Profile.ID != "a" {
		t.Fatalf("FetchProfile() = %+v, want profile a", st)
	}

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if len(hooks.started) != 1 || !hooks.started[0].Loading {
		t.Errorf("OnFetchStart saw %+v, want one loading snapshot", hooks.started)
	}
	if hooks.startCtx == nil || hooks.startCtx != hooks.completeCtx {
		t.Error("OnFetchStart and OnFetchComplete should receive the same request context")
	}
}
