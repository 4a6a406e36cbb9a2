package state

import (
	"context"
	"io"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/matzehuels/trustgraph/pkg/trustgraph"
)

func profileOf(id string) *trustgraph.ProfileDetail {
	return &trustgraph.ProfileDetail{GraphNode: trustgraph.GraphNode{ID: id, Label: id}}
}

func TestProfile_InitialStateDoesNotFetch(t *testing.T) {
	var calls atomic.Int32
	p := NewProfile(context.Background(), profileFunc(func(ctx context.Context, id string) (*trustgraph.ProfileDetail, error) {
		calls.Add(1)
		return profileOf(id), nil
	}), quietLogger())
	defer p.Close()

	if st := p.State(); st != (ProfileState{}) {
		t.Errorf("initial state = %+v, want empty", st)
	}
	if calls.Load() != 0 {
		t.Error("NewProfile should not fetch")
	}
}

func TestProfile_FetchEmptyVerifications(t *testing.T) {
	client := newAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/profile/sarah" {
			t.Errorf("path = %q", r.URL.Path)
		}
		io.WriteString(w, `{"id":"sarah","label":"Sarah Johnson","role":"DevOps Engineer",
			"skills":["Kubernetes","Docker"],"verified":false,"domain":"sarah.cv",
			"connections":6,"trustScore":72,"verifications":[]}`)
	})

	p := NewProfile(context.Background(), client, quietLogger())
	defer p.Close()

	st := p.FetchProfile(context.Background(), "sarah")
	if st.Loading || st.HasError() {
		t.Fatalf("state = %+v", st)
	}
	if st.Profile == nil || st.Profile.ID != "sarah" || st.Profile.Verified {
		t.Fatalf("Profile = %+v", st.Profile)
	}
	if st.Profile.Verifications == nil {
		t.Error("Verifications should be an empty sequence, not absent")
	}
	if len(st.Profile.Verifications) != 0 {
		t.Errorf("Verifications = %+v, want empty", st.Profile.Verifications)
	}
}

func TestProfile_NotFound(t *testing.T) {
	client := newAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	p := NewProfile(context.Background(), client, quietLogger())
	defer p.Close()

	st := p.FetchProfile(context.Background(), "ghost")
	if st.Err != "HTTP 404: Not Found" {
		t.Errorf("Err = %q, want %q", st.Err, "HTTP 404: Not Found")
	}
	if st.Loading {
		t.Error("Loading should be false after failure")
	}
}

func TestProfile_LastCallWins(t *testing.T) {
	gateA := make(chan struct{})
	startedA := make(chan struct{})

	p := NewProfile(context.Background(), profileFunc(func(ctx context.Context, id string) (*trustgraph.ProfileDetail, error) {
		if id == "a" {
			close(startedA)
			<-gateA // resolves after "b" on purpose, ignoring cancellation
		}
		return profileOf(id), nil
	}), quietLogger())
	defer p.Close()

	doneA := make(chan ProfileState)
	go func() { doneA <- p.FetchProfile(context.Background(), "a") }()
	waitClosed(t, startedA)

	stB := p.FetchProfile(context.Background(), "b")
	if stB.Profile == nil || stB.Profile.ID != "b" {
		t.Fatalf("after b: Profile = %+v", stB.Profile)
	}

	close(gateA)
	<-doneA

	st := p.State()
	if st.Profile == nil || st.Profile.ID != "b" {
		t.Errorf("final Profile = %+v, want b", st.Profile)
	}
	if st.Loading {
		t.Error("Loading should be false once the latest request settled")
	}
}

func TestProfile_ClearPreservesLoading(t *testing.T) {
	gate := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32

	p := NewProfile(context.Background(), profileFunc(func(ctx context.Context, id string) (*trustgraph.ProfileDetail, error) {
		if calls.Add(1) == 1 {
			return profileOf(id), nil
		}
		close(started)
		<-gate
		return profileOf(id), nil
	}), quietLogger())
	defer p.Close()

	p.FetchProfile(context.Background(), "lena")

	done := make(chan ProfileState)
	go func() { done <- p.FetchProfile(context.Background(), "john") }()
	waitClosed(t, started)

	p.Clear()
	st := p.State()
	if st.Profile != nil || st.HasError() {
		t.Errorf("after Clear: %+v, want no profile and no error", st)
	}
	if !st.Loading {
		t.Error("Clear must not alter Loading")
	}

	close(gate)
	final := <-done
	if final.Profile == nil || final.Profile.ID != "john" {
		t.Errorf("in-flight fetch should land after Clear, got %+v", final.Profile)
	}
}

func TestProfile_ClearAfterError(t *testing.T) {
	client := newAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	p := NewProfile(context.Background(), client, quietLogger())
	defer p.Close()

	if st := p.FetchProfile(context.Background(), "lena"); !st.HasError() {
		t.Fatalf("expected error, got %+v", st)
	}

	ch := p.Changed()
	p.Clear()
	waitClosed(t, ch)

	if st := p.State(); st != (ProfileState{}) {
		t.Errorf("after Clear: %+v, want empty", st)
	}
}

func TestProfile_CallerCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := NewProfile(context.Background(), profileFunc(func(reqCtx context.Context, id string) (*trustgraph.ProfileDetail, error) {
		cancel()
		<-reqCtx.Done()
		return nil, reqCtx.Err()
	}), quietLogger())
	defer p.Close()

	st := p.FetchProfile(ctx, "lena")
	if st.Loading {
		t.Error("Loading should be false once the cancelled request settled")
	}
	if st.Err != "context canceled" {
		t.Errorf("Err = %q, want %q", st.Err, "context canceled")
	}
}

func TestProfile_CloseFreezesState(t *testing.T) {
	p := NewProfile(context.Background(), profileFunc(func(ctx context.Context, id string) (*trustgraph.ProfileDetail, error) {
		return profileOf(id), nil
	}), quietLogger())

	p.FetchProfile(context.Background(), "lena")
	p.Close()

	if st := p.FetchProfile(context.Background(), "john"); st.Profile == nil || st.Profile.ID != "lena" {
		t.Errorf("fetch after Close changed state: %+v", st.Profile)
	}
	p.Clear()
	if st := p.State(); st.Profile == nil {
		t.Error("Clear after Close should be ignored")
	}
	if _, err := p.Wait(waitCtx(t)); err != nil {
		t.Errorf("Wait() on settled closed store = %v, want nil", err)
	}
}
