package state

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trustgraph/pkg/api"
	"github.com/matzehuels/trustgraph/pkg/trustgraph"
)

type graphFunc func(ctx context.Context) (*trustgraph.GraphData, error)

func (f graphFunc) Graph(ctx context.Context) (*trustgraph.GraphData, error) { return f(ctx) }

type profileFunc func(ctx context.Context, id string) (*trustgraph.ProfileDetail, error)

func (f profileFunc) Profile(ctx context.Context, id string) (*trustgraph.ProfileDetail, error) {
	return f(ctx, id)
}

func quietLogger() Option { return WithLogger(log.New(io.Discard)) }

// newAPIClient serves handler over HTTP and returns a real client for it.
func newAPIClient(t *testing.T, handler http.HandlerFunc) *api.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return api.NewClient(server.URL, api.WithHTTPClient(server.Client()), api.WithLogger(log.New(io.Discard)))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func waitClosed(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for channel")
	}
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}
