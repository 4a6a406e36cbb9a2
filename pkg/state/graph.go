package state

import (
	"context"

	tgerrors "github.com/matzehuels/trustgraph/pkg/errors"
	"github.com/matzehuels/trustgraph/pkg/trustgraph"
)

// GraphFetcher loads the full graph. [api.Client] implements it.
//
// [api.Client]: github.com/matzehuels/trustgraph/pkg/api.Client
type GraphFetcher interface {
	Graph(ctx context.Context) (*trustgraph.GraphData, error)
}

// GraphState is a snapshot of a Graph store.
type GraphState struct {
	Data    *trustgraph.GraphData // Last successfully fetched graph, nil before the first success
	Loading bool                  // A fetch is outstanding
	Err     string                // Message of the last failure, "" when absent
}

// HasError reports whether the last fetch failed.
func (s GraphState) HasError() bool { return s.Err != "" }

// Graph tracks the graph fetched from the backend.
type Graph struct {
	s       *store[GraphState]
	fetcher GraphFetcher
}

// NewGraph creates a Graph store and immediately starts fetching.
// The store is disposed when ctx ends or Close is called.
func NewGraph(ctx context.Context, fetcher GraphFetcher, opts ...Option) *Graph {
	g := &Graph{
		s:       newStore(ctx, "graph", GraphState{Loading: true}, buildOptions(opts)),
		fetcher: fetcher,
	}
	// Begin synchronously so a Refetch issued right after construction
	// supersedes the initial request rather than racing it.
	if t, ok := g.s.begin(context.Background(), startGraphFetch); ok {
		go complete(g.s, t, g.fetcher.Graph, finishGraphFetch)
	}
	return g
}

// Refetch fetches the graph again and blocks until that request settles.
// The returned snapshot is taken after settling; if a newer request was
// issued in the meantime, it reflects that request instead.
func (g *Graph) Refetch(ctx context.Context) GraphState {
	run(ctx, g.s, startGraphFetch, g.fetcher.Graph, finishGraphFetch)
	return g.s.snapshot()
}

// State returns the current snapshot.
func (g *Graph) State() GraphState { return g.s.snapshot() }

// Changed returns a channel closed on the next state change.
func (g *Graph) Changed() <-chan struct{} { return g.s.changes() }

// Wait blocks until no fetch is outstanding and returns that snapshot.
// It returns ErrClosed if the store is disposed first.
func (g *Graph) Wait(ctx context.Context) (GraphState, error) {
	return g.s.wait(ctx, func(st GraphState) bool { return st.Loading })
}

// Close disposes the store: in-flight requests are cancelled and the state
// is frozen.
func (g *Graph) Close() { g.s.close() }

func startGraphFetch(st *GraphState) {
	st.Loading = true
	st.Err = ""
}

func finishGraphFetch(st *GraphState, data *trustgraph.GraphData, err error) {
	st.Loading = false
	if err != nil {
		st.Err = tgerrors.UserMessage(err)
		return
	}
	st.Data = data
	st.Err = ""
}
