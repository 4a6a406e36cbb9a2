package state

import (
	"context"

	tgerrors "github.com/matzehuels/trustgraph/pkg/errors"
	"github.com/matzehuels/trustgraph/pkg/trustgraph"
)

// ProfileFetcher loads one profile. [api.Client] implements it.
//
// [api.Client]: github.com/matzehuels/trustgraph/pkg/api.Client
type ProfileFetcher interface {
	Profile(ctx context.Context, profileID string) (*trustgraph.ProfileDetail, error)
}

// ProfileState is a snapshot of a Profile store.
type ProfileState struct {
	Profile *trustgraph.ProfileDetail // Selected profile, nil when absent
	Loading bool                      // A fetch is outstanding
	Err     string                    // Message of the last failure, "" when absent
}

// HasError reports whether the last fetch failed.
func (s ProfileState) HasError() bool { return s.Err != "" }

// Profile tracks the detail record of the selected profile.
type Profile struct {
	s       *store[ProfileState]
	fetcher ProfileFetcher
}

// NewProfile creates an empty Profile store. Nothing is fetched until
// FetchProfile is called.
func NewProfile(ctx context.Context, fetcher ProfileFetcher, opts ...Option) *Profile {
	return &Profile{
		s:       newStore(ctx, "profile", ProfileState{}, buildOptions(opts)),
		fetcher: fetcher,
	}
}

// FetchProfile loads profileID and blocks until the request settles.
// When calls overlap, the last one issued wins.
func (p *Profile) FetchProfile(ctx context.Context, profileID string) ProfileState {
	fetch := func(ctx context.Context) (*trustgraph.ProfileDetail, error) {
		return p.fetcher.Profile(ctx, profileID)
	}
	run(ctx, p.s, startProfileFetch, fetch, finishProfileFetch)
	return p.s.snapshot()
}

// Clear drops the profile and error. Loading is left as is, and a fetch
// still in flight will populate the store when it settles.
func (p *Profile) Clear() {
	p.s.mutate(func(st *ProfileState) {
		st.Profile = nil
		st.Err = ""
	})
}

// State returns the current snapshot.
func (p *Profile) State() ProfileState { return p.s.snapshot() }

// Changed returns a channel closed on the next state change.
func (p *Profile) Changed() <-chan struct{} { return p.s.changes() }

// Wait blocks until no fetch is outstanding and returns that snapshot.
func (p *Profile) Wait(ctx context.Context) (ProfileState, error) {
	return p.s.wait(ctx, func(st ProfileState) bool { return st.Loading })
}

// Close disposes the store.
func (p *Profile) Close() { p.s.close() }

func startProfileFetch(st *ProfileState) {
	st.Loading = true
	st.Err = ""
}

func finishProfileFetch(st *ProfileState, profile *trustgraph.ProfileDetail, err error) {
	st.Loading = false
	if err != nil {
		st.Err = tgerrors.UserMessage(err)
		return
	}
	st.Profile = profile
	st.Err = ""
}
