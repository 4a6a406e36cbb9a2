// Package state holds view state derived from the TrustGraph backend.
//
// # Overview
//
// A store bridges asynchronous API calls to a snapshot a view can render.
// There are two:
//
//   - [Graph]: the whole graph. Fetching starts as soon as the store is
//     created; [Graph.Refetch] starts over.
//   - [Profile]: one profile's detail. Nothing is fetched until
//     [Profile.FetchProfile] is called; [Profile.Clear] empties it.
//
// Both expose the same shape: the data (nil when absent), a loading flag, and
// a display-ready error message ("" when absent). Errors never escape a store;
// the view observes them as data.
//
// # Ordering
//
// Only the most recently issued request may update a store. Each request is
// tagged with a sequence number, and a result whose number is no longer the
// latest is discarded. Issuing a request also cancels the context of the one
// it supersedes.
//
//	p := state.NewProfile(ctx, client)
//	go p.FetchProfile(ctx, "a")
//	p.FetchProfile(ctx, "b") // final profile is "b", whatever order they resolve in
//
// # Lifetime
//
// A store lives as long as the context it was created with. Once that context
// ends, or [Graph.Close] / [Profile.Close] is called, in-flight requests are
// cancelled and no further updates or notifications happen.
//
// # Observing Changes
//
// State returns a snapshot. Changed returns a channel that is closed on the
// next state change, so any number of observers can wait without blocking the
// store:
//
//	for {
//	    select {
//	    case <-g.Changed():
//	        render(g.State())
//	    case <-ctx.Done():
//	        return
//	    }
//	}
package state
