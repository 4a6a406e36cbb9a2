// Package trustgraph defines the data transfer types exchanged with the
// TrustGraph backend.
//
// # Overview
//
// The backend exposes a graph of professional profiles ([GraphNode]) joined by
// verified working relationships ([GraphEdge]). A single profile can be
// expanded into a [ProfileDetail], which carries the trust score and the list
// of attestations backing it.
//
// Every type here is a plain value: identity is field equality, nothing is
// cached, and nothing is written to durable storage. Values are created fresh
// on each successful fetch by [github.com/matzehuels/trustgraph/pkg/api.Client]
// and held only by the store that requested them.
//
// # Malformed Graphs
//
// The client trusts the server and performs no schema validation. A graph
// whose edges reference unknown node ids is still returned and rendered
// as-is. Use [GraphData.DanglingEdges] and [GraphData.DuplicateNodeIDs] to
// report such defects without altering the data:
//
//	if bad := g.DanglingEdges(); len(bad) > 0 {
//	    logger.Warn("graph has dangling edges", "count", len(bad))
//	}
//
// # Optional Fields
//
// [GraphEdge.Project] and [GraphEdge.Company] are pointers: nil means the
// backend omitted the field, which is distinct from an empty string. The
// display label for an edge prefers the project, then the company, then the
// relationship type; see [GraphEdge.Label].
package trustgraph
