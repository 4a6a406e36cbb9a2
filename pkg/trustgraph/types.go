package trustgraph

// GraphNode is a single profile in the network graph.
type GraphNode struct {
	ID       string   `json:"id"`       // Unique within a graph
	Label    string   `json:"label"`    // Display name
	Role     string   `json:"role"`     // Job title
	Skills   []string `json:"skills"`   // Ordered skill list
	Verified bool     `json:"verified"` // Whether the profile passed verification
}

// GraphEdge is a relationship between two profiles.
// Source and Target should reference node ids of the same graph; this is not
// enforced.
type GraphEdge struct {
	Source       string  `json:"source"`            // Node id of one side
	Target       string  `json:"target"`            // Node id of the other side
	Relationship string  `json:"relationship"`      // e.g. "worked_together", "mentored"
	Project      *string `json:"project,omitempty"` // Shared project, nil when absent
	Company      *string `json:"company,omitempty"` // Shared employer, nil when absent
	Verified     bool    `json:"verified"`          // Whether the relationship is attested
}

// GraphData is the full graph as returned by the backend.
type GraphData struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// Verification is one attestation attached to a profile.
type Verification struct {
	Type   string `json:"type"`   // e.g. "GitHub", "Work", "Certification"
	Source string `json:"source"` // What was checked (repository, employer, ...)
	Date   string `json:"date"`   // Backend-formatted date, e.g. "2025-12"
}

// ProfileDetail is a GraphNode extended with trust information.
type ProfileDetail struct {
	GraphNode
	Domain        string         `json:"domain"`
	Connections   int            `json:"connections"`
	TrustScore    float64        `json:"trustScore"` // 0-100, computed server-side
	Verifications []Verification `json:"verifications"`
}

// Node returns the graph node embedded in the profile.
func (p *ProfileDetail) Node() GraphNode { return p.GraphNode }

// VerificationResult is the opaque outcome of an external contribution check.
type VerificationResult struct {
	Verified      bool     `json:"verified"`
	Contributions int      `json:"contributions"`
	Repositories  []string `json:"repositories"`
	Message       string   `json:"message"`
}

// Health is the backend liveness response.
type Health struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}
