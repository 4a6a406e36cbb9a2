package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/trustgraph/pkg/render/nodelink"
	"github.com/matzehuels/trustgraph/pkg/state"
	"github.com/matzehuels/trustgraph/pkg/trustgraph"
)

const (
	formatTable = "table" // lipgloss tables of nodes and edges
	formatJSON  = "json"  // the GraphData as returned by the backend
	formatDOT   = "dot"   // Graphviz source
	formatSVG   = "svg"   // rendered node-link diagram
	formatPNG   = "png"   // rendered node-link diagram, raster
)

// validGraphFormats is the set of supported output formats.
var validGraphFormats = map[string]bool{formatTable: true, formatJSON: true, formatDOT: true, formatSVG: true, formatPNG: true}

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	format      string // output format
	output      string // output file; stdout when empty
	detailed    bool   // include skills in DOT/SVG node labels
	details     bool   // fetch every profile and add trust columns
	concurrency int    // parallel profile fetches for details
}

func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{format: formatTable, concurrency: defaultDetailConcurrency}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Fetch and print the professional network",
		Long: `Fetch the network graph and print it as a table, JSON, Graphviz DOT, SVG or PNG.

Edges that reference unknown profiles and duplicated profile ids are reported
as warnings; the graph is printed as returned.`,
		Example: `  trustgraph graph
  trustgraph graph --details
  trustgraph graph --format svg -o network.svg
  trustgraph graph --format png -o network.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !validGraphFormats[opts.format] {
				return fmt.Errorf("invalid format: %s (must be 'table', 'json', 'dot', 'svg', or 'png')", opts.format)
			}
			if opts.concurrency < 1 {
				return fmt.Errorf("--concurrency must be at least 1, got %d", opts.concurrency)
			}
			return c.runGraph(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: table, json, dot, svg, png")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write output to file instead of stdout")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include skills in diagram labels (dot, svg, png)")
	cmd.Flags().BoolVar(&opts.details, "details", false, "fetch every profile and show trust scores (table, json)")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", opts.concurrency, "parallel profile fetches for --details")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, stdout, stderr io.Writer, opts graphOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	client := c.newClient()
	store := state.NewGraph(ctx, client, c.storeOptions()...)
	defer store.Close()

	var st state.GraphState
	err := spin(ctx, stderr, "Fetching graph", func() (err error) {
		st, err = store.Wait(ctx)
		return err
	})
	if err != nil {
		return err
	}
	if st.HasError() {
		return failed("fetch graph", errors.New(st.Err))
	}
	prog.done("Fetched graph")

	data := st.Data
	if len(data.Nodes) == 0 {
		printInfo(stderr, "The network has no profiles yet")
	}
	reportDefects(stderr, data)

	var profiles []*trustgraph.ProfileDetail
	if opts.details {
		prog = newProgress(logger)
		err := spin(ctx, stderr, "Fetching profiles", func() (err error) {
			profiles, err = fetchProfiles(ctx, client, data.Nodes, opts.concurrency)
			return err
		})
		if err != nil {
			return err
		}
		prog.done(fmt.Sprintf("Fetched %d profiles", len(profiles)))
	}

	out, err := formatGraph(data, profiles, opts)
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err := stdout.Write(out)
		if err == nil && opts.format == formatTable {
			printStats(stdout, len(data.Nodes), len(data.Edges), c.requests.Requests())
		}
		return err
	}
	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		return err
	}
	printSuccess(stderr, "Wrote %s", opts.format)
	printFile(stderr, opts.output)
	return nil
}

// reportDefects warns about edges with unknown endpoints and duplicate ids.
func reportDefects(w io.Writer, g *trustgraph.GraphData) {
	for _, e := range g.DanglingEdges() {
		printWarning(w, "edge %s -> %s references an unknown profile", e.Source, e.Target)
	}
	for _, id := range g.DuplicateNodeIDs() {
		printWarning(w, "profile id %q appears more than once", id)
	}
}

// fetchProfiles fetches the detail of every node, at most limit at a time.
// The result is index-aligned with nodes.
func fetchProfiles(ctx context.Context, fetcher state.ProfileFetcher, nodes []trustgraph.GraphNode, limit int) ([]*trustgraph.ProfileDetail, error) {
	profiles := make([]*trustgraph.ProfileDetail, len(nodes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, n := range nodes {
		g.Go(func() error {
			p, err := fetcher.Profile(ctx, n.ID)
			if err != nil {
				return failed("fetch profile "+n.ID, err)
			}
			profiles[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return profiles, nil
}

func formatGraph(g *trustgraph.GraphData, profiles []*trustgraph.ProfileDetail, opts graphOpts) ([]byte, error) {
	switch opts.format {
	case formatJSON:
		var v any = g
		if profiles != nil {
			v = struct {
				*trustgraph.GraphData
				Profiles []*trustgraph.ProfileDetail `json:"profiles"`
			}{g, profiles}
		}
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case formatDOT:
		return []byte(nodelink.ToDOT(g, nodelink.Options{Detailed: opts.detailed})), nil
	case formatSVG:
		return nodelink.RenderSVG(nodelink.ToDOT(g, nodelink.Options{Detailed: opts.detailed}))
	case formatPNG:
		return nodelink.RenderPNG(nodelink.ToDOT(g, nodelink.Options{Detailed: opts.detailed}))
	default:
		return []byte(renderGraphTables(g, profiles)), nil
	}
}

// =============================================================================
// Tables
// =============================================================================

// headerRow is the row index lipgloss/table passes to StyleFunc for headers.
const headerRow = -1

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...)
}

// renderGraphTables renders the nodes and edges of g. When profiles is
// non-nil the node table gains trust score and connection columns.
func renderGraphTables(g *trustgraph.GraphData, profiles []*trustgraph.ProfileDetail) string {
	headers := []string{"", "ID", "Name", "Role", "Skills"}
	if profiles != nil {
		headers = append(headers, "Trust", "Connections")
	}

	rows := make([][]string, 0, len(g.Nodes))
	for i, n := range g.Nodes {
		row := []string{verifiedMark(n.Verified), n.ID, n.Label, n.Role, strings.Join(n.Skills, ", ")}
		if profiles != nil {
			p := profiles[i]
			row = append(row, trustStyle(p.TrustScore).Render(fmt.Sprintf("%.0f%%", p.TrustScore)), fmt.Sprint(p.Connections))
		}
		rows = append(rows, row)
	}

	nodes := newTable(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return tableHeaderStyle
			}
			if col == 1 || col == 4 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		})

	edgeRows := make([][]string, 0, len(g.Edges))
	for _, e := range g.Edges {
		edgeRows = append(edgeRows, []string{verifiedMark(e.Verified), endpoint(g, e.Source), endpoint(g, e.Target), e.Label()})
	}

	edges := newTable("", "From", "To", "Relationship").
		Rows(edgeRows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return tableHeaderStyle
			}
			if col == 3 {
				return StyleConnection
			}
			return lipgloss.NewStyle()
		})

	return nodes.Render() + "\n" + edges.Render() + "\n"
}

// endpoint names an edge endpoint by label, falling back to the raw id.
func endpoint(g *trustgraph.GraphData, id string) string {
	if n, ok := g.Node(id); ok {
		return n.Label
	}
	return id + "?"
}
