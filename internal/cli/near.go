package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bloomlab/bloom/pkg/errors"
	"github.com/bloomlab/bloom/pkg/graph"
	"github.com/bloomlab/bloom/pkg/spatial"
	"github.com/bloomlab/bloom/pkg/wire"
)

// nearOpts holds the command-line flags for the near command.
type nearOpts struct {
	positions string
	x, y      float32
	radius    float32
	capacity  int
	exact     bool
}

// position mirrors one entry of a positions JSON file.
type position struct {
	ID uint32  `json:"id"`
	X  float32 `json:"x"`
	Y  float32 `json:"y"`
}

// nearCommand creates the near command: a quadtree radius query over node
// positions supplied as a JSON file.
func (c *CLI) nearCommand() *cobra.Command {
	var opts nearOpts

	cmd := &cobra.Command{
		Use:   "near <file> --positions <pos.json> --x <x> --y <y> --radius <r>",
		Short: "Find nodes near a point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runNear(args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.positions, "positions", "", "JSON file of [{id,x,y}] node positions")
	cmd.Flags().Float32Var(&opts.x, "x", 0, "query x coordinate")
	cmd.Flags().Float32Var(&opts.y, "y", 0, "query y coordinate")
	cmd.Flags().Float32Var(&opts.radius, "radius", 0, "query radius")
	cmd.Flags().IntVar(&opts.capacity, "capacity", spatial.DefaultCapacity, "quadtree node capacity")
	cmd.Flags().BoolVar(&opts.exact, "exact", false, "post-filter candidates by true distance")
	_ = cmd.MarkFlagRequired("positions")
	_ = cmd.MarkFlagRequired("radius")

	return cmd
}

func (c *CLI) runNear(path string, opts nearOpts) error {
	if err := errors.ValidateRadius(float64(opts.radius)); err != nil {
		return err
	}
	if err := errors.ValidateCapacity(opts.capacity); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	g, err := wire.Decode(data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	posData, err := os.ReadFile(opts.positions)
	if err != nil {
		return err
	}
	var positions []position
	if err := json.Unmarshal(posData, &positions); err != nil {
		return fmt.Errorf("decode %s: %w", opts.positions, err)
	}

	nodes := g.Nodes()
	for _, p := range positions {
		i, ok := g.IndexOf(p.ID)
		if !ok {
			return fmt.Errorf("unknown node id %d in %s", p.ID, opts.positions)
		}
		nodes[i].X = p.X
		nodes[i].Y = p.Y
	}

	qt := buildIndex(g, opts.capacity)
	if qt == nil {
		return fmt.Errorf("graph has no nodes to index")
	}

	indices := qt.QueryPoint(opts.x, opts.y, opts.radius)
	if opts.exact {
		indices = filterExact(g, indices, opts.x, opts.y, opts.radius)
	}

	printKeyValue("matches", fmt.Sprintf("%d", len(indices)))
	for _, idx := range indices {
		n := nodes[idx]
		label := n.Label
		if label == "" {
			label = fmt.Sprintf("#%d", n.ID)
		}
		printDetail("%s (%.1f, %.1f)", label, n.X, n.Y)
	}
	return nil
}

// buildIndex builds a quadtree over the graph's node positions with bounds
// tight around them.
func buildIndex(g *graph.Graph, capacity int) *spatial.Quadtree {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return nil
	}

	bounds := spatial.AABB{
		MinX: nodes[0].X, MinY: nodes[0].Y,
		MaxX: nodes[0].X, MaxY: nodes[0].Y,
	}
	for _, n := range nodes[1:] {
		if n.X < bounds.MinX {
			bounds.MinX = n.X
		}
		if n.Y < bounds.MinY {
			bounds.MinY = n.Y
		}
		if n.X > bounds.MaxX {
			bounds.MaxX = n.X
		}
		if n.Y > bounds.MaxY {
			bounds.MaxY = n.Y
		}
	}

	qt := spatial.New(bounds, capacity)
	for i, n := range nodes {
		qt.Insert(i, n.X, n.Y)
	}
	return qt
}

// filterExact drops candidates outside the true query circle.
func filterExact(g *graph.Graph, indices []int, x, y, radius float32) []int {
	nodes := g.Nodes()
	out := indices[:0]
	r2 := float64(radius) * float64(radius)
	for _, i := range indices {
		dx := float64(nodes[i].X - x)
		dy := float64(nodes[i].Y - y)
		if dx*dx+dy*dy <= r2 {
			out = append(out, i)
		}
	}
	return out
}
