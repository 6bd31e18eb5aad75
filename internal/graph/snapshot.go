// Package graph lays out a commit DAG as flat drawable primitives.
//
// Commits are consumed one at a time in history order (children before
// parents, the order git log emits them) and assigned to a compact set of
// vertical lanes. The output is a Snapshot of dots, lane segments and links
// that a renderer positions with nothing more than a row height and a lane
// width; the package itself never computes pixel coordinates.
package graph

// Commit is the input record for one row of the graph.
type Commit struct {
	Hash    string
	Parents []string
	IsHead  bool
}

// DotKind classifies the marker drawn for a commit.
type DotKind uint8

const (
	DotDefault DotKind = iota
	DotMerge
	DotHead
)

func (k DotKind) String() string {
	switch k {
	case DotMerge:
		return "merge"
	case DotHead:
		return "head"
	default:
		return "default"
	}
}

// Dot is the marker for one commit. Row equals the commit's position in the
// input sequence.
type Dot struct {
	Row    int
	Lane   int
	Color  int
	Kind   DotKind
	Dimmed bool
}

// Segment is a vertical run on a single lane, inclusive of both rows.
type Segment struct {
	Lane     int
	Color    int
	StartRow int
	EndRow   int
	Dimmed   bool
}

// Link connects two points on the same row that are not on the same lane:
// branch points, merges and lane convergence. The renderer derives the curve
// control points.
type Link struct {
	StartRow  int
	StartLane int
	EndRow    int
	EndLane   int
	Color     int
	Dimmed    bool
}

// Snapshot is the immutable output of a build. It holds no references back
// into the Builder, so concurrent reads after publication are safe.
type Snapshot struct {
	Dots     []Dot
	Segments []Segment
	Links    []Link

	// OpenLanes lists lanes still awaiting a hash when input ended, so the
	// renderer can draw a truncation indicator instead of cutting the line.
	OpenLanes []int

	Rows     int
	MaxLanes int
}
