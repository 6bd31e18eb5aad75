package widgets

import (
	"testing"

	"github.com/thiagokokada/gitlanes/internal/graph"
)

func TestMaxGraphCanvasCols(t *testing.T) {
	if got := maxGraphCanvasCols(0); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := maxGraphCanvasCols(2 * graphCanvasLaneMargin); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := maxGraphCanvasCols(2*graphCanvasLaneMargin + graphCanvasLaneSpacing); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
}

func TestGraphRowMidY(t *testing.T) {
	if got := graphRowMidY(10, 0); got != 10 {
		t.Fatalf("expected yTop for empty height, got %d", got)
	}
	if got := graphRowMidY(10, 21); got != 20 {
		t.Fatalf("expected yTop+10 for odd height, got %d", got)
	}
	if got := graphRowMidY(10, 20); got != 19 {
		t.Fatalf("expected yTop+9 for even height, got %d", got)
	}
}

func TestSegmentSpanY(t *testing.T) {
	seg := graph.Segment{StartRow: 2, EndRow: 5}
	tests := []struct {
		name   string
		row    int
		wantY1 int
		wantY2 int
	}{
		{name: "interior row passes through", row: 3, wantY1: 100, wantY2: 120},
		{name: "start row begins at middle", row: 2, wantY1: 109, wantY2: 120},
		{name: "end row stops at middle", row: 5, wantY1: 100, wantY2: 109},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			y1, y2 := segmentSpanY(seg, tc.row, 100, 109, 20)
			if y1 != tc.wantY1 || y2 != tc.wantY2 {
				t.Fatalf("span = (%d, %d), want (%d, %d)", y1, y2, tc.wantY1, tc.wantY2)
			}
		})
	}

	single := graph.Segment{StartRow: 4, EndRow: 4}
	y1, y2 := segmentSpanY(single, 4, 100, 109, 20)
	if y1 != 109 || y2 != 109 {
		t.Fatalf("single-row span = (%d, %d), want collapsed at middle", y1, y2)
	}
}

func TestPrimitivesForRow(t *testing.T) {
	snap := &graph.Snapshot{
		Dots: []graph.Dot{
			{Row: 0, Lane: 0},
			{Row: 1, Lane: 0, Kind: graph.DotMerge},
			{Row: 2, Lane: 1},
		},
		Segments: []graph.Segment{
			{Lane: 0, StartRow: 0, EndRow: 3},
			{Lane: 1, StartRow: 1, EndRow: 2},
		},
		Links: []graph.Link{
			{StartRow: 1, StartLane: 0, EndRow: 1, EndLane: 1},
		},
		Rows: 4,
	}

	prims := primitivesForRow(snap, 1)
	if prims.dot == nil || prims.dot.Kind != graph.DotMerge {
		t.Fatalf("expected merge dot on row 1, got %+v", prims.dot)
	}
	if len(prims.segments) != 2 {
		t.Fatalf("expected both segments on row 1, got %d", len(prims.segments))
	}
	if len(prims.links) != 1 || prims.links[0].EndLane != 1 {
		t.Fatalf("unexpected links on row 1: %+v", prims.links)
	}

	prims = primitivesForRow(snap, 3)
	if prims.dot != nil {
		t.Fatalf("expected no dot on row 3, got %+v", prims.dot)
	}
	if len(prims.segments) != 1 || prims.segments[0].Lane != 0 {
		t.Fatalf("unexpected segments on row 3: %+v", prims.segments)
	}
	if len(prims.links) != 0 {
		t.Fatalf("unexpected links on row 3: %+v", prims.links)
	}
}

func TestLaneCenterX(t *testing.T) {
	x0 := laneCenterX(0)
	x1 := laneCenterX(1)
	if x1-x0 != graphCanvasLaneSpacing {
		t.Fatalf("lane spacing = %d, want %d", x1-x0, graphCanvasLaneSpacing)
	}
	if x0 != graphCanvasLaneMargin+graphCanvasLaneSpacing/2 {
		t.Fatalf("lane 0 center = %d", x0)
	}
}

func TestLaneColorCyclesAndDims(t *testing.T) {
	colors := graphCanvasLaneColors(false)
	if got := laneColor(false, len(colors), false); got != colors[0] {
		t.Fatalf("color ids should cycle: got %s, want %s", got, colors[0])
	}
	if got := laneColor(false, 0, true); got == colors[0] {
		t.Fatalf("dimmed color should differ from lane color")
	}
}

func TestGraphColumnWidth(t *testing.T) {
	if got := GraphColumnWidth(0); got != GraphColumnWidth(1) {
		t.Fatalf("lane count clamps to 1: got %d, want %d", got, GraphColumnWidth(1))
	}
	want := 2*graphCanvasLaneMargin + 3*graphCanvasLaneSpacing
	if got := GraphColumnWidth(3); got != want {
		t.Fatalf("width for 3 lanes = %d, want %d", got, want)
	}
}
