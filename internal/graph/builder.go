package graph

// Config controls a build. The zero value uses the default palette and no
// dimming.
type Config struct {
	// PaletteSize is the number of color identifiers to cycle through (K).
	// Values below 1 fall back to DefaultPaletteSize.
	PaletteSize int

	// DimOthers tags every primitive not touching HighlightLane so the
	// renderer can dim side branches. Tagging never alters lane or color
	// assignment.
	DimOthers     bool
	HighlightLane int
}

// Builder converts a commit sequence into a Snapshot in a single pass.
//
// It is strictly single-threaded: commits must arrive in history order
// (children before parents) and one builder must never be shared between
// concurrent appends. The snapshots it publishes are immutable copies.
type Builder struct {
	cfg   Config
	table *laneTable
	row   int

	dots     []Dot
	segments []Segment
	links    []Link

	// openSeg maps an open lane to the index of its unfinished segment.
	openSeg  map[int]int
	maxLanes int
}

// LaneState is the serialized form of one lane table slot.
type LaneState struct {
	Open     bool
	Await    string
	Color    int
	SegStart int
}

// State captures everything needed to resume a build where it left off:
// the open lanes, the color cycle position and the row count. It is a plain
// value with no references into the Builder.
type State struct {
	Lanes  []LaneState
	Allocs int
	Rows   int
}

func New(cfg Config) *Builder {
	return &Builder{
		cfg:     cfg,
		table:   newLaneTable(NewPalette(cfg.PaletteSize)),
		openSeg: map[int]int{},
	}
}

// Resume builds a Builder that continues a prior build from its captured
// State. Appended commits produce primitives for new rows only; segments of
// lanes open across the boundary keep their original start row so that
// Snapshot.Append can splice them over the prior snapshot's copy.
func Resume(cfg Config, st State) *Builder {
	b := New(cfg)
	b.row = st.Rows
	b.table.allocs = st.Allocs
	b.table.lanes = make([]lane, len(st.Lanes))
	for i, ls := range st.Lanes {
		if !ls.Open {
			continue
		}
		b.table.lanes[i] = lane{open: true, await: ls.Await, color: ls.Color}
		b.table.byAwait[ls.Await] = i
		b.openSeg[i] = len(b.segments)
		end := st.Rows - 1
		if end < ls.SegStart {
			end = ls.SegStart
		}
		b.segments = append(b.segments, Segment{
			Lane:     i,
			Color:    ls.Color,
			StartRow: ls.SegStart,
			EndRow:   end,
			Dimmed:   b.dimmedLane(i),
		})
	}
	b.maxLanes = b.table.width()
	return b
}

// State captures the lane table for a later Resume.
func (b *Builder) State() State {
	st := State{
		Lanes:  make([]LaneState, len(b.table.lanes)),
		Allocs: b.table.allocs,
		Rows:   b.row,
	}
	for i, l := range b.table.lanes {
		if !l.open {
			continue
		}
		st.Lanes[i] = LaneState{
			Open:     true,
			Await:    l.await,
			Color:    l.color,
			SegStart: b.segments[b.openSeg[i]].StartRow,
		}
	}
	return st
}

// Rows reports how many commits have been consumed in total, including rows
// owned by a prior build this one resumed from.
func (b *Builder) Rows() int {
	return b.row
}

// Append consumes a suffix of commits, one row each, in input order.
func (b *Builder) Append(commits []Commit) {
	for i := range commits {
		b.advance(&commits[i])
	}
}

// Snapshot publishes an immutable copy of everything built so far.
func (b *Builder) Snapshot() *Snapshot {
	return &Snapshot{
		Dots:      append([]Dot(nil), b.dots...),
		Segments:  append([]Segment(nil), b.segments...),
		Links:     append([]Link(nil), b.links...),
		OpenLanes: b.table.openLanes(),
		Rows:      b.row,
		MaxLanes:  b.maxLanes,
	}
}

// advance runs the per-commit transition for one row.
func (b *Builder) advance(c *Commit) {
	r := b.row
	b.row++

	// Every lane open coming into this row passes through it.
	for _, idx := range b.table.openLanes() {
		b.extendSegment(idx, r)
	}

	cur, ok := b.table.lookup(c.Hash)
	if !ok {
		// Nobody was awaiting this hash: a branch tip newly entering the
		// window (or a duplicate hash, which gets the same treatment).
		cur = b.table.allocate(c.Hash)
		b.startSegment(cur, r)
	}

	b.dots = append(b.dots, Dot{
		Row:    r,
		Lane:   cur,
		Color:  b.table.color(cur),
		Kind:   dotKind(c),
		Dimmed: b.dimmedLane(cur),
	})

	if len(c.Parents) == 0 {
		// Root commit: the lane terminates at its own row.
		b.closeLane(cur)
		b.trackWidth()
		return
	}

	closing := -1
	first := c.Parents[0]
	if other, found := b.table.lookup(first); found && other != cur {
		// Convergence: another lane already tracks our first parent. The
		// earlier-seen lane keeps it, this one links in and closes. The
		// release is deferred past the merge parents below so a lane
		// allocated for them cannot reuse this index on the same row.
		b.emitLink(r, cur, other, b.table.color(cur))
		closing = cur
	} else {
		b.table.reassignAwait(cur, first)
	}

	for _, parent := range c.Parents[1:] {
		if target, found := b.table.lookup(parent); found {
			if target == cur {
				continue
			}
			b.emitLink(r, cur, target, b.table.color(target))
			continue
		}
		// Merge bringing in a previously unseen ancestor branch.
		target := b.table.allocate(parent)
		b.startSegment(target, r)
		b.emitLink(r, cur, target, b.table.color(target))
	}

	if closing >= 0 {
		b.closeLane(closing)
	}
	b.trackWidth()
}

func (b *Builder) startSegment(laneIdx, row int) {
	b.openSeg[laneIdx] = len(b.segments)
	b.segments = append(b.segments, Segment{
		Lane:     laneIdx,
		Color:    b.table.color(laneIdx),
		StartRow: row,
		EndRow:   row,
		Dimmed:   b.dimmedLane(laneIdx),
	})
}

func (b *Builder) extendSegment(laneIdx, row int) {
	if i, ok := b.openSeg[laneIdx]; ok {
		b.segments[i].EndRow = row
	}
}

func (b *Builder) closeLane(laneIdx int) {
	b.table.release(laneIdx)
	delete(b.openSeg, laneIdx)
}

func (b *Builder) emitLink(row, from, to, color int) {
	b.links = append(b.links, Link{
		StartRow:  row,
		StartLane: from,
		EndRow:    row,
		EndLane:   to,
		Color:     color,
		Dimmed:    b.dimmedLink(from, to),
	})
}

func (b *Builder) trackWidth() {
	if w := b.table.width(); w > b.maxLanes {
		b.maxLanes = w
	}
}

func (b *Builder) dimmedLane(laneIdx int) bool {
	return b.cfg.DimOthers && laneIdx != b.cfg.HighlightLane
}

func (b *Builder) dimmedLink(from, to int) bool {
	return b.cfg.DimOthers && from != b.cfg.HighlightLane && to != b.cfg.HighlightLane
}

func dotKind(c *Commit) DotKind {
	switch {
	case c.IsHead:
		// HEAD takes precedence over merge for rendering priority.
		return DotHead
	case len(c.Parents) > 1:
		return DotMerge
	default:
		return DotDefault
	}
}

// Append splices a snapshot produced by a resumed Builder onto the snapshot
// it continued from. Dots and links are appended; segments continued across
// the boundary replace the prior, shorter copy (matched by lane and start
// row, which identify a segment uniquely within one logical build).
func (s *Snapshot) Append(next *Snapshot) *Snapshot {
	if s == nil {
		return next
	}
	if next == nil {
		return s
	}
	merged := &Snapshot{
		Dots:      append(append([]Dot(nil), s.Dots...), next.Dots...),
		Links:     append(append([]Link(nil), s.Links...), next.Links...),
		OpenLanes: append([]int(nil), next.OpenLanes...),
		Rows:      next.Rows,
		MaxLanes:  max(s.MaxLanes, next.MaxLanes),
	}
	segments := append([]Segment(nil), s.Segments...)
	index := make(map[[2]int]int, len(segments))
	for i, seg := range segments {
		index[[2]int{seg.Lane, seg.StartRow}] = i
	}
	for _, seg := range next.Segments {
		if i, ok := index[[2]int{seg.Lane, seg.StartRow}]; ok {
			segments[i] = seg
			continue
		}
		index[[2]int{seg.Lane, seg.StartRow}] = len(segments)
		segments = append(segments, seg)
	}
	merged.Segments = segments
	return merged
}
