package graph

// debugChecks promotes lane-table contract violations from silent no-ops to
// panics. Enabled by tests; a violation always means a bug in the Builder,
// never bad caller input.
var debugChecks = false

// SetDebugChecks toggles fatal checking of lane-table contract violations.
func SetDebugChecks(enabled bool) {
	debugChecks = enabled
}

type lane struct {
	open  bool
	await string
	color int
}

// laneTable tracks which lanes are open (awaiting an ancestor hash) and the
// color bound to each tenancy. The awaited-hash index replaces any pointer
// graph between commits: it is the only bookkeeping the layout needs.
type laneTable struct {
	lanes   []lane
	byAwait map[string]int
	palette Palette
	allocs  int
}

func newLaneTable(palette Palette) *laneTable {
	return &laneTable{
		byAwait: map[string]int{},
		palette: palette,
	}
}

// allocate opens the lowest-numbered free lane, binds it to awaitedHash and
// assigns the next palette color.
func (t *laneTable) allocate(awaitedHash string) int {
	idx := -1
	for i := range t.lanes {
		if !t.lanes[i].open {
			idx = i
			break
		}
	}
	if idx == -1 {
		idx = len(t.lanes)
		t.lanes = append(t.lanes, lane{})
	}
	t.lanes[idx] = lane{
		open:  true,
		await: awaitedHash,
		color: t.palette.Color(t.allocs),
	}
	t.allocs++
	t.byAwait[awaitedHash] = idx
	return idx
}

// lookup returns the lane currently awaiting hash, if any.
func (t *laneTable) lookup(hash string) (int, bool) {
	idx, ok := t.byAwait[hash]
	return idx, ok
}

// release frees a lane. The color binding is discarded; a later tenant of the
// same index draws a fresh color from the cycle.
func (t *laneTable) release(idx int) {
	if idx < 0 || idx >= len(t.lanes) || !t.lanes[idx].open {
		if debugChecks {
			panic("graph: release of a lane that is not open")
		}
		return
	}
	delete(t.byAwait, t.lanes[idx].await)
	t.lanes[idx] = lane{}
}

// reassignAwait rebinds an open lane to a new awaited hash, keeping its index
// and color. This is how a lane continues along a first-parent chain.
func (t *laneTable) reassignAwait(idx int, newHash string) {
	if idx < 0 || idx >= len(t.lanes) || !t.lanes[idx].open {
		if debugChecks {
			panic("graph: reassignAwait of a lane that is not open")
		}
		return
	}
	delete(t.byAwait, t.lanes[idx].await)
	t.lanes[idx].await = newHash
	t.byAwait[newHash] = idx
}

func (t *laneTable) color(idx int) int {
	if idx < 0 || idx >= len(t.lanes) {
		return 0
	}
	return t.lanes[idx].color
}

func (t *laneTable) isOpen(idx int) bool {
	return idx >= 0 && idx < len(t.lanes) && t.lanes[idx].open
}

// openLanes returns the indices of all open lanes in ascending order.
func (t *laneTable) openLanes() []int {
	var open []int
	for i := range t.lanes {
		if t.lanes[i].open {
			open = append(open, i)
		}
	}
	return open
}

func (t *laneTable) width() int {
	return len(t.lanes)
}
