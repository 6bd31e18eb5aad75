package gui

import (
	. "modernc.org/tk9.0"

	"github.com/thiagokokada/gitlanes/internal/gui/widgets"
)

func (a *Controller) scheduleGraphRedraw() {
	if a.ui.graphCanvas == nil || a.ui.treeView == nil {
		return
	}
	a.state.tree.graphCanvas.ScheduleRedraw(func() {
		a.redrawGraphCanvas()
	})
}

func (a *Controller) redrawGraphCanvas() {
	if a.ui.graphCanvas == nil || a.ui.treeView == nil {
		return
	}
	snap := a.data.snapshot
	if snap == nil {
		return
	}
	a.ensureGraphColumnWidth(snap.MaxLanes)
	a.state.tree.graphCanvas.Redraw(
		a.ui.graphCanvas,
		a.ui.treeView,
		snap,
		a.data.visible,
		a.state.tree.branchLabels,
		a.theme.palette.isDark(),
	)
}

// ensureGraphColumnWidth widens the graph column when the layout needs more
// lanes than it currently fits. It never shrinks, to avoid jitter while
// scrolling through wide and narrow parts of the history.
func (a *Controller) ensureGraphColumnWidth(maxLanes int) {
	needed := widgets.GraphColumnWidth(maxLanes)
	if needed <= a.state.tree.graphColWidth {
		return
	}
	a.state.tree.graphColWidth = needed
	a.ui.treeView.Column("graph", Width(needed))
}
