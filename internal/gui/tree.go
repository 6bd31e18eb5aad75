package gui

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	. "modernc.org/tk9.0"

	"github.com/thiagokokada/gitlanes/internal/gui/tkutil"
)

func (a *Controller) onTreeSelectionChanged() {
	if a.ui.treeView == nil {
		return
	}
	sel := a.ui.treeView.Selection("")
	if len(sel) == 0 {
		return
	}
	switch sel[0] {
	case moreIndicatorID, loadingIndicatorID:
		return
	}
	idx, err := strconv.Atoi(sel[0])
	if err != nil || idx < 0 || idx >= len(a.data.visible) {
		return
	}
	a.showCommitDetails(idx)
}

func (a *Controller) treeCommitIndex(id string) (int, bool) {
	if id == "" {
		return 0, false
	}
	idx, err := strconv.Atoi(id)
	if err != nil || idx < 0 || idx >= len(a.data.visible) {
		return 0, false
	}
	return idx, true
}

func (a *Controller) treeItemExists(id string) bool {
	if a.ui.treeView == nil || id == "" {
		return false
	}
	out, err := tkutil.Eval("%s exists %s", a.ui.treeView, id)
	if err != nil {
		slog.Debug("tree exists", slog.String("id", id), slog.Any("error", err))
		return false
	}
	return strings.TrimSpace(out) == "1"
}

func (a *Controller) clearTreeRows() {
	if a.ui.treeView == nil {
		return
	}
	for _, child := range strings.Fields(tkutil.EvalOrEmpty("%s children {}", a.ui.treeView)) {
		a.ui.treeView.Delete(child)
	}
}

func (a *Controller) scheduleAutoLoadCheck() {
	if a.ui.treeView == nil || a.state.filter.value == "" || !a.state.tree.hasMore {
		return
	}
	PostEvent(func() {
		a.maybeLoadMoreOnScroll()
	}, false)
}

func (a *Controller) maybeLoadMoreOnScroll() {
	if a.ui.treeView == nil || a.state.tree.loadingBatch || !a.state.tree.hasMore {
		return
	}
	if len(a.data.visible) == 0 {
		return
	}
	start, end, err := a.treeYviewRange()
	if err != nil {
		slog.Debug("tree yview", slog.Any("error", err))
		return
	}
	if a.state.filter.value == "" && len(a.data.visible) >= a.cfg.batch && start <= 0 && end >= 1 {
		return
	}
	if end >= autoLoadThreshold {
		a.loadMoreCommitsAsync(false)
	}
}

func (a *Controller) treeYviewRange() (float64, float64, error) {
	if a.ui.treeView == nil {
		return 0, 0, fmt.Errorf("tree widget not ready")
	}
	path := a.ui.treeView.String()
	if path == "" {
		return 0, 0, fmt.Errorf("tree widget has empty path")
	}
	out, err := tkutil.Eval("%s yview", path)
	if err != nil {
		return 0, 0, err
	}
	fields := strings.Fields(strings.TrimSpace(out))
	if len(fields) < 2 {
		return 0, 0, fmt.Errorf("unexpected treeview yview output %q", out)
	}
	start, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, err
	}
	end, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}
