package gui

import (
	"sync"
	"sync/atomic"

	"github.com/thiagokokada/gitlanes/internal/debounce"
	"github.com/thiagokokada/gitlanes/internal/git"
	"github.com/thiagokokada/gitlanes/internal/gui/widgets"
)

type diffState struct {
	syntaxTags map[string]string

	mu          sync.Mutex
	debouncer   *debounce.Debouncer
	pendingDiff *git.Entry
	pendingHash string
}

type treeState struct {
	branchLabels    map[string][]string
	contextTargetID string
	hasMore         bool
	loadingBatch    bool
	graphColWidth   int

	graphCanvas widgets.GraphCanvas
}

type filterState struct {
	value string

	mu        sync.Mutex
	debouncer *debounce.Debouncer
	pending   string
}

type selectionState struct {
	hash atomic.Pointer[string]
}

type scrollState struct {
	start float64
	total int
}

func (s scrollState) restoreTarget(newTotal int) (float64, bool) {
	if s.start < 0 || s.total <= 0 || newTotal <= 0 {
		return 0, false
	}
	target := s.start * float64(s.total) / float64(newTotal)
	target = max(0.0, min(target, 1.0))
	return target, true
}
