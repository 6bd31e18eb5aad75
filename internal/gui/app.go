package gui

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/thiagokokada/gitlanes/internal/debounce"
	"github.com/thiagokokada/gitlanes/internal/git"

	. "modernc.org/tk9.0"
	_ "modernc.org/tk9.0/themes/azure" // load theme
)

const (
	autoLoadThreshold   = 0.98
	moreIndicatorID     = "__more__"
	loadingIndicatorID  = "__loading__"
	diffDebounceDelay   = 120 * time.Millisecond
	filterDebounceDelay = 240 * time.Millisecond
)

// RunConfig describes the parameters that control the GUI runtime.
type RunConfig struct {
	RepoPath        string
	Batch           int
	PaletteSize     int
	UseCLI          bool
	ThemePreference ThemePreference
	AutoReload      bool
	SyntaxHighlight bool
	Verbose         bool
}

func Run(cfg RunConfig) error {
	if cfg.RepoPath == "" {
		cfg.RepoPath = "."
	}
	if err := InitializeExtension("eval"); err != nil && err != AlreadyInitialized {
		return fmt.Errorf("init eval extension: %v", err)
	}
	svc, err := git.Open(cfg.RepoPath, git.Options{
		UseCLI:      cfg.UseCLI,
		PaletteSize: cfg.PaletteSize,
	})
	if err != nil {
		return err
	}
	pref := cfg.ThemePreference
	if pref < ThemeAuto || pref > ThemeDark {
		pref = ThemeAuto
	}
	app := &Controller{
		svc: svc,
		cfg: controllerConfig{
			batch:               cfg.Batch,
			autoReloadRequested: cfg.AutoReload,
			syntaxHighlight:     cfg.SyntaxHighlight,
			verbose:             cfg.Verbose,
		},
		repo: controllerRepo{
			path: svc.RepoPath(),
		},
		theme: controllerTheme{
			pref: pref,
		},
	}
	app.state.diff.syntaxTags = make(map[string]string)
	return app.run()
}

func (a *Controller) run() error {
	defer a.shutdown()
	a.theme.palette = paletteForPreference(a.theme.pref)
	if a.theme.palette.ThemeName != "" {
		err := ActivateTheme(a.theme.palette.ThemeName)
		if err != nil {
			slog.Error(
				"activate theme",
				slog.String("theme", a.theme.palette.ThemeName),
				slog.Any("error", err),
			)
		}
	}
	level := slog.LevelInfo
	if a.cfg.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	a.buildUI()
	a.initAutoReload(a.cfg.autoReloadRequested)
	a.showInitialLoadingRow()
	a.setStatus("Loading commits...")
	a.reloadCommitsAsync()
	App.WmTitle("gitlanes")
	App.SetResizable(true, true)
	App.Center().Wait()
	return nil
}

func (a *Controller) loadBranchLabels() error {
	labels, err := a.svc.BranchLabels()
	if err != nil {
		return err
	}
	a.state.tree.branchLabels = labels
	return nil
}

func (a *Controller) showCommitDetails(index int) {
	if index < 0 || index >= len(a.data.visible) {
		a.clearDetailText("Commit index out of range.")
		return
	}
	entry := a.data.visible[index]
	header := git.FormatCommitHeader(entry.Commit)
	hash := entry.Commit.Hash
	a.setSelectedHash(hash)
	a.writeDetailText(header+"\nLoading diff...", false)
	a.scheduleDiffLoad(entry, hash)
	a.scheduleGraphRedraw()
}

func (a *Controller) populateDiff(entry *git.Entry, hash string) {
	diff, err := a.svc.Diff(entry.Commit)
	if err != nil {
		diff = fmt.Sprintf("Unable to compute diff: %v", err)
	}
	highlight := err == nil
	PostEvent(func() {
		if a.currentSelection() != hash {
			return
		}
		a.writeDetailText(diff, highlight)
	}, false)
}

func (a *Controller) scheduleDiffLoad(entry *git.Entry, hash string) {
	if entry == nil {
		return
	}
	slog.Debug("scheduleDiffLoad", slog.String("hash", hash))
	deb := func() *debounce.Debouncer {
		a.state.diff.mu.Lock()
		defer a.state.diff.mu.Unlock()
		a.state.diff.pendingDiff = entry
		a.state.diff.pendingHash = hash
		return debounce.Ensure(&a.state.diff.debouncer, diffDebounceDelay, func() {
			a.flushDiffDebounce()
		})
	}()
	deb.Trigger()
}

func (a *Controller) flushDiffDebounce() {
	entry, hash := func() (*git.Entry, string) {
		a.state.diff.mu.Lock()
		defer a.state.diff.mu.Unlock()
		pending := a.state.diff.pendingDiff
		pendingHash := a.state.diff.pendingHash
		a.state.diff.pendingDiff = nil
		a.state.diff.pendingHash = ""
		return pending, pendingHash
	}()
	if entry == nil {
		return
	}
	go a.populateDiff(entry, hash)
}

func (a *Controller) cancelPendingDiffLoad() {
	slog.Debug("cancelPendingDiffLoad", slog.String("hash", a.state.diff.pendingHash))
	a.state.diff.mu.Lock()
	defer a.state.diff.mu.Unlock()
	if a.state.diff.debouncer != nil {
		a.state.diff.debouncer.Stop()
	}
	a.state.diff.debouncer = nil
	a.state.diff.pendingDiff = nil
	a.state.diff.pendingHash = ""
}

func (a *Controller) reloadCommitsAsync() {
	if a.state.tree.loadingBatch {
		return
	}
	a.state.tree.loadingBatch = true
	slog.Debug("reloadCommitsAsync start",
		slog.Int("batch", a.cfg.batch),
		slog.String("filter", a.state.filter.value),
	)
	go func() {
		entries, head, hasMore, err := a.svc.ScanCommits(0, a.cfg.batch)
		snap := a.svc.GraphSnapshot()
		PostEvent(func() {
			a.state.tree.loadingBatch = false
			if err != nil {
				slog.Error("failed to reload commits", slog.Any("error", err))
				a.setStatus(fmt.Sprintf("Failed to reload commits: %v", err))
				return
			}
			a.data.commits = entries
			a.data.visible = entries
			a.data.snapshot = snap
			a.repo.headRef = head
			a.state.tree.hasMore = hasMore
			slog.Debug("reloadCommitsAsync loaded",
				slog.Int("count", len(entries)),
				slog.String("head", head),
				slog.Bool("has_more", hasMore),
			)
			if err := a.loadBranchLabels(); err != nil {
				slog.Error("failed to refresh branch labels", slog.Any("error", err))
			}
			a.applyFilterContent(a.state.filter.value)
			a.setStatus(a.statusSummary())
		}, false)
	}()
}

func (a *Controller) loadMoreCommitsAsync(prefetch bool) {
	if a.state.tree.loadingBatch || (!prefetch && !a.state.tree.hasMore) {
		return
	}
	a.state.tree.loadingBatch = true
	skip := len(a.data.commits)
	slog.Debug("loadMoreCommitsAsync start",
		slog.Int("skip", skip),
		slog.Bool("prefetch", prefetch),
		slog.String("filter", a.state.filter.value),
	)
	go func(skipCount int, background bool) {
		entries, _, hasMore, err := a.svc.ScanCommits(skipCount, a.cfg.batch)
		snap := a.svc.GraphSnapshot()
		PostEvent(func() {
			a.state.tree.loadingBatch = false
			if err != nil {
				slog.Error("failed to load more commits", slog.Any("error", err))
				if !background {
					a.setStatus(fmt.Sprintf("Failed to load more commits: %v", err))
				}
				return
			}
			if len(entries) == 0 {
				a.state.tree.hasMore = false
				if !background {
					a.setStatus("No more commits available.")
				}
				return
			}
			a.data.commits = append(a.data.commits, entries...)
			a.data.snapshot = snap
			a.state.tree.hasMore = hasMore
			slog.Debug("loadMoreCommitsAsync loaded",
				slog.Int("added", len(entries)),
				slog.Int("total", len(a.data.commits)),
				slog.Bool("has_more", hasMore),
				slog.Bool("background", background),
			)
			if err := a.loadBranchLabels(); err != nil {
				slog.Error("failed to refresh branch labels", slog.Any("error", err))
			}
			a.applyFilterContent(a.state.filter.value)
			a.setStatus(a.statusSummary())
			if background && a.state.tree.hasMore {
				go a.loadMoreCommitsAsync(true)
			}
		}, false)
	}(skip, prefetch)
}

func (a *Controller) clearDetailText(msg string) {
	a.writeDetailText(msg, false)
}

func (a *Controller) writeDetailText(content string, highlightDiff bool) {
	a.ui.diffDetail.Configure(State(NORMAL))
	a.ui.diffDetail.Delete("1.0", END)
	a.ui.diffDetail.Insert("1.0", content)
	if highlightDiff {
		a.highlightDiffLines(content)
	} else {
		a.ui.diffDetail.TagRemove("diffAdd", "1.0", END)
		a.ui.diffDetail.TagRemove("diffDel", "1.0", END)
		a.ui.diffDetail.TagRemove("diffHeader", "1.0", END)
	}
	if a.cfg.syntaxHighlight && highlightDiff {
		a.applySyntaxHighlight(content)
	} else {
		a.clearSyntaxHighlight()
	}
	a.ui.diffDetail.Configure(State("disabled"))
}

func (a *Controller) highlightDiffLines(content string) {
	a.ui.diffDetail.TagRemove("diffAdd", "1.0", END)
	a.ui.diffDetail.TagRemove("diffDel", "1.0", END)
	a.ui.diffDetail.TagRemove("diffHeader", "1.0", END)
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if len(line) == 0 {
			continue
		}
		tag := diffLineTag(line)
		if tag == "" {
			continue
		}
		lineNo := i + 1
		start := fmt.Sprintf("%d.0", lineNo)
		end := fmt.Sprintf("%d.0", lineNo+1)
		if lineNo == len(lines) {
			end = fmt.Sprintf("%d.end", lineNo)
		}
		a.ui.diffDetail.TagAdd(tag, start, end)
	}
}

func (a *Controller) setSelectedHash(hash string) {
	h := hash
	a.state.selection.hash.Store(&h)
}

func (a *Controller) currentSelection() string {
	ptr := a.state.selection.hash.Load()
	if ptr == nil {
		return ""
	}
	return *ptr
}

func (a *Controller) setStatus(msg string) {
	text := msg
	PostEvent(func() {
		a.ui.status.Configure(Txt(text))
	}, false)
}

func (a *Controller) statusSummary() string {
	total := len(a.data.commits)
	visible := len(a.data.visible)
	head := a.repo.headRef
	if head == "" {
		head = "HEAD"
	}
	filterDesc := strings.TrimSpace(a.state.filter.value)
	path := a.repo.path
	if path == "" && a.svc != nil {
		path = a.svc.RepoPath()
	}
	base := fmt.Sprintf("Showing %d/%d loaded commits on %s — %s", visible, total, head, path)
	if a.state.tree.hasMore {
		base += " (more available)"
	}
	if filterDesc == "" {
		return base
	}
	return fmt.Sprintf("Filter %q — %s", filterDesc, base)
}
