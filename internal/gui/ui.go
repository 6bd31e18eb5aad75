package gui

import (
	"fmt"
	"log/slog"
	"strings"

	. "modernc.org/tk9.0"

	"github.com/thiagokokada/gitlanes/internal/gui/tkutil"
	"github.com/thiagokokada/gitlanes/internal/gui/widgets"
)

type appWidgets struct {
	status          *TLabelWidget
	filterEntry     *TEntryWidget
	reloadButton    *TButtonWidget
	graphCanvas     *CanvasWidget
	treeView        *TTreeviewWidget
	treeContextMenu *MenuWidget
	diffDetail      *TextWidget
}

func (a *Controller) buildUI() {
	GridColumnConfigure(App, 0, Weight(1))
	GridRowConfigure(App, 1, Weight(1))

	controls := App.TFrame(Padding("8p"))
	Grid(controls, Row(0), Column(0), Sticky(WE))
	GridColumnConfigure(controls.Window, 1, Weight(1))

	repoLabel := fmt.Sprintf("Repository: %s", a.repo.path)
	Grid(controls.TLabel(Txt(repoLabel), Anchor(W)), Row(0), Column(0), Columnspan(4), Sticky(W))

	Grid(controls.TLabel(Txt("Filter:"), Anchor(E)), Row(1), Column(0), Sticky(E))
	a.ui.filterEntry = controls.TEntry(Width(40), Textvariable(""))
	Grid(a.ui.filterEntry, Row(1), Column(1), Sticky(WE), Padx("4p"))

	Bind(a.ui.filterEntry, "<KeyRelease>", Command(func() {
		a.scheduleFilterApply(a.ui.filterEntry.Textvariable())
	}))

	clearBtn := controls.TButton(Txt("Clear"), Command(func() {
		a.ui.filterEntry.Configure(Textvariable(""))
		a.applyFilterImmediate("")
	}))
	Grid(clearBtn, Row(1), Column(2), Sticky(E), Padx("4p"))
	a.ui.reloadButton = controls.TButton(Txt("Reload"), Command(a.onReloadButton))
	Grid(a.ui.reloadButton, Row(1), Column(3), Sticky(E))

	pane := App.TPanedwindow(Orient(VERTICAL))
	Grid(pane, Row(1), Column(0), Sticky(NEWS), Padx("4p"), Pady("4p"))

	listArea := pane.TFrame()
	diffArea := pane.TFrame()
	pane.Add(listArea.Window)
	pane.Add(diffArea.Window)

	GridRowConfigure(listArea.Window, 0, Weight(1))
	GridColumnConfigure(listArea.Window, 0, Weight(1))
	GridRowConfigure(diffArea.Window, 0, Weight(1))
	GridColumnConfigure(diffArea.Window, 0, Weight(1))

	treeScroll := listArea.TScrollbar()
	a.ui.treeView = listArea.TTreeview(
		Show("headings"),
		Columns("graph commit author date"),
		Selectmode("browse"),
		Height(18),
		Yscrollcommand(func(e *Event) {
			e.ScrollSet(treeScroll)
			a.maybeLoadMoreOnScroll()
			a.scheduleGraphRedraw()
		}),
	)
	a.state.tree.graphColWidth = widgets.GraphColumnWidth(4)
	a.ui.treeView.Column("graph", Anchor(W), Width(a.state.tree.graphColWidth))
	a.ui.treeView.Column("commit", Anchor(W), Width(380))
	a.ui.treeView.Column("author", Anchor(W), Width(280))
	a.ui.treeView.Column("date", Anchor(W), Width(180))
	a.ui.treeView.Heading("graph", Txt("Graph"))
	a.ui.treeView.Heading("commit", Txt("Commit"))
	a.ui.treeView.Heading("author", Txt("Author"))
	a.ui.treeView.Heading("date", Txt("Date"))
	Grid(a.ui.treeView, Row(0), Column(0), Sticky(NEWS))
	Grid(treeScroll, Row(0), Column(1), Sticky(NS))
	treeScroll.Configure(Command(func(e *Event) { e.Yview(a.ui.treeView) }))

	// The overlay canvas floats over the graph column; see widgets.GraphCanvas.
	a.ui.graphCanvas = listArea.Canvas()

	Bind(a.ui.treeView, "<<TreeviewSelect>>", Command(a.onTreeSelectionChanged))
	Bind(a.ui.treeView, "<Configure>", Command(func() { a.scheduleGraphRedraw() }))
	a.initTreeContextMenu()
	a.bindTreeContextMenu()

	detailYScroll := diffArea.TScrollbar(Command(func(e *Event) { e.Yview(a.ui.diffDetail) }))
	detailXScroll := diffArea.TScrollbar(Orient(HORIZONTAL), Command(func(e *Event) { e.Xview(a.ui.diffDetail) }))
	a.ui.diffDetail = diffArea.Text(Wrap(NONE), Font(CourierFont(), 11), Exportselection(false), Tabs("1c"))
	a.ui.diffDetail.Configure(Yscrollcommand(func(e *Event) { e.ScrollSet(detailYScroll) }))
	a.ui.diffDetail.Configure(Xscrollcommand(func(e *Event) { e.ScrollSet(detailXScroll) }))
	addColor := a.theme.palette.DiffAdd
	if addColor == "" {
		addColor = lightPalette.DiffAdd
	}
	delColor := a.theme.palette.DiffDel
	if delColor == "" {
		delColor = lightPalette.DiffDel
	}
	headerColor := a.theme.palette.DiffHeader
	if headerColor == "" {
		headerColor = lightPalette.DiffHeader
	}
	a.ui.diffDetail.TagConfigure("diffAdd", Background(addColor))
	a.ui.diffDetail.TagConfigure("diffDel", Background(delColor))
	a.ui.diffDetail.TagConfigure("diffHeader", Background(headerColor))
	Grid(a.ui.diffDetail, Row(0), Column(0), Sticky(NEWS))
	Grid(detailYScroll, Row(0), Column(1), Sticky(NS))
	Grid(detailXScroll, Row(1), Column(0), Sticky(WE))
	a.ui.diffDetail.Configure(State("disabled"))

	a.ui.status = App.TLabel(Anchor(W), Relief(SUNKEN), Padding("4p"))
	Grid(a.ui.status, Row(2), Column(0), Sticky(WE))

	a.clearDetailText("Select a commit to view its details.")
}

func (a *Controller) showInitialLoadingRow() {
	if a.ui.treeView == nil {
		return
	}
	if len(a.data.commits) != 0 || len(a.data.visible) != 0 {
		return
	}
	if a.treeItemExists(loadingIndicatorID) {
		return
	}
	a.ui.treeView.Insert("", "end", Id(loadingIndicatorID), Values([]string{"", "Loading commits...", "", ""}))
}

func (a *Controller) initTreeContextMenu() {
	menu := App.Menu(Tearoff(false))
	item := menu.AddCommand(Command(a.copySelectedCommitReference))
	a.configureMenuLabel(menu, item, "Copy commit reference")
	a.ui.treeContextMenu = menu
}

func (a *Controller) bindTreeContextMenu() {
	if a.ui.treeView == nil {
		return
	}
	handler := func(e *Event) {
		a.showTreeContextMenu(e)
	}
	Bind(a.ui.treeView, "<Button-2>", Command(handler))
	Bind(a.ui.treeView, "<Button-3>", Command(handler))
}

func (a *Controller) showTreeContextMenu(e *Event) {
	if a.ui.treeContextMenu == nil || a.ui.treeView == nil || e == nil {
		return
	}
	item := strings.TrimSpace(a.ui.treeView.IdentifyItem(e.X, e.Y))
	if _, ok := a.treeCommitIndex(item); !ok {
		return
	}
	a.ui.treeView.Selection("set", item)
	a.ui.treeView.Focus(item)
	a.state.tree.contextTargetID = item
	Popup(a.ui.treeContextMenu.Window, e.XRoot, e.YRoot, nil)
}

func (a *Controller) copySelectedCommitReference() {
	id := a.state.tree.contextTargetID
	if id == "" && a.ui.treeView != nil {
		if sel := a.ui.treeView.Selection(""); len(sel) > 0 {
			id = sel[0]
		}
	}
	idx, ok := a.treeCommitIndex(id)
	if !ok {
		return
	}
	entry := a.data.visible[idx]
	if entry == nil || entry.Commit == nil {
		return
	}
	hash := entry.Commit.Hash
	ClipboardClear()
	ClipboardAppend(hash)
	a.setStatus(fmt.Sprintf("Copied %s to clipboard.", hash))
}

func (a *Controller) configureMenuLabel(menu *MenuWidget, item *MenuItem, text string) {
	if menu == nil || item == nil || text == "" {
		return
	}
	safe := escapeTclString(text)
	if _, err := tkutil.Eval("%s entryconfigure %s -label {%s}", menu, item, safe); err != nil {
		slog.Error("menu label", slog.String("text", text), slog.Any("error", err))
	}
}
