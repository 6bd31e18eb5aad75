package gui

import (
	"github.com/thiagokokada/gitlanes/internal/git"
	"github.com/thiagokokada/gitlanes/internal/graph"
)

type Controller struct {
	svc *git.Service

	cfg   controllerConfig
	repo  controllerRepo
	theme controllerTheme
	data  controllerData

	ui appWidgets

	state controllerState
}

type controllerConfig struct {
	batch               int
	autoReloadRequested bool
	syntaxHighlight     bool
	verbose             bool
}

type controllerRepo struct {
	path    string
	headRef string
}

type controllerTheme struct {
	pref    ThemePreference
	palette colorPalette
}

type controllerData struct {
	commits  []*git.Entry
	visible  []*git.Entry
	snapshot *graph.Snapshot
}

type controllerState struct {
	tree      treeState
	diff      diffState
	filter    filterState
	scroll    scrollState
	selection selectionState
	watch     autoReloadState
}
