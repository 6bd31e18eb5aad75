package git

import (
	"strings"
	"testing"
	"time"

	gitbackend "github.com/thiagokokada/gitlanes/internal/git/backend"
	"github.com/thiagokokada/gitlanes/internal/graph"
)

func testCommit(hash string, parents ...string) *Commit {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &Commit{
		Hash:         hash,
		ParentHashes: parents,
		Author:       Signature{Name: "Alice", Email: "alice@example.com", When: ts},
		Committer:    Signature{Name: "Alice", Email: "alice@example.com", When: ts},
		Message:      "commit " + hash,
	}
}

func linearBackend(commits []*Commit) *fakeBackend {
	head := commits[0].Hash
	return &fakeBackend{
		repoPath: "/tmp/repo",
		headStateFunc: func() (string, string, bool, error) {
			return head, "main", true, nil
		},
		startLogStreamFunc: func(fromHash string) (gitbackend.LogStream, error) {
			return &fakeLogStream{commits: commits}, nil
		},
	}
}

func TestScanCommitsBatching(t *testing.T) {
	t.Parallel()

	commits := []*Commit{
		testCommit("a1", "b2"),
		testCommit("b2", "c3"),
		testCommit("c3", "d4"),
		testCommit("d4", "e5"),
		testCommit("e5"),
	}
	be := linearBackend(commits)
	svc := newFakeService(be, Options{})

	entries, headName, hasMore, err := svc.ScanCommits(0, 2)
	if err != nil {
		t.Fatalf("ScanCommits: %v", err)
	}
	if headName != "main" {
		t.Fatalf("head name = %q, want main", headName)
	}
	if len(entries) != 2 || entries[0].Commit.Hash != "a1" || entries[1].Commit.Hash != "b2" {
		t.Fatalf("unexpected first batch: %+v", entries)
	}
	if entries[0].Row != 0 || entries[1].Row != 1 {
		t.Fatalf("rows = %d,%d, want 0,1", entries[0].Row, entries[1].Row)
	}
	if !hasMore {
		t.Fatalf("expected more commits after first batch")
	}

	// The next batch continues the same stream instead of starting over.
	entries, _, hasMore, err = svc.ScanCommits(2, 2)
	if err != nil {
		t.Fatalf("ScanCommits: %v", err)
	}
	if len(entries) != 2 || entries[0].Commit.Hash != "c3" {
		t.Fatalf("unexpected second batch: %+v", entries)
	}
	if entries[0].Row != 2 || entries[1].Row != 3 {
		t.Fatalf("rows = %d,%d, want 2,3", entries[0].Row, entries[1].Row)
	}
	if !hasMore {
		t.Fatalf("expected more commits after second batch")
	}
	if be.streamsStarted != 1 {
		t.Fatalf("streams started = %d, want 1", be.streamsStarted)
	}

	entries, _, hasMore, err = svc.ScanCommits(4, 2)
	if err != nil {
		t.Fatalf("ScanCommits: %v", err)
	}
	if len(entries) != 1 || entries[0].Commit.Hash != "e5" {
		t.Fatalf("unexpected last batch: %+v", entries)
	}
	if hasMore {
		t.Fatalf("expected no more commits")
	}
}

func TestScanCommitsSkipMismatchResets(t *testing.T) {
	t.Parallel()

	commits := []*Commit{
		testCommit("a1", "b2"),
		testCommit("b2", "c3"),
		testCommit("c3"),
	}
	be := linearBackend(commits)
	svc := newFakeService(be, Options{})

	if _, _, _, err := svc.ScanCommits(0, 2); err != nil {
		t.Fatalf("ScanCommits: %v", err)
	}
	// Re-reading from the top restarts the stream.
	entries, _, _, err := svc.ScanCommits(0, 2)
	if err != nil {
		t.Fatalf("ScanCommits: %v", err)
	}
	if len(entries) != 2 || entries[0].Commit.Hash != "a1" {
		t.Fatalf("unexpected batch after reset: %+v", entries)
	}
	if be.streamsStarted != 2 {
		t.Fatalf("streams started = %d, want 2", be.streamsStarted)
	}
}

func TestScanCommitsSkipPastEnd(t *testing.T) {
	t.Parallel()

	commits := []*Commit{testCommit("a1")}
	be := linearBackend(commits)
	svc := newFakeService(be, Options{})

	if _, _, _, err := svc.ScanCommits(0, 1); err != nil {
		t.Fatalf("ScanCommits: %v", err)
	}
	entries, headName, hasMore, err := svc.ScanCommits(10, 1)
	if err != nil {
		t.Fatalf("ScanCommits: %v", err)
	}
	if len(entries) != 0 || hasMore {
		t.Fatalf("expected empty result past end, got %d entries hasMore=%v", len(entries), hasMore)
	}
	if headName != "main" {
		t.Fatalf("head name = %q, want main", headName)
	}
}

func TestScanCommitsUnbornHead(t *testing.T) {
	t.Parallel()

	be := &fakeBackend{
		repoPath: "/tmp/repo",
		headStateFunc: func() (string, string, bool, error) {
			return "", "main", false, nil
		},
	}
	svc := newFakeService(be, Options{})

	entries, headName, hasMore, err := svc.ScanCommits(0, 10)
	if err != nil {
		t.Fatalf("ScanCommits: %v", err)
	}
	if entries != nil || headName != "" || hasMore {
		t.Fatalf("expected empty result for unborn HEAD, got %+v %q %v", entries, headName, hasMore)
	}
}

func TestScanCommitsHeadChangeResets(t *testing.T) {
	t.Parallel()

	head := "a1"
	histories := map[string][]*Commit{
		"a1": {testCommit("a1", "b2"), testCommit("b2")},
		"f6": {testCommit("f6", "a1"), testCommit("a1", "b2"), testCommit("b2")},
	}
	be := &fakeBackend{
		repoPath: "/tmp/repo",
		startLogStreamFunc: func(fromHash string) (gitbackend.LogStream, error) {
			return &fakeLogStream{commits: histories[fromHash]}, nil
		},
	}
	be.headStateFunc = func() (string, string, bool, error) {
		return head, "main", true, nil
	}
	svc := newFakeService(be, Options{})

	entries, _, _, err := svc.ScanCommits(0, 10)
	if err != nil {
		t.Fatalf("ScanCommits: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}

	// A new commit moved HEAD; the next scan starts a fresh session.
	head = "f6"
	entries, _, _, err = svc.ScanCommits(0, 10)
	if err != nil {
		t.Fatalf("ScanCommits: %v", err)
	}
	if len(entries) != 3 || entries[0].Commit.Hash != "f6" {
		t.Fatalf("unexpected batch after HEAD moved: %+v", entries)
	}
	if be.streamsStarted != 2 {
		t.Fatalf("streams started = %d, want 2", be.streamsStarted)
	}
}

func TestGraphSnapshotCoversScannedRows(t *testing.T) {
	t.Parallel()

	commits := []*Commit{
		testCommit("a1", "b2", "c3"),
		testCommit("b2", "d4"),
		testCommit("c3", "d4"),
		testCommit("d4"),
	}
	be := linearBackend(commits)
	svc := newFakeService(be, Options{})

	if _, _, _, err := svc.ScanCommits(0, 2); err != nil {
		t.Fatalf("ScanCommits: %v", err)
	}
	snap := svc.GraphSnapshot()
	if snap.Rows < 2 {
		t.Fatalf("snapshot rows = %d, want at least 2", snap.Rows)
	}

	if _, _, _, err := svc.ScanCommits(2, 2); err != nil {
		t.Fatalf("ScanCommits: %v", err)
	}
	snap = svc.GraphSnapshot()
	if snap.Rows != 4 {
		t.Fatalf("snapshot rows = %d, want 4", snap.Rows)
	}
	if len(snap.Dots) != 4 {
		t.Fatalf("len(Dots) = %d, want 4", len(snap.Dots))
	}
	if snap.Dots[0].Kind != graph.DotHead {
		t.Fatalf("dot 0 kind = %v, want head", snap.Dots[0].Kind)
	}
	if snap.Dots[2].Lane != 1 {
		t.Fatalf("side branch lane = %d, want 1", snap.Dots[2].Lane)
	}
	if len(snap.OpenLanes) != 0 {
		t.Fatalf("open lanes = %v, want none", snap.OpenLanes)
	}
	if len(snap.Links) != 2 {
		t.Fatalf("len(Links) = %d, want 2", len(snap.Links))
	}
}

func TestGraphSnapshotWithoutSession(t *testing.T) {
	t.Parallel()

	svc := newFakeService(&fakeBackend{repoPath: "/tmp/repo"}, Options{})
	snap := svc.GraphSnapshot()
	if snap == nil || snap.Rows != 0 || len(snap.Dots) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestBranchLabels(t *testing.T) {
	t.Parallel()

	be := &fakeBackend{
		repoPath: "/tmp/repo",
		headStateFunc: func() (string, string, bool, error) {
			return "a1", "main", true, nil
		},
		listRefsFunc: func() ([]gitbackend.Ref, error) {
			return []gitbackend.Ref{
				{Hash: "a1", Kind: RefKindBranch, Name: "main"},
				{Hash: "a1", Kind: RefKindTag, Name: "v1.0"},
				{Hash: "b2", Kind: RefKindRemoteBranch, Name: "origin/feature"},
				{Hash: "c3", Kind: RefKindRemoteBranch, Name: "origin/HEAD"},
			}, nil
		},
	}
	svc := newFakeService(be, Options{})

	labels, err := svc.BranchLabels()
	if err != nil {
		t.Fatalf("BranchLabels: %v", err)
	}
	want := []string{"HEAD -> main", "main", "tag: v1.0"}
	got := labels["a1"]
	if len(got) != len(want) {
		t.Fatalf("labels for a1 = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("labels for a1 = %v, want %v", got, want)
		}
	}
	if len(labels["b2"]) != 1 || labels["b2"][0] != "origin/feature" {
		t.Fatalf("labels for b2 = %v", labels["b2"])
	}
	if _, found := labels["c3"]; found {
		t.Fatalf("origin/HEAD should be skipped, got %v", labels["c3"])
	}
}

func TestBranchLabelsDetachedHead(t *testing.T) {
	t.Parallel()

	be := &fakeBackend{
		repoPath: "/tmp/repo",
		headStateFunc: func() (string, string, bool, error) {
			return "a1", "HEAD", true, nil
		},
		listRefsFunc: func() ([]gitbackend.Ref, error) {
			return nil, nil
		},
	}
	svc := newFakeService(be, Options{})

	labels, err := svc.BranchLabels()
	if err != nil {
		t.Fatalf("BranchLabels: %v", err)
	}
	if len(labels["a1"]) != 1 || labels["a1"][0] != "HEAD" {
		t.Fatalf("labels for a1 = %v, want [HEAD]", labels["a1"])
	}
}

func TestDiff(t *testing.T) {
	t.Parallel()

	be := &fakeBackend{
		repoPath: "/tmp/repo",
		commitDiffTextFunc: func(commitHash, parentHash string) (string, error) {
			return "diff --git a/f b/f\n", nil
		},
	}
	svc := newFakeService(be, Options{})

	commit := testCommit("a1", "b2")
	got, err := svc.Diff(commit)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if !strings.Contains(got, "commit a1") {
		t.Fatalf("diff missing header: %s", got)
	}
	if !strings.Contains(got, "diff --git a/f b/f") {
		t.Fatalf("diff missing body: %s", got)
	}
	if be.lastCommitHash != "a1" || be.lastParentHash != "b2" {
		t.Fatalf("backend called with %q/%q", be.lastCommitHash, be.lastParentHash)
	}
}

func TestDiffRootCommit(t *testing.T) {
	t.Parallel()

	be := &fakeBackend{
		repoPath: "/tmp/repo",
		commitDiffTextFunc: func(commitHash, parentHash string) (string, error) {
			return "", nil
		},
	}
	svc := newFakeService(be, Options{})

	got, err := svc.Diff(testCommit("a1"))
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if be.lastParentHash != "" {
		t.Fatalf("root commit should diff against empty parent, got %q", be.lastParentHash)
	}
	if !strings.Contains(got, "No file level changes.") {
		t.Fatalf("expected placeholder for empty diff: %s", got)
	}
}

func TestFormatCommitHeader(t *testing.T) {
	t.Parallel()

	ts := time.Date(2023, 7, 1, 12, 0, 0, 0, time.UTC)
	commit := &Commit{
		Hash:    "1234567890abcdef1234567890abcdef12345678",
		Author:  Signature{Name: "Alice", Email: "alice@example.com", When: ts},
		Message: "Subject line\n\nBody line",
	}
	got := FormatCommitHeader(commit)
	if !strings.Contains(got, "commit 1234567890abcdef1234567890abcdef12345678") {
		t.Fatalf("header missing hash: %s", got)
	}
	if !strings.Contains(got, "Author: Alice <alice@example.com>") {
		t.Fatalf("header missing author: %s", got)
	}
	if !strings.Contains(got, "    Subject line") || !strings.Contains(got, "    Body line") {
		t.Fatalf("header missing message lines: %s", got)
	}
	// Committer falls back to the author when absent.
	if !strings.Contains(got, "Committer: Alice <alice@example.com>") {
		t.Fatalf("header missing committer fallback: %s", got)
	}
}

func TestNewEntrySearchText(t *testing.T) {
	t.Parallel()

	commit := testCommit("ABCDEF1234")
	commit.Message = "Hello World"
	entry := newEntry(commit, 0)
	if entry.Summary == "" {
		t.Fatalf("summary should not be empty")
	}
	if !strings.Contains(entry.SearchText, "alice@example.com") ||
		!strings.Contains(entry.SearchText, "hello world") ||
		!strings.Contains(entry.SearchText, "abcdef1234") {
		t.Fatalf("search text not normalized: %s", entry.SearchText)
	}
}

func TestFormatSummaryTruncatesSubject(t *testing.T) {
	t.Parallel()

	commit := testCommit("a1")
	commit.Message = strings.Repeat("x", 120)
	summary := formatSummary(commit)
	if !strings.Contains(summary, strings.Repeat("x", 77)+"...") {
		t.Fatalf("summary not truncated: %s", summary)
	}
	if !strings.HasPrefix(summary, "a1") {
		t.Fatalf("summary missing short hash: %s", summary)
	}
}
