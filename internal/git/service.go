package git

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/thiagokokada/gitlanes/internal/git/backend"
	"github.com/thiagokokada/gitlanes/internal/graph"
)

const DefaultBatch = 1000

// Options selects the backend and configures the graph layout.
type Options struct {
	// UseCLI shells out to the git executable instead of the pure-Go backend.
	UseCLI bool

	// PaletteSize is the number of lane colors to cycle through; 0 uses the
	// graph package default.
	PaletteSize int
}

// Service is the repository facade the GUI talks to. All methods are safe for
// concurrent use; scan state is serialized by mu.
type Service struct {
	opts Options

	// mu serializes access to operations that share iterators/state (scan session).
	mu      sync.Mutex
	backend backend.Backend
	scan    *scanSession
}

// Entry is one commit prepared for display.
type Entry struct {
	Commit     *Commit
	Row        int
	Summary    string
	SearchText string
}

func Open(repoPath string, opts Options) (*Service, error) {
	var (
		be  backend.Backend
		err error
	)
	if opts.UseCLI {
		be, err = backend.OpenCLI(repoPath)
	} else {
		be, err = backend.OpenNative(repoPath)
	}
	if err != nil {
		return nil, err
	}
	return &Service{opts: opts, backend: be}, nil
}

func (s *Service) RepoPath() string {
	return s.backend.RepoPath()
}

func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scan != nil {
		s.scan.close()
		s.scan = nil
	}
}

// ScanCommits returns the batch of commits at [skip, skip+batch) along with
// the HEAD ref name and whether more commits remain. Consecutive calls with
// increasing skip continue one streaming session, so lazy loading never
// re-reads (or re-lays-out) earlier rows.
func (s *Service) ScanCommits(skip, batch int) ([]*Entry, string, bool, error) {
	if batch <= 0 {
		batch = DefaultBatch
	}
	slog.Debug("ScanCommits start", slog.Int("skip", skip), slog.Int("batch", batch))
	s.mu.Lock()
	defer s.mu.Unlock()

	headHash, headName, ok, err := s.backend.HeadState()
	if err != nil {
		return nil, "", false, fmt.Errorf("resolve HEAD: %w", err)
	}
	if !ok {
		if s.scan != nil {
			s.scan.close()
			s.scan = nil
		}
		return nil, "", false, nil
	}
	if err := s.ensureScanSessionLocked(headHash, headName); err != nil {
		return nil, "", false, err
	}
	if skip < 0 {
		skip = 0
	}
	// If the caller requests a different position than the current session, reset and advance to skip.
	if skip != s.scan.returned {
		slog.Debug("ScanCommits reset session",
			slog.Int("requested_skip", skip),
			slog.Int("session_returned", s.scan.returned),
			slog.String("head", s.scan.headName),
		)
		if err := s.resetScanLocked(headHash, headName); err != nil {
			return nil, "", false, err
		}
		if err := s.scan.discard(skip); err != nil {
			if err == io.EOF {
				return nil, s.scan.headName, false, nil
			}
			return nil, "", false, fmt.Errorf("iterate commits: %w", err)
		}
	}

	entries := make([]*Entry, 0, batch)
	for len(entries) < batch {
		commit, err := s.scan.next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, "", false, fmt.Errorf("iterate commits: %w", err)
		}
		entries = append(entries, newEntry(commit, s.scan.returned-1))
	}
	hasMore, err := s.scan.hasMore()
	if err != nil {
		return nil, "", false, err
	}
	slog.Debug("ScanCommits done",
		slog.Int("returned", len(entries)),
		slog.Int("session_returned", s.scan.returned),
		slog.Bool("has_more", hasMore),
		slog.String("head", s.scan.headName),
	)
	return entries, s.scan.headName, hasMore, nil
}

// GraphSnapshot publishes the layout for every commit scanned so far in the
// current session. The snapshot is immutable; callers may hold on to it
// across reloads.
func (s *Service) GraphSnapshot() *graph.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scan == nil {
		return &graph.Snapshot{}
	}
	return s.scan.graph.Snapshot()
}

func newEntry(c *Commit, row int) *Entry {
	var b strings.Builder
	b.WriteString(strings.ToLower(c.Hash))
	b.WriteByte(' ')
	b.WriteString(strings.ToLower(c.Author.Name))
	b.WriteByte(' ')
	b.WriteString(strings.ToLower(c.Author.Email))
	b.WriteByte(' ')
	b.WriteString(strings.ToLower(c.Message))
	return &Entry{
		Commit:     c,
		Row:        row,
		Summary:    formatSummary(c),
		SearchText: b.String(),
	}
}

func formatSummary(c *Commit) string {
	firstLine := strings.SplitN(strings.TrimSpace(c.Message), "\n", 2)[0]
	if len(firstLine) > 80 {
		firstLine = firstLine[:77] + "..."
	}
	timestamp := c.Committer.When.Format("2006-01-02 15:04")
	return fmt.Sprintf("%s  %s  %s", shortHash(c.Hash), timestamp, firstLine)
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

// FormatCommitHeader renders the header shown above a commit's diff.
func FormatCommitHeader(c *Commit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "commit %s\n", c.Hash)
	appendSignatureLine(&b, "Author", c.Author)
	committer := c.Committer
	if committer.Name == "" && committer.Email == "" && committer.When.IsZero() {
		committer = c.Author
	}
	appendSignatureLine(&b, "Committer", committer)
	b.WriteString("\n")
	message := strings.TrimRight(c.Message, "\n")
	if message == "" {
		b.WriteString("    (no commit message)\n")
		return b.String()
	}
	for line := range strings.SplitSeq(message, "\n") {
		if line == "" {
			b.WriteString("\n")
			continue
		}
		fmt.Fprintf(&b, "    %s\n", line)
	}
	return b.String()
}

func appendSignatureLine(b *strings.Builder, label string, sig Signature) {
	fmt.Fprintf(b, "%s: %s <%s>", label, sig.Name, sig.Email)
	if !sig.When.IsZero() {
		fmt.Fprintf(b, "  %s", sig.When.Format("2006-01-02 15:04:05 -0700"))
	}
	b.WriteByte('\n')
}
