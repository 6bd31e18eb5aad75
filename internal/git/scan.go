package git

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/thiagokokada/gitlanes/internal/git/backend"
	"github.com/thiagokokada/gitlanes/internal/graph"
)

// scanSession streams one git log from HEAD and feeds every commit through
// the graph builder as it goes, so the layout always covers exactly the rows
// handed out so far. Batches appended later extend the same build, which
// keeps lane indices and colors stable across lazy loads.
type scanSession struct {
	head     string
	headName string

	stream backend.LogStream

	// buffered holds the next commit returned by hasMore() so ScanCommits can keep consuming in-order.
	buffered  *Commit
	exhausted bool
	returned  int

	graph *graph.Builder
}

func (s *Service) ensureScanSessionLocked(headHash, headName string) error {
	if s.scan != nil && s.scan.head == headHash {
		return nil
	}
	return s.resetScanLocked(headHash, headName)
}

func (s *Service) resetScanLocked(headHash, headName string) error {
	if s.scan != nil {
		s.scan.close()
		s.scan = nil
	}
	stream, err := s.backend.StartLogStream(headHash)
	if err != nil {
		return err
	}
	s.scan = &scanSession{
		head:     headHash,
		headName: headName,
		stream:   stream,
		graph:    graph.New(graph.Config{PaletteSize: s.opts.PaletteSize}),
	}
	slog.Debug("ScanCommits session initialized", slog.String("head", s.scan.headName))
	return nil
}

func (s *scanSession) close() {
	if s.stream != nil {
		if err := s.stream.Close(); err != nil {
			slog.Debug("git log stream close", slog.Any("error", err))
		}
	}
	s.stream = nil
	s.buffered = nil
	s.exhausted = true
}

func (s *scanSession) hasMore() (bool, error) {
	if s.exhausted {
		return false, nil
	}
	if s.buffered != nil {
		return true, nil
	}
	commit, err := s.readNextCommit()
	if err != nil {
		if err == io.EOF {
			s.exhausted = true
			return false, nil
		}
		return false, fmt.Errorf("iterate commits: %w", err)
	}
	s.buffered = commit
	return true, nil
}

func (s *scanSession) next() (*Commit, error) {
	if s.exhausted {
		return nil, io.EOF
	}
	if s.buffered != nil {
		commit := s.buffered
		s.buffered = nil
		s.returned++
		return commit, nil
	}
	commit, err := s.readNextCommit()
	if err != nil {
		if err == io.EOF {
			s.exhausted = true
		}
		return nil, err
	}
	s.returned++
	return commit, nil
}

func (s *scanSession) discard(count int) error {
	// Consume and drop commits to align the session position with the requested skip.
	for range count {
		if _, err := s.next(); err != nil {
			return err
		}
	}
	return nil
}

func (s *scanSession) readNextCommit() (*Commit, error) {
	if s.stream == nil {
		return nil, io.EOF
	}
	commit, err := s.stream.Next()
	if err != nil {
		return nil, err
	}
	s.graph.Append([]graph.Commit{{
		Hash:    commit.Hash,
		Parents: commit.ParentHashes,
		IsHead:  commit.Hash == s.head,
	}})
	return commit, nil
}
