package backend

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// StartLogStream spawns git log from fromHash and streams parsed commits.
func (g *gitCLI) StartLogStream(fromHash string) (LogStream, error) {
	if g == nil || g.path == "" {
		return nil, fmt.Errorf("repository root not set")
	}
	fromHash = strings.TrimSpace(fromHash)
	if fromHash == "" {
		return nil, fmt.Errorf("starting commit not specified")
	}
	// NUL-delimited records; commit message cannot contain NUL.
	const format = "%H%n%P%n%an%n%ae%n%aI%n%cn%n%ce%n%cI%n%B%x00"

	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(
		ctx,
		"git",
		"--no-pager",
		"-C",
		g.path,
		"log",
		"--no-color",
		"--no-decorate",
		"--date-order",
		"--no-patch",
		// Use tformat to avoid git log adding an extra newline after each record.
		"--pretty=tformat:"+format,
		fromHash,
	)
	var stream gitLogStream
	stream.cancel = cancel
	stream.cmd = cmd
	cmd.Stderr = &stream.stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("git log stdout: %w", err)
	}
	stream.stdout = stdout
	stream.r = bufio.NewReader(stdout)
	if err := cmd.Start(); err != nil {
		cancel()
		_ = stdout.Close()
		if stream.stderr.Len() > 0 {
			return nil, fmt.Errorf("git log start: %v: %s", err, strings.TrimSpace(stream.stderr.String()))
		}
		return nil, fmt.Errorf("git log start: %w", err)
	}
	return &stream, nil
}

type gitLogStream struct {
	cancel context.CancelFunc
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr bytes.Buffer
	r      *bufio.Reader

	waitOnce sync.Once
	waitErr  error
}

func (s *gitLogStream) Next() (*Commit, error) {
	rec, err := s.r.ReadBytes(0)
	if err != nil {
		if err == io.EOF {
			if waitErr := s.wait(); waitErr != nil {
				return nil, waitErr
			}
			return nil, io.EOF
		}
		return nil, err
	}
	if len(rec) == 0 {
		return nil, io.EOF
	}
	// Strip trailing NUL.
	rec = rec[:len(rec)-1]
	// git log prints a newline between commits even when the format ends with NUL,
	// so subsequent records can start with '\n'.
	for len(rec) > 0 && (rec[0] == '\n' || rec[0] == '\r') {
		rec = rec[1:]
	}
	if len(rec) == 0 {
		return nil, fmt.Errorf("unexpected empty git log record")
	}
	return parseGitLogRecord(rec)
}

func (s *gitLogStream) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.stdout != nil {
		_ = s.stdout.Close()
	}
	return s.wait()
}

func (s *gitLogStream) wait() error {
	s.waitOnce.Do(func() {
		s.waitErr = s.cmd.Wait()
	})
	if s.waitErr == nil {
		return nil
	}
	if s.stderr.Len() > 0 {
		return fmt.Errorf("git log: %v: %s", s.waitErr, strings.TrimSpace(s.stderr.String()))
	}
	return fmt.Errorf("git log: %w", s.waitErr)
}

func parseGitLogRecord(rec []byte) (*Commit, error) {
	parts := strings.Split(string(rec), "\n")
	if len(parts) < 8 {
		return nil, fmt.Errorf("unexpected git log record: got %d lines", len(parts))
	}
	hashStr := strings.TrimSpace(parts[0])
	if hashStr == "" {
		return nil, fmt.Errorf("missing commit hash")
	}
	var parents []string
	parentLine := strings.TrimSpace(parts[1])
	if parentLine != "" {
		parents = append(parents, strings.Fields(parentLine)...)
	}
	authorWhen, _ := time.Parse(time.RFC3339, parts[4])
	committerWhen, _ := time.Parse(time.RFC3339, parts[7])
	message := ""
	if len(parts) > 8 {
		message = strings.Join(parts[8:], "\n")
	}
	return &Commit{
		Hash:         hashStr,
		ParentHashes: parents,
		Author:       Signature{Name: parts[2], Email: parts[3], When: authorWhen},
		Committer:    Signature{Name: parts[5], Email: parts[6], When: committerWhen},
		Message:      message,
	}, nil
}
