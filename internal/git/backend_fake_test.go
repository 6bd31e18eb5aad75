package git

import (
	"errors"
	"io"

	gitbackend "github.com/thiagokokada/gitlanes/internal/git/backend"
)

type fakeBackend struct {
	repoPath string

	headStateFunc      func() (hash string, headName string, ok bool, err error)
	listRefsFunc       func() ([]gitbackend.Ref, error)
	commitDiffTextFunc func(commitHash string, parentHash string) (string, error)
	startLogStreamFunc func(fromHash string) (gitbackend.LogStream, error)

	lastCommitHash string
	lastParentHash string
	streamsStarted int
}

func (f *fakeBackend) RepoPath() string { return f.repoPath }

func (f *fakeBackend) StartLogStream(fromHash string) (gitbackend.LogStream, error) {
	f.streamsStarted++
	if f.startLogStreamFunc != nil {
		return f.startLogStreamFunc(fromHash)
	}
	return nil, errors.New("unexpected StartLogStream call")
}

func (f *fakeBackend) HeadState() (hash string, headName string, ok bool, err error) {
	if f.headStateFunc != nil {
		return f.headStateFunc()
	}
	return "", "", false, errors.New("unexpected HeadState call")
}

func (f *fakeBackend) ListRefs() ([]gitbackend.Ref, error) {
	if f.listRefsFunc != nil {
		return f.listRefsFunc()
	}
	return nil, errors.New("unexpected ListRefs call")
}

func (f *fakeBackend) CommitDiffText(commitHash string, parentHash string) (string, error) {
	f.lastCommitHash = commitHash
	f.lastParentHash = parentHash
	if f.commitDiffTextFunc != nil {
		return f.commitDiffTextFunc(commitHash, parentHash)
	}
	return "", errors.New("unexpected CommitDiffText call")
}

// fakeLogStream replays a fixed slice of commits, then io.EOF.
type fakeLogStream struct {
	commits []*Commit
	pos     int
	closed  bool
}

func (f *fakeLogStream) Next() (*Commit, error) {
	if f.pos >= len(f.commits) {
		return nil, io.EOF
	}
	c := f.commits[f.pos]
	f.pos++
	return c, nil
}

func (f *fakeLogStream) Close() error {
	f.closed = true
	return nil
}

func newFakeService(be *fakeBackend, opts Options) *Service {
	return &Service{opts: opts, backend: be}
}
