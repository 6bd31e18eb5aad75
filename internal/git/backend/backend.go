package backend

// Backend abstracts access to repository data.
//
// Two implementations exist: a pure-Go one built on go-git (OpenNative) and
// one that shells out to the git executable (OpenCLI). Callers never see the
// difference.
type Backend interface {
	RepoPath() string
	StartLogStream(fromHash string) (LogStream, error)

	HeadState() (hash string, headName string, ok bool, err error)
	ListRefs() ([]Ref, error)

	CommitDiffText(commitHash string, parentHash string) (string, error)
}

// LogStream yields commits in history order (children before parents) until
// io.EOF.
type LogStream interface {
	Next() (*Commit, error)
	Close() error
}
