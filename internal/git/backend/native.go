package backend

import (
	"fmt"
	"path/filepath"
	"strings"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pmezard/go-difflib/difflib"
)

type nativeGit struct {
	repo *gitlib.Repository
	path string
}

// OpenNative opens repoPath with the pure-Go git implementation. No git
// executable is required.
func OpenNative(repoPath string) (Backend, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}
	repo, err := gitlib.PlainOpenWithOptions(abs, &gitlib.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	return &nativeGit{repo: repo, path: abs}, nil
}

func (n *nativeGit) RepoPath() string {
	if n == nil {
		return ""
	}
	return n.path
}

func (n *nativeGit) HeadState() (hash string, headName string, ok bool, err error) {
	ref, err := n.repo.Head()
	if err != nil {
		if err == plumbing.ErrReferenceNotFound {
			return "", "", false, nil
		}
		return "", "", false, fmt.Errorf("resolve HEAD: %w", err)
	}
	headName = ref.Name().Short()
	if headName == "" {
		headName = "HEAD"
	}
	return ref.Hash().String(), headName, true, nil
}

func (n *nativeGit) StartLogStream(fromHash string) (LogStream, error) {
	fromHash = strings.TrimSpace(fromHash)
	if fromHash == "" {
		return nil, fmt.Errorf("starting commit not specified")
	}
	iter, err := n.repo.Log(&gitlib.LogOptions{
		From:  plumbing.NewHash(fromHash),
		Order: gitlib.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, fmt.Errorf("read commits: %w", err)
	}
	return &nativeLogStream{iter: iter}, nil
}

type nativeLogStream struct {
	iter object.CommitIter
}

func (s *nativeLogStream) Next() (*Commit, error) {
	commit, err := s.iter.Next()
	if err != nil {
		// io.EOF passes through as the end-of-stream sentinel.
		return nil, err
	}
	return convertCommit(commit), nil
}

func (s *nativeLogStream) Close() error {
	if s.iter != nil {
		s.iter.Close()
		s.iter = nil
	}
	return nil
}

func convertCommit(c *object.Commit) *Commit {
	parents := make([]string, 0, len(c.ParentHashes))
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}
	return &Commit{
		Hash:         c.Hash.String(),
		ParentHashes: parents,
		Author:       Signature{Name: c.Author.Name, Email: c.Author.Email, When: c.Author.When},
		Committer:    Signature{Name: c.Committer.Name, Email: c.Committer.Email, When: c.Committer.When},
		Message:      c.Message,
	}
}

func (n *nativeGit) ListRefs() ([]Ref, error) {
	iter, err := n.repo.References()
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	var refs []Ref
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		name := ref.Name()
		short := name.Short()
		if short == "" {
			return nil
		}
		switch {
		case name.IsBranch():
			refs = append(refs, Ref{Hash: ref.Hash().String(), Kind: RefKindBranch, Name: short})
		case name.IsRemote():
			refs = append(refs, Ref{Hash: ref.Hash().String(), Kind: RefKindRemoteBranch, Name: short})
		case name.IsTag():
			refs = append(refs, Ref{Hash: n.peelTagHash(ref.Hash()).String(), Kind: RefKindTag, Name: short})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// peelTagHash resolves an annotated tag to the commit it points at;
// lightweight tags already reference the commit directly.
func (n *nativeGit) peelTagHash(hash plumbing.Hash) plumbing.Hash {
	tag, err := n.repo.TagObject(hash)
	if err != nil {
		return hash
	}
	commit, err := tag.Commit()
	if err != nil {
		return hash
	}
	return commit.Hash
}

func (n *nativeGit) CommitDiffText(commitHash string, parentHash string) (string, error) {
	commitHash = strings.TrimSpace(commitHash)
	if commitHash == "" {
		return "", fmt.Errorf("commit not specified")
	}
	commit, err := n.repo.CommitObject(plumbing.NewHash(commitHash))
	if err != nil {
		return "", fmt.Errorf("load commit: %w", err)
	}
	currentTree, err := commit.Tree()
	if err != nil {
		return "", err
	}
	var parentTree *object.Tree
	parentHash = strings.TrimSpace(parentHash)
	if parentHash == "" && commit.NumParents() > 0 {
		parent, err := commit.Parent(0)
		if err != nil {
			return "", err
		}
		parentHash = parent.Hash.String()
	}
	if parentHash != "" {
		parent, err := n.repo.CommitObject(plumbing.NewHash(parentHash))
		if err != nil {
			return "", fmt.Errorf("load parent commit: %w", err)
		}
		parentTree, err = parent.Tree()
		if err != nil {
			return "", err
		}
	}
	changes, err := object.DiffTree(parentTree, currentTree)
	if err != nil {
		return "", err
	}
	return renderChanges(changes)
}

func renderChanges(changes object.Changes) (string, error) {
	var b strings.Builder
	for _, change := range changes {
		from, to, err := change.Files()
		if err != nil {
			return "", err
		}
		name := change.To.Name
		if name == "" {
			name = change.From.Name
		}
		fmt.Fprintf(&b, "diff --git a/%s b/%s\n", name, name)

		binary, err := binaryFiles(from, to)
		if err != nil {
			return "", err
		}
		if binary {
			b.WriteString("(binary files differ)\n")
			continue
		}

		fromLines, err := fileLines(from)
		if err != nil {
			return "", err
		}
		toLines, err := fileLines(to)
		if err != nil {
			return "", err
		}
		ud := difflib.UnifiedDiff{
			A:        fromLines,
			B:        toLines,
			FromFile: fmt.Sprintf("a/%s", name),
			ToFile:   fmt.Sprintf("b/%s", name),
			Context:  3,
		}
		diffText, err := difflib.GetUnifiedDiffString(ud)
		if err != nil {
			return "", err
		}
		if diffText == "" {
			b.WriteString("(no textual changes)\n")
			continue
		}
		b.WriteString(diffText)
		if !strings.HasSuffix(diffText, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

func binaryFiles(files ...*object.File) (bool, error) {
	for _, f := range files {
		if f == nil {
			continue
		}
		bin, err := f.IsBinary()
		if err != nil {
			return false, err
		}
		if bin {
			return true, nil
		}
	}
	return false, nil
}

func fileLines(f *object.File) ([]string, error) {
	if f == nil {
		return []string{}, nil
	}
	content, err := f.Contents()
	if err != nil {
		return nil, err
	}
	return difflib.SplitLines(content), nil
}
