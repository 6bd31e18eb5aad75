package backend

import (
	"fmt"
	"strings"
)

func (g *gitCLI) HeadState() (hash string, headName string, ok bool, err error) {
	if g == nil || g.path == "" {
		return "", "", false, fmt.Errorf("repository root not set")
	}
	out, err := g.runGitCommand([]string{"rev-parse", "-q", "--verify", "HEAD"}, true, "git rev-parse")
	if err != nil {
		return "", "", false, err
	}
	hash = strings.TrimSpace(out)
	if hash == "" {
		// Unborn branch: no commits yet.
		return "", "", false, nil
	}
	ref, err := g.runGitCommand([]string{"symbolic-ref", "-q", "--short", "HEAD"}, true, "git symbolic-ref")
	if err != nil {
		return "", "", false, err
	}
	headName = strings.TrimSpace(ref)
	if headName == "" {
		headName = "HEAD"
	}
	return hash, headName, true, nil
}

func (g *gitCLI) CommitDiffText(commitHash string, parentHash string) (string, error) {
	commitHash = strings.TrimSpace(commitHash)
	parentHash = strings.TrimSpace(parentHash)
	if commitHash == "" {
		return "", fmt.Errorf("commit not specified")
	}
	if parentHash != "" {
		return g.runGitCommand(
			[]string{"diff", "--no-color", parentHash, commitHash},
			true,
			"git diff",
		)
	}
	return g.runGitCommand(
		[]string{"show", "--no-color", "--pretty=format:", commitHash},
		false,
		"git show",
	)
}

func (g *gitCLI) ListRefs() ([]Ref, error) {
	if g == nil || g.path == "" {
		return nil, nil
	}
	out, err := g.runGitCommand(
		[]string{
			"--no-pager",
			"show-ref",
			"--dereference",
		},
		true,
		"git show-ref",
	)
	if err != nil {
		return nil, err
	}
	return parseRefsFromShowRef(out)
}

func parseRefsFromShowRef(out string) ([]Ref, error) {
	type refEntry struct {
		hash string
		ref  string
	}

	peeledByTagRef := map[string]string{}
	var entries []refEntry

	for _, rawLine := range strings.Split(out, "\n") {
		line := strings.TrimRight(rawLine, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) != 2 {
			return nil, fmt.Errorf("unexpected show-ref output line: %q", rawLine)
		}
		hash := strings.TrimSpace(parts[0])
		refName := strings.TrimSpace(parts[1])
		if hash == "" || refName == "" {
			return nil, fmt.Errorf("unexpected show-ref output line: %q", rawLine)
		}
		if strings.HasSuffix(refName, "^{}") {
			base := strings.TrimSuffix(refName, "^{}")
			if base != "" {
				peeledByTagRef[base] = hash
			}
			continue
		}
		entries = append(entries, refEntry{hash: hash, ref: refName})
	}

	var refs []Ref
	for _, entry := range entries {
		refName := entry.ref
		switch {
		case strings.HasPrefix(refName, "refs/tags/"):
			short := strings.TrimPrefix(refName, "refs/tags/")
			if short == "" {
				continue
			}
			hash := entry.hash
			if peeled, ok := peeledByTagRef[refName]; ok && peeled != "" {
				hash = peeled
			}
			refs = append(refs, Ref{Hash: hash, Kind: RefKindTag, Name: short})
		case strings.HasPrefix(refName, "refs/heads/"):
			short := strings.TrimPrefix(refName, "refs/heads/")
			if short == "" {
				continue
			}
			refs = append(refs, Ref{Hash: entry.hash, Kind: RefKindBranch, Name: short})
		case strings.HasPrefix(refName, "refs/remotes/"):
			short := strings.TrimPrefix(refName, "refs/remotes/")
			if short == "" {
				continue
			}
			refs = append(refs, Ref{Hash: entry.hash, Kind: RefKindRemoteBranch, Name: short})
		default:
			continue
		}
	}
	return refs, nil
}
