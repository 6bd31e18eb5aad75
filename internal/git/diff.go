package git

import "strings"

// Diff returns the commit header followed by the patch against the first
// parent (or the whole tree for a root commit).
func (s *Service) Diff(c *Commit) (string, error) {
	header := FormatCommitHeader(c)
	parent := ""
	if len(c.ParentHashes) > 0 {
		parent = c.ParentHashes[0]
	}
	body, err := s.backend.CommitDiffText(c.Hash, parent)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(body) == "" {
		return header + "\nNo file level changes.", nil
	}
	if !strings.HasPrefix(body, "\n") {
		body = "\n" + body
	}
	return header + body, nil
}
