package git

import (
	"fmt"
	"strings"
)

// BranchLabels maps commit hashes to the decoration labels shown next to
// their graph dots. The HEAD label always comes first for its commit.
func (s *Service) BranchLabels() (map[string][]string, error) {
	labels := map[string][]string{}
	refs, err := s.backend.ListRefs()
	if err != nil {
		return nil, err
	}
	for _, ref := range refs {
		label, ok := refLabel(ref)
		if !ok {
			continue
		}
		labels[ref.Hash] = append(labels[ref.Hash], label)
	}
	headHash, headName, ok, err := s.backend.HeadState()
	if err != nil {
		return nil, err
	}
	if ok && headHash != "" {
		label := "HEAD"
		if headName != "" && headName != "HEAD" {
			label = fmt.Sprintf("HEAD -> %s", headName)
		}
		labels[headHash] = append([]string{label}, labels[headHash]...)
	}
	return labels, nil
}

func refLabel(ref Ref) (string, bool) {
	switch ref.Kind {
	case RefKindBranch:
		return ref.Name, true
	case RefKindRemoteBranch:
		if strings.HasSuffix(ref.Name, "/HEAD") {
			return "", false
		}
		return ref.Name, true
	case RefKindTag:
		return "tag: " + ref.Name, true
	default:
		return "", false
	}
}
