package git

import "github.com/thiagokokada/gitlanes/internal/git/backend"

// The repository data types are defined next to the backends that produce
// them; alias them so callers only deal with this package.
type (
	Commit    = backend.Commit
	Signature = backend.Signature
	Ref       = backend.Ref
)

const (
	RefKindBranch       = backend.RefKindBranch
	RefKindRemoteBranch = backend.RefKindRemoteBranch
	RefKindTag          = backend.RefKindTag
)
