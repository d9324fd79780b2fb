// Package ledger maintains the registry's version history files and the
// registry-wide baseline file. It owns their JSON layout, the atomic
// replace-on-write persistence, and the reconciliation rules that decide
// whether a port's current (version, git-tree) pair is already recorded,
// genuinely new, or in conflict with the recorded history.
package ledger

import "github.com/dan-shaw/vcpkg-tool/internal/versions"

// UpdateResult reports whether a reconciliation mutated in-memory state.
type UpdateResult int

const (
	NotUpdated UpdateResult = iota
	Updated
)

func (r UpdateResult) String() string {
	if r == Updated {
		return "updated"
	}
	return "not updated"
}

// HistoryEntry binds a schemed version to the git tree object that produced
// it. The tree hash is opaque; the ledger only compares it for equality.
type HistoryEntry struct {
	Version versions.SchemedVersion
	GitTree string
}

// PortHistory is one port's published versions, newest first. At most one
// entry carries a given git tree, and at most one entry carries a given
// version.
type PortHistory struct {
	Entries []HistoryEntry
}

// Baseline maps each port name to its current default version.
type Baseline map[string]versions.Version
