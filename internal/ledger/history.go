package ledger

import (
	"github.com/dan-shaw/vcpkg-tool/internal/versions"
	vcpkgerrors "github.com/dan-shaw/vcpkg-tool/pkg/errors"
)

// ReconcileHistory decides how a port's current (version, git-tree) pair
// relates to its recorded history and mutates the history accordingly.
//
// With no prior entries the pair becomes the sole entry. If the tree is
// already recorded under the same version nothing changes; under a different
// version the update is refused (ContentUnchangedError). If the version is
// already recorded under a different tree the update is refused
// (VersionConflictError) unless overwrite is set, in which case the existing
// entry is rewritten in place. Otherwise the pair is prepended as a new
// entry, keeping newest-first order.
//
// The caller persists the history only when the result is Updated.
func ReconcileHistory(h *PortHistory, port string, v versions.SchemedVersion, gitTree string, overwrite bool) (UpdateResult, error) {
	for _, entry := range h.Entries {
		if entry.GitTree != gitTree {
			continue
		}
		if entry.Version.Version.Equal(v.Version) {
			return NotUpdated, nil
		}
		return NotUpdated, vcpkgerrors.NewContentUnchangedError(port, entry.Version.Version, gitTree)
	}

	for i, entry := range h.Entries {
		if !entry.Version.Version.Equal(v.Version) {
			continue
		}
		if !overwrite {
			return NotUpdated, vcpkgerrors.NewVersionConflictError(port, v.Version, entry.GitTree, gitTree)
		}
		h.Entries[i] = HistoryEntry{Version: v, GitTree: gitTree}
		return Updated, nil
	}

	h.Entries = append([]HistoryEntry{{Version: v, GitTree: gitTree}}, h.Entries...)
	return Updated, nil
}
