package ledger

import "github.com/dan-shaw/vcpkg-tool/internal/versions"

// ReconcileBaseline points port at version in the baseline map. Inserting a
// new port or replacing a different version reports Updated; an equal
// version leaves the map untouched.
//
// The caller persists the baseline only when the result is Updated.
func ReconcileBaseline(b Baseline, port string, v versions.Version) UpdateResult {
	if current, ok := b[port]; ok && current.Equal(v) {
		return NotUpdated
	}
	b[port] = v
	return Updated
}
