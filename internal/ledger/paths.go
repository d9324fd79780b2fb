package ledger

import "path/filepath"

// VersionsFilePath returns the per-port version file path under versionsDir.
// Files are bucketed by the port name's first character, e.g.
// versions/z-/zlib.json.
func VersionsFilePath(versionsDir, port string) string {
	if port == "" {
		return filepath.Join(versionsDir, ".json")
	}
	bucket := string(port[0]) + "-"
	return filepath.Join(versionsDir, bucket, port+".json")
}
