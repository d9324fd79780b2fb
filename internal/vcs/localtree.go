package vcs

import (
	"encoding/binary"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// LocalTreeProvider fingerprints a port by hashing its on-disk file tree
// with xxhash. It serves registries that are not git checkouts; unlike
// GitTreeProvider the fingerprint always reflects current file content, so
// there is never anything uncommitted to warn about.
type LocalTreeProvider struct {
	portsDir string
}

// NewLocalTreeProvider creates a provider over portsDir.
func NewLocalTreeProvider(portsDir string) *LocalTreeProvider {
	return &LocalTreeProvider{portsDir: portsDir}
}

// Fingerprint hashes the port directory's files in lexical walk order. The
// second return value is false when the port directory does not exist.
func (p *LocalTreeProvider) Fingerprint(port string) (string, bool, error) {
	dir := filepath.Join(p.portsDir, port)
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}

	digest := xxhash.New()
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		_, _ = digest.WriteString(filepath.ToSlash(rel))
		_, _ = digest.Write([]byte{0})

		fileHash, err := hashFile(path)
		if err != nil {
			return err
		}
		return binary.Write(digest, binary.LittleEndian, fileHash)
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to hash port tree %s: %w", dir, err)
	}

	return fmt.Sprintf("%016x", digest.Sum64()), true, nil
}

func hashFile(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	digest := xxhash.New()
	if _, err := io.Copy(digest, f); err != nil {
		return 0, err
	}
	return digest.Sum64(), nil
}

// HasLocalChanges always reports false: local fingerprints track the working
// tree directly.
func (p *LocalTreeProvider) HasLocalChanges(string) (bool, error) {
	return false, nil
}
