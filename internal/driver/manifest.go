package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"aivigen/internal/source"
)

// Increment when the manifest layout changes; older files are ignored.
const manifestSchema uint16 = 1

// manifest records, per definition file, the input digest and every output
// generated from it. Inputs stay in sorted path order so repeated runs over
// unchanged trees produce byte-identical manifests.
type manifest struct {
	Schema uint16
	Inputs []manifestEntry
}

type manifestEntry struct {
	Path    string   // absolute slash-normalized input path
	Hash    string   // hex sha256 of the normalized input content
	Module  string   // extracted module name
	Exports int      // export tests generated from this input
	Outputs []string // output paths relative to the output root
}

// index builds a lookup keyed by input path. Safe on a nil manifest.
func (m *manifest) index() map[string]manifestEntry {
	if m == nil {
		return nil
	}
	idx := make(map[string]manifestEntry, len(m.Inputs))
	for _, e := range m.Inputs {
		idx[e.Path] = e
	}
	return idx
}

// manifestCache хранит по одному манифесту на output-каталог в пользовательском
// кэше (XDG_CACHE_HOME либо ~/.cache).
type manifestCache struct {
	dir string
}

func cacheDir() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "aivigen"), nil
}

func openManifestCache() (*manifestCache, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &manifestCache{dir: dir}, nil
}

// manifestKey derives the cache file stem from the absolute output root, so
// distinct trees never share a manifest.
func manifestKey(outRoot string) string {
	abs, err := source.AbsolutePath(outRoot)
	if err != nil {
		abs = source.NormalizePath(outRoot)
	}
	sum := sha256.Sum256([]byte(abs))
	return hex.EncodeToString(sum[:])
}

func (c *manifestCache) pathFor(outRoot string) string {
	return filepath.Join(c.dir, manifestKey(outRoot)+".mp")
}

// load reads the manifest for outRoot. A missing file or a schema mismatch is
// a miss, not an error.
func (c *manifestCache) load(outRoot string) (*manifest, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	f, err := os.Open(c.pathFor(outRoot))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer func() { _ = f.Close() }()

	var m manifest
	if err := msgpack.NewDecoder(f).Decode(&m); err != nil {
		return nil, false, err
	}
	if m.Schema != manifestSchema {
		return nil, false, nil
	}
	return &m, true, nil
}

// store writes the manifest atomically: encode to a temp file in the cache
// directory, then rename over the target.
func (c *manifestCache) store(outRoot string, m *manifest) error {
	if c == nil {
		return nil
	}
	p := c.pathFor(outRoot)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := msgpack.NewEncoder(f).Encode(m); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	// Атомарная замена.
	return os.Rename(tmp, p)
}

// ManifestPath reports where the manifest for outRoot lives. The path is
// computed without touching the file system.
func ManifestPath(outRoot string) (string, error) {
	dir, err := cacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, manifestKey(outRoot)+".mp"), nil
}

// RemoveManifest deletes the cached manifest for outRoot, if present.
func RemoveManifest(outRoot string) error {
	p, err := ManifestPath(outRoot)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
