package source

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strings"
)

// FileFlags describes how a file entered the set and what was normalized on load.
type FileFlags uint8

const (
	// FileVirtual marks in-memory files (tests, generated input).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM marks files that carried a UTF-8 BOM which was stripped.
	FileHadBOM
	// FileNormalizedCRLF marks files whose \r\n sequences were rewritten to \n.
	FileNormalizedCRLF
)

// File is a single host source file with normalized content.
type File struct {
	Path    string
	Content []byte
	Hash    [32]byte // sha256 поверх нормализованного содержимого
	Flags   FileFlags
}

// Load reads a file from disk, strips a UTF-8 BOM, normalizes CRLF to LF,
// and hashes the normalized bytes.
func Load(path string) (*File, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}

	return &File{
		Path:    NormalizePath(path),
		Content: content,
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}, nil
}

// NewVirtual wraps in-memory content as a file. The content is hashed but not
// normalized; callers are expected to pass LF-terminated text.
func NewVirtual(name string, content []byte) *File {
	return &File{
		Path:    name,
		Content: content,
		Hash:    sha256.Sum256(content),
		Flags:   FileVirtual,
	}
}

// Lines splits the content into lines without the trailing \n.
// Line numbers reported elsewhere are 1-based indexes into this slice.
func (f *File) Lines() []string {
	return strings.Split(string(f.Content), "\n")
}

// HashHex returns the content hash as lowercase hex, the form stored in the
// generation manifest.
func (f *File) HashHex() string {
	return hex.EncodeToString(f.Hash[:])
}
