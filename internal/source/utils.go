package source

import (
	"bytes"
	"path/filepath"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
// Возвращает флаг: были ли замены.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !bytes.Contains(content, []byte{'\r', '\n'}) {
		return content, false
	}
	return bytes.ReplaceAll(content, []byte{'\r', '\n'}, []byte{'\n'}), true
}

func removeBOM(content []byte) ([]byte, bool) {
	if !bytes.HasPrefix(content, utf8BOM) {
		return content, false
	}
	return content[len(utf8BOM):], true
}

// NormalizePath приводит путь к единому виду: slash-разделители в логах,
// манифесте и отчётах на всех платформах.
func NormalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// AbsolutePath resolves a path against the working directory and normalizes it.
func AbsolutePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return NormalizePath(abs), nil
}

// RelativePath rewrites path relative to baseDir. Paths outside baseDir fall
// back to the absolute form so log lines never show ../../ chains.
func RelativePath(path, baseDir string) (string, error) {
	abs, err := AbsolutePath(path)
	if err != nil {
		return "", err
	}
	absBase, err := AbsolutePath(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(filepath.FromSlash(absBase), filepath.FromSlash(abs))
	if err != nil || strings.HasPrefix(rel, "..") {
		return abs, nil
	}
	return NormalizePath(rel), nil
}

// BaseName returns the last path element, used to match index files by name.
func BaseName(path string) string {
	return filepath.Base(filepath.FromSlash(path))
}
