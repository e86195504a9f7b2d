package files

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/samber/lo"

	"meeting-recap/internal/app/model"
)

// AudioExtensions are the recording formats picked up by discovery.
var AudioExtensions = []string{".m4a", ".mp3", ".wav", ".flac"}

// copy suffix added by file managers and sync clients, e.g. "Call (1)"
var duplicateSuffix = regexp.MustCompile(`\s*\(\d+\)$`)

// IsAudioFile matches the extension case-insensitively.
func IsAudioFile(name string) bool {
	return lo.Contains(AudioExtensions, strings.ToLower(filepath.Ext(name)))
}

// Stem returns the base name without its extension.
func Stem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// CanonicalName strips the extension and a trailing " (N)" copy suffix.
func CanonicalName(name string) string {
	return duplicateSuffix.ReplaceAllString(Stem(name), "")
}

// FindAudioFiles lists the recordings in dir, keeping one file per canonical
// name. Names are visited in lexicographic order and the first one wins,
// except that a file without a copy suffix always replaces a suffixed one.
// The result is sorted by canonical name.
func FindAudioFiles(dir string) ([]model.AudioFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio directory %s: %w", dir, err)
	}

	// os.ReadDir already returns entries sorted by file name
	seen := make(map[string]model.AudioFile)
	for _, entry := range entries {
		if entry.IsDir() || !IsAudioFile(entry.Name()) {
			continue
		}

		file := model.AudioFile{
			Name:      entry.Name(),
			Canonical: CanonicalName(entry.Name()),
			Path:      filepath.Join(dir, entry.Name()),
		}

		existing, ok := seen[file.Canonical]
		if !ok || (isCopy(existing) && !isCopy(file)) {
			seen[file.Canonical] = file
		}
	}

	result := lo.Values(seen)
	sort.Slice(result, func(i, j int) bool {
		return result[i].Canonical < result[j].Canonical
	})
	return result, nil
}

// ByCanonical maps canonical name to path.
func ByCanonical(audioFiles []model.AudioFile) map[string]string {
	return lo.Associate(audioFiles, func(f model.AudioFile) (string, string) {
		return f.Canonical, f.Path
	})
}

func isCopy(f model.AudioFile) bool {
	return Stem(f.Name) != f.Canonical
}

// ListFiles returns the sorted names of regular files in dir with the given
// extension. A missing directory yields an empty list.
func ListFiles(dir string, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	names := lo.FilterMap(entries, func(e os.DirEntry, _ int) (string, bool) {
		return e.Name(), !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ext)
	})
	return names, nil
}

// ReadOutputFile reads the specified output file and returns its text content.
func ReadOutputFile(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(content)), nil
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates dir and its parents if needed.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// WriteText replaces path atomically via a temp file in the same directory.
// Readers never observe a partial artifact.
func WriteText(path string, content string) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}
