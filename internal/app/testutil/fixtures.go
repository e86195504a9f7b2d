package testutil

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Sample meeting content shared by stage tests.
const (
	SampleTranscript = "Alice: let's ship the importer on Friday. Bob: I will update the docs by next week."
	SampleSummary    = "The team agreed to ship the importer on Friday."
	SampleBacklog    = "- Ship the importer (Alice, Friday)\n- Update the docs (Bob, next week)"
)

// MeetingTree is a temporary workspace with the standard stage directories.
type MeetingTree struct {
	Root           string
	Audio          string
	Transcriptions string
	Summaries      string
	ActionItems    string
}

// NewMeetingTree creates the directories under t.TempDir(). The audio
// directory is the root itself, like a recorder's sync folder.
func NewMeetingTree(t *testing.T) *MeetingTree {
	t.Helper()

	root := t.TempDir()
	tree := &MeetingTree{
		Root:           root,
		Audio:          root,
		Transcriptions: filepath.Join(root, "transcriptions"),
		Summaries:      filepath.Join(root, "summaries"),
		ActionItems:    filepath.Join(root, "action_items"),
	}
	for _, dir := range []string{tree.Transcriptions, tree.Summaries, tree.ActionItems} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}
	return tree
}

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// ReadFile returns the content of path, failing the test if it is missing.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(content)
}

// WriteWAV writes a mono 16-bit PCM sine tone of the given length.
func WriteWAV(t *testing.T, path string, sampleRate int, seconds float64) string {
	t.Helper()

	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer file.Close()

	encoder := wav.NewEncoder(file, sampleRate, 16, 1, 1)

	n := int(float64(sampleRate) * seconds)
	buf := &audio.IntBuffer{
		Data:           make([]int, n),
		Format:         &audio.Format{SampleRate: sampleRate, NumChannels: 1},
		SourceBitDepth: 16,
	}
	for i := range buf.Data {
		buf.Data[i] = int(8000 * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate)))
	}

	if err := encoder.Write(buf); err != nil {
		t.Fatalf("Failed to encode %s: %v", path, err)
	}
	if err := encoder.Close(); err != nil {
		t.Fatalf("Failed to finalize %s: %v", path, err)
	}
	return path
}

// FakeBinary writes an executable shell script into dir and returns its path.
func FakeBinary(t *testing.T, dir, name, script string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatalf("Failed to write fake binary %s: %v", path, err)
	}
	return path
}
