package api

import "context"

// Transcriber defines a transcription interface for converting audio files to text.
type Transcriber interface {
	Transcript(ctx context.Context, inputFilePath string) (string, error)
}

// Preparer is implemented by transcribers with expensive setup, such as
// loading a model. Stages call Prepare once, and only when work exists.
type Preparer interface {
	Prepare(ctx context.Context) error
}
