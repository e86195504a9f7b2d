package whisper_cpp

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"meeting-recap/internal/app/audio"
	"meeting-recap/internal/app/util/files"
)

// Config holds whisper.cpp invocation settings.
type Config struct {
	BinaryPath string
	ModelPath  string
	Language   string
	Prompt     string
	Threads    int
	// FP16 false forces CPU decoding at full precision.
	FP16 bool
	// TempDir holds converted audio and output files; empty uses the OS default.
	TempDir string
}

// LocalTranscriber implements local transcription, using local binary commands.
type LocalTranscriber struct {
	config Config
	logger *zap.Logger
}

// NewLocalTranscriber creates a new instance of LocalTranscriber.
func NewLocalTranscriber(config Config, logger *zap.Logger) *LocalTranscriber {
	if config.Language == "" {
		config.Language = "auto"
	}
	return &LocalTranscriber{
		config: config,
		logger: logger.With(zap.String("transcriber", "whisper_cpp")),
	}
}

// Prepare checks the binary and model are present before any unit is run.
// whisper-cli is a one-shot process, so it still loads the model once per
// file; the whisper_server transcriber keeps one model resident for a run.
func (lt *LocalTranscriber) Prepare(ctx context.Context) error {
	if _, err := exec.LookPath(lt.config.BinaryPath); err != nil {
		return fmt.Errorf("whisper.cpp binary not found: %w", err)
	}
	if !files.Exists(lt.config.ModelPath) {
		return fmt.Errorf("whisper.cpp model not found: %s", lt.config.ModelPath)
	}
	lt.logger.Info("whisper.cpp ready",
		zap.String("model", lt.config.ModelPath),
		zap.String("note", "model is loaded per file; use transcriber.provider whisper_server to keep it resident"))
	return nil
}

// Transcript runs whisper.cpp on inputFilePath and returns the trimmed text.
func (lt *LocalTranscriber) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	workDir, err := os.MkdirTemp(lt.config.TempDir, "recap-whisper-*")
	if err != nil {
		return "", fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	is16kHzWav, err := audio.Is16kHzWavFile(inputFilePath)
	if err != nil {
		return "", fmt.Errorf("error checking input file: %w", err)
	}

	if !is16kHzWav {
		lt.logger.Debug("converting to 16kHz wav", zap.String("file", inputFilePath))
		inputFilePath, err = audio.ConvertTo16kHzWav(ctx, inputFilePath, workDir)
		if err != nil {
			return "", fmt.Errorf("error converting input file: %w", err)
		}
	}

	outputBase := filepath.Join(workDir, "transcript")
	args := lt.buildArgs(inputFilePath, outputBase)

	command := exec.CommandContext(ctx, lt.config.BinaryPath, args...)
	var stdout, stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr

	lt.logger.Debug("running whisper.cpp", zap.String("command", lt.config.BinaryPath+" "+strings.Join(args, " ")))

	if err := command.Run(); err != nil {
		return "", fmt.Errorf("command execution error: %v, stderr: %s", err, stderr.String())
	}

	output, err := files.ReadOutputFile(outputBase + ".txt")
	if err != nil {
		return "", fmt.Errorf("failed to read output file: %w", err)
	}

	return output, nil
}

func (lt *LocalTranscriber) buildArgs(inputFilePath, outputBase string) []string {
	args := []string{
		"-m", lt.config.ModelPath,
		"-l", lt.config.Language,
		"-otxt",
		"-of", outputBase,
	}
	if lt.config.Prompt != "" {
		args = append(args, "--prompt", lt.config.Prompt)
	}
	if lt.config.Threads > 0 {
		args = append(args, "-t", strconv.Itoa(lt.config.Threads))
	}
	if !lt.config.FP16 {
		args = append(args, "-ng")
	}
	return append(args, "-f", inputFilePath)
}
