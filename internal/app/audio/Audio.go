package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/mewkiz/flac"

	"meeting-recap/internal/app/model"
)

// Duration returns the length of the recording in seconds. WAV, MP3 and FLAC
// are measured with pure Go decoders; anything else (m4a) goes to ffprobe.
func Duration(ctx context.Context, filePath string) (float64, error) {
	var (
		seconds float64
		err     error
	)

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".wav":
		seconds, err = wavDuration(filePath)
	case ".mp3":
		seconds, err = mp3Duration(filePath)
	case ".flac":
		seconds, err = flacDuration(filePath)
	default:
		return probeDuration(ctx, filePath)
	}

	if err != nil {
		// container quirks the native decoders reject are usually fine for ffprobe
		if seconds, probeErr := probeDuration(ctx, filePath); probeErr == nil {
			return seconds, nil
		}
		return 0, err
	}
	return seconds, nil
}

func wavDuration(filePath string) (float64, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return 0, fmt.Errorf("invalid WAV file: %s", filePath)
	}
	d, err := decoder.Duration()
	if err != nil {
		return 0, err
	}
	return d.Seconds(), nil
}

func mp3Duration(filePath string) (float64, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	decoder, err := mp3.NewDecoder(file)
	if err != nil {
		return 0, err
	}
	// Length is in bytes of decoded 16-bit stereo PCM
	frames := decoder.Length() / 4
	if frames <= 0 || decoder.SampleRate() == 0 {
		return 0, fmt.Errorf("unknown MP3 length: %s", filePath)
	}
	return float64(frames) / float64(decoder.SampleRate()), nil
}

func flacDuration(filePath string) (float64, error) {
	stream, err := flac.Open(filePath)
	if err != nil {
		return 0, err
	}
	defer stream.Close()

	if stream.Info.SampleRate == 0 || stream.Info.NSamples == 0 {
		return 0, fmt.Errorf("FLAC stream info has no length: %s", filePath)
	}
	return float64(stream.Info.NSamples) / float64(stream.Info.SampleRate), nil
}

func probeDuration(ctx context.Context, filePath string) (float64, error) {
	probe, err := ffprobe(ctx, filePath)
	if err != nil {
		return 0, err
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(probe.Format.Duration), 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe returned no duration for %s: %w", filePath, err)
	}
	return seconds, nil
}

func ffprobe(ctx context.Context, filePath string) (*model.FFProbeOutput, error) {
	cmd := exec.CommandContext(ctx, "ffprobe", "-v", "quiet", "-print_format", "json", "-show_streams", "-show_format", filePath)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed for %s: %w", filePath, err)
	}

	var probeOutput model.FFProbeOutput
	if err := json.Unmarshal(output, &probeOutput); err != nil {
		return nil, err
	}
	return &probeOutput, nil
}

// Is16kHzWavFile reports whether filePath is 16-bit PCM WAV at 16 kHz, the
// only input whisper.cpp accepts without conversion.
func Is16kHzWavFile(filePath string) (bool, error) {
	if strings.ToLower(filepath.Ext(filePath)) != ".wav" {
		return false, nil
	}

	file, err := os.Open(filePath)
	if err != nil {
		return false, err
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return false, nil
	}
	return decoder.SampleRate == 16000 && decoder.BitDepth == 16 && decoder.WavAudioFormat == 1, nil
}

// ConvertTo16kHzWav converts inputFilePath into a 16 kHz mono WAV inside
// outputDir and returns the new path. Converted files never land next to the
// recordings, where discovery would pick them up as new audio.
func ConvertTo16kHzWav(ctx context.Context, inputFilePath string, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", err
	}

	base := strings.TrimSuffix(filepath.Base(inputFilePath), filepath.Ext(inputFilePath))
	outputWavPath := filepath.Join(outputDir, base+"_16khz.wav")

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y", "-i", inputFilePath, "-vn", "-acodec", "pcm_s16le", "-ar", "16000", "-ac", "1", outputWavPath)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("FFmpeg error: %v, stderr: %s", err, stderr.String())
	}

	return outputWavPath, nil
}
