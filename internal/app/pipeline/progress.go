package pipeline

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

type ProgressConfig struct {
	Enabled bool
	Writer  io.Writer
}

// ProgressManager renders one bar per stage. A disabled manager hands out
// no-op bars.
type ProgressManager struct {
	container *mpb.Progress
	enabled   bool
	mu        sync.Mutex
}

type ProgressBar struct {
	bar     *mpb.Bar
	enabled bool
}

func NewProgressManager(config ProgressConfig) *ProgressManager {
	if !config.Enabled {
		return &ProgressManager{enabled: false}
	}

	writer := config.Writer
	if writer == nil {
		writer = os.Stderr
	}

	container := mpb.New(
		mpb.WithOutput(writer),
		mpb.WithRefreshRate(120*time.Millisecond),
	)

	return &ProgressManager{
		container: container,
		enabled:   true,
	}
}

func (pm *ProgressManager) CreateBar(total int, description string) *ProgressBar {
	if pm == nil || !pm.enabled || pm.container == nil {
		return &ProgressBar{enabled: false}
	}

	pm.mu.Lock()
	defer pm.mu.Unlock()

	bar := pm.container.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(description+" ", decor.WC{W: len(description) + 1, C: decor.DindentRight}),
			decor.CountersNoUnit("(%d/%d)", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.NewPercentage("%.1f", decor.WCSyncSpace),
			decor.OnComplete(
				decor.EwmaETA(decor.ET_STYLE_GO, 30, decor.WCSyncWidth), " ✓ ",
			),
		),
	)

	return &ProgressBar{
		bar:     bar,
		enabled: true,
	}
}

// Increment advances the bar by one unit. start is when the unit began and
// feeds the ETA average.
func (pb *ProgressBar) Increment(start time.Time) {
	if pb.enabled && pb.bar != nil {
		pb.bar.EwmaIncrement(time.Since(start))
	}
}

// Complete marks the bar done even if units were left uncounted.
func (pb *ProgressBar) Complete() {
	if pb.enabled && pb.bar != nil {
		pb.bar.SetTotal(pb.bar.Current(), true)
	}
}

func (pm *ProgressManager) Wait() {
	if pm != nil && pm.enabled && pm.container != nil {
		pm.container.Wait()
	}
}

func IsTTY(writer io.Writer) bool {
	if writer == nil {
		return false
	}

	if file, ok := writer.(*os.File); ok {
		stat, err := file.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// ShouldShowProgress reports whether bars should be drawn: always when
// forced, otherwise only on a terminal.
func ShouldShowProgress(forced bool) bool {
	if forced {
		return true
	}

	return IsTTY(os.Stderr)
}
