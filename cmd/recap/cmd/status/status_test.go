package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"meeting-recap/internal/app/model"
)

func TestRenderRecords(t *testing.T) {
	out := renderRecords([]model.UnitRecord{
		{
			Stage:       model.StageSummarize,
			Unit:        "Sprint Planning 03-14",
			Outcome:     model.OutcomeDone,
			Duration:    1500 * time.Millisecond,
			ProcessedAt: time.Now(),
		},
		{
			Stage:        model.StageTranscribe,
			Unit:         "Call",
			Outcome:      model.OutcomeFailed,
			ErrorMessage: "tool failed",
			ProcessedAt:  time.Now(),
		},
	})

	assert.Contains(t, out, "Sprint Planning 03-14")
	assert.Contains(t, out, "1.5s")
	assert.Contains(t, out, "❌ failed")
	assert.Contains(t, out, "tool failed")
	assert.Contains(t, out, "STAGE")
}

func TestOutcomeLabel(t *testing.T) {
	assert.Equal(t, "✅ done", outcomeLabel(model.OutcomeDone))
	assert.Equal(t, "⚪ empty", outcomeLabel(model.OutcomeEmpty))
	assert.Equal(t, "skipped", outcomeLabel(model.OutcomeSkipped))
}
