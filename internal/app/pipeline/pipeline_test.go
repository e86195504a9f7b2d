package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"meeting-recap/internal/app/digest"
	apperrors "meeting-recap/internal/app/errors"
	"meeting-recap/internal/app/model"
	"meeting-recap/internal/app/testutil"
)

func newTestRunner(t *testing.T, tree *testutil.MeetingTree) (*Runner, *testutil.MockUnitDAO) {
	t.Helper()

	dao := testutil.NewMockUnitDAO()
	r := NewRunner(Dirs{
		Audio:          tree.Audio,
		Transcriptions: tree.Transcriptions,
		Summaries:      tree.Summaries,
		ActionItems:    tree.ActionItems,
		Temp:           t.TempDir(),
	}, Options{
		AssumedYear: 2025,
		Digest:      digest.Options{WeekHeadings: true},
	}, nil, dao, nil, nil, zap.NewNop())
	return r, dao
}

func TestTranscribe_DeduplicatesAndSkipsExisting(t *testing.T) {
	tree := testutil.NewMeetingTree(t)
	testutil.WriteFile(t, tree.Audio, "Call.m4a", "audio")
	testutil.WriteFile(t, tree.Audio, "Call (1).m4a", "audio")
	testutil.WriteFile(t, tree.Audio, "Standup 04-04-2025.mp3", "audio")
	testutil.WriteFile(t, tree.Audio, "notes.txt", "not audio")
	testutil.WriteFile(t, tree.Transcriptions, "Standup 04-04-2025.txt", "already done")

	transcriber := testutil.NewMockTranscriber().WithDefaultResponse("  " + testutil.SampleTranscript + "\n")
	r, dao := newTestRunner(t, tree)

	rep, err := r.Transcribe(context.Background(), transcriber)
	require.NoError(t, err)

	assert.Equal(t, []string{"Call.m4a"}, transcriber.CalledFiles())
	assert.Equal(t, 1, transcriber.GetPrepareCount())
	assert.Equal(t, 1, rep.Done)
	assert.Equal(t, 1, rep.Skipped)
	assert.Equal(t, testutil.SampleTranscript, testutil.ReadFile(t, filepath.Join(tree.Transcriptions, "Call.txt")))
	assert.Equal(t, "already done", testutil.ReadFile(t, filepath.Join(tree.Transcriptions, "Standup 04-04-2025.txt")))

	assert.Equal(t, map[string]model.Outcome{"Call": model.OutcomeDone}, dao.Outcomes(model.StageTranscribe))
	for _, rec := range dao.GetRecords() {
		assert.Equal(t, r.RunID(), rec.RunID)
	}
}

func TestTranscribe_IsIdempotent(t *testing.T) {
	tree := testutil.NewMeetingTree(t)
	testutil.WriteFile(t, tree.Audio, "A.m4a", "audio")
	testutil.WriteFile(t, tree.Audio, "B.wav", "audio")

	r, _ := newTestRunner(t, tree)
	first := testutil.NewMockTranscriber()
	_, err := r.Transcribe(context.Background(), first)
	require.NoError(t, err)
	assert.Equal(t, 2, first.GetCallCount())

	second := testutil.NewMockTranscriber()
	rep, err := r.Transcribe(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, 0, second.GetCallCount())
	assert.Equal(t, 0, second.GetPrepareCount(), "nothing to do, model never loaded")
	assert.Equal(t, 2, rep.Skipped)
}

func TestTranscribe_FailureDoesNotStopLaterUnits(t *testing.T) {
	tree := testutil.NewMeetingTree(t)
	testutil.WriteFile(t, tree.Audio, "A.m4a", "audio")
	testutil.WriteFile(t, tree.Audio, "B.m4a", "audio")
	testutil.WriteFile(t, tree.Audio, "C.m4a", "audio")

	transcriber := testutil.NewMockTranscriber().SimulateNetworkError("A.m4a")
	r, dao := newTestRunner(t, tree)

	rep, err := r.Transcribe(context.Background(), transcriber)
	require.NoError(t, err)

	assert.Equal(t, []string{"A.m4a", "B.m4a", "C.m4a"}, transcriber.CalledFiles())
	assert.Equal(t, 1, rep.Failed)
	assert.Equal(t, 2, rep.Done)
	assert.NoFileExists(t, filepath.Join(tree.Transcriptions, "A.txt"))
	assert.FileExists(t, filepath.Join(tree.Transcriptions, "B.txt"))
	assert.FileExists(t, filepath.Join(tree.Transcriptions, "C.txt"))

	outcomes := dao.Outcomes(model.StageTranscribe)
	assert.Equal(t, model.OutcomeFailed, outcomes["A"])
	for _, rec := range dao.GetRecords() {
		if rec.Unit == "A" {
			assert.Contains(t, rec.ErrorMessage, "connection timeout")
		}
	}
}

func TestTranscribe_EmptyResultWritesNothing(t *testing.T) {
	tree := testutil.NewMeetingTree(t)
	testutil.WriteFile(t, tree.Audio, "Silence.flac", "audio")

	transcriber := testutil.NewMockTranscriber().SetResponseForFile("Silence.flac", " \n\t ")
	r, dao := newTestRunner(t, tree)

	rep, err := r.Transcribe(context.Background(), transcriber)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Empty)
	assert.NoFileExists(t, filepath.Join(tree.Transcriptions, "Silence.txt"))
	assert.Equal(t, model.OutcomeEmpty, dao.Outcomes(model.StageTranscribe)["Silence"])
}

func TestTranscribe_NoAudio(t *testing.T) {
	tree := testutil.NewMeetingTree(t)
	transcriber := testutil.NewMockTranscriber()
	r, _ := newTestRunner(t, tree)

	rep, err := r.Transcribe(context.Background(), transcriber)
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Total())
	assert.Equal(t, 0, transcriber.GetPrepareCount())
}

func TestTranscribe_PrepareFailureAbortsStage(t *testing.T) {
	tree := testutil.NewMeetingTree(t)
	testutil.WriteFile(t, tree.Audio, "A.m4a", "audio")

	transcriber := testutil.NewMockTranscriber()
	transcriber.PrepareError = errors.New("model not found")
	r, _ := newTestRunner(t, tree)

	_, err := r.Transcribe(context.Background(), transcriber)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrToolFailed))
	assert.Equal(t, 0, transcriber.GetCallCount())
}

func TestTranscribe_UnreadableAudioDir(t *testing.T) {
	tree := testutil.NewMeetingTree(t)
	r, _ := newTestRunner(t, tree)
	r.dirs.Audio = filepath.Join(tree.Root, "missing")

	_, err := r.Transcribe(context.Background(), testutil.NewMockTranscriber())
	assert.True(t, errors.Is(err, apperrors.ErrDirUnreadable))
}

func TestSummarize_NewestFirstWithHeader(t *testing.T) {
	tree := testutil.NewMeetingTree(t)
	testutil.WriteFile(t, tree.Transcriptions, "04-04-2025.txt", "transcript-april")
	testutil.WriteFile(t, tree.Transcriptions, "MyRec_0526_2113.txt", "transcript-may")
	testutil.WriteFile(t, tree.Transcriptions, "notes.txt", "transcript-undated")

	generator := testutil.NewMockGenerator().WithDefaultResponse("\n" + testutil.SampleSummary + "  ")
	r, dao := newTestRunner(t, tree)

	rep, err := r.Summarize(context.Background(), generator)
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Done)

	prompts := generator.GetPrompts()
	require.Len(t, prompts, 3)
	assert.Contains(t, prompts[0], "transcript-may")
	assert.Contains(t, prompts[1], "transcript-april")
	assert.Contains(t, prompts[2], "transcript-undated")
	assert.True(t, strings.HasPrefix(prompts[0], "Please provide a concise summary"))

	assert.Equal(t,
		"# Summary for 04-04-2025\n\n_Recorded: 2025-04-04_\n\n"+testutil.SampleSummary+"\n",
		testutil.ReadFile(t, filepath.Join(tree.Summaries, "04-04-2025.md")))
	assert.Equal(t,
		"# Summary for notes\n\n"+testutil.SampleSummary+"\n",
		testutil.ReadFile(t, filepath.Join(tree.Summaries, "notes.md")))
	assert.Len(t, dao.Outcomes(model.StageSummarize), 3)
}

func TestSummarize_SkipsExistingEmptyAndFailed(t *testing.T) {
	tree := testutil.NewMeetingTree(t)
	testutil.WriteFile(t, tree.Transcriptions, "done.txt", "transcript-done")
	testutil.WriteFile(t, tree.Summaries, "done.md", "# Summary for done")
	testutil.WriteFile(t, tree.Transcriptions, "blank.txt", "   \n")
	testutil.WriteFile(t, tree.Transcriptions, "broken.txt", "transcript-broken")
	testutil.WriteFile(t, tree.Transcriptions, "silent.txt", "transcript-silent")
	testutil.WriteFile(t, tree.Transcriptions, "good.txt", "transcript-good")

	generator := testutil.NewMockGenerator().
		SetErrorFor("transcript-broken", errors.New("quota exceeded")).
		SetResponseFor("transcript-silent", "  ")
	r, dao := newTestRunner(t, tree)

	rep, err := r.Summarize(context.Background(), generator)
	require.NoError(t, err)

	assert.Equal(t, Report{Stage: model.StageSummarize, Done: 1, Skipped: 1, Empty: 1, Failed: 2}, rep)
	assert.Equal(t, 3, generator.GetCallCount(), "no call for existing or blank units")
	assert.FileExists(t, filepath.Join(tree.Summaries, "good.md"))
	assert.NoFileExists(t, filepath.Join(tree.Summaries, "broken.md"))
	assert.NoFileExists(t, filepath.Join(tree.Summaries, "silent.md"))
	assert.Equal(t, "# Summary for done", testutil.ReadFile(t, filepath.Join(tree.Summaries, "done.md")))

	outcomes := dao.Outcomes(model.StageSummarize)
	assert.Equal(t, model.OutcomeFailed, outcomes["silent"])
	assert.Equal(t, model.OutcomeEmpty, outcomes["blank"])
	_, recorded := outcomes["done"]
	assert.False(t, recorded, "skipped units stay out of the ledger")

	for _, rec := range dao.GetRecords() {
		if rec.Unit == "blank" {
			assert.Contains(t, rec.ErrorMessage, apperrors.ErrEmptyInput.Error())
		}
	}
}

func TestGenerate_BlankTranscriptIsEmptyInput(t *testing.T) {
	tree := testutil.NewMeetingTree(t)
	path := testutil.WriteFile(t, tree.Transcriptions, "blank.txt", "\n \t\n")
	generator := testutil.NewMockGenerator()
	r, _ := newTestRunner(t, tree)

	_, outcome, err := r.generate(context.Background(), generator, model.DatedDocument{Name: "blank.txt", Path: path}, r.prompts.Summary)
	assert.Equal(t, model.OutcomeEmpty, outcome)
	assert.ErrorIs(t, err, apperrors.ErrEmptyInput)
	assert.Equal(t, 0, generator.GetCallCount())
}

func TestExtractActionItems_BacklogInRecordingOrder(t *testing.T) {
	tree := testutil.NewMeetingTree(t)
	testutil.WriteFile(t, tree.Transcriptions, "MyRec_0526_2113.txt", "transcript-may")
	testutil.WriteFile(t, tree.Transcriptions, "04-04-2025.txt", "transcript-april")
	testutil.WriteFile(t, tree.Transcriptions, "notes.txt", "transcript-undated")
	testutil.WriteFile(t, filepath.Join(tree.ActionItems, "items"), "04-04-2025.md", "- cached item")

	generator := testutil.NewMockGenerator().
		SetResponseFor("transcript-may", "- may item").
		SetResponseFor("transcript-undated", "- undated item")
	r, _ := newTestRunner(t, tree)

	rep, err := r.ExtractActionItems(context.Background(), generator)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Done)
	assert.Equal(t, 1, rep.Skipped)
	assert.True(t, strings.HasPrefix(generator.GetPrompts()[0], "From the following meeting transcription"))

	want := "# Sprint Backlog - Action Items\n\n" +
		"## From: notes.txt\n\n- undated item" + digest.Separator +
		"## From: 04-04-2025.txt\n\n- cached item" + digest.Separator +
		"## From: MyRec_0526_2113.txt\n\n- may item" + digest.Separator
	got, err := os.ReadFile(r.BacklogPath())
	require.NoError(t, err)
	assert.Equal(t, want, string(got))
}

func TestExtractActionItems_RemovesStaleBacklog(t *testing.T) {
	tree := testutil.NewMeetingTree(t)
	testutil.WriteFile(t, tree.Transcriptions, "A.txt", "transcript-a")
	generator := testutil.NewMockGenerator().SetErrorFor("transcript-a", errors.New("timeout"))
	r, _ := newTestRunner(t, tree)
	testutil.WriteFile(t, tree.ActionItems, BacklogFile, "# old backlog")

	rep, err := r.ExtractActionItems(context.Background(), generator)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Failed)
	assert.NoFileExists(t, r.BacklogPath(), "no cached items back the old backlog")

	require.NoError(t, os.Remove(filepath.Join(tree.Transcriptions, "A.txt")))
	testutil.WriteFile(t, tree.ActionItems, BacklogFile, "# old backlog")

	_, err = r.ExtractActionItems(context.Background(), generator)
	require.NoError(t, err)
	assert.NoFileExists(t, r.BacklogPath())
}

func TestExtractActionItems_FailedUnitLeftOutOfBacklog(t *testing.T) {
	tree := testutil.NewMeetingTree(t)
	testutil.WriteFile(t, tree.Transcriptions, "A.txt", "transcript-a")
	testutil.WriteFile(t, tree.Transcriptions, "B.txt", "transcript-b")

	generator := testutil.NewMockGenerator().
		SetErrorFor("transcript-a", errors.New("timeout")).
		SetResponseFor("transcript-b", testutil.SampleBacklog)
	r, _ := newTestRunner(t, tree)

	rep, err := r.ExtractActionItems(context.Background(), generator)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Failed)

	backlog := testutil.ReadFile(t, r.BacklogPath())
	assert.NotContains(t, backlog, "## From: A.txt")
	assert.Contains(t, backlog, "## From: B.txt\n\n"+testutil.SampleBacklog)
	assert.NoFileExists(t, r.ItemsPath("A"))
}

type recordingPublisher struct {
	paths []string
	err   error
}

func (p *recordingPublisher) Publish(ctx context.Context, path string) (string, error) {
	p.paths = append(p.paths, filepath.Base(path))
	return "s3://bucket/" + filepath.Base(path), p.err
}

func TestDigest_ComposesAndExcludesItself(t *testing.T) {
	tree := testutil.NewMeetingTree(t)
	testutil.WriteFile(t, tree.Summaries, "MyRec_0527_0900.md", "# Summary for MyRec_0527_0900")
	testutil.WriteFile(t, tree.Summaries, "MyRec_0526_2113.md", "# Summary for MyRec_0526_2113")
	testutil.WriteFile(t, tree.Summaries, "04-04-2025.md", "# Summary for 04-04-2025")
	testutil.WriteFile(t, tree.Summaries, "all_summaries.md", "stale digest")

	pub := &recordingPublisher{}
	r, dao := newTestRunner(t, tree)
	r.publisher = pub

	rep, err := r.Digest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Done)

	want := "# All Meeting Summaries\n\n" +
		"## Week 14, 2025 (Starting 2025-03-31)\n\n" +
		"# Summary for 04-04-2025" + digest.Separator +
		"## Week 22, 2025 (Starting 2025-05-26)\n\n" +
		"# Summary for MyRec_0526_2113" + digest.Separator +
		"# Summary for MyRec_0527_0900" + digest.Separator
	got, err := os.ReadFile(r.DigestPath())
	require.NoError(t, err)
	assert.Equal(t, want, string(got))
	assert.NotContains(t, string(got), "stale digest")

	assert.Equal(t, []string{"all_summaries.md"}, pub.paths)
	assert.Equal(t, model.OutcomeDone, dao.Outcomes(model.StageDigest)["all_summaries.md"])

	// running again does not fold the digest into itself
	_, err = r.Digest(context.Background())
	require.NoError(t, err)
	again, err := os.ReadFile(r.DigestPath())
	require.NoError(t, err)
	assert.Equal(t, want, string(again))
}

func TestDigest_DocxAndPublishFailure(t *testing.T) {
	tree := testutil.NewMeetingTree(t)
	testutil.WriteFile(t, tree.Summaries, "04-04-2025.md", "# Summary for 04-04-2025")

	pub := &recordingPublisher{err: errors.New("bucket missing")}
	r, dao := newTestRunner(t, tree)
	r.opts.Docx = true
	r.opts.DocxFile = "all_summaries.docx"
	r.publisher = pub

	_, err := r.Digest(context.Background())
	require.NoError(t, err, "publishing is best effort")

	assert.FileExists(t, filepath.Join(tree.Summaries, "all_summaries.docx"))
	assert.Equal(t, []string{"all_summaries.md", "all_summaries.docx"}, pub.paths)
	records := dao.GetRecords()
	require.Len(t, records, 1)
	assert.Contains(t, records[0].ErrorMessage, "bucket missing")
}

func TestDigest_NoSummaries(t *testing.T) {
	tree := testutil.NewMeetingTree(t)
	r, _ := newTestRunner(t, tree)

	rep, err := r.Digest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Total())
	assert.NoFileExists(t, r.DigestPath())
}

func TestEmptyStagesStillStampLastRun(t *testing.T) {
	tree := testutil.NewMeetingTree(t)
	r, _ := newTestRunner(t, tree)

	reports, err := r.RunAll(context.Background(), testutil.NewMockTranscriber(), testutil.NewMockGenerator())
	require.NoError(t, err)
	require.Len(t, reports, 4)
	for _, rep := range reports {
		assert.Equal(t, 0, rep.Total(), rep.Stage)
	}

	count, err := promtestutil.GatherAndCount(r.Metrics().Registry(), "recap_last_run_timestamp_seconds")
	require.NoError(t, err)
	assert.Equal(t, 4, count, "every stage records its last run")
}

func TestRunAll(t *testing.T) {
	tree := testutil.NewMeetingTree(t)
	testutil.WriteFile(t, tree.Audio, "Standup 04-04-2025.m4a", "audio")
	testutil.WriteFile(t, tree.Audio, "Standup 04-04-2025 (1).m4a", "audio")

	transcriber := testutil.NewMockTranscriber().WithDefaultResponse(testutil.SampleTranscript)
	generator := testutil.NewMockGenerator().
		SetResponseFor("concise summary", testutil.SampleSummary).
		SetResponseFor("action items", testutil.SampleBacklog)
	r, dao := newTestRunner(t, tree)

	reports, err := r.RunAll(context.Background(), transcriber, generator)
	require.NoError(t, err)
	require.Len(t, reports, 4)
	for _, rep := range reports {
		assert.Equal(t, 1, rep.Done, rep.String())
	}

	assert.Equal(t, 2, generator.GetCallCount())
	assert.Contains(t, testutil.ReadFile(t, r.SummaryPath("Standup 04-04-2025")), testutil.SampleSummary)
	assert.Contains(t, testutil.ReadFile(t, r.BacklogPath()), testutil.SampleBacklog)
	assert.Contains(t, testutil.ReadFile(t, r.DigestPath()), "_Recorded: 2025-04-04_")
	assert.Len(t, dao.GetRecords(), 4)

	r.Wait()
	assert.False(t, dao.WasCloseCalled(), "the runner does not own the ledger")
}

func TestRecordSurvivesLedgerErrors(t *testing.T) {
	tree := testutil.NewMeetingTree(t)
	testutil.WriteFile(t, tree.Audio, "A.m4a", "audio")

	r, dao := newTestRunner(t, tree)
	dao.WithError("Record", errors.New("disk full"))

	rep, err := r.Transcribe(context.Background(), testutil.NewMockTranscriber())
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Done)
	assert.FileExists(t, r.TranscriptPath("A"))
}

func TestReportString(t *testing.T) {
	rep := Report{Stage: model.StageSummarize, Done: 2, Skipped: 1, Failed: 1}
	assert.Equal(t, "summarize: 2 done, 1 skipped, 0 empty, 1 failed", rep.String())
	assert.Equal(t, 4, rep.Total())
}
