// Package testutil provides test doubles and fixtures shared across packages.
//
// Mocks:
//   - MockTranscriber: api.Transcriber and api.Preparer, responses keyed by base file name
//   - MockGenerator: api.Generator, responses keyed by a marker found in the prompt
//   - MockUnitDAO: in-memory repository.UnitDAO
//
// Fixtures:
//   - NewMeetingTree: temp workspace with transcriptions/summaries/action_items
//   - WriteWAV: real PCM WAV files for audio and whisper.cpp tests
//   - FakeBinary: shell scripts standing in for whisper.cpp or ffmpeg
//   - SetupTestLedger / SeedLedger: SQLite (or POSTGRES_TEST_URL) ledger
//
// Usage:
//
//	func TestSummarize(t *testing.T) {
//	    tree := testutil.NewMeetingTree(t)
//	    testutil.WriteFile(t, tree.Transcriptions, "Call.txt", testutil.SampleTranscript)
//	    gen := testutil.NewMockGenerator().WithDefaultResponse(testutil.SampleSummary)
//	    // run the stage with gen, then inspect tree.Summaries
//	}
package testutil
