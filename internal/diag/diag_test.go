package diag

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DDbuding/ComfyUI-Buding-tools/internal/loader"
)

func TestLog_SummaryCountsOutcomes(t *testing.T) {
	t.Parallel()

	log := New()
	log.Append(
		loader.Record{Unit: "a", NodeID: "node-a", Outcome: loader.Loaded},
		loader.Record{Unit: "b", NodeID: "node-b", Outcome: loader.Stubbed, MissingCapabilities: []string{"ffmpeg"}},
		loader.Record{Unit: "c", NodeID: "node-c", Outcome: loader.Loaded},
		loader.Record{Unit: "d", Outcome: loader.Failed, ErrorDetail: "manifest unreadable"},
	)

	summary := log.Summary()
	assert.Equal(t, Summary{Loaded: 2, Stubbed: 1, Failed: 1}, summary)

	records := log.Records()
	require.Len(t, records, 4)
	assert.Equal(t, "a", records[0].Unit)
	assert.Equal(t, "d", records[3].Unit)
}

func TestLog_RecordsReturnsACopy(t *testing.T) {
	t.Parallel()

	log := New()
	log.Append(loader.Record{Unit: "a", Outcome: loader.Loaded})

	records := log.Records()
	records[0].Unit = "mutated"

	assert.Equal(t, "a", log.Records()[0].Unit)
}

func TestLog_ResetStartsANewRun(t *testing.T) {
	t.Parallel()

	log := New()
	firstRunID := log.RunID()
	require.NotEmpty(t, firstRunID)

	log.Append(loader.Record{Unit: "a", Outcome: loader.Failed})
	log.Reset()

	assert.Empty(t, log.Records())
	assert.Equal(t, Summary{}, log.Summary())
	assert.NotEqual(t, firstRunID, log.RunID())
}

func TestLog_ConcurrentReadsDuringReset(t *testing.T) {
	t.Parallel()

	log := New()
	log.Append(loader.Record{Unit: "a", Outcome: loader.Loaded})

	// Readers (diagnostics handler) and Reset (reload loop) run on
	// different goroutines in the serving process.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				assert.NotEmpty(t, log.RunID())
				_ = log.Records()
				_ = log.Summary()
			}
		}()
	}
	for i := 0; i < 100; i++ {
		log.Reset()
		log.Append(loader.Record{Unit: "b", Outcome: loader.Stubbed})
	}
	wg.Wait()
}

func TestRecord_MarshalsOutcomeAsName(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(loader.Record{
		Unit:                "b",
		NodeID:              "node-b",
		Outcome:             loader.Stubbed,
		MissingCapabilities: []string{"ffmpeg"},
	})
	require.NoError(t, err)

	assert.Contains(t, string(data), `"outcome":"stubbed"`)
	assert.Contains(t, string(data), `"missing_capabilities":["ffmpeg"]`)
}
