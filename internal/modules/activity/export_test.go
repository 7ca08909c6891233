package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExportText(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	ts := time.Date(2025, 6, 1, 10, 0, 5, 0, ist)
	records := []Record{
		{Timestamp: ts, Action: ActionGenerated, Status: StatusSuccess, City: "Paris"},
		{Timestamp: ts, Action: ActionFailed, Status: StatusError, City: "Rome", Error: "model invocation timeout"},
	}

	want := "[2025-06-01 10:00:05 IST] [Success] Itinerary Generated | City: Paris\n" +
		"[2025-06-01 10:00:05 IST] [Error] Itinerary Generation Failed | City: Rome | Error: model invocation timeout\n"
	assert.Equal(t, want, ExportText(records))
	assert.Empty(t, ExportText(nil))
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 5, 3, 0, time.UTC)
	assert.Equal(t, "system_logs_20250601_090503.txt", ExportFilename(now))
}

func TestFields(t *testing.T) {
	r := Record{
		ID:        "r1",
		Timestamp: time.Date(2025, 6, 1, 10, 0, 0, 0, time.FixedZone("IST", 19800)),
		Action:    ActionGenerated,
		Status:    StatusSuccess,
		City:      "Paris",
		Interests: "museums, food",
	}
	f := r.Fields()
	assert.Equal(t, "2025-06-01 10:00:00 IST", f["timestamp"])
	for _, k := range []string{"timestamp", "action", "city", "interests", "status"} {
		assert.Contains(t, f, k)
	}
	assert.NotContains(t, f, "error")

	r.Error = "boom"
	r.Stage = "invoking"
	assert.Equal(t, "boom", r.Fields()["error"])
	assert.Equal(t, "invoking", r.Fields()["stage"])
}
