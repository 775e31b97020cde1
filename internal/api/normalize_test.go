package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitlog/internal/models"
)

func TestNormalizeLog(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantHabit   int64
		wantTrigger *int64
	}{
		{
			name:      "legacy names",
			raw:       `{"id":1,"habit":5,"date":"2025-03-01","status":"success","note":null,"trigger":null}`,
			wantHabit: 5,
		},
		{
			name:        "canonical names",
			raw:         `{"id":1,"habit_id":5,"date":"2025-03-01","status":"relapse","trigger_id":2}`,
			wantHabit:   5,
			wantTrigger: ptr(int64(2)),
		},
		{
			name:        "canonical wins over legacy",
			raw:         `{"id":1,"habit":4,"habit_id":5,"date":"2025-03-01","status":"relapse","trigger":1,"trigger_id":2}`,
			wantHabit:   5,
			wantTrigger: ptr(int64(2)),
		},
		{
			name:        "null canonical falls back",
			raw:         `{"id":1,"habit":5,"habit_id":null,"date":"2025-03-01","status":"relapse","trigger":7,"trigger_id":null}`,
			wantHabit:   5,
			wantTrigger: ptr(int64(7)),
		},
		{
			name:        "numeric strings",
			raw:         `{"id":1,"habit":"5","date":"2025-03-01","status":"relapse","trigger":"9"}`,
			wantHabit:   5,
			wantTrigger: ptr(int64(9)),
		},
		{
			name:      "empty string trigger",
			raw:       `{"id":1,"habit":5,"date":"2025-03-01","status":"success","trigger":""}`,
			wantHabit: 5,
		},
		{
			name:        "integral float",
			raw:         `{"id":1,"habit":5.0,"date":"2025-03-01","status":"relapse","trigger":3e0}`,
			wantHabit:   5,
			wantTrigger: ptr(int64(3)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w wireLog
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &w))

			got := normalizeLog(w)
			assert.Equal(t, int64(1), got.ID)
			assert.Equal(t, tt.wantHabit, got.HabitID)
			assert.Equal(t, tt.wantTrigger, got.TriggerID)
			assert.Equal(t, "2025-03-01", got.Date)
		})
	}
}

func TestRelationIDRejectsGarbage(t *testing.T) {
	for _, raw := range []string{`"abc"`, `1.5`, `true`} {
		var r relationID
		assert.Error(t, json.Unmarshal([]byte(raw), &r), raw)
	}
}

func TestNormalizeLogsNeverNil(t *testing.T) {
	got := normalizeLogs(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestToCreatePayload(t *testing.T) {
	raw, err := json.Marshal(toCreatePayload(models.LogInput{HabitID: 5, Date: "2025-03-01", Status: models.StatusSuccess}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"habit":5,"date":"2025-03-01","status":"success"}`, string(raw))

	raw, err = json.Marshal(toCreatePayload(models.LogInput{
		HabitID:   5,
		Date:      "2025-03-01",
		Status:    models.StatusRelapse,
		Note:      ptr("x"),
		TriggerID: ptr(int64(2)),
	}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"habit":5,"date":"2025-03-01","status":"relapse","note":"x","trigger":2}`, string(raw))
}

func TestToPatchPayload(t *testing.T) {
	tests := []struct {
		name  string
		patch models.LogPatch
		want  string
	}{
		{name: "empty", patch: models.LogPatch{}, want: `{}`},
		{name: "note only", patch: models.LogPatch{Note: ptr("n")}, want: `{"note":"n"}`},
		{name: "status and date", patch: models.LogPatch{Status: ptr(models.StatusRelapse), Date: ptr("2025-03-02")}, want: `{"status":"relapse","date":"2025-03-02"}`},
		{name: "clear trigger", patch: models.LogPatch{ClearTrigger: true}, want: `{"trigger":null}`},
		{name: "trigger wins over clear", patch: models.LogPatch{TriggerID: ptr(int64(4)), ClearTrigger: true}, want: `{"trigger":4}`},
		{
			name:  "from input",
			patch: models.PatchFromInput(models.LogInput{HabitID: 5, Date: "2025-03-01", Status: models.StatusSuccess}),
			want:  `{"habit":5,"date":"2025-03-01","status":"success","trigger":null}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(toPatchPayload(tt.patch))
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(raw))
		})
	}
}
