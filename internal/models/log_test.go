package models

import "testing"

func TestParseLogStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    LogStatus
		wantErr bool
	}{
		{"success", StatusSuccess, false},
		{"relapse", StatusRelapse, false},
		{"Success", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLogStatus(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLogStatus(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLogStatus(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPatchFromInput(t *testing.T) {
	note := "n"
	trigger := int64(2)

	p := PatchFromInput(LogInput{HabitID: 5, Date: "2025-03-01", Status: StatusRelapse, Note: &note, TriggerID: &trigger})
	if p.ClearTrigger {
		t.Error("ClearTrigger set although input has a trigger")
	}
	if p.TriggerID == nil || *p.TriggerID != 2 {
		t.Errorf("TriggerID = %v, want 2", p.TriggerID)
	}
	if p.HabitID == nil || *p.HabitID != 5 || p.Date == nil || *p.Date != "2025-03-01" {
		t.Errorf("unexpected patch: %+v", p)
	}

	p = PatchFromInput(LogInput{HabitID: 5, Date: "2025-03-01", Status: StatusSuccess})
	if !p.ClearTrigger {
		t.Error("ClearTrigger not set for input without trigger")
	}
	if p.Note != nil {
		t.Error("Note should stay nil so the existing note is kept")
	}
}

func TestSortLogsByDateDesc(t *testing.T) {
	logs := []DailyLog{
		{ID: 1, Date: "2025-03-01"},
		{ID: 2, Date: "2025-03-03"},
		{ID: 3, Date: "2025-03-02"},
		{ID: 4, Date: "2025-03-03"},
	}
	SortLogsByDateDesc(logs)

	want := []int64{4, 2, 3, 1}
	for i, id := range want {
		if logs[i].ID != id {
			t.Fatalf("position %d: got ID %d, want %d (%+v)", i, logs[i].ID, id, logs)
		}
	}
}

func TestTokenPairEmpty(t *testing.T) {
	if !(TokenPair{}).Empty() {
		t.Error("zero pair should be empty")
	}
	if (TokenPair{Refresh: "r"}).Empty() {
		t.Error("pair with refresh token should not be empty")
	}
}
