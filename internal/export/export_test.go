package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitlog/internal/models"
)

func sampleData() ([]models.DailyLog, Names) {
	note := "after dinner"
	trigger := int64(3)
	missing := int64(99)

	logs := []models.DailyLog{
		{ID: 1, HabitID: 5, Date: "2025-03-02", Status: models.StatusRelapse, Note: &note, TriggerID: &trigger},
		{ID: 2, HabitID: 5, Date: "2025-03-01", Status: models.StatusSuccess},
		{ID: 3, HabitID: 7, Date: "2025-03-01", Status: models.StatusRelapse, TriggerID: &missing},
	}

	names := NewNames(
		[]models.Habit{{ID: 5, Name: "No sugar"}},
		[]models.Trigger{{ID: 3, Name: "Stress"}},
	)
	return logs, names
}

func TestToCSV(t *testing.T) {
	logs, names := sampleData()

	var buf bytes.Buffer
	if err := ToCSV(&buf, logs, names); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}

	if records[0][0] != "ID" || records[0][3] != "Habit" {
		t.Errorf("unexpected header: %v", records[0])
	}

	want := []string{"1", "2025-03-02", "5", "No sugar", "relapse", "3", "Stress", "after dinner"}
	for i, v := range want {
		if records[1][i] != v {
			t.Errorf("row 1 col %d = %q, want %q", i, records[1][i], v)
		}
	}

	if records[2][5] != "" || records[2][6] != "" || records[2][7] != "" {
		t.Errorf("success row should have no trigger or note: %v", records[2])
	}
	if records[3][3] != "Unknown" || records[3][6] != "Unknown" {
		t.Errorf("unresolved names should read Unknown: %v", records[3])
	}
}

func TestToJSON(t *testing.T) {
	logs, names := sampleData()
	fixed := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	defer func() { now = time.Now }()

	var buf bytes.Buffer
	if err := ToJSON(&buf, logs, names); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	var got jsonExport
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.ExportedAt != "2025-03-03T12:00:00Z" {
		t.Errorf("exported_at = %q", got.ExportedAt)
	}
	if got.Count != 3 || len(got.Entries) != 3 {
		t.Fatalf("count = %d, entries = %d", got.Count, len(got.Entries))
	}
	first := got.Entries[0]
	if first.Habit != "No sugar" || first.Trigger != "Stress" || first.Note != "after dinner" {
		t.Errorf("unexpected first entry: %+v", first)
	}
	if got.Entries[1].TriggerID != nil {
		t.Errorf("success entry has trigger: %+v", got.Entries[1])
	}
}

func TestToJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := ToJSON(&buf, nil, Names{}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"entries": []`)) {
		t.Errorf("empty export should contain an empty entries array: %s", buf.String())
	}
}

func TestWriteFile(t *testing.T) {
	logs, names := sampleData()
	dir := t.TempDir()

	for _, name := range []string{"logs.csv", "logs.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := WriteFile(path, FormatFromPath(path), logs, names); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Contains(data, []byte("No sugar")) {
				t.Errorf("%s does not contain habit name", name)
			}
		})
	}

	if err := WriteFile(filepath.Join(dir, "missing", "x.csv"), FormatCSV, logs, names); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{"JSON", FormatJSON, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}

	if FormatFromPath("out.JSON") != FormatJSON || FormatFromPath("out.txt") != FormatCSV {
		t.Error("FormatFromPath picked the wrong format")
	}
}
