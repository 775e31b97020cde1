// Package export writes normalized logs to CSV or JSON with habit and
// trigger names resolved.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/habitlog/internal/models"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat accepts "csv" or "json" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (expected csv or json)", s)
	}
}

// FormatFromPath picks the format from the file extension, defaulting to CSV.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatCSV
}

// Names resolves IDs to display names.
type Names struct {
	Habits   map[int64]string
	Triggers map[int64]string
}

// NewNames indexes habits and triggers by ID.
func NewNames(habits []models.Habit, triggers []models.Trigger) Names {
	n := Names{
		Habits:   make(map[int64]string, len(habits)),
		Triggers: make(map[int64]string, len(triggers)),
	}
	for _, h := range habits {
		n.Habits[h.ID] = h.Name
	}
	for _, t := range triggers {
		n.Triggers[t.ID] = t.Name
	}
	return n
}

func (n Names) habit(id int64) string {
	if name, ok := n.Habits[id]; ok {
		return name
	}
	return "Unknown"
}

func (n Names) trigger(id *int64) string {
	if id == nil {
		return ""
	}
	if name, ok := n.Triggers[*id]; ok {
		return name
	}
	return "Unknown"
}

// Write renders logs in the given format.
func Write(w io.Writer, format Format, logs []models.DailyLog, names Names) error {
	switch format {
	case FormatJSON:
		return ToJSON(w, logs, names)
	case FormatCSV:
		return ToCSV(w, logs, names)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteFile creates path and writes logs to it.
func WriteFile(path string, format Format, logs []models.DailyLog, names Names) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}

	if err := Write(f, format, logs, names); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
