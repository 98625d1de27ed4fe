package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ExportID is a task id as found in JSON exports: a string, or the numeric
// millisecond timestamp used by older versions of the app.
type ExportID string

func (id *ExportID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ExportID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("task id must be a string or number: %w", err)
	}
	*id = ExportID(n.String())
	return nil
}

// ExportedTask is one element of a JSON task export. Status may be a label
// or a storage token; DueDate may be ISO or a display date.
type ExportedTask struct {
	ID          ExportID `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Discipline  string   `json:"discipline"`
	Status      string   `json:"status"`
	DueDate     string   `json:"dueDate"`
}

// ImportSkip is an exported task left out of an import.
type ImportSkip struct {
	ID     string `json:"id" yaml:"id"`
	Reason string `json:"reason" yaml:"reason"`
}

// ImportResult summarises an import.
type ImportResult struct {
	Imported int          `json:"imported" yaml:"imported"`
	Skipped  []ImportSkip `json:"skipped" yaml:"skipped"`
}
