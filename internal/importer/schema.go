package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrImportFormat is returned when an import file is not a usable record.
var ErrImportFormat = errors.New("invalid import format")

// RecordImport is the JSON structure of an exported record file.
// Timestamp and Status are loosely typed: imports tolerate any value there
// and normalize it during conversion.
type RecordImport struct {
	ID        string         `json:"id"`
	Name      string         `json:"name,omitempty"`
	Timestamp any            `json:"timestamp,omitempty"`
	FormData  map[string]any `json:"formData"`
	Status    any            `json:"status,omitempty"`
}

// ParseRecord decodes an import payload. Numbers inside formData are kept as
// json.Number so integers survive the round trip unchanged.
func ParseRecord(data []byte) (*RecordImport, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var rec RecordImport
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: parsing record: %v", ErrImportFormat, err)
	}
	return &rec, nil
}

// LoadRecordFile reads and parses a record import file.
func LoadRecordFile(path string) (*RecordImport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRecord(data)
}
