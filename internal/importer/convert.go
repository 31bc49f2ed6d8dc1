package importer

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/formdraft/internal/domain"
)

// Convert turns a validated import into a submitted record. The status is
// always forced to submitted. taken reports ids already in the registry; a
// colliding id is replaced by one from newID (a random UUID when nil) so
// registry ids stay unique.
// Call ValidateRecord first; Convert assumes the import is valid.
func Convert(rec *RecordImport, now time.Time, taken func(id string) bool, newID func() string) domain.Record {
	now = now.UTC()

	id := strings.TrimSpace(rec.ID)
	if taken != nil && taken(id) {
		if newID == nil {
			newID = uuid.NewString
		}
		id = newID()
	}

	ts, ok := parseTimestamp(rec.Timestamp)
	if !ok {
		ts = now
	}

	return domain.Record{
		ID:        id,
		Name:      domain.TrimmedOr(rec.Name, domain.DefaultSubmissionName(now)),
		Timestamp: ts,
		FormData:  domain.FormData(rec.FormData).Clone(),
		Status:    domain.StatusSubmitted,
	}
}

func parseTimestamp(v any) (time.Time, bool) {
	switch x := v.(type) {
	case string:
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(x))
		if err != nil {
			return time.Time{}, false
		}
		return t.UTC(), true
	case json.Number:
		ms, err := x.Int64()
		if err != nil || ms <= 0 {
			return time.Time{}, false
		}
		return time.UnixMilli(ms).UTC(), true
	}
	return time.Time{}, false
}

// Encode renders a record the way it is exported: indented JSON.
func Encode(rec domain.Record) ([]byte, error) {
	return json.MarshalIndent(rec, "", "  ")
}
