package domain

import (
	"strings"
	"time"
)

// FormData is the serialized state of the hosted form: an arbitrary nested
// document of JSON-compatible values. The engine only inspects it through
// IsMeaningful and FormDataEqual.
type FormData map[string]any

// Record is the unit stored in the registry and in the draft slot.
type Record struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Timestamp time.Time    `json:"timestamp"`
	FormData  FormData     `json:"formData"`
	Status    RecordStatus `json:"status"`

	// ClonedCopy marks a draft produced by copy-on-load from a submitted or
	// template record. The first meaningful save of such a draft mints a
	// fresh id and clears the marker.
	ClonedCopy bool `json:"isClonedCopy,omitempty"`
}

// Clone returns a deep copy of r so callers can never alias engine state.
func (r Record) Clone() Record {
	r.FormData = r.FormData.Clone()
	return r
}

// IsDraft reports whether the record is an editable draft.
func (r Record) IsDraft() bool {
	return r.Status == StatusDraft
}

// DisplayID returns the best short identifier for display.
// Ids longer than 8 characters are truncated.
func (r Record) DisplayID() string {
	if len(r.ID) >= 8 {
		return r.ID[:8]
	}
	return r.ID
}

// HasCopyName reports whether the record carries the copy-on-load name prefix.
func (r Record) HasCopyName() bool {
	return strings.HasPrefix(r.Name, CopyNamePrefix)
}

// Clone returns a deep copy of the document. Nested maps and slices are
// copied; scalar leaves are shared.
func (d FormData) Clone() FormData {
	if d == nil {
		return nil
	}
	out := make(FormData, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case FormData:
		return x.Clone()
	case map[string]any:
		return map[string]any(FormData(x).Clone())
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// DefaultSubmissionName returns the generated label for an unnamed submission.
func DefaultSubmissionName(t time.Time) string {
	return "Submission " + t.Format(nameDateLayout)
}

// DefaultTemplateName returns the generated label for an unnamed template.
func DefaultTemplateName(t time.Time) string {
	return "Template " + t.Format(nameDateLayout)
}

// CopyName returns the name given to a draft cloned from name.
func CopyName(name string) string {
	return CopyNamePrefix + name
}
