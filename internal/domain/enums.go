package domain

// RecordStatus is the lifecycle state of a stored record.
type RecordStatus string

const (
	StatusDraft     RecordStatus = "draft"
	StatusSubmitted RecordStatus = "submitted"
	StatusTemplate  RecordStatus = "template"
)

// ValidStatuses is the canonical set of accepted status strings.
var ValidStatuses = map[string]bool{
	"draft": true, "submitted": true, "template": true,
}

// ParseStatus converts a user-supplied string into a RecordStatus.
// The boolean is false for unknown values.
func ParseStatus(s string) (RecordStatus, bool) {
	if !ValidStatuses[s] {
		return "", false
	}
	return RecordStatus(s), true
}

// Default display names. Submission and template names get a date suffix.
const (
	DefaultDraftName = "Untitled Draft"
	CopyNamePrefix   = "Copy of "

	nameDateLayout = "2006-01-02"
)
