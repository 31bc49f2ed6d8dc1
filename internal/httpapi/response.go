package httpapi

import (
	"github.com/alexanderramin/formdraft/internal/domain"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type RecordRequest struct {
	Name     string          `json:"name"`
	FormData domain.FormData `json:"formData"`
}

type FormSnapshotRequest struct {
	Title    *string         `json:"title"`
	FormData domain.FormData `json:"formData"`
}

type SaveDraftResponse struct {
	Saved bool          `json:"saved"`
	Draft domain.Record `json:"draft"`
}

type CreatedResponse struct {
	ID string `json:"id"`
}

// StreamMessage is one frame on /api/stream.
type StreamMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

const (
	StreamSubmissions = "submissions"
	StreamDraft       = "draft"
	StreamAutosaving  = "autosaving"
)
