package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/formdraft/internal/domain"
)

// Record options
type RecordOption func(*domain.Record)

func WithStatus(s domain.RecordStatus) RecordOption {
	return func(r *domain.Record) {
		r.Status = s
	}
}

func WithID(id string) RecordOption {
	return func(r *domain.Record) {
		r.ID = id
	}
}

func WithFormData(d domain.FormData) RecordOption {
	return func(r *domain.Record) {
		r.FormData = d
	}
}

func WithTimestamp(t time.Time) RecordOption {
	return func(r *domain.Record) {
		r.Timestamp = t
	}
}

func AsClonedCopy() RecordOption {
	return func(r *domain.Record) {
		r.ClonedCopy = true
	}
}

// NewTestRecord builds a draft with onboarding form data named name.
func NewTestRecord(name string, opts ...RecordOption) domain.Record {
	r := domain.Record{
		ID:        uuid.New().String(),
		Name:      name,
		Timestamp: time.Now().UTC().Truncate(time.Second),
		FormData:  OnboardingData(name),
		Status:    domain.StatusDraft,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// OnboardingData returns a filled-in onboarding form document.
func OnboardingData(flowName string) domain.FormData {
	return domain.FormData{
		"flowName":          flowName,
		"sourceSystemName":  "Ledger",
		"sourceEnvironment": "Production",
		"targetSystemName":  "Warehouse",
		"targetEnvironment": "Staging",
		"transferMethod":    "SFTP",
		"frequencyType":     "Weekly",
		"dayOfWeek":         "Monday",
		"specificTime":      "02:00",
	}
}

// EmptyOnboardingData returns the onboarding document as a pristine form
// produces it: every field present, nothing filled in.
func EmptyOnboardingData() domain.FormData {
	return domain.FormData{
		"flowName":            "",
		"sourceSystemName":    "",
		"sourceEnvironment":   "",
		"sourceSystemOwner":   "",
		"targetSystemName":    "",
		"targetEnvironment":   "",
		"targetSystemOwner":   "",
		"transferMethod":      "",
		"otherTransferMethod": "",
		"frequencyType":       "",
		"customSchedule":      "",
		"specificTime":        "",
		"dayOfWeek":           "",
		"dayOfMonth":          nil,
	}
}
