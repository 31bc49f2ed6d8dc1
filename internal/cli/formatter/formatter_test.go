package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/formdraft/internal/domain"
	"github.com/alexanderramin/formdraft/internal/form"
)

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := RenderTable([]string{"A", "Name"}, [][]string{
		{StyleGreen.Render("x"), "short"},
		{"longer", "y"},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, lipgloss.Width(lines[2]), lipgloss.Width(lines[0])+len("short")-len("Name"))
	assert.Equal(t, "", RenderTable(nil, nil))
}

func TestHumanTimestamp(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Just now", HumanTimestamp(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", HumanTimestamp(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", HumanTimestamp(now.Add(-3*time.Hour), now))
	assert.Equal(t, "Apr 20, 2025", HumanTimestamp(now.AddDate(0, 0, -11), now))
	assert.Equal(t, "--", HumanTimestamp(time.Time{}, now))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab…", Truncate("abcdef", 3))
	assert.Equal(t, "abcdef", Truncate("abcdef", 0))
}

func TestFormatRecordList(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	out := FormatRecordList([]domain.Record{
		{ID: "0123456789", Name: "Payroll", Status: domain.StatusSubmitted, Timestamp: now},
		{ID: "draft-1", Name: "Working", Status: domain.StatusDraft, Timestamp: now},
	}, "draft-1", now)

	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789")
	assert.Contains(t, out, "Payroll")
	assert.Contains(t, out, "Submitted")
	assert.Contains(t, out, "✎")

	assert.Contains(t, FormatRecordList(nil, "", now), "No records found.")
}

func TestFormatRecord_UsesSchemaLabelsAndVisibility(t *testing.T) {
	rec := domain.Record{
		ID:     "abc",
		Name:   "Payroll",
		Status: domain.StatusDraft,
		FormData: domain.FormData{
			"flowName":            "Payroll",
			"transferMethod":      "SFTP",
			"otherTransferMethod": "carrier pigeon",
			"legacyField":         "kept",
		},
	}
	out := FormatRecord(rec, form.DefaultSchema())

	assert.Contains(t, out, "PAYROLL")
	assert.Contains(t, out, "Flow name")
	assert.NotContains(t, out, "carrier pigeon")
	assert.Contains(t, out, "legacyField")
}
