package formatter

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/formdraft/internal/domain"
	"github.com/alexanderramin/formdraft/internal/form"
)

// FormatRecordList renders the registry as a table. currentDraftID marks the
// row mirrored by the draft slot.
func FormatRecordList(records []domain.Record, currentDraftID string, now time.Time) string {
	if len(records) == 0 {
		return Dim("No records found.") + "\n"
	}
	headers := []string{"ID", "Name", "Status", "Saved"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		name := Truncate(r.Name, 40)
		if r.ID != "" && r.ID == currentDraftID {
			name += StyleBlue.Render(" ✎")
		}
		rows = append(rows, []string{
			TruncID(r.ID),
			name,
			StatusPill(r.Status),
			HumanTimestamp(r.Timestamp, now),
		})
	}
	return RenderTable(headers, rows)
}

// FormatRecord renders one record in a box. When schema is non-nil, fields are
// listed in schema order with their labels and hidden fields are skipped.
func FormatRecord(r domain.Record, schema *form.Schema) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", Dim("ID:     "), r.ID)
	fmt.Fprintf(&b, "%s %s\n", Dim("Status: "), StatusPill(r.Status))
	if !r.Timestamp.IsZero() {
		fmt.Fprintf(&b, "%s %s\n", Dim("Saved:  "), r.Timestamp.Local().Format("2006-01-02 15:04:05"))
	}
	if r.ClonedCopy {
		fmt.Fprintf(&b, "%s\n", StyleBlue.Render("Unsaved copy"))
	}
	b.WriteString("\n")
	b.WriteString(formatFields(r.FormData, schema))
	return RenderBox(r.Name, strings.TrimRight(b.String(), "\n"))
}

func formatFields(data domain.FormData, schema *form.Schema) string {
	if len(data) == 0 {
		return Dim("(empty)")
	}

	type line struct{ label, value string }
	var lines []line
	seen := map[string]bool{}

	if schema != nil {
		for _, f := range schema.Fields() {
			seen[f.Name] = true
			if !f.Visible(data) {
				continue
			}
			lines = append(lines, line{f.Label, valueString(data[f.Name])})
		}
	}
	var extra []string
	for k := range data {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		lines = append(lines, line{k, valueString(data[k])})
	}

	width := 0
	for _, l := range lines {
		width = max(width, len(l.label))
	}
	var b strings.Builder
	for _, l := range lines {
		v := l.value
		if v == "" {
			v = Dim("--")
		}
		fmt.Fprintf(&b, "%-*s  %s\n", width, l.label, v)
	}
	return b.String()
}

func valueString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	case map[string]any, domain.FormData, []any:
		data, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(data)
	default:
		return fmt.Sprint(x)
	}
}
