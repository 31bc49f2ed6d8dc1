package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/formdraft/internal/domain"
)

var errRecordNotFound = errors.New("record not found")

// resolveRecord finds a record by full id or by a unique id prefix.
func resolveRecord(ctx context.Context, app *App, arg string) (domain.Record, error) {
	if rec, ok := app.Services.Registry.Get(ctx, arg); ok {
		return rec, nil
	}
	var matches []domain.Record
	for _, r := range app.Services.Registry.List(ctx) {
		if strings.HasPrefix(r.ID, arg) {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 0:
		return domain.Record{}, fmt.Errorf("%s: %w", arg, errRecordNotFound)
	case 1:
		return matches[0], nil
	default:
		return domain.Record{}, fmt.Errorf("id prefix %q matches %d records", arg, len(matches))
	}
}
