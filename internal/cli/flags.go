package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/alexanderramin/formdraft/internal/domain"
)

// recordInput collects form data given on the command line.
type recordInput struct {
	name     string
	data     string
	dataFile string
	set      []string
}

func bindRecordFlags(fs *pflag.FlagSet, in *recordInput) {
	fs.StringVar(&in.name, "name", "", "record name")
	fs.StringVar(&in.data, "data", "", "form data as a JSON object")
	fs.StringVar(&in.dataFile, "data-file", "", "read form data from a JSON file")
	fs.StringArrayVar(&in.set, "set", nil, "set one field, as name=value (repeatable)")
}

func (in recordInput) hasData() bool {
	return in.data != "" || in.dataFile != "" || len(in.set) > 0
}

// formData builds a document from base, replaced by --data/--data-file and
// then patched by each --set.
func (in recordInput) formData(base domain.FormData) (domain.FormData, error) {
	out := base.Clone()
	if out == nil {
		out = domain.FormData{}
	}

	raw := in.data
	if in.dataFile != "" {
		b, err := os.ReadFile(in.dataFile)
		if err != nil {
			return nil, fmt.Errorf("reading data file: %w", err)
		}
		raw = string(b)
	}
	if raw != "" {
		var parsed domain.FormData
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			return nil, fmt.Errorf("parsing form data: %w", err)
		}
		for k, v := range parsed {
			out[k] = v
		}
	}

	for _, kv := range in.set {
		k, v, ok := strings.Cut(kv, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --set %q: expected name=value", kv)
		}
		out[k] = v
	}
	return out, nil
}
