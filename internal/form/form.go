// Package form holds the in-process model of the hosted form: its current
// values and title, a dirty flag, and a change-event stream that drives
// autosave.
package form

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/alexanderramin/formdraft/internal/domain"
)

// ErrUnknownField is returned when an update names a field the schema lacks.
var ErrUnknownField = errors.New("unknown form field")

// EventKind distinguishes value changes from title changes.
type EventKind int

const (
	ValueChanged EventKind = iota
	TitleChanged
)

func (k EventKind) String() string {
	if k == TitleChanged {
		return "title"
	}
	return "value"
}

// Event is one observable change to the form.
type Event struct {
	Kind  EventKind
	Path  string
	Value any
}

// FieldUpdate sets one field. Path may be dotted to address nested values.
type FieldUpdate struct {
	Path  string `json:"name"`
	Value any    `json:"value"`
}

// Form is safe for concurrent use. Subscribers run on the goroutine that
// made the change, after the form's lock is released.
type Form struct {
	mu        sync.Mutex
	schema    *Schema
	title     string
	values    domain.FormData
	dirty     bool
	suspended int

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(Event)
}

// New creates a pristine form for schema.
func New(schema *Schema) *Form {
	if schema == nil {
		schema = DefaultSchema()
	}
	return &Form{
		schema: schema,
		values: schema.EmptyValues(),
		subs:   make(map[int]func(Event)),
	}
}

func (f *Form) Schema() *Schema { return f.schema }

// Values returns a deep copy of the current document.
func (f *Form) Values() domain.FormData {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values.Clone()
}

// Value returns the value at a dotted path.
func (f *Form) Value(path string) (any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return lookup(f.values, strings.Split(path, "."))
}

func (f *Form) Title() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.title
}

// Dirty reports whether the form changed since the last MarkClean.
func (f *Form) Dirty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dirty
}

func (f *Form) MarkClean() {
	f.mu.Lock()
	f.dirty = false
	f.mu.Unlock()
}

// Subscribe registers fn for change events and returns a cancel func.
func (f *Form) Subscribe(fn func(Event)) (cancel func()) {
	f.subMu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = fn
	f.subMu.Unlock()

	return func() {
		f.subMu.Lock()
		delete(f.subs, id)
		f.subMu.Unlock()
	}
}

// Suspend stops change events until the matching Resume. Changes made while
// suspended still apply.
func (f *Form) Suspend() {
	f.mu.Lock()
	f.suspended++
	f.mu.Unlock()
}

func (f *Form) Resume() {
	f.mu.Lock()
	if f.suspended > 0 {
		f.suspended--
	}
	f.mu.Unlock()
}

// SetValue sets the value at a dotted path, creating intermediate objects.
// Setting an equal value is not a change and emits nothing.
func (f *Form) SetValue(path string, v any) error {
	ev, err := f.set(path, v)
	if err != nil {
		return err
	}
	f.emit(ev)
	return nil
}

// SetTitle changes the draft title.
func (f *Form) SetTitle(title string) {
	f.mu.Lock()
	if f.title == title {
		f.mu.Unlock()
		return
	}
	f.title = title
	f.dirty = true
	quiet := f.suspended > 0
	f.mu.Unlock()

	if !quiet {
		f.emit([]Event{{Kind: TitleChanged, Value: title}})
	}
}

// Patch applies updates in order. Updates naming unknown fields are skipped
// and reported in the returned error; the rest still apply.
func (f *Form) Patch(updates []FieldUpdate) error {
	var errs []error
	var events []Event
	for _, u := range updates {
		ev, err := f.set(u.Path, u.Value)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		events = append(events, ev...)
	}
	f.emit(events)
	return errors.Join(errs...)
}

// Reset returns the form to its pristine state and emits one value event.
func (f *Form) Reset() {
	f.mu.Lock()
	f.title = ""
	f.values = f.schema.EmptyValues()
	f.dirty = false
	quiet := f.suspended > 0
	f.mu.Unlock()

	if !quiet {
		f.emit([]Event{{Kind: ValueChanged}})
	}
}

// ApplySilently replaces title and values without emitting events and leaves
// the form clean. Fields missing from data are reset to empty.
func (f *Form) ApplySilently(title string, data domain.FormData) {
	values := f.schema.EmptyValues()
	for k, v := range data.Clone() {
		values[k] = v
	}

	f.mu.Lock()
	f.title = title
	f.values = values
	f.dirty = false
	f.mu.Unlock()
}

func (f *Form) set(path string, v any) ([]Event, error) {
	parts := strings.Split(strings.TrimSpace(path), ".")
	if parts[0] == "" {
		return nil, fmt.Errorf("empty field path")
	}
	if len(f.schema.Fields()) > 0 {
		if _, ok := f.schema.Field(parts[0]); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, parts[0])
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if cur, ok := lookup(f.values, parts); ok && reflect.DeepEqual(cur, v) {
		return nil, nil
	}
	assign(f.values, parts, v)
	f.dirty = true
	if f.suspended > 0 {
		return nil, nil
	}
	return []Event{{Kind: ValueChanged, Path: path, Value: v}}, nil
}

func (f *Form) emit(events []Event) {
	if len(events) == 0 {
		return
	}
	f.subMu.Lock()
	fns := make([]func(Event), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.subMu.Unlock()

	for _, ev := range events {
		for _, fn := range fns {
			fn(ev)
		}
	}
}

func lookup(m map[string]any, parts []string) (any, bool) {
	v, ok := m[parts[0]]
	if !ok || len(parts) == 1 {
		return v, ok
	}
	switch next := v.(type) {
	case map[string]any:
		return lookup(next, parts[1:])
	case domain.FormData:
		return lookup(next, parts[1:])
	}
	return nil, false
}

func assign(m map[string]any, parts []string, v any) {
	if len(parts) == 1 {
		m[parts[0]] = v
		return
	}
	var next map[string]any
	switch cur := m[parts[0]].(type) {
	case map[string]any:
		next = cur
	case domain.FormData:
		next = cur
	default:
		next = make(map[string]any)
		m[parts[0]] = next
	}
	assign(next, parts[1:], v)
}
