package notify

import "github.com/alexanderramin/formdraft/internal/domain"

// Bus groups the two observable engine states: the registry list and the
// current draft (nil when the slot is empty).
type Bus struct {
	Submissions *Channel[[]domain.Record]
	Draft       *Channel[*domain.Record]
}

// NewBus returns a bus with an empty registry and no current draft.
func NewBus() *Bus {
	return &Bus{
		Submissions: NewChannel[[]domain.Record](nil),
		Draft:       NewChannel[*domain.Record](nil),
	}
}

// PublishSubmissions publishes a copy of list so subscribers never share the
// engine's backing array.
func (b *Bus) PublishSubmissions(list []domain.Record) {
	out := make([]domain.Record, len(list))
	for i, r := range list {
		out[i] = r.Clone()
	}
	b.Submissions.Publish(out)
}

// PublishDraft publishes a copy of rec, or nil when the slot is empty.
func (b *Bus) PublishDraft(rec *domain.Record) {
	if rec == nil {
		b.Draft.Publish(nil)
		return
	}
	cp := rec.Clone()
	b.Draft.Publish(&cp)
}
