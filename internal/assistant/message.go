package assistant

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/formdraft/internal/form"
)

// MessageTypeUpdateForm carries a field update for the hosted form.
const MessageTypeUpdateForm = "update-form"

// ErrMalformed marks a message that could not be turned into field updates.
var ErrMalformed = errors.New("malformed assistant message")

// Message is the envelope the assistant sends.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ParseMessage decodes one assistant message. Messages of other types yield
// no updates and no error. The payload is a {name, value} object, a JSON
// string encoding one, or an array of them.
func ParseMessage(data []byte) ([]form.FieldUpdate, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if msg.Type != MessageTypeUpdateForm {
		return nil, nil
	}

	payload := bytes.TrimSpace(msg.Payload)
	if len(payload) > 0 && payload[0] == '"' {
		var inner string
		if err := json.Unmarshal(payload, &inner); err != nil {
			return nil, fmt.Errorf("%w: payload string: %v", ErrMalformed, err)
		}
		payload = bytes.TrimSpace([]byte(inner))
	}

	if len(payload) > 0 && payload[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(payload, &items); err != nil {
			return nil, fmt.Errorf("%w: payload list: %v", ErrMalformed, err)
		}
		out := make([]form.FieldUpdate, 0, len(items))
		for _, item := range items {
			u, err := parseUpdate(item)
			if err != nil {
				return nil, err
			}
			out = append(out, u)
		}
		return out, nil
	}

	u, err := parseUpdate(payload)
	if err != nil {
		return nil, err
	}
	return []form.FieldUpdate{u}, nil
}

func parseUpdate(raw []byte) (form.FieldUpdate, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var fields map[string]json.RawMessage
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return form.FieldUpdate{}, fmt.Errorf("%w: payload is not an object", ErrMalformed)
	}

	var name string
	if err := json.Unmarshal(fields["name"], &name); err != nil || name == "" {
		return form.FieldUpdate{}, fmt.Errorf("%w: payload needs a name", ErrMalformed)
	}
	rawValue, ok := fields["value"]
	if !ok {
		return form.FieldUpdate{}, fmt.Errorf("%w: payload for %q has no value", ErrMalformed, name)
	}

	vdec := json.NewDecoder(bytes.NewReader(rawValue))
	vdec.UseNumber()
	var value any
	if err := vdec.Decode(&value); err != nil {
		return form.FieldUpdate{}, fmt.Errorf("%w: value for %q: %v", ErrMalformed, name, err)
	}
	return form.FieldUpdate{Path: name, Value: value}, nil
}
