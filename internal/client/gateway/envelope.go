package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EnvelopeKind tags the shape a backend used to wrap its data.
type EnvelopeKind int

const (
	// EnvelopeBare is a payload returned directly: [...] or {...}.
	EnvelopeBare EnvelopeKind = iota + 1
	// EnvelopeData is {"data": ...}.
	EnvelopeData
	// EnvelopeSuccessData is {"success": bool, "data": ...}.
	EnvelopeSuccessData
)

func (k EnvelopeKind) String() string {
	switch k {
	case EnvelopeBare:
		return "bare"
	case EnvelopeData:
		return "data"
	case EnvelopeSuccessData:
		return "success+data"
	default:
		return "unknown"
	}
}

// Envelope is the normalised form of a response payload.
type Envelope struct {
	Kind    EnvelopeKind
	Success bool
	Message string
	Data    json.RawMessage
}

type envelopeProbe struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// DecodeEnvelope classifies payload. A {"success": false} envelope is
// reported as a *RequestError carrying the backend message.
func DecodeEnvelope(payload json.RawMessage) (Envelope, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return Envelope{}, ErrMalformedPayload
	}
	if trimmed[0] != '{' {
		return Envelope{Kind: EnvelopeBare, Success: true, Data: json.RawMessage(trimmed)}, nil
	}

	var probe envelopeProbe
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	msg := probe.Message
	if msg == "" {
		msg = probe.Error
	}

	switch {
	case probe.Success != nil:
		env := Envelope{Kind: EnvelopeSuccessData, Success: *probe.Success, Message: msg, Data: probe.Data}
		if !env.Success {
			return env, &RequestError{StatusCode: 200, Payload: json.RawMessage(trimmed), Message: msg}
		}
		return env, nil
	case probe.Data != nil:
		return Envelope{Kind: EnvelopeData, Success: true, Message: msg, Data: probe.Data}, nil
	default:
		return Envelope{Kind: EnvelopeBare, Success: true, Data: json.RawMessage(trimmed)}, nil
	}
}

// DecodeList extracts a list from any of the three envelope shapes. On any
// failure it returns an empty, non-nil slice alongside the error so callers
// can render "no items" and still surface the error.
func DecodeList[T any](payload json.RawMessage) ([]T, error) {
	env, err := DecodeEnvelope(payload)
	if err != nil {
		return []T{}, err
	}
	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []T{}, nil
	}
	if data[0] != '[' {
		return []T{}, fmt.Errorf("%w: expected a list in %s envelope", ErrMalformedPayload, env.Kind)
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return []T{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// DecodeObject extracts a single object from any envelope shape.
func DecodeObject[T any](payload json.RawMessage) (*T, error) {
	env, err := DecodeEnvelope(payload)
	if err != nil {
		return nil, err
	}
	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || data[0] != '{' {
		return nil, fmt.Errorf("%w: expected an object in %s envelope", ErrMalformedPayload, env.Kind)
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return &out, nil
}
