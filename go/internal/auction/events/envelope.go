package events

import (
	"encoding/json"
	"fmt"
)

// Envelope is the wire frame shared by both directions.
type Envelope struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Decode parses a raw frame into an inbound event. Unknown event types
// return ErrUnknownEvent; missing or garbled fields inside a known payload
// decode to zero values.
func Decode(frame []byte) (Inbound, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return ParseEventPayload(env)
}

// ParseEventPayload decodes the envelope data into the payload for its type.
func ParseEventPayload(env Envelope) (Inbound, error) {
	switch env.Type {
	case EventTypeSnapshot:
		var payload Snapshot
		if err := unmarshalData(env.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeLotStarted:
		var payload LotStarted
		if err := unmarshalData(env.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeTick:
		var payload Tick
		if err := unmarshalData(env.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeBidPlaced:
		var payload BidPlaced
		if err := unmarshalData(env.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeLotSold:
		var payload LotSold
		if err := unmarshalData(env.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeCommentary:
		var payload Commentary
		if err := unmarshalData(env.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Type)
	}
}

// Encode frames an outbound intent.
func Encode(out Outbound) ([]byte, error) {
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", out.Type(), err)
	}
	return json.Marshal(Envelope{Type: out.Type(), Data: data})
}

// EncodeInbound frames an inbound event. Used by test servers and the NATS
// bridge publisher.
func EncodeInbound(in Inbound) ([]byte, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", in.Type(), err)
	}
	return json.Marshal(Envelope{Type: in.Type(), Data: data})
}

// DecodeOutbound parses a frame sent by a client.
func DecodeOutbound(frame []byte) (Outbound, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	switch env.Type {
	case EventTypeJoinRoom:
		var payload JoinRoom
		err := unmarshalData(env.Data, &payload)
		return payload, err
	case EventTypePlaceBid:
		var payload PlaceBid
		err := unmarshalData(env.Data, &payload)
		return payload, err
	case EventTypeSetAutoBid:
		var payload SetAutoBid
		err := unmarshalData(env.Data, &payload)
		return payload, err
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Type)
	}
}

// null or absent data is an empty payload, not an error
func unmarshalData(data json.RawMessage, v any) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return nil
}
