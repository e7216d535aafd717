package event

import (
	"encoding/json"
	"fmt"
)

// DecodePayload recovers a typed payload from an event. Events carried
// by the in-process bus hold the concrete struct and assert directly;
// payloads replayed from the dead-letter file arrive as generic JSON
// maps and take the marshal round-trip instead.
func DecodePayload[T any](input interface{}) (T, error) {
	if v, ok := input.(T); ok {
		return v, nil
	}

	var out T
	data, err := json.Marshal(input)
	if err != nil {
		return out, fmt.Errorf("failed to encode payload for decoding: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("failed to decode payload: %w", err)
	}
	return out, nil
}
