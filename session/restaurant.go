package session

import (
	"encoding/json"
	"fmt"
)

// Restaurant is the candidate blob produced by the places collaborator. The
// service only ever reads its id; name, rating, price level, location and
// whatever else the collaborator attaches pass through byte-for-byte.
type Restaurant struct {
	ID  string
	raw json.RawMessage
}

// MarshalJSON emits the original blob unmodified when one was captured.
func (r Restaurant) MarshalJSON() ([]byte, error) {
	if r.raw == nil {
		return json.Marshal(struct {
			ID string `json:"id"`
		}{ID: r.ID})
	}
	return r.raw, nil
}

// UnmarshalJSON keeps the raw bytes and lifts out the id used for roster
// deduplication and vote lookups.
func (r *Restaurant) UnmarshalJSON(data []byte) error {
	var head struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return fmt.Errorf("restaurant must be a JSON object: %w", err)
	}
	r.ID = head.ID
	r.raw = append(json.RawMessage(nil), data...)
	return nil
}
