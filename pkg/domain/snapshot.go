package domain

import (
	"encoding/json"
	"time"
)

// SnapshotVersion is the current envelope format.
const SnapshotVersion = 1

// Snapshot is the persisted form of a feature state for one session.
// State holds the feature's JSON encoding; stores treat it as opaque bytes.
type Snapshot struct {
	SessionID string          `json:"session_id"`
	Feature   string          `json:"feature"`
	Version   int             `json:"version"`
	State     json.RawMessage `json:"state"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewSnapshot encodes state into a snapshot envelope.
func NewSnapshot(sessionID, feature string, state any) (*Snapshot, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		SessionID: sessionID,
		Feature:   feature,
		Version:   SnapshotVersion,
		State:     data,
		UpdatedAt: time.Now().UTC(),
	}, nil
}

// Decode unmarshals the snapshot state into out.
func (s *Snapshot) Decode(out any) error {
	return json.Unmarshal(s.State, out)
}

// Clone returns a deep copy so callers cannot mutate shared bytes.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	c.State = append(json.RawMessage(nil), s.State...)
	return &c
}
