package schema

import "time"

// ChangelogEvent is the interface for all regulation store event types.
type ChangelogEvent interface {
	EventType() string
	EventID() string
	Timestamp() time.Time
}

// StandardAdded records a new standard.
type StandardAdded struct {
	EventID_   string    `json:"event_id" yaml:"event_id"`
	Standard   Standard  `json:"standard" yaml:"standard"`
	Timestamp_ time.Time `json:"timestamp" yaml:"timestamp"`
}

func (e *StandardAdded) EventType() string    { return "StandardAdded" }
func (e *StandardAdded) EventID() string      { return e.EventID_ }
func (e *StandardAdded) Timestamp() time.Time { return e.Timestamp_ }

// StandardUpdated records a replacement of an existing standard.
type StandardUpdated struct {
	EventID_    string    `json:"event_id" yaml:"event_id"`
	OldStandard Standard  `json:"old_standard" yaml:"old_standard"` // Snapshot
	NewStandard Standard  `json:"new_standard" yaml:"new_standard"`
	Timestamp_  time.Time `json:"timestamp" yaml:"timestamp"`
}

func (e *StandardUpdated) EventType() string    { return "StandardUpdated" }
func (e *StandardUpdated) EventID() string      { return e.EventID_ }
func (e *StandardUpdated) Timestamp() time.Time { return e.Timestamp_ }

// StandardDeleted records the removal of a standard.
type StandardDeleted struct {
	EventID_   string    `json:"event_id" yaml:"event_id"`
	StandardID string    `json:"standard_id" yaml:"standard_id"`
	Standard   Standard  `json:"standard" yaml:"standard"` // Snapshot
	Timestamp_ time.Time `json:"timestamp" yaml:"timestamp"`
}

func (e *StandardDeleted) EventType() string    { return "StandardDeleted" }
func (e *StandardDeleted) EventID() string      { return e.EventID_ }
func (e *StandardDeleted) Timestamp() time.Time { return e.Timestamp_ }

// StandardsReplaced records a wholesale replacement of the list.
type StandardsReplaced struct {
	EventID_   string     `json:"event_id" yaml:"event_id"`
	Reason     string     `json:"reason" yaml:"reason"` // "init"|"reset"|"import"|"save"
	Standards  []Standard `json:"standards" yaml:"standards"`
	Timestamp_ time.Time  `json:"timestamp" yaml:"timestamp"`
}

func (e *StandardsReplaced) EventType() string    { return "StandardsReplaced" }
func (e *StandardsReplaced) EventID() string      { return e.EventID_ }
func (e *StandardsReplaced) Timestamp() time.Time { return e.Timestamp_ }
