package repository

import (
	"fmt"
	"sort"
	"time"

	"envirocheck/pkg/schema"
)

// eventRecord is the on-disk form of a changelog event. Only the fields of
// the recorded event type are set.
type eventRecord struct {
	EventType   string            `yaml:"event_type"`
	EventID     string            `yaml:"event_id"`
	Timestamp   time.Time         `yaml:"timestamp"`
	StandardID  string            `yaml:"standard_id,omitempty"`
	Standard    *schema.Standard  `yaml:"standard,omitempty"`
	OldStandard *schema.Standard  `yaml:"old_standard,omitempty"`
	NewStandard *schema.Standard  `yaml:"new_standard,omitempty"`
	Reason      string            `yaml:"reason,omitempty"`
	Standards   []schema.Standard `yaml:"standards,omitempty"`
}

// changelogDocument is the layout of changelog.yaml.
type changelogDocument struct {
	Events              []eventRecord `yaml:"events"`
	LastSnapshot        string        `yaml:"last_snapshot,omitempty"`
	EventsSinceSnapshot int           `yaml:"events_since_snapshot"`
}

func toRecord(event schema.ChangelogEvent) (eventRecord, error) {
	rec := eventRecord{
		EventType: event.EventType(),
		EventID:   event.EventID(),
		Timestamp: event.Timestamp(),
	}

	switch e := event.(type) {
	case *schema.StandardAdded:
		std := e.Standard.Clone()
		rec.Standard = &std
	case *schema.StandardUpdated:
		oldStd, newStd := e.OldStandard.Clone(), e.NewStandard.Clone()
		rec.OldStandard = &oldStd
		rec.NewStandard = &newStd
	case *schema.StandardDeleted:
		std := e.Standard.Clone()
		rec.StandardID = e.StandardID
		rec.Standard = &std
	case *schema.StandardsReplaced:
		rec.Reason = e.Reason
		rec.Standards = cloneStandards(e.Standards)
	default:
		return eventRecord{}, fmt.Errorf("unknown event type: %T", event)
	}

	return rec, nil
}

func (rec eventRecord) toEvent() (schema.ChangelogEvent, error) {
	switch rec.EventType {
	case "StandardAdded":
		if rec.Standard == nil {
			return nil, fmt.Errorf("event %s: missing standard", rec.EventID)
		}
		return &schema.StandardAdded{
			EventID_:   rec.EventID,
			Standard:   *rec.Standard,
			Timestamp_: rec.Timestamp,
		}, nil

	case "StandardUpdated":
		if rec.NewStandard == nil {
			return nil, fmt.Errorf("event %s: missing new_standard", rec.EventID)
		}
		updated := &schema.StandardUpdated{
			EventID_:    rec.EventID,
			NewStandard: *rec.NewStandard,
			Timestamp_:  rec.Timestamp,
		}
		if rec.OldStandard != nil {
			updated.OldStandard = *rec.OldStandard
		}
		return updated, nil

	case "StandardDeleted":
		deleted := &schema.StandardDeleted{
			EventID_:   rec.EventID,
			StandardID: rec.StandardID,
			Timestamp_: rec.Timestamp,
		}
		if rec.Standard != nil {
			deleted.Standard = *rec.Standard
		}
		return deleted, nil

	case "StandardsReplaced":
		return &schema.StandardsReplaced{
			EventID_:   rec.EventID,
			Reason:     rec.Reason,
			Standards:  rec.Standards,
			Timestamp_: rec.Timestamp,
		}, nil

	default:
		return nil, fmt.Errorf("unknown event type: %s", rec.EventType)
	}
}

// ReplayEvents applies events to standards in timestamp order and returns
// the resulting list. The input slice is not modified.
func ReplayEvents(standards []schema.Standard, events []schema.ChangelogEvent) ([]schema.Standard, error) {
	sorted := make([]schema.ChangelogEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp().Before(sorted[j].Timestamp())
	})

	state := cloneStandards(standards)
	for _, event := range sorted {
		next, err := applyEvent(state, event)
		if err != nil {
			return nil, fmt.Errorf("apply event %s: %w", event.EventID(), err)
		}
		state = next
	}

	return state, nil
}

func replayRecords(standards []schema.Standard, records []eventRecord) ([]schema.Standard, error) {
	events := make([]schema.ChangelogEvent, 0, len(records))
	for _, rec := range records {
		event, err := rec.toEvent()
		if err != nil {
			return nil, fmt.Errorf("convert event record: %w", err)
		}
		events = append(events, event)
	}
	return ReplayEvents(standards, events)
}

func applyEvent(standards []schema.Standard, event schema.ChangelogEvent) ([]schema.Standard, error) {
	switch e := event.(type) {
	case *schema.StandardAdded:
		if indexOf(standards, e.Standard.ID) >= 0 {
			return nil, fmt.Errorf("standard %s: %w", e.Standard.ID, ErrDuplicateStandard)
		}
		return append(standards, e.Standard.Clone()), nil

	case *schema.StandardUpdated:
		i := indexOf(standards, e.NewStandard.ID)
		if i < 0 {
			return nil, fmt.Errorf("standard %s: %w", e.NewStandard.ID, ErrStandardNotFound)
		}
		standards[i] = e.NewStandard.Clone()
		return standards, nil

	case *schema.StandardDeleted:
		i := indexOf(standards, e.StandardID)
		if i < 0 {
			return nil, fmt.Errorf("standard %s: %w", e.StandardID, ErrStandardNotFound)
		}
		return append(standards[:i], standards[i+1:]...), nil

	case *schema.StandardsReplaced:
		return cloneStandards(e.Standards), nil

	default:
		return nil, fmt.Errorf("unknown event type: %T", event)
	}
}

func indexOf(standards []schema.Standard, id string) int {
	for i := range standards {
		if standards[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneStandards(standards []schema.Standard) []schema.Standard {
	out := make([]schema.Standard, len(standards))
	for i, s := range standards {
		out[i] = s.Clone()
	}
	return out
}
